package services

import (
	"context"
	"time"

	"survey-service/internal/analytics"
	"survey-service/internal/models"
	"survey-service/internal/worker"

	"github.com/google/uuid"
)

// The repositories in internal/repository satisfy these.

type SurveyStore interface {
	ListSurveys(ctx context.Context) ([]models.SurveyRecord, error)
	GetSurvey(ctx context.Context, id string) (models.SurveyRecord, error)
	SetApproved(ctx context.Context, id string, approved bool) error
}

type AssignmentStore interface {
	CreateAssignments(ctx context.Context, assignments []models.SurveyAssignment) error
	ListAssignments(ctx context.Context) ([]models.SurveyAssignment, error)
	ListAssignmentsBySurveyor(ctx context.Context, surveyorID string) ([]models.SurveyAssignment, error)
}

type ExportJobStore interface {
	CreateJob(ctx context.Context, job *models.ExportJob) error
	GetJob(ctx context.Context, id uuid.UUID) (models.ExportJob, error)
	MarkRunning(ctx context.Context, id uuid.UUID) error
	MarkCompleted(ctx context.Context, id uuid.UUID, objectName string) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}

type SnapshotStore interface {
	Set(ctx context.Context, key string, data []byte, expiration time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	DeleteByPattern(ctx context.Context, pattern string) (int, error)
}

type ObjectStorage interface {
	UploadBytes(ctx context.Context, bucketName, objectName string, data []byte, contentType string) error
	GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error)
	DeleteFile(ctx context.Context, bucketName, objectName string) error
}

type JobQueue interface {
	TrySubmit(job worker.Job) error
}

// QualityAlerter tells a submitter that one of their surveys scored poorly.
type QualityAlerter interface {
	NotifyPoorQuality(ctx context.Context, recipientID string, report analytics.QualityReport) error
}
