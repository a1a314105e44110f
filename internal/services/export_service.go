package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"survey-service/internal/models"

	"github.com/google/uuid"
)

var ErrExportQueueFull = errors.New("export queue is full")

const scheduledRequester = "scheduler"

type ExportService struct {
	jobRepo          ExportJobStore
	analyticsService *AnalyticsService
	storage          ObjectStorage
	queue            JobQueue
	bucket           string
	presignExpiry    time.Duration
}

func NewExportService(
	jobRepo ExportJobStore,
	analyticsService *AnalyticsService,
	storage ObjectStorage,
	queue JobQueue,
	bucket string,
	presignExpiry time.Duration,
) *ExportService {
	return &ExportService{
		jobRepo:          jobRepo,
		analyticsService: analyticsService,
		storage:          storage,
		queue:            queue,
		bucket:           bucket,
		presignExpiry:    presignExpiry,
	}
}

// RequestExport records a queued job and hands it to the worker pool. When
// the pool is saturated the job is marked failed and ErrExportQueueFull is
// returned.
func (s *ExportService) RequestExport(ctx context.Context, requestedBy string, req models.ExportRequest) (models.ExportJob, error) {
	if err := req.Filter.Validate(); err != nil {
		return models.ExportJob{}, err
	}
	switch req.Kind {
	case models.ExportMastersheet, models.ExportCSV:
	default:
		return models.ExportJob{}, fmt.Errorf("unsupported export kind: %s", req.Kind)
	}

	job := models.ExportJob{
		ID:          uuid.New(),
		Kind:        req.Kind,
		Status:      models.ExportQueued,
		RequestedBy: requestedBy,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.jobRepo.CreateJob(ctx, &job); err != nil {
		return models.ExportJob{}, err
	}

	jobID, kind, filter := job.ID, job.Kind, req.Filter
	err := s.queue.TrySubmit(func(ctx context.Context) error {
		return s.RunExport(ctx, jobID, kind, filter)
	})
	if err != nil {
		slog.Error("failed to queue export job", "job_id", job.ID, "error", err)
		s.markFailed(ctx, job.ID, err)
		return models.ExportJob{}, fmt.Errorf("%w: %v", ErrExportQueueFull, err)
	}

	slog.Info("export job queued", "job_id", job.ID, "kind", job.Kind, "requested_by", requestedBy)
	return job, nil
}

// RunExport renders the artifact, uploads it and completes the job. It runs
// on a pool worker. Every exit path leaves the job completed or failed,
// including a ctx canceled before the job started.
func (s *ExportService) RunExport(ctx context.Context, jobID uuid.UUID, kind models.ExportKind, filter models.SurveyFilter) error {
	if err := ctx.Err(); err != nil {
		err = fmt.Errorf("export %s abandoned before start: %w", jobID, err)
		s.markFailed(ctx, jobID, err)
		return err
	}
	if err := s.jobRepo.MarkRunning(ctx, jobID); err != nil {
		err = fmt.Errorf("failed to mark export %s running: %w", jobID, err)
		s.markFailed(ctx, jobID, err)
		return err
	}

	data, contentType, ext, err := s.render(ctx, kind, filter)
	if err != nil {
		s.markFailed(ctx, jobID, err)
		return err
	}

	objectName := fmt.Sprintf("%s/%s/%s.%s", kind, time.Now().UTC().Format(models.DateLayout), jobID, ext)
	if err := s.storage.UploadBytes(ctx, s.bucket, objectName, data, contentType); err != nil {
		s.markFailed(ctx, jobID, err)
		return err
	}

	if err := s.jobRepo.MarkCompleted(ctx, jobID, objectName); err != nil {
		slog.Error("failed to complete export job, removing artifact", "job_id", jobID, "object", objectName, "error", err)
		if delErr := s.storage.DeleteFile(context.WithoutCancel(ctx), s.bucket, objectName); delErr != nil {
			slog.Error("failed to remove orphaned export", "object", objectName, "error", delErr)
		}
		return err
	}

	slog.Info("export job completed", "job_id", jobID, "kind", kind, "object", objectName, "bytes", len(data))
	return nil
}

func (s *ExportService) render(ctx context.Context, kind models.ExportKind, filter models.SurveyFilter) ([]byte, string, string, error) {
	switch kind {
	case models.ExportMastersheet:
		matrix, err := s.analyticsService.GetMastersheet(ctx, filter)
		if err != nil {
			return nil, "", "", err
		}
		data, err := RenderMastersheetWorkbook(matrix)
		return data, xlsxContentType, "xlsx", err
	case models.ExportCSV:
		records, err := s.analyticsService.LoadRecords(ctx, filter)
		if err != nil {
			return nil, "", "", err
		}
		data, err := RenderFamilyCSV(records)
		return data, csvContentType, "csv", err
	default:
		return nil, "", "", fmt.Errorf("unsupported export kind: %s", kind)
	}
}

func (s *ExportService) markFailed(ctx context.Context, jobID uuid.UUID, cause error) {
	if err := s.jobRepo.MarkFailed(context.WithoutCancel(ctx), jobID, cause.Error()); err != nil {
		slog.Error("failed to mark export job failed", "job_id", jobID, "error", err)
	}
}

// GetExport returns the job, with a presigned download URL once the artifact
// exists.
func (s *ExportService) GetExport(ctx context.Context, jobID uuid.UUID) (models.ExportJob, error) {
	job, err := s.jobRepo.GetJob(ctx, jobID)
	if err != nil {
		return models.ExportJob{}, err
	}
	if job.Status != models.ExportCompleted || job.ObjectName == nil {
		return job, nil
	}

	url, err := s.storage.GetPresignedURL(ctx, s.bucket, *job.ObjectName, s.presignExpiry)
	if err != nil {
		slog.Error("failed to presign export", "job_id", jobID, "object", *job.ObjectName, "error", err)
		return models.ExportJob{}, err
	}
	job.DownloadURL = url
	return job, nil
}

// ScheduledMastersheetExport queues the unfiltered mastersheet. It is
// registered on the cron scheduler.
func (s *ExportService) ScheduledMastersheetExport(ctx context.Context) error {
	_, err := s.RequestExport(ctx, scheduledRequester, models.ExportRequest{Kind: models.ExportMastersheet})
	return err
}
