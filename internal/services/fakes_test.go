package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"survey-service/internal/analytics"
	"survey-service/internal/config"
	"survey-service/internal/models"
	"survey-service/internal/repository"
	"survey-service/internal/worker"

	"github.com/google/uuid"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

var testDay = time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

const cleanPayload = `{
	"headOfFamily": "Ramesh Patel",
	"contactNumber": "9876543210",
	"areaName": "Anand Nagar",
	"areaType": "Urban",
	"houseNo": "12",
	"totalIncome": 12000,
	"familyMembers": [
		{"name": "Ramesh Patel", "age": 42, "gender": "Male"},
		{"name": "Sita Patel", "age": 38, "gender": "Female"}
	]
}`

func testRecord(id, submitterID string, payload string) models.SurveyRecord {
	return models.SurveyRecord{
		ID:          id,
		SubmitterID: submitterID,
		SubmittedAt: testDay,
		Payload:     models.DecodePayload([]byte(payload)),
	}
}

func testCacheConfig() config.CacheConfig {
	return config.CacheConfig{RedisTTL: time.Minute, LocalTTL: time.Minute, LocalPurge: time.Minute}
}

type fakeSurveyStore struct {
	mu        sync.Mutex
	records   []models.SurveyRecord
	listCalls int
	listErr   error
}

func (f *fakeSurveyStore) ListSurveys(ctx context.Context) ([]models.SurveyRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.SurveyRecord, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeSurveyStore) GetSurvey(ctx context.Context, id string) (models.SurveyRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return models.SurveyRecord{}, repository.ErrSurveyNotFound
}

func (f *fakeSurveyStore) SetApproved(ctx context.Context, id string, approved bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID == id {
			f.records[i].Approved = approved
			return nil
		}
	}
	return repository.ErrSurveyNotFound
}

type fakeSnapshotStore struct {
	data    map[string][]byte
	getErr  error
	deleted []string
}

func newFakeSnapshotStore() *fakeSnapshotStore {
	return &fakeSnapshotStore{data: map[string][]byte{}}
}

func (f *fakeSnapshotStore) Set(ctx context.Context, key string, data []byte, expiration time.Duration) error {
	f.data[key] = data
	return nil
}

func (f *fakeSnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.data[key]
	if !ok {
		return nil, repository.ErrCacheMiss
	}
	return data, nil
}

func (f *fakeSnapshotStore) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	prefix := strings.TrimSuffix(pattern, "*")
	n := 0
	for k := range f.data {
		if strings.HasPrefix(k, prefix) {
			delete(f.data, k)
			f.deleted = append(f.deleted, k)
			n++
		}
	}
	return n, nil
}

type fakeAssignmentStore struct {
	saved     []models.SurveyAssignment
	createErr error
}

func (f *fakeAssignmentStore) CreateAssignments(ctx context.Context, assignments []models.SurveyAssignment) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.saved = append(f.saved, assignments...)
	return nil
}

func (f *fakeAssignmentStore) ListAssignments(ctx context.Context) ([]models.SurveyAssignment, error) {
	return f.saved, nil
}

func (f *fakeAssignmentStore) ListAssignmentsBySurveyor(ctx context.Context, surveyorID string) ([]models.SurveyAssignment, error) {
	var out []models.SurveyAssignment
	for _, a := range f.saved {
		if a.SurveyorID == surveyorID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeJobStore struct {
	mu           sync.Mutex
	jobs         map[uuid.UUID]models.ExportJob
	runningErr   error
	completeErr  error
	failedReason map[uuid.UUID]string
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{jobs: map[uuid.UUID]models.ExportJob{}, failedReason: map[uuid.UUID]string{}}
}

func (f *fakeJobStore) CreateJob(ctx context.Context, job *models.ExportJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs[job.ID] = *job
	return nil
}

func (f *fakeJobStore) GetJob(ctx context.Context, id uuid.UUID) (models.ExportJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok {
		return models.ExportJob{}, repository.ErrExportJobNotFound
	}
	return job, nil
}

func (f *fakeJobStore) setStatus(id uuid.UUID, status models.ExportStatus) (models.ExportJob, error) {
	job, ok := f.jobs[id]
	if !ok {
		return job, repository.ErrExportJobNotFound
	}
	job.Status = status
	f.jobs[id] = job
	return job, nil
}

func (f *fakeJobStore) MarkRunning(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.runningErr != nil {
		return f.runningErr
	}
	_, err := f.setStatus(id, models.ExportRunning)
	return err
}

func (f *fakeJobStore) MarkCompleted(ctx context.Context, id uuid.UUID, objectName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.completeErr != nil {
		return f.completeErr
	}
	job, err := f.setStatus(id, models.ExportCompleted)
	if err != nil {
		return err
	}
	job.ObjectName = &objectName
	f.jobs[id] = job
	return nil
}

func (f *fakeJobStore) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failedReason[id] = reason
	_, err := f.setStatus(id, models.ExportFailed)
	return err
}

type fakeStorage struct {
	objects   map[string][]byte
	types     map[string]string
	uploadErr error
	deleted   []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeStorage) UploadBytes(ctx context.Context, bucketName, objectName string, data []byte, contentType string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.objects[bucketName+"/"+objectName] = data
	f.types[bucketName+"/"+objectName] = contentType
	return nil
}

func (f *fakeStorage) GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	return "https://files.local/" + bucketName + "/" + objectName, nil
}

func (f *fakeStorage) DeleteFile(ctx context.Context, bucketName, objectName string) error {
	f.deleted = append(f.deleted, bucketName+"/"+objectName)
	delete(f.objects, bucketName+"/"+objectName)
	return nil
}

// capturingQueue keeps submitted jobs so tests decide when they run.
type capturingQueue struct {
	jobs []worker.Job
	full bool
}

func (q *capturingQueue) TrySubmit(job worker.Job) error {
	if q.full {
		return worker.ErrQueueFull
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *capturingQueue) runAll(t *testing.T) []error {
	t.Helper()
	var errs []error
	for _, job := range q.jobs {
		errs = append(errs, job(context.Background()))
	}
	q.jobs = nil
	return errs
}

type fakeAlerter struct {
	recipients []string
	reports    []analytics.QualityReport
	err        error
}

func (f *fakeAlerter) NotifyPoorQuality(ctx context.Context, recipientID string, report analytics.QualityReport) error {
	if f.err != nil {
		return f.err
	}
	f.recipients = append(f.recipients, recipientID)
	f.reports = append(f.reports, report)
	return nil
}

var errBoom = errors.New("boom")
