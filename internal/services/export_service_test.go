package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"survey-service/internal/analytics"
	"survey-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testBucket = "survey-exports"

type exportFixture struct {
	svc     *ExportService
	jobs    *fakeJobStore
	storage *fakeStorage
	queue   *capturingQueue
}

func newExportFixture() exportFixture {
	store := &fakeSurveyStore{records: []models.SurveyRecord{
		testRecord("s1", "stu-1", cleanPayload),
		testRecord("s2", "stu-2", cleanPayload),
	}}
	f := exportFixture{
		jobs:    newFakeJobStore(),
		storage: newFakeStorage(),
		queue:   &capturingQueue{},
	}
	analyticsSvc := NewAnalyticsService(store, nil)
	f.svc = NewExportService(f.jobs, analyticsSvc, f.storage, f.queue, testBucket, time.Hour)
	return f
}

// ============ TEST SUITE 1: Export lifecycle ============

func TestExportService_CSVExport(t *testing.T) {
	f := newExportFixture()
	ctx := context.Background()

	job, err := f.svc.RequestExport(ctx, "admin-1", models.ExportRequest{Kind: models.ExportCSV})
	require.NoError(t, err)
	assert.Equal(t, models.ExportQueued, job.Status)
	assert.Equal(t, "admin-1", job.RequestedBy)
	require.Len(t, f.queue.jobs, 1)

	for _, err := range f.queue.runAll(t) {
		require.NoError(t, err)
	}

	stored, err := f.svc.GetExport(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportCompleted, stored.Status)
	require.NotNil(t, stored.ObjectName)
	assert.True(t, strings.HasPrefix(*stored.ObjectName, "csv/"))
	assert.True(t, strings.HasSuffix(*stored.ObjectName, job.ID.String()+".csv"))
	assert.Equal(t, "https://files.local/"+testBucket+"/"+*stored.ObjectName, stored.DownloadURL)

	key := testBucket + "/" + *stored.ObjectName
	assert.Equal(t, csvContentType, f.storage.types[key])
	lines, err := csv.NewReader(bytes.NewReader(f.storage.objects[key])).ReadAll()
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, analytics.ExportHeader, lines[0])
	assert.Equal(t, "s1", lines[1][0])
	assert.Equal(t, "Ramesh Patel", lines[1][4])
}

func TestExportService_MastersheetExport(t *testing.T) {
	f := newExportFixture()
	ctx := context.Background()

	job, err := f.svc.RequestExport(ctx, "admin-1", models.ExportRequest{Kind: models.ExportMastersheet})
	require.NoError(t, err)
	for _, err := range f.queue.runAll(t) {
		require.NoError(t, err)
	}

	stored, err := f.jobs.GetJob(ctx, job.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ObjectName)
	key := testBucket + "/" + *stored.ObjectName
	assert.Equal(t, xlsxContentType, f.storage.types[key])

	wb, err := excelize.OpenReader(bytes.NewReader(f.storage.objects[key]))
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows(MastersheetSheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"ID NO", "1", "2", "TOTAL"}, rows[0])
	assert.Equal(t, []string{analytics.RowTotalHouses, "1", "1", "2"}, rows[1])
}

func TestExportService_PendingJobHasNoURL(t *testing.T) {
	f := newExportFixture()
	ctx := context.Background()

	job, err := f.svc.RequestExport(ctx, "admin-1", models.ExportRequest{Kind: models.ExportCSV})
	require.NoError(t, err)

	stored, err := f.svc.GetExport(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportQueued, stored.Status)
	assert.Empty(t, stored.DownloadURL)
}

// ============ TEST SUITE 2: Failure paths ============

func TestExportService_QueueFull(t *testing.T) {
	f := newExportFixture()
	f.queue.full = true

	_, err := f.svc.RequestExport(context.Background(), "admin-1", models.ExportRequest{Kind: models.ExportCSV})
	assert.ErrorIs(t, err, ErrExportQueueFull)

	require.Len(t, f.jobs.jobs, 1)
	for _, job := range f.jobs.jobs {
		assert.Equal(t, models.ExportFailed, job.Status)
	}
}

func TestExportService_RejectsBadRequests(t *testing.T) {
	f := newExportFixture()
	ctx := context.Background()

	_, err := f.svc.RequestExport(ctx, "admin-1", models.ExportRequest{Kind: "pdf"})
	assert.Error(t, err)

	_, err = f.svc.RequestExport(ctx, "admin-1", models.ExportRequest{
		Kind:   models.ExportCSV,
		Filter: models.SurveyFilter{StartDate: "2025-03-20", EndDate: "2025-03-01"},
	})
	assert.ErrorIs(t, err, models.ErrInvalidFilter)
	assert.Empty(t, f.jobs.jobs)
}

func TestExportService_UploadFailureMarksJobFailed(t *testing.T) {
	f := newExportFixture()
	f.storage.uploadErr = errBoom

	job, err := f.svc.RequestExport(context.Background(), "admin-1", models.ExportRequest{Kind: models.ExportCSV})
	require.NoError(t, err)

	errs := f.queue.runAll(t)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], errBoom)
	assert.Equal(t, models.ExportFailed, f.jobs.jobs[job.ID].Status)
	assert.Equal(t, "boom", f.jobs.failedReason[job.ID])
}

func TestExportService_JobNeverLeftQueued(t *testing.T) {
	tests := []struct {
		name       string
		runningErr error
		canceled   bool
		reason     string
	}{
		{"mark running fails", errBoom, false, "failed to mark export"},
		{"canceled before start", nil, true, "abandoned before start"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newExportFixture()
			f.jobs.runningErr = tt.runningErr

			job, err := f.svc.RequestExport(context.Background(), "admin-1", models.ExportRequest{Kind: models.ExportCSV})
			require.NoError(t, err)

			ctx, cancel := context.WithCancel(context.Background())
			if tt.canceled {
				cancel()
			}
			defer cancel()

			err = f.svc.RunExport(ctx, job.ID, models.ExportCSV, models.SurveyFilter{})
			require.Error(t, err)
			assert.Equal(t, models.ExportFailed, f.jobs.jobs[job.ID].Status)
			assert.Contains(t, f.jobs.failedReason[job.ID], tt.reason)
			assert.Empty(t, f.storage.objects)
		})
	}
}

func TestExportService_CompletionFailureRemovesArtifact(t *testing.T) {
	f := newExportFixture()
	f.jobs.completeErr = errBoom

	_, err := f.svc.RequestExport(context.Background(), "admin-1", models.ExportRequest{Kind: models.ExportCSV})
	require.NoError(t, err)

	errs := f.queue.runAll(t)
	assert.ErrorIs(t, errs[0], errBoom)
	assert.Len(t, f.storage.deleted, 1)
	assert.Empty(t, f.storage.objects)
}

func TestExportService_ScheduledMastersheetExport(t *testing.T) {
	f := newExportFixture()

	require.NoError(t, f.svc.ScheduledMastersheetExport(context.Background()))
	require.Len(t, f.jobs.jobs, 1)
	for _, job := range f.jobs.jobs {
		assert.Equal(t, models.ExportMastersheet, job.Kind)
		assert.Equal(t, scheduledRequester, job.RequestedBy)
	}
}

// ============ TEST SUITE 3: Renderers ============

func TestRenderMastersheetWorkbook_SectionTitles(t *testing.T) {
	records := []models.SurveyRecord{testRecord("s1", "23CS042", cleanPayload)}
	matrix := analytics.BuildMatrix(records)

	data, err := RenderMastersheetWorkbook(matrix)
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows(MastersheetSheet)
	require.NoError(t, err)

	// header, top row, then one title row per titled section plus every label row
	sections := matrix.Sections()
	assert.Len(t, rows, 1+len(matrix.Rows)+len(sections)-1)
	assert.Equal(t, []string{"ID NO", "042", "TOTAL"}, rows[0])
	assert.Equal(t, []string{matrix.Rows[1].Section}, rows[2])
	assert.Equal(t, matrix.Rows[1].Label, rows[3][0])
}

func TestRenderFamilyCSV_Quoting(t *testing.T) {
	rec := testRecord("s1", "stu-1", `{"headOfFamily": "Patel, Ramesh", "areaName": "Ward \"A\""}`)

	data, err := RenderFamilyCSV([]models.SurveyRecord{rec})
	require.NoError(t, err)

	lines, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "Patel, Ramesh", lines[1][4])
	assert.Equal(t, `Ward "A"`, lines[1][5])
}
