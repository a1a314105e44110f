package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"survey-service/internal/models"
	utils "survey-service/shared/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ExportJobRepository struct {
	db *sqlx.DB
}

func NewExportJobRepository(db *sqlx.DB) *ExportJobRepository {
	return &ExportJobRepository{db: db}
}

func (r *ExportJobRepository) CreateJob(ctx context.Context, job *models.ExportJob) error {
	query := `INSERT INTO export_jobs (id, kind, status, requested_by, created_at)
		VALUES (:id, :kind, :status, :requested_by, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, job); err != nil {
		slog.Error("failed to create export job", "job_id", job.ID, "error", err)
		return fmt.Errorf("failed to create export job: %w", err)
	}
	return nil
}

func (r *ExportJobRepository) GetJob(ctx context.Context, id uuid.UUID) (models.ExportJob, error) {
	query := `SELECT id, kind, status, object_name, error, requested_by, created_at, completed_at
		FROM export_jobs WHERE id = $1`

	var job models.ExportJob
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ExportJob{}, ErrExportJobNotFound
		}
		slog.Error("failed to get export job", "job_id", id, "error", err)
		return models.ExportJob{}, fmt.Errorf("failed to get export job: %w", err)
	}
	return job, nil
}

func (r *ExportJobRepository) MarkRunning(ctx context.Context, id uuid.UUID) error {
	return r.updateStatus(ctx, id, `UPDATE export_jobs SET status = $2 WHERE id = $1`, models.ExportRunning)
}

func (r *ExportJobRepository) MarkCompleted(ctx context.Context, id uuid.UUID, objectName string) error {
	return r.updateStatus(ctx, id,
		`UPDATE export_jobs SET status = $2, object_name = $3, error = NULL, completed_at = $4 WHERE id = $1`,
		models.ExportCompleted, objectName, time.Now())
}

func (r *ExportJobRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return r.updateStatus(ctx, id,
		`UPDATE export_jobs SET status = $2, error = $3, completed_at = $4 WHERE id = $1`,
		models.ExportFailed, reason, time.Now())
}

func (r *ExportJobRepository) updateStatus(ctx context.Context, id uuid.UUID, query string, args ...any) error {
	err := utils.ExecWithCheck(ctx, r.db, query, utils.ExecUpdate, append([]any{id}, args...)...)
	if errors.Is(err, utils.ErrNoRowsAffected) {
		return ErrExportJobNotFound
	}
	if err != nil {
		slog.Error("failed to update export job", "job_id", id, "error", err)
		return err
	}
	return nil
}
