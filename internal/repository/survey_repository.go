package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"survey-service/internal/models"
	utils "survey-service/shared/utils"

	"github.com/jmoiron/sqlx"
)

type SurveyRepository struct {
	db *sqlx.DB
}

func NewSurveyRepository(db *sqlx.DB) *SurveyRepository {
	return &SurveyRepository{db: db}
}

const surveyColumns = `id, student_id, student_name, created_at, is_approved, json_content`

// ListSurveys loads every survey, newest first, with payloads decoded.
func (r *SurveyRepository) ListSurveys(ctx context.Context) ([]models.SurveyRecord, error) {
	query := `SELECT ` + surveyColumns + ` FROM surveys ORDER BY created_at DESC`

	var rows []models.SurveyRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		slog.Error("failed to list surveys", "error", err)
		return nil, fmt.Errorf("failed to list surveys: %w", err)
	}

	records := make([]models.SurveyRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.ToRecord())
	}
	return records, nil
}

func (r *SurveyRepository) GetSurvey(ctx context.Context, id string) (models.SurveyRecord, error) {
	query := `SELECT ` + surveyColumns + ` FROM surveys WHERE id = $1`

	var row models.SurveyRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SurveyRecord{}, ErrSurveyNotFound
		}
		slog.Error("failed to get survey", "survey_id", id, "error", err)
		return models.SurveyRecord{}, fmt.Errorf("failed to get survey: %w", err)
	}
	return row.ToRecord(), nil
}

// setApprovedQuery mirrors the flag into the payload only when the payload is
// a JSON object; scalar payloads (double-encoded documents) keep their text.
const setApprovedQuery = `UPDATE surveys
		SET is_approved = $2,
		    json_content = CASE
		        WHEN json_content IS NULL THEN jsonb_build_object('isApproved', $2::boolean)
		        WHEN jsonb_typeof(json_content) = 'object'
		            THEN jsonb_set(json_content, '{isApproved}', to_jsonb($2::boolean))
		        ELSE json_content
		    END
		WHERE id = $1`

// SetApproved is the only write the service makes to a survey.
func (r *SurveyRepository) SetApproved(ctx context.Context, id string, approved bool) error {
	err := utils.ExecWithCheck(ctx, r.db, setApprovedQuery, utils.ExecUpdate, id, approved)
	if errors.Is(err, utils.ErrNoRowsAffected) {
		return ErrSurveyNotFound
	}
	if err != nil {
		slog.Error("failed to update survey approval", "survey_id", id, "approved", approved, "error", err)
		return err
	}
	return nil
}
