package repository

import (
	"context"
	"fmt"
	"log/slog"

	"survey-service/internal/models"

	"github.com/jmoiron/sqlx"
)

type AssignmentRepository struct {
	db *sqlx.DB
}

func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// CreateAssignments inserts all assignments in one transaction. Re-assigning
// a house moves it to the new student.
func (r *AssignmentRepository) CreateAssignments(ctx context.Context, assignments []models.SurveyAssignment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO survey_assignments (id, surveyor_id, student_id, area_name, house_no, remarks, reason, created_at)
		VALUES (:id, :surveyor_id, :student_id, :area_name, :house_no, :remarks, :reason, :created_at)
		ON CONFLICT (area_name, house_no) DO UPDATE SET
			surveyor_id = EXCLUDED.surveyor_id,
			student_id = EXCLUDED.student_id,
			remarks = EXCLUDED.remarks,
			reason = EXCLUDED.reason`

	for _, a := range assignments {
		if _, err := tx.NamedExecContext(ctx, query, a); err != nil {
			slog.Error("failed to insert assignment",
				"student_id", a.StudentID, "area_name", a.AreaName, "house_no", a.HouseNo, "error", err)
			return fmt.Errorf("failed to insert assignment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit assignments: %w", err)
	}
	return nil
}

func (r *AssignmentRepository) ListAssignments(ctx context.Context) ([]models.SurveyAssignment, error) {
	query := `SELECT id, surveyor_id, student_id, area_name, house_no, remarks, reason, created_at
		FROM survey_assignments ORDER BY area_name, house_no`

	var out []models.SurveyAssignment
	if err := r.db.SelectContext(ctx, &out, query); err != nil {
		slog.Error("failed to list assignments", "error", err)
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return out, nil
}

func (r *AssignmentRepository) ListAssignmentsBySurveyor(ctx context.Context, surveyorID string) ([]models.SurveyAssignment, error) {
	query := `SELECT id, surveyor_id, student_id, area_name, house_no, remarks, reason, created_at
		FROM survey_assignments WHERE surveyor_id = $1 ORDER BY area_name, house_no`

	var out []models.SurveyAssignment
	if err := r.db.SelectContext(ctx, &out, query, surveyorID); err != nil {
		slog.Error("failed to list assignments", "surveyor_id", surveyorID, "error", err)
		return nil, fmt.Errorf("failed to list assignments for surveyor %s: %w", surveyorID, err)
	}
	return out, nil
}
