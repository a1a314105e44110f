package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"survey-service/internal/analytics"
	"survey-service/internal/models"
	utils "survey-service/shared/utils"

	"github.com/google/uuid"
)

type AssignmentService struct {
	assignmentRepo AssignmentStore
	surveyRepo     SurveyStore
}

func NewAssignmentService(assignmentRepo AssignmentStore, surveyRepo SurveyStore) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		surveyRepo:     surveyRepo,
	}
}

// CreateAssignments allots every listed house to the student. The request is
// expected to have passed struct validation already.
func (s *AssignmentService) CreateAssignments(ctx context.Context, req models.AssignmentRequest) ([]models.SurveyAssignment, error) {
	req = utils.TrimAllStringFields(req).(models.AssignmentRequest)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	assignments := make([]models.SurveyAssignment, 0, len(req.Houses))
	for _, h := range req.Houses {
		assignments = append(assignments, models.SurveyAssignment{
			ID:         uuid.New(),
			SurveyorID: req.SurveyorID,
			StudentID:  req.StudentID,
			AreaName:   req.AreaName,
			HouseNo:    h.HouseNo,
			Remarks:    optional(h.Remarks),
			Reason:     optional(h.Reason),
			CreatedAt:  now,
		})
	}

	if err := s.assignmentRepo.CreateAssignments(ctx, assignments); err != nil {
		return nil, fmt.Errorf("failed to save assignments: %w", err)
	}
	slog.Info("houses assigned",
		"surveyor_id", req.SurveyorID, "student_id", req.StudentID, "area_name", req.AreaName, "houses", len(assignments))
	return assignments, nil
}

// ListAssignments returns the houses assigned by surveyorID. An empty id lists
// every assignment.
func (s *AssignmentService) ListAssignments(ctx context.Context, surveyorID string) ([]models.SurveyAssignment, error) {
	surveyorID = strings.TrimSpace(surveyorID)
	if surveyorID == "" {
		return s.assignmentRepo.ListAssignments(ctx)
	}
	return s.assignmentRepo.ListAssignmentsBySurveyor(ctx, surveyorID)
}

func (s *AssignmentService) GetProgress(ctx context.Context) (analytics.SurveyorProgress, error) {
	assignments, err := s.assignmentRepo.ListAssignments(ctx)
	if err != nil {
		return analytics.SurveyorProgress{}, err
	}
	records, err := s.surveyRepo.ListSurveys(ctx)
	if err != nil {
		slog.Error("failed to load surveys for progress", "error", err)
		return analytics.SurveyorProgress{}, err
	}
	return analytics.BuildSurveyorProgress(assignments, records), nil
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
