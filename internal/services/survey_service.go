package services

import (
	"context"
	"errors"
	"log/slog"

	"survey-service/internal/analytics"
	"survey-service/internal/repository"
)

type SurveyService struct {
	surveyRepo SurveyStore
	cache      *AnalyticsCache
}

func NewSurveyService(surveyRepo SurveyStore, cache *AnalyticsCache) *SurveyService {
	return &SurveyService{
		surveyRepo: surveyRepo,
		cache:      cache,
	}
}

func (s *SurveyService) GetHealthCard(ctx context.Context, surveyID string) (analytics.HealthCard, error) {
	rec, err := s.surveyRepo.GetSurvey(ctx, surveyID)
	if err != nil {
		if !errors.Is(err, repository.ErrSurveyNotFound) {
			slog.Error("failed to load survey for health card", "survey_id", surveyID, "error", err)
		}
		return analytics.HealthCard{}, err
	}
	return analytics.BuildHealthCard(rec), nil
}

// SetApproval updates the approval flag and drops cached analytics, which
// count approved surveys.
func (s *SurveyService) SetApproval(ctx context.Context, surveyID string, approved bool) error {
	if err := s.surveyRepo.SetApproved(ctx, surveyID, approved); err != nil {
		return err
	}
	slog.Info("survey approval updated", "survey_id", surveyID, "approved", approved)

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			slog.Warn("approval saved but cache invalidation failed", "survey_id", surveyID, "error", err)
		}
	}
	return nil
}
