package services

import (
	"context"
	"log/slog"

	"survey-service/internal/analytics"
	"survey-service/internal/models"
)

type QualityService struct {
	surveyRepo SurveyStore
	alerter    QualityAlerter
}

// NewQualityService builds the service. alerter may be nil, in which case
// poor submissions are only logged.
func NewQualityService(surveyRepo SurveyStore, alerter QualityAlerter) *QualityService {
	return &QualityService{
		surveyRepo: surveyRepo,
		alerter:    alerter,
	}
}

func (s *QualityService) ScoreAll(ctx context.Context) (analytics.QualitySummary, error) {
	records, err := s.surveyRepo.ListSurveys(ctx)
	if err != nil {
		slog.Error("failed to load surveys for quality scoring", "error", err)
		return analytics.QualitySummary{}, err
	}
	return analytics.ScoreAll(records), nil
}

func (s *QualityService) ScoreSurvey(ctx context.Context, surveyID string) (analytics.QualityReport, error) {
	rec, err := s.surveyRepo.GetSurvey(ctx, surveyID)
	if err != nil {
		return analytics.QualityReport{}, err
	}
	return analytics.Score(rec), nil
}

// Evaluate scores a record that has not been stored yet.
func (s *QualityService) Evaluate(rec models.SurveyRecord) analytics.QualityReport {
	return analytics.Score(rec)
}

// HandleSubmitted scores a newly submitted survey and alerts its submitter
// when the band is Poor. Alert failures are logged, not returned.
func (s *QualityService) HandleSubmitted(ctx context.Context, surveyID string) (analytics.QualityReport, error) {
	rec, err := s.surveyRepo.GetSurvey(ctx, surveyID)
	if err != nil {
		slog.Error("failed to load submitted survey", "survey_id", surveyID, "error", err)
		return analytics.QualityReport{}, err
	}

	report := analytics.Score(rec)
	if report.Status != models.QualityPoor {
		return report, nil
	}
	slog.Warn("poor quality survey submitted",
		"survey_id", surveyID, "submitter_id", rec.SubmitterID, "score", report.Score, "warnings", len(report.Warnings))

	if s.alerter == nil || rec.SubmitterID == "" {
		return report, nil
	}
	if err := s.alerter.NotifyPoorQuality(ctx, rec.SubmitterID, report); err != nil {
		slog.Error("failed to send quality alert", "survey_id", surveyID, "submitter_id", rec.SubmitterID, "error", err)
	}
	return report, nil
}
