package services

import (
	"context"
	"fmt"
	"log/slog"

	"survey-service/internal/analytics"
	"survey-service/internal/models"
)

// AnalyticsService loads surveys and hands them to the analytics core.
// Results are cached per filter until surveys change.
type AnalyticsService struct {
	surveyRepo SurveyStore
	cache      *AnalyticsCache
}

func NewAnalyticsService(surveyRepo SurveyStore, cache *AnalyticsCache) *AnalyticsService {
	return &AnalyticsService{
		surveyRepo: surveyRepo,
		cache:      cache,
	}
}

// LoadRecords returns every survey that passes filter.
func (s *AnalyticsService) LoadRecords(ctx context.Context, filter models.SurveyFilter) ([]models.SurveyRecord, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	records, err := s.surveyRepo.ListSurveys(ctx)
	if err != nil {
		slog.Error("failed to load surveys", "error", err)
		return nil, fmt.Errorf("failed to load surveys: %w", err)
	}
	return analytics.Filter(records, filter), nil
}

func (s *AnalyticsService) GetReport(ctx context.Context, filter models.SurveyFilter) (analytics.Report, error) {
	if err := filter.Validate(); err != nil {
		return analytics.Report{}, err
	}
	return cached(ctx, s.cache, "report:"+filter.CacheKey(), func() (analytics.Report, error) {
		records, err := s.LoadRecords(ctx, filter)
		if err != nil {
			return analytics.Report{}, err
		}
		return analytics.BuildReport(records), nil
	})
}

func (s *AnalyticsService) GetFilterOptions(ctx context.Context) (analytics.FilterOptions, error) {
	return cached(ctx, s.cache, "filter-options", func() (analytics.FilterOptions, error) {
		records, err := s.LoadRecords(ctx, models.SurveyFilter{})
		if err != nil {
			return analytics.FilterOptions{}, err
		}
		return analytics.BuildFilterOptions(records), nil
	})
}

func (s *AnalyticsService) GetOverview(ctx context.Context) (analytics.DashboardOverview, error) {
	return cached(ctx, s.cache, "overview", func() (analytics.DashboardOverview, error) {
		records, err := s.LoadRecords(ctx, models.SurveyFilter{})
		if err != nil {
			return analytics.DashboardOverview{}, err
		}
		return analytics.Overview(records), nil
	})
}

func (s *AnalyticsService) GetFamilyRows(ctx context.Context, filter models.SurveyFilter) ([]analytics.FamilyReportRow, error) {
	records, err := s.LoadRecords(ctx, filter)
	if err != nil {
		return nil, err
	}
	return analytics.FamilyRows(records), nil
}

func (s *AnalyticsService) GetMastersheet(ctx context.Context, filter models.SurveyFilter) (analytics.MastersheetMatrix, error) {
	if err := filter.Validate(); err != nil {
		return analytics.MastersheetMatrix{}, err
	}
	return cached(ctx, s.cache, "mastersheet:"+filter.CacheKey(), func() (analytics.MastersheetMatrix, error) {
		records, err := s.LoadRecords(ctx, filter)
		if err != nil {
			return analytics.MastersheetMatrix{}, err
		}
		return analytics.BuildMatrix(records), nil
	})
}

func (s *AnalyticsService) InvalidateCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx)
}
