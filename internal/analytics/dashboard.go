package analytics

import (
	"sort"
	"time"

	"survey-service/internal/models"
)

const RecentSurveyCount = 5

type RecentSurvey struct {
	ID           string    `json:"id"`
	HeadOfFamily string    `json:"head_of_family"`
	AreaName     string    `json:"area_name"`
	Submitter    string    `json:"submitter"`
	SubmittedAt  time.Time `json:"submitted_at"`
	Approved     bool      `json:"approved"`
}

type DashboardOverview struct {
	TotalSurveys    int            `json:"total_surveys"`
	ApprovedSurveys int            `json:"approved_surveys"`
	PendingSurveys  int            `json:"pending_surveys"`
	TotalFamilies   int            `json:"total_families"`
	Recent          []RecentSurvey `json:"recent"`
}

func Overview(records []models.SurveyRecord) DashboardOverview {
	ov := DashboardOverview{
		TotalSurveys:  len(records),
		TotalFamilies: len(records),
		Recent:        []RecentSurvey{},
	}
	for _, rec := range records {
		if rec.Approved {
			ov.ApprovedSurveys++
		}
	}
	ov.PendingSurveys = ov.TotalSurveys - ov.ApprovedSurveys

	sorted := make([]models.SurveyRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SubmittedAt.After(sorted[j].SubmittedAt)
	})
	for i := 0; i < len(sorted) && i < RecentSurveyCount; i++ {
		rec := sorted[i]
		ov.Recent = append(ov.Recent, RecentSurvey{
			ID:           rec.ID,
			HeadOfFamily: rec.Payload.HeadOfFamily.Trimmed(),
			AreaName:     rec.Payload.AreaName.Trimmed(),
			Submitter:    rec.SubmitterLabel(),
			SubmittedAt:  rec.SubmittedAt,
			Approved:     rec.Approved,
		})
	}
	return ov
}

type TrendSeries struct {
	Labels []string `json:"labels"`
	Counts []int    `json:"counts"`
}

// CollectionTrend counts submissions per UTC calendar day, oldest first.
// Records without a timestamp are skipped.
func CollectionTrend(records []models.SurveyRecord) TrendSeries {
	perDay := make(map[string]int)
	for _, rec := range records {
		if rec.SubmittedAt.IsZero() {
			continue
		}
		perDay[rec.SubmittedAt.UTC().Format(models.DateLayout)]++
	}

	trend := TrendSeries{Labels: make([]string, 0, len(perDay)), Counts: make([]int, 0, len(perDay))}
	for day := range perDay {
		trend.Labels = append(trend.Labels, day)
	}
	sort.Strings(trend.Labels)
	for _, day := range trend.Labels {
		trend.Counts = append(trend.Counts, perDay[day])
	}
	return trend
}
