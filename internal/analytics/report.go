package analytics

import "survey-service/internal/models"

// Report bundles everything the analytics page renders for one record set.
type Report struct {
	TotalRecords int               `json:"total_records"`
	TotalMembers int               `json:"total_members"`
	Aggregation  AggregationResult `json:"aggregation"`
	Indicators   Indicators        `json:"indicators"`
	Charts       ChartConfig       `json:"charts"`
	Trend        TrendSeries       `json:"trend"`
}

func BuildReport(records []models.SurveyRecord) Report {
	agg := Aggregate(records)
	return Report{
		TotalRecords: agg.TotalRecords,
		TotalMembers: agg.TotalMembers,
		Aggregation:  agg,
		Indicators:   DeriveIndicators(agg, agg.TotalRecords),
		Charts:       ProjectCharts(agg),
		Trend:        CollectionTrend(records),
	}
}
