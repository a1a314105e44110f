package analytics

// FrequencyRow is one line of a statistics table.
type FrequencyRow struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// ChartSeries is a labels/counts pair ready for a bar or pie chart, with the
// same data as table rows.
type ChartSeries struct {
	Title   string                  `json:"title"`
	Labels  []string                `json:"labels"`
	Counts  []int                   `json:"counts"`
	Total   int                     `json:"total"`
	Rows    []FrequencyRow          `json:"rows"`
	Details map[string][]CaseDetail `json:"details,omitempty"`
}

type ChartConfig struct {
	Demographics map[string]ChartSeries `json:"demographics"`
	Environment  map[string]ChartSeries `json:"environment"`
	Health       map[string]ChartSeries `json:"health"`
	VitalStats   Tally                  `json:"vital_stats"`
}

// NewSeries projects a tally. Percentages are taken against percentBase, or
// against the tally's own total when percentBase is 0.
func NewSeries(title string, t Tally, percentBase int) ChartSeries {
	s := ChartSeries{
		Title:  title,
		Labels: t.Labels(),
		Counts: t.Values(),
		Total:  t.Total(),
	}
	base := percentBase
	if base == 0 {
		base = s.Total
	}
	s.Rows = make([]FrequencyRow, len(s.Labels))
	for i, l := range s.Labels {
		s.Rows[i] = FrequencyRow{Label: l, Count: s.Counts[i], Percent: Percent(s.Counts[i], base)}
	}
	return s
}

func newHealthSeries(title string, t Tally, details map[string][]CaseDetail) ChartSeries {
	s := NewSeries(title, t, 0)
	s.Details = make(map[string][]CaseDetail)
	for _, l := range s.Labels {
		if cases, ok := details[l]; ok {
			s.Details[l] = cases
		}
	}
	return s
}

// ProjectCharts turns an aggregation into the chart groups shown on the
// analytics page. Member dimensions are percentages of members, household
// dimensions percentages of records.
func ProjectCharts(agg AggregationResult) ChartConfig {
	members, households := agg.TotalMembers, agg.TotalRecords
	return ChartConfig{
		Demographics: map[string]ChartSeries{
			"age":        NewSeries("Population", agg.AgeGroups, members),
			"gender":     NewSeries("Gender", agg.Gender, members),
			"religion":   NewSeries("Religion", agg.Religion, households),
			"education":  NewSeries("Education", agg.Education, members),
			"family":     NewSeries("Family Type", agg.FamilyType, households),
			"occupation": NewSeries("Occupation", agg.Occupation, members),
			"income":     NewSeries("Family Income", agg.IncomeBracket, households),
		},
		Environment: map[string]ChartSeries{
			"house":    NewSeries("House Type", agg.HouseType, households),
			"drainage": NewSeries("Drainage", agg.Drainage, households),
			"waste":    NewSeries("Waste Disposal", agg.WasteDisposal, households),
		},
		Health: map[string]ChartSeries{
			"communicable":    newHealthSeries("Communicable Cases", agg.Communicable, agg.DiseaseDetails),
			"nonCommunicable": newHealthSeries("Non-Communicable Cases", agg.NonCommunicable, agg.DiseaseDetails),
			"symptoms":        newHealthSeries("Symptom Cases", agg.Symptoms, agg.DiseaseDetails),
			"other":           newHealthSeries("Other Illnesses", agg.OtherIllness, agg.DiseaseDetails),
		},
		VitalStats: agg.VitalStats,
	}
}
