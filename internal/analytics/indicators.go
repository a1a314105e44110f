package analytics

import "math"

type Indicators struct {
	AvgFamilySize   float64 `json:"avg_family_size"`
	SexRatio        int     `json:"sex_ratio"`
	DependencyRatio float64 `json:"dependency_ratio"`
	MorbidityRate   float64 `json:"morbidity_rate"`
}

// DeriveIndicators computes the public-health ratios of an aggregation.
//
// The sex and dependency ratios divide by max(denominator, 1) rather than
// reporting 0, so a population with no males still shows its female count
// scaled by 1000. The average family size and morbidity rate are 0 on empty
// input. The two conventions give different numbers at the boundary and are
// kept as they are.
func DeriveIndicators(agg AggregationResult, totalRecords int) Indicators {
	var ind Indicators

	if totalRecords > 0 {
		ind.AvgFamilySize = round1(float64(agg.TotalMembers) / float64(totalRecords))
	}

	male := agg.Gender.Count("Male")
	female := agg.Gender.Count("Female")
	ind.SexRatio = int(math.Round(float64(female) / float64(max(male, 1)) * 1000))

	dependents := agg.Dependency.Children + agg.Dependency.Elderly
	ind.DependencyRatio = round1(float64(dependents) / float64(max(agg.Dependency.WorkingAge, 1)) * 100)

	ind.MorbidityRate = round1(float64(agg.IllMembers) / float64(max(agg.TotalMembers, 1)) * 100)

	return ind
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Percent is count as a share of total, one decimal place, 0 when total is 0.
func Percent(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return round1(float64(count) / float64(total) * 100)
}
