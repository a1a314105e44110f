package analytics

import (
	"sort"
	"strings"

	"survey-service/internal/models"
)

// HasIllMember reports whether any family member of rec is ill.
func HasIllMember(rec models.SurveyRecord) bool {
	for _, m := range rec.Payload.FamilyMembers {
		if m.IsIll() {
			return true
		}
	}
	return false
}

// Filter keeps the records matching every non-empty field of f. Date bounds
// are inclusive calendar days in UTC. The filter must be valid.
func Filter(records []models.SurveyRecord, f models.SurveyFilter) []models.SurveyRecord {
	start, end, _ := f.DateRange()
	areaType := strings.ToLower(strings.TrimSpace(f.AreaType))
	areaName := strings.TrimSpace(f.AreaName)
	incomeClass := strings.TrimSpace(f.IncomeClass)
	facility := strings.TrimSpace(f.FacilityType)
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]models.SurveyRecord, 0, len(records))
	for _, rec := range records {
		p := &rec.Payload
		day := rec.SubmittedAt.UTC().Format(models.DateLayout)

		if !start.IsZero() && day < start.Format(models.DateLayout) {
			continue
		}
		if !end.IsZero() && day > end.Format(models.DateLayout) {
			continue
		}
		if areaType != "" && strings.ToLower(p.AreaType.Trimmed()) != areaType {
			continue
		}
		if areaName != "" && p.AreaName.Trimmed() != areaName {
			continue
		}
		if incomeClass != "" && p.SocioEconomicClass.Trimmed() != incomeClass {
			continue
		}
		if facility != "" && p.FacilityType.Trimmed() != facility {
			continue
		}
		if search != "" && !matchesSearch(rec, search) {
			continue
		}
		switch f.HasDisease {
		case "yes":
			if !HasIllMember(rec) {
				continue
			}
		case "no":
			if HasIllMember(rec) {
				continue
			}
		}
		out = append(out, rec)
	}
	return out
}

// matchesSearch reports whether needle, already lower-cased, occurs in the
// head of family, area name or student name of rec.
func matchesSearch(rec models.SurveyRecord, needle string) bool {
	for _, field := range []string{
		rec.Payload.HeadOfFamily.Trimmed(),
		rec.Payload.AreaName.Trimmed(),
		rec.SubmitterName,
		rec.Payload.StudentName.Trimmed(),
	} {
		if field != "" && strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

type FilterOptions struct {
	Areas         []string `json:"areas"`
	IncomeClasses []string `json:"income_classes"`
	FacilityTypes []string `json:"facility_types"`
}

// BuildFilterOptions lists the distinct non-empty values present in records,
// sorted.
func BuildFilterOptions(records []models.SurveyRecord) FilterOptions {
	areas := map[string]struct{}{}
	incomes := map[string]struct{}{}
	facilities := map[string]struct{}{}
	for _, rec := range records {
		addOption(areas, rec.Payload.AreaName.Trimmed())
		addOption(incomes, rec.Payload.SocioEconomicClass.Trimmed())
		addOption(facilities, rec.Payload.FacilityType.Trimmed())
	}
	return FilterOptions{
		Areas:         sortedKeys(areas),
		IncomeClasses: sortedKeys(incomes),
		FacilityTypes: sortedKeys(facilities),
	}
}

func addOption(set map[string]struct{}, v string) {
	if v != "" {
		set[v] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
