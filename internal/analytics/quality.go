package analytics

import (
	"fmt"
	"strings"

	"survey-service/internal/models"

	"github.com/shopspring/decimal"
)

const maxQualityScore = 100

type QualityReport struct {
	SurveyID string             `json:"survey_id,omitempty"`
	Score    int                `json:"score"`
	Status   models.QualityBand `json:"status"`
	Warnings []string           `json:"warnings"`
}

type finding struct {
	deduction int
	warning   string
}

// qualityRule inspects one record and reports every violation it finds.
// Rules never look at each other's output.
type qualityRule func(rec *models.SurveyRecord) []finding

// qualityRules run in this order; the order only decides warning order.
var qualityRules = []qualityRule{
	criticalFieldsRule,
	childLaborRule,
	pregnancyConsistencyRule,
	financialConsistencyRule,
	sanitationRule,
}

// Score evaluates every rule against rec and returns the clamped score with
// one warning per violation.
func Score(rec models.SurveyRecord) QualityReport {
	report := QualityReport{
		SurveyID: rec.ID,
		Score:    maxQualityScore,
		Warnings: []string{},
	}
	for _, rule := range qualityRules {
		for _, f := range rule(&rec) {
			report.Score -= f.deduction
			report.Warnings = append(report.Warnings, f.warning)
		}
	}
	if report.Score < 0 {
		report.Score = 0
	}
	report.Status = BandOf(report.Score)
	return report
}

func BandOf(score int) models.QualityBand {
	switch {
	case score >= 90:
		return models.QualityExcellent
	case score >= 70:
		return models.QualityGood
	case score >= 50:
		return models.QualityAverage
	default:
		return models.QualityPoor
	}
}

func criticalFieldsRule(rec *models.SurveyRecord) []finding {
	p := &rec.Payload
	fields := []struct {
		name    string
		present bool
	}{
		{"headOfFamily", p.HeadOfFamily.Trimmed() != ""},
		{"areaName", p.AreaName.Trimmed() != ""},
		{"houseNo", p.HouseNo.Trimmed() != ""},
		{"totalIncome", !p.TotalIncome.IsZero()},
	}

	var out []finding
	for _, f := range fields {
		if !f.present {
			out = append(out, finding{15, "Missing Critical Field: " + f.name})
		}
	}
	return out
}

func childLaborRule(rec *models.SurveyRecord) []finding {
	var out []finding
	for _, m := range rec.Payload.FamilyMembers {
		if m.AgeYears() < 14 && strings.Contains(strings.ToLower(string(m.Occupation)), "full-time") {
			out = append(out, finding{10,
				fmt.Sprintf("Child Labor Risk: %s (Age %d) is working full-time.", m.Name, m.AgeYears())})
		}
	}
	return out
}

// pregnancyConsistencyRule matches pregnant women to family members by exact
// name. Names that differ only in case or spacing do not match.
func pregnancyConsistencyRule(rec *models.SurveyRecord) []finding {
	var out []finding
	members := rec.Payload.FamilyMembers
	for _, pw := range rec.Payload.PregnantWomen {
		var match *models.FamilyMember
		for i := range members {
			if members[i].Name == pw.Name {
				match = &members[i]
				break
			}
		}

		if match == nil {
			out = append(out, finding{5,
				fmt.Sprintf("Inconsistency: Pregnant Woman '%s' not found in Family Members list.", pw.Name)})
			continue
		}
		if strings.ToLower(string(match.Gender)) == "male" {
			out = append(out, finding{20,
				fmt.Sprintf("Data Error: Pregnant Woman '%s' is listed as Male in family members.", pw.Name)})
		}
		if match.AgeYears() < 15 {
			out = append(out, finding{15,
				fmt.Sprintf("High Risk: Pregnant Woman '%s' is under-age (%d).", pw.Name, match.AgeYears())})
		}
	}
	return out
}

var expenseTolerance = decimal.NewFromFloat(1.5)

func financialConsistencyRule(rec *models.SurveyRecord) []finding {
	income := rec.Payload.TotalIncome.Decimal
	if !income.IsPositive() {
		return nil
	}
	expenses := decimal.Zero
	for _, item := range rec.Payload.ExpenditureItems {
		expenses = expenses.Add(item.Amount.Decimal)
	}
	if expenses.GreaterThan(income.Mul(expenseTolerance)) {
		return []finding{{10,
			fmt.Sprintf("Financial Discrepancy: Reported Expenses (%s) significantly exceed Income (%s).",
				expenses.String(), income.String())}}
	}
	return nil
}

func sanitationRule(rec *models.SurveyRecord) []finding {
	p := &rec.Payload
	if p.OpenAirDefecation.Value() || strings.Contains(strings.ToLower(string(p.Lavatory)), "open") {
		return []finding{{5, "Sanitation Risk: Open Defecation reported."}}
	}
	return nil
}

type QualitySummary struct {
	Reports    []QualityReport            `json:"reports"`
	BandCounts map[models.QualityBand]int `json:"band_counts"`
	MeanScore  float64                    `json:"mean_score"`
}

// ScoreAll scores every record and summarises the distribution of bands.
func ScoreAll(records []models.SurveyRecord) QualitySummary {
	summary := QualitySummary{
		Reports: make([]QualityReport, 0, len(records)),
		BandCounts: map[models.QualityBand]int{
			models.QualityExcellent: 0,
			models.QualityGood:      0,
			models.QualityAverage:   0,
			models.QualityPoor:      0,
		},
	}
	total := 0
	for _, rec := range records {
		r := Score(rec)
		summary.Reports = append(summary.Reports, r)
		summary.BandCounts[r.Status]++
		total += r.Score
	}
	if len(records) > 0 {
		summary.MeanScore = round1(float64(total) / float64(len(records)))
	}
	return summary
}
