package analytics

import (
	"testing"

	"survey-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// TEST SUITE 6: QUALITY SCORER
// ============================================================================

func TestScore_CleanRecord(t *testing.T) {
	rec := createTestRecord(t, "clean", "S1", testDay, cleanPayload)

	report := Score(rec)

	assert.Equal(t, 100, report.Score)
	assert.Equal(t, models.QualityExcellent, report.Status)
	assert.NotNil(t, report.Warnings)
	assert.Empty(t, report.Warnings)
}

func TestScore_MissingFieldsAndChildLabor(t *testing.T) {
	rec := createTestRecord(t, "bad", "S1", testDay, `{
		"familyMembers": [{"name": "Raju", "age": 12, "occupation": "Full-time shop helper"}]
	}`)

	report := Score(rec)

	assert.Equal(t, 30, report.Score)
	assert.Equal(t, models.QualityPoor, report.Status)
	assert.Equal(t, []string{
		"Missing Critical Field: headOfFamily",
		"Missing Critical Field: areaName",
		"Missing Critical Field: houseNo",
		"Missing Critical Field: totalIncome",
		"Child Labor Risk: Raju (Age 12) is working full-time.",
	}, report.Warnings)
}

func TestScore_PregnancyConsistency(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		score    int
		warnings []string
	}{
		{
			name: "listed as male and under age",
			payload: `{"headOfFamily": "H", "areaName": "A", "houseNo": 1, "totalIncome": 5000,
				"familyMembers": [{"name": "Asha", "gender": "Male", "age": 14}],
				"pregnantWomen": [{"name": "Asha"}]}`,
			score: 65,
			warnings: []string{
				"Data Error: Pregnant Woman 'Asha' is listed as Male in family members.",
				"High Risk: Pregnant Woman 'Asha' is under-age (14).",
			},
		},
		{
			name: "name differs in case is not a match",
			payload: `{"headOfFamily": "H", "areaName": "A", "houseNo": 1, "totalIncome": 5000,
				"familyMembers": [{"name": "asha", "gender": "Female", "age": 24}],
				"pregnantWomen": [{"name": "Asha"}]}`,
			score:    95,
			warnings: []string{"Inconsistency: Pregnant Woman 'Asha' not found in Family Members list."},
		},
		{
			name: "consistent entry",
			payload: `{"headOfFamily": "H", "areaName": "A", "houseNo": 1, "totalIncome": 5000,
				"familyMembers": [{"name": "Asha", "gender": "Female", "age": 24}],
				"pregnantWomen": [{"name": "Asha"}]}`,
			score:    100,
			warnings: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Score(createTestRecord(t, "p", "S1", testDay, tt.payload))
			assert.Equal(t, tt.score, report.Score)
			assert.Equal(t, tt.warnings, report.Warnings)
		})
	}
}

func TestScore_FinancialAndSanitation(t *testing.T) {
	rec := createTestRecord(t, "f", "S1", testDay, `{
		"headOfFamily": "H", "areaName": "A", "houseNo": "7", "totalIncome": 1000,
		"expenditureItems": [{"item": "Food", "amount": 1200}, {"item": "Rent", "amount": "400.50"}],
		"lavatory": "Open field"
	}`)

	report := Score(rec)

	assert.Equal(t, 85, report.Score)
	assert.Equal(t, models.QualityGood, report.Status)
	require.Len(t, report.Warnings, 2)
	assert.Equal(t, "Financial Discrepancy: Reported Expenses (1600.5) significantly exceed Income (1000).", report.Warnings[0])
	assert.Equal(t, "Sanitation Risk: Open Defecation reported.", report.Warnings[1])
}

func TestScore_ClampedAtZero(t *testing.T) {
	rec := createTestRecord(t, "z", "S1", testDay, `{
		"openAirDefecation": true,
		"familyMembers": [
			{"name": "A", "age": 8, "occupation": "full-time"},
			{"name": "B", "age": 9, "occupation": "full-time"},
			{"name": "C", "age": 10, "occupation": "full-time"},
			{"name": "D", "age": 11, "occupation": "full-time"}
		],
		"pregnantWomen": [{"name": "X"}, {"name": "Y"}]
	}`)

	report := Score(rec)

	assert.Equal(t, 0, report.Score)
	assert.Len(t, report.Warnings, 4+4+2+1)
}

func TestBandOf(t *testing.T) {
	tests := []struct {
		score    int
		expected models.QualityBand
	}{
		{100, models.QualityExcellent},
		{90, models.QualityExcellent},
		{89, models.QualityGood},
		{70, models.QualityGood},
		{69, models.QualityAverage},
		{50, models.QualityAverage},
		{49, models.QualityPoor},
		{0, models.QualityPoor},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, BandOf(tt.score), "score %d", tt.score)
	}
}

func TestScoreAll(t *testing.T) {
	records := []models.SurveyRecord{
		createTestRecord(t, "1", "S1", testDay, cleanPayload),
		createTestRecord(t, "2", "S1", testDay, `{}`),
	}

	summary := ScoreAll(records)

	require.Len(t, summary.Reports, 2)
	assert.Equal(t, 1, summary.BandCounts[models.QualityExcellent])
	assert.Equal(t, 0, summary.BandCounts[models.QualityAverage])
	assert.Equal(t, 1, summary.BandCounts[models.QualityPoor])
	assert.Equal(t, 70.0, summary.MeanScore)
}
