package analytics

import (
	"testing"
	"time"

	"survey-service/internal/models"

	"github.com/stretchr/testify/require"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

var testDay = time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

func createTestRecord(t *testing.T, id, submitter string, submittedAt time.Time, payload string) models.SurveyRecord {
	t.Helper()
	p := models.DecodePayload([]byte(payload))
	return models.SurveyRecord{
		ID:            id,
		SubmitterName: submitter,
		SubmittedAt:   submittedAt,
		Payload:       p,
	}
}

func requireLabelsSum(t *testing.T, tally Tally, expected int) {
	t.Helper()
	sum := 0
	for _, v := range tally.Values() {
		sum += v
	}
	require.Equal(t, expected, sum)
}

const cleanPayload = `{
	"headOfFamily": "Ramesh Patel",
	"contactNumber": "9876543210",
	"areaName": "Anand Nagar",
	"areaType": "Urban",
	"houseNo": "12",
	"totalIncome": 12000
}`
