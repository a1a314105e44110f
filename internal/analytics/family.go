package analytics

import (
	"fmt"
	"strconv"
	"strings"

	"survey-service/internal/models"
)

type FamilyReportRow struct {
	SurveyID     string `json:"survey_id"`
	HeadOfFamily string `json:"head_of_family"`
	Contact      string `json:"contact"`
	HouseNo      string `json:"house_no"`
	AreaName     string `json:"area_name"`
	AreaType     string `json:"area_type"`
	FacilityType string `json:"facility_type"`
	IncomeClass  string `json:"income_class"`
	Religion     string `json:"religion"`
	MemberCount  int    `json:"member_count"`
	HealthStatus string `json:"health_status"`
}

// FamilyRows flattens each record into one report row, in input order.
func FamilyRows(records []models.SurveyRecord) []FamilyReportRow {
	rows := make([]FamilyReportRow, 0, len(records))
	for _, rec := range records {
		p := &rec.Payload
		rows = append(rows, FamilyReportRow{
			SurveyID:     rec.ID,
			HeadOfFamily: p.HeadOfFamily.Trimmed(),
			Contact:      p.ContactNumber.Trimmed(),
			HouseNo:      p.HouseNo.Trimmed(),
			AreaName:     p.AreaName.Trimmed(),
			AreaType:     p.AreaType.Trimmed(),
			FacilityType: p.FacilityType.Trimmed(),
			IncomeClass:  p.SocioEconomicClass.Trimmed(),
			Religion:     p.Religion.Trimmed(),
			MemberCount:  len(p.FamilyMembers),
			HealthStatus: healthSummary(p.FamilyMembers),
		})
	}
	return rows
}

// healthSummary is "Healthy" or the ill members as "name (status)".
func healthSummary(members []models.FamilyMember) string {
	var ill []string
	for _, m := range members {
		if m.IsIll() {
			ill = append(ill, fmt.Sprintf("%s (%s)", m.Name.Trimmed(), m.HealthStatus.Trimmed()))
		}
	}
	if len(ill) == 0 {
		return "Healthy"
	}
	return strings.Join(ill, ", ")
}

var ExportHeader = []string{
	"ID", "Student Name", "Survey Date", "Approved",
	"Head of Family", "Area Name", "Area Type",
	"Address", "Contact Number", "Total Income",
	"Family Members Count", "House Type",
}

// ExportRows renders records as rows parallel to ExportHeader. Quoting is left
// to the CSV writer.
func ExportRows(records []models.SurveyRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		p := &rec.Payload
		approved := "No"
		if rec.Approved {
			approved = "Yes"
		}
		rows = append(rows, []string{
			rec.ID,
			rec.SubmitterLabel(),
			formatDate(rec.SubmittedAt),
			approved,
			p.HeadOfFamily.Trimmed(),
			p.AreaName.Trimmed(),
			p.AreaType.Trimmed(),
			p.HouseNo.Trimmed(),
			p.ContactNumber.Trimmed(),
			p.TotalIncome.String(),
			strconv.Itoa(len(p.FamilyMembers)),
			p.HouseType.Trimmed(),
		})
	}
	return rows
}
