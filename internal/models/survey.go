package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	utils "survey-service/shared/utils"
)

// ============================================================================
// SURVEY RECORD
// ============================================================================

// SurveyRecord is one submitted household survey, fully decoded.
type SurveyRecord struct {
	ID            string        `json:"id"`
	SubmitterID   string        `json:"submitter_id"`
	SubmitterName string        `json:"submitter_name"`
	SubmittedAt   time.Time     `json:"submitted_at"`
	Approved      bool          `json:"approved"`
	Payload       SurveyPayload `json:"payload"`
}

// SubmitterLabel is the name the surveyor signed the record with, falling back
// to their id.
func (r SurveyRecord) SubmitterLabel() string {
	if name := strings.TrimSpace(r.SubmitterName); name != "" {
		return name
	}
	if id := strings.TrimSpace(r.SubmitterID); id != "" {
		return id
	}
	return "Unknown"
}

// SurveyRow mirrors the surveys table.
type SurveyRow struct {
	ID          string             `db:"id"`
	StudentID   *string            `db:"student_id"`
	StudentName *string            `db:"student_name"`
	CreatedAt   time.Time          `db:"created_at"`
	IsApproved  *bool              `db:"is_approved"`
	JSONContent utils.JSONDocument `db:"json_content"`
}

func (row SurveyRow) ToRecord() SurveyRecord {
	rec := SurveyRecord{
		ID:          row.ID,
		SubmittedAt: row.CreatedAt,
		Payload:     DecodePayload(row.JSONContent),
	}
	if row.StudentID != nil {
		rec.SubmitterID = *row.StudentID
	}
	if row.StudentName != nil {
		rec.SubmitterName = *row.StudentName
	}
	if rec.SubmitterName == "" {
		rec.SubmitterName = rec.Payload.StudentName.Trimmed()
	}
	rec.Approved = (row.IsApproved != nil && *row.IsApproved) || rec.Payload.IsApproved.Value()
	return rec
}

// ============================================================================
// SURVEY PAYLOAD
// ============================================================================

type FamilyMember struct {
	Name         FlexString `json:"name"`
	Relationship FlexString `json:"relationship"`
	Age          FlexInt    `json:"age"`
	Gender       FlexString `json:"gender"`
	Education    FlexString `json:"education"`
	Occupation   FlexString `json:"occupation"`
	HealthStatus FlexString `json:"healthStatus"`
}

// MaxAgeYears caps recorded ages.
const MaxAgeYears = 150

// AgeYears is the recorded age clamped to [0, MaxAgeYears].
func (m FamilyMember) AgeYears() int {
	switch {
	case m.Age < 0:
		return 0
	case m.Age > MaxAgeYears:
		return MaxAgeYears
	}
	return int(m.Age)
}

// IsIll is true when a health status was recorded and it is not one of the
// "nothing to report" answers.
func (m FamilyMember) IsIll() bool {
	status := strings.ToLower(m.HealthStatus.Trimmed())
	return status != "" && status != "healthy" && status != "none"
}

type PregnantWoman struct {
	Name FlexString `json:"name"`
}

type ExpenditureItem struct {
	Item   FlexString `json:"item"`
	Amount Money      `json:"amount"`
}

type EligibleCouple struct {
	Priority1 FlexBool   `json:"priority1"`
	Priority2 FlexBool   `json:"priority2"`
	Priority  FlexString `json:"priority"`
}

func (c EligibleCouple) IsPriorityOne() bool {
	return c.Priority1.Value() || strings.TrimSpace(string(c.Priority)) == "I"
}

func (c EligibleCouple) IsPriorityTwo() bool {
	return c.Priority2.Value() || strings.TrimSpace(string(c.Priority)) == "II"
}

// SurveyPayload is the household document stored in surveys.json_content.
// Every field is optional.
type SurveyPayload struct {
	HeadOfFamily  FlexString  `json:"headOfFamily"`
	ContactNumber LooseString `json:"contactNumber"`
	AreaName      FlexString  `json:"areaName"`
	AreaType      FlexString  `json:"areaType"`
	HouseNo       LooseString `json:"houseNo"`
	FacilityType  FlexString  `json:"facilityType"`
	StudentName   FlexString  `json:"studentName"`
	IsApproved    FlexBool    `json:"isApproved"`

	Religion       FlexString `json:"religion"`
	Caste          FlexString `json:"caste"`
	FamilyType     FlexString `json:"familyType"`
	HouseType      FlexString `json:"houseType"`
	HouseOwnership FlexString `json:"houseOwnership"`
	Rooms          FlexInt    `json:"rooms"`

	WaterSupply          FlexString `json:"waterSupply"`
	WellChlorinationDate FlexString `json:"wellChlorinationDate"`
	Drainage             FlexString `json:"drainage"`
	WasteDisposalMethods StringList `json:"wasteDisposalMethods"`
	Lavatory             FlexString `json:"lavatory"`
	OpenAirDefecation    FlexBool   `json:"openAirDefecation"`
	HouseKeptClean       FlexBool   `json:"houseKeptClean"`

	TotalIncome        Money                     `json:"totalIncome"`
	SocioEconomicClass FlexString                `json:"socioEconomicClass"`
	ExpenditureItems   FlexList[ExpenditureItem] `json:"expenditureItems"`

	FamilyMembers   FlexList[FamilyMember]   `json:"familyMembers"`
	PregnantWomen   FlexList[PregnantWoman]  `json:"pregnantWomen"`
	EligibleCouples FlexList[EligibleCouple] `json:"eligibleCouples"`
	Births          ListLen                  `json:"births"`
	Deaths          ListLen                  `json:"deaths"`
	Marriages       ListLen                  `json:"marriages"`
	Immunizations   ListLen                  `json:"immunizations"`

	IntendingTubalLigation FlexBool   `json:"intendingTubalLigation"`
	IntendingTubectomy     FlexBool   `json:"intendingTubectomy"`
	IntendingVasectomy     FlexBool   `json:"intendingVasectomy"`
	ContraceptiveMethod    FlexString `json:"contraceptiveMethod"`
	UsesContraceptives     FlexBool   `json:"usesContraceptives"`
	Infertility            FlexBool   `json:"infertility"`

	CommunicableDiseases    StringList             `json:"communicableDiseases"`
	NonCommunicableDiseases StringList             `json:"nonCommunicableDiseases"`
	FeverCases              ListLen                `json:"feverCases"`
	SkinDiseases            ListLen                `json:"skinDiseases"`
	CoughCases              ListLen                `json:"coughCases"`
	OtherIllnesses          FlexList[IllnessEntry] `json:"otherIllnesses"`
}

// DecodePayload decodes a stored survey document. It never fails: malformed
// content yields an empty payload, and a document that was double-encoded as
// a JSON string is unwrapped once.
func DecodePayload(raw []byte) SurveyPayload {
	var p SurveyPayload
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return p
	}
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return p
		}
		raw = bytes.TrimSpace([]byte(inner))
	}
	if len(raw) == 0 || raw[0] != '{' {
		return p
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return SurveyPayload{}
	}
	return p
}
