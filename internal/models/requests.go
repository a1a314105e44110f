package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var ErrInvalidFilter = errors.New("invalid survey filter")

// SurveyFilter narrows the record set before aggregation. Empty fields do not
// filter.
type SurveyFilter struct {
	StartDate    string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate      string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	AreaType     string `json:"area_type"`
	AreaName     string `json:"area_name"`
	IncomeClass  string `json:"income_class"`
	FacilityType string `json:"facility_type"`
	HasDisease   string `json:"has_disease" validate:"omitempty,oneof=yes no"`
	// Search matches head of family, area name or student name, case-insensitively.
	Search string `json:"search" validate:"max=100"`
}

func (f SurveyFilter) Validate() error {
	start, end, err := f.DateRange()
	if err != nil {
		return err
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return fmt.Errorf("%w: end_date is before start_date", ErrInvalidFilter)
	}
	switch f.HasDisease {
	case "", "yes", "no":
	default:
		return fmt.Errorf("%w: has_disease must be yes or no", ErrInvalidFilter)
	}
	return nil
}

// DateRange parses the optional bounds. A zero time means unbounded.
func (f SurveyFilter) DateRange() (start, end time.Time, err error) {
	if s := strings.TrimSpace(f.StartDate); s != "" {
		start, err = time.Parse(DateLayout, s)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date: %v", ErrInvalidFilter, err)
		}
	}
	if s := strings.TrimSpace(f.EndDate); s != "" {
		end, err = time.Parse(DateLayout, s)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date: %v", ErrInvalidFilter, err)
		}
	}
	return start, end, nil
}

// CacheKey is a stable identity for the filter, used to key cached reports.
// Fields are normalized the way Filter compares them and JSON-encoded, so
// distinct filters never share a key.
func (f SurveyFilter) CacheKey() string {
	normalized := SurveyFilter{
		StartDate:    strings.TrimSpace(f.StartDate),
		EndDate:      strings.TrimSpace(f.EndDate),
		AreaType:     strings.ToLower(strings.TrimSpace(f.AreaType)),
		AreaName:     strings.TrimSpace(f.AreaName),
		IncomeClass:  strings.TrimSpace(f.IncomeClass),
		FacilityType: strings.TrimSpace(f.FacilityType),
		HasDisease:   f.HasDisease,
		Search:       strings.ToLower(strings.TrimSpace(f.Search)),
	}
	raw, _ := json.Marshal(normalized)
	return string(raw)
}

type AnalyticsQuery struct {
	Filter SurveyFilter `json:"filter"`
}

type ApprovalRequest struct {
	Approved *bool `json:"approved" validate:"required"`
}

type ExportRequest struct {
	Kind   ExportKind   `json:"kind" validate:"required,oneof=mastersheet csv"`
	Filter SurveyFilter `json:"filter"`
}

type AssignedHouse struct {
	HouseNo int    `json:"house_no" validate:"required,gt=0"`
	Remarks string `json:"remarks"`
	Reason  string `json:"reason"`
}

type AssignmentRequest struct {
	SurveyorID string          `json:"surveyor_id" validate:"required"`
	StudentID  string          `json:"student_id" validate:"required"`
	AreaName   string          `json:"area_name" validate:"required"`
	Houses     []AssignedHouse `json:"houses" validate:"required,min=1,dive"`
}

func (r AssignmentRequest) Validate() error {
	seen := make(map[int]struct{}, len(r.Houses))
	for _, h := range r.Houses {
		if _, dup := seen[h.HouseNo]; dup {
			return fmt.Errorf("house_no %d listed more than once", h.HouseNo)
		}
		seen[h.HouseNo] = struct{}{}
	}
	return nil
}
