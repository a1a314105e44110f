package models

import (
	"time"

	"github.com/google/uuid"
)

// SurveyAssignment allots one house in an area to a student.
type SurveyAssignment struct {
	ID         uuid.UUID `json:"id" db:"id"`
	SurveyorID string    `json:"surveyor_id" db:"surveyor_id"`
	StudentID  string    `json:"student_id" db:"student_id"`
	AreaName   string    `json:"area_name" db:"area_name"`
	HouseNo    int       `json:"house_no" db:"house_no"`
	Remarks    *string   `json:"remarks,omitempty" db:"remarks"`
	Reason     *string   `json:"reason,omitempty" db:"reason"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
