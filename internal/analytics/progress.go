package analytics

import (
	"sort"
	"strconv"
	"strings"

	"survey-service/internal/models"
	utils "survey-service/shared/utils"
)

const unassignedStudent = "Unassigned"

type StudentProgress struct {
	StudentID  string  `json:"student_id"`
	Assigned   int     `json:"assigned"`
	Completed  int     `json:"completed"`
	Percentage float64 `json:"percentage"`
}

type AreaCoverage struct {
	Area      string `json:"area"`
	Assigned  int    `json:"assigned"`
	Completed int    `json:"completed"`
}

type SurveyorProgress struct {
	Students              []StudentProgress `json:"students"`
	ExceptionReasons      map[string]int    `json:"exception_reasons"`
	AssignmentsBySurveyor map[string]int    `json:"assignments_by_surveyor"`
	Areas                 []AreaCoverage    `json:"areas"`
}

func houseKey(area, houseNo string) string {
	return strings.ToLower(strings.TrimSpace(area)) + "|" + strings.ToLower(strings.TrimSpace(houseNo))
}

// BuildSurveyorProgress compares house assignments with submitted surveys. A
// survey completes an assignment when its area and house number match the
// assignment's, ignoring case and surrounding spaces. Surveys that match no
// assignment are credited to their submitter.
func BuildSurveyorProgress(assignments []models.SurveyAssignment, records []models.SurveyRecord) SurveyorProgress {
	submitted := make(map[string]struct{}, len(records))
	for _, rec := range records {
		submitted[houseKey(rec.Payload.AreaName.String(), rec.Payload.HouseNo.String())] = struct{}{}
	}

	students := map[string]*StudentProgress{}
	var order []string
	student := func(id string) *StudentProgress {
		if s, ok := students[id]; ok {
			return s
		}
		s := &StudentProgress{StudentID: id}
		students[id] = s
		order = append(order, id)
		return s
	}

	progress := SurveyorProgress{
		ExceptionReasons:      map[string]int{},
		AssignmentsBySurveyor: map[string]int{},
	}
	areas := map[string]*AreaCoverage{}
	area := func(name string) *AreaCoverage {
		title := utils.TitleCase(strings.TrimSpace(name))
		if a, ok := areas[title]; ok {
			return a
		}
		a := &AreaCoverage{Area: title}
		areas[title] = a
		return a
	}

	assigned := make(map[string]struct{}, len(assignments))
	for _, a := range assignments {
		key := houseKey(a.AreaName, strconv.Itoa(a.HouseNo))
		assigned[key] = struct{}{}

		s := student(a.StudentID)
		s.Assigned++
		cov := area(a.AreaName)
		cov.Assigned++
		if _, done := submitted[key]; done {
			s.Completed++
			cov.Completed++
		}

		progress.AssignmentsBySurveyor[a.SurveyorID]++
		if a.Reason != nil && strings.TrimSpace(*a.Reason) != "" {
			progress.ExceptionReasons[strings.TrimSpace(*a.Reason)]++
		}
	}

	for _, rec := range records {
		if _, ok := assigned[houseKey(rec.Payload.AreaName.String(), rec.Payload.HouseNo.String())]; ok {
			continue
		}
		id := strings.TrimSpace(rec.SubmitterID)
		if id == "" {
			id = unassignedStudent
		}
		student(id).Completed++
	}

	progress.Students = make([]StudentProgress, 0, len(order))
	for _, id := range order {
		s := students[id]
		s.Percentage = completionPercent(s.Completed, s.Assigned)
		progress.Students = append(progress.Students, *s)
	}
	sort.SliceStable(progress.Students, func(i, j int) bool {
		return progress.Students[i].Assigned > progress.Students[j].Assigned
	})

	progress.Areas = make([]AreaCoverage, 0, len(areas))
	for _, a := range areas {
		progress.Areas = append(progress.Areas, *a)
	}
	sort.Slice(progress.Areas, func(i, j int) bool { return progress.Areas[i].Area < progress.Areas[j].Area })

	return progress
}

func completionPercent(completed, assigned int) float64 {
	if assigned == 0 {
		return 100
	}
	return min(round1(float64(completed)/float64(assigned)*100), 100)
}
