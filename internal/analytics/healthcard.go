package analytics

import (
	"strings"

	"survey-service/internal/models"
)

const (
	AdviceChlorination = `Water source "Well" needs regular chlorination. Please practice boiling water before drinking.`
	AdviceSanitation   = "Open defecation poses severe health risks. Please utilize community or private latrines."
	AdviceHygiene      = "Improve house hygiene to prevent breeding of insects and spread of disease."
	AdviceImmunization = "Ensure all children under 5 have completed their immunization schedule (Polio, BCG, DPT)."
	AdviceCheckup      = "Visit the nearest Health Centre for regular checkups."
)

type HealthCardMember struct {
	Name         string `json:"name"`
	Age          int    `json:"age"`
	Gender       string `json:"gender"`
	Relationship string `json:"relationship"`
	HealthStatus string `json:"health_status"`
}

type HealthCard struct {
	SurveyID     string             `json:"survey_id"`
	HeadOfFamily string             `json:"head_of_family"`
	AreaName     string             `json:"area_name"`
	AreaType     string             `json:"area_type"`
	Contact      string             `json:"contact"`
	Members      []HealthCardMember `json:"members"`
	Advice       []string           `json:"advice"`
}

func orNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}

// BuildHealthCard lists the household members and the health advice that
// applies to the household. The general checkup advice is always last.
func BuildHealthCard(rec models.SurveyRecord) HealthCard {
	p := &rec.Payload
	card := HealthCard{
		SurveyID:     rec.ID,
		HeadOfFamily: orNA(p.HeadOfFamily.Trimmed()),
		AreaName:     orNA(p.AreaName.Trimmed()),
		AreaType:     orNA(p.AreaType.Trimmed()),
		Contact:      orNA(p.ContactNumber.Trimmed()),
		Members:      make([]HealthCardMember, 0, len(p.FamilyMembers)),
	}
	for _, m := range p.FamilyMembers {
		status := m.HealthStatus.Trimmed()
		if status == "" {
			status = "Healthy"
		}
		card.Members = append(card.Members, HealthCardMember{
			Name:         m.Name.Trimmed(),
			Age:          m.AgeYears(),
			Gender:       m.Gender.Trimmed(),
			Relationship: m.Relationship.Trimmed(),
			HealthStatus: status,
		})
	}
	card.Advice = healthAdvice(p)
	return card
}

func healthAdvice(p *models.SurveyPayload) []string {
	var advice []string

	water := strings.ToLower(p.WaterSupply.Trimmed())
	if water == "well" || water == "hand pump" {
		chlorinated := p.WellChlorinationDate.Trimmed()
		if chlorinated == "" || strings.EqualFold(chlorinated, "never") {
			advice = append(advice, AdviceChlorination)
		}
	}
	if p.OpenAirDefecation.Value() {
		advice = append(advice, AdviceSanitation)
	}
	if p.HouseKeptClean.IsFalse() {
		advice = append(advice, AdviceHygiene)
	}
	for _, m := range p.FamilyMembers {
		if m.AgeYears() < UnderFiveAge {
			advice = append(advice, AdviceImmunization)
			break
		}
	}
	return append(advice, AdviceCheckup)
}
