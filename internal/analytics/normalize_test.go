package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// TEST SUITE 1: CATEGORY NORMALIZER
// ============================================================================

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		domain   Domain
		input    string
		expected string
	}{
		{"semi pucca before pucca", HouseType, "Semi-Pucca House", "Semi-Pucca"},
		{"semipucca no dash", HouseType, "semipucca", "Semi-Pucca"},
		{"plain pucca", HouseType, "  PUCCA ", "Pucca"},
		{"kutcha spelling", HouseType, "Kachha", "Kutcha"},
		{"house empty", HouseType, "", "Other"},
		{"house unknown", HouseType, "tent", "Other"},

		{"female before male", Gender, "Female", "Female"},
		{"woman before man", Gender, "woman", "Female"},
		{"single letter male", Gender, "M", "Male"},
		{"single letter female", Gender, "f", "Female"},
		{"gender blank", Gender, "   ", "Other"},
		{"gender transgender", Gender, "transgender", "Other"},

		{"inadequate before adequate", Drainage, "Inadequate", "Inadequate"},
		{"not adequate", Drainage, "not adequate", "Inadequate"},
		{"no drainage", Drainage, "No drainage", "No Drainage"},
		{"none", Drainage, "None", "No Drainage"},
		{"adequate", Drainage, "Adequate", "Adequate"},
		{"word no only as word", Drainage, "unknown", "Other"},

		{"post graduate", Education, "Post Graduate", "Professional/Post Grad"},
		{"graduate", Education, "Graduate", "Graduate"},
		{"higher secondary", Education, "Higher Secondary", "High Secondary"},
		{"twelfth", Education, "12th pass", "High Secondary"},
		{"secondary", Education, "Secondary", "Secondary"},
		{"illiterate before literate", Education, "Illiterate", "Illiterate"},
		{"literate", Education, "Literate", "Primary/Literate"},
		{"primary", Education, "primary school", "Primary/Literate"},

		{"labour", Occupation, "Daily wages labour", "Laborer"},
		{"farmer", Occupation, "Farmer", "Farmer"},
		{"self employed", Occupation, "Self employed", "Own Business"},
		{"govt", Occupation, "Govt job", "Govt Job"},
		{"student", Occupation, "Student", "Unemployed"},
		{"occupation missing", Occupation, "", "Other"},

		{"joint", FamilyType, "Joint family", "Joint"},
		{"living alone", FamilyType, "Living alone", "Single"},
		{"religion islam", Religion, "Islam", "Muslim"},
		{"religion other", Religion, "Jain", "Other"},
		{"waste burning", WasteDisposal, "Burning", "Burning"},
		{"waste buried", WasteDisposal, "buried", "Burying"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.domain.Classify(tt.input))
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, "Semi-Pucca", HouseType.Classify("Semi-Pucca House"))
	}
}

func TestDomainLabels_EndWithFallback(t *testing.T) {
	for _, d := range []Domain{Gender, Religion, FamilyType, HouseType, Drainage, Education, Occupation, WasteDisposal} {
		t.Run(d.Name, func(t *testing.T) {
			assert.Equal(t, d.Fallback, d.Labels[len(d.Labels)-1])
			for _, r := range d.Rules {
				assert.Contains(t, d.Labels, r.Label, "rule label must be canonical")
			}
		})
	}
}

// ============================================================================
// TEST SUITE 2: BUCKETS
// ============================================================================

func TestAgeBucket(t *testing.T) {
	tests := []struct {
		age      int
		expected string
	}{
		{-3, "Under 5 (< 5)"},
		{0, "Under 5 (< 5)"},
		{4, "Under 5 (< 5)"},
		{5, "School (5-12)"},
		{12, "Teen (12-19)"},
		{19, "Early Adol (19-25)"},
		{25, "Mid Adol (25-40)"},
		{40, "Late Adol (40-60)"},
		{60, "Late Adol (40-60)"},
		{61, "Old Age (> 60)"},
		{120, "Old Age (> 60)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, AgeBucket(tt.age), "age %d", tt.age)
	}
}
