package analytics

import "strings"

// Rule maps raw text to a canonical label when Match accepts the lower-cased,
// trimmed input.
type Rule struct {
	Label string
	Match func(s string) bool
}

// Domain is an ordered keyword classifier. Rules are tried in order and the
// first match wins, so overlapping keywords ("semi-pucca" contains "pucca")
// must list the narrower rule first. Labels is the display order of the
// canonical label set and always ends with Fallback.
type Domain struct {
	Name     string
	Rules    []Rule
	Labels   []string
	Fallback string
}

// Classify returns exactly one label of d for raw. Empty input maps to the
// fallback label.
func (d Domain) Classify(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return d.Fallback
	}
	for _, r := range d.Rules {
		if r.Match(s) {
			return r.Label
		}
	}
	return d.Fallback
}

func contains(keywords ...string) func(string) bool {
	return func(s string) bool {
		for _, k := range keywords {
			if strings.Contains(s, k) {
				return true
			}
		}
		return false
	}
}

func equals(values ...string) func(string) bool {
	return func(s string) bool {
		for _, v := range values {
			if s == v {
				return true
			}
		}
		return false
	}
}

func hasWord(words ...string) func(string) bool {
	return func(s string) bool {
		for _, field := range strings.FieldsFunc(s, func(r rune) bool {
			return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
		}) {
			for _, w := range words {
				if field == w {
					return true
				}
			}
		}
		return false
	}
}

func anyOf(preds ...func(string) bool) func(string) bool {
	return func(s string) bool {
		for _, p := range preds {
			if p(s) {
				return true
			}
		}
		return false
	}
}

const Other = "Other"

var Gender = Domain{
	Name: "gender",
	Rules: []Rule{
		// "female" contains "male" and "woman" contains "man"
		{Label: "Female", Match: anyOf(equals("f"), contains("female", "woman", "women", "girl"))},
		{Label: "Male", Match: anyOf(equals("m"), contains("male", "man", "men", "boy"))},
	},
	Labels:   []string{"Male", "Female", Other},
	Fallback: Other,
}

var Religion = Domain{
	Name: "religion",
	Rules: []Rule{
		{Label: "Hindu", Match: contains("hindu")},
		{Label: "Muslim", Match: contains("muslim", "islam")},
		{Label: "Christian", Match: contains("christian")},
	},
	Labels:   []string{"Hindu", "Muslim", "Christian", Other},
	Fallback: Other,
}

var FamilyType = Domain{
	Name: "family type",
	Rules: []Rule{
		{Label: "Nuclear", Match: contains("nuclear")},
		{Label: "Joint", Match: contains("joint", "extended")},
		{Label: "Single", Match: contains("single", "alone")},
	},
	Labels:   []string{"Nuclear", "Joint", "Single", Other},
	Fallback: Other,
}

var HouseType = Domain{
	Name: "house type",
	Rules: []Rule{
		{Label: "Semi-Pucca", Match: contains("semi")},
		{Label: "Pucca", Match: contains("pucca", "pukka")},
		{Label: "Kutcha", Match: contains("kutcha", "kachha", "kaccha", "kucha")},
	},
	Labels:   []string{"Pucca", "Semi-Pucca", "Kutcha", Other},
	Fallback: Other,
}

var Drainage = Domain{
	Name: "drainage",
	Rules: []Rule{
		// "inadequate" and "not adequate" both contain "adequate"
		{Label: "Inadequate", Match: contains("inadequate", "not adequate", "poor")},
		{Label: "No Drainage", Match: anyOf(hasWord("no"), contains("none", "absent"))},
		{Label: "Adequate", Match: contains("adequate")},
	},
	Labels:   []string{"Adequate", "Inadequate", "No Drainage", Other},
	Fallback: Other,
}

var Education = Domain{
	Name: "education",
	Rules: []Rule{
		{Label: "Professional/Post Grad", Match: contains("professional", "post")},
		{Label: "Graduate", Match: contains("graduate")},
		{Label: "Diploma", Match: contains("diploma")},
		{Label: "High Secondary", Match: contains("higher", "12")},
		{Label: "Secondary", Match: contains("secondary", "10")},
		// "illiterate" contains "literate"
		{Label: "Illiterate", Match: contains("illiterate")},
		{Label: "Primary/Literate", Match: contains("primary", "literate")},
	},
	Labels: []string{
		"Professional/Post Grad", "Graduate", "Diploma", "High Secondary",
		"Secondary", "Primary/Literate", "Illiterate", Other,
	},
	Fallback: Other,
}

var Occupation = Domain{
	Name: "occupation",
	Rules: []Rule{
		{Label: "Laborer", Match: contains("labor", "labour", "daily wage")},
		{Label: "Farmer", Match: contains("farm")},
		{Label: "Own Business", Match: contains("business", "self")},
		{Label: "Private Job", Match: contains("private")},
		{Label: "Govt Job", Match: contains("gov")},
		{Label: "Housewife", Match: contains("housewife", "homemaker")},
		{Label: "Unemployed", Match: contains("unemploy", "student")},
	},
	Labels: []string{
		"Laborer", "Farmer", "Own Business", "Private Job",
		"Govt Job", "Housewife", "Unemployed", Other,
	},
	Fallback: Other,
}

var WasteDisposal = Domain{
	Name: "waste disposal",
	Rules: []Rule{
		{Label: "Composting", Match: contains("compost")},
		{Label: "Burning", Match: contains("burn")},
		{Label: "Burying", Match: contains("bury", "buri")},
		{Label: "Dumping", Match: contains("dump")},
	},
	Labels:   []string{"Composting", "Burning", "Burying", "Dumping", Other},
	Fallback: Other,
}
