package analytics

import (
	"strings"
	"time"

	"survey-service/internal/models"
)

// Vital statistic labels, in display order.
const (
	VitalTubectomy       = "Tubectomy"
	VitalVasectomy       = "Vasectomy"
	VitalTemporary       = "Temporary Contraceptives"
	VitalInfertility     = "Infertility"
	VitalBirths          = "Births (Last 1yr)"
	VitalDeaths          = "Deaths (Last 1yr)"
	VitalAntenatal       = "Antenatal Mothers"
	VitalPostnatal       = "Postnatal Mothers"
	VitalEligibleCouples = "Eligible Couples"
	VitalPriorityOne     = "Priority I"
	VitalPriorityTwo     = "Priority II"
	VitalMarriages       = "Marriages"
	VitalUnderFive       = "Under 5 Children"
)

var vitalLabels = []string{
	VitalTubectomy, VitalVasectomy, VitalTemporary, VitalInfertility,
	VitalBirths, VitalDeaths, VitalAntenatal, VitalPostnatal,
	VitalEligibleCouples, VitalPriorityOne, VitalPriorityTwo,
	VitalMarriages, VitalUnderFive,
}

// Symptom labels. Symptom lists only carry case entries, so the label is fixed
// per source list.
const (
	SymptomFever = "Fever"
	SymptomSkin  = "Skin Disease"
	SymptomCough = "Cough"
)

// Known disease names are listed up front so the tables are zero-filled.
var communicableDiseases = []string{
	"Small pox", "Chicken pox", "Measles", "Influenza", "Rubella",
	"ARI’s & Pneumonia", "Mumps", "Diphtheria", "Whooping cough",
	"Meningococcal meningitis", "Tuberculosis", "SARS", "SARS 2(CORONA VIRUS)",
	"EBOLA virus disease", "Nipah Virus infection", "Poliomyelitis", "Viral Hepatitis",
	"Cholera", "Diarrheal diseases", "Typhoid Fever", "Food poisoning",
	"Hook worm infection", "Dengue", "Malaria", "Filariasis", "Rabies",
	"Yellow fever", "Japanese encephalitis", "Brucellosis", "Plague",
	"Anthrax", "Trachoma", "Tetanus", "Leprosy", "STD & RTI",
	"Yaws", "HIV/AIDS",
}

var nonCommunicableDiseases = []string{
	"Malnutrition", "Anemia", "Hypertension", "Stroke",
	"Rheumatic Heart Disease", "Coronary Heart Disease", "Cancer",
	"Diabetes mellitus", "Blindness", "Accidents", "Mental illness",
	"Obesity", "Iodine Deficiency", "Fluorosis", "Epilepsy",
}

const (
	NotAvailable     = "N/A"
	detailDateLayout = "2006-01-02"
)

// CaseDetail identifies the household behind one disease or symptom report.
type CaseDetail struct {
	HeadOfFamily string `json:"hof"`
	Contact      string `json:"contact"`
	Date         string `json:"date"`
}

type Dependency struct {
	Children   int `json:"children"`
	WorkingAge int `json:"working_age"`
	Elderly    int `json:"elderly"`
}

// AggregationResult is the frequency snapshot of one record set. It is not
// modified after Aggregate returns.
type AggregationResult struct {
	TotalRecords int `json:"total_records"`
	TotalMembers int `json:"total_members"`
	IllMembers   int `json:"ill_members"`

	// household level
	Religion      Tally `json:"religion"`
	FamilyType    Tally `json:"family_type"`
	HouseType     Tally `json:"house_type"`
	Drainage      Tally `json:"drainage"`
	WasteDisposal Tally `json:"waste_disposal"`
	IncomeBracket Tally `json:"income_bracket"`

	// member level
	AgeGroups  Tally      `json:"age_groups"`
	Gender     Tally      `json:"gender"`
	Education  Tally      `json:"education"`
	Occupation Tally      `json:"occupation"`
	Dependency Dependency `json:"dependency"`

	VitalStats Tally `json:"vital_stats"`

	Communicable    Tally `json:"communicable"`
	NonCommunicable Tally `json:"non_communicable"`
	Symptoms        Tally `json:"symptoms"`
	OtherIllness    Tally `json:"other_illness"`

	DiseaseDetails map[string][]CaseDetail `json:"disease_details"`
}

func newAggregationResult() AggregationResult {
	return AggregationResult{
		Religion:        NewTally(Religion.Labels...),
		FamilyType:      NewTally(FamilyType.Labels...),
		HouseType:       NewTally(HouseType.Labels...),
		Drainage:        NewTally(Drainage.Labels...),
		WasteDisposal:   NewTally(WasteDisposal.Labels...),
		IncomeBracket:   NewTally(IncomeBracketLabels()...),
		AgeGroups:       NewTally(AgeBucketLabels()...),
		Gender:          NewTally(Gender.Labels...),
		Education:       NewTally(Education.Labels...),
		Occupation:      NewTally(Occupation.Labels...),
		VitalStats:      NewTally(vitalLabels...),
		Communicable:    NewTally(communicableDiseases...),
		NonCommunicable: NewTally(nonCommunicableDiseases...),
		Symptoms:        NewTally(SymptomFever, SymptomSkin, SymptomCough),
		OtherIllness:    NewTally(),
		DiseaseDetails:  make(map[string][]CaseDetail),
	}
}

// Aggregate folds records into frequency tables in a single pass. Records are
// classified independently; input order only affects the order of case
// details.
func Aggregate(records []models.SurveyRecord) AggregationResult {
	res := newAggregationResult()
	for i := range records {
		res.addRecord(&records[i])
	}
	return res
}

func (res *AggregationResult) addRecord(rec *models.SurveyRecord) {
	p := &rec.Payload
	res.TotalRecords++

	res.Religion.add(Religion.Classify(string(p.Religion)), 1)
	res.FamilyType.add(FamilyType.Classify(string(p.FamilyType)), 1)
	res.HouseType.add(HouseType.Classify(string(p.HouseType)), 1)
	res.Drainage.add(Drainage.Classify(string(p.Drainage)), 1)
	res.IncomeBracket.add(IncomeBracket(p.TotalIncome.Decimal), 1)

	for _, method := range p.WasteDisposalMethods {
		res.WasteDisposal.add(WasteDisposal.Classify(method), 1)
	}

	for _, m := range p.FamilyMembers {
		res.addMember(m)
	}

	res.addVitals(p)
	res.addDiseases(rec)
}

func (res *AggregationResult) addMember(m models.FamilyMember) {
	res.TotalMembers++
	age := m.AgeYears()

	res.AgeGroups.add(AgeBucket(age), 1)
	res.Gender.add(Gender.Classify(string(m.Gender)), 1)
	res.Education.add(Education.Classify(string(m.Education)), 1)
	res.Occupation.add(Occupation.Classify(string(m.Occupation)), 1)

	switch DependencyBandOf(age) {
	case Child:
		res.Dependency.Children++
	case WorkingAge:
		res.Dependency.WorkingAge++
	case Elderly:
		res.Dependency.Elderly++
	}

	if age < UnderFiveAge {
		res.VitalStats.add(VitalUnderFive, 1)
	}
	if m.IsIll() {
		res.IllMembers++
	}
}

func (res *AggregationResult) addVitals(p *models.SurveyPayload) {
	plan := FamilyPlanningOf(p)
	if plan.Tubectomy {
		res.VitalStats.add(VitalTubectomy, 1)
	}
	if plan.Vasectomy {
		res.VitalStats.add(VitalVasectomy, 1)
	}
	if plan.Temporary {
		res.VitalStats.add(VitalTemporary, 1)
	}
	if plan.Infertility {
		res.VitalStats.add(VitalInfertility, 1)
	}

	res.VitalStats.add(VitalBirths, p.Births.Len())
	res.VitalStats.add(VitalDeaths, p.Deaths.Len())
	res.VitalStats.add(VitalAntenatal, len(p.PregnantWomen))
	res.VitalStats.add(VitalPostnatal, p.Births.Len())
	res.VitalStats.add(VitalEligibleCouples, len(p.EligibleCouples))
	res.VitalStats.add(VitalMarriages, p.Marriages.Len())

	for _, c := range p.EligibleCouples {
		if c.IsPriorityOne() {
			res.VitalStats.add(VitalPriorityOne, 1)
		}
		if c.IsPriorityTwo() {
			res.VitalStats.add(VitalPriorityTwo, 1)
		}
	}
}

func (res *AggregationResult) addDiseases(rec *models.SurveyRecord) {
	p := &rec.Payload
	detail := caseDetailOf(rec)

	track := func(t *Tally, name string, n int) {
		name = strings.TrimSpace(name)
		if name == "" || n <= 0 {
			return
		}
		t.add(name, n)
		res.DiseaseDetails[name] = append(res.DiseaseDetails[name], detail)
	}

	for _, d := range p.CommunicableDiseases {
		track(&res.Communicable, d, 1)
	}
	for _, d := range p.NonCommunicableDiseases {
		track(&res.NonCommunicable, d, 1)
	}

	// symptom lists add their full length but one case detail per household
	track(&res.Symptoms, SymptomFever, p.FeverCases.Len())
	track(&res.Symptoms, SymptomSkin, p.SkinDiseases.Len())
	track(&res.Symptoms, SymptomCough, p.CoughCases.Len())

	for _, d := range p.OtherIllnesses {
		track(&res.OtherIllness, string(d), 1)
	}
}

func caseDetailOf(rec *models.SurveyRecord) CaseDetail {
	d := CaseDetail{
		HeadOfFamily: rec.Payload.HeadOfFamily.Trimmed(),
		Contact:      rec.Payload.ContactNumber.Trimmed(),
		Date:         formatDate(rec.SubmittedAt),
	}
	if d.HeadOfFamily == "" {
		d.HeadOfFamily = NotAvailable
	}
	if d.Contact == "" {
		d.Contact = NotAvailable
	}
	return d
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return NotAvailable
	}
	return t.UTC().Format(detailDateLayout)
}

// FamilyPlanning holds the household-level family planning flags.
type FamilyPlanning struct {
	Tubectomy   bool
	Vasectomy   bool
	Temporary   bool
	Infertility bool
}

func FamilyPlanningOf(p *models.SurveyPayload) FamilyPlanning {
	method := strings.ToLower(p.ContraceptiveMethod.Trimmed())
	permanent := strings.Contains(method, "tubect") || strings.Contains(method, "vasect")
	return FamilyPlanning{
		Tubectomy: p.IntendingTubalLigation.Value() || p.IntendingTubectomy.Value() ||
			strings.Contains(method, "tubect"),
		Vasectomy: p.IntendingVasectomy.Value() || strings.Contains(method, "vasect"),
		Temporary: p.UsesContraceptives.Value() ||
			(method != "" && method != "none" && !permanent),
		Infertility: p.Infertility.Value(),
	}
}
