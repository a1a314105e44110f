package analytics

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"survey-service/internal/models"
)

// MastersheetRow is one category row of the submitter cross-tabulation.
type MastersheetRow struct {
	Section string `json:"section"`
	Label   string `json:"label"`
	Cells   []int  `json:"cells"`
	Total   int    `json:"total"`
}

// MastersheetMatrix counts every row condition per submitter column. Cells are
// parallel to Columns, ColumnTotals sums each column over all rows.
type MastersheetMatrix struct {
	Columns      []string         `json:"columns"`
	Rows         []MastersheetRow `json:"rows"`
	ColumnTotals []int            `json:"column_totals"`
	GrandTotal   int              `json:"grand_total"`
}

// Row returns the row with the given section and label.
func (m MastersheetMatrix) Row(section, label string) (MastersheetRow, bool) {
	for _, r := range m.Rows {
		if r.Section == section && r.Label == label {
			return r, true
		}
	}
	return MastersheetRow{}, false
}

// Sections returns the distinct section titles in row order. The untitled
// top row is reported as "".
func (m MastersheetMatrix) Sections() []string {
	var out []string
	for i, r := range m.Rows {
		if i == 0 || m.Rows[i-1].Section != r.Section {
			out = append(out, r.Section)
		}
	}
	return out
}

type rowSpec struct {
	section string
	label   string
	value   func(AggregationResult) int
}

const (
	SectionTop        = ""
	SectionPopulation = "12. TOTAL POPULATION"
	RowTotalHouses    = "Total Houses Allotted"
	RowPopulation     = "Total Population"
)

func tallyRows(section string, t func(AggregationResult) Tally, labels []string) []rowSpec {
	out := make([]rowSpec, 0, len(labels))
	for i, label := range labels {
		out = append(out, rowSpec{
			section: section,
			label:   fmt.Sprintf("%c. %s", 'a'+i, label),
			value:   func(a AggregationResult) int { return t(a).Count(label) },
		})
	}
	return out
}

func vitalRow(section, label, vital string) rowSpec {
	return rowSpec{
		section: section,
		label:   label,
		value:   func(a AggregationResult) int { return a.VitalStats.Count(vital) },
	}
}

// mastersheetLayout is the fixed row set. Cells read the per-column
// aggregation, so every cell uses the same classification as the dashboard
// charts.
var mastersheetLayout = func() []rowSpec {
	var rows []rowSpec
	rows = append(rows, rowSpec{SectionTop, RowTotalHouses, func(a AggregationResult) int { return a.TotalRecords }})
	rows = append(rows, tallyRows("1. AGE (IN YEARS)", func(a AggregationResult) Tally { return a.AgeGroups }, AgeBucketLabels())...)
	rows = append(rows, tallyRows("2. SEX", func(a AggregationResult) Tally { return a.Gender }, []string{"Male", "Female"})...)
	rows = append(rows, tallyRows("3. RELIGION", func(a AggregationResult) Tally { return a.Religion }, Religion.Labels)...)
	rows = append(rows, tallyRows("4. EDUCATION STATUS", func(a AggregationResult) Tally { return a.Education }, Education.Labels)...)
	rows = append(rows, tallyRows("5. TYPE OF FAMILY", func(a AggregationResult) Tally { return a.FamilyType }, FamilyType.Labels)...)
	rows = append(rows, tallyRows("6. OCCUPATION", func(a AggregationResult) Tally { return a.Occupation }, Occupation.Labels)...)
	rows = append(rows, tallyRows("7. FAMILY INCOME / MONTH", func(a AggregationResult) Tally { return a.IncomeBracket }, IncomeBracketLabels())...)
	rows = append(rows, tallyRows("8. TYPE OF HOUSE", func(a AggregationResult) Tally { return a.HouseType }, HouseType.Labels)...)
	rows = append(rows, tallyRows("9. DRAINAGE", func(a AggregationResult) Tally { return a.Drainage }, Drainage.Labels)...)
	rows = append(rows, tallyRows("10. DISPOSAL OF WASTE", func(a AggregationResult) Tally { return a.WasteDisposal }, WasteDisposal.Labels)...)
	rows = append(rows, tallyRows("11. ELIGIBLE COUPLE", func(a AggregationResult) Tally { return a.VitalStats },
		[]string{VitalTubectomy, VitalVasectomy, VitalTemporary, VitalInfertility})...)
	rows = append(rows,
		rowSpec{SectionPopulation, RowPopulation, func(a AggregationResult) int { return a.TotalMembers }},
		vitalRow("13. NUMBER OF DEATH IN LAST ONE YEAR", "Deaths", VitalDeaths),
		vitalRow("14. NUMBER OF BIRTH IN LAST ONE YEAR", "Births", VitalBirths),
		vitalRow("15. UNDER FIVE CHILDREN", "Under 5", VitalUnderFive),
		vitalRow("16. ANTENATAL MOTHERS", "Antenatal Mothers", VitalAntenatal),
		vitalRow("17. POSTNATAL MOTHERS", "Postnatal Mothers", VitalPostnatal),
		vitalRow("18. ELIGIBLE COUPLES", "Priority - I", VitalPriorityOne),
		vitalRow("18. ELIGIBLE COUPLES", "Priority - II", VitalPriorityTwo),
		vitalRow("19. NUMBER OF MARRIAGES IN LAST ONE YEAR", "Marriages", VitalMarriages),
	)
	return rows
}()

var trailingDigits = regexp.MustCompile(`\d+$`)

// SubmitterKey is the column key of a record: the trailing digits of the
// submitter label ("23CS042" becomes "042"), or the whole label when it does
// not end in digits.
func SubmitterKey(rec models.SurveyRecord) string {
	label := rec.SubmitterLabel()
	if m := trailingDigits.FindString(label); m != "" {
		return m
	}
	return label
}

// BuildMatrix cross-tabulates records by submitter. The first pass discovers
// and groups the columns, the second aggregates each column and fills the
// fixed row layout.
func BuildMatrix(records []models.SurveyRecord) MastersheetMatrix {
	groups := make(map[string][]models.SurveyRecord)
	for _, rec := range records {
		key := SubmitterKey(rec)
		groups[key] = append(groups[key], rec)
	}

	columns := make([]string, 0, len(groups))
	for key := range groups {
		columns = append(columns, key)
	}
	sortColumns(columns)

	perColumn := make([]AggregationResult, len(columns))
	for i, key := range columns {
		perColumn[i] = Aggregate(groups[key])
	}

	matrix := MastersheetMatrix{
		Columns:      columns,
		Rows:         make([]MastersheetRow, 0, len(mastersheetLayout)),
		ColumnTotals: make([]int, len(columns)),
	}
	for _, spec := range mastersheetLayout {
		row := MastersheetRow{
			Section: spec.section,
			Label:   spec.label,
			Cells:   make([]int, len(columns)),
		}
		for i, agg := range perColumn {
			v := spec.value(agg)
			row.Cells[i] = v
			row.Total += v
			matrix.ColumnTotals[i] += v
		}
		matrix.GrandTotal += row.Total
		matrix.Rows = append(matrix.Rows, row)
	}
	return matrix
}

// sortColumns orders keys numerically when every key is made of digits and
// lexicographically otherwise.
func sortColumns(keys []string) {
	allNumeric := true
	for _, k := range keys {
		if !isDigits(k) {
			allNumeric = false
			break
		}
	}
	if !allNumeric {
		sort.Strings(keys)
		return
	}
	sort.SliceStable(keys, func(i, j int) bool {
		a := strings.TrimLeft(keys[i], "0")
		b := strings.TrimLeft(keys[j], "0")
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		if a != b {
			return a < b
		}
		return keys[i] < keys[j]
	})
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
