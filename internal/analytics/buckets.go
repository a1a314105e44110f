package analytics

import "github.com/shopspring/decimal"

type ageBucket struct {
	min   int // inclusive
	label string
}

// Age buckets are contiguous and lower-bound inclusive: age 5 is a school
// child, age 60 is still late adolescence, 61 is old age.
var ageBuckets = []ageBucket{
	{min: 0, label: "Under 5 (< 5)"},
	{min: 5, label: "School (5-12)"},
	{min: 12, label: "Teen (12-19)"},
	{min: 19, label: "Early Adol (19-25)"},
	{min: 25, label: "Mid Adol (25-40)"},
	{min: 40, label: "Late Adol (40-60)"},
	{min: 61, label: "Old Age (> 60)"},
}

// UnderFiveAge is the exclusive upper bound of the under-five bucket.
const UnderFiveAge = 5

func AgeBucketLabels() []string {
	out := make([]string, len(ageBuckets))
	for i, b := range ageBuckets {
		out[i] = b.label
	}
	return out
}

// AgeBucket returns the bucket label for age. Negative ages count as 0.
func AgeBucket(age int) string {
	label := ageBuckets[0].label
	for _, b := range ageBuckets {
		if age >= b.min {
			label = b.label
		}
	}
	return label
}

type DependencyBand int

const (
	Child DependencyBand = iota
	WorkingAge
	Elderly
)

// Dependency bands follow the usual demographic convention: under 15,
// 15 to 64, 65 and over.
func DependencyBandOf(age int) DependencyBand {
	switch {
	case age < 15:
		return Child
	case age < 65:
		return WorkingAge
	default:
		return Elderly
	}
}

type incomeBracket struct {
	max       decimal.Decimal
	inclusive bool
	label     string
}

var incomeBrackets = []incomeBracket{
	{max: decimal.NewFromInt(1000), label: "Below Rs 1000"},
	{max: decimal.NewFromInt(1500), inclusive: true, label: "Rs 1000-1500"},
	{max: decimal.NewFromInt(2000), inclusive: true, label: "Rs 1501-2000"},
	{max: decimal.NewFromInt(2500), inclusive: true, label: "Rs 2001-2500"},
}

const topIncomeBracket = "Rs 2501 and above"

func IncomeBracketLabels() []string {
	out := make([]string, 0, len(incomeBrackets)+1)
	for _, b := range incomeBrackets {
		out = append(out, b.label)
	}
	return append(out, topIncomeBracket)
}

// IncomeBracket places a monthly family income. Missing income is zero and
// lands in the lowest bracket.
func IncomeBracket(income decimal.Decimal) string {
	for _, b := range incomeBrackets {
		if income.LessThan(b.max) || (b.inclusive && income.Equal(b.max)) {
			return b.label
		}
	}
	return topIncomeBracket
}
