package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ============================================================================
// TOLERANT PAYLOAD SCALARS
// ============================================================================
//
// Survey payloads are written by field devices over several app versions, so
// any field may be missing, null or of the wrong JSON type. The types below
// never fail to decode: anything they cannot interpret becomes the zero value.

var jsonNull = []byte("null")

// FlexString accepts JSON strings only; every other JSON value decodes to "".
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		*s = ""
		return nil
	}
	*s = FlexString(v)
	return nil
}

func (s FlexString) String() string { return string(s) }

// Trimmed returns the value without surrounding whitespace.
func (s FlexString) Trimmed() string { return strings.TrimSpace(string(s)) }

// LooseString accepts strings and numbers (house numbers and phone numbers
// arrive as either). Other JSON values decode to "".
type LooseString string

func (s *LooseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*s = ""
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var v string
		if err := json.Unmarshal(data, &v); err == nil {
			*s = LooseString(v)
		}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(data, &n); err == nil {
			*s = LooseString(n.String())
		}
	}
	return nil
}

func (s LooseString) String() string { return string(s) }

func (s LooseString) Trimmed() string { return strings.TrimSpace(string(s)) }

// FlexIntLimit bounds decoded FlexInt magnitudes.
const FlexIntLimit = 1_000_000

// FlexInt decodes numbers (truncated toward zero) and strings with a leading
// integer such as "42", " 7 yrs" or "-3", saturating at ±FlexIntLimit.
// Anything else is 0.
type FlexInt int

func (i *FlexInt) UnmarshalJSON(data []byte) error {
	*i = 0
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*i = FlexInt(clampInt(f))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*i = FlexInt(ParseLeadingInt(s))
	}
	return nil
}

func clampInt(f float64) int {
	switch {
	case f >= FlexIntLimit:
		return FlexIntLimit
	case f <= -FlexIntLimit:
		return -FlexIntLimit
	}
	return int(f)
}

func (i FlexInt) Int() int { return int(i) }

// ParseLeadingInt reads an optional sign and the digits that follow it after
// skipping leading whitespace, saturating at ±FlexIntLimit. It returns 0 when
// no digits are present.
func ParseLeadingInt(s string) int {
	s = strings.TrimLeft(s, " \t\r\n")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0
	}
	n, err := strconv.ParseFloat(s[:end], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return clampInt(n)
}

// Money holds a currency amount. Numbers and numeric strings decode exactly;
// anything else is zero.
type Money struct {
	decimal.Decimal
}

func NewMoney(v int64) Money {
	return Money{Decimal: decimal.NewFromInt(v)}
}

func (m *Money) UnmarshalJSON(data []byte) error {
	m.Decimal = decimal.Zero
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	m.Decimal = d
	return nil
}

// FlexBool is a tri-state boolean. Set reports whether the payload carried a
// usable value at all, so "explicitly false" can be told apart from "absent".
type FlexBool struct {
	set   bool
	value bool
}

func NewFlexBool(v bool) FlexBool {
	return FlexBool{set: true, value: v}
}

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	*b = FlexBool{}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	switch t := v.(type) {
	case bool:
		*b = FlexBool{set: true, value: t}
	case float64:
		*b = FlexBool{set: true, value: t != 0}
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "1":
			*b = FlexBool{set: true, value: true}
		case "false", "no", "n", "0":
			*b = FlexBool{set: true, value: false}
		}
	}
	return nil
}

func (b FlexBool) MarshalJSON() ([]byte, error) {
	if !b.set {
		return jsonNull, nil
	}
	return json.Marshal(b.value)
}

// Value is true only when the payload carried a truthy value.
func (b FlexBool) Value() bool { return b.set && b.value }

func (b FlexBool) Set() bool { return b.set }

// IsFalse is true only when the payload explicitly carried a falsy value.
func (b FlexBool) IsFalse() bool { return b.set && !b.value }

// ============================================================================
// TOLERANT PAYLOAD LISTS
// ============================================================================

// FlexList decodes a JSON array element by element. A non-array decodes to an
// empty list; an element that fails to decode becomes the zero element so the
// list length still reflects what was recorded.
type FlexList[T any] []T

func (l *FlexList[T]) UnmarshalJSON(data []byte) error {
	*l = nil
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	out := make([]T, len(raw))
	for i, elem := range raw {
		var v T
		if err := json.Unmarshal(elem, &v); err == nil {
			out[i] = v
		}
	}
	*l = out
	return nil
}

// StringList accepts an array of strings or a single string. Non-string
// elements decode to "".
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	*l = nil
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if strings.TrimSpace(single) != "" {
			*l = StringList{single}
		}
		return nil
	}
	var items FlexList[FlexString]
	_ = items.UnmarshalJSON(data)
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = string(item)
	}
	*l = out
	return nil
}

// ListLen records only how many entries a list had. Used for lists whose
// entries the service never reads (births, deaths, marriages, symptom cases).
type ListLen int

func (n *ListLen) UnmarshalJSON(data []byte) error {
	*n = 0
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	*n = ListLen(len(raw))
	return nil
}

func (n ListLen) Len() int { return int(n) }

// IllnessEntry is either a bare illness name or an object carrying it under
// "name" or "illness".
type IllnessEntry string

func (e *IllnessEntry) UnmarshalJSON(data []byte) error {
	*e = ""
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*e = IllnessEntry(s)
		return nil
	}
	var obj struct {
		Name    FlexString `json:"name"`
		Illness FlexString `json:"illness"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}
	switch {
	case obj.Name != "":
		*e = IllnessEntry(obj.Name)
	case obj.Illness != "":
		*e = IllnessEntry(obj.Illness)
	default:
		*e = "Unknown"
	}
	return nil
}
