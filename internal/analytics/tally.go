package analytics

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Tally is an ordered frequency table. Seeded labels keep their position and
// appear with zero counts; labels first seen while counting are appended.
type Tally struct {
	labels []string
	counts map[string]int
}

func NewTally(labels ...string) Tally {
	t := Tally{counts: make(map[string]int, len(labels))}
	for _, l := range labels {
		t.seed(l)
	}
	return t
}

func (t *Tally) seed(label string) {
	if t.counts == nil {
		t.counts = make(map[string]int)
	}
	if _, ok := t.counts[label]; !ok {
		t.labels = append(t.labels, label)
		t.counts[label] = 0
	}
}

func (t *Tally) add(label string, n int) {
	t.seed(label)
	t.counts[label] += n
}

func (t Tally) Count(label string) int { return t.counts[label] }

func (t Tally) Len() int { return len(t.labels) }

func (t Tally) Labels() []string {
	out := make([]string, len(t.labels))
	copy(out, t.labels)
	return out
}

// Values returns the counts parallel to Labels.
func (t Tally) Values() []int {
	out := make([]int, len(t.labels))
	for i, l := range t.labels {
		out[i] = t.counts[l]
	}
	return out
}

func (t Tally) Total() int {
	total := 0
	for _, c := range t.counts {
		total += c
	}
	return total
}

// MarshalJSON writes the table as an object whose keys keep label order.
func (t Tally) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, l := range t.labels {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(l)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		fmt.Fprintf(&buf, ":%d", t.counts[l])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (t *Tally) UnmarshalJSON(data []byte) error {
	*t = NewTally()
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to read tally: %w", err)
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("tally must be a JSON object")
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to read tally label: %w", err)
		}
		label, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("tally label must be a string")
		}
		var n int
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("failed to read count for %q: %w", label, err)
		}
		t.add(label, n)
	}
	return nil
}
