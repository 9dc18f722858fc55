package domain

import (
	"fmt"
	"time"
)

type Year = int

// ResistanceStatus classifies one sample against one marker. For composite
// classifications (Pan-Susceptible, H58) resistant means the classification holds.
type ResistanceStatus int

const (
	StatusUnknown ResistanceStatus = iota
	StatusResistant
	StatusNonResistant
	StatusNotTested
)

var statusLabels = map[ResistanceStatus]string{
	StatusUnknown:      "unknown",
	StatusResistant:    "resistant",
	StatusNonResistant: "non_resistant",
	StatusNotTested:    "not_tested",
}

func ParseResistanceStatus(s string) (ResistanceStatus, bool) {
	for status, label := range statusLabels {
		if label == s {
			return status, true
		}
	}
	return StatusUnknown, false
}

func (s ResistanceStatus) String() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return fmt.Sprintf("ResistanceStatus(%d)", int(s))
}

func (s ResistanceStatus) MarshalText() ([]byte, error) {
	label, ok := statusLabels[s]
	if !ok {
		return nil, fmt.Errorf("marshal status %d: unknown status", int(s))
	}
	return []byte(label), nil
}

func (s *ResistanceStatus) UnmarshalText(text []byte) error {
	parsed, ok := ParseResistanceStatus(string(text))
	if !ok {
		return fmt.Errorf("unknown resistance status %q", string(text))
	}
	*s = parsed
	return nil
}

type Resistance map[Marker]ResistanceStatus

// SampleRecord is one sequenced isolate. Records are never mutated after ingestion.
type SampleRecord struct {
	ID         string     `db:"id" json:"id"`
	Organism   string     `db:"organism" json:"organism"`
	Country    string     `db:"country" json:"country"`
	Year       Year       `db:"year" json:"year"`
	Genotype   string     `db:"genotype" json:"genotype"`
	Resistance Resistance `db:"resistance" json:"resistance"`
	CreatedAt  time.Time  `db:"created_at" json:"-"`
}

func (r SampleRecord) IsResistant(m Marker) bool {
	return r.Resistance[m] == StatusResistant
}
