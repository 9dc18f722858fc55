package dto

import (
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/ougirez/amrmap/internal/domain"
	"strings"
)

const (
	MinYear = 1900
	MaxYear = 2100
)

// Sample is one record of an imported dataset. Resistance keys are marker
// labels ("MDR", "Ampicillin/Amoxicillin") and values are status names.
type Sample struct {
	ID         string            `json:"id" validate:"omitempty,max=128"`
	Organism   string            `json:"organism" validate:"required"`
	Country    string            `json:"country" validate:"required"`
	Year       int               `json:"year" validate:"required,gte=1900,lte=2100"`
	Genotype   string            `json:"genotype" validate:"required"`
	Resistance map[string]string `json:"resistance" validate:"dive,keys,marker,endkeys,status"`
}

func (s *Sample) ToDomain() (domain.SampleRecord, error) {
	record := domain.SampleRecord{
		ID:         s.ID,
		Organism:   strings.TrimSpace(s.Organism),
		Country:    strings.TrimSpace(s.Country),
		Year:       s.Year,
		Genotype:   strings.TrimSpace(s.Genotype),
		Resistance: make(domain.Resistance, len(s.Resistance)),
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	for label, statusName := range s.Resistance {
		marker, ok := domain.ParseMarker(label)
		if !ok {
			return domain.SampleRecord{}, fmt.Errorf("marker %q: unknown marker", label)
		}
		status, ok := domain.ParseResistanceStatus(statusName)
		if !ok {
			return domain.SampleRecord{}, fmt.Errorf("marker %q: unknown status %q", label, statusName)
		}
		record.Resistance[marker] = status
	}

	return record, nil
}

// NewValidate returns a validator that knows the marker and status tags.
func NewValidate() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("marker", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseMarker(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseResistanceStatus(fl.Field().String())
		return ok
	})
	return v
}
