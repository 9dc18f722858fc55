package dto

import (
	"github.com/ougirez/amrmap/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func validSample() Sample {
	return Sample{
		Organism:   "styphi",
		Country:    "India",
		Year:       2012,
		Genotype:   "4.3.1",
		Resistance: map[string]string{"MDR": "resistant", "Ampicillin/Amoxicillin": "not_tested"},
	}
}

func TestSampleValidate(t *testing.T) {
	v := NewValidate()

	tests := []struct {
		name    string
		mutate  func(s *Sample)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Sample) {}},
		{name: "missing country", mutate: func(s *Sample) { s.Country = "" }, wantErr: true},
		{name: "missing genotype", mutate: func(s *Sample) { s.Genotype = "" }, wantErr: true},
		{name: "year too early", mutate: func(s *Sample) { s.Year = 1850 }, wantErr: true},
		{name: "unknown marker", mutate: func(s *Sample) { s.Resistance["Penicillin"] = "resistant" }, wantErr: true},
		{name: "unknown status", mutate: func(s *Sample) { s.Resistance["MDR"] = "maybe" }, wantErr: true},
		{name: "no resistance", mutate: func(s *Sample) { s.Resistance = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSample()
			tt.mutate(&s)
			err := v.Struct(s)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSampleToDomain(t *testing.T) {
	s := validSample()
	s.Country = " India "

	record, err := s.ToDomain()
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "India", record.Country)
	assert.True(t, record.IsResistant(domain.MarkerMDR))
	assert.Equal(t, domain.StatusNotTested, record.Resistance[domain.MarkerAmpicillin])

	s.ID = "ERR123"
	record, err = s.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, "ERR123", record.ID)

	s.Resistance["bogus"] = "resistant"
	_, err = s.ToDomain()
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"4.3.1", "3.3", "2.3.2"}, SplitList([]string{"4.3.1, 3.3", "", "2.3.2"}))
	assert.Empty(t, SplitList(nil))
}

func TestParseDrugs(t *testing.T) {
	drugs, unknown := ParseDrugs([]string{"Ceftriaxone,Tetracyclines", "Aspirin"})
	assert.Equal(t, []domain.Marker{domain.MarkerCeftriaxone, domain.MarkerTetracyclines}, drugs)
	assert.Equal(t, []string{"Aspirin"}, unknown)
}
