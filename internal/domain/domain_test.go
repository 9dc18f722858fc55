package domain

import (
	"encoding/json"
	"errors"
	"github.com/ougirez/amrmap/internal/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestParseMarker(t *testing.T) {
	m, ok := ParseMarker("Ciprofloxacin NS")
	require.True(t, ok)
	assert.Equal(t, MarkerCiprofloxacinNS, m)

	_, ok = ParseMarker("Penicillin")
	assert.False(t, ok)
	_, ok = ParseMarker("")
	assert.False(t, ok)
}

func TestMarkerLabelsRoundTrip(t *testing.T) {
	for _, m := range append(append([]Marker{}, MapMarkers...), DrugMarkers...) {
		parsed, ok := ParseMarker(m.String())
		require.True(t, ok, m.String())
		assert.Equal(t, m, parsed)
	}
	assert.Equal(t, "Marker(99)", Marker(99).String())
}

func TestResistanceJSONUsesLabels(t *testing.T) {
	r := Resistance{MarkerMDR: StatusResistant, MarkerCiprofloxacinNS: StatusNotTested}

	raw, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"MDR":"resistant","Ciprofloxacin NS":"not_tested"}`, string(raw))

	var back Resistance
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, r, back)

	assert.Error(t, json.Unmarshal([]byte(`{"Penicillin":"resistant"}`), &back))
	assert.Error(t, json.Unmarshal([]byte(`{"MDR":"maybe"}`), &back))
}

func TestSampleIsResistant(t *testing.T) {
	s := SampleRecord{Resistance: Resistance{MarkerMDR: StatusResistant, MarkerXDR: StatusNonResistant}}
	assert.True(t, s.IsResistant(MarkerMDR))
	assert.False(t, s.IsResistant(MarkerXDR))
	assert.False(t, s.IsResistant(MarkerH58))
}

func TestFilters(t *testing.T) {
	f := Filters{TimeInitial: 2010, TimeFinal: 2020, Organism: "styphi"}
	require.NoError(t, f.Validate())
	assert.True(t, f.AllCountries())
	assert.Equal(t, "styphi|2010|2020|All", f.Key())

	f.Country = "India"
	assert.Equal(t, "styphi|2010|2020|India", f.Key())
	assert.True(t, f.MatchCountry(SampleRecord{Country: "India"}))
	assert.False(t, f.MatchCountry(SampleRecord{Country: "Nepal"}))

	assert.True(t, f.InScope(SampleRecord{Organism: "styphi", Year: 2010}))
	assert.True(t, f.InScope(SampleRecord{Organism: "styphi", Year: 2020}))
	assert.False(t, f.InScope(SampleRecord{Organism: "styphi", Year: 2021}))
	assert.False(t, f.InScope(SampleRecord{Organism: "kpneumo", Year: 2015}))

	bad := Filters{TimeInitial: 2021, TimeFinal: 2020}
	err := bad.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, constants.ErrInvalidTimeRange))
}

func TestMapViewMarker(t *testing.T) {
	for _, v := range MapViews {
		m, ok := v.Marker()
		switch v {
		case MapViewSamples, MapViewDominantGenotype:
			assert.False(t, ok, v)
		default:
			assert.True(t, ok, v)
			assert.True(t, m.Valid(), v)
		}
	}

	_, ok := MapView("Bogus").Marker()
	assert.False(t, ok)

	_, err := ParseMapView("Bogus")
	assert.ErrorIs(t, err, constants.ErrUnknownMapView)
	v, err := ParseMapView("Susceptible to all drugs")
	require.NoError(t, err)
	assert.Equal(t, MapViewSusceptible, v)
}

func TestAggregateLookupsAreTotal(t *testing.T) {
	var agg *Aggregate
	_, ok := agg.Country("X")
	assert.False(t, ok)

	var stat *CountryStat
	assert.Equal(t, MarkerStat{}, stat.Marker(MarkerMDR))

	_, err := ParseGraphView("stacked")
	assert.ErrorIs(t, err, constants.ErrUnknownGraphView)
}

func TestRedactedHidesInsufficientPercentages(t *testing.T) {
	agg := &Aggregate{CountryStats: map[string]*CountryStat{
		"Small": {Name: "Small", Count: 3, Markers: map[Marker]MarkerStat{MarkerMDR: {Count: 2, Percentage: 66.67}}},
		"Large": {Name: "Large", Count: 40, Sufficient: true, Markers: map[Marker]MarkerStat{MarkerMDR: {Count: 10, Percentage: 25}}},
	}}

	redacted := agg.Redacted()

	assert.Equal(t, MarkerStat{Count: 2}, redacted.CountryStats["Small"].Marker(MarkerMDR))
	assert.Equal(t, MarkerStat{Count: 10, Percentage: 25}, redacted.CountryStats["Large"].Marker(MarkerMDR))
	assert.Equal(t, 66.67, agg.CountryStats["Small"].Marker(MarkerMDR).Percentage)

	var empty *Aggregate
	assert.Nil(t, empty.Redacted())
}
