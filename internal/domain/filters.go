package domain

import (
	"fmt"
	"github.com/ougirez/amrmap/internal/pkg/constants"
	"strconv"
	"strings"
)

const AllCountries = "All"

type Filters struct {
	TimeInitial Year   `json:"time_initial"`
	TimeFinal   Year   `json:"time_final"`
	Country     string `json:"country"`
	Organism    string `json:"organism"`
}

func (f Filters) Validate() error {
	if f.TimeInitial > f.TimeFinal {
		return fmt.Errorf("filters %d..%d: %w", f.TimeInitial, f.TimeFinal, constants.ErrInvalidTimeRange)
	}
	return nil
}

// Key identifies the filter tuple for memoization.
func (f Filters) Key() string {
	return strings.Join([]string{
		f.Organism,
		strconv.Itoa(f.TimeInitial),
		strconv.Itoa(f.TimeFinal),
		f.country(),
	}, "|")
}

func (f Filters) country() string {
	if f.Country == "" {
		return AllCountries
	}
	return f.Country
}

// AllCountries reports whether the country filter is unset.
func (f Filters) AllCountries() bool {
	return f.country() == AllCountries
}

// InScope matches the time range and organism; the country filter is not applied.
func (f Filters) InScope(r SampleRecord) bool {
	if f.Organism != "" && r.Organism != f.Organism {
		return false
	}
	return r.Year >= f.TimeInitial && r.Year <= f.TimeFinal
}

// MatchCountry matches the country filter only.
func (f Filters) MatchCountry(r SampleRecord) bool {
	return f.AllCountries() || r.Country == f.Country
}
