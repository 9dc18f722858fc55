package dto

import (
	"github.com/ougirez/amrmap/internal/domain"
	"strings"
)

// FiltersQuery is the filter part of every dashboard request. Zero years mean
// the first or last year on record for the organism.
type FiltersQuery struct {
	Organism    string `query:"organism"`
	TimeInitial int    `query:"time_initial" validate:"omitempty,gte=1900,lte=2100"`
	TimeFinal   int    `query:"time_final" validate:"omitempty,gte=1900,lte=2100"`
	Country     string `query:"country"`
}

type MapQuery struct {
	FiltersQuery
	MapView string `query:"map_view"`
}

// MapCountryQuery looks up a single country on the map, including countries
// without samples.
type MapCountryQuery struct {
	MapQuery
	Name string `query:"name" validate:"required"`
}

type GraphQuery struct {
	FiltersQuery
	View      string   `query:"view"`
	Genotypes []string `query:"genotypes"`
	Drugs     []string `query:"drugs"`
}

type DistributionTooltipQuery struct {
	FiltersQuery
	Year      string   `query:"year" validate:"required"`
	Genotypes []string `query:"genotypes"`
}

// SplitList flattens repeated and comma separated query values.
func SplitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// ParseDrugs resolves drug labels; unknown labels are reported by name.
func ParseDrugs(labels []string) ([]domain.Marker, []string) {
	drugs := make([]domain.Marker, 0, len(labels))
	var unknown []string
	for _, label := range SplitList(labels) {
		m, ok := domain.ParseMarker(label)
		if !ok {
			unknown = append(unknown, label)
			continue
		}
		drugs = append(drugs, m)
	}
	return drugs, unknown
}

type ImportResponse struct {
	BatchID  string `json:"batch_id"`
	Received int    `json:"received"`
	Inserted int64  `json:"inserted"`
}

type BackfillRequest struct {
	URLs []string `json:"urls" validate:"omitempty,dive,url"`
}
