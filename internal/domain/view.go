package domain

import (
	"fmt"
	"github.com/ougirez/amrmap/internal/pkg/constants"
)

type MapView string

const (
	MapViewSamples          MapView = "No. Samples"
	MapViewDominantGenotype MapView = "Dominant Genotype"
	MapViewH58              MapView = "H58 / Non-H58"
	MapViewMDR              MapView = "MDR"
	MapViewXDR              MapView = "XDR"
	MapViewAzithR           MapView = "AzithR"
	MapViewCipR             MapView = "CipR"
	MapViewCipNS            MapView = "CipNS"
	MapViewSusceptible      MapView = "Susceptible to all drugs"
)

var MapViews = []MapView{
	MapViewSamples,
	MapViewDominantGenotype,
	MapViewH58,
	MapViewMDR,
	MapViewXDR,
	MapViewAzithR,
	MapViewCipR,
	MapViewCipNS,
	MapViewSusceptible,
}

func ParseMapView(s string) (MapView, error) {
	for _, v := range MapViews {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("map view %q: %w", s, constants.ErrUnknownMapView)
}

// Marker maps a statistic view to the country statistic it colours by.
// Views that do not colour by a marker report false.
func (v MapView) Marker() (Marker, bool) {
	switch v {
	case MapViewH58:
		return MarkerH58, true
	case MapViewMDR:
		return MarkerMDR, true
	case MapViewXDR:
		return MarkerXDR, true
	case MapViewAzithR:
		return MarkerAzithR, true
	case MapViewCipR:
		return MarkerCipR, true
	case MapViewCipNS:
		return MarkerCipNS, true
	case MapViewSusceptible:
		return MarkerSusceptible, true
	default:
		return MarkerUnknown, false
	}
}

type GraphView string

const (
	GraphViewNumber     GraphView = "number"
	GraphViewPercentage GraphView = "percentage"
)

func ParseGraphView(s string) (GraphView, error) {
	switch GraphView(s) {
	case GraphViewNumber, GraphViewPercentage:
		return GraphView(s), nil
	default:
		return "", fmt.Errorf("graph view %q: %w", s, constants.ErrUnknownGraphView)
	}
}

type FillState string

const (
	FillStateData             FillState = "data"
	FillStateZero             FillState = "zero"
	FillStateInsufficientData FillState = "insufficient_data"
	FillStateNoData           FillState = "no_data"
)

type TooltipRow struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage,omitempty"`
	Text       string  `json:"text"`
	Color      string  `json:"color,omitempty"`
}

type Tooltip struct {
	Title string       `json:"title"`
	Rows  []TooltipRow `json:"rows"`
	// Message replaces the rows when there is nothing numeric to show.
	Message string `json:"message,omitempty"`
}

type CountryView struct {
	Name    string    `json:"name"`
	Count   int       `json:"count"`
	Value   float64   `json:"value"`
	Color   string    `json:"color"`
	State   FillState `json:"state"`
	Tooltip Tooltip   `json:"tooltip"`
}

type MapViewModel struct {
	View      MapView                `json:"view"`
	Countries map[string]CountryView `json:"countries"`
	// NoDataColor fills countries absent from Countries.
	NoDataColor string `json:"noDataColor"`
}

// SeriesRow is one bar of a stacked graph. Values are keyed by series name.
type SeriesRow struct {
	Name   string             `json:"name"`
	Count  int                `json:"count"`
	Values map[string]float64 `json:"values"`
}

type SeriesTooltipItem struct {
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type SeriesTooltip struct {
	Label string              `json:"label"`
	Count int                 `json:"count"`
	Items []SeriesTooltipItem `json:"items"`
}

type GraphViewModel struct {
	View   GraphView   `json:"view"`
	Series []string    `json:"series"`
	Colors []string    `json:"colors"`
	Rows   []SeriesRow `json:"rows"`
	// Domain is the fixed y-axis range; empty in number view.
	Domain []float64 `json:"domain,omitempty"`
}

type GenotypeOption struct {
	Name                     string  `json:"name"`
	TotalCount               int     `json:"totalCount"`
	PanSusceptiblePercentage float64 `json:"panSusceptiblePercentage"`
	Label                    string  `json:"label"`
	Color                    string  `json:"color"`
}

type ViewState struct {
	Filters               Filters   `json:"filters"`
	MapView               MapView   `json:"mapView"`
	DistributionGraphView GraphView `json:"distributionGraphView"`
	FrequenciesGraphView  GraphView `json:"frequenciesGraphView"`
	FrequenciesGenotypes  []string  `json:"frequenciesGenotypes"`
	DrugResistanceView    GraphView `json:"drugResistanceGraphView"`
	DrugResistanceDrugs   []Marker  `json:"drugResistanceDrugs"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
