package domain

import (
	"fmt"
)

// Marker is a drug or composite resistance classification tracked per sample.
type Marker int

const (
	MarkerUnknown Marker = iota
	MarkerAmpicillin
	MarkerAzithromycin
	MarkerCeftriaxone
	MarkerChloramphenicol
	MarkerCiprofloxacinNS
	MarkerCiprofloxacinR
	MarkerSulphonamides
	MarkerTetracyclines
	MarkerTrimethoprim
	MarkerTrimethoprimSulfamethoxazole
	MarkerPanSusceptible
	MarkerMDR
	MarkerXDR
	MarkerH58
	MarkerAzithR
	MarkerCipI
	MarkerCipR
	MarkerCipNS
	MarkerSusceptible
)

var markerLabels = [...]string{
	MarkerUnknown:                      "",
	MarkerAmpicillin:                   "Ampicillin/Amoxicillin",
	MarkerAzithromycin:                 "Azithromycin",
	MarkerCeftriaxone:                  "Ceftriaxone",
	MarkerChloramphenicol:              "Chloramphenicol",
	MarkerCiprofloxacinNS:              "Ciprofloxacin NS",
	MarkerCiprofloxacinR:               "Ciprofloxacin R",
	MarkerSulphonamides:                "Sulphonamides",
	MarkerTetracyclines:                "Tetracyclines",
	MarkerTrimethoprim:                 "Trimethoprim",
	MarkerTrimethoprimSulfamethoxazole: "Trimethoprim-sulfamethoxazole",
	MarkerPanSusceptible:               "Pan-Susceptible",
	MarkerMDR:                          "MDR",
	MarkerXDR:                          "XDR",
	MarkerH58:                          "H58",
	MarkerAzithR:                       "AzithR",
	MarkerCipI:                         "CipI",
	MarkerCipR:                         "CipR",
	MarkerCipNS:                        "CipNS",
	MarkerSusceptible:                  "Susceptible",
}

var markersByLabel = func() map[string]Marker {
	m := make(map[string]Marker, len(markerLabels))
	for i, label := range markerLabels {
		if label != "" {
			m[label] = Marker(i)
		}
	}
	return m
}()

// MapMarkers are the statistics computed per country for the map.
var MapMarkers = []Marker{
	MarkerH58,
	MarkerMDR,
	MarkerXDR,
	MarkerAzithR,
	MarkerCipI,
	MarkerCipR,
	MarkerCipNS,
	MarkerSusceptible,
}

// DrugMarkers are the columns of the genotype and yearly drug rows, drugs in
// alphabetical order followed by the composite classes.
var DrugMarkers = []Marker{
	MarkerAmpicillin,
	MarkerAzithromycin,
	MarkerCeftriaxone,
	MarkerChloramphenicol,
	MarkerCiprofloxacinNS,
	MarkerCiprofloxacinR,
	MarkerSulphonamides,
	MarkerTetracyclines,
	MarkerTrimethoprim,
	MarkerTrimethoprimSulfamethoxazole,
	MarkerPanSusceptible,
	MarkerMDR,
	MarkerXDR,
}

// DefaultDrugResistanceMarkers are preselected on the drug resistance trend graph.
var DefaultDrugResistanceMarkers = []Marker{
	MarkerAzithromycin,
	MarkerCeftriaxone,
	MarkerCiprofloxacinNS,
	MarkerCiprofloxacinR,
	MarkerTrimethoprimSulfamethoxazole,
	MarkerPanSusceptible,
	MarkerMDR,
	MarkerXDR,
}

// ParseMarker looks a marker up by its label. It never panics; unknown labels
// report false.
func ParseMarker(label string) (Marker, bool) {
	m, ok := markersByLabel[label]
	return m, ok
}

func (m Marker) Valid() bool {
	return m > MarkerUnknown && int(m) < len(markerLabels)
}

func (m Marker) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Marker(%d)", int(m))
	}
	return markerLabels[m]
}

func (m Marker) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("marshal marker %d: unknown marker", int(m))
	}
	return []byte(markerLabels[m]), nil
}

func (m *Marker) UnmarshalText(text []byte) error {
	parsed, ok := ParseMarker(string(text))
	if !ok {
		return fmt.Errorf("unknown marker %q", string(text))
	}
	*m = parsed
	return nil
}
