package format

import (
	"fmt"
	"github.com/ougirez/amrmap/internal/domain"
	"strconv"
)

const (
	MessageInsufficientData = "Insufficient data"
	MessageZeroPercent      = "0%"
)

// Formatter turns aggregates into the values a view renders. It is stateless
// apart from its configuration.
type Formatter struct {
	cfg Config
}

func New(cfg Config) (*Formatter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("format.New: %w", err)
	}
	return &Formatter{cfg: cfg}, nil
}

func (f *Formatter) GenotypeColor(name string) string {
	return f.cfg.genotypeColor(name)
}

func percentText(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64) + "%"
}

func (f *Formatter) FormatMap(agg *domain.Aggregate, view domain.MapView) domain.MapViewModel {
	vm := domain.MapViewModel{
		View:        view,
		Countries:   make(map[string]domain.CountryView),
		NoDataColor: f.cfg.NoDataColor,
	}
	if agg == nil {
		return vm
	}

	for name, stat := range agg.CountryStats {
		vm.Countries[name] = f.countryView(stat, view)
	}
	return vm
}

// Country is a total lookup on a map view model: countries without samples get
// the no-data fill and an empty tooltip.
func (f *Formatter) Country(vm domain.MapViewModel, name string) domain.CountryView {
	if cv, ok := vm.Countries[name]; ok {
		return cv
	}
	return domain.CountryView{
		Name:    name,
		Color:   f.cfg.NoDataColor,
		State:   domain.FillStateNoData,
		Tooltip: domain.Tooltip{Title: name, Rows: []domain.TooltipRow{}},
	}
}

func (f *Formatter) countryView(stat *domain.CountryStat, view domain.MapView) domain.CountryView {
	cv := domain.CountryView{
		Name:    stat.Name,
		Count:   stat.Count,
		Color:   f.cfg.NoDataColor,
		State:   domain.FillStateNoData,
		Tooltip: domain.Tooltip{Title: stat.Name, Rows: []domain.TooltipRow{}},
	}

	if marker, ok := view.Marker(); ok {
		f.markerView(&cv, stat, marker, view == domain.MapViewSusceptible)
		return cv
	}

	switch view {
	case domain.MapViewSamples:
		f.samplesView(&cv, stat)
	case domain.MapViewDominantGenotype:
		f.dominantGenotypeView(&cv, stat)
	}
	return cv
}

func (f *Formatter) samplesView(cv *domain.CountryView, stat *domain.CountryStat) {
	cv.Value = float64(stat.Count)
	cv.State = domain.FillStateData
	if stat.Count > 0 {
		cv.Color = f.cfg.SamplesScale.Color(float64(stat.Count))
	} else {
		cv.Color = f.cfg.ZeroCountColor
		cv.State = domain.FillStateZero
	}

	cv.Tooltip.Rows = append(cv.Tooltip.Rows,
		domain.TooltipRow{Label: "Samples", Count: stat.Count, Text: strconv.Itoa(stat.Count)},
		domain.TooltipRow{Label: "Genotypes", Count: stat.Genotype.Count, Text: strconv.Itoa(stat.Genotype.Count)},
	)
	if !f.sufficient(stat) {
		return
	}

	markerRows := make([]domain.TooltipRow, 0, len(domain.MapMarkers))
	for _, m := range domain.MapMarkers {
		ms := stat.Marker(m)
		markerRows = append(markerRows, domain.TooltipRow{
			Label:      m.String(),
			Count:      ms.Count,
			Percentage: ms.Percentage,
			Text:       percentText(ms.Percentage),
		})
	}
	sortLabelsDescending(markerRows, func(r domain.TooltipRow) string { return r.Label })
	cv.Tooltip.Rows = append(cv.Tooltip.Rows, markerRows...)
}

func (f *Formatter) dominantGenotypeView(cv *domain.CountryView, stat *domain.CountryStat) {
	dominant, ok := stat.Genotype.Dominant()
	if !ok {
		return
	}
	cv.Value = float64(dominant.Count)
	cv.Color = f.GenotypeColor(dominant.Name)
	cv.State = domain.FillStateData

	items := stat.Genotype.Items
	if len(items) > f.cfg.TooltipGenotypes {
		items = items[:f.cfg.TooltipGenotypes]
	}
	for _, g := range items {
		cv.Tooltip.Rows = append(cv.Tooltip.Rows, domain.TooltipRow{
			Label: g.Name,
			Count: g.Count,
			Text:  strconv.Itoa(g.Count),
			Color: f.GenotypeColor(g.Name),
		})
	}
}

func (f *Formatter) markerView(cv *domain.CountryView, stat *domain.CountryStat, m domain.Marker, susceptible bool) {
	ms := stat.Marker(m)

	switch {
	case !f.sufficient(stat):
		cv.Color = f.cfg.InsufficientDataColor
		cv.State = domain.FillStateInsufficientData
		cv.Tooltip.Message = MessageInsufficientData
	case ms.Count == 0:
		cv.Color = f.cfg.ZeroResistanceColor
		if susceptible {
			cv.Color = f.cfg.ZeroSusceptibleColor
		}
		cv.State = domain.FillStateZero
		cv.Tooltip.Message = MessageZeroPercent
	default:
		scale := f.cfg.ResistanceScale
		if susceptible {
			scale = f.cfg.SusceptibleScale
		}
		cv.Value = ms.Percentage
		cv.Color = scale.Color(ms.Percentage)
		cv.State = domain.FillStateData
		cv.Tooltip.Rows = append(cv.Tooltip.Rows, domain.TooltipRow{
			Label:      m.String(),
			Count:      ms.Count,
			Percentage: ms.Percentage,
			Text:       fmt.Sprintf("%d (%s)", ms.Count, percentText(ms.Percentage)),
		})
	}
}

func (f *Formatter) sufficient(stat *domain.CountryStat) bool {
	return stat.Count >= f.cfg.MinSamples
}
