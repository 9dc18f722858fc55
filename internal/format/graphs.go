package format

import (
	"fmt"
	"github.com/ougirez/amrmap/internal/domain"
	"github.com/ougirez/amrmap/internal/pkg/constants"
	"github.com/ougirez/amrmap/internal/pkg/utils"
	"strconv"
)

var percentageDomain = []float64{0, 100}

// PercentageRows returns new rows whose values are shares of the row Count,
// rounded to two decimals. Name and Count pass through unchanged.
func PercentageRows(rows []domain.SeriesRow) []domain.SeriesRow {
	out := make([]domain.SeriesRow, 0, len(rows))
	for _, row := range rows {
		values := make(map[string]float64, len(row.Values))
		for k, v := range row.Values {
			values[k] = utils.Share(v, float64(row.Count))
		}
		out = append(out, domain.SeriesRow{Name: row.Name, Count: row.Count, Values: values})
	}
	return out
}

func (f *Formatter) graph(view domain.GraphView, series []string, rows []domain.SeriesRow) domain.GraphViewModel {
	colors := make([]string, 0, len(series))
	for _, s := range series {
		colors = append(colors, f.seriesColor(s))
	}

	vm := domain.GraphViewModel{View: view, Series: series, Colors: colors, Rows: rows}
	if view == domain.GraphViewPercentage {
		vm.Rows = PercentageRows(rows)
		vm.Domain = percentageDomain
	}
	return vm
}

func (f *Formatter) seriesColor(name string) string {
	if _, ok := domain.ParseMarker(name); ok {
		return f.cfg.genotypeColor("drug:" + name)
	}
	return f.GenotypeColor(name)
}

// Distribution is the stacked genotype-per-year graph.
func (f *Formatter) Distribution(agg *domain.Aggregate, view domain.GraphView) domain.GraphViewModel {
	seen := make(map[string]struct{})
	series := make([]string, 0)
	rows := make([]domain.SeriesRow, 0)
	if agg != nil {
		for _, row := range agg.YearlyGenotypeRows {
			values := make(map[string]float64, len(row.Genotypes))
			for g, c := range row.Genotypes {
				values[g] = float64(c)
				if _, ok := seen[g]; !ok {
					seen[g] = struct{}{}
					series = append(series, g)
				}
			}
			rows = append(rows, domain.SeriesRow{Name: row.Name, Count: row.Count, Values: values})
		}
	}
	sortLabelsAscending(series)

	return f.graph(view, series, rows)
}

// DistributionTooltip lists the non-zero genotypes of the year labelled label,
// restricted to genotypes when given, in reverse collation order.
func (f *Formatter) DistributionTooltip(agg *domain.Aggregate, label string, genotypes []string) (domain.SeriesTooltip, bool) {
	if agg == nil {
		return domain.SeriesTooltip{}, false
	}

	for _, row := range agg.YearlyGenotypeRows {
		if row.Name != label {
			continue
		}

		names := genotypes
		if len(names) == 0 {
			names = make([]string, 0, len(row.Genotypes))
			for g := range row.Genotypes {
				names = append(names, g)
			}
		}

		tooltip := domain.SeriesTooltip{Label: row.Name, Count: row.Count, Items: []domain.SeriesTooltipItem{}}
		for _, g := range names {
			count := row.Genotypes[g]
			if count == 0 {
				continue
			}
			tooltip.Items = append(tooltip.Items, domain.SeriesTooltipItem{
				Name:       g,
				Color:      f.GenotypeColor(g),
				Count:      count,
				Percentage: utils.Percentage(count, row.Count),
			})
		}
		sortLabelsDescending(tooltip.Items, func(it domain.SeriesTooltipItem) string { return it.Name })
		return tooltip, true
	}

	return domain.SeriesTooltip{}, false
}

// SelectGenotypes checks a genotype selection against the configured limit and
// falls back to the top genotypes by total count when nothing is selected.
func (f *Formatter) SelectGenotypes(agg *domain.Aggregate, genotypes []string) ([]string, error) {
	if len(genotypes) > f.cfg.MaxGenotypes {
		return nil, fmt.Errorf("%d genotypes, at most %d: %w", len(genotypes), f.cfg.MaxGenotypes, constants.ErrTooManyGenotypes)
	}
	if len(genotypes) > 0 {
		return genotypes, nil
	}
	return f.topGenotypes(agg, f.cfg.TooltipGenotypes), nil
}

func (f *Formatter) topGenotypes(agg *domain.Aggregate, n int) []string {
	top := make([]string, 0, n)
	if agg == nil {
		return top
	}
	for _, row := range agg.GenotypeDrugRows {
		if len(top) == n {
			break
		}
		top = append(top, row.Name)
	}
	return top
}

// Frequencies is the drug-per-genotype graph for the selected genotypes.
// Genotypes absent from the aggregate are skipped.
func (f *Formatter) Frequencies(agg *domain.Aggregate, view domain.GraphView, genotypes []string) (domain.GraphViewModel, error) {
	selected, err := f.SelectGenotypes(agg, genotypes)
	if err != nil {
		return domain.GraphViewModel{}, err
	}

	series := markerLabels(domain.DrugMarkers)
	rows := make([]domain.SeriesRow, 0, len(selected))
	for _, g := range selected {
		row, ok := agg.GenotypeRow(g)
		if !ok {
			continue
		}
		rows = append(rows, domain.SeriesRow{
			Name:   row.Name,
			Count:  row.TotalCount,
			Values: drugValues(row.Drugs, domain.DrugMarkers),
		})
	}

	return f.graph(view, series, rows), nil
}

// DrugResistance is the per-year drug resistance trend for the selected drugs.
func (f *Formatter) DrugResistance(agg *domain.Aggregate, view domain.GraphView, drugs []domain.Marker) domain.GraphViewModel {
	if len(drugs) == 0 {
		drugs = domain.DefaultDrugResistanceMarkers
	}

	rows := make([]domain.SeriesRow, 0)
	if agg != nil {
		for _, row := range agg.YearlyDrugRows {
			rows = append(rows, domain.SeriesRow{
				Name:   row.Name,
				Count:  row.Count,
				Values: drugValues(row.Drugs, drugs),
			})
		}
	}

	return f.graph(view, markerLabels(drugs), rows)
}

func (f *Formatter) GenotypeOptions(agg *domain.Aggregate) []domain.GenotypeOption {
	options := make([]domain.GenotypeOption, 0)
	if agg == nil {
		return options
	}
	for _, row := range agg.GenotypeDrugRows {
		pan := utils.Percentage(row.Drugs[domain.MarkerPanSusceptible], row.TotalCount)
		options = append(options, domain.GenotypeOption{
			Name:                     row.Name,
			TotalCount:               row.TotalCount,
			PanSusceptiblePercentage: pan,
			Label: fmt.Sprintf("%s (total N=%d, %s%% Pansusceptible)",
				row.Name, row.TotalCount, strconv.FormatFloat(pan, 'f', 2, 64)),
			Color: f.GenotypeColor(row.Name),
		})
	}
	return options
}

// DefaultViewState is the dashboard state after a reset.
func (f *Formatter) DefaultViewState(agg *domain.Aggregate) domain.ViewState {
	state := domain.ViewState{
		MapView:               domain.MapViewCipNS,
		DistributionGraphView: domain.GraphViewNumber,
		FrequenciesGraphView:  domain.GraphViewPercentage,
		FrequenciesGenotypes:  f.topGenotypes(agg, f.cfg.TooltipGenotypes),
		DrugResistanceView:    domain.GraphViewPercentage,
		DrugResistanceDrugs:   append([]domain.Marker(nil), domain.DefaultDrugResistanceMarkers...),
	}
	if agg != nil {
		state.Filters = agg.Filters
	}
	return state
}

func markerLabels(markers []domain.Marker) []string {
	labels := make([]string, 0, len(markers))
	for _, m := range markers {
		labels = append(labels, m.String())
	}
	return labels
}

func drugValues(drugs map[domain.Marker]int, markers []domain.Marker) map[string]float64 {
	values := make(map[string]float64, len(markers))
	for _, m := range markers {
		values[m.String()] = float64(drugs[m])
	}
	return values
}
