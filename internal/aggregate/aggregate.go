package aggregate

import (
	"fmt"
	"github.com/ougirez/amrmap/internal/domain"
	"github.com/ougirez/amrmap/internal/pkg/utils"
	"sort"
	"strconv"
)

const DefaultMinSamples = 20

type Options struct {
	// MinSamples is the smallest country sample count whose percentages may be shown.
	MinSamples int `mapstructure:"min_samples"`
}

// Aggregator derives the map and graph aggregates from a snapshot of sample
// records. It holds no state besides its options and is safe for concurrent use.
type Aggregator struct {
	minSamples int
}

func New(opts Options) *Aggregator {
	if opts.MinSamples <= 0 {
		opts.MinSamples = DefaultMinSamples
	}
	return &Aggregator{minSamples: opts.MinSamples}
}

// Aggregate groups records matching filters. Country statistics cover every
// country in the time range; the graph rows also honour the country filter.
// An empty selection yields empty aggregates.
func (a *Aggregator) Aggregate(records []domain.SampleRecord, filters domain.Filters) (*domain.Aggregate, error) {
	if err := filters.Validate(); err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	inScope := make([]domain.SampleRecord, 0, len(records))
	inCountry := make([]domain.SampleRecord, 0, len(records))
	for _, r := range records {
		if !filters.InScope(r) {
			continue
		}
		inScope = append(inScope, r)
		if filters.MatchCountry(r) {
			inCountry = append(inCountry, r)
		}
	}

	return &domain.Aggregate{
		Filters:            filters,
		CountryStats:       a.countryStats(inScope),
		YearlyGenotypeRows: yearlyGenotypeRows(inCountry),
		GenotypeDrugRows:   genotypeDrugRows(inCountry),
		YearlyDrugRows:     yearlyDrugRows(inCountry),
	}, nil
}

// counter tallies names while remembering the order in which they first appeared.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(name string) {
	if _, ok := c.counts[name]; !ok {
		c.order = append(c.order, name)
	}
	c.counts[name]++
}

// ranked lists names by descending count; equal counts keep first-seen order.
func (c *counter) ranked() []domain.GenotypeCount {
	items := make([]domain.GenotypeCount, 0, len(c.order))
	for _, name := range c.order {
		items = append(items, domain.GenotypeCount{Name: name, Count: c.counts[name]})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Count > items[j].Count
	})
	return items
}

func (a *Aggregator) countryStats(records []domain.SampleRecord) map[string]*domain.CountryStat {
	stats := make(map[string]*domain.CountryStat)
	genotypes := make(map[string]*counter)

	for _, r := range records {
		stat, ok := stats[r.Country]
		if !ok {
			stat = &domain.CountryStat{
				Name:    r.Country,
				Markers: make(map[domain.Marker]domain.MarkerStat, len(domain.MapMarkers)),
			}
			for _, m := range domain.MapMarkers {
				stat.Markers[m] = domain.MarkerStat{}
			}
			stats[r.Country] = stat
			genotypes[r.Country] = newCounter()
		}

		stat.Count++
		genotypes[r.Country].add(r.Genotype)
		for _, m := range domain.MapMarkers {
			if r.IsResistant(m) {
				ms := stat.Markers[m]
				ms.Count++
				stat.Markers[m] = ms
			}
		}
	}

	for name, stat := range stats {
		stat.Sufficient = stat.Count >= a.minSamples
		for m, ms := range stat.Markers {
			ms.Percentage = utils.Percentage(ms.Count, stat.Count)
			stat.Markers[m] = ms
		}
		items := genotypes[name].ranked()
		stat.Genotype = domain.GenotypeStat{Count: len(items), Items: items}
	}

	return stats
}

func yearlyGenotypeRows(records []domain.SampleRecord) []domain.YearlyGenotypeRow {
	byYear := make(map[domain.Year]*domain.YearlyGenotypeRow)
	for _, r := range records {
		row, ok := byYear[r.Year]
		if !ok {
			row = &domain.YearlyGenotypeRow{
				Name:      strconv.Itoa(r.Year),
				Year:      r.Year,
				Genotypes: make(map[string]int),
			}
			byYear[r.Year] = row
		}
		row.Count++
		row.Genotypes[r.Genotype]++
	}

	rows := make([]domain.YearlyGenotypeRow, 0, len(byYear))
	for _, row := range byYear {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Year < rows[j].Year
	})
	return rows
}

func genotypeDrugRows(records []domain.SampleRecord) []domain.GenotypeDrugRow {
	order := make([]string, 0)
	byGenotype := make(map[string]*domain.GenotypeDrugRow)
	for _, r := range records {
		row, ok := byGenotype[r.Genotype]
		if !ok {
			row = &domain.GenotypeDrugRow{
				Name:  r.Genotype,
				Drugs: emptyDrugCounts(),
			}
			byGenotype[r.Genotype] = row
			order = append(order, r.Genotype)
		}
		row.TotalCount++
		countDrugs(row.Drugs, r)
	}

	rows := make([]domain.GenotypeDrugRow, 0, len(order))
	for _, name := range order {
		rows = append(rows, *byGenotype[name])
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalCount > rows[j].TotalCount
	})
	return rows
}

func yearlyDrugRows(records []domain.SampleRecord) []domain.YearlyDrugRow {
	byYear := make(map[domain.Year]*domain.YearlyDrugRow)
	for _, r := range records {
		row, ok := byYear[r.Year]
		if !ok {
			row = &domain.YearlyDrugRow{
				Name:  strconv.Itoa(r.Year),
				Year:  r.Year,
				Drugs: emptyDrugCounts(),
			}
			byYear[r.Year] = row
		}
		row.Count++
		countDrugs(row.Drugs, r)
	}

	rows := make([]domain.YearlyDrugRow, 0, len(byYear))
	for _, row := range byYear {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Year < rows[j].Year
	})
	return rows
}

func emptyDrugCounts() map[domain.Marker]int {
	drugs := make(map[domain.Marker]int, len(domain.DrugMarkers))
	for _, m := range domain.DrugMarkers {
		drugs[m] = 0
	}
	return drugs
}

func countDrugs(drugs map[domain.Marker]int, r domain.SampleRecord) {
	for _, m := range domain.DrugMarkers {
		if r.IsResistant(m) {
			drugs[m]++
		}
	}
}
