package domain

type MarkerStat struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type GenotypeCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type GenotypeStat struct {
	// Count is the number of distinct genotypes.
	Count int `json:"count"`
	// Items are ranked by count, ties kept in first-seen order.
	Items []GenotypeCount `json:"items"`
}

// Dominant returns the most frequent genotype.
func (g GenotypeStat) Dominant() (GenotypeCount, bool) {
	if len(g.Items) == 0 {
		return GenotypeCount{}, false
	}
	return g.Items[0], true
}

type CountryStat struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	// Sufficient is false when Count is below the minimum sample threshold;
	// percentages of such a country must not be shown.
	Sufficient bool                  `json:"sufficient"`
	Markers    map[Marker]MarkerStat `json:"markers"`
	Genotype   GenotypeStat          `json:"genotype"`
}

// Marker is a total lookup: absent markers report a zero stat.
func (c *CountryStat) Marker(m Marker) MarkerStat {
	if c == nil {
		return MarkerStat{}
	}
	return c.Markers[m]
}

type YearlyGenotypeRow struct {
	Name      string         `json:"name"`
	Year      Year           `json:"year"`
	Count     int            `json:"count"`
	Genotypes map[string]int `json:"genotypes"`
}

type GenotypeDrugRow struct {
	Name       string         `json:"name"`
	TotalCount int            `json:"totalCount"`
	Drugs      map[Marker]int `json:"drugs"`
}

type YearlyDrugRow struct {
	Name  string         `json:"name"`
	Year  Year           `json:"year"`
	Count int            `json:"count"`
	Drugs map[Marker]int `json:"drugs"`
}

type Aggregate struct {
	Filters            Filters                 `json:"filters"`
	CountryStats       map[string]*CountryStat `json:"countryStats"`
	YearlyGenotypeRows []YearlyGenotypeRow     `json:"yearlyGenotypeRows"`
	GenotypeDrugRows   []GenotypeDrugRow       `json:"genotypeDrugRows"`
	YearlyDrugRows     []YearlyDrugRow         `json:"yearlyDrugRows"`
}

// Country is a total lookup: unknown countries report nil without faulting.
func (a *Aggregate) Country(name string) (*CountryStat, bool) {
	if a == nil {
		return nil, false
	}
	stat, ok := a.CountryStats[name]
	return stat, ok
}

// Redacted returns a copy in which countries below the sample threshold keep
// their marker counts but report no percentages. a itself is not modified.
func (a *Aggregate) Redacted() *Aggregate {
	if a == nil {
		return nil
	}

	out := *a
	out.CountryStats = make(map[string]*CountryStat, len(a.CountryStats))
	for name, stat := range a.CountryStats {
		if stat.Sufficient {
			out.CountryStats[name] = stat
			continue
		}
		redacted := *stat
		redacted.Markers = make(map[Marker]MarkerStat, len(stat.Markers))
		for m, ms := range stat.Markers {
			redacted.Markers[m] = MarkerStat{Count: ms.Count}
		}
		out.CountryStats[name] = &redacted
	}
	return &out
}

func (a *Aggregate) GenotypeRow(name string) (GenotypeDrugRow, bool) {
	if a == nil {
		return GenotypeDrugRow{}, false
	}
	for _, row := range a.GenotypeDrugRows {
		if row.Name == name {
			return row, true
		}
	}
	return GenotypeDrugRow{}, false
}
