package store

import (
	"context"
	"encoding/json"
	"fmt"
	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/amrmap/internal/domain"
	"github.com/ougirez/amrmap/internal/pkg/logger"
)

// insertChunk keeps a multi-row insert well below postgres' 65535 bind parameters.
const insertChunk = 500

type ListSamplesOpts struct {
	Organism *string
	YearFrom *int
	YearTo   *int
}

var sampleColumns = []string{"id", "organism", "country", "year", "genotype", "resistance", "created_at"}

func (s *store) InsertSamples(ctx context.Context, samples []domain.SampleRecord) (int64, error) {
	var inserted int64
	for start := 0; start < len(samples); start += insertChunk {
		end := start + insertChunk
		if end > len(samples) {
			end = len(samples)
		}

		query, err := buildInsertSamplesQuery(samples[start:end])
		if err != nil {
			return inserted, err
		}

		tag, err := s.pool.Execx(ctx, query)
		if err != nil {
			logger.Errorf(ctx, "insert samples %d..%d: %s", start, end, err.Error())
			return inserted, fmt.Errorf("store.InsertSamples: %w", err)
		}
		inserted += tag.RowsAffected()
	}

	return inserted, nil
}

func buildInsertSamplesQuery(samples []domain.SampleRecord) (sq.InsertBuilder, error) {
	query := builder().Insert(tableSamples).
		Columns("id", "organism", "country", "year", "genotype", "resistance")

	for _, sample := range samples {
		resistanceJSON, err := json.Marshal(sample.Resistance)
		if err != nil {
			return query, fmt.Errorf("failed to marshal resistance of %s: %w", sample.ID, err)
		}
		query = query.Values(sample.ID, sample.Organism, sample.Country, sample.Year, sample.Genotype, string(resistanceJSON))
	}

	return query.Suffix(`on conflict (id) do nothing`), nil
}

func buildListSamplesQuery(opts ListSamplesOpts) sq.SelectBuilder {
	query := builder().Select(sampleColumns...).
		From(tableSamples).
		OrderBy("year", "id")

	if opts.Organism != nil {
		query = query.Where(sq.Eq{"organism": *opts.Organism})
	}

	if opts.YearFrom != nil {
		query = query.Where(sq.GtOrEq{"year": *opts.YearFrom})
	}

	if opts.YearTo != nil {
		query = query.Where(sq.LtOrEq{"year": *opts.YearTo})
	}

	return query
}

func (s *store) ListSamples(ctx context.Context, opts ListSamplesOpts) ([]domain.SampleRecord, error) {
	selected := make([]domain.SampleRecord, 0)
	err := s.pool.Selectx(ctx, &selected, buildListSamplesQuery(opts))
	if err != nil {
		logger.Error(ctx, err.Error())
		return nil, fmt.Errorf("store.ListSamples: %w", err)
	}

	return selected, nil
}

type countryRow struct {
	Country string `db:"country"`
}

func (s *store) ListCountries(ctx context.Context, organism string) ([]string, error) {
	query := builder().Select("distinct country").
		From(tableSamples).
		OrderBy("country")
	if organism != "" {
		query = query.Where(sq.Eq{"organism": organism})
	}

	var selected []countryRow
	err := s.pool.Selectx(ctx, &selected, query)
	if err != nil {
		return nil, fmt.Errorf("store.ListCountries: %w", err)
	}

	countries := make([]string, 0, len(selected))
	for _, row := range selected {
		countries = append(countries, row.Country)
	}
	return countries, nil
}

type yearRangeRow struct {
	MinYear *int `db:"min_year"`
	MaxYear *int `db:"max_year"`
}

// YearRange returns the first and last sampling year stored for organism (any
// organism when empty), or constants.ErrDBNotFound when there are no samples.
func (s *store) YearRange(ctx context.Context, organism string) (domain.Year, domain.Year, error) {
	query := builder().Select("min(year) as min_year", "max(year) as max_year").
		From(tableSamples)
	if organism != "" {
		query = query.Where(sq.Eq{"organism": organism})
	}

	var row yearRangeRow
	err := s.pool.Getx(ctx, &row, query)
	if err != nil {
		return 0, 0, fmt.Errorf("store.YearRange: %w", wrapErr(err))
	}
	if row.MinYear == nil || row.MaxYear == nil {
		return 0, 0, fmt.Errorf("store.YearRange %s: %w", organism, wrapErr(errNoRows))
	}

	return *row.MinYear, *row.MaxYear, nil
}
