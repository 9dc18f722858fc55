package store

import (
	"context"
	"fmt"
	"github.com/ougirez/amrmap/internal/domain"
	"github.com/ougirez/amrmap/internal/pkg/store/xpgx"
)

type Pool = xpgx.Pool

type Store interface {
	Migrate(ctx context.Context) error
	InsertSamples(ctx context.Context, samples []domain.SampleRecord) (int64, error)
	ListSamples(ctx context.Context, opts ListSamplesOpts) ([]domain.SampleRecord, error)
	ListCountries(ctx context.Context, organism string) ([]string, error)
	YearRange(ctx context.Context, organism string) (domain.Year, domain.Year, error)
}

type store struct {
	pool Pool
}

func NewStore(pool Pool) Store {
	return &store{pool}
}

var schema = []string{
	`create table if not exists samples (
	id         text primary key,
	organism   text        not null,
	country    text        not null,
	year       integer     not null,
	genotype   text        not null,
	resistance jsonb       not null default '{}',
	created_at timestamptz not null default now()
)`,
	`create index if not exists samples_organism_year_idx on samples (organism, year)`,
}

func (s *store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
