package dashboard

import (
	"context"
	"errors"
	"fmt"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/ougirez/amrmap/internal/aggregate"
	"github.com/ougirez/amrmap/internal/domain"
	"github.com/ougirez/amrmap/internal/domain/dto"
	"github.com/ougirez/amrmap/internal/format"
	"github.com/ougirez/amrmap/internal/pkg/constants"
	"github.com/ougirez/amrmap/internal/pkg/logger"
	"github.com/ougirez/amrmap/internal/pkg/metrics"
	"github.com/ougirez/amrmap/internal/pkg/store"
	"golang.org/x/sync/singleflight"
	"sync"
	"time"
)

// Service recomputes aggregates when filters change and formats them per view.
// Aggregates are memoized by filter key until the next import.
type Service struct {
	store      store.Store
	aggregator *aggregate.Aggregator
	formatter  *format.Formatter
	cache      *lru.Cache[string, *domain.Aggregate]
	group      singleflight.Group

	// generation is bumped by Invalidate; a computation started in an older
	// generation is returned to its callers but never cached.
	mu         sync.Mutex
	generation uint64
}

func NewDashboardService(
	store store.Store,
	aggregator *aggregate.Aggregator,
	formatter *format.Formatter,
	cacheSize int,
) (*Service, error) {
	cache, err := lru.New[string, *domain.Aggregate](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("lru.New: %w", err)
	}

	return &Service{
		store:      store,
		aggregator: aggregator,
		formatter:  formatter,
		cache:      cache,
	}, nil
}

// Filters resolves a request into concrete filters. Missing years default to
// the range on record for the organism.
func (s *Service) Filters(ctx context.Context, q dto.FiltersQuery) (domain.Filters, error) {
	filters := domain.Filters{
		TimeInitial: q.TimeInitial,
		TimeFinal:   q.TimeFinal,
		Country:     q.Country,
		Organism:    q.Organism,
	}
	if filters.Country == "" {
		filters.Country = domain.AllCountries
	}

	if filters.TimeInitial == 0 || filters.TimeFinal == 0 {
		first, last, err := s.store.YearRange(ctx, q.Organism)
		switch {
		case errors.Is(err, constants.ErrDBNotFound):
			first, last = filters.TimeFinal, filters.TimeInitial
		case err != nil:
			return domain.Filters{}, fmt.Errorf("store.YearRange: %w", err)
		}
		if filters.TimeInitial == 0 {
			filters.TimeInitial = first
		}
		if filters.TimeFinal == 0 {
			filters.TimeFinal = last
		}
	}

	if err := filters.Validate(); err != nil {
		return domain.Filters{}, err
	}
	return filters, nil
}

// Aggregate returns the memoized aggregate for filters, computing it on a miss.
// Concurrent misses on the same key share one computation, which outlives the
// caller that started it; each caller stops waiting when its own ctx is done.
func (s *Service) Aggregate(ctx context.Context, filters domain.Filters) (*domain.Aggregate, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	key := filters.Key()
	if agg, ok := s.cache.Get(key); ok {
		metrics.AggregateCacheHits.Inc()
		return agg, nil
	}
	metrics.AggregateCacheMisses.Inc()

	gen := s.currentGeneration()
	computeCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(fmt.Sprintf("%d|%s", gen, key), func() (interface{}, error) {
		agg, err := s.compute(computeCtx, filters)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		if s.generation == gen {
			s.cache.Add(key, agg)
		}
		s.mu.Unlock()
		return agg, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.Aggregate), nil
	}
}

func (s *Service) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

func (s *Service) compute(ctx context.Context, filters domain.Filters) (*domain.Aggregate, error) {
	start := time.Now()
	defer func() {
		metrics.AggregateDuration.Observe(time.Since(start).Seconds())
	}()

	// country stats cover every country, so only organism and time go to SQL
	opts := store.ListSamplesOpts{
		YearFrom: &filters.TimeInitial,
		YearTo:   &filters.TimeFinal,
	}
	if filters.Organism != "" {
		opts.Organism = &filters.Organism
	}

	records, err := s.store.ListSamples(ctx, opts)
	if err != nil {
		logger.Errorf(ctx, "store.ListSamples: %s", err.Error())
		return nil, fmt.Errorf("store.ListSamples: %w", err)
	}

	agg, err := s.aggregator.Aggregate(records, filters)
	if err != nil {
		return nil, fmt.Errorf("aggregator.Aggregate: %w", err)
	}

	logger.Debugf(ctx, "aggregated %d samples for %s in %s", len(records), filters.Key(), time.Since(start))
	return agg, nil
}

// Invalidate drops every memoized aggregate. Computations already in flight
// finish for their callers but are not cached.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.cache.Purge()
}

func (s *Service) MapView(ctx context.Context, filters domain.Filters, view domain.MapView) (domain.MapViewModel, error) {
	agg, err := s.Aggregate(ctx, filters)
	if err != nil {
		return domain.MapViewModel{}, err
	}
	return s.formatter.FormatMap(agg, view), nil
}

// MapCountry is the map entry for one country; countries without samples get
// the no-data fill.
func (s *Service) MapCountry(
	ctx context.Context,
	filters domain.Filters,
	view domain.MapView,
	name string,
) (domain.CountryView, error) {
	vm, err := s.MapView(ctx, filters, view)
	if err != nil {
		return domain.CountryView{}, err
	}
	return s.formatter.Country(vm, name), nil
}

func (s *Service) Distribution(ctx context.Context, filters domain.Filters, view domain.GraphView) (domain.GraphViewModel, error) {
	agg, err := s.Aggregate(ctx, filters)
	if err != nil {
		return domain.GraphViewModel{}, err
	}
	return s.formatter.Distribution(agg, view), nil
}

func (s *Service) DistributionTooltip(
	ctx context.Context,
	filters domain.Filters,
	label string,
	genotypes []string,
) (domain.SeriesTooltip, error) {
	agg, err := s.Aggregate(ctx, filters)
	if err != nil {
		return domain.SeriesTooltip{}, err
	}

	tooltip, ok := s.formatter.DistributionTooltip(agg, label, genotypes)
	if !ok {
		return domain.SeriesTooltip{}, fmt.Errorf("year %s: %w", label, constants.ErrDBNotFound)
	}
	return tooltip, nil
}

func (s *Service) Frequencies(
	ctx context.Context,
	filters domain.Filters,
	view domain.GraphView,
	genotypes []string,
) (domain.GraphViewModel, error) {
	agg, err := s.Aggregate(ctx, filters)
	if err != nil {
		return domain.GraphViewModel{}, err
	}
	return s.formatter.Frequencies(agg, view, genotypes)
}

func (s *Service) DrugResistance(
	ctx context.Context,
	filters domain.Filters,
	view domain.GraphView,
	drugs []domain.Marker,
) (domain.GraphViewModel, error) {
	agg, err := s.Aggregate(ctx, filters)
	if err != nil {
		return domain.GraphViewModel{}, err
	}
	return s.formatter.DrugResistance(agg, view, drugs), nil
}

func (s *Service) GenotypeOptions(ctx context.Context, filters domain.Filters) ([]domain.GenotypeOption, error) {
	agg, err := s.Aggregate(ctx, filters)
	if err != nil {
		return nil, err
	}
	return s.formatter.GenotypeOptions(agg), nil
}

func (s *Service) DefaultViewState(ctx context.Context, filters domain.Filters) (domain.ViewState, error) {
	agg, err := s.Aggregate(ctx, filters)
	if err != nil {
		return domain.ViewState{}, err
	}
	return s.formatter.DefaultViewState(agg), nil
}

func (s *Service) Countries(ctx context.Context, organism string) ([]string, error) {
	countries, err := s.store.ListCountries(ctx, organism)
	if err != nil {
		return nil, fmt.Errorf("store.ListCountries: %w", err)
	}
	return countries, nil
}
