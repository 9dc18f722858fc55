package ingest

import (
	"context"
	"fmt"
	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/ougirez/amrmap/internal/domain"
	"github.com/ougirez/amrmap/internal/domain/dto"
	"github.com/ougirez/amrmap/internal/pkg/constants"
	"github.com/ougirez/amrmap/internal/pkg/logger"
	"github.com/ougirez/amrmap/internal/pkg/metrics"
	"github.com/ougirez/amrmap/internal/pkg/store"
	"golang.org/x/sync/errgroup"
	"io"
	"net/http"
	"time"
)

const maxParallelFetches = 4

type Options struct {
	Retries       uint64
	RetryInterval time.Duration
	HTTPClient    *http.Client
}

// Service loads sample datasets into the store. OnImport runs after every
// successful import so cached aggregates can be dropped.
type Service struct {
	store    store.Store
	validate *validator.Validate
	opts     Options
	onImport func()
}

func NewIngestService(store store.Store, opts Options, onImport func()) *Service {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: time.Minute}
	}
	if onImport == nil {
		onImport = func() {}
	}
	return &Service{
		store:    store,
		validate: dto.NewValidate(),
		opts:     opts,
		onImport: onImport,
	}
}

// ImportReader decodes a JSON array of samples from r and stores them. The
// whole batch is rejected on the first invalid sample.
func (s *Service) ImportReader(ctx context.Context, r io.Reader, source string) (dto.ImportResponse, error) {
	samples, err := decodeSamples(r)
	if err != nil {
		metrics.ImportFailures.WithLabelValues(source).Inc()
		return dto.ImportResponse{}, err
	}

	return s.ImportSamples(ctx, samples, source)
}

// DecodeRecords decodes and validates samples from r without storing them.
func (s *Service) DecodeRecords(r io.Reader) ([]domain.SampleRecord, error) {
	samples, err := decodeSamples(r)
	if err != nil {
		return nil, err
	}
	return s.toRecords(samples)
}

func (s *Service) ImportSamples(ctx context.Context, samples []dto.Sample, source string) (dto.ImportResponse, error) {
	batchID := uuid.NewString()
	ctx = logger.ToContext(ctx, "batch_id", batchID, "source", source)

	records, err := s.toRecords(samples)
	if err != nil {
		metrics.ImportFailures.WithLabelValues(source).Inc()
		logger.Warnf(ctx, "rejected batch of %d samples: %s", len(samples), err.Error())
		return dto.ImportResponse{}, err
	}

	inserted, err := s.store.InsertSamples(ctx, records)
	if err != nil {
		metrics.ImportFailures.WithLabelValues(source).Inc()
		return dto.ImportResponse{}, fmt.Errorf("store.InsertSamples: %w", err)
	}

	metrics.SamplesImported.WithLabelValues(source).Add(float64(inserted))
	s.onImport()
	logger.Infof(ctx, "imported %d of %d samples", inserted, len(samples))

	return dto.ImportResponse{BatchID: batchID, Received: len(samples), Inserted: inserted}, nil
}

func (s *Service) toRecords(samples []dto.Sample) ([]domain.SampleRecord, error) {
	records := make([]domain.SampleRecord, 0, len(samples))
	for i := range samples {
		if err := s.validate.Struct(samples[i]); err != nil {
			return nil, fmt.Errorf("sample %d: %s: %w", i, err.Error(), constants.ErrInvalidSample)
		}
		record, err := samples[i].ToDomain()
		if err != nil {
			return nil, fmt.Errorf("sample %d: %s: %w", i, err.Error(), constants.ErrInvalidSample)
		}
		records = append(records, record)
	}
	return records, nil
}

func decodeSamples(r io.Reader) ([]dto.Sample, error) {
	var samples []dto.Sample
	if err := sonic.ConfigDefault.NewDecoder(r).Decode(&samples); err != nil {
		return nil, fmt.Errorf("decode samples: %s: %w", err.Error(), constants.ErrBadRequest)
	}
	return samples, nil
}

// Backfill fetches every dataset URL concurrently, retrying transient failures,
// and imports the union as one batch.
func (s *Service) Backfill(ctx context.Context, urls []string) (dto.ImportResponse, error) {
	if len(urls) == 0 {
		return dto.ImportResponse{}, constants.ErrNoBackfillSources
	}

	fetched := make([][]dto.Sample, len(urls))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxParallelFetches)
	for i, url := range urls {
		i, url := i, url
		eg.Go(func() error {
			samples, err := s.fetch(egCtx, url)
			if err != nil {
				logger.Errorf(ctx, "fetch %s: %s", url, err.Error())
				return fmt.Errorf("fetch %s: %w", url, err)
			}
			logger.Debugf(ctx, "fetched %d samples from %s", len(samples), url)
			fetched[i] = samples
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		metrics.ImportFailures.WithLabelValues(metrics.SourceBackfill).Inc()
		return dto.ImportResponse{}, err
	}

	all := make([]dto.Sample, 0)
	for _, samples := range fetched {
		all = append(all, samples...)
	}

	return s.ImportSamples(ctx, all, metrics.SourceBackfill)
}

func (s *Service) fetch(ctx context.Context, url string) (samples []dto.Sample, err error) {
	var resp *http.Response
	err = backoff.Retry(
		func() error {
			req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if reqErr != nil {
				return backoff.Permanent(fmt.Errorf("http.NewRequest: %w", reqErr))
			}

			var httpErr error
			resp, httpErr = s.opts.HTTPClient.Do(req)
			if httpErr != nil {
				return fmt.Errorf("http.Get: %w", httpErr)
			}

			if resp.StatusCode != http.StatusOK {
				_ = resp.Body.Close()
				statusErr := fmt.Errorf("status code error: %d %s", resp.StatusCode, resp.Status)
				if resp.StatusCode >= 400 && resp.StatusCode < 500 {
					return backoff.Permanent(statusErr)
				}
				return statusErr
			}

			return nil
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(s.opts.RetryInterval), s.opts.Retries),
			ctx,
		),
	)
	if err != nil {
		return nil, err
	}

	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close body: %w", closeErr)
		}
	}()

	return decodeSamples(resp.Body)
}
