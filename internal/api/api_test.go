package api

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/ougirez/amrmap/internal/domain"
	"github.com/ougirez/amrmap/internal/domain/dto"
	"github.com/ougirez/amrmap/internal/format"
	"github.com/ougirez/amrmap/internal/pkg/config"
	"github.com/ougirez/amrmap/internal/pkg/constants"
	"github.com/ougirez/amrmap/internal/pkg/store"
	"github.com/ougirez/amrmap/internal/pkg/utils"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"
)

const (
	testSecret     = "s3cret"
	testSigningKey = "signing-key"
)

type memStore struct {
	mu      sync.Mutex
	records []domain.SampleRecord
}

func (m *memStore) Migrate(context.Context) error { return nil }

func (m *memStore) InsertSamples(_ context.Context, samples []domain.SampleRecord) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, samples...)
	return int64(len(samples)), nil
}

func (m *memStore) ListSamples(_ context.Context, opts store.ListSamplesOpts) ([]domain.SampleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.SampleRecord, 0, len(m.records))
	for _, r := range m.records {
		if opts.Organism != nil && r.Organism != *opts.Organism {
			continue
		}
		if opts.YearFrom != nil && r.Year < *opts.YearFrom {
			continue
		}
		if opts.YearTo != nil && r.Year > *opts.YearTo {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memStore) ListCountries(context.Context, string) ([]string, error) {
	return []string{"India"}, nil
}

func (m *memStore) YearRange(context.Context, string) (domain.Year, domain.Year, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.records) == 0 {
		return 0, 0, constants.ErrDBNotFound
	}
	first, last := m.records[0].Year, m.records[0].Year
	for _, r := range m.records {
		if r.Year < first {
			first = r.Year
		}
		if r.Year > last {
			last = r.Year
		}
	}
	return first, last, nil
}

func seed() *memStore {
	st := &memStore{}
	for i := 0; i < 20; i++ {
		res := domain.Resistance{}
		if i < 15 {
			res[domain.MarkerMDR] = domain.StatusResistant
		}
		st.records = append(st.records, domain.SampleRecord{
			ID:         fmt.Sprintf("s-%d", i),
			Organism:   "styphi",
			Country:    "India",
			Year:       2010 + i%2,
			Genotype:   "4.3.1",
			Resistance: res,
		})
	}
	return st
}

func newTestServer(t *testing.T, st store.Store) http.Handler {
	t.Helper()
	viper.Reset()
	viper.Set(constants.ViperSecretKey, testSecret)
	viper.Set(constants.ViperJWTSigningKey, testSigningKey)
	t.Cleanup(viper.Reset)

	cfg := &config.Config{
		Server:    config.ServerConfig{CORSOrigins: []string{"*"}},
		Logging:   config.LoggingConfig{Level: "error"},
		Dashboard: config.DashboardConfig{CacheSize: 8, MinSamples: 20, MaxGenotypes: 10},
		Ingest:    config.IngestConfig{Retries: 1, RetryInterval: time.Millisecond},
		Formatter: format.DefaultConfig(),
	}

	svc, err := NewAPIService(cfg, st)
	require.NoError(t, err)
	return svc.Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func adminCookie(t *testing.T, secret string) *http.Cookie {
	t.Helper()
	token, err := utils.GenerateAuthToken(&utils.AuthTokenWrapper{Secret: secret}, testSigningKey, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: constants.CookieKeySecretToken, Value: token}
}

func TestGetMap(t *testing.T) {
	h := newTestServer(t, seed())

	rec := do(t, h, http.MethodGet, "/api/v1/dashboard/map?organism=styphi&map_view=MDR", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	vm := decode[domain.MapViewModel](t, rec)
	assert.Equal(t, domain.MapViewMDR, vm.View)
	india := vm.Countries["India"]
	assert.Equal(t, 75.0, india.Value)
	assert.Equal(t, 20, india.Count)
	assert.Equal(t, domain.FillStateData, india.State)
}

func TestGetMapDefaultsToCipNS(t *testing.T) {
	h := newTestServer(t, seed())

	rec := do(t, h, http.MethodGet, "/api/v1/dashboard/map", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, domain.MapViewCipNS, decode[domain.MapViewModel](t, rec).View)
}

func TestGetMapCountry(t *testing.T) {
	h := newTestServer(t, seed())

	rec := do(t, h, http.MethodGet, "/api/v1/dashboard/map/country?name=India&map_view=MDR", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	india := decode[domain.CountryView](t, rec)
	assert.Equal(t, 75.0, india.Value)
	assert.Equal(t, domain.FillStateData, india.State)

	rec = do(t, h, http.MethodGet, "/api/v1/dashboard/map/country?name=Atlantis", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	atlantis := decode[domain.CountryView](t, rec)
	assert.Equal(t, "Atlantis", atlantis.Name)
	assert.Equal(t, domain.FillStateNoData, atlantis.State)
	assert.Equal(t, format.DefaultConfig().NoDataColor, atlantis.Color)
}

func TestGetAggregateHidesInsufficientPercentages(t *testing.T) {
	st := seed()
	for i := 0; i < 4; i++ {
		st.records = append(st.records, domain.SampleRecord{
			ID:         fmt.Sprintf("k-%d", i),
			Organism:   "styphi",
			Country:    "Kenya",
			Year:       2010,
			Genotype:   "4.3.1",
			Resistance: domain.Resistance{domain.MarkerMDR: domain.StatusResistant},
		})
	}
	h := newTestServer(t, st)

	rec := do(t, h, http.MethodGet, "/api/v1/dashboard/aggregate?organism=styphi", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	agg := decode[domain.Aggregate](t, rec)

	kenya := agg.CountryStats["Kenya"]
	require.NotNil(t, kenya)
	assert.False(t, kenya.Sufficient)
	assert.Equal(t, domain.MarkerStat{Count: 4}, kenya.Marker(domain.MarkerMDR))
	assert.Equal(t, 75.0, agg.CountryStats["India"].Marker(domain.MarkerMDR).Percentage)
}

func TestBadRequests(t *testing.T) {
	h := newTestServer(t, seed())

	genotypes := make([]string, 11)
	for i := range genotypes {
		genotypes[i] = fmt.Sprintf("g%d", i)
	}

	tests := []struct {
		name   string
		target string
		code   int
	}{
		{name: "unknown map view", target: "/api/v1/dashboard/map?map_view=bogus", code: http.StatusBadRequest},
		{name: "country lookup without name", target: "/api/v1/dashboard/map/country", code: http.StatusBadRequest},
		{name: "inverted range", target: "/api/v1/dashboard/aggregate?time_initial=2020&time_final=2010", code: http.StatusBadRequest},
		{name: "year out of range", target: "/api/v1/dashboard/aggregate?time_initial=1200", code: http.StatusBadRequest},
		{name: "non numeric year", target: "/api/v1/dashboard/aggregate?time_initial=abc", code: http.StatusBadRequest},
		{name: "unknown graph view", target: "/api/v1/dashboard/graphs/distribution?view=pie", code: http.StatusBadRequest},
		{name: "too many genotypes", target: "/api/v1/dashboard/graphs/frequencies?genotypes=" + strings.Join(genotypes, ","), code: http.StatusBadRequest},
		{name: "unknown drug", target: "/api/v1/dashboard/graphs/drug-resistance?drugs=Aspirin", code: http.StatusBadRequest},
		{name: "tooltip without year", target: "/api/v1/dashboard/graphs/distribution/tooltip", code: http.StatusBadRequest},
		{name: "tooltip unknown year", target: "/api/v1/dashboard/graphs/distribution/tooltip?year=1990", code: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.target, "", nil)
			require.Equal(t, tt.code, rec.Code, rec.Body.String())

			resp := decode[domain.ErrorResponse](t, rec)
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestGraphs(t *testing.T) {
	h := newTestServer(t, seed())

	rec := do(t, h, http.MethodGet, "/api/v1/dashboard/graphs/distribution?view=percentage", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	dist := decode[domain.GraphViewModel](t, rec)
	assert.Equal(t, []float64{0, 100}, dist.Domain)
	require.Len(t, dist.Rows, 2)
	assert.Equal(t, 100.0, dist.Rows[0].Values["4.3.1"])

	rec = do(t, h, http.MethodGet, "/api/v1/dashboard/graphs/distribution/tooltip?year=2010", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 10, decode[domain.SeriesTooltip](t, rec).Count)

	rec = do(t, h, http.MethodGet, "/api/v1/dashboard/graphs/frequencies?view=number&genotypes=4.3.1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	freq := decode[domain.GraphViewModel](t, rec)
	require.Len(t, freq.Rows, 1)
	assert.Equal(t, 15.0, freq.Rows[0].Values["MDR"])

	q := url.Values{"drugs": {"MDR", "Ampicillin/Amoxicillin"}, "view": {"number"}}
	rec = do(t, h, http.MethodGet, "/api/v1/dashboard/graphs/drug-resistance?"+q.Encode(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	trend := decode[domain.GraphViewModel](t, rec)
	assert.Equal(t, []string{"MDR", "Ampicillin/Amoxicillin"}, trend.Series)
}

func TestAggregateAndOptions(t *testing.T) {
	h := newTestServer(t, seed())

	rec := do(t, h, http.MethodGet, "/api/v1/dashboard/aggregate?organism=styphi", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[map[string]json.RawMessage](t, rec)
	assert.Contains(t, body, "countryStats")
	assert.Contains(t, body, "genotypeDrugRows")

	rec = do(t, h, http.MethodGet, "/api/v1/dashboard/genotypes", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	options := decode[[]domain.GenotypeOption](t, rec)
	require.Len(t, options, 1)
	assert.Equal(t, "4.3.1 (total N=20, 0.00% Pansusceptible)", options[0].Label)

	rec = do(t, h, http.MethodGet, "/api/v1/dashboard/defaults?country=India", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	state := decode[domain.ViewState](t, rec)
	assert.Equal(t, domain.AllCountries, state.Filters.Country)
	assert.Equal(t, 2010, state.Filters.TimeInitial)
	assert.Equal(t, 2011, state.Filters.TimeFinal)
	assert.Equal(t, []string{"4.3.1"}, state.FrequenciesGenotypes)

	rec = do(t, h, http.MethodGet, "/api/v1/dashboard/countries", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"India"}, decode[[]string](t, rec))
}

func TestImportRequiresAdmin(t *testing.T) {
	h := newTestServer(t, seed())
	body := `[{"organism": "styphi", "country": "Kenya", "year": 2011, "genotype": "4.3.1.2"}]`

	rec := do(t, h, http.MethodPost, "/api/v1/samples/import", body, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/samples/import", body, adminCookie(t, "wrong"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/samples/import", body,
		&http.Cookie{Name: constants.CookieKeySecretToken, Value: "not-a-jwt"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestImportInvalidatesCache(t *testing.T) {
	h := newTestServer(t, seed())

	rec := do(t, h, http.MethodGet, "/api/v1/dashboard/map?map_view=No.%20Samples", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	_, ok := decode[domain.MapViewModel](t, rec).Countries["Kenya"]
	assert.False(t, ok)

	body := `[{"organism": "styphi", "country": "Kenya", "year": 2011, "genotype": "4.3.1.2"}]`
	rec = do(t, h, http.MethodPost, "/api/v1/samples/import", body, adminCookie(t, testSecret))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	imported := decode[dto.ImportResponse](t, rec)
	assert.Equal(t, 1, imported.Received)
	assert.Equal(t, int64(1), imported.Inserted)

	rec = do(t, h, http.MethodGet, "/api/v1/dashboard/map?map_view=No.%20Samples", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	kenya, ok := decode[domain.MapViewModel](t, rec).Countries["Kenya"]
	require.True(t, ok)
	assert.Equal(t, 1, kenya.Count)
}

func TestImportRejectsInvalidSample(t *testing.T) {
	h := newTestServer(t, seed())

	body := `[{"organism": "styphi", "year": 2011, "genotype": "4.3.1.2"}]`
	rec := do(t, h, http.MethodPost, "/api/v1/samples/import", body, adminCookie(t, testSecret))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
}

func TestBackfillWithoutSources(t *testing.T) {
	h := newTestServer(t, seed())

	rec := do(t, h, http.MethodPost, "/api/v1/samples/backfill", "", adminCookie(t, testSecret))
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t, seed())

	_ = do(t, h, http.MethodGet, "/api/v1/dashboard/map", "", nil)
	rec := do(t, h, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "amrmap_dashboard_aggregate_cache_misses_total")
}
