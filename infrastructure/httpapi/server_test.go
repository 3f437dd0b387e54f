package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-medals/infrastructure/lookup"
	"github.com/ahrav/go-medals/infrastructure/middleware"
	"github.com/ahrav/go-medals/internal/application"
	"github.com/ahrav/go-medals/internal/domain"
	"github.com/ahrav/go-medals/internal/ports"
	"github.com/ahrav/go-medals/internal/testutils"
)

type fixture struct {
	source  *testutils.MockRecordSource
	store   *testutils.MockPreferenceStore
	metrics *testutils.MockMetricsCollector
	handler http.Handler
}

func newFixture(t *testing.T, load bool, opts ...Option) *fixture {
	t.Helper()

	resolver, err := lookup.NewFuzzyResolver(0.8)
	require.NoError(t, err)

	f := &fixture{
		source:  testutils.NewMockRecordSource(testutils.FixtureRecords()),
		store:   &testutils.MockPreferenceStore{},
		metrics: testutils.NewMockMetricsCollector(),
	}
	dash, err := application.NewDashboard(f.source, application.DefaultConfig(),
		application.WithResolver(resolver))
	require.NoError(t, err)
	if load {
		_, err = dash.Load(context.Background())
		require.NoError(t, err)
	}

	opts = append([]Option{WithStore(f.store), WithMetrics(f.metrics)}, opts...)
	srv, err := NewServer(dash, opts...)
	require.NoError(t, err)
	f.handler = srv.Router()
	return f
}

func (f *fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func TestServer_NotLoaded(t *testing.T) {
	f := newFixture(t, false)

	for _, path := range []string{"/api/overview", "/api/countries", "/api/top", "/api/view"} {
		t.Run(path, func(t *testing.T) {
			rec := f.do(t, http.MethodGet, path, "")
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		})
	}
}

func TestServer_Overview(t *testing.T) {
	f := newFixture(t, true)

	rec := f.do(t, http.MethodGet, "/api/overview", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	ov := decode[application.Overview](t, rec)
	assert.Equal(t, 4, ov.Countries)
	assert.Equal(t, 7, ov.Medals)
	require.Len(t, ov.Standings, 4)
	assert.Equal(t, "Norway", ov.Standings[0].Country)
	assert.Equal(t, 1, ov.Standings[1].Rank)
	assert.Equal(t, 8, ov.MaxWeight)
}

func TestServer_Countries(t *testing.T) {
	f := newFixture(t, true)

	rec := f.do(t, http.MethodGet, "/api/countries?exclude=norway", "")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[countriesResponse](t, rec)
	assert.Equal(t, []string{"Chad", "Finland", "Sweden"}, got.Countries)
}

func TestServer_Country(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantName   string
		wantRank   int
		wantTotal  int
		inDataset  bool
	}{
		{name: "exact", path: "/api/countries/Sweden", wantStatus: 200, wantName: "Sweden", wantRank: 1, wantTotal: 3, inDataset: true},
		{name: "case insensitive", path: "/api/countries/finland", wantStatus: 200, wantName: "Finland", wantRank: 3, wantTotal: 1, inDataset: true},
		{name: "fuzzy", path: "/api/countries/Swedn", wantStatus: 200, wantName: "Sweden", wantRank: 1, wantTotal: 3, inDataset: true},
		{name: "no medals", path: "/api/countries/Chad", wantStatus: 200, wantName: "Chad", wantRank: 4, inDataset: true},
		{name: "unknown gets zero tally", path: "/api/countries/Atlantis", wantStatus: 200, wantName: "Atlantis"},
		{name: "unknown strict", path: "/api/countries/Atlantis?strict=true", wantStatus: 404},
		{name: "bad strict", path: "/api/countries/Chad?strict=maybe", wantStatus: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, true)

			rec := f.do(t, http.MethodGet, tt.path, "")
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}

			got := decode[application.CountryDetail](t, rec)
			assert.Equal(t, tt.wantName, got.Country)
			assert.Equal(t, tt.wantRank, got.Rank)
			assert.Equal(t, tt.wantTotal, got.Total)
			assert.Equal(t, tt.inDataset, got.InDataset)
		})
	}
}

func TestServer_Athletes(t *testing.T) {
	f := newFixture(t, true)

	rec := f.do(t, http.MethodGet, "/api/countries/norway/athletes", "")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[athletesResponse](t, rec)
	assert.Equal(t, "Norway", got.Country)
	assert.Equal(t, []domain.AthleteCount{
		{Athlete: "Marit Bjorgen", Count: 2},
		{Athlete: "Ole Einar Bjorndalen", Count: 1},
	}, got.Athletes)
	require.NotNil(t, got.Chart)
}

func TestServer_Years(t *testing.T) {
	f := newFixture(t, true)

	rec := f.do(t, http.MethodGet, "/api/countries/Norway/years", "")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[yearsResponse](t, rec)
	assert.Equal(t, []domain.YearCount{{Year: 2010, Count: 2}, {Year: 2014, Count: 1}}, got.Years)
	require.NotNil(t, got.Chart)
}

func TestServer_Compare(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantSeries []string
	}{
		{name: "two countries", query: "?country=Norway&country=sweden", wantStatus: 200, wantSeries: []string{"Norway", "Sweden"}},
		{name: "none", query: "", wantStatus: 400},
		{name: "too many", query: "?country=Norway&country=Sweden&country=Finland&country=Chad", wantStatus: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, true)

			rec := f.do(t, http.MethodGet, "/api/compare"+tt.query, "")
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}

			got := decode[compareResponse](t, rec)
			names := make([]string, 0, len(got.Series))
			for _, s := range got.Series {
				names = append(names, s.Country)
			}
			assert.Equal(t, tt.wantSeries, names)
		})
	}
}

func TestServer_Top(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantFirst  string
		wantLen    int
	}{
		{name: "default total", query: "", wantStatus: 200, wantFirst: "Norway", wantLen: 4},
		{name: "bronze", query: "?by=bronze", wantStatus: 200, wantFirst: "Finland", wantLen: 4},
		{name: "dashboard label", query: "?by=Top+Gold&n=1", wantStatus: 200, wantFirst: "Norway", wantLen: 1},
		{name: "unknown criterion", query: "?by=wood", wantStatus: 400},
		{name: "bad n", query: "?n=abc", wantStatus: 400},
		{name: "n too large", query: "?n=500", wantStatus: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, true)

			rec := f.do(t, http.MethodGet, "/api/top"+tt.query, "")
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}

			got := decode[topResponse](t, rec)
			require.Len(t, got.Countries, tt.wantLen)
			assert.Equal(t, tt.wantFirst, got.Countries[0].Country)
		})
	}
}

func TestServer_Gender(t *testing.T) {
	f := newFixture(t, true)

	rec := f.do(t, http.MethodGet, "/api/gender", "")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[genderResponse](t, rec)
	assert.Equal(t, domain.GenderCount{Male: 4, Female: 4}, got.Gender)
	require.NotNil(t, got.Chart)
}

func TestServer_View(t *testing.T) {
	t.Run("selection with comparison", func(t *testing.T) {
		f := newFixture(t, true)

		rec := f.do(t, http.MethodGet, "/api/view?selected=norway&compare=Sweden&by=gold&dark=true", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		v := decode[application.View](t, rec)
		require.NotNil(t, v.Selected)
		assert.Equal(t, "Norway", v.Selected.Country)
		assert.Equal(t, domain.CriterionGold, v.Criterion)
		assert.True(t, v.DarkMode)
		require.Len(t, v.Lines, 2)
		assert.Equal(t, "Sweden", v.Lines[1].Country)
		assert.Equal(t, []string{"Chad", "Finland", "Sweden"}, v.ComparisonOptions)
	})

	t.Run("country without medals", func(t *testing.T) {
		f := newFixture(t, true)

		rec := f.do(t, http.MethodGet, "/api/view?selected=Chad&compare=Sweden", "")
		require.Equal(t, http.StatusOK, rec.Code)

		v := decode[application.View](t, rec)
		require.NotNil(t, v.Selected)
		assert.False(t, v.Selected.HasMedals)
		assert.Empty(t, v.Lines)
		assert.Nil(t, v.Charts.Years)
	})

	t.Run("stored dark mode", func(t *testing.T) {
		f := newFixture(t, true)
		require.NoError(t, f.store.SetDarkMode(context.Background(), true))

		rec := f.do(t, http.MethodGet, "/api/view", "")
		require.Equal(t, http.StatusOK, rec.Code)

		v := decode[application.View](t, rec)
		assert.True(t, v.DarkMode)
		assert.Nil(t, v.Selected)
	})

	t.Run("invalid", func(t *testing.T) {
		for _, q := range []string{"?compare=Sweden", "?by=wood", "?dark=perhaps", "?selected=Norway&compare=Norway"} {
			f := newFixture(t, true)
			rec := f.do(t, http.MethodGet, "/api/view"+q, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		}
	})
}

func TestServer_DarkMode(t *testing.T) {
	f := newFixture(t, true)

	rec := f.do(t, http.MethodPut, "/api/preferences/dark-mode", `{"dark_mode": true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/preferences/dark-mode", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[darkModeResponse](t, rec).DarkMode)

	for _, body := range []string{"", "{}", `{"dark": true}`, `{"dark_mode": "yes"}`} {
		rec = f.do(t, http.MethodPut, "/api/preferences/dark-mode", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}

	f.store.SetError(ports.NewStoreError("dark_mode", "get", ports.ErrStoreUnavailable))
	rec = f.do(t, http.MethodGet, "/api/preferences/dark-mode", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_DarkModeWithoutStore(t *testing.T) {
	f := newFixture(t, true, WithStore(nil))

	rec := f.do(t, http.MethodGet, "/api/preferences/dark-mode", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_Reload(t *testing.T) {
	f := newFixture(t, true)

	rec := f.do(t, http.MethodPost, "/api/reload", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[reloadResponse](t, rec)
	assert.False(t, got.Changed)
	assert.Equal(t, 8, got.Records)

	f.source.SetRecords(testutils.GenerateSampleDataset(50, 1))
	rec = f.do(t, http.MethodPost, "/api/reload", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[reloadResponse](t, rec).Changed)

	f.source.SetError(ports.NewDatasetError("mock", "data.json", ports.ErrDatasetUnavailable))
	rec = f.do(t, http.MethodPost, "/api/reload", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	f.source.SetError(ports.NewDatasetError("mock", "data.json", ports.ErrMalformedDataset))
	rec = f.do(t, http.MethodPost, "/api/reload", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/reload", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServer_RateLimit(t *testing.T) {
	f := newFixture(t, true, WithRateLimit(0.001, 1))

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/gender", "").Code)

	rec := f.do(t, http.MethodGet, "/api/gender", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Equal(t, 1.0, f.metrics.Counter(middleware.MetricRateLimited))
}

func TestServer_RequestMetrics(t *testing.T) {
	f := newFixture(t, true)

	f.do(t, http.MethodGet, "/api/countries/Norway", "")

	assert.Equal(t, 1.0, f.metrics.Counter(middleware.MetricHTTPRequests))
	labels := f.metrics.Labels(middleware.MetricHTTPRequests)
	assert.Equal(t, "/api/countries/{name}", labels["route"])
	assert.Equal(t, "200", labels["code"])
	assert.Len(t, f.metrics.Latencies(middleware.OperationHTTPRequest), 1)
}

func TestServer_PrometheusEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	f := newFixture(t, true, WithMetrics(middleware.NewPrometheusMetrics(reg)), WithGatherer(reg))

	f.do(t, http.MethodGet, "/api/overview", "")
	rec := f.do(t, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `medals_http_requests_total{code="200",method="GET",route="/api/overview"} 1`)
}
