// Package httpapi serves the medal dashboard as a JSON API.
//
// Routes are registered on a gorilla/mux router. Every route passes through
// the tracing, metrics and rate limiting middleware, in that order.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/ahrav/go-medals/internal/application"
	"github.com/ahrav/go-medals/internal/domain"
	"github.com/ahrav/go-medals/internal/ports"
)

// Dashboard is the query surface the API serves. *application.Dashboard
// implements it.
type Dashboard interface {
	Loaded() bool
	Load(ctx context.Context) (ports.LoadStats, error)
	Settings() application.DashboardConfig
	Overview() application.Overview
	Country(name string) application.CountryDetail
	Athletes(name string) []domain.AthleteCount
	Years(name string) []domain.YearCount
	Compare(names []string) ([]domain.CountrySeries, error)
	Top(criterion domain.Criterion, n int) []domain.CountryValue
	Gender() domain.GenderCount
	Countries(exclude string) []string
	View(state domain.ViewState) application.View
}

var _ Dashboard = (*application.Dashboard)(nil)

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	dashboard Dashboard
	store     ports.PreferenceStore
	metrics   ports.MetricsCollector
	gatherer  prometheus.Gatherer
	logger    logrus.FieldLogger
	validate  *validator.Validate
	limit     rate.Limit
	burst     int
}

// Option configures a Server.
type Option func(*Server)

// WithStore enables the preference routes.
func WithStore(s ports.PreferenceStore) Option { return func(srv *Server) { srv.store = s } }

// WithMetrics records request metrics in m.
func WithMetrics(m ports.MetricsCollector) Option { return func(srv *Server) { srv.metrics = m } }

// WithGatherer exposes g at /metrics.
func WithGatherer(g prometheus.Gatherer) Option { return func(srv *Server) { srv.gatherer = g } }

// WithLogger sets the request logger.
func WithLogger(l logrus.FieldLogger) Option { return func(srv *Server) { srv.logger = l } }

// WithRateLimit limits the API to rps requests per second with the given
// burst. A zero rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(srv *Server) {
		srv.limit = rate.Limit(rps)
		srv.burst = burst
	}
}

// NewServer creates a server over dashboard.
func NewServer(dashboard Dashboard, opts ...Option) (*Server, error) {
	v, err := application.NewValidator()
	if err != nil {
		return nil, err
	}
	srv := &Server{
		dashboard: dashboard,
		logger:    logrus.StandardLogger(),
		validate:  v,
	}
	for _, opt := range opts {
		opt(srv)
	}
	return srv, nil
}

// Router builds the route table.
func (s *Server) Router() http.Handler {
	router := mux.NewRouter()
	router.Use(Tracing(), Metrics(s.metrics, s.logger))
	if s.limit > 0 {
		router.Use(RateLimit(s.limit, s.burst, s.metrics))
	}

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/overview", s.requireLoaded(s.handleOverview)).Methods(http.MethodGet)
	api.HandleFunc("/countries", s.requireLoaded(s.handleCountries)).Methods(http.MethodGet)
	api.HandleFunc("/countries/{name}", s.requireLoaded(s.handleCountry)).Methods(http.MethodGet)
	api.HandleFunc("/countries/{name}/athletes", s.requireLoaded(s.handleAthletes)).Methods(http.MethodGet)
	api.HandleFunc("/countries/{name}/years", s.requireLoaded(s.handleYears)).Methods(http.MethodGet)
	api.HandleFunc("/compare", s.requireLoaded(s.handleCompare)).Methods(http.MethodGet)
	api.HandleFunc("/top", s.requireLoaded(s.handleTop)).Methods(http.MethodGet)
	api.HandleFunc("/gender", s.requireLoaded(s.handleGender)).Methods(http.MethodGet)
	api.HandleFunc("/view", s.requireLoaded(s.handleView)).Methods(http.MethodGet)
	api.HandleFunc("/preferences/dark-mode", s.handleGetDarkMode).Methods(http.MethodGet)
	api.HandleFunc("/preferences/dark-mode", s.handlePutDarkMode).Methods(http.MethodPut)
	api.HandleFunc("/reload", s.handleReload).Methods(http.MethodPost)

	if s.gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	return router
}

// requireLoaded answers 503 until the first dataset load succeeded.
func (s *Server) requireLoaded(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.dashboard.Loaded() {
			RespondWithError(w, http.StatusServiceUnavailable, Error{Message: "dataset not loaded"})
			return
		}
		next(w, r)
	}
}
