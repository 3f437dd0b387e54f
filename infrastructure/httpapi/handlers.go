package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/ahrav/go-medals/internal/application"
	"github.com/ahrav/go-medals/internal/charts"
	"github.com/ahrav/go-medals/internal/domain"
)

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	ResponseJSON(w, s.dashboard.Overview())
}

type countriesResponse struct {
	Countries []string `json:"countries"`
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	ResponseJSON(w, countriesResponse{Countries: s.dashboard.Countries(r.URL.Query().Get("exclude"))})
}

// handleCountry answers with a zero tally for unknown countries unless
// strict=true is passed, which turns them into a 404.
func (s *Server) handleCountry(w http.ResponseWriter, r *http.Request) {
	strict, err := boolParam(r.URL.Query(), "strict")
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	detail := s.dashboard.Country(mux.Vars(r)["name"])
	if strict != nil && *strict && !detail.InDataset {
		s.respondErr(w, r, fmt.Errorf("%w: %q", errUnknownCountry, detail.Country))
		return
	}
	ResponseJSON(w, struct {
		application.CountryDetail
		Chart *charts.ChartConfig `json:"chart"`
	}{detail, charts.CountryMedals(detail.Country, detail.Tally)})
}

type athletesResponse struct {
	Country  string                `json:"country"`
	Athletes []domain.AthleteCount `json:"athletes"`
	Chart    *charts.ChartConfig   `json:"chart"`
}

func (s *Server) handleAthletes(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	country := s.dashboard.Country(name).Country
	athletes := s.dashboard.Athletes(name)
	ResponseJSON(w, athletesResponse{
		Country:  country,
		Athletes: athletes,
		Chart:    charts.Athletes(country, athletes),
	})
}

type yearsResponse struct {
	Country string              `json:"country"`
	Years   []domain.YearCount  `json:"years"`
	Chart   *charts.ChartConfig `json:"chart"`
}

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	country := s.dashboard.Country(name).Country
	years := s.dashboard.Years(name)
	ResponseJSON(w, yearsResponse{
		Country: country,
		Years:   years,
		Chart:   charts.Years([]domain.CountrySeries{{Country: country, Years: years}}),
	})
}

type compareResponse struct {
	Series []domain.CountrySeries `json:"series"`
	Chart  *charts.ChartConfig    `json:"chart"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	q := compareQuery{Countries: r.URL.Query()["country"]}
	if err := s.validate.Struct(q); err != nil {
		s.respondErr(w, r, err)
		return
	}

	series, err := s.dashboard.Compare(q.Countries)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	ResponseJSON(w, compareResponse{Series: series, Chart: charts.Years(series)})
}

type topResponse struct {
	Criterion domain.Criterion      `json:"criterion"`
	Countries []domain.CountryValue `json:"countries"`
	Chart     *charts.ChartConfig   `json:"chart"`
}

func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	q, err := parseTopQuery(r.URL.Query())
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	if err := s.validate.Struct(q); err != nil {
		s.respondErr(w, r, err)
		return
	}
	criterion, err := domain.ParseCriterion(q.By)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	top := s.dashboard.Top(criterion, q.N)
	ResponseJSON(w, topResponse{
		Criterion: criterion,
		Countries: top,
		Chart:     charts.TopCountries(criterion, top),
	})
}

type genderResponse struct {
	Gender domain.GenderCount  `json:"gender"`
	Chart  *charts.ChartConfig `json:"chart"`
}

func (s *Server) handleGender(w http.ResponseWriter, r *http.Request) {
	gender := s.dashboard.Gender()
	ResponseJSON(w, genderResponse{Gender: gender, Chart: charts.Gender(gender)})
}

// handleView renders the whole dashboard for the state encoded in the query:
// selected, compare (repeated, one per picker slot), by and dark. Without a
// dark parameter the stored preference applies.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	q, err := parseViewQuery(r.URL.Query())
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	if err := s.validate.Struct(q); err != nil {
		s.respondErr(w, r, err)
		return
	}

	state := domain.NewViewState()
	criterion, err := domain.ParseCriterion(q.By)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	state = domain.With(state, domain.KeyCriterion, criterion)

	dark := false
	switch {
	case q.Dark != nil:
		dark = *q.Dark
	case s.store != nil:
		if dark, err = s.store.DarkMode(r.Context()); err != nil {
			s.logger.WithError(err).Warn("failed to read dark mode preference")
			dark = false
		}
	}
	state = domain.With(state, domain.KeyDarkMode, dark)

	if q.Selected != "" {
		detail := s.dashboard.Country(q.Selected)
		state = domain.SelectCountry(state, detail.Country, detail.HasMedals)
		if detail.HasMedals {
			slots := s.dashboard.Settings().MaxComparisons
			for i, c := range q.Compare {
				c = strings.TrimSpace(c)
				if c == "" {
					continue
				}
				if state, err = domain.SetComparison(state, i, slots, s.dashboard.Country(c).Country); err != nil {
					s.respondErr(w, r, err)
					return
				}
			}
		}
	} else if len(q.Compare) > 0 {
		s.respondErr(w, r, fmt.Errorf("%w: compare requires selected", errBadQuery))
		return
	}

	ResponseJSON(w, s.dashboard.View(state))
}

type darkModeBody struct {
	DarkMode *bool `json:"dark_mode"`
}

type darkModeResponse struct {
	DarkMode bool `json:"dark_mode"`
}

func (s *Server) handleGetDarkMode(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		RespondWithError(w, http.StatusServiceUnavailable, Error{Message: "preference store disabled"})
		return
	}
	dark, err := s.store.DarkMode(r.Context())
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	ResponseJSON(w, darkModeResponse{DarkMode: dark})
}

func (s *Server) handlePutDarkMode(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		RespondWithError(w, http.StatusServiceUnavailable, Error{Message: "preference store disabled"})
		return
	}

	var body darkModeBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil || body.DarkMode == nil {
		RespondWithError(w, http.StatusBadRequest, Error{Message: `body must be {"dark_mode": true|false}`})
		return
	}

	if err := s.store.SetDarkMode(r.Context(), *body.DarkMode); err != nil {
		s.respondErr(w, r, err)
		return
	}
	ResponseJSON(w, darkModeResponse{DarkMode: *body.DarkMode})
}

type reloadResponse struct {
	Source     string `json:"source"`
	Records    int    `json:"records"`
	Countries  int    `json:"countries"`
	Medals     int    `json:"medals"`
	DurationMS int64  `json:"duration_ms"`
	Changed    bool   `json:"changed"`
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	stats, err := s.dashboard.Load(r.Context())
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	ResponseJSON(w, reloadResponse{
		Source:     stats.Source,
		Records:    stats.Records,
		Countries:  stats.Countries,
		Medals:     stats.Medals,
		DurationMS: stats.Duration.Milliseconds(),
		Changed:    stats.Changed,
	})
}
