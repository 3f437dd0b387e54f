package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/ahrav/go-medals/internal/charts"
	"github.com/ahrav/go-medals/internal/domain"
	"github.com/ahrav/go-medals/internal/ports"
)

// Dashboard owns the loaded medal dataset and answers every view query
// from a single Summary computed at load time. Queries are safe to run
// concurrently with each other and with Load.
type Dashboard struct {
	source   ports.RecordSource
	resolver ports.CountryResolver
	observer ports.LoadObserver
	logger   logrus.FieldLogger
	format   *charts.NumberFormatter
	settings DashboardConfig
	scale    ColorScaleConfig

	mu          sync.RWMutex
	records     []domain.MedalRecord
	summary     domain.Summary
	fingerprint string
	loadedAt    time.Time

	// sf collapses concurrent reloads into one read of the source.
	sf singleflight.Group
}

// Option configures a Dashboard.
type Option func(*Dashboard)

// WithResolver sets the resolver used for country names that do not match
// the dataset exactly.
func WithResolver(r ports.CountryResolver) Option { return func(d *Dashboard) { d.resolver = r } }

// WithObserver sets the load observer.
func WithObserver(o ports.LoadObserver) Option { return func(d *Dashboard) { d.observer = o } }

// WithLogger sets the logger. The default is logrus' standard logger.
func WithLogger(l logrus.FieldLogger) Option { return func(d *Dashboard) { d.logger = l } }

// NewDashboard creates a dashboard over source. No data is available until
// Load succeeds; until then every query answers as for an empty dataset.
func NewDashboard(source ports.RecordSource, cfg Config, opts ...Option) (*Dashboard, error) {
	if source == nil {
		return nil, fmt.Errorf("%w: record source is required", domain.ErrInvalidConfiguration)
	}
	format, err := charts.NewNumberFormatter(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidConfiguration, err)
	}

	d := &Dashboard{
		source:   source,
		logger:   logrus.StandardLogger(),
		format:   format,
		settings: cfg.Dashboard,
		scale:    cfg.ColorScale,
		summary:  domain.Summarize(nil),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Load reads the dataset and replaces the summary. Concurrent calls share
// one read, which runs detached from the cancellation of whichever caller
// started it. When the rows are identical to the current dataset the
// summary is kept and LoadStats.Changed is false.
func (d *Dashboard) Load(ctx context.Context) (ports.LoadStats, error) {
	shared := context.WithoutCancel(ctx)
	v, err, _ := d.sf.Do("load", func() (any, error) {
		return d.load(shared)
	})
	stats, _ := v.(ports.LoadStats)
	return stats, err
}

func (d *Dashboard) load(ctx context.Context) (ports.LoadStats, error) {
	start := time.Now()
	stats := ports.LoadStats{Source: d.source.Name()}
	if d.observer != nil {
		ctx = d.observer.PreLoad(ctx, stats.Source)
	}

	records, err := d.source.Load(ctx)
	if err != nil {
		stats.Duration = time.Since(start)
		d.finishLoad(ctx, stats, err)
		return stats, fmt.Errorf("load dataset: %w", err)
	}

	fp, err := fingerprint(records)
	if err != nil {
		stats.Duration = time.Since(start)
		d.finishLoad(ctx, stats, err)
		return stats, fmt.Errorf("fingerprint dataset: %w", err)
	}

	d.mu.RLock()
	unchanged := fp == d.fingerprint
	summary := d.summary
	d.mu.RUnlock()

	if !unchanged {
		summary = domain.Summarize(records)
		d.mu.Lock()
		d.records = records
		d.summary = summary
		d.fingerprint = fp
		d.loadedAt = time.Now()
		d.mu.Unlock()
	}

	stats.Records = summary.Records
	stats.Countries = len(summary.Tallies)
	stats.Medals = summary.Medals
	stats.Duration = time.Since(start)
	stats.Changed = !unchanged
	d.finishLoad(ctx, stats, nil)
	return stats, nil
}

func (d *Dashboard) finishLoad(ctx context.Context, stats ports.LoadStats, err error) {
	if d.observer != nil {
		d.observer.PostLoad(ctx, stats, err)
	}

	entry := d.logger.WithFields(logrus.Fields{
		"source":    stats.Source,
		"records":   stats.Records,
		"countries": stats.Countries,
		"duration":  stats.Duration,
	})
	switch {
	case err != nil:
		entry.WithError(err).Error("dataset load failed")
	case !stats.Changed:
		entry.Info("dataset unchanged")
	default:
		entry.WithField("medals", stats.Medals).Info("dataset loaded")
	}
}

// fingerprint hashes the rows so an unchanged dataset can be detected on
// reload.
func fingerprint(records []domain.MedalRecord) (string, error) {
	h := sha256.New()
	if err := json.NewEncoder(h).Encode(records); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (d *Dashboard) snapshot() ([]domain.MedalRecord, domain.Summary) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.records, d.summary
}

// Loaded reports whether a dataset has been loaded.
func (d *Dashboard) Loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.fingerprint != ""
}

// Summary returns the current summary. It must not be modified.
func (d *Dashboard) Summary() domain.Summary {
	_, s := d.snapshot()
	return s
}

// Records returns a copy of the loaded rows.
func (d *Dashboard) Records() []domain.MedalRecord {
	records, _ := d.snapshot()
	return slices.Clone(records)
}

// Settings returns the view sizes the dashboard was configured with.
func (d *Dashboard) Settings() DashboardConfig { return d.settings }

// Formatter returns the number formatter of the configured locale.
func (d *Dashboard) Formatter() *charts.NumberFormatter { return d.format }

// ResolveCountry maps a user supplied name onto a dataset country: an exact
// match first, then a case-insensitive one, then the configured resolver.
// A name that cannot be resolved is returned trimmed and unchanged, so it
// answers with a zero tally.
func (d *Dashboard) ResolveCountry(name string) string {
	name = strings.TrimSpace(name)
	_, summary := d.snapshot()
	return resolveCountry(summary.Tallies, d.resolver, name)
}

func resolveCountry(tallies domain.Tallies, resolver ports.CountryResolver, name string) string {
	if name == "" || tallies.Has(name) {
		return name
	}
	countries := tallies.Countries()
	for _, c := range countries {
		if strings.EqualFold(c, name) {
			return c
		}
	}
	if resolver != nil {
		if c, ok := resolver.Resolve(name, countries); ok {
			return c
		}
	}
	return name
}

// Overview is the globe view: every country ranked, plus the color scale.
type Overview struct {
	Standings   []domain.Standing  `json:"standings"`
	MaxWeight   int                `json:"max_weight"`
	ColorDomain domain.ColorDomain `json:"color_domain"`
	ColorLow    string             `json:"color_low"`
	ColorHigh   string             `json:"color_high"`
	Records     int                `json:"records"`
	Medals      int                `json:"medals"`
	Countries   int                `json:"countries"`
	LoadedAt    time.Time          `json:"loaded_at"`
}

// Overview returns the ranked table and color scale of the whole dataset.
func (d *Dashboard) Overview() Overview {
	d.mu.RLock()
	summary, loadedAt := d.summary, d.loadedAt
	d.mu.RUnlock()
	return d.overview(summary, loadedAt)
}

func (d *Dashboard) overview(summary domain.Summary, loadedAt time.Time) Overview {
	return Overview{
		Standings:   summary.Standings,
		MaxWeight:   summary.MaxWeight,
		ColorDomain: summary.ColorDomain(d.scale.Floor),
		ColorLow:    d.scale.Low,
		ColorHigh:   d.scale.High,
		Records:     summary.Records,
		Medals:      summary.Medals,
		Countries:   len(summary.Tallies),
		LoadedAt:    loadedAt,
	}
}

// CountryDetail is the drill-down header of one country.
type CountryDetail struct {
	Country string              `json:"country"`
	Tally   domain.CountryTally `json:"tally"`
	Total   int                 `json:"total"`
	Weight  int                 `json:"weight"`
	// Rank is 0 when the country is absent from the dataset.
	Rank       int          `json:"rank"`
	InDataset  bool         `json:"in_dataset"`
	HasMedals  bool         `json:"has_medals"`
	Dominant   domain.Medal `json:"dominant"`
	ColorValue float64      `json:"color_value"`
	Label      string       `json:"label"`
	TallyLabel string       `json:"tally_label"`
}

// Country returns the detail of the resolved country. Unknown countries
// get a zero tally and no rank.
func (d *Dashboard) Country(name string) CountryDetail {
	_, summary := d.snapshot()
	return d.countryDetail(summary, resolveCountry(summary.Tallies, d.resolver, strings.TrimSpace(name)))
}

func (d *Dashboard) countryDetail(summary domain.Summary, country string) CountryDetail {
	tally := summary.Tallies.Lookup(country)
	rank, ranked := summary.Ranks.Lookup(country)
	return CountryDetail{
		Country:    country,
		Tally:      tally,
		Total:      tally.Total(),
		Weight:     tally.Weight(),
		Rank:       rank,
		InDataset:  ranked,
		HasMedals:  !tally.IsZero(),
		Dominant:   tally.DominantMedal(),
		ColorValue: summary.ColorValue(country, d.scale.Floor),
		Label:      d.format.Label(country, tally),
		TallyLabel: d.format.Tally(tally),
	}
}

// Athletes returns the top athletes of the resolved country.
func (d *Dashboard) Athletes(name string) []domain.AthleteCount {
	records, summary := d.snapshot()
	country := resolveCountry(summary.Tallies, d.resolver, strings.TrimSpace(name))
	return domain.MedalsByAthleteN(records, country, d.settings.TopAthletes)
}

// Years returns the medals per year of the resolved country.
func (d *Dashboard) Years(name string) []domain.YearCount {
	records, summary := d.snapshot()
	return domain.MedalsByYear(records, resolveCountry(summary.Tallies, d.resolver, strings.TrimSpace(name)))
}

// Compare returns one year series per resolved country: the first is the
// selected country, the rest fill the comparison pickers.
func (d *Dashboard) Compare(names []string) ([]domain.CountrySeries, error) {
	if limit := 1 + d.settings.MaxComparisons; len(names) > limit {
		return nil, fmt.Errorf("%w: got %d, at most %d", domain.ErrTooManyCountries, len(names), limit)
	}
	records, summary := d.snapshot()
	resolved := make([]string, 0, len(names))
	for _, n := range names {
		resolved = append(resolved, resolveCountry(summary.Tallies, d.resolver, strings.TrimSpace(n)))
	}
	return domain.CompareByYear(records, resolved), nil
}

// Top returns the top n countries by criterion; n <= 0 uses the
// configured length.
func (d *Dashboard) Top(criterion domain.Criterion, n int) []domain.CountryValue {
	if n <= 0 {
		n = d.settings.TopCountries
	}
	_, summary := d.snapshot()
	return domain.TopCountries(summary.Tallies, criterion, n)
}

// Gender returns the male/female row counts.
func (d *Dashboard) Gender() domain.GenderCount {
	records, _ := d.snapshot()
	return domain.GenderDistribution(records)
}

// Countries returns the sorted country names, without exclude once resolved.
func (d *Dashboard) Countries(exclude string) []string {
	_, summary := d.snapshot()
	if exclude != "" {
		exclude = resolveCountry(summary.Tallies, d.resolver, strings.TrimSpace(exclude))
	}
	return domain.Countries(summary.Tallies, exclude)
}

// ViewCharts holds the chart payloads of a View. Absent charts are nil.
type ViewCharts struct {
	Medals   *charts.ChartConfig `json:"medals,omitempty"`
	Athletes *charts.ChartConfig `json:"athletes,omitempty"`
	Years    *charts.ChartConfig `json:"years,omitempty"`
	Top      *charts.ChartConfig `json:"top"`
	Gender   *charts.ChartConfig `json:"gender"`
}

// View is everything the dashboard renders for one ViewState.
type View struct {
	Overview          Overview               `json:"overview"`
	Selected          *CountryDetail         `json:"selected,omitempty"`
	Athletes          []domain.AthleteCount  `json:"athletes,omitempty"`
	Lines             []domain.CountrySeries `json:"lines,omitempty"`
	ComparisonOptions []string               `json:"comparison_options,omitempty"`
	Criterion         domain.Criterion       `json:"criterion"`
	Top               []domain.CountryValue  `json:"top"`
	Gender            domain.GenderCount     `json:"gender"`
	DarkMode          bool                   `json:"dark_mode"`
	Charts            ViewCharts             `json:"charts"`
}

// View derives the complete dashboard for state from one snapshot of the
// summary. The drill-down parts are filled only when a country is selected;
// the year chart and comparison options only when that country has medals.
func (d *Dashboard) View(state domain.ViewState) View {
	d.mu.RLock()
	records, summary, loadedAt := d.records, d.summary, d.loadedAt
	d.mu.RUnlock()

	criterion := state.Criterion()
	top := domain.TopCountries(summary.Tallies, criterion, d.settings.TopCountries)
	gender := domain.GenderDistribution(records)

	v := View{
		Overview:  d.overview(summary, loadedAt),
		Criterion: criterion,
		Top:       top,
		Gender:    gender,
		DarkMode:  state.DarkMode(),
		Charts: ViewCharts{
			Top:    charts.TopCountries(criterion, top),
			Gender: charts.Gender(gender),
		},
	}

	selected := state.SelectedCountry()
	if selected == "" {
		return v
	}

	country := resolveCountry(summary.Tallies, d.resolver, selected)
	detail := d.countryDetail(summary, country)
	v.Selected = &detail
	v.Charts.Medals = charts.CountryMedals(country, detail.Tally)
	if !detail.HasMedals {
		return v
	}

	v.Athletes = domain.MedalsByAthleteN(records, country, d.settings.TopAthletes)
	v.Charts.Athletes = charts.Athletes(country, v.Athletes)

	lines := state.LineCountries()
	if len(lines) > 1+d.settings.MaxComparisons {
		lines = lines[:1+d.settings.MaxComparisons]
	}
	for i, c := range lines {
		lines[i] = resolveCountry(summary.Tallies, d.resolver, c)
	}
	v.Lines = domain.CompareByYear(records, lines)
	v.Charts.Years = charts.Years(v.Lines)
	if d.settings.MaxComparisons > 0 {
		v.ComparisonOptions = domain.Countries(summary.Tallies, country)
	}
	return v
}
