package application

import (
	"time"
)

// Config is the complete dashboard configuration and the entry point of
// the YAML file. Fields omitted from the file keep the DefaultConfig values.
type Config struct {
	// Version specifies the configuration schema version using semantic
	// versioning.
	Version string `yaml:"version" validate:"required,semver"`
	// Dataset locates the medal rows.
	Dataset DatasetConfig `yaml:"dataset"`
	// Server configures the HTTP API.
	Server ServerConfig `yaml:"server"`
	// Store configures the preference database.
	Store StoreConfig `yaml:"store"`
	// Dashboard sizes the derived views.
	Dashboard DashboardConfig `yaml:"dashboard"`
	// ColorScale configures the log color scale of the globe.
	ColorScale ColorScaleConfig `yaml:"color_scale"`
	// Locale is the BCP 47 tag used to format counts.
	Locale string `yaml:"locale" validate:"required,locale"`
}

// DatasetConfig locates the medal dataset.
type DatasetConfig struct {
	// Paths lists the dataset files. Rows of every file are concatenated in
	// the given order.
	Paths []string `yaml:"paths" validate:"required,min=1,max=16,dive,required"`
	// Format selects the registered source that reads the files.
	Format string `yaml:"format" validate:"required,oneof=json csv"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr               string          `yaml:"addr" validate:"required,listenaddr"`
	ReadTimeoutSeconds int             `yaml:"read_timeout_seconds" validate:"min=1,max=300"`
	RateLimit          RateLimitConfig `yaml:"rate_limit"`
}

// ReadTimeout returns ReadTimeoutSeconds as a duration.
func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSeconds) * time.Second
}

// RateLimitConfig configures the token bucket in front of the API.
// A zero RequestsPerSecond disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" validate:"gte=0,lte=10000"`
	Burst             int     `yaml:"burst" validate:"min=0,max=100000"`
}

// StoreConfig configures the sqlite preference store.
type StoreConfig struct {
	// Path is the database file; ":memory:" keeps preferences in process.
	Path string `yaml:"path" validate:"required"`
}

// DashboardConfig sizes the lists and pickers of the dashboard.
type DashboardConfig struct {
	// TopCountries is the length of the top countries chart.
	TopCountries int `yaml:"top_countries" validate:"min=1,max=50"`
	// TopAthletes is the length of a country's athlete breakdown.
	TopAthletes int `yaml:"top_athletes" validate:"min=1,max=50"`
	// MaxComparisons is the number of comparison pickers next to the
	// selected country in the year chart.
	MaxComparisons int `yaml:"max_comparisons" validate:"min=0,max=5"`
	// FuzzyThreshold is the minimum similarity for resolving a misspelled
	// country name; 0 disables fuzzy resolution.
	FuzzyThreshold float64 `yaml:"fuzzy_threshold" validate:"gte=0,lte=1"`
}

// ColorScaleConfig configures the log color scale.
type ColorScaleConfig struct {
	// Floor is the value assigned to countries without medals. A log scale
	// cannot include zero.
	Floor float64 `yaml:"floor" validate:"gt=0"`
	Low   string  `yaml:"low" validate:"required,hexcolor"`
	High  string  `yaml:"high" validate:"required,hexcolor"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Version: "1.0.0",
		Dataset: DatasetConfig{
			Paths:  []string{"Data/data.json"},
			Format: "json",
		},
		Server: ServerConfig{
			Addr:               ":8000",
			ReadTimeoutSeconds: 10,
			RateLimit:          RateLimitConfig{RequestsPerSecond: 20, Burst: 40},
		},
		Store: StoreConfig{Path: "medals.db"},
		Dashboard: DashboardConfig{
			TopCountries:   10,
			TopAthletes:    10,
			MaxComparisons: 2,
			FuzzyThreshold: 0.8,
		},
		ColorScale: ColorScaleConfig{
			Floor: 0.01,
			Low:   "#f7f7f7",
			High:  "#ffd700",
		},
		Locale: "de-CH",
	}
}
