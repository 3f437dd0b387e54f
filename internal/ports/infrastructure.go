package ports

import (
	"context"
	"time"
)

// PreferenceStore persists user preferences across restarts.
type PreferenceStore interface {
	// DarkMode returns the stored color scheme preference. A store that has
	// never been written returns false.
	DarkMode(ctx context.Context) (bool, error)

	// SetDarkMode stores the color scheme preference.
	SetDarkMode(ctx context.Context, enabled bool) error

	// Close releases the underlying connection.
	Close() error
}

// CountryResolver maps a user supplied country name onto one of the
// dataset's country names. It returns false when no candidate is close
// enough.
type CountryResolver interface {
	Resolve(name string, candidates []string) (string, bool)
}

// MetricsCollector defines the interface for collecting operational metrics.
// Implementations should integrate with observability platforms like
// Prometheus or OpenTelemetry.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	// The labels map provides additional context for the metric.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric, such as loads or errors.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric, such as the
	// number of countries in the loaded dataset.
	RecordGauge(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram.
	RecordHistogram(metric string, value float64, labels map[string]string)
}

// LoadStats describes one dataset load.
type LoadStats struct {
	// Source is the name of the RecordSource.
	Source string
	// Records is the number of rows read.
	Records int
	// Countries is the number of distinct countries tallied.
	Countries int
	// Medals is the number of rows that carried a medal.
	Medals int
	// Duration is the wall time of the load.
	Duration time.Duration
	// Changed is false when the rows were identical to the previous load and
	// the summary was kept.
	Changed bool
}

// LoadObserver is notified around every dataset load, e.g. to open a trace
// span and record metrics.
type LoadObserver interface {
	// PreLoad is called before the source is read. The returned context is
	// used for the load and passed to PostLoad.
	PreLoad(ctx context.Context, source string) context.Context

	// PostLoad is called once the load has finished, with err set when it
	// failed.
	PostLoad(ctx context.Context, stats LoadStats, err error)
}
