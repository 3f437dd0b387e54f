package testutils

import (
	"context"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ahrav/go-medals/internal/domain"
	"github.com/ahrav/go-medals/internal/ports"
)

var (
	_ ports.RecordSource     = (*MockRecordSource)(nil)
	_ ports.MetricsCollector = (*MockMetricsCollector)(nil)
	_ ports.PreferenceStore  = (*MockPreferenceStore)(nil)
	_ ports.LoadObserver     = (*MockLoadObserver)(nil)
)

// MockRecordSource serves a fixed set of records. SetRecords and SetError
// change what the next Load returns.
type MockRecordSource struct {
	mu      sync.Mutex
	records []domain.MedalRecord
	err     error
	delay   time.Duration
	calls   atomic.Int64
}

// NewMockRecordSource creates a source serving records.
func NewMockRecordSource(records []domain.MedalRecord) *MockRecordSource {
	return &MockRecordSource{records: records}
}

// Name returns "mock".
func (m *MockRecordSource) Name() string { return "mock" }

// Load returns a copy of the configured records or the configured error.
func (m *MockRecordSource) Load(ctx context.Context) ([]domain.MedalRecord, error) {
	m.calls.Add(1)

	m.mu.Lock()
	records, err, delay := m.records, m.err, m.delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return append([]domain.MedalRecord(nil), records...), nil
}

// SetRecords replaces the records served by the next Load.
func (m *MockRecordSource) SetRecords(records []domain.MedalRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = records
}

// SetError makes the next Load fail with err; nil clears it.
func (m *MockRecordSource) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetDelay makes Load block for d before returning.
func (m *MockRecordSource) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// Calls returns the number of Load calls.
func (m *MockRecordSource) Calls() int { return int(m.calls.Load()) }

// MockMetricsCollector records every metric in memory. It is safe for
// concurrent use.
type MockMetricsCollector struct {
	mu         sync.Mutex
	latencies  map[string][]time.Duration
	counters   map[string]float64
	gauges     map[string]float64
	histograms map[string][]float64
	labels     map[string]map[string]string
}

// NewMockMetricsCollector creates an empty collector.
func NewMockMetricsCollector() *MockMetricsCollector {
	return &MockMetricsCollector{
		latencies:  make(map[string][]time.Duration),
		counters:   make(map[string]float64),
		gauges:     make(map[string]float64),
		histograms: make(map[string][]float64),
		labels:     make(map[string]map[string]string),
	}
}

func (m *MockMetricsCollector) RecordLatency(operation string, duration time.Duration, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latencies[operation] = append(m.latencies[operation], duration)
	m.labels[operation] = maps.Clone(labels)
}

func (m *MockMetricsCollector) RecordCounter(metric string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[metric] += value
	m.labels[metric] = maps.Clone(labels)
}

func (m *MockMetricsCollector) RecordGauge(metric string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[metric] = value
	m.labels[metric] = maps.Clone(labels)
}

func (m *MockMetricsCollector) RecordHistogram(metric string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.histograms[metric] = append(m.histograms[metric], value)
	m.labels[metric] = maps.Clone(labels)
}

// Counter returns the accumulated value of a counter.
func (m *MockMetricsCollector) Counter(metric string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[metric]
}

// Gauge returns the last value of a gauge.
func (m *MockMetricsCollector) Gauge(metric string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gauges[metric]
}

// Latencies returns the durations recorded for an operation.
func (m *MockMetricsCollector) Latencies(operation string) []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.latencies[operation]...)
}

// Labels returns the labels of the last recording of a metric.
func (m *MockMetricsCollector) Labels(metric string) map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.labels[metric])
}

// MockPreferenceStore keeps preferences in memory.
type MockPreferenceStore struct {
	mu     sync.Mutex
	dark   bool
	err    error
	closed bool
}

// DarkMode returns the stored flag.
func (m *MockPreferenceStore) DarkMode(context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	return m.dark, nil
}

// SetDarkMode stores the flag.
func (m *MockPreferenceStore) SetDarkMode(_ context.Context, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.dark = enabled
	return nil
}

// SetError makes every later call fail with err.
func (m *MockPreferenceStore) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Close marks the store closed.
func (m *MockPreferenceStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockPreferenceStore) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// MockLoadObserver records the stats and errors it is notified with.
type MockLoadObserver struct {
	mu      sync.Mutex
	sources []string
	stats   []ports.LoadStats
	errs    []error
}

// PreLoad records the source.
func (m *MockLoadObserver) PreLoad(ctx context.Context, source string) context.Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources = append(m.sources, source)
	return ctx
}

// PostLoad records the outcome.
func (m *MockLoadObserver) PostLoad(_ context.Context, stats ports.LoadStats, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = append(m.stats, stats)
	m.errs = append(m.errs, err)
}

// Stats returns the stats of every finished load.
func (m *MockLoadObserver) Stats() []ports.LoadStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.LoadStats(nil), m.stats...)
}

// Errors returns the error of every finished load, nil for successes.
func (m *MockLoadObserver) Errors() []error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]error(nil), m.errs...)
}

// Sources returns the sources of every started load.
func (m *MockLoadObserver) Sources() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sources...)
}
