package application

import (
	"fmt"
	"slices"
	"sync"

	"github.com/ahrav/go-medals/infrastructure/dataset"
	"github.com/ahrav/go-medals/internal/ports"
)

// SourceRegistry creates record sources by dataset format. It comes with
// the json and csv formats registered and accepts custom formats at runtime.
// It is safe for concurrent use.
type SourceRegistry struct {
	// factories maps format names to their factory functions.
	factories map[string]ports.SourceFactory
	mu        sync.RWMutex
}

// NewSourceRegistry creates a registry with the built-in formats.
func NewSourceRegistry() *SourceRegistry {
	r := &SourceRegistry{factories: make(map[string]ports.SourceFactory)}
	r.factories[dataset.FormatJSON] = dataset.CreateJSONSource
	r.factories[dataset.FormatCSV] = dataset.CreateCSVSource
	return r
}

// CreateSource builds the source registered for format.
func (r *SourceRegistry) CreateSource(format string, paths []string, options map[string]any) (ports.RecordSource, error) {
	r.mu.RLock()
	factory, exists := r.factories[format]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ports.ErrUnsupportedFormat, format)
	}
	if options == nil {
		options = make(map[string]any)
	}

	source, err := factory(paths, options)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s source: %w", format, err)
	}
	return source, nil
}

// CreateFromConfig builds the source described by cfg.
func (r *SourceRegistry) CreateFromConfig(cfg DatasetConfig) (ports.RecordSource, error) {
	return r.CreateSource(cfg.Format, cfg.Paths, nil)
}

// RegisterSourceFactory registers a factory for a custom format, replacing
// any existing one.
func (r *SourceRegistry) RegisterSourceFactory(format string, factory ports.SourceFactory) error {
	if format == "" {
		return fmt.Errorf("format cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory function cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[format] = factory
	return nil
}

// SupportedFormats returns the registered formats, sorted.
func (r *SourceRegistry) SupportedFormats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]string, 0, len(r.factories))
	for format := range r.factories {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}
