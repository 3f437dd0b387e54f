// Package ports defines the interfaces between the medal dashboard's
// application layer and the infrastructure that feeds and persists it.
package ports

import (
	"context"

	"github.com/ahrav/go-medals/internal/domain"
)

// RecordSource supplies the medal dataset.
// Implementations read from files, embedded fixtures or remote storage and
// must be safe for concurrent use.
type RecordSource interface {
	// Name returns a short identifier used in logs, metrics and errors.
	Name() string

	// Load reads the complete dataset. Every call returns a fresh slice that
	// the caller owns. Load should respect context cancellation.
	//
	// Example:
	//
	//	records, err := source.Load(ctx)
	//	if err != nil {
	//	    return fmt.Errorf("source %s: %w", source.Name(), err)
	//	}
	Load(ctx context.Context) ([]domain.MedalRecord, error)
}

// SourceFactory builds a RecordSource from a list of paths and
// format-specific options.
type SourceFactory func(paths []string, options map[string]any) (RecordSource, error)
