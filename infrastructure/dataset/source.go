// Package dataset provides file-backed implementations of
// ports.RecordSource for the JSON and CSV medal datasets.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-medals/internal/domain"
	"github.com/ahrav/go-medals/internal/ports"
)

// maxConcurrentReads bounds the number of dataset files read at once.
const maxConcurrentReads = 4

// parseFunc decodes one dataset file.
type parseFunc func(r io.Reader) ([]domain.MedalRecord, error)

// fileSource reads a list of files with a format-specific parser and
// concatenates their rows in path order.
type fileSource struct {
	name  string
	paths []string
	parse parseFunc
}

// Name returns the source format.
func (s *fileSource) Name() string { return s.name }

// Paths returns a copy of the files read by the source.
func (s *fileSource) Paths() []string { return append([]string(nil), s.paths...) }

// Load reads every file concurrently. The first failure cancels the
// remaining reads.
func (s *fileSource) Load(ctx context.Context) ([]domain.MedalRecord, error) {
	if len(s.paths) == 0 {
		return nil, ports.NewDatasetError(s.name, "", fmt.Errorf("%w: no paths configured", ports.ErrDatasetUnavailable))
	}

	parts := make([][]domain.MedalRecord, len(s.paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)

	for i, path := range s.paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			records, err := s.readFile(path)
			if err != nil {
				return err
			}
			parts[i] = records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	records := make([]domain.MedalRecord, 0, total)
	for _, p := range parts {
		records = append(records, p...)
	}
	return records, nil
}

func (s *fileSource) readFile(path string) ([]domain.MedalRecord, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, ports.NewDatasetError(s.name, path, fmt.Errorf("%w: %w", ports.ErrDatasetUnavailable, err))
		}
		return nil, ports.NewDatasetError(s.name, path, err)
	}
	defer f.Close()

	records, err := s.parse(f)
	if err != nil {
		return nil, ports.NewDatasetError(s.name, path, fmt.Errorf("%w: %w", ports.ErrMalformedDataset, err))
	}
	return records, nil
}

// stringSlice reads a []string or []any option.
func stringSlice(v any) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return t, true
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
