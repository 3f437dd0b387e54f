package dataset

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ahrav/go-medals/internal/domain"
	"github.com/ahrav/go-medals/internal/ports"
)

// FormatJSON is the registry key of the JSON source.
const FormatJSON = "json"

// Compile-time check that JSONSource implements ports.RecordSource.
var _ ports.RecordSource = (*JSONSource)(nil)

// JSONSource reads datasets stored as a JSON array of row objects:
//
//	[{"Name": "...", "Sex": "F", "Year": 1996, "Medal": "Gold", "Country": "..."}]
type JSONSource struct{ fileSource }

// NewJSONSource creates a source over the given files.
func NewJSONSource(paths ...string) *JSONSource {
	return &JSONSource{fileSource{name: FormatJSON, paths: paths, parse: ParseJSON}}
}

// CreateJSONSource is the registry factory for JSON datasets. It accepts no
// options beyond the paths.
func CreateJSONSource(paths []string, options map[string]any) (ports.RecordSource, error) {
	if extra, ok := options["paths"]; ok {
		more, ok := stringSlice(extra)
		if !ok {
			return nil, fmt.Errorf("json source: paths option must be a list of strings")
		}
		paths = append(append([]string(nil), paths...), more...)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("json source: at least one path is required")
	}
	return NewJSONSource(paths...), nil
}

// ParseJSON decodes a JSON array of rows. Individual fields are decoded
// leniently by domain.MedalRecord; only a document that is not an array of
// objects fails.
func ParseJSON(r io.Reader) ([]domain.MedalRecord, error) {
	var records []domain.MedalRecord
	dec := json.NewDecoder(r)
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode JSON array: %w", err)
	}
	if records == nil {
		records = []domain.MedalRecord{}
	}
	return records, nil
}
