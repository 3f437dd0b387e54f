package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ahrav/go-medals/internal/domain"
	"github.com/ahrav/go-medals/internal/ports"
)

// FormatCSV is the registry key of the CSV source.
const FormatCSV = "csv"

// Compile-time check that CSVSource implements ports.RecordSource.
var _ ports.RecordSource = (*CSVSource)(nil)

// Column names recognised in the header, lower-cased. Team is accepted as
// an alias of Country.
var csvColumns = map[string]string{
	"name":    "name",
	"athlete": "name",
	"sex":     "sex",
	"year":    "year",
	"medal":   "medal",
	"country": "country",
	"team":    "country",
}

// CSVSource reads datasets stored as CSV with a header row.
type CSVSource struct {
	fileSource
	comma rune
}

// NewCSVSource creates a comma-separated source over the given files.
func NewCSVSource(paths ...string) *CSVSource {
	return NewCSVSourceWithComma(',', paths...)
}

// NewCSVSourceWithComma creates a source with a custom field delimiter.
func NewCSVSourceWithComma(comma rune, paths ...string) *CSVSource {
	s := &CSVSource{comma: comma}
	s.fileSource = fileSource{
		name:  FormatCSV,
		paths: paths,
		parse: func(r io.Reader) ([]domain.MedalRecord, error) { return ParseCSV(r, s.comma) },
	}
	return s
}

// CreateCSVSource is the registry factory for CSV datasets.
// Supported options: "delimiter" (single character string).
func CreateCSVSource(paths []string, options map[string]any) (ports.RecordSource, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("csv source: at least one path is required")
	}

	comma := ','
	if v, ok := options["delimiter"]; ok {
		s, ok := v.(string)
		if !ok || utf8.RuneCountInString(s) != 1 {
			return nil, fmt.Errorf("csv source: delimiter must be a single character")
		}
		comma, _ = utf8.DecodeRuneInString(s)
		if comma == '"' || comma == '\n' || comma == '\r' {
			return nil, fmt.Errorf("csv source: invalid delimiter %q", s)
		}
	}
	return NewCSVSourceWithComma(comma, paths...), nil
}

// ParseCSV reads a CSV document whose header names the columns. Columns are
// matched case-insensitively; unknown columns are ignored. Columns missing
// from a short row decode to zero values; unparsable rows are skipped. A header without a Country column fails.
func ParseCSV(r io.Reader, comma rune) ([]domain.MedalRecord, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []domain.MedalRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if col, ok := csvColumns[key]; ok {
			if _, dup := index[col]; !dup {
				index[col] = i
			}
		}
	}
	if _, ok := index["country"]; !ok {
		return nil, fmt.Errorf("CSV header has no Country column")
	}

	field := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := []domain.MedalRecord{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		records = append(records, domain.MedalRecord{
			Country: field(row, "country"),
			Medal:   domain.ParseMedal(field(row, "medal")),
			Athlete: field(row, "name"),
			Year:    domain.ParseYear(field(row, "year")),
			Sex:     domain.ParseSex(field(row, "sex")),
		})
	}
	return records, nil
}
