// Package csvfile reads catalog rows from a CSV export with a header row.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"showfinder/internal/catalog"
	"showfinder/internal/domain"
)

// Source loads a catalog from a CSV file such as netflix_titles.csv.
type Source struct {
	path string
}

// NewSource creates a CSV catalog source for the given path.
func NewSource(path string) *Source { return &Source{path: path} }

// Load reads every row of the file.
func (s *Source) Load(ctx context.Context) ([]domain.Row, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	defer f.Close()
	return Read(ctx, f)
}

// Read parses CSV data. Empty cells and missing columns are treated as absent values.
func Read(ctx context.Context, r io.Reader) ([]domain.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")))
	}
	var rows []domain.Row
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		rows = append(rows, toRow(header, rec))
	}
	return rows, nil
}

func toRow(header, rec []string) domain.Row {
	vals := make([]*string, len(header))
	for i := range header {
		if i < len(rec) && rec[i] != "" {
			v := rec[i]
			vals[i] = &v
		}
	}
	return catalog.FromColumns(header, vals)
}
