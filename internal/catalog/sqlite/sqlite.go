// Package sqlite reads catalog rows from a SQLite table.
// Uses ncruces/go-sqlite3/driver which provides a database/sql interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"showfinder/internal/catalog"
	"showfinder/internal/domain"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Source loads every row of one table, in rowid order.
type Source struct {
	db    *sql.DB
	table string
}

// Open opens the database at dsn. Use ":memory:" for an in-memory database.
func Open(dsn, table string) (*Source, error) {
	if table == "" {
		table = "titles"
	}
	if !identRe.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", domain.ErrCatalogUnavailable, err)
	}
	return &Source{db: db, table: table}, nil
}

// Close closes the database connection.
func (s *Source) Close() error { return s.db.Close() }

// Load reads all rows. NULL values are reported as absent.
func (s *Source) Load(ctx context.Context) ([]domain.Row, error) {
	q := fmt.Sprintf(`SELECT * FROM "%s" ORDER BY rowid`, s.table)
	rs, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %v", domain.ErrCatalogUnavailable, s.table, err)
	}
	defer rs.Close()

	cols, err := rs.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	var rows []domain.Row
	for rs.Next() {
		raw := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := rs.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		vals := make([]*string, len(cols))
		for i, v := range raw {
			if v.Valid {
				s := v.String
				vals[i] = &s
			}
		}
		rows = append(rows, catalog.FromColumns(cols, vals))
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return rows, nil
}
