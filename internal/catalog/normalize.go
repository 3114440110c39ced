// Package catalog turns raw source rows into searchable catalog entries.
package catalog

import (
	"strings"

	"showfinder/internal/domain"
)

// Normalize fills absent fields with empty strings and builds the combined text
// from title, director, cast and description, in that order.
func Normalize(row domain.Row) domain.CatalogEntry {
	e := domain.CatalogEntry{
		Title:       deref(row.Title),
		Type:        deref(row.Type),
		Director:    deref(row.Director),
		Cast:        deref(row.Cast),
		Description: deref(row.Description),
	}
	if len(row.Extra) > 0 {
		e.Extra = append([]domain.Field(nil), row.Extra...)
	}
	e.CombinedText = strings.Join([]string{e.Title, e.Director, e.Cast, e.Description}, " ")
	return e
}

// NormalizeAll normalizes rows preserving their order.
func NormalizeAll(rows []domain.Row) domain.Catalog {
	out := make(domain.Catalog, len(rows))
	for i, r := range rows {
		out[i] = Normalize(r)
	}
	return out
}

// Texts returns the combined text of every entry, indexed like the catalog.
func Texts(c domain.Catalog) []string {
	texts := make([]string, len(c))
	for i := range c {
		texts[i] = c[i].CombinedText
	}
	return texts
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
