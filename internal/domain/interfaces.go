package domain

import (
	"context"
	"math"
	"time"
)

// Field is a named source column kept alongside the fixed catalog fields.
type Field struct {
	Name  string
	Value string
}

// Row is a raw catalog record as a source yields it. Nil means the value was absent or null.
type Row struct {
	Title       *string
	Type        *string
	Director    *string
	Cast        *string
	Description *string
	Extra       []Field
}

// CatalogEntry is a normalized title. CombinedText is the searchable document.
type CatalogEntry struct {
	Title        string
	Type         string
	Director     string
	Cast         string
	Description  string
	CombinedText string
	Extra        []Field
}

// FieldValues returns every value of the entry in a fixed order, combined text last.
func (e CatalogEntry) FieldValues() []string {
	vals := make([]string, 0, 6+len(e.Extra))
	vals = append(vals, e.Title, e.Type, e.Director, e.Cast, e.Description)
	for _, f := range e.Extra {
		vals = append(vals, f.Value)
	}
	return append(vals, e.CombinedText)
}

// Catalog is the ordered set of entries; the slice index is the document id.
type Catalog []CatalogEntry

// Query is one user interaction after analysis.
type Query struct {
	Raw      string
	Entities []string
	Tokens   []string
}

// ScoredEntry pairs a catalog entry with its cosine similarity to a query.
type ScoredEntry struct {
	Index int
	Entry *CatalogEntry
	Score float64
}

// Percent returns the score as a percentage rounded to two decimals.
func (s ScoredEntry) Percent() float64 {
	return math.Round(s.Score*10000) / 100
}

// Recommendation is what the presentation layer renders.
// Score is the similarity percentage rounded to two decimals.
type Recommendation struct {
	Title string  `json:"title"`
	Type  string  `json:"type"`
	Score float64 `json:"score"`
}

// Result is the answer to one submitted query.
type Result struct {
	Query           string           `json:"query"`
	Entities        []string         `json:"entities"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Token is a single analyzed token from the linguistic toolkit.
type Token struct {
	Text  string
	Lemma string
	Tag   string
}

// Entity is a named-entity span with its label (PERSON, GPE, ...).
type Entity struct {
	Text  string
	Label string
}

// CatalogSource loads raw catalog rows.
type CatalogSource interface {
	Load(ctx context.Context) ([]Row, error)
}

// Toolkit is the linguistic toolkit the pipeline depends on.
type Toolkit interface {
	Analyze(text string) ([]Token, error)
	Entities(text string) ([]Entity, error)
}

// Cache stores finished results keyed by query.
type Cache interface {
	Get(ctx context.Context, key string) (Result, bool, error)
	Set(ctx context.Context, key string, res Result, ttl time.Duration) error
}
