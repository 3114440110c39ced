package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"showfinder/internal/domain"
)

func scored(score float64, e domain.CatalogEntry) domain.ScoredEntry {
	return domain.ScoredEntry{Entry: &e, Score: score}
}

func TestSelect(t *testing.T) {
	ranked := []domain.ScoredEntry{
		scored(0.9, domain.CatalogEntry{Title: "Bird Box", Type: "Movie", Cast: "Sandra Bullock"}),
		scored(0.51234, domain.CatalogEntry{Title: "Old Guard", Type: "Movie", Cast: "Charlize Theron"}),
		scored(0.1, domain.CatalogEntry{Title: "Monster", Type: "Movie", Description: "CHARLIZE THERON stars"}),
		scored(0, domain.CatalogEntry{Title: "Tully", Type: "Movie", Extra: []domain.Field{{Name: "country", Value: "Charlize Theron Land"}}}),
	}

	tests := []struct {
		name     string
		entities []string
		limit    int
		want     []domain.Recommendation
	}{
		{name: "no entities", entities: nil, want: []domain.Recommendation{}},
		{
			name:     "case-insensitive over all fields",
			entities: []string{"charlize theron"},
			want: []domain.Recommendation{
				{Title: "Old Guard", Type: "Movie", Score: 51.23},
				{Title: "Monster", Type: "Movie", Score: 10},
				{Title: "Tully", Type: "Movie", Score: 0},
			},
		},
		{
			name:     "limit",
			entities: []string{"charlize theron", "sandra bullock"},
			limit:    2,
			want: []domain.Recommendation{
				{Title: "Bird Box", Type: "Movie", Score: 90},
				{Title: "Old Guard", Type: "Movie", Score: 51.23},
			},
		},
		{name: "nobody matches", entities: []string{"keanu reeves"}, want: []domain.Recommendation{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Select(ranked, tc.entities, tc.limit))
		})
	}
}

func TestSelect_EmptyRanking(t *testing.T) {
	got := Select(nil, []string{"charlize theron"}, 5)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
