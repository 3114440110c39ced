package service

import (
	"strings"

	"showfinder/internal/domain"
)

// DefaultMaxResults caps the recommendation list when no limit is configured.
const DefaultMaxResults = 5

// Select walks ranked in order and keeps entries whose record mentions one of the
// entities, stopping at limit. A limit of zero or less means DefaultMaxResults.
// No entities means no recommendations. The result is never nil.
func Select(ranked []domain.ScoredEntry, entities []string, limit int) []domain.Recommendation {
	out := []domain.Recommendation{}
	if len(entities) == 0 {
		return out
	}
	if limit <= 0 {
		limit = DefaultMaxResults
	}
	for _, se := range ranked {
		if len(out) >= limit {
			break
		}
		if se.Entry == nil || !mentionsAny(matchText(*se.Entry), entities) {
			continue
		}
		out = append(out, domain.Recommendation{
			Title: se.Entry.Title,
			Type:  se.Entry.Type,
			Score: se.Percent(),
		})
	}
	return out
}

func matchText(e domain.CatalogEntry) string {
	return strings.ToLower(strings.Join(e.FieldValues(), " "))
}

func mentionsAny(text string, entities []string) bool {
	for _, ent := range entities {
		if ent != "" && strings.Contains(text, ent) {
			return true
		}
	}
	return false
}
