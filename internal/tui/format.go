package tui

import (
	"strconv"
	"strings"

	"showfinder/internal/domain"
)

// NoResults is shown when a query yields no recommendations.
const NoResults = "No recommendations found."

// FormatRecommendations renders recommendations as the plain text block shared by
// the TUI and the query command.
func FormatRecommendations(recs []domain.Recommendation) string {
	if len(recs) == 0 {
		return NoResults
	}
	lines := make([]string, len(recs))
	for i, r := range recs {
		lines[i] = formatRecommendation(r)
	}
	return "Recommended TV Shows or Movies:\n\n" + strings.Join(lines, "\n")
}

func formatRecommendation(r domain.Recommendation) string {
	return "- Title: " + r.Title + "\n  Type: " + r.Type + "\n  Similarity: " + formatPercent(r.Score) + "%"
}

// formatPercent prints the shortest exact form, keeping one decimal for whole numbers (12.0, 51.23).
func formatPercent(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
