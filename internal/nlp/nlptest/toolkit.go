// Package nlptest provides a deterministic toolkit for tests that must not load language models.
package nlptest

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"showfinder/internal/domain"
)

var tokenRe = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’-][\p{L}\p{N}]+)*|[^\p{L}\p{N}\s]+`)

// ErrUnavailable is returned by a toolkit built with Failing.
var ErrUnavailable = errors.New("toolkit unavailable")

// Toolkit splits on words and punctuation runs, maps a few inflections to lemmas
// and recognizes a fixed list of names.
type Toolkit struct {
	Lemmas       map[string]string
	People       []string
	Places       []string
	Fail         bool
	AnalyzeCalls int
}

// New creates a toolkit that recognizes the given people.
func New(people ...string) *Toolkit {
	return &Toolkit{Lemmas: DefaultLemmas(), People: people}
}

// Failing creates a toolkit whose every call errors.
func Failing() *Toolkit { return &Toolkit{Fail: true} }

// DefaultLemmas covers the inflections used across the package tests.
func DefaultLemmas() map[string]string {
	return map[string]string{
		"movies":    "movie",
		"warriors":  "warrior",
		"running":   "run",
		"ran":       "run",
		"liked":     "like",
		"likes":     "like",
		"thrillers": "thriller",
		"shows":     "show",
		"films":     "film",
		"is":        "be",
		"was":       "be",
		"were":      "be",
		"battles":   "battle",
		"children":  "child",
	}
}

// Analyze implements domain.Toolkit.
func (t *Toolkit) Analyze(text string) ([]domain.Token, error) {
	t.AnalyzeCalls++
	if t.Fail {
		return nil, ErrUnavailable
	}
	raw := tokenRe.FindAllString(text, -1)
	out := make([]domain.Token, 0, len(raw))
	for _, r := range raw {
		lemma := r
		if l, ok := t.Lemmas[strings.ToLower(r)]; ok {
			lemma = l
		}
		out = append(out, domain.Token{Text: r, Lemma: lemma})
	}
	return out, nil
}

// Entities implements domain.Toolkit. Names are matched case-sensitively, longest first.
func (t *Toolkit) Entities(text string) ([]domain.Entity, error) {
	if t.Fail {
		return nil, ErrUnavailable
	}
	var out []domain.Entity
	out = append(out, find(text, t.People, "PERSON")...)
	out = append(out, find(text, t.Places, "GPE")...)
	return out, nil
}

func find(text string, names []string, label string) []domain.Entity {
	sorted := append([]string(nil), names...)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	var out []domain.Entity
	for _, n := range sorted {
		if n != "" && strings.Contains(text, n) {
			out = append(out, domain.Entity{Text: n, Label: label})
		}
	}
	return out
}
