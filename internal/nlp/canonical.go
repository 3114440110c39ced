// Package nlp turns raw text into the lemma sequences and person names the
// recommender works with. The heavy lifting is done by an injected domain.Toolkit.
package nlp

import (
	"strings"
	"unicode"

	"showfinder/internal/domain"
)

// Canonicalizer lemmatizes text and strips stopwords and punctuation.
// It is used for catalog documents and queries alike.
type Canonicalizer struct {
	toolkit   domain.Toolkit
	stopwords map[string]struct{}
}

// NewCanonicalizer creates a canonicalizer over the given toolkit.
func NewCanonicalizer(toolkit domain.Toolkit) *Canonicalizer {
	return &Canonicalizer{toolkit: toolkit, stopwords: defaultStopwords()}
}

// Canonicalize returns the surviving lower-cased lemmas in text order, duplicates kept.
func (c *Canonicalizer) Canonicalize(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	tokens, err := c.toolkit.Analyze(text)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		lemma := strings.ToLower(strings.TrimSpace(tok.Lemma))
		if lemma == "" || isPunctuation(tok.Text) {
			continue
		}
		if _, stop := c.stopwords[lemma]; stop {
			continue
		}
		out = append(out, lemma)
	}
	return out, nil
}

func isPunctuation(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}
