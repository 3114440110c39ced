// Package english is the production linguistic toolkit: prose for tokens,
// part-of-speech tags and named entities, golem for dictionary lemmas.
package english

import (
	"fmt"
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/jdkato/prose/v2"

	"showfinder/internal/domain"
)

// Toolkit implements domain.Toolkit for English text. Safe for concurrent use.
type Toolkit struct {
	lemmatizer *golem.Lemmatizer
	model      *prose.Model
}

// New loads the lemma dictionary and the tagger and entity models once.
// Every later document is built on the loaded model.
func New() (*Toolkit, error) {
	l, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("load english lemma dictionary: %w", err)
	}
	doc, err := prose.NewDocument("Load the models.")
	if err != nil {
		return nil, fmt.Errorf("load prose models: %w", err)
	}
	return &Toolkit{lemmatizer: l, model: doc.Model}, nil
}

// Analyze tokenizes and tags text and attaches a lemma to every token.
func (t *Toolkit) Analyze(text string) ([]domain.Token, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	doc, err := prose.NewDocument(text,
		prose.UsingModel(t.model),
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	toks := doc.Tokens()
	out := make([]domain.Token, 0, len(toks))
	for _, tok := range toks {
		out = append(out, domain.Token{Text: tok.Text, Tag: tok.Tag, Lemma: t.lemma(tok.Text, tok.Tag)})
	}
	return out, nil
}

// Entities returns the named entities prose finds in text.
func (t *Toolkit) Entities(text string) ([]domain.Entity, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	doc, err := prose.NewDocument(text,
		prose.UsingModel(t.model),
		prose.WithSegmentation(false),
	)
	if err != nil {
		return nil, fmt.Errorf("extract entities: %w", err)
	}
	ents := doc.Entities()
	out := make([]domain.Entity, 0, len(ents))
	for _, e := range ents {
		out = append(out, domain.Entity{Text: e.Text, Label: e.Label})
	}
	return out, nil
}

// Proper nouns are their own lemma; everything else goes through the dictionary.
func (t *Toolkit) lemma(text, tag string) string {
	if tag == "NNP" || tag == "NNPS" {
		return text
	}
	return t.lemmatizer.Lemma(strings.ToLower(text))
}
