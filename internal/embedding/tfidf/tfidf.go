package tfidf

import (
	"errors"
	"math"
	"sort"

	"showfinder/internal/embedding"
)

// TokenizeFunc splits text into terms. Prepare and Tokenize use the same function.
type TokenizeFunc func(text string) ([]string, error)

// Embedder implements a TF-IDF vectorizer over an injected tokenizer.
// It builds a vocabulary from the corpus and computes IDF values; after
// Prepare it is read-only and safe for concurrent use.
type Embedder struct {
	tokenize   TokenizeFunc
	vocabulary map[string]int
	terms      []string
	idf        []float64
	documents  []embedding.Vector
	prepared   bool
}

var _ embedding.Embedder = (*Embedder)(nil)

// NewEmbedder creates an unprepared TF-IDF embedder.
func NewEmbedder(tokenize TokenizeFunc) *Embedder {
	return &Embedder{
		tokenize:   tokenize,
		vocabulary: make(map[string]int),
	}
}

// Prepare builds the vocabulary, IDF values and one vector per corpus document.
// An empty corpus yields an empty model.
func (e *Embedder) Prepare(corpus []string) error {
	if e.tokenize == nil {
		return errors.New("tfidf embedder has no tokenizer")
	}
	docs := make([][]string, len(corpus))
	df := make(map[string]int)
	for i, text := range corpus {
		tokens, err := e.tokenize(text)
		if err != nil {
			return err
		}
		docs[i] = tokens
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	// Create stable ordering for vocabulary
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	e.terms = terms
	e.vocabulary = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		e.vocabulary[term] = i
		// Smoothed IDF
		e.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	e.documents = make([]embedding.Vector, len(docs))
	for i, tokens := range docs {
		e.documents[i] = e.weigh(tokens)
	}
	e.prepared = true
	return nil
}

// Dimension returns the vocabulary size.
func (e *Embedder) Dimension() int { return len(e.terms) }

// Tokenize splits text with the tokenizer the vocabulary was built with.
func (e *Embedder) Tokenize(text string) ([]string, error) {
	if e.tokenize == nil {
		return nil, errors.New("tfidf embedder has no tokenizer")
	}
	return e.tokenize(text)
}

// EmbedTokens projects terms into the prepared vocabulary. Unknown terms are ignored.
func (e *Embedder) EmbedTokens(tokens []string) (embedding.Vector, error) {
	if !e.prepared {
		return embedding.Vector{}, errors.New("tfidf embedder not prepared")
	}
	return e.weigh(tokens), nil
}

// Documents returns the corpus vectors in corpus order.
func (e *Embedder) Documents() []embedding.Vector { return e.documents }

// weigh computes raw term counts times idf and L2-normalizes the result.
func (e *Embedder) weigh(tokens []string) embedding.Vector {
	tf := make(map[int]int)
	for _, tok := range tokens {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
		}
	}
	if len(tf) == 0 {
		return embedding.Vector{}
	}
	idxs := make([]int, 0, len(tf))
	for idx := range tf {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)
	vec := embedding.Vector{Indices: idxs, Values: make([]float64, len(idxs))}
	for k, idx := range idxs {
		vec.Values[k] = float64(tf[idx]) * e.idf[idx]
	}
	// L2 normalize
	if norm := vec.Norm(); norm > 0 {
		for k := range vec.Values {
			vec.Values[k] /= norm
		}
	}
	return vec
}
