package memory

import (
	"errors"
	"sort"
	"sync"

	"showfinder/internal/embedding"
	"showfinder/internal/vectorstore"
)

// Storage is a simple in-memory vector store using brute-force cosine similarity.
// Vectors keep their insertion position as document index.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	vectors   []embedding.Vector
}

var _ vectorstore.Storage = (*Storage)(nil)

// NewStorage creates an empty store.
func NewStorage() *Storage { return &Storage{} }

// Init sets the vector dimension and drops any stored vectors.
// A zero dimension is valid for an empty vocabulary.
func (s *Storage) Init(dimension int) error {
	if dimension < 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.vectors = nil
	return nil
}

// Upsert appends vectors in order.
func (s *Storage) Upsert(vectors []embedding.Vector) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vectors {
		if len(v.Indices) != len(v.Values) {
			return errors.New("malformed sparse vector")
		}
		for _, idx := range v.Indices {
			if idx < 0 || idx >= s.dimension {
				return errors.New("vector dimension mismatch")
			}
		}
	}
	s.vectors = append(s.vectors, vectors...)
	return nil
}

// Rank scores every stored vector against vector and orders them by descending
// similarity. Equal scores keep insertion order.
func (s *Storage) Rank(vector embedding.Vector) ([]vectorstore.Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hits := make([]vectorstore.Hit, len(s.vectors))
	for i := range s.vectors {
		hits[i] = vectorstore.Hit{Index: i, Score: clamp(embedding.Cosine(vector, s.vectors[i]))}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	return hits, nil
}

// Search returns the topK best hits.
func (s *Storage) Search(vector embedding.Vector, topK int) ([]vectorstore.Hit, error) {
	hits, err := s.Rank(vector)
	if err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = 5
	}
	if topK > len(hits) {
		topK = len(hits)
	}
	return hits[:topK], nil
}

// Len returns the number of stored vectors.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}

// tf-idf weights are non-negative, so anything outside [0,1] is rounding error.
func clamp(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
