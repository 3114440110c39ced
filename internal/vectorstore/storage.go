package vectorstore

import "showfinder/internal/embedding"

// Hit is a document index with its similarity to a query vector.
type Hit struct {
	Index int
	Score float64
}

// Storage keeps document vectors and ranks them against a query vector.
type Storage interface {
	Init(dimension int) error
	Upsert(vectors []embedding.Vector) error
	Rank(vector embedding.Vector) ([]Hit, error)
	Search(vector embedding.Vector, topK int) ([]Hit, error)
	Len() int
}
