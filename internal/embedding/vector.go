package embedding

import "math"

// Embedder converts free text into a vector in a fixed vocabulary space.
// Implementations are prepared over a corpus before use.
type Embedder interface {
	Dimension() int
	Tokenize(text string) ([]string, error)
	EmbedTokens(tokens []string) (Vector, error)
}

// Vector is a sparse vector. Indices are strictly ascending and Values align with them.
type Vector struct {
	Indices []int
	Values  []float64
}

// Norm returns the Euclidean length.
func (v Vector) Norm() float64 {
	sum := 0.0
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Dot returns the inner product with o.
func (v Vector) Dot(o Vector) float64 {
	sum := 0.0
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			sum += v.Values[i] * o.Values[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Cosine returns the cosine similarity of a and b, or 0 when either has zero length.
func Cosine(a, b Vector) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	return a.Dot(b) / (na * nb)
}
