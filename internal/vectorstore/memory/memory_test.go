package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showfinder/internal/embedding"
)

func vec(pairs ...float64) embedding.Vector {
	var v embedding.Vector
	for i := 0; i+1 < len(pairs); i += 2 {
		v.Indices = append(v.Indices, int(pairs[i]))
		v.Values = append(v.Values, pairs[i+1])
	}
	return v
}

func newStore(t *testing.T, dim int, vectors ...embedding.Vector) *Storage {
	t.Helper()
	s := NewStorage()
	require.NoError(t, s.Init(dim))
	require.NoError(t, s.Upsert(vectors))
	return s
}

func TestRank_OrdersByDescendingSimilarity(t *testing.T) {
	s := newStore(t, 3,
		vec(0, 1),
		vec(1, 1),
		vec(0, 1, 1, 1),
	)
	hits, err := s.Rank(vec(1, 1))
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, 1, hits[0].Index)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-12)
	assert.Equal(t, 2, hits[1].Index)
	assert.Equal(t, 0, hits[2].Index)
	assert.Equal(t, 0.0, hits[2].Score)
}

func TestRank_TiesKeepInsertionOrder(t *testing.T) {
	s := newStore(t, 2,
		vec(0, 1),
		vec(1, 1),
		vec(0, 1),
		vec(1, 1),
		vec(0, 1),
	)
	hits, err := s.Rank(vec(0, 1))
	require.NoError(t, err)

	got := make([]int, len(hits))
	for i, h := range hits {
		got[i] = h.Index
	}
	assert.Equal(t, []int{0, 2, 4, 1, 3}, got)
}

func TestRank_ZeroQueryScoresZeroInCatalogOrder(t *testing.T) {
	s := newStore(t, 2, vec(0, 1), vec(1, 1), embedding.Vector{})
	hits, err := s.Rank(embedding.Vector{})
	require.NoError(t, err)
	for i, h := range hits {
		assert.Equal(t, i, h.Index)
		assert.Equal(t, 0.0, h.Score)
	}
}

func TestSearch_TopK(t *testing.T) {
	s := newStore(t, 2, vec(0, 1), vec(1, 1), vec(0, 1, 1, 1))
	hits, err := s.Search(vec(0, 1), 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, 0, hits[0].Index)
	assert.Equal(t, 2, hits[1].Index)

	hits, err = s.Search(vec(0, 1), 10)
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}

func TestUpsert_RejectsOutOfRangeIndex(t *testing.T) {
	s := NewStorage()
	require.NoError(t, s.Init(2))
	assert.Error(t, s.Upsert([]embedding.Vector{vec(2, 1)}))
	assert.Error(t, s.Upsert([]embedding.Vector{{Indices: []int{0}}}))
	assert.Equal(t, 0, s.Len())
}

func TestInit_ResetsVectors(t *testing.T) {
	s := NewStorage()
	assert.Error(t, s.Init(-1))
	require.NoError(t, s.Init(0))
	require.NoError(t, s.Upsert([]embedding.Vector{{}}))
	assert.Equal(t, 1, s.Len())
	require.NoError(t, s.Init(0))
	assert.Equal(t, 0, s.Len())

	hits, err := s.Rank(embedding.Vector{})
	require.NoError(t, err)
	assert.Empty(t, hits)
}
