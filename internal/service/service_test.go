package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showfinder/internal/catalog"
	"showfinder/internal/domain"
	"showfinder/internal/metrics"
	"showfinder/internal/nlp/nlptest"
)

func str(s string) *string { return &s }

func row(title, typ, director, cast, desc string) domain.Row {
	return domain.Row{Title: str(title), Type: str(typ), Director: str(director), Cast: str(cast), Description: str(desc)}
}

func sampleCatalog() domain.Catalog {
	return catalog.NormalizeAll([]domain.Row{
		row("Old Guard", "Movie", "Gina Prince-Bythewood", "Charlize Theron", "immortal warriors fight to protect the world"),
		row("Bird Box", "Movie", "Susanne Bier", "Sandra Bullock", "post-apocalyptic thriller"),
		row("Atomic Blonde", "Movie", "David Leitch", "Charlize Theron", "spy thriller in Berlin"),
	})
}

func newRecommender(t *testing.T, c domain.Catalog, tk domain.Toolkit, opts ...Option) *Recommender {
	t.Helper()
	r, err := New(c, tk, opts...)
	require.NoError(t, err)
	return r
}

func titles(recs []domain.Recommendation) []string {
	out := make([]string, len(recs))
	for i, rec := range recs {
		out[i] = rec.Title
	}
	return out
}

type mapCache struct {
	mu   sync.Mutex
	data map[string]domain.Result
	fail bool
}

func newMapCache() *mapCache { return &mapCache{data: map[string]domain.Result{}} }

func (c *mapCache) Get(_ context.Context, key string) (domain.Result, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return domain.Result{}, false, errors.New("cache down")
	}
	res, ok := c.data[key]
	return res, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, res domain.Result, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("cache down")
	}
	c.data[key] = res
	return nil
}

func TestRecommend_PersonFilter(t *testing.T) {
	tk := nlptest.New("Charlize Theron", "Sandra Bullock")
	r := newRecommender(t, sampleCatalog(), tk)

	recs, err := r.Recommend(context.Background(), "Charlize Theron movies about immortal warriors")
	require.NoError(t, err)
	assert.Equal(t, []string{"Old Guard", "Atomic Blonde"}, titles(recs))
	assert.Equal(t, "Movie", recs[0].Type)
	assert.Greater(t, recs[0].Score, recs[1].Score)
	assert.LessOrEqual(t, recs[0].Score, 100.0)
}

func TestSubmit_ReportsEntities(t *testing.T) {
	r := newRecommender(t, sampleCatalog(), nlptest.New("Sandra Bullock"))

	res, err := r.Submit(context.Background(), "Something with Sandra Bullock")
	require.NoError(t, err)
	assert.Equal(t, "Something with Sandra Bullock", res.Query)
	assert.Equal(t, []string{"sandra bullock"}, res.Entities)
	assert.Equal(t, []string{"Bird Box"}, titles(res.Recommendations))
}

func TestRecommend_NoPersonMeansNoResults(t *testing.T) {
	tk := nlptest.New("Charlize Theron")
	r := newRecommender(t, sampleCatalog(), tk)
	calls := tk.AnalyzeCalls

	recs, err := r.Recommend(context.Background(), "immortal warriors thriller")
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
	assert.Equal(t, calls, tk.AnalyzeCalls, "ranking skipped without entities")
}

func TestRecommend_EmptyQuery(t *testing.T) {
	tk := nlptest.New("Charlize Theron")
	r := newRecommender(t, sampleCatalog(), tk)
	calls := tk.AnalyzeCalls

	for _, q := range []string{"", "   ", "\n\t"} {
		recs, err := r.Recommend(context.Background(), q)
		require.NoError(t, err)
		assert.Empty(t, recs)
	}
	assert.Equal(t, calls, tk.AnalyzeCalls)
}

func TestRecommend_EmptyCatalog(t *testing.T) {
	r := newRecommender(t, nil, nlptest.New("Charlize Theron"))

	recs, err := r.Recommend(context.Background(), "Charlize Theron")
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.Equal(t, Summary{}, r.Summary())
}

func TestRecommend_CapsResults(t *testing.T) {
	rows := make([]domain.Row, 0, 8)
	for _, title := range []string{"One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight"} {
		rows = append(rows, row(title, "Movie", "", "Charlize Theron", "action"))
	}
	c := catalog.NormalizeAll(rows)
	tk := nlptest.New("Charlize Theron")

	recs, err := newRecommender(t, c, tk).Recommend(context.Background(), "Charlize Theron action")
	require.NoError(t, err)
	assert.Len(t, recs, DefaultMaxResults)

	recs, err = newRecommender(t, c, tk, WithMaxResults(2)).Recommend(context.Background(), "Charlize Theron action")
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	recs, err = newRecommender(t, c, tk, WithMaxResults(-1)).Recommend(context.Background(), "Charlize Theron action")
	require.NoError(t, err)
	assert.Len(t, recs, DefaultMaxResults)
}

func TestRank_StableTies(t *testing.T) {
	c := catalog.NormalizeAll([]domain.Row{
		row("Old Guard", "Movie", "", "Charlize Theron", "immortal"),
		row("Bird Box", "Movie", "", "Sandra Bullock", "thriller"),
		row("Old Guard", "TV Show", "", "Charlize Theron", "immortal"),
	})
	r := newRecommender(t, c, nlptest.New("Charlize Theron"))

	ranked, err := r.Rank(context.Background(), "Charlize Theron immortal", 0)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, 0, ranked[0].Index)
	assert.Equal(t, 2, ranked[1].Index)
	assert.Equal(t, 1, ranked[2].Index)
	assert.Equal(t, ranked[0].Score, ranked[1].Score)
	assert.Equal(t, 0.0, ranked[2].Score)

	recs, err := r.Recommend(context.Background(), "Charlize Theron immortal")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Movie", recs[0].Type)
	assert.Equal(t, "TV Show", recs[1].Type)
}

func TestRank_Deterministic(t *testing.T) {
	r := newRecommender(t, sampleCatalog(), nlptest.New())

	first, err := r.Rank(context.Background(), "immortal warriors and a spy thriller", 0)
	require.NoError(t, err)
	second, err := r.Rank(context.Background(), "immortal warriors and a spy thriller", 0)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
	for _, se := range first {
		assert.GreaterOrEqual(t, se.Score, 0.0)
		assert.LessOrEqual(t, se.Score, 1.0)
	}
}

func TestRank_Limit(t *testing.T) {
	r := newRecommender(t, sampleCatalog(), nlptest.New())
	ctx := context.Background()

	full, err := r.Rank(ctx, "immortal warriors and a spy thriller", 0)
	require.NoError(t, err)
	head, err := r.Rank(ctx, "immortal warriors and a spy thriller", 2)
	require.NoError(t, err)
	require.Len(t, head, 2)
	assert.Equal(t, full[:2], head)

	all, err := r.Rank(ctx, "immortal warriors and a spy thriller", 10)
	require.NoError(t, err)
	assert.Equal(t, full, all)
}

func TestRank_UnknownTermsScoreZero(t *testing.T) {
	r := newRecommender(t, sampleCatalog(), nlptest.New())

	ranked, err := r.Rank(context.Background(), "zeppelin quasar", 0)
	require.NoError(t, err)
	for i, se := range ranked {
		assert.Equal(t, i, se.Index)
		assert.Zero(t, se.Score)
	}
	assert.Equal(t, 3, r.Summary().Entries)
	assert.Greater(t, r.Summary().Vocabulary, 0)
}

func TestSubmit_ToolkitError(t *testing.T) {
	tk := nlptest.New("Charlize Theron")
	r := newRecommender(t, sampleCatalog(), tk)
	tk.Fail = true

	_, err := r.Submit(context.Background(), "Charlize Theron")
	require.Error(t, err)
	assert.ErrorIs(t, err, nlptest.ErrUnavailable)
}

func TestNew_ToolkitFailureIsFatal(t *testing.T) {
	_, err := New(sampleCatalog(), nlptest.Failing())
	require.Error(t, err)
	assert.ErrorIs(t, err, nlptest.ErrUnavailable)

	_, err = New(sampleCatalog(), nil)
	assert.Error(t, err)
}

func TestSubmit_Cache(t *testing.T) {
	tk := nlptest.New("Charlize Theron")
	mc := newMapCache()
	r := newRecommender(t, sampleCatalog(), tk, WithCache(mc, time.Minute))

	first, err := r.Submit(context.Background(), "Charlize Theron")
	require.NoError(t, err)
	calls := tk.AnalyzeCalls
	assert.Len(t, mc.data, 1)

	second, err := r.Submit(context.Background(), "Charlize Theron")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, calls, tk.AnalyzeCalls, "second answer served from cache")
}

func TestSubmit_CacheKeyedByLimit(t *testing.T) {
	rows := make([]domain.Row, 0, 4)
	for _, title := range []string{"One", "Two", "Three", "Four"} {
		rows = append(rows, row(title, "Movie", "", "Charlize Theron", "action"))
	}
	c := catalog.NormalizeAll(rows)
	mc := newMapCache()
	ctx := context.Background()

	wide := newRecommender(t, c, nlptest.New("Charlize Theron"), WithCache(mc, time.Minute))
	recs, err := wide.Recommend(ctx, "Charlize Theron action")
	require.NoError(t, err)
	assert.Len(t, recs, 4)

	narrow := newRecommender(t, c, nlptest.New("Charlize Theron"), WithMaxResults(2), WithCache(mc, time.Minute))
	recs, err = narrow.Recommend(ctx, "Charlize Theron action")
	require.NoError(t, err)
	assert.Len(t, recs, 2)
	assert.Len(t, mc.data, 2)
}

func TestSubmit_CacheFailureIsBypassed(t *testing.T) {
	mc := newMapCache()
	mc.fail = true
	r := newRecommender(t, sampleCatalog(), nlptest.New("Charlize Theron"), WithCache(mc, time.Minute))

	recs, err := r.Recommend(context.Background(), "Charlize Theron")
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestSubmit_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := newRecommender(t, sampleCatalog(), nlptest.New("Charlize Theron"), WithMetrics(metrics.NewPipeline(reg)))

	_, err := r.Submit(context.Background(), "Charlize Theron")
	require.NoError(t, err)
	_, err = r.Submit(context.Background(), "nobody in particular")
	require.NoError(t, err)

	expected := `
# HELP showfinder_queries_total Recommendation queries by outcome
# TYPE showfinder_queries_total counter
showfinder_queries_total{outcome="empty"} 1
showfinder_queries_total{outcome="matched"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "showfinder_queries_total"))
}

type sliceSource struct {
	rows []domain.Row
	err  error
}

func (s sliceSource) Load(context.Context) ([]domain.Row, error) { return s.rows, s.err }

func TestLoad(t *testing.T) {
	src := sliceSource{rows: []domain.Row{
		{Title: str("Old Guard"), Cast: str("Charlize Theron")},
		{Title: str("Untitled")},
	}}
	r, err := Load(context.Background(), src, nlptest.New("Charlize Theron"))
	require.NoError(t, err)
	assert.Equal(t, 2, r.Summary().Entries)

	_, err = Load(context.Background(), sliceSource{err: domain.ErrCatalogUnavailable}, nlptest.New())
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}
