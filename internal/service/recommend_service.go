// Package service wires the catalog, the linguistic pipeline and the vector store
// into a recommender answering one query at a time.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"showfinder/internal/cache"
	"showfinder/internal/catalog"
	"showfinder/internal/domain"
	"showfinder/internal/embedding"
	"showfinder/internal/embedding/tfidf"
	"showfinder/internal/logger"
	"showfinder/internal/metrics"
	"showfinder/internal/nlp"
	"showfinder/internal/vectorstore"
	"showfinder/internal/vectorstore/memory"
)

// Recommender answers queries against a catalog fixed at construction.
// It is read-only after New and safe for concurrent use if its toolkit is.
type Recommender struct {
	catalog     domain.Catalog
	canon       *nlp.Canonicalizer
	extractor   *nlp.EntityExtractor
	model       embedding.Embedder
	store       vectorstore.Storage
	maxResults  int
	results     domain.Cache
	resultsTTL  time.Duration
	fingerprint string
	log         *zap.Logger
	metrics     *metrics.Pipeline
}

// Option configures a Recommender.
type Option func(*Recommender)

// WithMaxResults caps the recommendation list. Values of zero or less keep the default.
func WithMaxResults(n int) Option {
	return func(r *Recommender) {
		if n > 0 {
			r.maxResults = n
		}
	}
}

// WithCache stores finished results in c for ttl.
func WithCache(c domain.Cache, ttl time.Duration) Option {
	return func(r *Recommender) {
		r.results = c
		r.resultsTTL = ttl
	}
}

// WithLogger sets the fallback logger used when the context carries none.
func WithLogger(l *zap.Logger) Option {
	return func(r *Recommender) { r.log = l }
}

// WithMetrics records query and cache metrics.
func WithMetrics(p *metrics.Pipeline) Option {
	return func(r *Recommender) { r.metrics = p }
}

// Summary describes the loaded model.
type Summary struct {
	Entries    int `json:"entries"`
	Vocabulary int `json:"vocabulary"`
}

// New builds the vector model over the catalog. The same canonicalizer is used
// for every document here and for every query later.
func New(c domain.Catalog, toolkit domain.Toolkit, opts ...Option) (*Recommender, error) {
	if toolkit == nil {
		return nil, errors.New("nil toolkit")
	}
	r := &Recommender{
		catalog:    c,
		canon:      nlp.NewCanonicalizer(toolkit),
		extractor:  nlp.NewEntityExtractor(toolkit),
		store:      memory.NewStorage(),
		maxResults: DefaultMaxResults,
		results:    cache.Nop{},
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.results == nil {
		r.results = cache.Nop{}
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}

	emb := tfidf.NewEmbedder(r.canon.Canonicalize)
	if err := emb.Prepare(catalog.Texts(c)); err != nil {
		return nil, fmt.Errorf("build vector model: %w", err)
	}
	if err := r.store.Init(emb.Dimension()); err != nil {
		return nil, err
	}
	if err := r.store.Upsert(emb.Documents()); err != nil {
		return nil, err
	}
	r.model = emb
	r.fingerprint = catalog.Fingerprint(c)
	r.metrics.SetCatalogSize(len(c))
	r.log.Info("vector model ready",
		zap.Int("entries", len(c)),
		zap.Int("vocabulary", r.model.Dimension()),
		zap.String("fingerprint", r.fingerprint))
	return r, nil
}

// Load reads and normalizes the catalog from src, then builds the recommender.
func Load(ctx context.Context, src domain.CatalogSource, toolkit domain.Toolkit, opts ...Option) (*Recommender, error) {
	rows, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	return New(catalog.NormalizeAll(rows), toolkit, opts...)
}

// Summary reports catalog and vocabulary sizes.
func (r *Recommender) Summary() Summary {
	return Summary{Entries: r.store.Len(), Vocabulary: r.model.Dimension()}
}

// Recommend returns at most the configured number of entries similar to raw that
// mention a person named in raw. An empty slice means no matches.
func (r *Recommender) Recommend(ctx context.Context, raw string) ([]domain.Recommendation, error) {
	res, err := r.Submit(ctx, raw)
	if err != nil {
		return nil, err
	}
	return res.Recommendations, nil
}

// Submit is Recommend plus the person names extracted from raw.
func (r *Recommender) Submit(ctx context.Context, raw string) (domain.Result, error) {
	start := time.Now()
	log := logger.FromContext(ctx, r.log)

	res, err := r.submit(ctx, log, raw)
	outcome := metrics.OutcomeMatched
	switch {
	case err != nil:
		outcome = metrics.OutcomeError
	case len(res.Recommendations) == 0:
		outcome = metrics.OutcomeEmpty
	}
	r.metrics.ObserveQuery(outcome, time.Since(start))
	if err != nil {
		return domain.Result{}, err
	}
	log.Debug("query answered",
		zap.Strings("entities", res.Entities),
		zap.Int("recommendations", len(res.Recommendations)),
		zap.Duration("duration", time.Since(start)))
	return res, nil
}

func (r *Recommender) submit(ctx context.Context, log *zap.Logger, raw string) (domain.Result, error) {
	res := domain.Result{Query: raw, Entities: []string{}, Recommendations: []domain.Recommendation{}}
	if strings.TrimSpace(raw) == "" {
		return res, nil
	}

	key := cache.Key(r.fingerprint, r.maxResults, raw)
	if cached, ok, err := r.results.Get(ctx, key); err != nil {
		r.metrics.ObserveCache(metrics.CacheError)
		log.Warn("result cache get failed", zap.Error(err))
	} else if ok {
		r.metrics.ObserveCache(metrics.CacheHit)
		return cached, nil
	} else {
		r.metrics.ObserveCache(metrics.CacheMiss)
	}

	entities, err := r.extractor.Extract(raw)
	if err != nil {
		return domain.Result{}, fmt.Errorf("extract entities: %w", err)
	}
	q := domain.Query{Raw: raw, Entities: entities}
	if len(q.Entities) > 0 {
		if q.Tokens, err = r.model.Tokenize(q.Raw); err != nil {
			return domain.Result{}, fmt.Errorf("canonicalize query: %w", err)
		}
		ranked, err := r.rankQuery(q, 0)
		if err != nil {
			return domain.Result{}, err
		}
		res.Entities = q.Entities
		res.Recommendations = Select(ranked, q.Entities, r.maxResults)
	}
	log.Debug("query analyzed",
		zap.Strings("entities", q.Entities),
		zap.Strings("tokens", q.Tokens))

	if err := r.results.Set(ctx, key, res, r.resultsTTL); err != nil {
		log.Warn("result cache set failed", zap.Error(err))
	}
	return res, nil
}

// Rank scores raw against the catalog, best first. Equal scores keep catalog order.
// A limit of zero or less returns every entry; otherwise only the top limit.
func (r *Recommender) Rank(_ context.Context, raw string, limit int) ([]domain.ScoredEntry, error) {
	tokens, err := r.model.Tokenize(raw)
	if err != nil {
		return nil, fmt.Errorf("canonicalize query: %w", err)
	}
	return r.rankQuery(domain.Query{Raw: raw, Tokens: tokens}, limit)
}

func (r *Recommender) rankQuery(q domain.Query, limit int) ([]domain.ScoredEntry, error) {
	vec, err := r.model.EmbedTokens(q.Tokens)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	var hits []vectorstore.Hit
	if limit > 0 {
		hits, err = r.store.Search(vec, limit)
	} else {
		hits, err = r.store.Rank(vec)
	}
	if err != nil {
		return nil, fmt.Errorf("rank catalog: %w", err)
	}
	out := make([]domain.ScoredEntry, len(hits))
	for i, h := range hits {
		out[i] = domain.ScoredEntry{Index: h.Index, Entry: &r.catalog[h.Index], Score: h.Score}
	}
	return out, nil
}
