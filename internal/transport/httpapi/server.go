// Package httpapi exposes the recommender over HTTP with a chi router.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"showfinder/internal/domain"
	"showfinder/internal/metrics"
	"showfinder/internal/service"
)

const (
	defaultRankingLimit = 10
	maxBodyBytes        = 64 << 10
)

// Recommender is the part of the service the API serves.
type Recommender interface {
	Submit(ctx context.Context, raw string) (domain.Result, error)
	Rank(ctx context.Context, raw string, limit int) ([]domain.ScoredEntry, error)
	Summary() service.Summary
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server holds the HTTP handlers.
type Server struct {
	rec           Recommender
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates the handlers around rec.
func NewServer(rec Recommender, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		rec:    rec,
		logger: logger,
		errorHandlers: []errorHandler{
			sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, "bad_request"),
			sentinelHandler(domain.ErrCatalogUnavailable, http.StatusServiceUnavailable, "catalog_unavailable"),
		},
	}
}

// Router mounts the API with recovery, request ids, canonical request logging and
// optional HTTP metrics. gatherer backs /metrics; nil means the default registry.
func (s *Server) Router(httpMetrics *metrics.HTTP, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	if httpMetrics != nil {
		r.Use(httpMetrics.Middleware())
	}

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Get("/healthz", s.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Route("/v1", func(r chi.Router) {
		r.Post("/recommendations", s.Recommend)
		r.Get("/rankings", s.Rankings)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	return r
}

type recommendRequest struct {
	Query *string `json:"query"`
}

// Recommend handles POST /v1/recommendations.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if req.Query == nil {
		s.handleDomainError(w, fmt.Errorf("%w: query field is required", domain.ErrEmptyQuery))
		return
	}
	res, err := s.rec.Submit(r.Context(), *req.Query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type rankedEntry struct {
	Index   int     `json:"index"`
	Title   string  `json:"title"`
	Type    string  `json:"type"`
	Score   float64 `json:"score"`
	Percent float64 `json:"percent"`
}

type rankingsResponse struct {
	Query   string        `json:"query"`
	Total   int           `json:"total"`
	Results []rankedEntry `json:"results"`
}

// Rankings handles GET /v1/rankings?q=&limit=. It returns the head of the
// unfiltered ranking with full-precision scores.
func (s *Server) Rankings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		s.handleDomainError(w, fmt.Errorf("%w: q parameter is required", domain.ErrEmptyQuery))
		return
	}
	limit := defaultRankingLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "bad_request", "limit must be a positive integer")
			return
		}
		limit = n
	}

	ranked, err := s.rec.Rank(r.Context(), q, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	resp := rankingsResponse{Query: q, Total: s.rec.Summary().Entries, Results: []rankedEntry{}}
	for _, se := range ranked {
		resp.Results = append(resp.Results, rankedEntry{
			Index:   se.Index,
			Title:   se.Entry.Title,
			Type:    se.Entry.Type,
			Score:   se.Score,
			Percent: se.Percent(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type healthResponse struct {
	Status     string `json:"status"`
	Entries    int    `json:"entries"`
	Vocabulary int    `json:"vocabulary"`
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	sum := s.rec.Summary()
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Entries: sum.Entries, Vocabulary: sum.Vocabulary})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			s.logger.Warn("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
