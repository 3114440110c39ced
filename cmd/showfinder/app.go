package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"showfinder/internal/cache/redis"
	"showfinder/internal/catalog/csvfile"
	"showfinder/internal/catalog/sqlite"
	"showfinder/internal/config"
	"showfinder/internal/domain"
	"showfinder/internal/logger"
	"showfinder/internal/metrics"
	"showfinder/internal/nlp/english"
	"showfinder/internal/service"
)

var newToolkit = func() (domain.Toolkit, error) {
	tk, err := english.New()
	if err != nil {
		return nil, err
	}
	return tk, nil
}

// app owns the process-wide components and their cleanup.
type app struct {
	log     *zap.Logger
	rec     *service.Recommender
	closers []func() error
}

// newApp assembles the pipeline from cfg. reg, when non-nil, receives the pipeline metrics.
func newApp(ctx context.Context, cfg *config.AppConfig, reg prometheus.Registerer) (*app, error) {
	log, err := logger.New(cfg.Logging.Env, cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	a := &app{log: log}
	a.closers = append(a.closers, func() error { _ = log.Sync(); return nil })

	log.Info("starting showfinder",
		zap.String("env", cfg.Logging.Env),
		zap.String("catalog_type", cfg.Catalog.Type),
		zap.String("catalog_path", cfg.Catalog.Path),
		zap.String("cache_type", cfg.Cache.Type),
	)

	src, err := a.catalogSource(cfg.Catalog)
	if err != nil {
		a.Close()
		return nil, err
	}

	// The whole pipeline depends on the toolkit, so it must load before anything is served.
	toolkit, err := newToolkit()
	if err != nil {
		log.Error("linguistic toolkit unavailable", zap.Error(err))
		a.Close()
		return nil, fmt.Errorf("load linguistic toolkit: %w", err)
	}

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMaxResults(cfg.Ranker.MaxResults),
	}
	if reg != nil {
		opts = append(opts, service.WithMetrics(metrics.NewPipeline(reg)))
	}
	if c := a.resultCache(ctx, cfg.Cache); c != nil {
		opts = append(opts, service.WithCache(c, cfg.Cache.TTL()))
	}

	start := time.Now()
	rec, err := service.Load(ctx, src, toolkit, opts...)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	log.Info("catalog indexed", zap.Duration("took", time.Since(start)))
	a.rec = rec
	return a, nil
}

func (a *app) catalogSource(cfg config.CatalogConfig) (domain.CatalogSource, error) {
	switch cfg.Type {
	case "csv":
		return csvfile.NewSource(cfg.Path), nil
	case "sqlite":
		src, err := sqlite.Open(cfg.Path, cfg.Table)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, src.Close)
		return src, nil
	default:
		return nil, fmt.Errorf("%w: catalog type %q", domain.ErrUnknownBackend, cfg.Type)
	}
}

// resultCache connects the configured cache. An unreachable cache is logged and skipped.
func (a *app) resultCache(ctx context.Context, cfg config.CacheConfig) domain.Cache {
	if cfg.Type != "redis" || cfg.Redis == nil {
		return nil
	}
	timeout := time.Duration(cfg.Redis.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	c, err := redis.Connect(pingCtx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Timeout:  timeout,
	})
	if err != nil {
		a.log.Warn("result cache disabled", zap.Error(err))
		return nil
	}
	a.closers = append(a.closers, c.Close)
	a.log.Info("result cache connected", zap.String("addr", cfg.Redis.Addr))
	return c
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}
