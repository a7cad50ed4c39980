package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/hyperjump/brainboard/internal/config"
	"github.com/hyperjump/brainboard/internal/embedding"
	"github.com/hyperjump/brainboard/internal/external"
	"github.com/hyperjump/brainboard/internal/insight"
	"github.com/hyperjump/brainboard/internal/lexicon"
	"github.com/hyperjump/brainboard/internal/llm"
	"github.com/hyperjump/brainboard/internal/observability"
	"github.com/hyperjump/brainboard/internal/ranking"
	"github.com/hyperjump/brainboard/internal/storage"
)

const serviceName = "brainboard"

// Components holds the wired analysis stack.
type Components struct {
	Service  *insight.Service
	Lexicons *lexicon.Registry
	Metrics  *observability.Collector

	embedder embedding.Embedder
	store    *storage.SQLiteStorage
	tracing  *observability.TracerProvider
	logger   *zap.Logger
}

// Close releases the embedder, the cache database and the tracer provider.
func (c *Components) Close() {
	if c.embedder != nil {
		if err := c.embedder.Close(); err != nil {
			c.logger.Warn("embedder close failed", zap.Error(err))
		}
	}
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			c.logger.Warn("cache close failed", zap.Error(err))
		}
	}
	if c.tracing != nil {
		if err := c.tracing.Shutdown(context.Background()); err != nil {
			c.logger.Warn("tracer shutdown failed", zap.Error(err))
		}
	}
}

// initializeComponents builds the insight service for cfg. Lexicon packs in
// cfg.Lexicon.Dir are loaded once; the server command watches them instead.
func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Components, error) {
	c := &Components{
		Lexicons: lexicon.NewRegistry(),
		Metrics:  observability.NewCollector(serviceName),
		logger:   logger,
	}

	tp, err := observability.InitTracing(ctx, serviceName, version, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	c.tracing = tp

	if cfg.Lexicon.Dir != "" && !cfg.Lexicon.Watch {
		if packs, err := c.Lexicons.Reload(cfg.Lexicon.Dir); err != nil {
			logger.Warn("lexicon packs not loaded", zap.String("dir", cfg.Lexicon.Dir), zap.Error(err))
		} else {
			logger.Info("lexicon packs loaded", zap.String("dir", cfg.Lexicon.Dir), zap.Int("packs", len(packs)))
		}
	}

	mode, err := insight.ParseMode(cfg.Strategy.Mode)
	if err != nil {
		return nil, err
	}
	deterministic := insight.NewDeterministic(c.Lexicons, ranking.NewRanker(&cfg.Ranking))

	var ext insight.Strategy
	if mode == insight.ModeExternal {
		strategy, err := c.buildExternal(ctx, cfg)
		if err != nil {
			c.Close()
			return nil, err
		}
		if strategy != nil {
			ext = strategy
		}
	}

	c.Service = insight.NewService(mode, deterministic, ext,
		insight.WithLogger(logger),
		insight.WithMetrics(c.Metrics),
		insight.WithTimeout(cfg.Strategy.Timeout),
		insight.WithBreaker(cfg.Breaker),
		insight.WithTracer(observability.Tracer(serviceName)),
	)
	logger.Info("insight service ready", zap.String("strategy", string(c.Service.Mode())))
	return c, nil
}

// buildExternal wires the LLM client, the embedder and its cache. It returns
// nil without error when no API key is configured.
func (c *Components) buildExternal(ctx context.Context, cfg *config.Config) (*external.Strategy, error) {
	if cfg.LLM.APIKey == "" {
		c.logger.Warn("external strategy requested without an API key")
		return nil, nil
	}
	client := llm.NewClient(cfg.LLM)

	embedder, err := embedding.New(cfg.Embedding, client)
	if err != nil {
		if cfg.Embedding.Provider != embedding.ProviderONNX {
			return nil, fmt.Errorf("failed to initialize embedder: %w", err)
		}
		c.logger.Warn("ONNX embedder unavailable, falling back to mock", zap.Error(err))
		embedder = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
	}
	c.embedder = embedder

	cacheOpts := []embedding.CacheOption{
		embedding.WithCacheMetrics(c.Metrics),
		embedding.WithCacheLogger(c.logger),
	}
	if cfg.Storage.CachePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.CachePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
		store, err := storage.NewSQLiteStorage(cfg.Storage.CachePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		c.store = store
		if n, err := store.CountEmbeddings(ctx); err == nil {
			c.logger.Debug("Embedding cache opened", zap.String("path", cfg.Storage.CachePath), zap.Int64("vectors", n))
		}
		cacheOpts = append(cacheOpts, embedding.WithStore(store))
	}
	c.embedder = embedding.NewCachedEmbedder(c.embedder, cfg.Embedding.Model, cfg.Embedding.CacheSize, cacheOpts...)

	return external.New(client, c.embedder,
		external.WithLogger(c.logger),
		external.WithSearchConfig(cfg.Search),
	), nil
}
