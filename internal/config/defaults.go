package config

import (
	"time"

	"github.com/hyperjump/brainboard/internal/embedding"
	"github.com/hyperjump/brainboard/internal/insight"
	"github.com/hyperjump/brainboard/internal/search"
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 60 * time.Second
	}
	if cfg.Strategy.Mode == "" {
		cfg.Strategy.Mode = string(insight.ModeDeterministic)
	}
	if cfg.Strategy.Timeout == 0 {
		cfg.Strategy.Timeout = 20 * time.Second
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-4o-mini"
	}
	if cfg.LLM.EmbeddingModel == "" {
		cfg.LLM.EmbeddingModel = "text-embedding-3-small"
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 15 * time.Second
	}
	if cfg.LLM.MaxAttempts == 0 {
		cfg.LLM.MaxAttempts = 3
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = embedding.ProviderAPI
	}
	if cfg.Embedding.Dimensions == 0 {
		switch cfg.Embedding.Provider {
		case embedding.ProviderAPI:
			cfg.Embedding.Dimensions = 1536
		default:
			cfg.Embedding.Dimensions = 384
		}
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Embedding.Model == "" {
		switch cfg.Embedding.Provider {
		case embedding.ProviderAPI:
			cfg.Embedding.Model = cfg.LLM.EmbeddingModel
		case embedding.ProviderONNX:
			cfg.Embedding.Model = "all-MiniLM-L6-v2"
		default:
			cfg.Embedding.Model = embedding.ProviderMock
		}
	}
	if cfg.Search.KeywordWeight == 0 && cfg.Search.SemanticWeight == 0 {
		d := search.DefaultConfig()
		cfg.Search.KeywordWeight = d.KeywordWeight
		cfg.Search.SemanticWeight = d.SemanticWeight
	}
	if cfg.Search.TopK == 0 {
		cfg.Search.TopK = search.DefaultConfig().TopK
	}
	if cfg.Search.PhraseBoost == 0 {
		cfg.Search.PhraseBoost = search.DefaultConfig().PhraseBoost
	}
	cfg.Ranking.ApplyDefaults()

	d := insight.DefaultBreakerConfig()
	if cfg.Breaker.MaxRequests == 0 {
		cfg.Breaker.MaxRequests = d.MaxRequests
	}
	if cfg.Breaker.Interval == 0 {
		cfg.Breaker.Interval = d.Interval
	}
	if cfg.Breaker.Timeout == 0 {
		cfg.Breaker.Timeout = d.Timeout
	}
	if cfg.Breaker.FailureThreshold == 0 {
		cfg.Breaker.FailureThreshold = d.FailureThreshold
	}
	if cfg.Breaker.MinRequests == 0 {
		cfg.Breaker.MinRequests = d.MinRequests
	}
	if cfg.Tracing.SampleRatio == 0 {
		cfg.Tracing.SampleRatio = 1
	}
}
