// Package embedding turns card text into vectors for the model-backed
// strategy. Providers are a remote OpenAI-compatible API, a local ONNX
// sentence-transformer and a deterministic mock.
package embedding

import (
	"context"
	"fmt"
)

// Embedder produces vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}

// Provider names accepted by New.
const (
	ProviderAPI  = "api"
	ProviderONNX = "onnx"
	ProviderMock = "mock"
)

// Config selects and sizes an embedding provider.
type Config struct {
	Provider   string `yaml:"provider"`
	Model      string `yaml:"model"`
	ModelPath  string `yaml:"model_path"`
	Dimensions int    `yaml:"dimensions"`
	MaxTokens  int    `yaml:"max_tokens"`
	CacheSize  int    `yaml:"cache_size"`
}

// New builds the provider named by cfg.Provider. remote is only used by the
// api provider and may be nil otherwise.
func New(cfg Config, remote RemoteClient) (Embedder, error) {
	switch cfg.Provider {
	case ProviderAPI:
		if remote == nil {
			return nil, fmt.Errorf("embedding provider %q needs an API client", cfg.Provider)
		}
		return NewAPIEmbedder(remote, cfg.Dimensions), nil
	case ProviderONNX:
		e, err := NewONNXEmbedder(cfg.ModelPath, cfg.Dimensions, cfg.MaxTokens)
		if err != nil {
			return nil, err
		}
		return e, nil
	case ProviderMock, "":
		return NewMockEmbedder(cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: api, onnx, mock)", cfg.Provider)
	}
}
