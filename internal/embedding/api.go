package embedding

import (
	"context"
	"fmt"

	"github.com/hyperjump/brainboard/pkg/utils"
)

// RemoteClient calls an embeddings endpoint for a batch of texts.
type RemoteClient interface {
	Embeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// APIEmbedder delegates to a remote embeddings endpoint.
type APIEmbedder struct {
	client     RemoteClient
	dimensions int
}

// NewAPIEmbedder wraps client. dimensions of 0 accepts whatever width the endpoint returns.
func NewAPIEmbedder(client RemoteClient, dimensions int) *APIEmbedder {
	return &APIEmbedder{client: client, dimensions: dimensions}
}

// Embed embeds a single text.
func (e *APIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedBatch embeds texts in one request and normalizes every vector.
func (e *APIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	out, err := e.client.Embeddings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embeddings request: %w", err)
	}
	if len(out) != len(texts) {
		return nil, fmt.Errorf("embeddings response has %d vectors for %d texts", len(out), len(texts))
	}
	for i, vec := range out {
		if e.dimensions > 0 && len(vec) != e.dimensions {
			return nil, fmt.Errorf("embedding %d has %d dimensions, expected %d", i, len(vec), e.dimensions)
		}
		utils.NormalizeL2(vec)
	}
	return out, nil
}

// Dimensions returns the configured width.
func (e *APIEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op; the HTTP client is owned by the caller.
func (e *APIEmbedder) Close() error {
	return nil
}
