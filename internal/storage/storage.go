// Package storage persists computed embeddings so repeated boards do not pay
// for the same provider call twice.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no embedding is cached for a key.
var ErrNotFound = errors.New("embedding not found")

// Storage defines embedding cache persistence operations.
type Storage interface {
	GetEmbedding(ctx context.Context, key string) ([]float32, error)
	PutEmbedding(ctx context.Context, key, model string, vector []float32) error
	BatchPutEmbeddings(ctx context.Context, model string, entries map[string][]float32) error
	DeleteModel(ctx context.Context, model string) error
	CountEmbeddings(ctx context.Context) (int64, error)
	Close() error
}
