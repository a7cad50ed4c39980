// Package vector holds embedding math for the model-backed strategy:
// cosine similarity, a brute-force top-k index and k-means grouping.
package vector

import "context"

// Index stores card vectors and answers nearest-neighbour queries.
type Index interface {
	Add(ctx context.Context, ids []string, vectors [][]float32) error
	Search(ctx context.Context, query []float32, k int) ([]*Result, error)
	Size() int
	Close() error
}

// Result is a single vector search hit keyed by card ID.
type Result struct {
	ID    string
	Score float64 // cosine similarity in [-1, 1]
}
