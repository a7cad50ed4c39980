package vector

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hyperjump/brainboard/pkg/utils"
)

// MemoryIndex holds one board's card vectors and ranks them by cosine
// similarity with a linear scan. Vectors are normalized on Add, so a query
// costs one inner product per card.
type MemoryIndex struct {
	mu         sync.RWMutex
	dimensions int
	ids        []string
	unit       [][]float32
	zero       []bool
}

var _ Index = (*MemoryIndex)(nil)

// NewMemoryIndex creates an empty index for vectors of the given width.
func NewMemoryIndex(dimensions int) (*MemoryIndex, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive, got %d", dimensions)
	}
	return &MemoryIndex{dimensions: dimensions}, nil
}

// Add stores vectors under ids. The caller's slices are copied.
func (m *MemoryIndex) Add(ctx context.Context, ids []string, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("%d ids for %d vectors", len(ids), len(vectors))
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	for i, v := range vectors {
		if len(v) != m.dimensions {
			return fmt.Errorf("vector %q has %d dimensions, expected %d", ids[i], len(v), m.dimensions)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, id := range ids {
		vec := make([]float32, m.dimensions)
		copy(vec, vectors[i])
		norm := utils.NormalizeL2(vec)
		m.ids = append(m.ids, id)
		m.unit = append(m.unit, vec)
		m.zero = append(m.zero, norm == 0)
	}
	return nil
}

// Search returns the k closest vectors to query, best first. Equal scores
// keep insertion order. Zero vectors score 0.
func (m *MemoryIndex) Search(ctx context.Context, query []float32, k int) ([]*Result, error) {
	if len(query) != m.dimensions {
		return nil, fmt.Errorf("query has %d dimensions, expected %d", len(query), m.dimensions)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := make([]float32, len(query))
	copy(q, query)
	qZero := utils.NormalizeL2(q) == 0

	m.mu.RLock()
	defer m.mu.RUnlock()
	if k <= 0 || len(m.ids) == 0 {
		return nil, nil
	}
	results := make([]*Result, len(m.ids))
	for i, vec := range m.unit {
		r := &Result{ID: m.ids[i]}
		if !qZero && !m.zero[i] {
			r.Score = InnerProduct(q, vec)
		}
		results[i] = r
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Size returns the number of stored vectors.
func (m *MemoryIndex) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.ids)
}

// Close releases the stored vectors.
func (m *MemoryIndex) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids, m.unit, m.zero = nil, nil, nil
	return nil
}
