package vector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryIndex_AddSearch(t *testing.T) {
	idx, err := NewMemoryIndex(3)
	require.NoError(t, err)
	defer idx.Close()
	ctx := context.Background()

	vecs := [][]float32{
		{1, 0, 0},
		{0.9, 0.1, 0},
		{0, 1, 0},
	}
	require.NoError(t, idx.Add(ctx, []string{"a", "b", "c"}, vecs))
	assert.Equal(t, 3, idx.Size())

	results, err := idx.Search(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].ID)
	assert.Equal(t, "b", results[1].ID)
}

func TestMemoryIndex_SearchUnnormalized(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	ctx := context.Background()
	require.NoError(t, idx.Add(ctx, []string{"long", "aligned"}, [][]float32{{10, 10}, {0.1, 0}}))

	results, err := idx.Search(ctx, []float32{3, 0}, 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "aligned", results[0].ID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
}

func TestMemoryIndex_DimensionMismatch(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	ctx := context.Background()
	assert.Error(t, idx.Add(ctx, []string{"x"}, [][]float32{{1, 2, 3}}))
	_, err := idx.Search(ctx, []float32{1}, 1)
	assert.Error(t, err)
	_, err = NewMemoryIndex(0)
	assert.Error(t, err)
}

func TestMemoryIndex_ZeroVectors(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	ctx := context.Background()
	require.NoError(t, idx.Add(ctx, []string{"empty", "x"}, [][]float32{{0, 0}, {1, 0}}))

	results, err := idx.Search(ctx, []float32{1, 0}, 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "x", results[0].ID)
	assert.Equal(t, 0.0, results[1].Score)

	results, err = idx.Search(ctx, []float32{0, 0}, 5)
	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, 0.0, r.Score)
	}
}

func TestMemoryIndex_AddCopies(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	ctx := context.Background()
	vec := []float32{2, 0}
	require.NoError(t, idx.Add(ctx, []string{"x"}, [][]float32{vec}))
	assert.Equal(t, []float32{2, 0}, vec)

	require.NoError(t, idx.Close())
	assert.Equal(t, 0, idx.Size())
}
