package embedding

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperjump/brainboard/internal/storage"
)

func TestEmbeddingCache_GetSet(t *testing.T) {
	c := NewEmbeddingCache(2)
	v, ok := c.Get("a")
	assert.False(t, ok)
	assert.Nil(t, v)

	c.Set("a", []float32{1, 2, 3})
	v, ok = c.Get("a")
	require.True(t, ok)
	assert.Equal(t, []float32{1, 2, 3}, v)

	c.Set("b", []float32{4, 5})
	// touching a leaves b as the oldest entry
	c.Get("a")
	c.Set("c", []float32{6})
	_, ok = c.Get("b")
	assert.False(t, ok, "b should be evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("m", "hello"), Key("m", "hello"))
	assert.NotEqual(t, Key("m", "hello"), Key("n", "hello"))
	assert.NotEqual(t, Key("m", "hello"), Key("m", "hello!"))
	assert.Contains(t, Key("mini", "x"), "mini:")
}

type countingEmbedder struct {
	*MockEmbedder
	calls int
	texts int
	err   error
}

func (c *countingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.calls++
	c.texts += len(texts)
	if c.err != nil {
		return nil, c.err
	}
	return c.MockEmbedder.EmbedBatch(ctx, texts)
}

type countingMetrics struct{ hits, misses int }

func (m *countingMetrics) CacheHit()  { m.hits++ }
func (m *countingMetrics) CacheMiss() { m.misses++ }

func TestCachedEmbedder_SendsOnlyMisses(t *testing.T) {
	inner := &countingEmbedder{MockEmbedder: NewMockEmbedder(16)}
	metrics := &countingMetrics{}
	c := NewCachedEmbedder(inner, "mock", 10, WithCacheMetrics(metrics))
	ctx := context.Background()

	first, err := c.EmbedBatch(ctx, []string{"solar panels", "wind farms"})
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := c.EmbedBatch(ctx, []string{"wind farms", "tidal power", "solar panels"})
	require.NoError(t, err)
	assert.Equal(t, first[1], second[0])
	assert.Equal(t, first[0], second[2])

	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 3, inner.texts)
	assert.Equal(t, 2, metrics.hits)
	assert.Equal(t, 3, metrics.misses)
}

func TestCachedEmbedder_PersistentTier(t *testing.T) {
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "emb.db"))
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	warm := NewCachedEmbedder(NewMockEmbedder(8), "mock", 4, WithStore(store))
	want, err := warm.Embed(ctx, "reuse fabric offcuts")
	require.NoError(t, err)

	inner := &countingEmbedder{MockEmbedder: NewMockEmbedder(8)}
	cold := NewCachedEmbedder(inner, "mock", 4, WithStore(store))
	got, err := cold.Embed(ctx, "reuse fabric offcuts")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 0, inner.calls)
}

func TestCachedEmbedder_InnerError(t *testing.T) {
	boom := errors.New("provider down")
	c := NewCachedEmbedder(&countingEmbedder{MockEmbedder: NewMockEmbedder(4), err: boom}, "mock", 4)
	_, err := c.Embed(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
}
