package embedding

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/hyperjump/brainboard/internal/storage"
)

// EmbeddingCache is an LRU cache for embeddings keyed by Key.
type EmbeddingCache struct {
	capacity int
	cache    map[string]*list.Element
	lru      *list.List
	mu       sync.Mutex
}

type cacheEntry struct {
	key   string
	value []float32
}

// NewEmbeddingCache creates a new cache with the given capacity.
func NewEmbeddingCache(capacity int) *EmbeddingCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &EmbeddingCache{
		capacity: capacity,
		cache:    make(map[string]*list.Element),
		lru:      list.New(),
	}
}

// Get returns the cached embedding for key if present.
func (c *EmbeddingCache) Get(key string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		return elem.Value.(*cacheEntry).value, true
	}
	return nil, false
}

// Set stores the embedding for key, evicting the oldest entry if at capacity.
func (c *EmbeddingCache) Set(key string, value []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*cacheEntry).value = value
		return
	}

	entry := &cacheEntry{key: key, value: value}
	elem := c.lru.PushFront(entry)
	c.cache[key] = elem

	if c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		if oldest != nil {
			c.lru.Remove(oldest)
			delete(c.cache, oldest.Value.(*cacheEntry).key)
		}
	}
}

// Len returns the number of cached entries.
func (c *EmbeddingCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Key identifies text embedded by model.
func Key(model, text string) string {
	sum := sha256.Sum256([]byte(text))
	return model + ":" + hex.EncodeToString(sum[:])
}

// Store is the persistent tier behind the LRU.
type Store interface {
	GetEmbedding(ctx context.Context, key string) ([]float32, error)
	PutEmbedding(ctx context.Context, key, model string, vector []float32) error
}

// CacheMetrics receives hit and miss counts.
type CacheMetrics interface {
	CacheHit()
	CacheMiss()
}

// CachedEmbedder checks an LRU, then an optional Store, before calling the
// wrapped Embedder. Store failures are logged and treated as misses.
type CachedEmbedder struct {
	inner   Embedder
	model   string
	lru     *EmbeddingCache
	store   Store
	metrics CacheMetrics
	logger  *zap.Logger
}

// CacheOption configures a CachedEmbedder.
type CacheOption func(*CachedEmbedder)

// WithStore adds a persistent tier.
func WithStore(s Store) CacheOption {
	return func(c *CachedEmbedder) { c.store = s }
}

// WithCacheMetrics reports hits and misses to m.
func WithCacheMetrics(m CacheMetrics) CacheOption {
	return func(c *CachedEmbedder) { c.metrics = m }
}

// WithCacheLogger sets the logger.
func WithCacheLogger(l *zap.Logger) CacheOption {
	return func(c *CachedEmbedder) { c.logger = l }
}

// NewCachedEmbedder wraps inner with a capacity-bounded LRU keyed by model.
func NewCachedEmbedder(inner Embedder, model string, capacity int, opts ...CacheOption) *CachedEmbedder {
	c := &CachedEmbedder{
		inner:  inner,
		model:  model,
		lru:    NewEmbeddingCache(capacity),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Embed returns the embedding for text.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedBatch resolves cached texts and sends only the misses to the wrapped
// Embedder, in one batch.
func (c *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	keys := make([]string, len(texts))
	var missIdx []int
	var missTexts []string

	for i, text := range texts {
		keys[i] = Key(c.model, text)
		if vec, ok := c.lookup(ctx, keys[i]); ok {
			c.hit()
			out[i] = vec
			continue
		}
		c.miss()
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}
	if len(missTexts) == 0 {
		return out, nil
	}

	fresh, err := c.inner.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missTexts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(fresh), len(missTexts))
	}
	for j, i := range missIdx {
		out[i] = fresh[j]
		c.lru.Set(keys[i], fresh[j])
		if c.store != nil {
			if err := c.store.PutEmbedding(ctx, keys[i], c.model, fresh[j]); err != nil {
				c.logger.Warn("Failed to persist embedding", zap.String("key", keys[i]), zap.Error(err))
			}
		}
	}
	return out, nil
}

func (c *CachedEmbedder) lookup(ctx context.Context, key string) ([]float32, bool) {
	if vec, ok := c.lru.Get(key); ok {
		return vec, true
	}
	if c.store == nil {
		return nil, false
	}
	vec, err := c.store.GetEmbedding(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			c.logger.Warn("Embedding cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	c.lru.Set(key, vec)
	return vec, true
}

func (c *CachedEmbedder) hit() {
	if c.metrics != nil {
		c.metrics.CacheHit()
	}
}

func (c *CachedEmbedder) miss() {
	if c.metrics != nil {
		c.metrics.CacheMiss()
	}
}

// Dimensions returns the wrapped embedder's width.
func (c *CachedEmbedder) Dimensions() int {
	return c.inner.Dimensions()
}

// Close closes the wrapped embedder. The store is owned by the caller.
func (c *CachedEmbedder) Close() error {
	return c.inner.Close()
}
