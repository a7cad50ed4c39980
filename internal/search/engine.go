package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hyperjump/brainboard/internal/embedding"
	"github.com/hyperjump/brainboard/internal/keyword"
	"github.com/hyperjump/brainboard/internal/models"
	"github.com/hyperjump/brainboard/internal/vector"
)

// Config weights the two halves of a hybrid search.
type Config struct {
	KeywordWeight  float64 `yaml:"keyword_weight"`
	SemanticWeight float64 `yaml:"semantic_weight"`
	TopK           int     `yaml:"top_k"`
	Fuzzy          bool    `yaml:"fuzzy"`
	PhraseBoost    float64 `yaml:"phrase_boost"`
}

// DefaultConfig returns keyword 0.3, semantic 0.7, top 20.
func DefaultConfig() Config {
	return Config{
		KeywordWeight:  0.3,
		SemanticWeight: 0.7,
		TopK:           20,
		PhraseBoost:    1.5,
	}
}

// Engine runs hybrid search. Indexes are built per call and discarded, so
// an Engine holds no board state.
type Engine struct {
	embedder embedding.Embedder
	config   Config
}

// NewEngine creates a search engine over embedder.
func NewEngine(embedder embedding.Embedder, cfg Config) *Engine {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultConfig().TopK
	}
	if cfg.KeywordWeight == 0 && cfg.SemanticWeight == 0 {
		d := DefaultConfig()
		cfg.KeywordWeight, cfg.SemanticWeight = d.KeywordWeight, d.SemanticWeight
	}
	return &Engine{embedder: embedder, config: cfg}
}

// Search ranks cards against query. A blank query returns an empty list.
// Cards are keyed by position, so duplicate card IDs are ranked separately.
func (e *Engine) Search(ctx context.Context, cards []models.Card, query string) ([]models.SearchResult, error) {
	if strings.TrimSpace(query) == "" || len(cards) == 0 {
		return []models.SearchResult{}, nil
	}

	keys := make([]string, len(cards))
	contents := make([]string, len(cards))
	for i, c := range cards {
		keys[i] = strconv.Itoa(i)
		contents[i] = c.Content
	}

	var keywordScores, semanticScores map[string]float64
	g, gctx := errgroup.WithContext(ctx)

	if e.config.KeywordWeight > 0 {
		g.Go(func() error {
			idx, err := keyword.NewCardIndex()
			if err != nil {
				return err
			}
			defer idx.Close()
			if err := idx.IndexAll(gctx, keys, contents); err != nil {
				return err
			}
			hits, err := idx.Search(gctx, query, len(keys), &keyword.SearchOptions{
				PhraseBoost:  e.config.PhraseBoost,
				FuzzyEnabled: e.config.Fuzzy,
			})
			if err != nil {
				return fmt.Errorf("keyword search failed: %w", err)
			}
			keywordScores = NormalizeKeywordScores(hits)
			return nil
		})
	}

	if e.config.SemanticWeight > 0 {
		g.Go(func() error {
			texts := make([]string, 0, len(contents)+1)
			texts = append(append(texts, contents...), query)
			vectors, err := e.embedder.EmbedBatch(gctx, texts)
			if err != nil {
				return fmt.Errorf("embedding failed: %w", err)
			}
			queryVec := vectors[len(vectors)-1]
			idx, err := vector.NewMemoryIndex(len(queryVec))
			if err != nil {
				return err
			}
			defer idx.Close()
			if err := idx.Add(gctx, keys, vectors[:len(keys)]); err != nil {
				return err
			}
			hits, err := idx.Search(gctx, queryVec, len(keys))
			if err != nil {
				return fmt.Errorf("vector search failed: %w", err)
			}
			semanticScores = NormalizeSemanticScores(hits)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	fused := Fuse(keys, keywordScores, semanticScores, e.config.KeywordWeight, e.config.SemanticWeight)
	out := make([]models.SearchResult, 0, e.config.TopK)
	for _, r := range fused {
		if r.Score <= 0 || len(out) == e.config.TopK {
			break
		}
		i, _ := strconv.Atoi(r.ID)
		out = append(out, models.SearchResult{
			ID:        cards[i].ID,
			Content:   cards[i].Content,
			Relevance: r.Score,
		})
	}
	return out, nil
}
