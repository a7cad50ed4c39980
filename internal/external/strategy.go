// Package external implements the model-backed strategy: embeddings for
// clustering and search, and a chat model for mood, summaries and suggestions.
package external

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/brainboard/internal/cluster"
	"github.com/hyperjump/brainboard/internal/embedding"
	"github.com/hyperjump/brainboard/internal/keyword"
	"github.com/hyperjump/brainboard/internal/llm"
	"github.com/hyperjump/brainboard/internal/models"
	"github.com/hyperjump/brainboard/internal/search"
	"github.com/hyperjump/brainboard/internal/suggest"
	"github.com/hyperjump/brainboard/internal/summary"
	"github.com/hyperjump/brainboard/internal/vector"
)

// Name is the strategy name reported in metrics and logs.
const Name = "external"

// MaxSuggestions caps the lines kept from a suggestion reply.
const MaxSuggestions = 10

// Palette colors model-built clusters by position.
var Palette = []string{"#0ea5e9", "#10b981", "#f59e0b", "#ef4444", "#8b5cf6", "#14b8a6"}

// ErrEmptyReply is returned when the model produced nothing usable.
var ErrEmptyReply = errors.New("external: empty reply")

var bulletPattern = regexp.MustCompile(`^[-*]\s*`)

// ChatClient is the subset of llm.Client the strategy needs.
type ChatClient interface {
	Chat(ctx context.Context, p llm.Prompt) (string, error)
	ChatJSON(ctx context.Context, p llm.Prompt, out any) error
}

// Strategy is safe for concurrent use; every call builds its own indexes.
type Strategy struct {
	chat     ChatClient
	embedder embedding.Embedder
	search   *search.Engine
	logger   *zap.Logger
}

// Option configures a Strategy.
type Option func(*Strategy)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Strategy) { s.logger = l }
}

// WithSearchConfig replaces the default hybrid search weights.
func WithSearchConfig(cfg search.Config) Option {
	return func(s *Strategy) { s.search = search.NewEngine(s.embedder, cfg) }
}

// New creates the strategy.
func New(chat ChatClient, embedder embedding.Embedder, opts ...Option) *Strategy {
	s := &Strategy{
		chat:     chat,
		embedder: embedder,
		search:   search.NewEngine(embedder, search.DefaultConfig()),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements insight.Strategy.
func (s *Strategy) Name() string { return Name }

// AnalyzeMood asks the model for a mood label and rejects anything outside
// the three known labels.
func (s *Strategy) AnalyzeMood(ctx context.Context, content string) (models.Mood, error) {
	var reply models.MoodResponse
	err := s.chat.ChatJSON(ctx, llm.Prompt{
		System:      moodSystem,
		User:        moodPrompt(content),
		Temperature: 0.2,
	}, &reply)
	if err != nil {
		return models.MoodNeutral, err
	}
	reply.Mood = models.Mood(strings.ToLower(strings.TrimSpace(string(reply.Mood))))
	if err := models.Validate(reply); err != nil {
		return models.MoodNeutral, fmt.Errorf("invalid mood reply: %w", err)
	}
	return reply.Mood, nil
}

// ClusterCards groups cards by k-means over their embeddings. Clusters are
// returned in order of their first member card.
func (s *Strategy) ClusterCards(ctx context.Context, cards []models.Card) ([]models.Cluster, error) {
	if len(cards) < 2 {
		return []models.Cluster{}, nil
	}
	contents := models.Contents(cards)
	vectors, err := s.embedder.EmbedBatch(ctx, contents)
	if err != nil {
		return nil, fmt.Errorf("embed cards: %w", err)
	}
	k := vector.ClusterCount(len(cards))
	assign, err := vector.KMeans(ctx, vectors, k)
	if err != nil {
		return nil, err
	}

	type group struct {
		ids   []string
		texts []string
	}
	var order []*group
	byIndex := make(map[int]*group)
	for i, c := range assign {
		g, ok := byIndex[c]
		if !ok {
			g = &group{}
			byIndex[c] = g
			order = append(order, g)
		}
		g.ids = append(g.ids, cards[i].ID)
		g.texts = append(g.texts, cards[i].Content)
	}

	out := make([]models.Cluster, 0, len(order))
	for i, g := range order {
		name := fmt.Sprintf("Cluster %d", i+1)
		if top := keyword.Short.Count(g.texts...).Top(3); len(top) > 0 {
			name = strings.Join(top, " • ")
		}
		out = append(out, models.Cluster{
			ID:      cluster.ID(name, g.ids),
			Name:    name,
			CardIDs: g.ids,
			Color:   Palette[i%len(Palette)],
		})
	}
	s.logger.Debug("Clustered cards", zap.Int("cards", len(cards)), zap.Int("k", k), zap.Int("clusters", len(out)))
	return out, nil
}

// SearchCards runs hybrid keyword + semantic search.
func (s *Strategy) SearchCards(ctx context.Context, cards []models.Card, query string) ([]models.SearchResult, error) {
	return s.search.Search(ctx, cards, query)
}

// GenerateSuggestions asks the model for one suggestion per line.
func (s *Strategy) GenerateSuggestions(ctx context.Context, cards []models.Card) ([]string, error) {
	if len(cards) == 0 {
		return suggest.Generate(nil, nil), nil
	}
	text, err := s.chat.Chat(ctx, llm.Prompt{
		System:      suggestionsSystem,
		User:        suggestionsPrompt(cards),
		Temperature: 0.4,
		MaxTokens:   500,
	})
	if err != nil {
		return nil, err
	}
	out := ParseSuggestions(text)
	if len(out) == 0 {
		return nil, ErrEmptyReply
	}
	return out, nil
}

// ParseSuggestions splits a reply into lines, strips leading "-" or "*"
// bullets, drops blanks and keeps at most MaxSuggestions.
func ParseSuggestions(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(bulletPattern.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}

// SummarizeBoard asks the model for a structured summary and validates it.
func (s *Strategy) SummarizeBoard(ctx context.Context, cards []models.Card) (models.Summary, error) {
	if len(cards) == 0 {
		return summary.Board(nil, nil), nil
	}
	var out models.Summary
	err := s.chat.ChatJSON(ctx, llm.Prompt{
		System:      summarySystem,
		User:        summaryPrompt(cards),
		Temperature: 0.3,
	}, &out)
	if err != nil {
		return models.Summary{}, err
	}
	if err := models.Validate(out); err != nil {
		return models.Summary{}, fmt.Errorf("invalid summary reply: %w", err)
	}
	return out, nil
}
