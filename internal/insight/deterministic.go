package insight

import (
	"context"

	"github.com/hyperjump/brainboard/internal/cluster"
	"github.com/hyperjump/brainboard/internal/lexicon"
	"github.com/hyperjump/brainboard/internal/models"
	"github.com/hyperjump/brainboard/internal/mood"
	"github.com/hyperjump/brainboard/internal/ranking"
	"github.com/hyperjump/brainboard/internal/suggest"
	"github.com/hyperjump/brainboard/internal/summary"
)

// Deterministic runs the rule-based core. It never fails for well-formed
// input; errors only report a cancelled context.
type Deterministic struct {
	lexicons *lexicon.Registry
	ranker   *ranking.Ranker
}

// NewDeterministic creates the rule-based strategy. A nil registry uses the
// built-in pack only; a nil ranker uses default weights.
func NewDeterministic(lexicons *lexicon.Registry, ranker *ranking.Ranker) *Deterministic {
	if lexicons == nil {
		lexicons = lexicon.NewRegistry()
	}
	if ranker == nil {
		ranker = ranking.NewRanker(nil)
	}
	return &Deterministic{lexicons: lexicons, ranker: ranker}
}

// Name implements Strategy.
func (d *Deterministic) Name() string { return ModeDeterministic.String() }

// AnalyzeMood implements Strategy.
func (d *Deterministic) AnalyzeMood(ctx context.Context, content string) (models.Mood, error) {
	if err := ctx.Err(); err != nil {
		return models.MoodNeutral, err
	}
	return mood.Analyze(content), nil
}

// ClusterCards implements Strategy.
func (d *Deterministic) ClusterCards(ctx context.Context, cards []models.Card) ([]models.Cluster, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cluster.Cards(cards, d.lexicons.Snapshot()), nil
}

// SearchCards implements Strategy.
func (d *Deterministic) SearchCards(ctx context.Context, cards []models.Card, query string) ([]models.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.ranker.Search(cards, query, d.lexicons.Snapshot()), nil
}

// GenerateSuggestions implements Strategy.
func (d *Deterministic) GenerateSuggestions(ctx context.Context, cards []models.Card) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return suggest.Generate(cards, d.lexicons.Snapshot()), nil
}

// SummarizeBoard implements Strategy.
func (d *Deterministic) SummarizeBoard(ctx context.Context, cards []models.Card) (models.Summary, error) {
	if err := ctx.Err(); err != nil {
		return models.Summary{}, err
	}
	return summary.Board(cards, d.lexicons.Snapshot()), nil
}
