package ranking

import "strings"

// ExactScorer awards points when the whole query is a substring of the card.
type ExactScorer struct {
	points float64
}

// NewExactScorer creates an ExactScorer.
func NewExactScorer(config *RankingConfig) *ExactScorer {
	return &ExactScorer{points: config.ExactMatchScore}
}

// Score implements Scorer.
func (s *ExactScorer) Score(ctx *ScoringContext) float64 {
	if strings.Contains(ctx.Lower, ctx.Query.Lower) {
		return s.points
	}
	return 0
}

// Name implements Scorer.
func (s *ExactScorer) Name() string { return "exact" }

// KeywordScorer awards points per query keyword found among the card keywords.
type KeywordScorer struct {
	points float64
}

// NewKeywordScorer creates a KeywordScorer.
func NewKeywordScorer(config *RankingConfig) *KeywordScorer {
	return &KeywordScorer{points: config.KeywordMatchScore}
}

// Score implements Scorer.
func (s *KeywordScorer) Score(ctx *ScoringContext) float64 {
	var score float64
	for _, q := range ctx.Query.Keywords {
		if ContainsTerm(ctx.Keywords, q) {
			score += s.points
		}
	}
	return score
}

// Name implements Scorer.
func (s *KeywordScorer) Name() string { return "keyword" }

// PartialScorer awards points for every (query keyword, card keyword) pair
// where one contains the other. Exact keyword hits are counted again here.
type PartialScorer struct {
	points float64
}

// NewPartialScorer creates a PartialScorer.
func NewPartialScorer(config *RankingConfig) *PartialScorer {
	return &PartialScorer{points: config.PartialMatchScore}
}

// Score implements Scorer.
func (s *PartialScorer) Score(ctx *ScoringContext) float64 {
	var score float64
	for _, q := range ctx.Query.Keywords {
		for _, c := range ctx.Keywords {
			if Overlaps(c, q) {
				score += s.points
			}
		}
	}
	return score
}

// Name implements Scorer.
func (s *PartialScorer) Name() string { return "partial" }
