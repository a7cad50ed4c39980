package ranking

import (
	"sort"

	"github.com/hyperjump/brainboard/internal/lexicon"
	"github.com/hyperjump/brainboard/internal/models"
)

// Ranker sums its scorers to rank cards.
type Ranker struct {
	config   *RankingConfig
	analyzer *QueryAnalyzer
	exact    *ExactScorer
	keyword  *KeywordScorer
	partial  *PartialScorer
}

// NewRanker creates a new Ranker with the given configuration.
func NewRanker(config *RankingConfig) *Ranker {
	if config == nil {
		config = DefaultRankingConfig()
	}
	config.ApplyDefaults()

	return &Ranker{
		config:   config,
		analyzer: NewQueryAnalyzer(nil),
		exact:    NewExactScorer(config),
		keyword:  NewKeywordScorer(config),
		partial:  NewPartialScorer(config),
	}
}

func (r *Ranker) scorers() []Scorer {
	return []Scorer{r.exact, r.keyword, r.partial}
}

// AnalyzeQuery parses and analyzes a query string.
func (r *Ranker) AnalyzeQuery(query string, set *lexicon.Set) *AnalyzedQuery {
	return r.analyzer.Analyze(query, set)
}

// Rank returns the relevance of card for query.
func (r *Ranker) Rank(query *AnalyzedQuery, card *models.Card, set *lexicon.Set) float64 {
	return r.RankWithContext(r.analyzer.Context(query, card, set))
}

// RankWithContext calculates the score using a pre-built context.
func (r *Ranker) RankWithContext(ctx *ScoringContext) float64 {
	var score float64
	for _, s := range r.scorers() {
		score += s.Score(ctx)
	}
	return score
}

// RankWithBreakdown returns detailed scoring information.
func (r *Ranker) RankWithBreakdown(query *AnalyzedQuery, card *models.Card, set *lexicon.Set) *ScoreBreakdown {
	ctx := r.analyzer.Context(query, card, set)
	breakdown := NewScoreBreakdown()
	for _, s := range r.scorers() {
		v := s.Score(ctx)
		breakdown.Scores[s.Name()] = v
		breakdown.FinalScore += v
	}
	switch {
	case breakdown.Scores[r.exact.Name()] > 0:
		breakdown.MatchType = MatchTypeExact
	case breakdown.Scores[r.keyword.Name()] > 0:
		breakdown.MatchType = MatchTypeKeyword
	case breakdown.Scores[r.partial.Name()] > 0:
		breakdown.MatchType = MatchTypePartial
	}
	return breakdown
}

// Search ranks cards against query. Blank queries and zero-relevance cards
// yield nothing. Equal scores keep input order.
func (r *Ranker) Search(cards []models.Card, query string, set *lexicon.Set) []models.SearchResult {
	results := []models.SearchResult{}
	q := r.AnalyzeQuery(query, set)
	if q.Empty() {
		return results
	}
	for i := range cards {
		score := r.Rank(q, &cards[i], set)
		if score <= 0 {
			continue
		}
		results = append(results, models.SearchResult{
			ID:        cards[i].ID,
			Content:   cards[i].Content,
			Relevance: score,
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})
	return results
}

// Explanation is a search hit with the contribution of each scorer.
type Explanation struct {
	Result    models.SearchResult
	Breakdown *ScoreBreakdown
}

// Explain ranks cards like Search and keeps each hit's score breakdown.
func (r *Ranker) Explain(cards []models.Card, query string, set *lexicon.Set) []Explanation {
	out := []Explanation{}
	q := r.AnalyzeQuery(query, set)
	if q.Empty() {
		return out
	}
	for i := range cards {
		b := r.RankWithBreakdown(q, &cards[i], set)
		if b.FinalScore <= 0 {
			continue
		}
		out = append(out, Explanation{
			Result: models.SearchResult{
				ID:        cards[i].ID,
				Content:   cards[i].Content,
				Relevance: b.FinalScore,
			},
			Breakdown: b,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Result.Relevance > out[j].Result.Relevance
	})
	return out
}
