package ranking

import (
	"strings"

	"github.com/hyperjump/brainboard/internal/keyword"
	"github.com/hyperjump/brainboard/internal/lexicon"
	"github.com/hyperjump/brainboard/internal/models"
)

// QueryAnalyzer turns queries and cards into expanded keyword lists.
type QueryAnalyzer struct {
	extractor *keyword.Extractor
}

// NewQueryAnalyzer creates an analyzer over extractor; nil uses keyword.Short.
func NewQueryAnalyzer(extractor *keyword.Extractor) *QueryAnalyzer {
	if extractor == nil {
		extractor = keyword.Short
	}
	return &QueryAnalyzer{extractor: extractor}
}

// Analyze parses a query string and returns an AnalyzedQuery.
func (qa *QueryAnalyzer) Analyze(query string, set *lexicon.Set) *AnalyzedQuery {
	return &AnalyzedQuery{
		Original: query,
		Lower:    strings.ToLower(query),
		Keywords: set.Expand(qa.extractor.Extract(query)),
	}
}

// Context builds the scoring context for one card.
func (qa *QueryAnalyzer) Context(q *AnalyzedQuery, card *models.Card, set *lexicon.Set) *ScoringContext {
	return &ScoringContext{
		Query:    q,
		Card:     card,
		Lower:    strings.ToLower(card.Content),
		Keywords: set.Expand(qa.extractor.Extract(card.Content)),
	}
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}

// ContainsTerm reports whether term is one of terms.
func ContainsTerm(terms []string, term string) bool {
	for _, t := range terms {
		if t == term {
			return true
		}
	}
	return false
}

// Overlaps reports whether a contains b or b contains a.
func Overlaps(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}
