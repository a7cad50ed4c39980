// Package ranking scores cards against a search query.
package ranking

import "github.com/hyperjump/brainboard/internal/models"

// MatchType represents the strongest signal found for a card.
type MatchType int

const (
	// MatchTypeNone indicates no signal fired.
	MatchTypeNone MatchType = iota
	// MatchTypePartial indicates a query keyword and a card keyword overlap as substrings.
	MatchTypePartial
	// MatchTypeKeyword indicates a query keyword appears among the card keywords.
	MatchTypeKeyword
	// MatchTypeExact indicates the whole query is a substring of the content.
	MatchTypeExact
)

// String returns a string representation of the match type.
func (m MatchType) String() string {
	switch m {
	case MatchTypeNone:
		return "none"
	case MatchTypePartial:
		return "partial"
	case MatchTypeKeyword:
		return "keyword"
	case MatchTypeExact:
		return "exact"
	default:
		return "unknown"
	}
}

// AnalyzedQuery holds the parsed form of a search query.
type AnalyzedQuery struct {
	// Original is the query as received.
	Original string
	// Lower is Original lower-cased, untrimmed.
	Lower string
	// Keywords are the extracted query keywords followed by their expansions.
	Keywords []string
}

// Empty reports whether the query is blank after trimming.
func (q *AnalyzedQuery) Empty() bool {
	return q == nil || len(trimmed(q.Original)) == 0
}

// ScoringContext provides everything a scorer needs for one card.
type ScoringContext struct {
	Query *AnalyzedQuery
	Card  *models.Card
	// Lower is the card content lower-cased.
	Lower string
	// Keywords are the card keywords followed by their expansions.
	Keywords []string
}

// Scorer is the interface for all scoring components.
type Scorer interface {
	// Score calculates the score for a card given the scoring context.
	Score(ctx *ScoringContext) float64
	// Name returns the name of the scorer for debugging/logging.
	Name() string
}

// ScoreBreakdown provides detailed scoring information for debugging.
type ScoreBreakdown struct {
	FinalScore float64
	// Scores holds each scorer's contribution by name.
	Scores    map[string]float64
	MatchType MatchType
}

// NewScoreBreakdown creates a new ScoreBreakdown instance.
func NewScoreBreakdown() *ScoreBreakdown {
	return &ScoreBreakdown{
		Scores: make(map[string]float64),
	}
}
