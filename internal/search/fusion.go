// Package search runs hybrid (keyword + semantic) search over one board's cards.
package search

import (
	"sort"

	"github.com/hyperjump/brainboard/internal/keyword"
	"github.com/hyperjump/brainboard/internal/vector"
	"github.com/hyperjump/brainboard/pkg/utils"
)

// FusedResult holds a card key and its fused keyword/semantic scores.
type FusedResult struct {
	ID            string
	Score         float64
	KeywordScore  float64
	SemanticScore float64
}

// NormalizeKeywordScores normalizes keyword scores to [0,1] by max.
func NormalizeKeywordScores(results []*keyword.Result) map[string]float64 {
	if len(results) == 0 {
		return make(map[string]float64)
	}
	maxScore := results[0].Score
	for _, r := range results {
		if r.Score > maxScore {
			maxScore = r.Score
		}
	}
	normalized := make(map[string]float64)
	for _, r := range results {
		if maxScore > 0 {
			normalized[r.ID] = r.Score / maxScore
		} else {
			normalized[r.ID] = 0
		}
	}
	return normalized
}

// NormalizeSemanticScores clamps cosine scores to [0,1].
func NormalizeSemanticScores(results []*vector.Result) map[string]float64 {
	normalized := make(map[string]float64)
	for _, r := range results {
		normalized[r.ID] = utils.Clamp01(r.Score)
	}
	return normalized
}

// Fuse merges keyword and semantic score maps with weights. Results are sorted
// by fused score; equal scores keep the position of their ID in order. IDs
// missing from order are dropped.
func Fuse(order []string, keywordScores, semanticScores map[string]float64, keywordWeight, semanticWeight float64) []*FusedResult {
	results := make([]*FusedResult, 0, len(order))
	for _, id := range order {
		kw, hasKW := keywordScores[id]
		sem, hasSem := semanticScores[id]
		if !hasKW && !hasSem {
			continue
		}
		results = append(results, &FusedResult{
			ID:            id,
			KeywordScore:  kw,
			SemanticScore: sem,
			Score:         keywordWeight*kw + semanticWeight*sem,
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results
}
