package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperjump/brainboard/internal/keyword"
	"github.com/hyperjump/brainboard/internal/vector"
)

func TestNormalizeKeywordScores(t *testing.T) {
	m := NormalizeKeywordScores([]*keyword.Result{
		{ID: "a", Score: 2},
		{ID: "b", Score: 4},
		{ID: "c", Score: 1},
	})
	assert.Equal(t, 1.0, m["b"])
	assert.Equal(t, 0.5, m["a"])
	assert.Len(t, m, 3)
	assert.Empty(t, NormalizeKeywordScores(nil))
}

func TestNormalizeSemanticScores(t *testing.T) {
	m := NormalizeSemanticScores([]*vector.Result{
		{ID: "c1", Score: 0.9},
		{ID: "c2", Score: -0.5},
		{ID: "c3", Score: 1.0000001},
	})
	assert.Equal(t, 0.9, m["c1"])
	assert.Equal(t, 0.0, m["c2"])
	assert.Equal(t, 1.0, m["c3"])
}

func TestFuse(t *testing.T) {
	kw := map[string]float64{"a": 1.0, "b": 0.5}
	sem := map[string]float64{"b": 0.9, "c": 0.8}
	results := Fuse([]string{"a", "b", "c", "d"}, kw, sem, 0.3, 0.7)
	require.Len(t, results, 3)
	assert.Equal(t, "b", results[0].ID)
	assert.InDelta(t, 0.3*0.5+0.7*0.9, results[0].Score, 1e-9)
	assert.Equal(t, "c", results[1].ID)
	assert.Equal(t, "a", results[2].ID)
}

func TestFuse_TiesKeepOrder(t *testing.T) {
	sem := map[string]float64{"x": 0.5, "y": 0.5, "z": 0.5}
	results := Fuse([]string{"z", "x", "y"}, nil, sem, 0.3, 0.7)
	require.Len(t, results, 3)
	assert.Equal(t, []string{"z", "x", "y"}, []string{results[0].ID, results[1].ID, results[2].ID})
}
