package suggest

import (
	"fmt"
	"testing"

	"github.com/hyperjump/brainboard/internal/lexicon"
	"github.com/hyperjump/brainboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cardsOf(contents ...string) []models.Card {
	cards := make([]models.Card, len(contents))
	for i, c := range contents {
		cards[i] = models.Card{ID: fmt.Sprint(i + 1), Content: c}
	}
	return cards
}

func assertDistinct(t *testing.T, items []string) {
	t.Helper()
	seen := map[string]bool{}
	for _, s := range items {
		assert.False(t, seen[s], "duplicate suggestion %q", s)
		seen[s] = true
	}
}

func TestGenerate_Empty(t *testing.T) {
	assert.Equal(t, []string{Placeholder}, Generate(nil, lexicon.NewSet()))
}

func TestGenerate_Rules(t *testing.T) {
	got := Generate(cardsOf(
		"Should we add a customer feature?",
		"Redesign the database interface",
	), lexicon.NewSet())

	require.Len(t, got, Limit)
	assert.Equal(t, []string{
		tipDiversify,
		tipQuestions,
		tipBreakDown,
		"Gather user feedback or conduct user research to validate these ideas",
		"Create user stories or acceptance criteria for each feature to clarify requirements",
		"Sketch wireframes or mockups to visualize the design concepts before implementation",
		"Define data models and relationships to ensure scalable architecture",
	}, got)
}

func TestGenerate_PadsFromPool(t *testing.T) {
	got := Generate(cardsOf("Quarterly offsite agenda", "Team lunch", "Office plants"), lexicon.NewSet())
	// no specific rule fires, so the whole pool is used and the list stops short
	assert.Equal(t, Generic, got)
	assertDistinct(t, got)
}

func TestGenerate_Prioritize(t *testing.T) {
	contents := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot"}
	got := Generate(cardsOf(contents...), lexicon.NewSet())
	require.NotEmpty(t, got)
	assert.Equal(t, tipPrioritize, got[0])

	contents[0] = "URGENT alpha"
	got = Generate(cardsOf(contents...), lexicon.NewSet())
	assert.NotContains(t, got, tipPrioritize)
}

func TestGenerate_Domain(t *testing.T) {
	pack := lexicon.SustainableFashion()
	got := Generate(cardsOf("Organic cotton tote", "Repair pop-up", "Resale corner"), lexicon.NewSet())
	require.Len(t, got, Limit)
	assert.Equal(t, pack.Suggestions, got)
}

func TestGenerate_BoundsAndDistinct(t *testing.T) {
	boards := [][]string{
		{"x"},
		{"Fix the bug?"},
		{"Implement tests", "test data", "user design", "feature list", "eco cotton", "urgent", "more"},
		{"", "", ""},
	}
	for _, b := range boards {
		got := Generate(cardsOf(b...), lexicon.NewSet())
		assert.GreaterOrEqual(t, len(got), 1)
		assert.LessOrEqual(t, len(got), Limit)
		assertDistinct(t, got)
		assert.Equal(t, got, Generate(cardsOf(b...), lexicon.NewSet()), "deterministic")
	}
}

func TestDetect(t *testing.T) {
	f := Detect([]string{"Is this ASAP?", "nothing"})
	assert.Equal(t, Flags{Questions: true, Priority: true}, f)
	f = Detect([]string{"adding things"})
	assert.False(t, f.Actions, "word boundary: adding is not add")
}
