package external

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperjump/brainboard/internal/embedding"
	"github.com/hyperjump/brainboard/internal/llm"
	"github.com/hyperjump/brainboard/internal/models"
	"github.com/hyperjump/brainboard/internal/suggest"
	"github.com/hyperjump/brainboard/internal/summary"
)

type fakeChat struct {
	reply   string
	err     error
	prompts []llm.Prompt
}

func (f *fakeChat) Chat(_ context.Context, p llm.Prompt) (string, error) {
	f.prompts = append(f.prompts, p)
	return f.reply, f.err
}

func (f *fakeChat) ChatJSON(ctx context.Context, p llm.Prompt, out any) error {
	text, err := f.Chat(ctx, p)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(text), out)
}

func cardsOf(contents ...string) []models.Card {
	cards := make([]models.Card, len(contents))
	for i, c := range contents {
		cards[i] = models.Card{ID: string(rune('a' + i)), Content: c}
	}
	return cards
}

func TestAnalyzeMood(t *testing.T) {
	chat := &fakeChat{reply: `{"mood":"Positive"}`}
	s := New(chat, embedding.NewMockEmbedder(16))

	m, err := s.AnalyzeMood(context.Background(), "love it")
	require.NoError(t, err)
	assert.Equal(t, models.MoodPositive, m)
	require.Len(t, chat.prompts, 1)
	assert.Equal(t, `Idea: """love it"""`, chat.prompts[0].User)

	chat.reply = `{"mood":"ecstatic"}`
	_, err = s.AnalyzeMood(context.Background(), "x")
	assert.Error(t, err)

	chat.err = errors.New("down")
	_, err = s.AnalyzeMood(context.Background(), "x")
	assert.Error(t, err)
}

func TestClusterCards(t *testing.T) {
	s := New(&fakeChat{}, embedding.NewMockEmbedder(4096))
	cards := cardsOf(
		"recycled denim jackets",
		"quarterly budget spreadsheet",
		"recycled denim jeans",
		"quarterly budget review",
	)
	clusters, err := s.ClusterCards(context.Background(), cards)
	require.NoError(t, err)
	require.Len(t, clusters, 2)

	assert.Equal(t, []string{"a", "c"}, clusters[0].CardIDs)
	assert.Equal(t, "recycled • denim • jackets", clusters[0].Name)
	assert.Equal(t, Palette[0], clusters[0].Color)
	assert.Equal(t, []string{"b", "d"}, clusters[1].CardIDs)
	assert.Equal(t, "quarterly • budget • spreadsheet", clusters[1].Name)
	assert.Equal(t, Palette[1], clusters[1].Color)
	assert.NotEqual(t, clusters[0].ID, clusters[1].ID)
}

func TestClusterCards_FallbackLabel(t *testing.T) {
	s := New(&fakeChat{}, embedding.NewMockEmbedder(64))
	clusters, err := s.ClusterCards(context.Background(), cardsOf("a b", "to of"))
	require.NoError(t, err)
	require.NotEmpty(t, clusters)
	assert.Equal(t, "Cluster 1", clusters[0].Name)
}

func TestClusterCards_FewerThanTwo(t *testing.T) {
	s := New(&fakeChat{}, embedding.NewMockEmbedder(8))
	clusters, err := s.ClusterCards(context.Background(), cardsOf("only"))
	require.NoError(t, err)
	assert.NotNil(t, clusters)
	assert.Empty(t, clusters)
}

func TestGenerateSuggestions(t *testing.T) {
	chat := &fakeChat{reply: "- Run a pilot\n\n* Interview five users\n  Map the supply chain  \n"}
	s := New(chat, embedding.NewMockEmbedder(8))

	out, err := s.GenerateSuggestions(context.Background(), cardsOf("idea one", "idea two"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Run a pilot", "Interview five users", "Map the supply chain"}, out)
	assert.Equal(t, "Based on these cards:\n(1) idea one\n(2) idea two\n\nGenerate concise, actionable suggestions (one per line).", chat.prompts[0].User)

	chat.reply = "\n \n"
	_, err = s.GenerateSuggestions(context.Background(), cardsOf("x"))
	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestGenerateSuggestions_EmptyBoard(t *testing.T) {
	chat := &fakeChat{}
	out, err := New(chat, embedding.NewMockEmbedder(8)).GenerateSuggestions(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{suggest.Placeholder}, out)
	assert.Empty(t, chat.prompts)
}

func TestParseSuggestions_Cap(t *testing.T) {
	lines := make([]string, 14)
	for i := range lines {
		lines[i] = "- tip"
	}
	assert.Len(t, ParseSuggestions(strings.Join(lines, "\n")), MaxSuggestions)
}

func TestSummarizeBoard(t *testing.T) {
	chat := &fakeChat{reply: `{"summary":"A focused board.","keyThemes":["Pricing"],"topIdeas":["Tiered plans"],"nextSteps":["Survey users","Draft tiers"]}`}
	s := New(chat, embedding.NewMockEmbedder(8))

	sum, err := s.SummarizeBoard(context.Background(), cardsOf("tiered plans", "pricing page"))
	require.NoError(t, err)
	assert.Equal(t, "A focused board.", sum.Summary)
	assert.Equal(t, []string{"Survey users", "Draft tiers"}, sum.NextSteps)
	assert.True(t, strings.HasPrefix(chat.prompts[0].User, "Cards:\n- (1) tiered plans\n- (2) pricing page"))

	chat.reply = `{"summary":"x","keyThemes":[],"topIdeas":["a"],"nextSteps":["b"]}`
	_, err = s.SummarizeBoard(context.Background(), cardsOf("x"))
	assert.Error(t, err)

	chat.reply = `{"summary":"x","keyThemes":["1","2","3","4","5","6"],"topIdeas":["a"],"nextSteps":["b"]}`
	_, err = s.SummarizeBoard(context.Background(), cardsOf("x"))
	assert.Error(t, err)
}

func TestSummarizeBoard_EmptyBoard(t *testing.T) {
	sum, err := New(&fakeChat{}, embedding.NewMockEmbedder(8)).SummarizeBoard(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, summary.EmptyText, sum.Summary)
}

func TestSearchCards(t *testing.T) {
	s := New(&fakeChat{}, embedding.NewMockEmbedder(4096))
	results, err := s.SearchCards(context.Background(), cardsOf("solar roof tiles", "team offsite"), "solar")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].ID)
}

func TestAgainstChatServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"mood\":\"negative\"}"}}]}`))
	}))
	defer srv.Close()

	client := llm.NewClient(llm.Config{BaseURL: srv.URL, Model: "test"})
	m, err := New(client, embedding.NewMockEmbedder(8)).AnalyzeMood(context.Background(), "this is broken")
	require.NoError(t, err)
	assert.Equal(t, models.MoodNegative, m)
}
