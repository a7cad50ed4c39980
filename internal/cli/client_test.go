package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hyperjump/brainboard/internal/config"
	"github.com/hyperjump/brainboard/internal/insight"
	"github.com/hyperjump/brainboard/internal/lexicon"
	"github.com/hyperjump/brainboard/internal/models"
	"github.com/hyperjump/brainboard/internal/ranking"
	"github.com/hyperjump/brainboard/internal/server"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	det := insight.NewDeterministic(lexicon.NewRegistry(), ranking.NewRanker(nil))
	svc := insight.NewService(insight.ModeDeterministic, det, nil)
	cfg := &config.ServerConfig{Host: "localhost", Port: 8080, RequestTimeout: 5 * time.Second}
	ts := httptest.NewServer(server.NewServer(svc, "deterministic", cfg, nil, zap.NewNop()).Router())
	t.Cleanup(ts.Close)
	return NewClient(ts.URL+"/", ts.Client())
}

func TestClient_roundTrip(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	cards := []models.Card{
		{ID: "1", Content: "Crash when saving drafts"},
		{ID: "2", Content: "Crash on saving large drafts"},
	}

	mood, err := c.AnalyzeMood(ctx, "This is great!")
	require.NoError(t, err)
	assert.Equal(t, models.MoodPositive, mood)

	clusters, err := c.ClusterCards(ctx, cards)
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Equal(t, []string{"1", "2"}, clusters[0].CardIDs)

	results, err := c.SearchCards(ctx, cards, "crash")
	require.NoError(t, err)
	assert.NotEmpty(t, results)

	suggestions, err := c.GenerateSuggestions(ctx, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, suggestions)

	summary, err := c.SummarizeBoard(ctx, cards)
	require.NoError(t, err)
	assert.NotEmpty(t, summary.Summary)
}

func TestClient_serverError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to cluster cards"}`))
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL, nil).ClusterCards(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to cluster cards")
}
