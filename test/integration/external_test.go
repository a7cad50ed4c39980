// Package integration drives the HTTP API over the external strategy against
// a fake OpenAI-compatible endpoint.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hyperjump/brainboard/internal/config"
	"github.com/hyperjump/brainboard/internal/embedding"
	"github.com/hyperjump/brainboard/internal/external"
	"github.com/hyperjump/brainboard/internal/insight"
	"github.com/hyperjump/brainboard/internal/lexicon"
	"github.com/hyperjump/brainboard/internal/llm"
	"github.com/hyperjump/brainboard/internal/models"
	"github.com/hyperjump/brainboard/internal/ranking"
	"github.com/hyperjump/brainboard/internal/server"
)

type fakeProvider struct {
	failing  atomic.Bool
	chats    atomic.Int32
	embedder *embedding.MockEmbedder
}

func (p *fakeProvider) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if p.failing.Load() {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream unavailable"}}`))
		return
	}
	switch r.URL.Path {
	case "/chat/completions":
		p.chats.Add(1)
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		system := req.Messages[0].Content
		var reply string
		switch {
		case strings.Contains(system, "emotional tone"):
			reply = `{"mood":"Positive"}`
		case strings.Contains(system, "product strategist"):
			reply = "```json\n" + `{"summary":"A board about checkout.","keyThemes":["checkout"],"topIdeas":["One-click pay"],"nextSteps":["Prototype"]}` + "\n```"
		default:
			reply = "- Interview checkout abandoners\n* Test a guest checkout\n\nMeasure payment errors"
		}
		writeJSON(w, map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"role": "assistant", "content": reply}}},
		})
	case "/embeddings":
		var req struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		vectors, _ := p.embedder.EmbedBatch(r.Context(), req.Input)
		data := make([]any, len(vectors))
		// reversed to check the client orders by index
		for i := range vectors {
			j := len(vectors) - 1 - i
			data[i] = map[string]any{"index": j, "embedding": vectors[j]}
		}
		writeJSON(w, map[string]any{"data": data})
	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func setup(t *testing.T) (*fakeProvider, http.Handler) {
	t.Helper()
	provider := &fakeProvider{embedder: embedding.NewMockEmbedder(64)}
	upstream := httptest.NewServer(provider)
	t.Cleanup(upstream.Close)

	client := llm.NewClient(llm.Config{
		BaseURL:        upstream.URL,
		APIKey:         "test-key",
		Model:          "test-chat",
		EmbeddingModel: "test-embed",
		MaxAttempts:    1,
	})
	ext := external.New(client, embedding.NewAPIEmbedder(client, 64), external.WithLogger(zap.NewNop()))
	det := insight.NewDeterministic(lexicon.NewRegistry(), ranking.NewRanker(nil))
	svc := insight.NewService(insight.ModeExternal, det, ext, insight.WithLogger(zap.NewNop()))

	srv := server.NewServer(svc, svc.Mode().String(), &config.ServerConfig{}, nil, zap.NewNop())
	return provider, srv.Router()
}

func post(t *testing.T, h http.Handler, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data)).WithContext(context.Background())
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec, out
}

var board = []models.Card{
	{ID: "1", Content: "Checkout crashes on payment"},
	{ID: "2", Content: "Checkout crashes on payment retry"},
	{ID: "3", Content: "Organic cotton tote bags"},
	{ID: "4", Content: "Organic cotton tote bags for events"},
}

func TestExternal_Mood(t *testing.T) {
	_, h := setup(t)
	rec, out := post(t, h, "/api/ai/mood", map[string]any{"content": "Meh, it is a card"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "positive", out["mood"])
}

func TestExternal_Summary(t *testing.T) {
	_, h := setup(t)
	rec, out := post(t, h, "/api/ai/summary", map[string]any{"cards": board})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "A board about checkout.", out["summary"])
	assert.Equal(t, []any{"checkout"}, out["keyThemes"])
}

func TestExternal_Suggestions(t *testing.T) {
	_, h := setup(t)
	rec, out := post(t, h, "/api/ai/suggestions", map[string]any{"cards": board})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{
		"Interview checkout abandoners",
		"Test a guest checkout",
		"Measure payment errors",
	}, out["suggestions"])
}

func TestExternal_ClusterCoversEveryCard(t *testing.T) {
	_, h := setup(t)
	rec, out := post(t, h, "/api/ai/cluster", map[string]any{"cards": board})
	require.Equal(t, http.StatusOK, rec.Code)

	clusters, ok := out["clusters"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, clusters)
	seen := make(map[string]int)
	for _, c := range clusters {
		for _, id := range c.(map[string]any)["cardIds"].([]any) {
			seen[id.(string)]++
		}
	}
	for _, c := range board {
		assert.Equal(t, 1, seen[c.ID], "card %s", c.ID)
	}
	// first cluster starts with the first card
	first := clusters[0].(map[string]any)["cardIds"].([]any)
	assert.Equal(t, "1", first[0])
}

func TestExternal_Search(t *testing.T) {
	_, h := setup(t)
	rec, out := post(t, h, "/api/ai/search", map[string]any{"cards": board, "query": "cotton tote"})
	require.Equal(t, http.StatusOK, rec.Code)

	results, ok := out["results"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, results)
	top := results[0].(map[string]any)["id"]
	assert.Contains(t, []any{"3", "4"}, top)
}

func TestExternal_EmptyBoardAnsweredLocally(t *testing.T) {
	provider, h := setup(t)
	rec, out := post(t, h, "/api/ai/suggestions", map[string]any{"cards": []any{}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"Add some cards to get AI-powered suggestions!"}, out["suggestions"])
	assert.Zero(t, provider.chats.Load())
}

func TestExternal_FallsBackWhenProviderFails(t *testing.T) {
	provider, h := setup(t)
	provider.failing.Store(true)

	rec, out := post(t, h, "/api/ai/mood", map[string]any{"content": "This is a critical bug problem"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "negative", out["mood"])

	rec, out = post(t, h, "/api/ai/cluster", map[string]any{"cards": board})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, out["clusters"])
}
