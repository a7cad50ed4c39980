package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hyperjump/brainboard/internal/config"
	"github.com/hyperjump/brainboard/internal/insight"
	"github.com/hyperjump/brainboard/internal/lexicon"
	"github.com/hyperjump/brainboard/internal/models"
	"github.com/hyperjump/brainboard/internal/observability"
	"github.com/hyperjump/brainboard/internal/ranking"
)

var errBoom = errors.New("boom")

// failingInsights fails every operation.
type failingInsights struct{}

func (failingInsights) AnalyzeMood(context.Context, string) (models.Mood, error) {
	return "", errBoom
}

func (failingInsights) ClusterCards(context.Context, []models.Card) ([]models.Cluster, error) {
	return nil, errBoom
}

func (failingInsights) SearchCards(context.Context, []models.Card, string) ([]models.SearchResult, error) {
	return nil, errBoom
}

func (failingInsights) GenerateSuggestions(context.Context, []models.Card) ([]string, error) {
	return nil, errBoom
}

func (failingInsights) SummarizeBoard(context.Context, []models.Card) (models.Summary, error) {
	return models.Summary{}, errBoom
}

func serverConfig() *config.ServerConfig {
	return &config.ServerConfig{Host: "localhost", Port: 8080, RequestTimeout: 5 * time.Second}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	det := insight.NewDeterministic(lexicon.NewRegistry(), ranking.NewRanker(nil))
	svc := insight.NewService(insight.ModeDeterministic, det, nil)
	return NewServer(svc, "deterministic", serverConfig(), observability.NewCollector("test"), zap.NewNop())
}

func post(t *testing.T, h http.Handler, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w, out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	var out map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "ok", out["status"])
	assert.Equal(t, "deterministic", out["strategy"])
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc123")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	assert.Equal(t, "abc123", w.Header().Get(RequestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	h := s.Router()
	post(t, h, "/api/ai/mood", `{"content":"great"}`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test_http_requests_total")
}

func TestMood(t *testing.T) {
	h := newTestServer(t).Router()

	t.Run("positive", func(t *testing.T) {
		w, out := post(t, h, "/api/ai/mood", `{"content":"This is great!"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "positive", out["mood"])
	})

	t.Run("negative", func(t *testing.T) {
		_, out := post(t, h, "/api/ai/mood", `{"content":"This is a critical bug problem"}`)
		assert.Equal(t, "negative", out["mood"])
	})

	invalid := []string{`{}`, `{"content":""}`, `{"content":42}`, `{"content":null}`}
	for _, body := range invalid {
		t.Run("invalid "+body, func(t *testing.T) {
			w, out := post(t, h, "/api/ai/mood", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "Invalid content", out["error"])
			assert.Equal(t, "neutral", out["mood"])
		})
	}

	t.Run("malformed body", func(t *testing.T) {
		w, out := post(t, h, "/api/ai/mood", `{not json`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "neutral", out["mood"])
	})
}

func TestCluster(t *testing.T) {
	h := newTestServer(t).Router()

	body := `{"cards":[
		{"id":"1","content":"Crash when saving drafts"},
		{"id":"2","content":"Crash on saving large drafts"},
		{"id":"3","content":"Quarterly offsite agenda"}
	]}`
	w, out := post(t, h, "/api/ai/cluster", body)
	assert.Equal(t, http.StatusOK, w.Code)
	clusters, ok := out["clusters"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, clusters)
	first := clusters[0].(map[string]any)
	assert.Equal(t, "Crash", first["name"])
	assert.Equal(t, []any{"1", "2"}, first["cardIds"])

	for _, bad := range []string{`{"cards":"nope"}`, `nope`} {
		w, out = post(t, h, "/api/ai/cluster", bad)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []any{}, out["clusters"])
	}
}

func TestSearch(t *testing.T) {
	h := newTestServer(t).Router()

	cards := `[{"id":"a","content":"Launch marketing campaign"},{"id":"b","content":"Fix login bug"}]`
	w, out := post(t, h, "/api/ai/search", `{"query":"marketing","cards":`+cards+`}`)
	assert.Equal(t, http.StatusOK, w.Code)
	results := out["results"].([]any)
	require.NotEmpty(t, results)
	assert.Equal(t, "a", results[0].(map[string]any)["id"])

	empty := []string{
		`{"cards":` + cards + `}`,
		`{"query":"","cards":` + cards + `}`,
		`{"query":"marketing","cards":[]}`,
		`{"query":"marketing","cards":{}}`,
		`{broken`,
	}
	for _, body := range empty {
		w, out := post(t, h, "/api/ai/search", body)
		assert.Equal(t, http.StatusOK, w.Code, body)
		assert.Equal(t, []any{}, out["results"], body)
	}
}

func TestSuggestions(t *testing.T) {
	h := newTestServer(t).Router()

	w, out := post(t, h, "/api/ai/suggestions", `{"cards":[]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"Add some cards to get AI-powered suggestions!"}, out["suggestions"])

	w, out = post(t, h, "/api/ai/suggestions", `{"cards":"x"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, out["suggestions"])
}

func TestSummary(t *testing.T) {
	h := newTestServer(t).Router()

	w, out := post(t, h, "/api/ai/summary", `{"cards":[{"id":"1","content":"Ship the mobile app"}]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, out["summary"])
	assert.NotEmpty(t, out["nextSteps"])

	w, out = post(t, h, "/api/ai/summary", `{"cards":5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request format", out["summary"])
	assert.Equal(t, []any{}, out["keyThemes"])
}

func TestFailures(t *testing.T) {
	h := NewServer(failingInsights{}, "external", serverConfig(), nil, zap.NewNop()).Router()
	cards := `{"cards":[{"id":"1","content":"x"}],"query":"x"}`

	w, out := post(t, h, "/api/ai/mood", `{"content":"hello"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "neutral", out["mood"])

	w, out = post(t, h, "/api/ai/cluster", cards)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to cluster cards", out["error"])

	w, out = post(t, h, "/api/ai/search", cards)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, out["results"])

	w, out = post(t, h, "/api/ai/suggestions", cards)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to generate suggestions", out["error"])

	w, out = post(t, h, "/api/ai/summary", cards)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Unable to generate summary at this time. Please try again.", out["summary"])
	assert.Equal(t, []any{}, out["topIdeas"])
}
