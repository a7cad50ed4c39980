package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hyperjump/brainboard/internal/config"
	"github.com/hyperjump/brainboard/internal/embedding"
	"github.com/hyperjump/brainboard/internal/insight"
	"github.com/hyperjump/brainboard/internal/lexicon"
	"github.com/hyperjump/brainboard/internal/models"
	"github.com/hyperjump/brainboard/internal/observability"
	"github.com/hyperjump/brainboard/internal/ranking"
	"github.com/hyperjump/brainboard/internal/server"
)

// writeConfig writes a deterministic config so tests ignore any user config.
func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "brainboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strategy:\n  mode: deterministic\n"), 0600))
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", writeConfig(t)}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "brainboard version dev\n", out)
}

func TestMood(t *testing.T) {
	out, err := run(t, "", "mood", "--output", "json", "This", "is", "great!")
	require.NoError(t, err)
	var resp models.MoodResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, models.MoodPositive, resp.Mood)
}

func TestInvalidOutputFormat(t *testing.T) {
	_, err := run(t, "", "mood", "-o", "yaml", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestImportThenCluster(t *testing.T) {
	dir := t.TempDir()
	md := filepath.Join(dir, "retro.md")
	require.NoError(t, os.WriteFile(md, []byte("- Crash when saving drafts\n- Crash on saving large drafts\n- Quarterly offsite agenda\n"), 0600))

	out, err := run(t, "", "import", "-o", "json", md)
	require.NoError(t, err)
	cards, err := models.DecodeCards([]byte(out))
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.True(t, strings.HasPrefix(cards[0].ID, "card:"))

	board := filepath.Join(dir, "board.json")
	require.NoError(t, os.WriteFile(board, []byte(out), 0600))

	out, err = run(t, "", "cluster", "-o", "json", board)
	require.NoError(t, err)
	var resp struct {
		Clusters []models.Cluster `json:"clusters"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotEmpty(t, resp.Clusters)
	assert.Equal(t, "Crash", resp.Clusters[0].Name)
	assert.Equal(t, []string{cards[0].ID, cards[1].ID}, resp.Clusters[0].CardIDs)
}

func TestSearchFromStdin(t *testing.T) {
	stdin := `[{"id":"a","content":"Launch marketing campaign"},{"id":"b","content":"Fix login bug"}]`
	out, err := run(t, stdin, "search", "-", "marketing", "campaign")
	require.NoError(t, err)
	assert.Contains(t, out, `Found`)
	assert.Contains(t, out, `"marketing campaign"`)
	assert.Contains(t, out, "ID: a")
}

func TestSearchExplain(t *testing.T) {
	stdin := `[{"id":"a","content":"Launch marketing campaign"},{"id":"b","content":"Fix login bug"}]`
	out, err := run(t, stdin, "search", "--explain", "-", "marketing", "campaign")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 results")
	assert.Contains(t, out, "Match: exact")
	assert.Contains(t, out, "exact=10.00")
	assert.Contains(t, out, "ID: a")

	out, err = run(t, stdin, "search", "--explain", "-o", "json", "-", "login")
	require.NoError(t, err)
	var resp struct {
		Results []struct {
			ID     string             `json:"id"`
			Match  string             `json:"match"`
			Scores map[string]float64 `json:"scores"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "b", resp.Results[0].ID)
	assert.Equal(t, "exact", resp.Results[0].Match)
	assert.Contains(t, resp.Results[0].Scores, "keyword")
}

func TestSearchExplainRejectsServer(t *testing.T) {
	_, err := run(t, "[]", "--server", "http://127.0.0.1:1", "search", "--explain", "-", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--explain")
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "brainboard.yaml")
	out, err := run(t, "", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Strategy.Mode, cfg.Strategy.Mode)
	assert.Equal(t, config.Default().Ranking, cfg.Ranking)

	_, err = run(t, "", "init", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = run(t, "", "init", "--force", path)
	require.NoError(t, err)
}

func TestBuildExternalKeepsEmbedderOnCacheError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0600))

	cfg := config.Default()
	cfg.LLM.APIKey = "test-key"
	cfg.Embedding.Provider = embedding.ProviderMock
	cfg.Storage.CachePath = filepath.Join(blocker, "cache", "embeddings.db")

	c := &Components{Metrics: observability.NewCollector(serviceName), logger: zap.NewNop()}
	strategy, err := c.buildExternal(context.Background(), cfg)
	require.Error(t, err)
	assert.Nil(t, strategy)
	assert.Contains(t, err.Error(), "cache directory")
	require.NotNil(t, c.embedder, "embedder must be owned by Components so Close releases it")
	c.Close()
}

func TestSummarizeAndSuggest(t *testing.T) {
	stdin := `[{"id":"1","content":"Ship the mobile app"}]`
	out, err := run(t, stdin, "summarize", "-")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))

	out, err = run(t, "[]", "suggest", "-")
	require.NoError(t, err)
	assert.Equal(t, "- Add some cards to get AI-powered suggestions!\n", out)
}

func TestRemoteServer(t *testing.T) {
	det := insight.NewDeterministic(lexicon.NewRegistry(), ranking.NewRanker(nil))
	svc := insight.NewService(insight.ModeDeterministic, det, nil)
	cfg := &config.ServerConfig{Host: "localhost", Port: 8080, RequestTimeout: 5 * time.Second}
	ts := httptest.NewServer(server.NewServer(svc, "deterministic", cfg, nil, zap.NewNop()).Router())
	defer ts.Close()

	out, err := run(t, "", "--server", ts.URL, "mood", "This is a critical bug problem")
	require.NoError(t, err)
	assert.Equal(t, "negative\n", out)
}

func TestResolveConfigPath(t *testing.T) {
	assert.Equal(t, "/etc/custom.yaml", resolveConfigPath("/etc/custom.yaml"))
}
