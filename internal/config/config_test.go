package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 9000
strategy:
  mode: external
  timeout: 5s
llm:
  model: gpt-test
search:
  keyword_weight: 0.5
  semantic_weight: 0.5
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "external", cfg.Strategy.Mode)
	assert.Equal(t, 5*time.Second, cfg.Strategy.Timeout)
	assert.Equal(t, "gpt-test", cfg.LLM.Model)
	assert.Equal(t, 0.5, cfg.Search.KeywordWeight)
	assert.Equal(t, 20, cfg.Search.TopK)
	assert.False(t, cfg.Debug)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "debug: true\n"))
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 60*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "deterministic", cfg.Strategy.Mode)
	assert.Equal(t, 20*time.Second, cfg.Strategy.Timeout)
	assert.Equal(t, "api", cfg.Embedding.Provider)
	assert.Equal(t, 1536, cfg.Embedding.Dimensions)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, 0.3, cfg.Search.KeywordWeight)
	assert.Equal(t, 0.7, cfg.Search.SemanticWeight)
	assert.Equal(t, 10.0, cfg.Ranking.ExactMatchScore)
	assert.Equal(t, uint32(3), cfg.Breaker.MinRequests)
	assert.Empty(t, cfg.Storage.CachePath)
	assert.Empty(t, cfg.Lexicon.Dir)
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeConfig(t, "strategy:\n  mode: psychic\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server:\n  port: 70000\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server: [\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BRAINBOARD_STRATEGY_MODE", "external")
	t.Setenv("BRAINBOARD_SERVER_PORT", "9100")
	t.Setenv("OPENAI_API_KEY", "sk-fallback")

	cfg, err := Load(writeConfig(t, "strategy:\n  mode: deterministic\n"))
	require.NoError(t, err)
	assert.Equal(t, "external", cfg.Strategy.Mode)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "sk-fallback", cfg.LLM.APIKey)

	t.Setenv("BRAINBOARD_LLM_API_KEY", "sk-primary")
	cfg, err = Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "sk-primary", cfg.LLM.APIKey)
}

func TestLoad_ExpandPathDotSlashRelativeToConfigDir(t *testing.T) {
	path := writeConfig(t, `
storage:
  cache_path: "./data/embeddings.db"
lexicon:
  dir: "./lexicons"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	dir := filepath.Dir(path)
	assert.Equal(t, filepath.Join(dir, "data", "embeddings.db"), cfg.Storage.CachePath)
	assert.Equal(t, filepath.Join(dir, "lexicons"), cfg.Lexicon.Dir)
}

func TestExpandPath(t *testing.T) {
	assert.Equal(t, "", expandPath("", "/etc"))
	assert.Equal(t, "/abs/x", expandPath("/abs/x", "/etc"))
	assert.Equal(t, filepath.Join("/etc", "x"), expandPath("./x", "/etc"))
	if home, err := os.UserHomeDir(); err == nil {
		assert.Equal(t, filepath.Join(home, "x"), expandPath("~/x", "/etc"))
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	cfg.Strategy.Mode = "external"
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "external", loaded.Strategy.Mode)
	assert.Equal(t, cfg.Breaker, loaded.Breaker)
}
