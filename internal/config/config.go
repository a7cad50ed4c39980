// Package config provides configuration loading and structs for the brainboard server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/hyperjump/brainboard/internal/embedding"
	"github.com/hyperjump/brainboard/internal/insight"
	"github.com/hyperjump/brainboard/internal/llm"
	"github.com/hyperjump/brainboard/internal/models"
	"github.com/hyperjump/brainboard/internal/observability"
	"github.com/hyperjump/brainboard/internal/ranking"
	"github.com/hyperjump/brainboard/internal/search"
)

// EnvPrefix prefixes every environment override, e.g. BRAINBOARD_STRATEGY_MODE.
const EnvPrefix = "BRAINBOARD"

// Config holds all configuration for the application.
type Config struct {
	Debug     bool                        `yaml:"debug"`
	Server    ServerConfig                `yaml:"server"`
	Strategy  StrategyConfig              `yaml:"strategy"`
	LLM       llm.Config                  `yaml:"llm"`
	Embedding embedding.Config            `yaml:"embedding"`
	Storage   StorageConfig               `yaml:"storage"`
	Search    search.Config               `yaml:"search"`
	Ranking   ranking.RankingConfig       `yaml:"ranking"`
	Lexicon   LexiconConfig               `yaml:"lexicon"`
	Breaker   insight.BreakerConfig       `yaml:"breaker"`
	Tracing   observability.TracingConfig `yaml:"tracing"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string        `yaml:"host" validate:"required"`
	Port           int           `yaml:"port" validate:"min=1,max=65535"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// StrategyConfig selects the insight strategy.
type StrategyConfig struct {
	Mode    string        `yaml:"mode" validate:"oneof=deterministic external"`
	Timeout time.Duration `yaml:"timeout"`
}

// StorageConfig holds the embedding cache location. An empty path disables
// the persistent cache.
type StorageConfig struct {
	CachePath string `yaml:"cache_path"`
}

// LexiconConfig points at a directory of extra domain packs.
type LexiconConfig struct {
	Dir   string `yaml:"dir"`
	Watch bool   `yaml:"watch"`
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// Load reads and parses the config file at path, applies defaults and
// environment overrides, expands paths and validates the result. An empty
// path loads defaults plus environment only.
func Load(path string) (*Config, error) {
	var cfg Config
	configDir := "."
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		configDir = filepath.Dir(path)
	}

	ApplyDefaults(&cfg)
	ApplyEnv(&cfg)

	cfg.Storage.CachePath = expandPath(cfg.Storage.CachePath, configDir)
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	cfg.Lexicon.Dir = expandPath(cfg.Lexicon.Dir, configDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct-tag constraints.
func (c *Config) Validate() error {
	if err := models.Validate(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := insight.ParseMode(c.Strategy.Mode); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg from BRAINBOARD_* variables. OPENAI_API_KEY is
// accepted as a fallback for the LLM key.
func ApplyEnv(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("llm.api_key", EnvPrefix+"_LLM_API_KEY", "OPENAI_API_KEY")

	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v.IsSet(key) {
			*dst = v.GetDuration(key)
		}
	}

	if v.IsSet("debug") {
		cfg.Debug = v.GetBool("debug")
	}
	str("server.host", &cfg.Server.Host)
	if v.IsSet("server.port") {
		cfg.Server.Port = v.GetInt("server.port")
	}
	str("strategy.mode", &cfg.Strategy.Mode)
	dur("strategy.timeout", &cfg.Strategy.Timeout)
	str("llm.base_url", &cfg.LLM.BaseURL)
	str("llm.api_key", &cfg.LLM.APIKey)
	str("llm.model", &cfg.LLM.Model)
	str("llm.embedding_model", &cfg.LLM.EmbeddingModel)
	str("embedding.provider", &cfg.Embedding.Provider)
	str("embedding.model_path", &cfg.Embedding.ModelPath)
	str("storage.cache_path", &cfg.Storage.CachePath)
	str("lexicon.dir", &cfg.Lexicon.Dir)
	str("tracing.endpoint", &cfg.Tracing.Endpoint)
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory. Empty paths stay empty.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if strings.HasPrefix(path, "~/") {
		path = path[2:]
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
