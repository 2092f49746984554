package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/foldersense/internal/core/domain"
)

// Config is the full application configuration. Values resolve in
// three layers: defaults, then the TOML file, then environment
// variables.
type Config struct {
	Vault     VaultConfig     `toml:"vault"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Judgment  JudgmentConfig  `toml:"judgment"`
	Sources   SourcesConfig   `toml:"sources"`
	Cache     CacheConfig     `toml:"cache"`
	Batch     BatchConfig     `toml:"batch"`
}

// VaultConfig locates the notes directory
type VaultConfig struct {
	Root           string   `toml:"root"`
	IgnorePatterns []string `toml:"ignore_patterns"`
}

// EmbeddingConfig configures the live embedding provider
type EmbeddingConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

// JudgmentConfig configures the judgment provider
type JudgmentConfig struct {
	Provider    string  `toml:"provider"`
	Model       string  `toml:"model"`
	APIKey      string  `toml:"api_key"`
	BaseURL     string  `toml:"base_url"`
	Temperature float64 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
}

// SourcesConfig configures the offline vector sources, tried in order:
// bundle first, then postgres.
type SourcesConfig struct {
	BundleDir   string `toml:"bundle_dir"`
	WatchBundle bool   `toml:"watch_bundle"`
	DatabaseURL string `toml:"database_url"`
}

// CacheConfig selects the vector/score cache backend
type CacheConfig struct {
	// Backend is "memory" or "redis"
	Backend  string `toml:"backend"`
	RedisURL string `toml:"redis_url"`
}

// BatchConfig tunes the batch recommendation worker
type BatchConfig struct {
	Concurrency int `toml:"concurrency"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Judgment: JudgmentConfig{
			Temperature: 0.2,
			MaxTokens:   1024,
		},
		Cache: CacheConfig{
			Backend: "memory",
		},
		Batch: BatchConfig{
			Concurrency: 4,
		},
	}
}

// DefaultPath returns ~/.foldersense/config.toml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".foldersense", "config.toml"), nil
}

// Load reads the TOML file at path (missing file is fine) and applies
// environment overrides on top.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err == nil {
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("invalid config %s: %w", path, err)
			}
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations the wiring cannot serve
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("%w: unknown cache backend %q", domain.ErrConfiguration, c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisURL == "" {
		return fmt.Errorf("%w: cache backend redis needs cache.redis_url", domain.ErrConfiguration)
	}
	if c.Batch.Concurrency < 0 {
		return fmt.Errorf("%w: batch.concurrency must not be negative", domain.ErrConfiguration)
	}
	return nil
}

// EmbeddingSettings maps the config onto domain settings
func (c *Config) EmbeddingSettings() *domain.EmbeddingSettings {
	if c.Embedding.Provider == "" {
		return nil
	}
	return &domain.EmbeddingSettings{
		Provider: domain.AIProvider(c.Embedding.Provider),
		Model:    c.Embedding.Model,
		APIKey:   c.Embedding.APIKey,
		BaseURL:  c.Embedding.BaseURL,
	}
}

// JudgmentSettings maps the config onto domain settings
func (c *Config) JudgmentSettings() *domain.JudgmentSettings {
	if c.Judgment.Provider == "" {
		return nil
	}
	return &domain.JudgmentSettings{
		Provider:    domain.AIProvider(c.Judgment.Provider),
		Model:       c.Judgment.Model,
		APIKey:      c.Judgment.APIKey,
		BaseURL:     c.Judgment.BaseURL,
		Temperature: c.Judgment.Temperature,
		MaxTokens:   c.Judgment.MaxTokens,
	}
}

// applyEnv lets the environment win over the file for credentials and
// deployment-specific paths.
func applyEnv(cfg *Config) {
	cfg.Vault.Root = getEnv("FOLDERSENSE_VAULT", cfg.Vault.Root)
	cfg.Embedding.Provider = getEnv("FOLDERSENSE_EMBEDDING_PROVIDER", cfg.Embedding.Provider)
	cfg.Embedding.Model = getEnv("FOLDERSENSE_EMBEDDING_MODEL", cfg.Embedding.Model)
	cfg.Embedding.APIKey = getEnv("FOLDERSENSE_EMBEDDING_API_KEY", cfg.Embedding.APIKey)
	cfg.Embedding.BaseURL = getEnv("FOLDERSENSE_EMBEDDING_BASE_URL", cfg.Embedding.BaseURL)
	cfg.Judgment.Provider = getEnv("FOLDERSENSE_JUDGMENT_PROVIDER", cfg.Judgment.Provider)
	cfg.Judgment.Model = getEnv("FOLDERSENSE_JUDGMENT_MODEL", cfg.Judgment.Model)
	cfg.Judgment.APIKey = getEnv("FOLDERSENSE_JUDGMENT_API_KEY", cfg.Judgment.APIKey)
	cfg.Judgment.BaseURL = getEnv("FOLDERSENSE_JUDGMENT_BASE_URL", cfg.Judgment.BaseURL)
	cfg.Sources.BundleDir = getEnv("FOLDERSENSE_BUNDLE_DIR", cfg.Sources.BundleDir)
	cfg.Sources.DatabaseURL = getEnv("FOLDERSENSE_DATABASE_URL", cfg.Sources.DatabaseURL)
	cfg.Cache.Backend = getEnv("FOLDERSENSE_CACHE_BACKEND", cfg.Cache.Backend)
	cfg.Cache.RedisURL = getEnv("FOLDERSENSE_REDIS_URL", cfg.Cache.RedisURL)
	cfg.Batch.Concurrency = getEnvInt("FOLDERSENSE_BATCH_CONCURRENCY", cfg.Batch.Concurrency)

	// OPENAI_API_KEY is honoured as a conventional fallback.
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if cfg.Embedding.APIKey == "" {
			cfg.Embedding.APIKey = key
		}
		if cfg.Judgment.APIKey == "" {
			cfg.Judgment.APIKey = key
		}
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
