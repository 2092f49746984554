package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/custodia-labs/foldersense/internal/core/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Cache.Backend != "memory" {
		t.Errorf("Cache.Backend = %q, want memory", cfg.Cache.Backend)
	}
	if cfg.Judgment.Temperature != 0.2 {
		t.Errorf("Judgment.Temperature = %v, want 0.2", cfg.Judgment.Temperature)
	}
	if cfg.Judgment.MaxTokens != 1024 {
		t.Errorf("Judgment.MaxTokens = %d, want 1024", cfg.Judgment.MaxTokens)
	}
	if cfg.Batch.Concurrency != 4 {
		t.Errorf("Batch.Concurrency = %d, want 4", cfg.Batch.Concurrency)
	}
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("Cache.Backend = %q", cfg.Cache.Backend)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
[vault]
root = "/notes"
ignore_patterns = ["Drafts/**"]

[embedding]
provider = "openai"
model = "text-embedding-3-small"
api_key = "sk-file"

[judgment]
provider = "openai"
model = "gpt-4o-mini"
api_key = "sk-file"
temperature = 0.1

[sources]
bundle_dir = "/bundles"

[cache]
backend = "redis"
redis_url = "redis://localhost:6379"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Vault.Root != "/notes" {
		t.Errorf("Vault.Root = %q", cfg.Vault.Root)
	}
	if len(cfg.Vault.IgnorePatterns) != 1 || cfg.Vault.IgnorePatterns[0] != "Drafts/**" {
		t.Errorf("IgnorePatterns = %v", cfg.Vault.IgnorePatterns)
	}
	if cfg.Judgment.Temperature != 0.1 {
		t.Errorf("Temperature = %v, want file value 0.1", cfg.Judgment.Temperature)
	}
	// File value untouched by defaults.
	if cfg.Judgment.MaxTokens != 1024 {
		t.Errorf("MaxTokens = %d, want default 1024", cfg.Judgment.MaxTokens)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisURL == "" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[vault]
root = "/from-file"
`)
	t.Setenv("FOLDERSENSE_VAULT", "/from-env")
	t.Setenv("FOLDERSENSE_EMBEDDING_PROVIDER", "ollama")
	t.Setenv("FOLDERSENSE_BATCH_CONCURRENCY", "8")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Vault.Root != "/from-env" {
		t.Errorf("Vault.Root = %q, want /from-env", cfg.Vault.Root)
	}
	if cfg.Embedding.Provider != "ollama" {
		t.Errorf("Embedding.Provider = %q", cfg.Embedding.Provider)
	}
	if cfg.Batch.Concurrency != 8 {
		t.Errorf("Batch.Concurrency = %d", cfg.Batch.Concurrency)
	}
}

func TestLoad_OpenAIKeyFallback(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Embedding.APIKey != "sk-env" || cfg.Judgment.APIKey != "sk-env" {
		t.Errorf("APIKey fallback not applied: %q %q", cfg.Embedding.APIKey, cfg.Judgment.APIKey)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := writeConfig(t, `not [valid`)

	_, err := Load(path)
	if err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Cache.Backend = "bolt"
	if err := cfg.Validate(); !errors.Is(err, domain.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for unknown backend, got %v", err)
	}

	cfg = Default()
	cfg.Cache.Backend = "redis"
	if err := cfg.Validate(); !errors.Is(err, domain.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for redis without url, got %v", err)
	}

	cfg = Default()
	cfg.Batch.Concurrency = -1
	if err := cfg.Validate(); !errors.Is(err, domain.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for negative concurrency, got %v", err)
	}
}

func TestSettingsMapping(t *testing.T) {
	cfg := Default()
	if cfg.EmbeddingSettings() != nil {
		t.Error("expected nil settings without a provider")
	}
	if cfg.JudgmentSettings() != nil {
		t.Error("expected nil settings without a provider")
	}

	cfg.Embedding = EmbeddingConfig{Provider: "openai", Model: "m", APIKey: "k"}
	cfg.Judgment = JudgmentConfig{Provider: "ollama", Model: "llama3.1", Temperature: 0.3, MaxTokens: 256}

	es := cfg.EmbeddingSettings()
	if es == nil || es.Provider != domain.AIProviderOpenAI || es.Model != "m" {
		t.Errorf("EmbeddingSettings() = %+v", es)
	}
	js := cfg.JudgmentSettings()
	if js == nil || js.Provider != domain.AIProviderOllama || js.MaxTokens != 256 {
		t.Errorf("JudgmentSettings() = %+v", js)
	}
}
