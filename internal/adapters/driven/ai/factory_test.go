package ai

import (
	"errors"
	"testing"

	"github.com/custodia-labs/foldersense/internal/core/domain"
)

func TestNewFactory(t *testing.T) {
	factory := NewFactory()
	if factory == nil {
		t.Fatal("expected non-nil factory")
	}
}

func TestFactory_CreateEmbeddingService_NilSettings(t *testing.T) {
	factory := NewFactory()

	svc, err := factory.CreateEmbeddingService(nil)
	if err != nil {
		t.Errorf("expected no error for nil settings, got %v", err)
	}
	if svc != nil {
		t.Error("expected nil service for nil settings")
	}
}

func TestFactory_CreateEmbeddingService_NotConfigured(t *testing.T) {
	factory := NewFactory()

	settings := &domain.EmbeddingSettings{
		Provider: "",
		Model:    "",
		APIKey:   "",
	}

	svc, err := factory.CreateEmbeddingService(settings)
	if err != nil {
		t.Errorf("expected no error for unconfigured settings, got %v", err)
	}
	if svc != nil {
		t.Error("expected nil service for unconfigured settings")
	}
}

func TestFactory_CreateEmbeddingService_OpenAI(t *testing.T) {
	factory := NewFactory()

	settings := &domain.EmbeddingSettings{
		Provider: domain.AIProviderOpenAI,
		Model:    "text-embedding-3-small",
		APIKey:   "sk-test",
	}

	svc, err := factory.CreateEmbeddingService(settings)
	if err != nil {
		t.Errorf("expected no error for OpenAI, got %v", err)
	}
	if svc == nil {
		t.Error("expected non-nil service for OpenAI")
	}
}

func TestFactory_CreateEmbeddingService_OpenAI_MissingKey(t *testing.T) {
	factory := NewFactory()

	// No API key: IsConfigured is false, so the factory reports the
	// service as unavailable rather than failing.
	settings := &domain.EmbeddingSettings{
		Provider: domain.AIProviderOpenAI,
		Model:    "text-embedding-3-small",
	}

	svc, err := factory.CreateEmbeddingService(settings)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if svc != nil {
		t.Error("expected nil service without an API key")
	}
}

func TestFactory_CreateEmbeddingService_Ollama(t *testing.T) {
	factory := NewFactory()

	// Ollama needs no API key.
	settings := &domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		Model:    "nomic-embed-text",
		BaseURL:  "http://localhost:11434",
	}

	svc, err := factory.CreateEmbeddingService(settings)
	if err != nil {
		t.Errorf("expected no error for Ollama, got %v", err)
	}
	if svc == nil {
		t.Error("expected non-nil service for Ollama")
	}
}

func TestFactory_CreateEmbeddingService_InvalidProvider(t *testing.T) {
	factory := NewFactory()

	settings := &domain.EmbeddingSettings{
		Provider: "invalid-provider",
		Model:    "some-model",
		APIKey:   "test-key",
	}

	_, err := factory.CreateEmbeddingService(settings)
	if !errors.Is(err, domain.ErrInvalidProvider) {
		t.Errorf("expected ErrInvalidProvider, got %v", err)
	}
}

func TestFactory_CreateJudgmentService_NilSettings(t *testing.T) {
	factory := NewFactory()

	svc, err := factory.CreateJudgmentService(nil)
	if err != nil {
		t.Errorf("expected no error for nil settings, got %v", err)
	}
	if svc != nil {
		t.Error("expected nil service for nil settings")
	}
}

func TestFactory_CreateJudgmentService_NotConfigured(t *testing.T) {
	factory := NewFactory()

	settings := &domain.JudgmentSettings{
		Provider: "",
		Model:    "",
		APIKey:   "",
	}

	svc, err := factory.CreateJudgmentService(settings)
	if err != nil {
		t.Errorf("expected no error for unconfigured settings, got %v", err)
	}
	if svc != nil {
		t.Error("expected nil service for unconfigured settings")
	}
}

func TestFactory_CreateJudgmentService_OpenAI(t *testing.T) {
	factory := NewFactory()

	settings := &domain.JudgmentSettings{
		Provider: domain.AIProviderOpenAI,
		Model:    "gpt-4o-mini",
		APIKey:   "sk-test",
	}

	svc, err := factory.CreateJudgmentService(settings)
	if err != nil {
		t.Errorf("expected no error for OpenAI, got %v", err)
	}
	if svc == nil {
		t.Error("expected non-nil service for OpenAI")
	}
	if svc.Model() != "gpt-4o-mini" {
		t.Errorf("expected model gpt-4o-mini, got %s", svc.Model())
	}
}

func TestFactory_CreateJudgmentService_Ollama(t *testing.T) {
	factory := NewFactory()

	settings := &domain.JudgmentSettings{
		Provider: domain.AIProviderOllama,
		Model:    "llama3.1",
		BaseURL:  "http://localhost:11434",
	}

	svc, err := factory.CreateJudgmentService(settings)
	if err != nil {
		t.Errorf("expected no error for Ollama, got %v", err)
	}
	if svc == nil {
		t.Error("expected non-nil service for Ollama")
	}
}

func TestFactory_CreateJudgmentService_InvalidProvider(t *testing.T) {
	factory := NewFactory()

	settings := &domain.JudgmentSettings{
		Provider: "invalid-provider",
		Model:    "some-model",
		APIKey:   "test-key",
	}

	_, err := factory.CreateJudgmentService(settings)
	if !errors.Is(err, domain.ErrInvalidProvider) {
		t.Errorf("expected ErrInvalidProvider, got %v", err)
	}
}
