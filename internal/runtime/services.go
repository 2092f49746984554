package runtime

import (
	"context"
	"sync"

	"github.com/custodia-labs/foldersense/internal/core/domain"
	"github.com/custodia-labs/foldersense/internal/core/ports/driven"
)

// Services holds references to dynamically configurable services.
// AI services (embedding, judgment) can be swapped while running.
// Thread-safe for concurrent access.
type Services struct {
	mu sync.RWMutex

	// Config tracks capability flags
	config *domain.RuntimeConfig

	// Dynamic services (can be nil, updated at runtime)
	embeddingService driven.EmbeddingService
	judgmentService  driven.JudgmentService
}

// NewServices creates a new Services registry
func NewServices(config *domain.RuntimeConfig) *Services {
	return &Services{
		config: config,
	}
}

// Config returns the runtime configuration
func (s *Services) Config() *domain.RuntimeConfig {
	return s.config
}

// EmbeddingService returns the current embedding service (may be nil)
func (s *Services) EmbeddingService() driven.EmbeddingService {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.embeddingService
}

// JudgmentService returns the current judgment service (may be nil)
func (s *Services) JudgmentService() driven.JudgmentService {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.judgmentService
}

// SetEmbeddingService updates the embedding service.
// Closes the old service if present. Updates config flags.
func (s *Services) SetEmbeddingService(svc driven.EmbeddingService) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.embeddingService != nil {
		_ = s.embeddingService.Close()
	}

	s.embeddingService = svc
	s.config.SetEmbeddingAvailable(svc != nil)
}

// SetJudgmentService updates the judgment service.
// Closes the old service if present. Updates config flags.
func (s *Services) SetJudgmentService(svc driven.JudgmentService) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.judgmentService != nil {
		_ = s.judgmentService.Close()
	}

	s.judgmentService = svc
	s.config.SetJudgmentAvailable(svc != nil)
}

// Close shuts down all services
func (s *Services) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.embeddingService != nil {
		_ = s.embeddingService.Close()
		s.embeddingService = nil
	}
	if s.judgmentService != nil {
		_ = s.judgmentService.Close()
		s.judgmentService = nil
	}

	s.config.SetEmbeddingAvailable(false)
	s.config.SetJudgmentAvailable(false)

	return nil
}

// ValidateAndSetEmbedding validates connectivity before setting the embedding service
func (s *Services) ValidateAndSetEmbedding(ctx context.Context, svc driven.EmbeddingService) error {
	if svc == nil {
		s.SetEmbeddingService(nil)
		return nil
	}

	if err := svc.HealthCheck(ctx); err != nil {
		_ = svc.Close()
		return err
	}

	s.SetEmbeddingService(svc)
	return nil
}

// ValidateAndSetJudgment validates connectivity before setting the judgment service
func (s *Services) ValidateAndSetJudgment(ctx context.Context, svc driven.JudgmentService) error {
	if svc == nil {
		s.SetJudgmentService(nil)
		return nil
	}

	if err := svc.Ping(ctx); err != nil {
		_ = svc.Close()
		return err
	}

	s.SetJudgmentService(svc)
	return nil
}
