package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/custodia-labs/foldersense/internal/core/ports/driven"
	"github.com/custodia-labs/foldersense/internal/runtime"
)

// DefaultSourceTTL is how long offline vector sources are considered
// fresh before the next lookup triggers a reload.
const DefaultSourceTTL = 5 * time.Minute

// EmbeddingStore resolves embedding vectors for document identifiers
// via ordered fallback: a live embedding provider first (when text is
// available and a provider is configured), then each offline vector
// source in priority order. Lookup never returns an error; any backend
// failure degrades to a miss.
type EmbeddingStore struct {
	services *runtime.Services
	sources  []driven.VectorSource
	logger   *slog.Logger

	ttl time.Duration

	mu          sync.Mutex
	lastRefresh time.Time
	stale       bool
}

// EmbeddingStoreConfig holds configuration for the embedding store.
type EmbeddingStoreConfig struct {
	Services *runtime.Services
	Sources  []driven.VectorSource // Tried in slice order
	Logger   *slog.Logger
	TTL      time.Duration // Defaults to DefaultSourceTTL
}

// NewEmbeddingStore creates a new embedding store.
func NewEmbeddingStore(cfg EmbeddingStoreConfig) *EmbeddingStore {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultSourceTTL
	}
	return &EmbeddingStore{
		services:    cfg.Services,
		sources:     cfg.Sources,
		logger:      logger,
		ttl:         ttl,
		lastRefresh: time.Now(),
	}
}

// Lookup resolves a vector for the given document identifier.
// text, when non-empty, allows the live embedding provider to compute
// a fresh vector; offline sources are keyed by id alone. ok=false
// means no backend could serve the lookup.
func (s *EmbeddingStore) Lookup(ctx context.Context, id, text string) ([]float32, bool) {
	if vec, ok := s.lookupLive(ctx, text); ok {
		return vec, true
	}

	s.refreshIfStale(ctx)

	for _, src := range s.sources {
		vec, err := src.GetVector(ctx, id)
		if err == nil && len(vec) > 0 {
			return vec, true
		}
		if err != nil {
			s.logger.Debug("vector source miss", "source", src.Name(), "id", id, "error", err)
		}
	}

	return nil, false
}

// HasBackend reports whether any embedding backend is currently usable.
func (s *EmbeddingStore) HasBackend() bool {
	if s.services != nil && s.services.EmbeddingService() != nil {
		return true
	}
	return len(s.sources) > 0
}

// LiveModel returns the live provider's model name, or "" when no live
// provider is configured.
func (s *EmbeddingStore) LiveModel() string {
	if s.services == nil {
		return ""
	}
	if svc := s.services.EmbeddingService(); svc != nil {
		return svc.Model()
	}
	return ""
}

// Invalidate marks the offline sources stale; the next lookup reloads
// them before falling back to a cache miss.
func (s *EmbeddingStore) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stale = true
}

func (s *EmbeddingStore) lookupLive(ctx context.Context, text string) ([]float32, bool) {
	if text == "" || s.services == nil {
		return nil, false
	}
	svc := s.services.EmbeddingService()
	if svc == nil {
		return nil, false
	}

	vec, err := svc.EmbedQuery(ctx, text)
	if err != nil {
		// Live provider failure falls through to the offline sources.
		s.logger.Debug("live embedding failed", "model", svc.Model(), "error", err)
		return nil, false
	}
	if len(vec) == 0 {
		return nil, false
	}
	return vec, true
}

func (s *EmbeddingStore) refreshIfStale(ctx context.Context) {
	s.mu.Lock()
	needsRefresh := s.stale || time.Since(s.lastRefresh) > s.ttl
	if needsRefresh {
		s.stale = false
		s.lastRefresh = time.Now()
	}
	s.mu.Unlock()

	if !needsRefresh {
		return
	}

	for _, src := range s.sources {
		if err := src.Refresh(ctx); err != nil {
			// A source that fails to refresh is still tried on lookup;
			// it may serve stale data or miss.
			s.logger.Warn("vector source refresh failed", "source", src.Name(), "error", err)
		}
	}
}
