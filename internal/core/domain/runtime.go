package domain

import "sync"

// RuntimeConfig tracks which services are available at runtime.
// AI service flags are updated dynamically as services are configured.
// Thread-safe for concurrent access.
type RuntimeConfig struct {
	mu sync.RWMutex

	// Static (set at startup, read-only)
	CacheBackend string // "memory" or "redis"

	// Dynamic capability flags (updated when AI services change)
	embeddingAvailable bool
	judgmentAvailable  bool
}

// NewRuntimeConfig creates a new RuntimeConfig with initial values
func NewRuntimeConfig(cacheBackend string) *RuntimeConfig {
	return &RuntimeConfig{
		CacheBackend: cacheBackend,
	}
}

// EmbeddingAvailable returns whether a live embedding service is available
func (c *RuntimeConfig) EmbeddingAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.embeddingAvailable
}

// JudgmentAvailable returns whether the judgment service is available
func (c *RuntimeConfig) JudgmentAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.judgmentAvailable
}

// SetEmbeddingAvailable updates the embedding availability flag
func (c *RuntimeConfig) SetEmbeddingAvailable(available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.embeddingAvailable = available
}

// SetJudgmentAvailable updates the judgment availability flag
func (c *RuntimeConfig) SetJudgmentAvailable(available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.judgmentAvailable = available
}

// CanFuseScores returns true if embedding-weighted fusion is possible
func (c *RuntimeConfig) CanFuseScores() bool {
	return c.EmbeddingAvailable()
}

// CanRecommend returns true if the judgment pipeline can run at all
func (c *RuntimeConfig) CanRecommend() bool {
	return c.JudgmentAvailable()
}
