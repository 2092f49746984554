package driven

import (
	"context"
)

// VectorCache stores computed centroids and coherence scores keyed by
// folder path. Entries expire after the cache's TTL or on explicit
// invalidation. Writes are idempotent: concurrent requests computing
// the same folder's centroid may both publish, first write wins.
type VectorCache interface {
	// GetVector returns a cached vector, ok=false on miss or expiry
	GetVector(ctx context.Context, key string) ([]float32, bool)

	// SetVector stores a vector under key
	SetVector(ctx context.Context, key string, vector []float32) error

	// GetScore returns a cached scalar score, ok=false on miss or expiry
	GetScore(ctx context.Context, key string) (float64, bool)

	// SetScore stores a scalar score under key
	SetScore(ctx context.Context, key string, score float64) error

	// Invalidate removes all entries for the given key
	Invalidate(ctx context.Context, key string) error

	// InvalidateAll clears the cache
	InvalidateAll(ctx context.Context) error
}
