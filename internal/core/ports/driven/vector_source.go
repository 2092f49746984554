package driven

import (
	"context"
)

// VectorSource resolves pre-computed embedding vectors by document
// identifier. Implementations include the on-disk bundle store and the
// postgres vector table. Sources are tried in priority order by the
// embedding store; a failing source is skipped, not fatal.
type VectorSource interface {
	// GetVector returns the vector stored for id.
	// Returns domain.ErrNotFound when the id is unknown.
	GetVector(ctx context.Context, id string) ([]float32, error)

	// Refresh discards memoized state so the next lookup re-reads the
	// underlying store. Used on TTL expiry or external invalidation.
	Refresh(ctx context.Context) error

	// Name identifies the source for logging
	Name() string
}

// VectorWriter persists document embeddings so later runs can resolve
// them offline. Implemented by the postgres vector table.
type VectorWriter interface {
	// Save creates or updates one document vector
	Save(ctx context.Context, id, model string, vector []float32) error

	// SaveBatch upserts multiple document vectors atomically
	SaveBatch(ctx context.Context, model string, vectors map[string][]float32) error

	// Delete removes one document vector
	Delete(ctx context.Context, id string) error
}
