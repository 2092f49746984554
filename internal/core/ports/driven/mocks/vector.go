package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/foldersense/internal/core/domain"
)

// MockVectorSource is a mock implementation of VectorSource for testing.
// Vectors can be seeded directly into the Vectors map.
type MockVectorSource struct {
	mu      sync.RWMutex
	Vectors map[string][]float32

	GetVectorFn func(ctx context.Context, id string) ([]float32, error)
	RefreshFn   func(ctx context.Context) error
	NameFn      func() string

	// RefreshCalls counts calls to Refresh
	RefreshCalls int
}

func NewMockVectorSource() *MockVectorSource {
	return &MockVectorSource{
		Vectors: make(map[string][]float32),
	}
}

// Seed stores a vector for the given id
func (m *MockVectorSource) Seed(id string, vector []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Vectors[id] = vector
}

func (m *MockVectorSource) GetVector(ctx context.Context, id string) ([]float32, error) {
	if m.GetVectorFn != nil {
		return m.GetVectorFn(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.Vectors[id]; ok {
		return v, nil
	}
	return nil, domain.ErrNotFound
}

func (m *MockVectorSource) Refresh(ctx context.Context) error {
	m.RefreshCalls++
	if m.RefreshFn != nil {
		return m.RefreshFn(ctx)
	}
	return nil
}

func (m *MockVectorSource) Name() string {
	if m.NameFn != nil {
		return m.NameFn()
	}
	return "mock"
}

// MockVectorCache is an in-memory mock of VectorCache without expiry
type MockVectorCache struct {
	mu      sync.RWMutex
	vectors map[string][]float32
	scores  map[string]float64
}

func NewMockVectorCache() *MockVectorCache {
	return &MockVectorCache{
		vectors: make(map[string][]float32),
		scores:  make(map[string]float64),
	}
}

func (m *MockVectorCache) GetVector(_ context.Context, key string) ([]float32, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vectors[key]
	return v, ok
}

func (m *MockVectorCache) SetVector(_ context.Context, key string, vector []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vectors[key] = vector
	return nil
}

func (m *MockVectorCache) GetScore(_ context.Context, key string) (float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.scores[key]
	return s, ok
}

func (m *MockVectorCache) SetScore(_ context.Context, key string, score float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores[key] = score
	return nil
}

func (m *MockVectorCache) Invalidate(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.vectors, key)
	delete(m.scores, key)
	return nil
}

func (m *MockVectorCache) InvalidateAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vectors = make(map[string][]float32)
	m.scores = make(map[string]float64)
	return nil
}

// MockVectorWriter is a mock implementation of VectorWriter that
// records saved vectors.
type MockVectorWriter struct {
	mu    sync.Mutex
	Saved map[string][]float32
	Model string

	SaveFn      func(ctx context.Context, id, model string, vector []float32) error
	SaveBatchFn func(ctx context.Context, model string, vectors map[string][]float32) error
	DeleteFn    func(ctx context.Context, id string) error
}

func NewMockVectorWriter() *MockVectorWriter {
	return &MockVectorWriter{
		Saved: make(map[string][]float32),
	}
}

func (m *MockVectorWriter) Save(ctx context.Context, id, model string, vector []float32) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, id, model, vector)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saved[id] = vector
	m.Model = model
	return nil
}

func (m *MockVectorWriter) SaveBatch(ctx context.Context, model string, vectors map[string][]float32) error {
	if m.SaveBatchFn != nil {
		return m.SaveBatchFn(ctx, model, vectors)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, vector := range vectors {
		m.Saved[id] = vector
	}
	m.Model = model
	return nil
}

func (m *MockVectorWriter) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Saved, id)
	return nil
}
