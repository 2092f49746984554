package mocks

import (
	"context"

	"github.com/custodia-labs/foldersense/internal/core/ports/driven"
)

// MockEmbeddingService is a mock implementation of EmbeddingService for testing
type MockEmbeddingService struct {
	EmbedFn       func(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQueryFn  func(ctx context.Context, text string) ([]float32, error)
	DimensionsFn  func() int
	ModelFn       func() string
	HealthCheckFn func(ctx context.Context) error
	CloseFn       func() error
}

func NewMockEmbeddingService() *MockEmbeddingService {
	return &MockEmbeddingService{}
}

func (m *MockEmbeddingService) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if m.EmbedFn != nil {
		return m.EmbedFn(ctx, texts)
	}
	return make([][]float32, len(texts)), nil
}

func (m *MockEmbeddingService) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if m.EmbedQueryFn != nil {
		return m.EmbedQueryFn(ctx, text)
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (m *MockEmbeddingService) Dimensions() int {
	if m.DimensionsFn != nil {
		return m.DimensionsFn()
	}
	return 3
}

func (m *MockEmbeddingService) Model() string {
	if m.ModelFn != nil {
		return m.ModelFn()
	}
	return "mock-embedding"
}

func (m *MockEmbeddingService) HealthCheck(ctx context.Context) error {
	if m.HealthCheckFn != nil {
		return m.HealthCheckFn(ctx)
	}
	return nil
}

func (m *MockEmbeddingService) Close() error {
	if m.CloseFn != nil {
		return m.CloseFn()
	}
	return nil
}

// MockJudgmentService is a mock implementation of JudgmentService for testing
type MockJudgmentService struct {
	ClassifyFn func(ctx context.Context, req driven.JudgmentRequest) (*driven.JudgmentReply, error)
	ModelFn    func() string
	PingFn     func(ctx context.Context) error
	CloseFn    func() error

	// Requests records every request passed to Classify
	Requests []driven.JudgmentRequest
}

func NewMockJudgmentService() *MockJudgmentService {
	return &MockJudgmentService{}
}

func (m *MockJudgmentService) Classify(ctx context.Context, req driven.JudgmentRequest) (*driven.JudgmentReply, error) {
	m.Requests = append(m.Requests, req)
	if m.ClassifyFn != nil {
		return m.ClassifyFn(ctx, req)
	}
	return &driven.JudgmentReply{Text: "{}"}, nil
}

func (m *MockJudgmentService) Model() string {
	if m.ModelFn != nil {
		return m.ModelFn()
	}
	return "mock-judgment"
}

func (m *MockJudgmentService) Ping(ctx context.Context) error {
	if m.PingFn != nil {
		return m.PingFn(ctx)
	}
	return nil
}

func (m *MockJudgmentService) Close() error {
	if m.CloseFn != nil {
		return m.CloseFn()
	}
	return nil
}
