package driven

import (
	"github.com/custodia-labs/foldersense/internal/core/domain"
)

// AIServiceFactory creates AI services based on configuration
type AIServiceFactory interface {
	// CreateEmbeddingService creates an embedding service from settings
	// Returns nil, nil if settings are not configured
	CreateEmbeddingService(settings *domain.EmbeddingSettings) (EmbeddingService, error)

	// CreateJudgmentService creates a judgment service from settings
	// Returns nil, nil if settings are not configured
	CreateJudgmentService(settings *domain.JudgmentSettings) (JudgmentService, error)
}
