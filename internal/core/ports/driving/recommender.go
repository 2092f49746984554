package driving

import (
	"context"

	"github.com/custodia-labs/foldersense/internal/core/domain"
)

// RecommendOptions configures a single recommendation request
type RecommendOptions struct {
	// MaxAlternatives bounds the number of alternative candidates
	// carried in the result (default 3)
	MaxAlternatives int

	// SkipFusion disables embedding-weighted confidence fusion even
	// when an embedding is available
	SkipFusion bool
}

// DefaultRecommendOptions returns sensible defaults
func DefaultRecommendOptions() RecommendOptions {
	return RecommendOptions{MaxAlternatives: 3}
}

// BatchItem is the outcome of scoring one document in a batch.
// Failures are isolated: Err is set per document and never prevents
// processing of the others.
type BatchItem struct {
	DocumentPath string
	Result       *domain.RecommendationResult
	Err          error
}

// RecommenderService scores a document against a set of folder profiles
type RecommenderService interface {
	// Recommend produces a ranked recommendation for one document.
	// Returns ErrValidation for an empty folder list, ErrConfiguration,
	// ErrTransport or ErrParse when the judgment stage fails.
	Recommend(ctx context.Context, doc *domain.DocumentProfile, folders []*domain.FolderProfile, opts RecommendOptions) (*domain.RecommendationResult, error)
}
