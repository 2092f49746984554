package driving

import (
	"context"

	"github.com/custodia-labs/foldersense/internal/core/domain"
)

// ProfileService computes folder centroids and coherence scores
type ProfileService interface {
	// Centroid returns the cached or freshly computed centroid for a
	// folder. ok=false when no member embedding could be resolved.
	Centroid(ctx context.Context, folderKey string, memberIDs []string) ([]float32, bool)

	// Coherence returns the mean pairwise similarity of the folder's
	// member embeddings, or the sparse-data default.
	Coherence(ctx context.Context, folderKey string, memberIDs []string) float64

	// Populate fills Centroid, Coherence and HasValidCentroid on each
	// folder profile, fanning out with a bounded concurrency cap.
	Populate(ctx context.Context, folders []*domain.FolderProfile) error

	// Invalidate drops cached values for one folder key
	Invalidate(ctx context.Context, folderKey string) error
}
