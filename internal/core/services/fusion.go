package services

import (
	"log/slog"

	"github.com/custodia-labs/foldersense/internal/core/domain"
)

// NeutralSimilarity stands in for the embedding signal when a folder
// has no valid centroid or a similarity computation fails.
const NeutralSimilarity = 0.5

// Blend fuses a judgment confidence with an embedding similarity,
// weighted by folder coherence. All inputs and the result are on the
// [0, 1] scale; negative similarity is clamped here, not before
// storage.
//
// A tight folder's centroid is a trustworthy proxy for membership, so
// the similarity weight rises with coherence; a loose folder's
// embedding signal is noisy, so the judgment's contextual reasoning
// dominates instead.
func Blend(judgmentConfidence, similarity, coherence float64) float64 {
	judgmentConfidence = domain.Clamp01(judgmentConfidence)
	similarity = domain.Clamp01(similarity)
	coherence = domain.Clamp01(coherence)

	blended := judgmentConfidence*(1-coherence) + similarity*coherence
	return domain.Clamp01(blended)
}

// ScoreFuser enhances recommendation confidences with embedding
// similarity. One candidate's scoring failure never aborts scoring of
// the others: every fault degrades that candidate to the neutral
// fallback.
type ScoreFuser struct {
	logger *slog.Logger
}

// NewScoreFuser creates a new ScoreFuser.
func NewScoreFuser(logger *slog.Logger) *ScoreFuser {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScoreFuser{logger: logger}
}

// Enhance computes Similarity and EnhancedConfidence for one
// recommendation in place. folder may be nil when the judgment named a
// folder outside the supplied profile set.
func (f *ScoreFuser) Enhance(rec *domain.Recommendation, folder *domain.FolderProfile, docEmbedding []float32) {
	judgment := rec.Confidence / 100

	if folder == nil || !folder.HasValidCentroid || len(docEmbedding) == 0 {
		f.neutral(rec, judgment)
		return
	}

	similarity, err := domain.CosineSimilarity(docEmbedding, folder.Centroid)
	if err != nil {
		// Dimension mismatch or similar scoring fault. Absorbed here;
		// the judgment's opinion is never discarded for lack of a
		// usable embedding signal.
		f.logger.Debug("similarity computation failed",
			"folder", folder.Path,
			"error", err,
		)
		f.neutral(rec, judgment)
		return
	}

	rec.Similarity = &similarity

	blended := Blend(judgment, similarity, folder.Coherence)
	enhanced := domain.NormalizeConfidence(blended * 100)
	rec.EnhancedConfidence = &enhanced
}

// neutral applies the no-signal fallback: similarity defaults to
// NeutralSimilarity and the enhanced confidence equals the original,
// making fusion a no-op for this candidate.
func (f *ScoreFuser) neutral(rec *domain.Recommendation, judgment float64) {
	similarity := NeutralSimilarity
	rec.Similarity = &similarity

	enhanced := domain.NormalizeConfidence(judgment * 100)
	rec.EnhancedConfidence = &enhanced
}
