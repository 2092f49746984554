package domain

import (
	"fmt"
	"math"
)

// CosineSimilarity computes the cosine similarity between two vectors.
// Result is in [-1, 1]. Returns ErrScoring on dimension mismatch or
// when either vector has zero magnitude.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: dimension mismatch (%d vs %d)", ErrScoring, len(a), len(b))
	}
	if len(a) == 0 {
		return 0, fmt.Errorf("%w: empty vector", ErrScoring)
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, fmt.Errorf("%w: zero-magnitude vector", ErrScoring)
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Centroid computes the componentwise arithmetic mean of the given
// vectors. Returns nil when the input is empty. All vectors must share
// the same dimensionality; mismatched vectors produce ErrScoring.
func Centroid(vectors [][]float32) ([]float32, error) {
	if len(vectors) == 0 {
		return nil, nil
	}

	dim := len(vectors[0])
	sum := make([]float64, dim)
	for _, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: dimension mismatch (%d vs %d)", ErrScoring, len(v), dim)
		}
		for i := range v {
			sum[i] += float64(v[i])
		}
	}

	centroid := make([]float32, dim)
	n := float64(len(vectors))
	for i := range sum {
		centroid[i] = float32(sum[i] / n)
	}

	return centroid, nil
}

// DefaultCoherence is used when a folder has too few valid embeddings
// to judge topical focus, or when no embedding backend is usable.
const DefaultCoherence = 0.7

// MeanPairwiseSimilarity computes the average cosine similarity over
// all unordered pairs of the given vectors. Returns DefaultCoherence
// when fewer than two vectors are supplied. Pairs that fail to compare
// are skipped; if every pair fails, DefaultCoherence is returned.
func MeanPairwiseSimilarity(vectors [][]float32) float64 {
	if len(vectors) < 2 {
		return DefaultCoherence
	}

	var sum float64
	var pairs int
	for i := 0; i < len(vectors); i++ {
		for j := i + 1; j < len(vectors); j++ {
			sim, err := CosineSimilarity(vectors[i], vectors[j])
			if err != nil {
				continue
			}
			sum += sim
			pairs++
		}
	}

	if pairs == 0 {
		return DefaultCoherence
	}

	return sum / float64(pairs)
}

// Clamp01 clamps v to the [0, 1] interval.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
