package domain

import "time"

// MatchStrength is a discrete confidence tier for a recommendation
type MatchStrength string

const (
	MatchStrong   MatchStrength = "strong"   // confidence > 80
	MatchModerate MatchStrength = "moderate" // confidence > 60
	MatchWeak     MatchStrength = "weak"
)

// MatchStrengthFor derives the tier from a confidence in [0, 100].
// Ties at exactly 80 or 60 fall into the lower tier.
func MatchStrengthFor(confidence float64) MatchStrength {
	switch {
	case confidence > 80:
		return MatchStrong
	case confidence > 60:
		return MatchModerate
	default:
		return MatchWeak
	}
}

// NormalizeConfidence clamps a confidence value to [0, 100].
func NormalizeConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

// Recommendation is one scored candidate folder for a document.
type Recommendation struct {
	FolderPath string  `json:"folder_path"`
	FolderName string  `json:"folder_name"`
	Confidence float64 `json:"confidence"` // [0, 100], from judgment

	// Similarity is the raw cosine similarity of the document embedding
	// to the folder centroid, in [-1, 1]. Nil when no embedding signal
	// was available for this candidate.
	Similarity *float64 `json:"similarity,omitempty"`

	// EnhancedConfidence is the fused confidence in [0, 100]. Nil until
	// fusion has run for this candidate.
	EnhancedConfidence *float64 `json:"enhanced_confidence,omitempty"`

	Reasoning     string        `json:"reasoning,omitempty"`
	MatchedTopics []string      `json:"matched_topics,omitempty"`
	MatchStrength MatchStrength `json:"match_strength"`

	// NoConfidence marks a candidate whose confidence was absent from
	// the judgment reply and defaulted to 0, as opposed to an explicit
	// zero.
	NoConfidence bool `json:"no_confidence,omitempty"`
}

// EffectiveConfidence returns the fused confidence when present,
// falling back to the judgment confidence.
func (r *Recommendation) EffectiveConfidence() float64 {
	if r.EnhancedConfidence != nil {
		return *r.EnhancedConfidence
	}
	return r.Confidence
}

// ResultMetadata carries bookkeeping for one recommendation request
type ResultMetadata struct {
	RequestID   string        `json:"request_id"`
	Timestamp   time.Time     `json:"timestamp"`
	Duration    time.Duration `json:"duration"`
	TotalTokens int           `json:"total_tokens"`
	Models      []string      `json:"models,omitempty"`
}

// RecommendationResult is the outcome of scoring one document against
// a set of folder profiles.
type RecommendationResult struct {
	DocumentPath string            `json:"document_path"`
	Primary      *Recommendation   `json:"primary"`
	Alternatives []*Recommendation `json:"alternatives,omitempty"`

	// SuggestNewFolder is carried independently of folder-match
	// confidences and is never numerically compared against them.
	SuggestNewFolder bool   `json:"suggest_new_folder"`
	SuggestedName    string `json:"suggested_name,omitempty"`

	Metadata ResultMetadata `json:"metadata"`
}
