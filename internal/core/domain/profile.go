package domain

import "strings"

// MaxPreviewLength bounds the content preview carried in a document profile.
const MaxPreviewLength = 500

// MaxSampleTitles bounds the example member titles carried in a folder profile.
const MaxSampleTitles = 5

// DocumentProfile captures the features of a single document used for
// folder recommendation. Immutable once built from source content.
type DocumentProfile struct {
	Path      string    `json:"path"`
	Title     string    `json:"title"`
	Tags      []string  `json:"tags,omitempty"`
	Headings  []string  `json:"headings,omitempty"` // In document order
	Preview   string    `json:"preview,omitempty"`
	Embedding []float32 `json:"embedding,omitempty"`
}

// NewDocumentProfile builds a profile, truncating the preview to
// MaxPreviewLength runes.
func NewDocumentProfile(path, title string, tags, headings []string, preview string) *DocumentProfile {
	return &DocumentProfile{
		Path:     path,
		Title:    title,
		Tags:     tags,
		Headings: headings,
		Preview:  TruncatePreview(preview),
	}
}

// TruncatePreview bounds preview text to MaxPreviewLength runes.
func TruncatePreview(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= MaxPreviewLength {
		return s
	}
	return string(runes[:MaxPreviewLength])
}

// FolderProfile describes one candidate destination folder.
// Rebuilt on each vault scan; Centroid and Coherence are computed
// lazily and cached keyed by Path until invalidated.
type FolderProfile struct {
	Path         string    `json:"path"` // Unique key
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	MemberCount  int       `json:"member_count"`
	SampleTitles []string  `json:"sample_titles,omitempty"`
	MemberIDs    []string  `json:"member_ids,omitempty"`
	Centroid     []float32 `json:"centroid,omitempty"`
	Coherence    float64   `json:"coherence"`

	// HasValidCentroid is true only when the centroid was computed
	// from at least one valid member embedding.
	HasValidCentroid bool `json:"has_valid_centroid"`
}

// DisplayName returns the folder name, falling back to the last path
// segment when no explicit name was set.
func (f *FolderProfile) DisplayName() string {
	if f.Name != "" {
		return f.Name
	}
	if idx := strings.LastIndex(f.Path, "/"); idx >= 0 {
		return f.Path[idx+1:]
	}
	return f.Path
}
