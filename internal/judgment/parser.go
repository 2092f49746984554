// Package judgment normalizes free-form judgment-service replies into
// canonical recommendation records. Replies are treated as untrusted
// input: the expected JSON payload may be wrapped in prose or code
// fences, and field names vary between model outputs, so parsing is a
// tolerant decode rather than a strict deserialization.
package judgment

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/custodia-labs/foldersense/internal/core/domain"
)

// Candidate is one normalized folder recommendation from the reply
type Candidate struct {
	FolderPath    string
	FolderName    string
	Confidence    float64 // [0, 100]
	NoConfidence  bool    // Confidence was absent, not an explicit zero
	Reasoning     string
	MatchedTopics []string
}

// Reply is the canonical form of one judgment-service reply
type Reply struct {
	Primary          Candidate
	Alternatives     []Candidate
	SuggestNewFolder bool
	SuggestedName    string
}

// Accepted key aliases, in priority order. First non-empty value wins.
var (
	primaryKeys    = []string{"primaryRecommendation", "primary_recommendation", "primary", "recommendation"}
	folderPathKeys = []string{"folderPath", "folder_path", "path", "folder"}
	folderNameKeys = []string{"folderName", "folder_name", "name"}
	confidenceKeys = []string{"confidence", "score"}
	reasoningKeys  = []string{"reasoning", "rationale", "explanation"}
	topicsKeys     = []string{"matchedTopics", "matched_topics", "topics"}
	altKeys        = []string{"alternatives", "alternativeRecommendations", "alternative_recommendations"}
	newFolderKeys  = []string{"suggestNewFolder", "suggest_new_folder", "createNewFolder", "create_new_folder"}
	newNameKeys    = []string{"suggestedFolderName", "suggested_folder_name", "suggestedName", "suggested_name"}
)

// Parse turns a raw judgment reply into a canonical Reply.
// Returns domain.ErrParse when no JSON payload can be recovered or the
// primary folder identifier is absent. Parse never fabricates a
// recommendation from a failed parse.
func Parse(raw string) (*Reply, error) {
	payload, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	primary, ok := childObject(payload, primaryKeys)
	if !ok {
		// Tolerate a flat reply where the top-level object is itself
		// the primary recommendation.
		primary = payload
	}

	primaryCandidate, err := parseCandidate(primary)
	if err != nil {
		return nil, err
	}

	reply := &Reply{Primary: primaryCandidate}

	for _, alt := range childArray(payload, altKeys) {
		obj, ok := alt.(map[string]any)
		if !ok {
			continue
		}
		candidate, err := parseCandidate(obj)
		if err != nil {
			// Alternatives without a folder identifier are dropped,
			// not fatal.
			continue
		}
		reply.Alternatives = append(reply.Alternatives, candidate)
	}

	reply.SuggestNewFolder = boolAlias(payload, newFolderKeys)
	reply.SuggestedName = stringAlias(payload, newNameKeys)

	return reply, nil
}

// decodeObject parses raw as JSON, falling back to balanced-brace
// extraction when the reply wraps the payload in prose or code fences.
func decodeObject(raw string) (map[string]any, error) {
	var payload map[string]any
	if err := json.Unmarshal([]byte(raw), &payload); err == nil {
		return payload, nil
	}

	extracted, ok := extractBalanced(raw, '{', '}')
	if !ok {
		return nil, fmt.Errorf("%w: no balanced JSON object in reply", domain.ErrParse)
	}

	if err := json.Unmarshal([]byte(extracted), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	return payload, nil
}

func parseCandidate(obj map[string]any) (Candidate, error) {
	candidate := Candidate{
		FolderPath: stringAlias(obj, folderPathKeys),
		FolderName: stringAlias(obj, folderNameKeys),
		Reasoning:  stringAlias(obj, reasoningKeys),
	}

	if candidate.FolderPath == "" {
		return Candidate{}, fmt.Errorf("%w: missing folder identifier", domain.ErrParse)
	}

	confidence, found := numberAlias(obj, confidenceKeys)
	if !found {
		// Absent confidence stays 0 and is flagged so callers can
		// distinguish it from an explicit zero.
		candidate.NoConfidence = true
	}
	candidate.Confidence = domain.NormalizeConfidence(confidence)

	for _, t := range childArray(obj, topicsKeys) {
		if s, ok := t.(string); ok && s != "" {
			candidate.MatchedTopics = append(candidate.MatchedTopics, s)
		}
	}

	return candidate, nil
}

// stringAlias returns the first non-empty string among the aliased keys
func stringAlias(obj map[string]any, keys []string) string {
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// numberAlias returns the first numeric value among the aliased keys.
// Numeric strings such as "85" are accepted.
func numberAlias(obj map[string]any, keys []string) (float64, bool) {
	for _, k := range keys {
		v, ok := obj[k]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n, true
		case string:
			if f, err := strconv.ParseFloat(n, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func boolAlias(obj map[string]any, keys []string) bool {
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			if b, ok := v.(bool); ok {
				return b
			}
		}
	}
	return false
}

func childObject(obj map[string]any, keys []string) (map[string]any, bool) {
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			if child, ok := v.(map[string]any); ok {
				return child, true
			}
		}
	}
	return nil, false
}

func childArray(obj map[string]any, keys []string) []any {
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			if arr, ok := v.([]any); ok {
				return arr
			}
		}
	}
	return nil
}
