package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/foldersense/internal/core/domain"
	"github.com/custodia-labs/foldersense/internal/core/ports/driven"
)

// Defaults for the judgment request
const (
	DefaultJudgmentTemperature = 0.2
	DefaultJudgmentMaxTokens   = 1024
)

const judgmentSystemPrompt = `You are a filing assistant that recommends the best destination folder for a document inside an existing folder hierarchy.

Respond with ONLY a JSON object, no markdown fences and no commentary, in this shape:
{
  "primaryRecommendation": {
    "folderPath": "<path of the best folder>",
    "folderName": "<display name>",
    "confidence": <0-100>,
    "reasoning": "<one or two sentences>",
    "matchedTopics": ["<topic>", ...]
  },
  "alternatives": [
    {"folderPath": "...", "folderName": "...", "confidence": <0-100>, "reasoning": "..."}
  ],
  "suggestNewFolder": <true only when no existing folder fits>,
  "suggestedFolderName": "<name for a new folder, when suggested>"
}

Only recommend folders from the provided list. Confidence reflects how well the document fits the folder's existing contents.`

// buildJudgmentRequest assembles the prompt for one recommendation.
func buildJudgmentRequest(doc *domain.DocumentProfile, folders []*domain.FolderProfile, maxAlternatives int) driven.JudgmentRequest {
	var b strings.Builder

	b.WriteString("Document to file:\n")
	fmt.Fprintf(&b, "Title: %s\n", doc.Title)
	if len(doc.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(doc.Tags, ", "))
	}
	if len(doc.Headings) > 0 {
		fmt.Fprintf(&b, "Headings: %s\n", strings.Join(doc.Headings, " > "))
	}
	if doc.Preview != "" {
		fmt.Fprintf(&b, "Preview:\n%s\n", doc.Preview)
	}

	b.WriteString("\nAvailable folders:\n")
	for _, f := range folders {
		fmt.Fprintf(&b, "- %s (%s, %d notes)", f.Path, f.DisplayName(), f.MemberCount)
		if f.Description != "" {
			fmt.Fprintf(&b, ": %s", f.Description)
		}
		if len(f.SampleTitles) > 0 {
			fmt.Fprintf(&b, " — examples: %s", strings.Join(f.SampleTitles, "; "))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nRecommend the single best folder and up to %d alternatives.\n", maxAlternatives)

	return driven.JudgmentRequest{
		System:      judgmentSystemPrompt,
		User:        b.String(),
		Temperature: DefaultJudgmentTemperature,
		MaxTokens:   DefaultJudgmentMaxTokens,
	}
}
