package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/foldersense/internal/core/domain"
	"github.com/custodia-labs/foldersense/internal/core/ports/driving"
)

var (
	recommendAlternatives int
	recommendNoFusion     bool
	recommendJSON         bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [note-path...]",
	Short: "Recommend folders for one or more notes",
	Long: `Scores each note against every folder in the vault and prints the
best destination with alternatives. Paths are vault-relative. With
multiple paths the notes are scored as a batch; one note's failure
does not stop the others.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().IntVarP(&recommendAlternatives, "alternatives", "n", 3, "maximum number of alternative folders")
	recommendCmd.Flags().BoolVar(&recommendNoFusion, "no-fusion", false, "skip embedding-weighted confidence fusion")
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	opts := driving.RecommendOptions{
		MaxAlternatives: recommendAlternatives,
		SkipFusion:      recommendNoFusion,
	}

	items, err := batchWorker.Run(cmd.Context(), args, opts)
	if err != nil {
		return err
	}

	if recommendJSON {
		return outputRecommendJSON(cmd, items)
	}
	return outputRecommendText(cmd, items)
}

func outputRecommendJSON(cmd *cobra.Command, items []driving.BatchItem) error {
	type jsonItem struct {
		DocumentPath string                       `json:"document_path"`
		Result       *domain.RecommendationResult `json:"result,omitempty"`
		Error        string                       `json:"error,omitempty"`
	}

	out := make([]jsonItem, 0, len(items))
	for _, item := range items {
		ji := jsonItem{DocumentPath: item.DocumentPath, Result: item.Result}
		if item.Err != nil {
			ji.Error = item.Err.Error()
		}
		out = append(out, ji)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputRecommendText(cmd *cobra.Command, items []driving.BatchItem) error {
	var failed int
	for _, item := range items {
		if item.Err != nil {
			failed++
			cmd.Printf("%s: error: %v\n", item.DocumentPath, item.Err)
			continue
		}
		printResult(cmd, item.DocumentPath, item.Result)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d notes failed", failed, len(items))
	}
	return nil
}

func printResult(cmd *cobra.Command, path string, result *domain.RecommendationResult) {
	primary := result.Primary

	cmd.Printf("%s\n", path)
	cmd.Printf("  -> %s (%s, %.0f%%)\n", displayFolder(primary), primary.MatchStrength, primary.EffectiveConfidence())
	if primary.Reasoning != "" {
		cmd.Printf("     %s\n", primary.Reasoning)
	}

	for _, alt := range result.Alternatives {
		cmd.Printf("     also: %s (%s, %.0f%%)\n", displayFolder(alt), alt.MatchStrength, alt.EffectiveConfidence())
	}

	if result.SuggestNewFolder {
		name := result.SuggestedName
		if name == "" {
			name = "(unnamed)"
		}
		cmd.Printf("     consider a new folder: %s\n", name)
	}
	cmd.Println()
}

func displayFolder(rec *domain.Recommendation) string {
	if rec.FolderPath != "" {
		return rec.FolderPath
	}
	return rec.FolderName
}
