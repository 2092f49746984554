package cli

import (
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed vault notes into the persistent vector store",
	Long: `Embeds every note in the vault with the configured embedding
provider and upserts the vectors into the database, so later
recommend runs resolve embeddings offline. Requires both an embedding
provider and sources.database_url to be configured.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	stats, err := indexerService.Run(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("Indexed %d notes (%d skipped)\n", stats.Indexed, stats.Skipped)
	return nil
}
