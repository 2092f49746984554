package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/foldersense/internal/core/ports/driving"
	"github.com/custodia-labs/foldersense/internal/core/services"
	"github.com/custodia-labs/foldersense/internal/worker"
)

var version = "dev"

// Services the commands run against. Wired by Execute via buildApp,
// replaced by tests.
var (
	recommenderService driving.RecommenderService
	profileService     driving.ProfileService
	catalogService     *services.Catalog
	indexerService     *services.Indexer
	batchWorker        *worker.Worker
	appCleanup         func()
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "foldersense",
	Short: "Folder recommendations for markdown notes",
	Long: `Foldersense recommends which folder a note belongs in.
It combines an AI judgment over folder summaries with embedding
similarity against each folder's centroid, weighted by how coherent
the folder is.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// version runs without any wiring
		if cmd.Name() == "version" {
			return nil
		}
		if recommenderService != nil {
			return nil
		}
		return buildApp(cmd.Context(), configPath)
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if appCleanup != nil {
			appCleanup()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.toml (default ~/.foldersense/config.toml)")
}

// Execute runs the CLI. The context is cancelled on shutdown signals
// so in-flight batches stop cleanly.
func Execute(ctx context.Context, v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.ExecuteContext(ctx)
}
