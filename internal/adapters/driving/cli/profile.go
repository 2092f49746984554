package cli

import (
	"github.com/spf13/cobra"
)

var profileInvalidate bool

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Precompute folder centroids and coherence",
	Long: `Scans the vault, resolves member embeddings for every folder and
caches each folder's centroid and coherence score. Subsequent
recommend runs reuse the cache until it expires.`,
	Args: cobra.NoArgs,
	RunE: runProfile,
}

func init() {
	profileCmd.Flags().BoolVar(&profileInvalidate, "invalidate", false, "drop cached profiles before recomputing")
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	folders, err := catalogService.FolderProfiles(ctx)
	if err != nil {
		return err
	}

	if profileInvalidate {
		for _, folder := range folders {
			if err := profileService.Invalidate(ctx, folder.Path); err != nil {
				return err
			}
		}
	}

	if err := profileService.Populate(ctx, folders); err != nil {
		return err
	}

	profiled := 0
	for _, folder := range folders {
		if folder.HasValidCentroid {
			profiled++
		}
	}

	cmd.Printf("Profiled %d of %d folders\n", profiled, len(folders))
	for _, folder := range folders {
		if !folder.HasValidCentroid {
			cmd.Printf("  %s: no member embeddings available\n", folder.DisplayName())
		}
	}
	return nil
}
