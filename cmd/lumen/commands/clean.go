package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/lumen/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove build outputs and the build cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cacheOnly, _ := cmd.Flags().GetBool("cache-only")
			return c.app.Clean(cmd.Context(), app.CleanOptions{CacheOnly: cacheOnly})
		},
	}

	cmd.Flags().BoolP("cache-only", "c", false, "Keep build outputs and remove only the build cache")

	return cmd
}
