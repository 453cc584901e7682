package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/lumen/internal/app"
)

func (c *CLI) newTokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens [category [key]]",
		Short: "Print design tokens",
		Long: "Print design tokens. Without arguments the categories are listed, " +
			"with a category its entries, and with a key the single value. " +
			"--format exports the whole table as json, yaml or css.",
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")

			opts := app.TokensOptions{Format: format}
			if len(args) > 0 {
				opts.Category = args[0]
			}
			if len(args) > 1 {
				opts.Key = args[1]
			}
			return c.app.Tokens(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringP("format", "f", "", "Export format: json, yaml or css")
	return cmd
}

func (c *CLI) newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the pipeline presets and their stages",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			c.app.Presets(cmd.OutOrStdout())
		},
	}
}
