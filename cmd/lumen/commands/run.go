package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/lumen/internal/adapters/config"
	"go.trai.ch/lumen/internal/app"
)

func (c *CLI) newCSSCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "css",
		Short: "Build the stylesheets in css/ into build/",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noCache, _ := cmd.Flags().GetBool("no-cache")
			preset, _ := cmd.Flags().GetString("preset")

			return c.app.Run(cmd.Context(), config.DefaultBuildTask, app.RunOptions{
				NoCache:    noCache,
				Preset:     preset,
				OutputMode: outputMode(cmd),
			})
		},
	}
	cmd.Flags().BoolP("no-cache", "n", false, "Bypass the build cache and rebuild every stylesheet")
	cmd.Flags().StringP("preset", "p", "", "Replace the configured stages with a preset: full or lite")
	addOutputFlags(cmd)
	return cmd
}

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the stylesheets whenever css/ changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			initial, _ := cmd.Flags().GetBool("initial")
			noCache, _ := cmd.Flags().GetBool("no-cache")

			return c.app.Run(cmd.Context(), config.DefaultWatchTask, app.RunOptions{
				Initial:    initial,
				NoCache:    noCache,
				OutputMode: outputMode(cmd),
			})
		},
	}
	cmd.Flags().Bool("initial", false, "Build once before waiting for changes")
	cmd.Flags().BoolP("no-cache", "n", false, "Bypass the build cache on every rebuild")
	addOutputFlags(cmd)
	return cmd
}

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [task]",
		Short: "Run a configured build or watch task",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			noCache, _ := cmd.Flags().GetBool("no-cache")
			preset, _ := cmd.Flags().GetString("preset")
			initial, _ := cmd.Flags().GetBool("initial")

			return c.app.Run(cmd.Context(), args[0], app.RunOptions{
				NoCache:    noCache,
				Preset:     preset,
				Initial:    initial,
				OutputMode: outputMode(cmd),
			})
		},
	}
	cmd.Flags().BoolP("no-cache", "n", false, "Bypass the build cache and rebuild every stylesheet")
	cmd.Flags().StringP("preset", "p", "", "Replace the stages of a build task with a preset: full or lite")
	cmd.Flags().Bool("initial", false, "Build once before a watch task waits for changes")
	addOutputFlags(cmd)
	return cmd
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, tui, or linear")
	cmd.Flags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
}

// outputMode reads --output-mode, letting --ci force linear output.
func outputMode(cmd *cobra.Command) string {
	if ci, _ := cmd.Flags().GetBool("ci"); ci {
		return "linear"
	}
	mode, _ := cmd.Flags().GetString("output-mode")
	return mode
}
