package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ghostdevv/npm-alt/pkg/buildinfo"
)

// Execute runs the npm-alt CLI and returns an error if any command fails.
//
// Logging defaults to info level on stderr; --verbose (-v) switches to
// debug. The logger is attached to the command context and accessible to
// all commands via loggerFromContext.
func Execute(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "npm-alt",
		Short:        "npm-alt browses package metadata from the npm registry",
		Long:         `npm-alt is an alternative frontend for npm package metadata: resolve specifiers, inspect packages, find changelogs, score quality signals, and walk dependency graphs.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (TOML)")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newPackageCmd(&configPath))
	root.AddCommand(newScoreCmd(&configPath))
	root.AddCommand(newGraphCmd(&configPath))
	root.AddCommand(newSearchCmd(&configPath))
	root.AddCommand(newAuthorCmd(&configPath))

	return root.ExecuteContext(ctx)
}
