package cli

import (
	"github.com/spf13/cobra"

	"github.com/ghostdevv/npm-alt/internal/server"
)

func newServeCmd(configPath *string) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the package-metadata JSON API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := loggerFromContext(ctx)

			a, err := newApp(ctx, *configPath, log)
			if err != nil {
				return err
			}
			defer a.Close()

			addr := a.cfg.Listen
			if listen != "" {
				addr = listen
			}

			srv := server.New(a.packages, a.changelogs, a.scores, a.graphs, a.files, a.searches, a.replacements, log)
			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (overrides config)")
	return cmd
}
