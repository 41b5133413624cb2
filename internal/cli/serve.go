package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/dbccheck/internal/api"
	"github.com/matzehuels/dbccheck/pkg/buildinfo"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the precheck over HTTP",
		Long: `Serve the precheck over HTTP.

Reports are cached with the configured cache backend (use redis to share the
cache between replicas) and every run is recorded in the history store when
history.mongo_uri is set.`,
		Example: `  dbccheck serve --addr :9090`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadedConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Serve.Addr
			}

			runner, ch, err := c.newRunner(ctx, cfg)
			if err != nil {
				return err
			}
			defer ch.Close()

			st, err := c.newStore(ctx, cfg)
			if err != nil {
				return err
			}
			if st != nil {
				defer st.Close(ctx)
			}

			printKeyValue("version", buildinfo.Version)
			printKeyValue("address", addr)
			printKeyValue("cache", cfg.Cache.Backend)
			history := "disabled"
			if st != nil {
				history = cfg.History.Database + "." + cfg.History.Collection
			}
			printKeyValue("history", history)

			return api.New(runner, st, c.Logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", api.DefaultAddr, "listen address")
	return cmd
}
