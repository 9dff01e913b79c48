package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/diagramkit/pkg/server"
	"github.com/matzehuels/diagramkit/pkg/steps"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the validation, layout and playback API over HTTP",
		Long: `Serve the HTTP API: diagram validation and correction, layouts, a diagram
store and step playback sessions.

The cache and store backends come from the config file ([cache] and [store]
sections). The server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.config()
			if addr == "" {
				addr = cfg.Server.Addr
			}

			runner, err := c.newRunner(ctx, false)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			srv := server.New(server.Options{
				Runner: runner,
				Store:  st,
				Logger: c.Logger,
				Layout: c.layoutOptions(),
				Steps: steps.Options{
					Loop:                     cfg.Steps.Loop,
					AutoAdvanceDelay:         cfg.Steps.AutoAdvanceDelay.Duration,
					DefaultAnimationDuration: cfg.Steps.AnimationDuration.Duration,
				},
				SessionTTL:   cfg.Server.SessionTTL.Duration,
				MaxBodyBytes: cfg.Server.MaxBodyBytes,
			})

			c.Logger.Info("starting server", "addr", addr, "cache", cfg.Cache.Backend, "store", cfg.Store.Backend)
			return srv.ListenAndServe(ctx, server.HTTPConfig{
				Addr:            addr,
				ReadTimeout:     cfg.Server.ReadTimeout.Duration,
				WriteTimeout:    cfg.Server.WriteTimeout.Duration,
				ShutdownTimeout: cfg.Server.ShutdownTimeout.Duration,
			})
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config, :8080)")
	return cmd
}
