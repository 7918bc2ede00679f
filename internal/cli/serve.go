package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/upstreamer/pkg/api"
	"github.com/matzehuels/upstreamer/pkg/extract/extractors"
)

// serveCommand creates the serve command, which runs the HTTP API until
// interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the HTTP API.

Routes:
  GET  /healthz        liveness and build information
  GET  /v1/fields      field names and value kinds
  POST /v1/reconcile   reconcile a list of guesses into a record
  POST /v1/update      merge guesses into an existing record
  POST /v1/extract     run the extractors over an artifact set

The listen address, cache backend, client header and CORS origins come
from the config file; --addr overrides the address.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := c.openCache(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer store.Close()

			if addr == "" {
				addr = cfg.Server.Addr
			}
			server := api.New(api.Options{
				Cache:            store,
				TTL:              cfg.CacheTTL(),
				Logger:           c.Logger,
				ClientHeader:     cfg.Server.ClientHeader,
				AllowedOrigins:   cfg.Server.AllowedOrigins,
				MinimumCertainty: cfg.Minimum(),
				Disabled:         cfg.Extractors.Disabled,
			})
			c.Logger.Info("starting server",
				"cache", cfg.Cache.Backend,
				"extractors", len(extractors.Names())-len(cfg.Extractors.Disabled))
			return server.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
