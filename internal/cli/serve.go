package cli

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/laddergrid/pkg/api"
	"github.com/matzehuels/laddergrid/pkg/observability/promhooks"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the converters over HTTP",
		Long: `Serve forward, reverse and roundtrip conversions as a JSON API.

Endpoints:
  POST /v1/forward     program JSON → grid document
  POST /v1/reverse     grid document or editor snapshot → trees
  POST /v1/roundtrip   program JSON → equivalence report
  GET  /healthz        liveness and build information
  GET  /metrics        Prometheus metrics

The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.Config.Server.Addr
			}

			defaults, err := c.options(convertFlags{})
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			promhooks.New(reg).Register()

			srv := api.NewServer(api.Config{
				Runner:       runner,
				Logger:       c.Logger,
				MaxBodyBytes: c.Config.Server.MaxBodyBytes,
				Gatherer:     reg,
				Defaults:     defaults,
			})
			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
