package cli

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockgen/pkg/metrics"
	"github.com/matzehuels/blockgen/pkg/observability"
	"github.com/matzehuels/blockgen/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		vocabPath string
		noCache   bool
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the generate and export operations over HTTP.

  POST /api/v1/generate          {"text": "..."}
  POST /api/v1/export/{format}   diagram JSON body
  GET  /api/v1/vocabulary
  GET  /healthz
  GET  /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			vocab, err := c.vocabulary(cfg, vocabPath)
			if err != nil {
				return err
			}

			runner := c.newRunner(ctx, cfg, noCache)
			defer runner.Close()

			var reg *metrics.Registry
			if !noMetrics {
				reg = metrics.NewRegistry()
				reg.Install()
				defer observability.Reset()
			}

			srv := server.New(runner, server.Options{
				Addr:         cfg.Server.Addr,
				MaxBodyBytes: cfg.Server.MaxBodyBytes,
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
				Vocabulary:   vocab,
				Metrics:      reg,
				Logger:       c.Logger,
			})

			printInfo("Serving on %s", StyleLink.Render(displayURL(cfg.Server.Addr)))
			printDetail("cache: %s", cfg.Cache.Backend)
			err = srv.ListenAndServe(ctx)
			if stderrors.Is(err, context.Canceled) {
				printSuccess("Server stopped")
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&vocabPath, "vocab", "", "extra vocabulary file (TOML or YAML)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")

	return cmd
}

// displayURL turns a listen address into a clickable URL.
func displayURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
