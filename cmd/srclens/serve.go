package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/srclens/internal/mcptools"
)

func newServeMCPCmd(a *app) *cobra.Command {
	var (
		flagAddr    string
		flagGraphDB string
	)

	cmd := &cobra.Command{
		Use:   "serve-mcp",
		Short: "Run the MCP server",
		Long:  "Serves scan_dependencies and strip_comments over MCP, plus find_dependents and index_repository when a graph database is configured. Uses stdio unless --addr is given.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			eng := a.newEngine()
			defer eng.Close()

			opts := []mcptools.ServiceOption{
				mcptools.WithCacheSize(a.cfg.CacheSize),
				mcptools.WithConcurrency(a.cfg.Concurrency),
			}
			store, err := a.openGraph(ctx, flagGraphDB)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
				opts = append(opts, mcptools.WithStore(store))
			}

			svc, err := mcptools.NewService(eng, opts...)
			if err != nil {
				return fmt.Errorf("creating service: %w", err)
			}

			if flagAddr == "" {
				a.logger.Info("serving MCP on stdio", "graph", store != nil)
				return mcptools.RunMCPServerStdio(ctx, svc)
			}
			a.logger.Info("serving MCP over HTTP", "addr", flagAddr, "graph", store != nil)
			return mcptools.RunMCPServer(ctx, svc, flagAddr)
		},
	}

	cmd.Flags().StringVar(&flagAddr, "addr", "", "HTTP listen address, e.g. :8080 (default: stdio)")
	cmd.Flags().StringVar(&flagGraphDB, "graph-db", "", "dependency graph path (default from config)")
	return cmd
}
