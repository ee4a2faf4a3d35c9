package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/srclens/internal/export"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		flagGraphDB string
		flagAs      string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the dependency graph as JSON or Mermaid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := a.requireGraph(ctx, flagGraphDB)
			if err != nil {
				return err
			}
			defer store.Close()

			switch flagAs {
			case "mermaid":
				out, err := export.GenerateMermaid(ctx, store)
				if err != nil {
					return fmt.Errorf("generating mermaid: %w", err)
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), out)
				return err
			case "json":
				out, err := export.ExportGraph(ctx, store)
				if err != nil {
					return fmt.Errorf("exporting graph: %w", err)
				}
				return writeJSON(cmd.OutOrStdout(), out)
			default:
				return fmt.Errorf("invalid export format %q (expected json or mermaid)", flagAs)
			}
		},
	}

	cmd.Flags().StringVar(&flagGraphDB, "graph-db", "", "dependency graph path (default from config)")
	cmd.Flags().StringVar(&flagAs, "as", "json", "export format: json|mermaid")
	return cmd
}
