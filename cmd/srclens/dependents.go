package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDependentsCmd(a *app) *cobra.Command {
	var flagGraphDB string

	cmd := &cobra.Command{
		Use:   "dependents TOKEN",
		Short: "List files that depend on a token",
		Long:  "Queries the dependency graph written by `srclens deps --graph-db` for files that import TOKEN, e.g. external:react or lib/button.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := a.requireGraph(ctx, flagGraphDB)
			if err != nil {
				return err
			}
			defer store.Close()

			files, err := store.Dependents(ctx, args[0])
			if err != nil {
				return fmt.Errorf("querying dependents: %w", err)
			}

			if a.format == "text" {
				formatLinesText(cmd.OutOrStdout(), files)
				return nil
			}
			return writeJSON(cmd.OutOrStdout(), files)
		},
	}

	cmd.Flags().StringVar(&flagGraphDB, "graph-db", "", "dependency graph path (default from config)")
	return cmd
}
