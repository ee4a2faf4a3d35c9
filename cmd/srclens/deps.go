package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/srclens/internal/engine"
	"github.com/dusk-indust/srclens/internal/graph"
)

func newDepsCmd(a *app) *cobra.Command {
	var (
		flagLang    string
		flagGraphDB string
	)

	cmd := &cobra.Command{
		Use:   "deps FILE...",
		Short: "List the import dependencies of source files",
		Long:  "Parses each file and prints its dependency tokens in source order. External packages carry the external: prefix; local imports are relative to the workspace root.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			inputs, err := readInputs(args, flagLang)
			if err != nil {
				return err
			}

			eng := a.newEngine()
			defer eng.Close()

			results, err := eng.ScanFiles(ctx, inputs, a.cfg.Concurrency)
			if err != nil {
				return fmt.Errorf("scanning: %w", err)
			}

			store, err := a.openGraph(ctx, flagGraphDB)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
				if err := persistResults(ctx, store, inputs, results); err != nil {
					return err
				}
				stats, err := store.Stats(ctx)
				if err != nil {
					return fmt.Errorf("graph stats: %w", err)
				}
				formatStatsText(cmd.ErrOrStderr(), stats.FileCount, stats.DependencyCount, stats.EdgeCount)
			}

			if a.format == "text" {
				formatDepsText(cmd.OutOrStdout(), results)
				return nil
			}
			return writeJSON(cmd.OutOrStdout(), depsByPath(results))
		},
	}

	cmd.Flags().StringVar(&flagLang, "lang", "", "language id for every file (default: from extension)")
	cmd.Flags().StringVar(&flagGraphDB, "graph-db", "", "persist results in the dependency graph at this path")
	return cmd
}

// readInputs loads each file with an absolute path and a language id.
func readInputs(paths []string, lang string) ([]engine.FileInput, error) {
	inputs := make([]engine.FileInput, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving path %q: %w", p, err)
		}
		data, err := os.ReadFile(abs)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", abs, err)
		}
		id := lang
		if id == "" {
			id = engine.LanguageForPath(abs)
		}
		inputs = append(inputs, engine.FileInput{Path: abs, Content: string(data), LanguageID: id})
	}
	return inputs, nil
}

// persistResults stores each scanned file and its tokens.
func persistResults(ctx context.Context, store graph.Store, inputs []engine.FileInput, results []engine.FileDeps) error {
	for i, r := range results {
		if err := store.AddFile(ctx, graph.NewFileNode(r.Path, r.LanguageID, inputs[i].Content)); err != nil {
			return fmt.Errorf("storing %s: %w", r.Path, err)
		}
		if err := store.SetDependencies(ctx, r.Path, r.Dependencies); err != nil {
			return fmt.Errorf("storing dependencies of %s: %w", r.Path, err)
		}
	}
	return nil
}
