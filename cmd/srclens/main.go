package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/srclens/internal/config"
	"github.com/dusk-indust/srclens/internal/diag"
	"github.com/dusk-indust/srclens/internal/engine"
	"github.com/dusk-indust/srclens/internal/graph"
)

// version is set by goreleaser at build time.
var version = "dev"

var errNoGraph = errors.New("no graph database: pass --graph-db or set graphDB in srclens.yml")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// app carries global flags and the state they produce.
type app struct {
	configDir string
	logLevel  string
	roots     []string
	format    string

	cfg    *config.ProjectConfig
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "srclens",
		Short:         "Extract import dependencies and strip comments with tree-sitter",
		Long:          "srclens parses source files with tree-sitter grammars to list their import dependencies, strip comments and minify whitespace.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
		// No Run, prints help by default.
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", ".", "directory holding srclens.yml and .env")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug|info|warn|error (default from config)")
	root.PersistentFlags().StringArrayVar(&a.roots, "root", nil, "workspace root, repeatable (default from config)")
	root.PersistentFlags().StringVar(&a.format, "format", "json", "output format: json|text")

	root.AddCommand(
		newDepsCmd(a),
		newDependentsCmd(a),
		newStripCmd(a),
		newServeMCPCmd(a),
		newExportCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup validates global flags, loads config and builds the logger.
func (a *app) setup(stderr io.Writer) error {
	if err := validateFormat(a.format); err != nil {
		return err
	}

	cfg, err := config.Load(a.configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if len(a.roots) > 0 {
		cfg.WorkspaceRoots = cfg.WorkspaceRoots[:0]
		for _, r := range a.roots {
			abs, err := filepath.Abs(r)
			if err != nil {
				return fmt.Errorf("resolving root %q: %w", r, err)
			}
			cfg.WorkspaceRoots = append(cfg.WorkspaceRoots, abs)
		}
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}

	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

// newEngine builds an Engine from the loaded config.
func (a *app) newEngine() *engine.Engine {
	return engine.New(
		engine.WithSink(diag.NewSlogSink(a.logger)),
		engine.WithWorkspaceRoots(a.cfg.WorkspaceRoots...),
		engine.WithDisabledLanguages(a.cfg.DisabledLanguages...),
	)
}

// openGraph opens the store at flagPath, falling back to the configured
// path. It returns a nil store when neither is set.
func (a *app) openGraph(ctx context.Context, flagPath string) (graph.Store, error) {
	dbPath := flagPath
	if dbPath == "" {
		dbPath = a.cfg.GraphDB
	}
	if dbPath == "" {
		return nil, nil
	}
	store, err := graph.Open(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening graph %s: %w", dbPath, err)
	}
	a.logger.Debug("graph opened", "path", dbPath)
	return store, nil
}

// requireGraph is openGraph for commands that cannot run without a store.
func (a *app) requireGraph(ctx context.Context, flagPath string) (graph.Store, error) {
	store, err := a.openGraph(ctx, flagPath)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errNoGraph
	}
	return store, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
