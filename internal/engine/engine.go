// Package engine wires the grammar registry, dependency scanner and comment
// stripper around one diagnostic sink and one set of workspace roots.
package engine

import (
	"context"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/srclens/internal/deps"
	"github.com/dusk-indust/srclens/internal/diag"
	"github.com/dusk-indust/srclens/internal/grammar"
	"github.com/dusk-indust/srclens/internal/minify"
	"github.com/dusk-indust/srclens/internal/workspace"
)

// Engine is the composition root of the analysis core.
type Engine struct {
	registry *grammar.Registry
	scanner  *deps.Scanner
	stripper *minify.Stripper
	sink     diag.Sink
}

type options struct {
	locator  grammar.Locator
	sink     diag.Sink
	roots    workspace.RootProvider
	disabled []grammar.Language
}

// Option configures an Engine.
type Option func(*options)

// WithLocator sets where grammars come from. The default is the builtin set.
func WithLocator(l grammar.Locator) Option {
	return func(o *options) { o.locator = l }
}

// WithSink sets the diagnostic sink.
func WithSink(s diag.Sink) Option {
	return func(o *options) { o.sink = s }
}

// WithWorkspaceRoots sets the roots relative tokens are reported against.
func WithWorkspaceRoots(roots ...string) Option {
	return func(o *options) { o.roots = workspace.Roots(roots) }
}

// WithRootProvider sets a custom workspace root provider.
func WithRootProvider(p workspace.RootProvider) Option {
	return func(o *options) { o.roots = p }
}

// WithDisabledLanguages hides grammars by language id. Unknown ids are
// ignored.
func WithDisabledLanguages(ids ...string) Option {
	return func(o *options) {
		for _, id := range ids {
			if lang, ok := grammar.ResolveLanguage(id); ok {
				o.disabled = append(o.disabled, lang)
			}
		}
	}
}

// New builds an Engine.
func New(opts ...Option) *Engine {
	o := options{
		locator: grammar.BuiltinLocator(),
		sink:    diag.Nop(),
		roots:   workspace.None,
	}
	for _, opt := range opts {
		opt(&o)
	}
	sink := diag.Safe(o.sink)

	registry := grammar.NewRegistry(
		grammar.WithLocator(grammar.FilteredLocator(o.locator, o.disabled...)),
		grammar.WithSink(sink),
	)
	return &Engine{
		registry: registry,
		scanner:  deps.NewScanner(registry, o.roots, sink),
		stripper: minify.NewStripper(registry, sink),
		sink:     sink,
	}
}

// Registry exposes the grammar registry.
func (e *Engine) Registry() *grammar.Registry { return e.registry }

// Close releases compiled queries.
func (e *Engine) Close() error {
	return e.scanner.Close()
}

// ScanDependencies returns the dependency tokens of one file.
func (e *Engine) ScanDependencies(ctx context.Context, filePath, content, languageID string) []string {
	return e.scanner.ScanDependencies(ctx, filePath, content, languageID)
}

// StripComments removes comments and minifies whitespace.
func (e *Engine) StripComments(ctx context.Context, code, languageID string) string {
	return e.stripper.StripComments(ctx, code, languageID)
}

// MinifyWhitespace minifies whitespace without removing comments.
func (e *Engine) MinifyWhitespace(ctx context.Context, code, languageID string) string {
	return e.stripper.MinifyWhitespace(ctx, code, languageID)
}

// FileInput is one file handed to ScanFiles.
type FileInput struct {
	Path       string
	Content    string
	LanguageID string
}

// FileDeps pairs a scanned path with its tokens.
type FileDeps struct {
	Path         string   `json:"path"`
	LanguageID   string   `json:"languageId"`
	Dependencies []string `json:"dependencies"`
}

// ScanFiles scans inputs concurrently, at most concurrency at a time, and
// returns results in input order. It stops early only when ctx is
// cancelled.
func (e *Engine) ScanFiles(ctx context.Context, inputs []FileInput, concurrency int) ([]FileDeps, error) {
	if concurrency <= 0 {
		concurrency = 1
	}
	out := make([]FileDeps, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = FileDeps{
				Path:         in.Path,
				LanguageID:   in.LanguageID,
				Dependencies: e.scanner.ScanDependencies(gctx, in.Path, in.Content, in.LanguageID),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// extLanguages maps file extensions to language ids.
var extLanguages = map[string]string{
	".go":   "go",
	".py":   "python",
	".pyi":  "python",
	".js":   "javascript",
	".mjs":  "javascript",
	".cjs":  "javascript",
	".jsx":  "javascriptreact",
	".ts":   "typescript",
	".mts":  "typescript",
	".cts":  "typescript",
	".tsx":  "typescriptreact",
	".rs":   "rust",
	".java": "java",
	".cs":   "csharp",
	".css":  "css",
	".scss": "scss",
	".less": "less",
	".yaml": "yaml",
	".yml":  "yaml",
}

// LanguageForPath guesses a language id from a file name. Unknown
// extensions return "".
func LanguageForPath(path string) string {
	base := filepath.Base(path)
	if strings.EqualFold(base, "makefile") || strings.EqualFold(base, "gnumakefile") {
		return "makefile"
	}
	return extLanguages[strings.ToLower(filepath.Ext(base))]
}
