// Package deps extracts import references from source files.
//
// Each reference becomes a dependency token: a workspace-relative path with
// forward slashes for relative imports, or "external:<name>" for everything
// else. Scanning never fails; problems are reported to the diagnostic sink
// and produce an empty or partial result.
package deps

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/srclens/internal/diag"
	"github.com/dusk-indust/srclens/internal/grammar"
	"github.com/dusk-indust/srclens/internal/workspace"
)

// ExternalPrefix marks tokens that name a package rather than a path.
const ExternalPrefix = "external:"

// Scanner extracts dependency tokens. It is safe for concurrent use.
type Scanner struct {
	registry *grammar.Registry
	roots    workspace.RootProvider
	sink     diag.Sink
	queries  *queryCache

	// classify maps a specifier to its token; replaceable in tests.
	classify func(spec string, target scanTarget) string
}

// NewScanner creates a Scanner. A nil roots provider means no workspace
// roots; a nil sink discards diagnostics.
func NewScanner(registry *grammar.Registry, roots workspace.RootProvider, sink diag.Sink) *Scanner {
	if roots == nil {
		roots = workspace.None
	}
	return &Scanner{
		registry: registry,
		roots:    roots,
		sink:     diag.Safe(sink),
		queries:  newQueryCache(),
		classify: classify,
	}
}

// Close releases the compiled queries.
func (s *Scanner) Close() error {
	s.queries.close()
	return nil
}

// scanTarget carries the per-call paths used to format relative tokens.
type scanTarget struct {
	filePath string
	baseDir  string
	root     string
}

// relative resolves specifier against the file's directory and formats it
// against the workspace root (or the file's directory).
func (t scanTarget) relative(specifier string) string {
	resolved := ResolveImportPath(specifier, t.baseDir)
	return FormatRelativeImport(resolved, t.root, t.baseDir)
}

// ScanDependencies returns the de-duplicated dependency tokens of content in
// document order. The result is never nil.
func (s *Scanner) ScanDependencies(ctx context.Context, filePath, content, languageID string) (tokens []string) {
	out := NewOrderedSet()
	defer func() {
		if p := recover(); p != nil {
			s.sink.Error("dependency scan panicked", "path", filePath, "panic", fmt.Sprint(p))
			tokens = out.Slice()
		}
	}()

	if strings.TrimSpace(content) == "" {
		return out.Slice()
	}

	target := scanTarget{filePath: filePath, baseDir: filepath.Dir(filePath)}

	h, ok := s.registry.GetParser(ctx, languageID)
	if !ok {
		return out.Slice()
	}

	if root, ok := s.roots.RootFor(filePath); ok {
		target.root = root
	}

	tree, err := h.Parse([]byte(content))
	if err != nil {
		s.sink.Error("parse failed", "path", filePath, "language", h.Language(), "error", err)
		return out.Slice()
	}
	defer tree.Close()

	set, ok := patternSetFor(h.Language())
	if !ok {
		s.sink.Warn("no import patterns for language", "path", filePath, "language", h.Language())
		return out.Slice()
	}

	q, err := s.queries.get(h, set)
	if err != nil {
		s.sink.Error("query compile failed", "path", filePath, "language", h.Language(), "error", err)
		return out.Slice()
	}

	s.collect(q, tree, h.Language(), target, out)
	return out.Slice()
}

// collect runs q over the tree and adds each classified match to out. A
// panic during iteration stops collection; whatever was added stays in out.
func (s *Scanner) collect(q *tree_sitter.Query, tree *grammar.Tree, lang grammar.Language, target scanTarget, out *OrderedSet) {
	defer func() {
		if p := recover(); p != nil {
			s.sink.Error("query execution failed", "path", target.filePath, "language", lang,
				"panic", fmt.Sprint(p), "collected", out.Len())
		}
	}()

	source := tree.Source()
	names := q.CaptureNames()

	cursor := tree_sitter.NewQueryCursor()
	defer cursor.Close()

	matches := cursor.Matches(q, tree.RawRoot(), source)
	for match := matches.Next(); match != nil; match = matches.Next() {
		caps := captureTexts(match, names, source)

		if lang == grammar.LangPython && applyPythonRule(caps, target, out) {
			continue
		}

		if callee, ok := caps[captureCallee]; ok && callee != "require" {
			continue
		}

		raw, ok := caps[capturePath]
		if !ok {
			continue
		}
		spec := unquote(raw)
		if strings.TrimSpace(spec) == "" {
			continue
		}
		out.Add(s.classify(spec, target))
	}
}

// captureTexts maps capture names to the text of their first node.
func captureTexts(match *tree_sitter.QueryMatch, names []string, source []byte) map[string]string {
	caps := make(map[string]string, len(match.Captures))
	for _, c := range match.Captures {
		if int(c.Index) >= len(names) {
			continue
		}
		name := names[c.Index]
		if _, seen := caps[name]; seen {
			continue
		}
		caps[name] = c.Node.Utf8Text(source)
	}
	return caps
}

// classify turns a specifier into a relative path token or an external one.
func classify(spec string, target scanTarget) string {
	if strings.HasPrefix(spec, ".") {
		return target.relative(spec)
	}
	return ExternalPrefix + spec
}

// unquote strips one matching pair of quote characters.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first == last && (first == '\'' || first == '"' || first == '`') {
		return s[1 : len(s)-1]
	}
	return s
}
