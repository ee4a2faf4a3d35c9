package mcptools

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/srclens/internal/deps"
	"github.com/dusk-indust/srclens/internal/engine"
	"github.com/dusk-indust/srclens/internal/grammar"
	"github.com/dusk-indust/srclens/internal/graph"
)

// DefaultCacheSize bounds the scan memo when no size is configured.
const DefaultCacheSize = 256

var errNoStore = errors.New("no graph store attached")

// Service holds the engine and optional graph store used by MCP tool
// handlers.
type Service struct {
	engine      *engine.Engine
	store       graph.Store
	memo        *lru.Cache[string, []string]
	cacheSize   int
	concurrency int
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithStore attaches a graph store. Scans are then persisted and the
// find_dependents and index_repository tools are exposed.
func WithStore(store graph.Store) ServiceOption {
	return func(s *Service) { s.store = store }
}

// WithCacheSize sets how many scan results are memoized.
func WithCacheSize(n int) ServiceOption {
	return func(s *Service) { s.cacheSize = n }
}

// WithConcurrency sets how many files index_repository scans at once.
func WithConcurrency(n int) ServiceOption {
	return func(s *Service) { s.concurrency = n }
}

// NewService creates a Service around eng.
func NewService(eng *engine.Engine, opts ...ServiceOption) (*Service, error) {
	s := &Service{engine: eng, cacheSize: DefaultCacheSize, concurrency: 1}
	for _, opt := range opts {
		opt(s)
	}
	if s.cacheSize <= 0 {
		s.cacheSize = DefaultCacheSize
	}
	memo, err := lru.New[string, []string](s.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("scan memo: %w", err)
	}
	s.memo = memo
	return s, nil
}

// HasStore reports whether a graph store is attached.
func (s *Service) HasStore() bool { return s.store != nil }

// memoKey hashes everything an external-only scan result depends on.
func memoKey(path, languageID, content string) string {
	h := sha256.New()
	for _, part := range []string{path, languageID, content} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// scan returns the tokens of one file, consulting the memo first.
func (s *Service) scan(ctx context.Context, path, content, languageID string) []string {
	key := memoKey(path, languageID, content)
	if cached, ok := s.memo.Get(key); ok {
		return append([]string{}, cached...)
	}
	tokens := s.engine.ScanDependencies(ctx, path, content, languageID)
	if allExternal(tokens) {
		s.memo.Add(key, append([]string{}, tokens...))
	}
	return tokens
}

// allExternal reports whether no token came from a relative import.
// Relative tokens depend on which files exist, so they are not memoized.
func allExternal(tokens []string) bool {
	for _, t := range tokens {
		if !strings.HasPrefix(t, deps.ExternalPrefix) {
			return false
		}
	}
	return true
}

// persist writes one scan result to the attached store, if any.
func (s *Service) persist(ctx context.Context, path, languageID, content string, tokens []string) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.AddFile(ctx, graph.NewFileNode(path, languageID, content)); err != nil {
		return fmt.Errorf("add file %s: %w", path, err)
	}
	if err := s.store.SetDependencies(ctx, path, tokens); err != nil {
		return fmt.Errorf("set dependencies %s: %w", path, err)
	}
	return nil
}

// ScanDependencies returns the dependency tokens of one file.
func (s *Service) ScanDependencies(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ScanDependenciesInput,
) (*mcp.CallToolResult, ScanDependenciesOutput, error) {
	if input.Path == "" {
		return nil, ScanDependenciesOutput{}, fmt.Errorf("path is required")
	}
	path, err := filepath.Abs(input.Path)
	if err != nil {
		return nil, ScanDependenciesOutput{}, fmt.Errorf("resolve path: %w", err)
	}

	content := input.Content
	if content == "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, ScanDependenciesOutput{}, fmt.Errorf("read %s: %w", path, err)
		}
		content = string(data)
	}

	languageID := input.LanguageID
	if languageID == "" {
		languageID = engine.LanguageForPath(path)
	}

	tokens := s.scan(ctx, path, content, languageID)
	if err := s.persist(ctx, path, languageID, content, tokens); err != nil {
		return nil, ScanDependenciesOutput{}, err
	}

	return nil, ScanDependenciesOutput{
		Path:         path,
		LanguageID:   languageID,
		Dependencies: tokens,
	}, nil
}

// StripComments removes comments and minifies whitespace.
func (s *Service) StripComments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input StripCommentsInput,
) (*mcp.CallToolResult, StripCommentsOutput, error) {
	if input.KeepComments {
		return nil, StripCommentsOutput{Code: s.engine.MinifyWhitespace(ctx, input.Code, input.LanguageID)}, nil
	}
	return nil, StripCommentsOutput{Code: s.engine.StripComments(ctx, input.Code, input.LanguageID)}, nil
}

// FindDependents lists files that depend on a token.
func (s *Service) FindDependents(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FindDependentsInput,
) (*mcp.CallToolResult, FindDependentsOutput, error) {
	if s.store == nil {
		return nil, FindDependentsOutput{}, errNoStore
	}
	if input.Token == "" {
		return nil, FindDependentsOutput{}, fmt.Errorf("token is required")
	}
	files, err := s.store.Dependents(ctx, input.Token)
	if err != nil {
		return nil, FindDependentsOutput{}, fmt.Errorf("find dependents: %w", err)
	}
	return nil, FindDependentsOutput{Files: files, Total: len(files)}, nil
}

// IndexRepository walks a repository, scans every recognised source file and
// stores the results. Returns graph statistics.
func (s *Service) IndexRepository(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IndexRepositoryInput,
) (*mcp.CallToolResult, IndexRepositoryOutput, error) {
	if s.store == nil {
		return nil, IndexRepositoryOutput{}, errNoStore
	}
	if input.RepoPath == "" {
		return nil, IndexRepositoryOutput{}, fmt.Errorf("repoPath is required")
	}
	root, err := filepath.Abs(input.RepoPath)
	if err != nil {
		return nil, IndexRepositoryOutput{}, fmt.Errorf("resolve repoPath: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, IndexRepositoryOutput{}, fmt.Errorf("cannot access repoPath: %w", err)
	}
	if !info.IsDir() {
		return nil, IndexRepositoryOutput{}, fmt.Errorf("repoPath is not a directory: %s", root)
	}

	inputs, err := collectFiles(root, input.Languages, input.ExcludeDirs)
	if err != nil {
		return nil, IndexRepositoryOutput{}, fmt.Errorf("walk: %w", err)
	}

	results, err := s.engine.ScanFiles(ctx, inputs, s.concurrency)
	if err != nil {
		return nil, IndexRepositoryOutput{}, fmt.Errorf("scan: %w", err)
	}
	for i, r := range results {
		if err := s.persist(ctx, r.Path, r.LanguageID, inputs[i].Content, r.Dependencies); err != nil {
			return nil, IndexRepositoryOutput{}, err
		}
	}

	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, IndexRepositoryOutput{}, fmt.Errorf("stats: %w", err)
	}
	return nil, IndexRepositoryOutput{Stats: *stats}, nil
}

// collectFiles reads every file under root whose extension maps to an
// allowed grammar. An empty languages list allows all grammars.
func collectFiles(root string, languages, excludeDirs []string) ([]engine.FileInput, error) {
	allowed := make(map[grammar.Language]bool)
	for _, id := range languages {
		if lang, ok := grammar.ResolveLanguage(id); ok {
			allowed[lang] = true
		}
	}

	excludeSet := make(map[string]bool, len(excludeDirs))
	for _, d := range excludeDirs {
		excludeSet[d] = true
	}

	var inputs []engine.FileInput
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (name == ".git" || excludeSet[name]) {
				return filepath.SkipDir
			}
			return nil
		}

		languageID := engine.LanguageForPath(path)
		lang, ok := grammar.ResolveLanguage(languageID)
		if !ok || !deps.HasPatterns(lang) || (len(allowed) > 0 && !allowed[lang]) {
			return nil
		}

		source, err := os.ReadFile(path)
		if err != nil {
			return nil // skip unreadable files
		}
		inputs = append(inputs, engine.FileInput{Path: path, Content: string(source), LanguageID: languageID})
		return nil
	})
	return inputs, err
}
