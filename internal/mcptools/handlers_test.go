package mcptools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/srclens/internal/engine"
	"github.com/dusk-indust/srclens/internal/graph"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// newTestService builds a Service over a fresh engine rooted at root. A nil
// store leaves the graph tools disabled.
func newTestService(t *testing.T, root string, store graph.Store) *Service {
	t.Helper()
	eng := engine.New(engine.WithWorkspaceRoots(root))
	t.Cleanup(func() { _ = eng.Close() })

	opts := []ServiceOption{WithCacheSize(8), WithConcurrency(2)}
	if store != nil {
		opts = append(opts, WithStore(store))
	}
	svc, err := NewService(eng, opts...)
	require.NoError(t, err)
	return svc
}

func writeFile(t *testing.T, dir, rel, body string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// ---------------------------------------------------------------------------
// scan_dependencies
// ---------------------------------------------------------------------------

func TestScanDependencies_InlineContent(t *testing.T) {
	root := t.TempDir()
	svc := newTestService(t, root, nil)

	_, out, err := svc.ScanDependencies(context.Background(), nil, ScanDependenciesInput{
		Path:    filepath.Join(root, "web", "app.ts"),
		Content: "import React from 'react';\nimport { x } from '../lib/x';\n",
	})
	require.NoError(t, err)
	assert.Equal(t, "typescript", out.LanguageID, "language inferred from extension")
	assert.Equal(t, []string{"external:react", "lib/x"}, out.Dependencies)
}

func TestScanDependencies_ReadsFromDisk(t *testing.T) {
	root := t.TempDir()
	svc := newTestService(t, root, nil)
	path := writeFile(t, root, "pkg/main.py", "import os\nfrom .sibling import thing\n")

	_, out, err := svc.ScanDependencies(context.Background(), nil, ScanDependenciesInput{Path: path})
	require.NoError(t, err)
	assert.Equal(t, "python", out.LanguageID)
	assert.Equal(t, []string{"external:os", "pkg/sibling"}, out.Dependencies)
}

func TestScanDependencies_Errors(t *testing.T) {
	svc := newTestService(t, t.TempDir(), nil)
	ctx := context.Background()

	_, _, err := svc.ScanDependencies(ctx, nil, ScanDependenciesInput{})
	assert.ErrorContains(t, err, "path is required")

	_, _, err = svc.ScanDependencies(ctx, nil, ScanDependenciesInput{Path: filepath.Join(t.TempDir(), "missing.go")})
	assert.Error(t, err)
}

func TestScanDependencies_MemoDoesNotChangeOutput(t *testing.T) {
	root := t.TempDir()
	svc := newTestService(t, root, nil)
	ctx := context.Background()
	in := ScanDependenciesInput{Path: filepath.Join(root, "a.js"), Content: "import a from 'a'"}

	_, first, err := svc.ScanDependencies(ctx, nil, in)
	require.NoError(t, err)
	first.Dependencies[0] = "mutated"

	_, second, err := svc.ScanDependencies(ctx, nil, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"external:a"}, second.Dependencies)
	assert.Equal(t, 1, svc.memo.Len())

	in.LanguageID = "typescript"
	_, _, err = svc.ScanDependencies(ctx, nil, in)
	require.NoError(t, err)
	assert.Equal(t, 2, svc.memo.Len(), "language is part of the key")
}

func TestScanDependencies_RelativeResultsNotMemoized(t *testing.T) {
	root := t.TempDir()
	svc := newTestService(t, root, nil)
	ctx := context.Background()
	in := ScanDependenciesInput{Path: filepath.Join(root, "app.ts"), Content: "import { u } from './utils';\n"}

	_, first, err := svc.ScanDependencies(ctx, nil, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"utils"}, first.Dependencies)
	assert.Equal(t, 0, svc.memo.Len())

	writeFile(t, root, "utils.ts", "export const u = 1;\n")

	_, second, err := svc.ScanDependencies(ctx, nil, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"utils.ts"}, second.Dependencies)
}

func TestScanDependencies_PersistsToStore(t *testing.T) {
	root := t.TempDir()
	store := graph.NewMemStore()
	svc := newTestService(t, root, store)
	ctx := context.Background()
	path := filepath.Join(root, "main.go")

	_, _, err := svc.ScanDependencies(ctx, nil, ScanDependenciesInput{
		Path:    path,
		Content: "package main\n\nimport \"fmt\"\n",
	})
	require.NoError(t, err)

	f, err := store.GetFile(ctx, path)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, graph.FileNode{Path: path, Language: "go", LOC: 3}, *f)

	got, err := store.Dependencies(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, []string{"external:fmt"}, got)
}

// ---------------------------------------------------------------------------
// strip_comments
// ---------------------------------------------------------------------------

func TestStripComments(t *testing.T) {
	svc := newTestService(t, t.TempDir(), nil)

	_, out, err := svc.StripComments(context.Background(), nil, StripCommentsInput{
		Code:       "/* header */\nconst url = 'http://x.test/a'; // trailing",
		LanguageID: "javascript",
	})
	require.NoError(t, err)
	assert.Equal(t, "const url = 'http://x.test/a';", out.Code)

	_, out, err = svc.StripComments(context.Background(), nil, StripCommentsInput{
		Code:         "/* header */\nconst x  =  1; // t",
		LanguageID:   "javascript",
		KeepComments: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "/* header */ const x = 1; // t", out.Code)
}

// ---------------------------------------------------------------------------
// find_dependents / index_repository
// ---------------------------------------------------------------------------

func TestGraphToolsRequireStore(t *testing.T) {
	svc := newTestService(t, t.TempDir(), nil)
	ctx := context.Background()

	_, _, err := svc.FindDependents(ctx, nil, FindDependentsInput{Token: "external:react"})
	assert.ErrorIs(t, err, errNoStore)

	_, _, err = svc.IndexRepository(ctx, nil, IndexRepositoryInput{RepoPath: t.TempDir()})
	assert.ErrorIs(t, err, errNoStore)
}

func TestIndexRepository(t *testing.T) {
	root := t.TempDir()
	a := writeFile(t, root, "web/a.js", "import React from 'react';\nimport b from './b';\n")
	b := writeFile(t, root, "web/b.js", "import React from 'react';\n")
	writeFile(t, root, "svc/main.go", "package main\n\nimport \"fmt\"\n")
	writeFile(t, root, "node_modules/react/index.js", "require('ignored')\n")
	writeFile(t, root, "README.md", "# not source\n")

	store := graph.NewMemStore()
	svc := newTestService(t, root, store)
	ctx := context.Background()

	_, out, err := svc.IndexRepository(ctx, nil, IndexRepositoryInput{
		RepoPath:    root,
		ExcludeDirs: []string{"node_modules"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Stats.FileCount)
	assert.Equal(t, 4, out.Stats.EdgeCount)
	assert.Equal(t, 3, out.Stats.DependencyCount)
	assert.Equal(t, 2, out.Stats.ExternalCount)

	_, deps, err := svc.FindDependents(ctx, nil, FindDependentsInput{Token: "external:react"})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, deps.Files)
	assert.Equal(t, 2, deps.Total)

	_, deps, err = svc.FindDependents(ctx, nil, FindDependentsInput{Token: "web/b.js"})
	require.NoError(t, err)
	assert.Equal(t, []string{a}, deps.Files)
}

func TestIndexRepository_LanguageFilter(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.js", "import x from 'x';\n")
	writeFile(t, root, "b.py", "import y\n")

	store := graph.NewMemStore()
	svc := newTestService(t, root, store)

	_, out, err := svc.IndexRepository(context.Background(), nil, IndexRepositoryInput{
		RepoPath:  root,
		Languages: []string{"py"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Stats.FileCount)
}

func TestIndexRepository_SkipsLanguagesWithoutPatterns(t *testing.T) {
	root := t.TempDir()
	main := writeFile(t, root, "main.go", "package main\n\nimport \"fmt\"\n")
	writeFile(t, root, "lib.rs", "use std::io;\n")
	writeFile(t, root, "style.css", "a { color: red; }\n")
	writeFile(t, root, "App.java", "import java.util.List;\nclass App {}\n")

	store := graph.NewMemStore()
	svc := newTestService(t, root, store)
	ctx := context.Background()

	_, out, err := svc.IndexRepository(ctx, nil, IndexRepositoryInput{RepoPath: root})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Stats.FileCount)

	files, err := store.Files(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, main, files[0].Path)
}

func TestIndexRepository_BadInput(t *testing.T) {
	svc := newTestService(t, t.TempDir(), graph.NewMemStore())
	ctx := context.Background()

	_, _, err := svc.IndexRepository(ctx, nil, IndexRepositoryInput{})
	assert.ErrorContains(t, err, "repoPath is required")

	file := writeFile(t, t.TempDir(), "f.go", "package f\n")
	_, _, err = svc.IndexRepository(ctx, nil, IndexRepositoryInput{RepoPath: file})
	assert.ErrorContains(t, err, "not a directory")
}
