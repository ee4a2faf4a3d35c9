package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/srclens/internal/engine"
	"github.com/dusk-indust/srclens/internal/graph"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, rel, body string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, version+"\n", out)
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := execute(t, "", "--config-dir", t.TempDir(), "--format", "xml", "version")
	assert.ErrorContains(t, err, "invalid format")
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := execute(t, "", "--config-dir", t.TempDir(), "--log-level", "loud", "strip")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestDeps_JSON(t *testing.T) {
	ws := t.TempDir()
	pyFile := writeFile(t, ws, "src/app.py", "import os\nfrom ..config import settings\n")
	web := writeFile(t, ws, "web/index.ts", "import React from 'react';\nimport { b } from '../lib/b';\n")

	out, _, err := execute(t, "", "--config-dir", ws, "--root", ws, "deps", pyFile, web)
	require.NoError(t, err)

	var got map[string][]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, map[string][]string{
		pyFile: {"external:os", "config"},
		web: {"external:react", "lib/b"},
	}, got)
}

func TestDeps_TextWithLangOverride(t *testing.T) {
	ws := t.TempDir()
	file := writeFile(t, ws, "script.txt", "const fs = require('fs');\n")

	out, _, err := execute(t, "", "--config-dir", ws, "--format", "text", "deps", "--lang", "javascript", file)
	require.NoError(t, err)
	assert.Equal(t, file+" (javascript)\n  external:fs\n", out)
}

func TestDeps_MissingFile(t *testing.T) {
	ws := t.TempDir()
	_, _, err := execute(t, "", "--config-dir", ws, "deps", filepath.Join(ws, "nope.go"))
	assert.ErrorContains(t, err, "reading")
}

func TestDeps_UsesConfigRoots(t *testing.T) {
	ws := t.TempDir()
	writeFile(t, ws, "srclens.yml", "workspaceRoots: [.]\n")
	file := writeFile(t, ws, "a/b/c.js", "import x from '../x';\n")

	out, _, err := execute(t, "", "--config-dir", ws, "--format", "text", "deps", file)
	require.NoError(t, err)
	assert.Contains(t, out, "  a/x\n")
}

func TestStrip_Stdin(t *testing.T) {
	out, _, err := execute(t, "/* lead */ let   a = 'x  y'; // tail\n",
		"--config-dir", t.TempDir(), "strip", "--lang", "typescript")
	require.NoError(t, err)
	assert.Equal(t, "let a = 'x  y';\n", out)
}

func TestStrip_FileKeepComments(t *testing.T) {
	ws := t.TempDir()
	file := writeFile(t, ws, "main.go", "package main\n\n// keep\nfunc main() {}\n")

	out, _, err := execute(t, "", "--config-dir", ws, "strip", "--keep-comments", file)
	require.NoError(t, err)
	assert.Equal(t, "package main // keep func main() {}\n", out)
}

func TestDependents_RequiresGraph(t *testing.T) {
	_, _, err := execute(t, "", "--config-dir", t.TempDir(), "dependents", "external:react")
	assert.ErrorContains(t, err, "no graph database")
}

func TestPersistResults(t *testing.T) {
	store := graph.NewMemStore()
	ctx := context.Background()
	inputs := []engine.FileInput{
		{Path: "/ws/a.js", Content: "import r from 'react'\n", LanguageID: "javascript"},
		{Path: "/ws/b.js", Content: "", LanguageID: "javascript"},
	}
	results := []engine.FileDeps{
		{Path: "/ws/a.js", LanguageID: "javascript", Dependencies: []string{"external:react"}},
		{Path: "/ws/b.js", LanguageID: "javascript", Dependencies: []string{}},
	}

	require.NoError(t, persistResults(ctx, store, inputs, results))

	f, err := store.GetFile(ctx, "/ws/a.js")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, 1, f.LOC)

	dependents, err := store.Dependents(ctx, "external:react")
	require.NoError(t, err)
	assert.Equal(t, []string{"/ws/a.js"}, dependents)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.FileCount)
}

func TestFormatDepsText(t *testing.T) {
	var buf bytes.Buffer
	formatDepsText(&buf, []engine.FileDeps{
		{Path: "/a.go", LanguageID: "go", Dependencies: []string{"external:fmt"}},
		{Path: "/b.txt", LanguageID: "", Dependencies: []string{}},
	})
	assert.Equal(t, "/a.go (go)\n  external:fmt\n/b.txt ()\n", buf.String())
}

func TestExport_RequiresGraph(t *testing.T) {
	_, _, err := execute(t, "", "--config-dir", t.TempDir(), "export", "--as", "mermaid")
	assert.ErrorIs(t, err, errNoGraph)
}
