package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvWorkspaceRoots, EnvLogLevel, EnvGraphDB, EnvConcurrency} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func write(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConcurrency, cfg.Concurrency)
	assert.Equal(t, DefaultCacheSize, cfg.CacheSize)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Empty(t, cfg.WorkspaceRoots)
	assert.Empty(t, cfg.GraphDB)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	write(t, dir, "srclens.yml", `
workspaceRoots: [app, /abs/root]
disabledLanguages: [rust]
concurrency: 8
cacheSize: 10
graphDB: .srclens/graph
logLevel: debug
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "app"), "/abs/root"}, cfg.WorkspaceRoots)
	assert.Equal(t, []string{"rust"}, cfg.DisabledLanguages)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, 10, cfg.CacheSize)
	assert.Equal(t, filepath.Join(dir, ".srclens", "graph"), cfg.GraphDB)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_YAMLExtension(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	write(t, dir, "srclens.yaml", "concurrency: 2\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Concurrency)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	write(t, dir, "srclens.yml", "concurrency: [not, an, int\n")

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	write(t, dir, "srclens.yml", "logLevel: warn\nconcurrency: 3\n")

	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvConcurrency, "6")
	t.Setenv(EnvWorkspaceRoots, "/r1"+string(os.PathListSeparator)+" /r2 ")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, 6, cfg.Concurrency)
	assert.Equal(t, []string{"/r1", "/r2"}, cfg.WorkspaceRoots)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	write(t, dir, ".env", EnvGraphDB+"=db\n"+EnvLogLevel+"=debug\n")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "db"), cfg.GraphDB)
	assert.Equal(t, "warn", cfg.LogLevel, "process environment wins over .env")
}

func TestLoad_BadConcurrencyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConcurrency, "many")

	_, err := Load(t.TempDir())
	assert.ErrorContains(t, err, EnvConcurrency)
}
