package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults applied when neither the file nor the environment set a value.
const (
	DefaultConcurrency = 4
	DefaultCacheSize   = 256
	DefaultLogLevel    = "info"
)

// Environment variables that override file settings.
const (
	EnvWorkspaceRoots = "SRCLENS_WORKSPACE_ROOTS"
	EnvLogLevel       = "SRCLENS_LOG_LEVEL"
	EnvGraphDB        = "SRCLENS_GRAPH_DB"
	EnvConcurrency    = "SRCLENS_CONCURRENCY"
)

// ProjectConfig holds project-level settings loaded from srclens.yml.
type ProjectConfig struct {
	WorkspaceRoots    []string `yaml:"workspaceRoots,omitempty"`
	DisabledLanguages []string `yaml:"disabledLanguages,omitempty"`
	Concurrency       int      `yaml:"concurrency,omitempty"`
	CacheSize         int      `yaml:"cacheSize,omitempty"`
	GraphDB           string   `yaml:"graphDB,omitempty"`
	LogLevel          string   `yaml:"logLevel,omitempty"`
}

// Load reads srclens.yml or srclens.yaml from dir, then applies .env in dir
// and the process environment on top. A missing file is not an error.
// Relative workspace roots and graph paths resolve against dir.
func Load(dir string) (*ProjectConfig, error) {
	cfg, err := readFile(dir)
	if err != nil {
		return nil, err
	}

	// Variables already in the process environment win over .env.
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults(dir)
	return cfg, nil
}

func readFile(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"srclens.yml", "srclens.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}

func (c *ProjectConfig) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvWorkspaceRoots)); v != "" {
		c.WorkspaceRoots = nil
		for _, root := range filepath.SplitList(v) {
			if root = strings.TrimSpace(root); root != "" {
				c.WorkspaceRoots = append(c.WorkspaceRoots, root)
			}
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvGraphDB)); v != "" {
		c.GraphDB = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvConcurrency)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvConcurrency, err)
		}
		c.Concurrency = n
	}
	return nil
}

func (c *ProjectConfig) applyDefaults(dir string) {
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.CacheSize <= 0 {
		c.CacheSize = DefaultCacheSize
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	for i, root := range c.WorkspaceRoots {
		c.WorkspaceRoots[i] = absUnder(dir, root)
	}
	if c.GraphDB != "" {
		c.GraphDB = absUnder(dir, c.GraphDB)
	}
}

func absUnder(dir, p string) string {
	if !filepath.IsAbs(p) {
		p = filepath.Join(dir, p)
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
