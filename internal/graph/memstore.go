package graph

import (
	"context"
	"sort"
	"sync"
)

// Compile-time assertion: *MemStore satisfies Store.
var _ Store = (*MemStore)(nil)

// MemStore implements Store using Go maps. Thread-safe via sync.RWMutex.
type MemStore struct {
	mu    sync.RWMutex
	files map[string]FileNode
	edges map[string][]string // file path -> tokens in ordinal order
}

// NewMemStore returns an initialized MemStore ready for use.
func NewMemStore() *MemStore {
	return &MemStore{
		files: make(map[string]FileNode),
		edges: make(map[string][]string),
	}
}

// InitSchema is a no-op for the in-memory store.
func (m *MemStore) InitSchema(_ context.Context) error {
	return nil
}

// AddFile stores a file node keyed by its path, replacing earlier metadata.
func (m *MemStore) AddFile(_ context.Context, node FileNode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[node.Path] = node
	return nil
}

// SetDependencies replaces the tokens of path. Unknown files are created
// with no metadata.
func (m *MemStore) SetDependencies(_ context.Context, path string, tokens []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[path]; !ok {
		m.files[path] = FileNode{Path: path}
	}
	m.edges[path] = append([]string(nil), tokens...)
	return nil
}

// GetFile returns the file node for the given path, or nil if not found.
func (m *MemStore) GetFile(_ context.Context, path string) (*FileNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[path]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

// Files returns every file node sorted by path.
func (m *MemStore) Files(_ context.Context) ([]FileNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]FileNode, 0, len(m.files))
	for _, f := range m.files {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Dependencies returns the tokens of path in scan order.
func (m *MemStore) Dependencies(_ context.Context, path string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string{}, m.edges[path]...), nil
}

// Dependents returns the sorted paths of files that depend on token.
func (m *MemStore) Dependents(_ context.Context, token string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []string{}
	for path, tokens := range m.edges {
		for _, t := range tokens {
			if t == token {
				out = append(out, path)
				break
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// Stats returns node and edge counts. Dependencies no file points to are
// not counted.
func (m *MemStore) Stats(_ context.Context) (*GraphStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := &GraphStats{FileCount: len(m.files)}
	seen := make(map[string]bool)
	for _, tokens := range m.edges {
		stats.EdgeCount += len(tokens)
		for _, t := range tokens {
			if seen[t] {
				continue
			}
			seen[t] = true
			if NewDependencyNode(t).External {
				stats.ExternalCount++
			}
		}
	}
	stats.DependencyCount = len(seen)
	return stats, nil
}

// Close is a no-op for the in-memory store.
func (m *MemStore) Close() error {
	return nil
}
