package graph

import (
	"context"
	"errors"
	"io"
)

// ErrNoBackend is returned by Open when the binary was built without the
// persistent graph backend.
var ErrNoBackend = errors.New("graph: persistent store requires a cgo build")

// Store persists the dependency tokens of scanned files.
// Implementations: KuzuStore (production), MemStore (testing).
type Store interface {
	io.Closer

	// Schema setup, called once before any data is inserted.
	InitSchema(ctx context.Context) error

	// Write operations.
	AddFile(ctx context.Context, node FileNode) error
	SetDependencies(ctx context.Context, path string, tokens []string) error

	// Read operations.
	GetFile(ctx context.Context, path string) (*FileNode, error)
	Files(ctx context.Context) ([]FileNode, error)
	Dependencies(ctx context.Context, path string) ([]string, error)
	Dependents(ctx context.Context, token string) ([]string, error)

	Stats(ctx context.Context) (*GraphStats, error)
}
