package export

import (
	"context"
	"fmt"
	"time"

	"github.com/dusk-indust/srclens/internal/graph"
)

// GraphExport is the top-level JSON export structure.
type GraphExport struct {
	ExportedAt string           `json:"exportedAt"`
	Stats      graph.GraphStats `json:"stats"`
	Files      []FileExport     `json:"files"`
}

// FileExport describes one file and its ordered dependency tokens.
type FileExport struct {
	Path         string   `json:"path"`
	Language     string   `json:"language,omitempty"`
	LOC          int      `json:"loc"`
	Dependencies []string `json:"dependencies"`
}

// ExportGraph builds a GraphExport from a graph store. Files are sorted by
// path.
func ExportGraph(ctx context.Context, store graph.Store) (*GraphExport, error) {
	stats, err := store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	files, err := store.Files(ctx)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	export := &GraphExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Stats:      *stats,
		Files:      make([]FileExport, 0, len(files)),
	}
	for _, f := range files {
		deps, err := store.Dependencies(ctx, f.Path)
		if err != nil {
			return nil, fmt.Errorf("dependencies of %s: %w", f.Path, err)
		}
		export.Files = append(export.Files, FileExport{
			Path:         f.Path,
			Language:     f.Language,
			LOC:          f.LOC,
			Dependencies: deps,
		})
	}
	return export, nil
}
