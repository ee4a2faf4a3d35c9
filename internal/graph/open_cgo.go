//go:build cgo

package graph

import (
	"context"
	"fmt"
)

// Open opens or creates the persistent store at dbPath and initializes its
// schema.
func Open(ctx context.Context, dbPath string) (Store, error) {
	s, err := NewKuzuFileStore(dbPath)
	if err != nil {
		return nil, err
	}
	if err := s.InitSchema(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("open graph %s: %w", dbPath, err)
	}
	return s, nil
}
