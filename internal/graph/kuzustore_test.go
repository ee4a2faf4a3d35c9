//go:build cgo

package graph

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore creates a fresh in-memory KuzuStore with an initialized schema.
// It registers a cleanup function to close the store when the test finishes.
func newTestStore(t *testing.T) *KuzuStore {
	t.Helper()
	s, err := NewKuzuStore()
	require.NoError(t, err, "NewKuzuStore should not fail")
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.InitSchema(context.Background()), "InitSchema should not fail")
	return s
}

func TestKuzuStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store { return newTestStore(t) })
}

func TestKuzuStore_Close(t *testing.T) {
	s, err := NewKuzuStore()
	require.NoError(t, err)
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close(), "second close is a no-op")
}

func TestOpen_Persists(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "graph")
	ctx := context.Background()

	s, err := Open(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, s.SetDependencies(ctx, "/ws/main.go", []string{"external:fmt", "internal/x"}))
	require.NoError(t, s.Close())

	reopened, err := Open(ctx, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.Dependencies(ctx, "/ws/main.go")
	require.NoError(t, err)
	assert.Equal(t, []string{"external:fmt", "internal/x"}, got)
}

func TestKuzuStore_SetDependenciesRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SetDependencies(ctx, "/ws/a.ts", []string{"external:react", "lib/x"}))

	errWrite := errors.New("write failed")
	err := s.inTx(func() error {
		if err := s.setDependencies("/ws/a.ts", []string{"external:vue"}); err != nil {
			return err
		}
		return errWrite
	})
	require.ErrorIs(t, err, errWrite)

	got, err := s.Dependencies(ctx, "/ws/a.ts")
	require.NoError(t, err)
	assert.Equal(t, []string{"external:react", "lib/x"}, got)

	dependents, err := s.Dependents(ctx, "external:vue")
	require.NoError(t, err)
	assert.Empty(t, dependents)
}
