//go:build !cgo

package graph

import "context"

// Open always fails without cgo.
func Open(_ context.Context, _ string) (Store, error) {
	return nil, ErrNoBackend
}
