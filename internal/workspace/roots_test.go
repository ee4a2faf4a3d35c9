package workspace

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoots_RootFor(t *testing.T) {
	ws := filepath.FromSlash("/ws")
	other := filepath.FromSlash("/other")
	wsLong := filepath.FromSlash("/ws-long")

	tests := []struct {
		name   string
		roots  Roots
		file   string
		want   string
		wantOK bool
	}{
		{"no roots", nil, "/ws/a.go", "", false},
		{"containing root wins", Roots{other, ws}, "/ws/src/a.go", ws, true},
		{"falls back to first root", Roots{other, ws}, "/elsewhere/a.go", other, true},
		{"sibling prefix is not containment", Roots{ws, wsLong}, "/ws-long/a.go", wsLong, true},
		{"root itself", Roots{ws}, "/ws", ws, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.roots.RootFor(filepath.FromSlash(tt.file))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNone(t *testing.T) {
	_, ok := None.RootFor("/a/b.go")
	assert.False(t, ok)
}
