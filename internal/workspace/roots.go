// Package workspace maps source files to the project root their dependency
// paths are reported against.
package workspace

import (
	"path/filepath"
	"strings"
)

// RootProvider returns the project root for a file, if any.
type RootProvider interface {
	RootFor(filePath string) (string, bool)
}

// Roots is an ordered list of configured workspace roots.
type Roots []string

// RootFor picks the first root containing filePath, else the first root.
// An empty list reports false.
func (r Roots) RootFor(filePath string) (string, bool) {
	if len(r) == 0 {
		return "", false
	}
	clean := filepath.Clean(filePath)
	for _, root := range r {
		if contains(filepath.Clean(root), clean) {
			return root, true
		}
	}
	return r[0], true
}

// contains reports whether path equals root or lies beneath it.
func contains(root, path string) bool {
	if root == path {
		return true
	}
	if !strings.HasSuffix(root, string(filepath.Separator)) {
		root += string(filepath.Separator)
	}
	return strings.HasPrefix(path, root)
}

// None is a RootProvider with no configured roots.
var None RootProvider = Roots(nil)
