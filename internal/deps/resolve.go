package deps

import (
	"os"
	"path"
	"path/filepath"
	"strings"
)

// probeExtensions are tried in order for specifiers without an extension.
var probeExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".py", ".go"}

// ResolveImportPath turns a relative specifier into an absolute path. A
// specifier with an extension resolves directly against baseDir. Otherwise
// each probe extension is tried and the first existing file wins; when none
// exist the extensionless path is returned.
func ResolveImportPath(specifier, baseDir string) string {
	if hasExtension(specifier) {
		return resolveAgainst(baseDir, specifier)
	}
	for _, ext := range probeExtensions {
		candidate := resolveAgainst(baseDir, specifier+ext)
		if isFile(candidate) {
			return candidate
		}
	}
	return resolveAgainst(baseDir, specifier)
}

// FormatRelativeImport renders target relative to root, or to baseDir when
// root is empty. The result always uses forward slashes; an empty relative
// path becomes ".".
func FormatRelativeImport(target, root, baseDir string) string {
	from := root
	if from == "" {
		from = baseDir
	}
	rel, err := filepath.Rel(from, target)
	if err != nil {
		rel = target
	}
	if rel == "" {
		rel = "."
	}
	return toSlash(rel)
}

func resolveAgainst(baseDir, specifier string) string {
	p := filepath.Join(baseDir, filepath.FromSlash(specifier))
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// hasExtension reports whether the last path element carries an extension.
// "." and ".." and dotfiles such as ".env" have none.
func hasExtension(specifier string) bool {
	base := path.Base(toSlash(specifier))
	if base == "." || base == ".." {
		return false
	}
	ext := path.Ext(base)
	return ext != "" && ext != base
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

// toSlash normalizes both separators regardless of host OS.
func toSlash(p string) string {
	return strings.ReplaceAll(filepath.ToSlash(p), `\`, "/")
}
