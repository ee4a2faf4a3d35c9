package deps

import "github.com/dusk-indust/srclens/internal/grammar"

// PatternSet is a tree-sitter query for one language family. Name identifies
// the set in the compiled-query cache.
type PatternSet struct {
	Name   string
	Source string
}

// Capture names shared by the pattern sets.
const (
	capturePath     = "path"
	captureCallee   = "callee"
	captureDots     = "dots"
	captureModule   = "module"
	captureItemName = "item_name"
)

// jsPatterns captures the source of static imports, dynamic import(),
// require() and re-exports.
var jsPatterns = PatternSet{
	Name: "js-imports",
	Source: `
(import_statement
  source: (string) @path)

(call_expression
  function: (import)
  arguments: (arguments . (string) @path))

(call_expression
  function: (identifier) @callee
  arguments: (arguments . (string) @path)
  (#eq? @callee "require"))

(export_statement
  source: (string) @path)
`,
}

// pythonPatterns captures absolute modules, aliased modules and relative
// imports. The leading-dot run of a relative import is captured separately
// from the dotted name after it.
var pythonPatterns = PatternSet{
	Name: "python-imports",
	Source: `
(import_statement
  name: (dotted_name) @module)

(import_statement
  name: (aliased_import
    name: (dotted_name) @module))

(import_from_statement
  module_name: (dotted_name) @module)

(import_from_statement
  module_name: (relative_import
    (import_prefix) @dots
    (dotted_name) @module))

(import_from_statement
  module_name: (relative_import
    (import_prefix) @dots .)
  name: (dotted_name) @item_name)

(import_from_statement
  module_name: (relative_import
    (import_prefix) @dots .)
  name: (aliased_import
    name: (dotted_name) @item_name))
`,
}

// goPatterns captures every import spec path, grouped or not.
var goPatterns = PatternSet{
	Name: "go-imports",
	Source: `
(import_spec
  path: (_) @path)
`,
}

// patternSetFor returns the pattern set for a language family.
// HasPatterns reports whether dependencies can be extracted for lang.
func HasPatterns(lang grammar.Language) bool {
	_, ok := patternSetFor(lang)
	return ok
}

func patternSetFor(lang grammar.Language) (PatternSet, bool) {
	switch lang {
	case grammar.LangJavaScript, grammar.LangTypeScript, grammar.LangTSX:
		return jsPatterns, true
	case grammar.LangPython:
		return pythonPatterns, true
	case grammar.LangGo:
		return goPatterns, true
	default:
		return PatternSet{}, false
	}
}
