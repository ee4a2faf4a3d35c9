package grammar

import (
	"errors"
	"unsafe"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c_sharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// ErrNilGrammar is returned when a binding hands back a nil language pointer.
var ErrNilGrammar = errors.New("grammar binding returned nil language")

// Candidate is one way to obtain a compiled grammar.
type Candidate struct {
	// Name identifies the candidate in diagnostics (e.g. "tree-sitter-go").
	Name string
	Load func() (*tree_sitter.Language, error)
}

// Locator returns the ordered candidates for a language. The registry loads
// the first candidate that succeeds.
type Locator interface {
	Candidates(lang Language) []Candidate
}

// LocatorFunc adapts a function to the Locator interface.
type LocatorFunc func(lang Language) []Candidate

func (f LocatorFunc) Candidates(lang Language) []Candidate { return f(lang) }

// binding wraps a raw grammar pointer from a tree-sitter Go binding.
func binding(name string, ptr func() unsafe.Pointer) Candidate {
	return Candidate{
		Name: name,
		Load: func() (*tree_sitter.Language, error) {
			p := ptr()
			if p == nil {
				return nil, ErrNilGrammar
			}
			return tree_sitter.NewLanguage(p), nil
		},
	}
}

var (
	goGrammar         = binding("tree-sitter-go", tree_sitter_go.Language)
	pythonGrammar     = binding("tree-sitter-python", tree_sitter_python.Language)
	javascriptGrammar = binding("tree-sitter-javascript", tree_sitter_javascript.Language)
	typescriptGrammar = binding("tree-sitter-typescript", tree_sitter_typescript.LanguageTypescript)
	tsxGrammar        = binding("tree-sitter-typescript/tsx", tree_sitter_typescript.LanguageTSX)
	rustGrammar       = binding("tree-sitter-rust", tree_sitter_rust.Language)
	javaGrammar       = binding("tree-sitter-java", tree_sitter_java.Language)
	csharpGrammar     = binding("tree-sitter-c-sharp", tree_sitter_c_sharp.Language)
	cssGrammar        = binding("tree-sitter-css", tree_sitter_css.Language)
)

// builtinCandidates lists the grammars linked into the binary. JavaScript
// falls back to the TSX grammar, which accepts plain JavaScript and JSX.
var builtinCandidates = map[Language][]Candidate{
	LangGo:         {goGrammar},
	LangPython:     {pythonGrammar},
	LangJavaScript: {javascriptGrammar, tsxGrammar},
	LangTypeScript: {typescriptGrammar},
	LangTSX:        {tsxGrammar},
	LangRust:       {rustGrammar},
	LangJava:       {javaGrammar},
	LangCSharp:     {csharpGrammar},
	LangCSS:        {cssGrammar},
}

// BuiltinLocator returns the grammars compiled into the binary.
func BuiltinLocator() Locator {
	return LocatorFunc(func(lang Language) []Candidate {
		return builtinCandidates[lang]
	})
}

// FilteredLocator hides the candidates of disabled languages.
func FilteredLocator(inner Locator, disabled ...Language) Locator {
	if len(disabled) == 0 {
		return inner
	}
	off := make(map[Language]bool, len(disabled))
	for _, l := range disabled {
		off[l] = true
	}
	return LocatorFunc(func(lang Language) []Candidate {
		if off[lang] {
			return nil
		}
		return inner.Candidates(lang)
	})
}
