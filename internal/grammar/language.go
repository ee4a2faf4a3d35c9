package grammar

import "strings"

// Language identifies a grammar the registry knows how to load.
type Language string

const (
	LangGo         Language = "go"
	LangPython     Language = "python"
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangTSX        Language = "tsx"
	LangRust       Language = "rust"
	LangJava       Language = "java"
	LangCSharp     Language = "csharp"
	LangCSS        Language = "css"
)

// Languages lists every Language in a stable order.
var Languages = []Language{
	LangGo, LangPython, LangJavaScript, LangTypeScript, LangTSX,
	LangRust, LangJava, LangCSharp, LangCSS,
}

// aliases maps lower-cased editor/tool language ids to a Language.
var aliases = map[string]Language{
	"go":     LangGo,
	"golang": LangGo,

	"python": LangPython,
	"py":     LangPython,

	"javascript":      LangJavaScript,
	"js":              LangJavaScript,
	"mjs":             LangJavaScript,
	"cjs":             LangJavaScript,
	"jsx":             LangJavaScript,
	"javascriptreact": LangJavaScript,

	"typescript": LangTypeScript,
	"ts":         LangTypeScript,
	"mts":        LangTypeScript,
	"cts":        LangTypeScript,

	"tsx":             LangTSX,
	"typescriptreact": LangTSX,

	"rust": LangRust,
	"rs":   LangRust,

	"java": LangJava,

	"csharp": LangCSharp,
	"c#":     LangCSharp,
	"cs":     LangCSharp,

	"css":  LangCSS,
	"scss": LangCSS,
	"less": LangCSS,
}

// ResolveLanguage maps a language id to a Language, ignoring case and
// surrounding whitespace. Unknown ids report false.
func ResolveLanguage(id string) (Language, bool) {
	lang, ok := aliases[strings.ToLower(strings.TrimSpace(id))]
	return lang, ok
}

// String implements fmt.Stringer.
func (l Language) String() string { return string(l) }
