package minify

import (
	"regexp"
	"strings"
)

// indentSensitive languages carry block structure in leading whitespace.
var indentSensitive = map[string]bool{
	"python":   true,
	"py":       true,
	"yaml":     true,
	"yml":      true,
	"makefile": true,
	"make":     true,
}

var (
	newlineRun    = regexp.MustCompile(`\s*\n\s*`)
	horizontalRun = regexp.MustCompile(`[ \t\x{00A0}]+`)
	leadingIndent = regexp.MustCompile(`^[ \t]+`)
)

// IsIndentSensitive reports whether languageID uses the newline-preserving
// segment rule.
func IsIndentSensitive(languageID string) bool {
	return indentSensitive[strings.ToLower(strings.TrimSpace(languageID))]
}

// BasicWhitespaceMinify applies the segment rule to all of code and trims
// the result. It is the fallback when no grammar is available.
func BasicWhitespaceMinify(code, languageID string) string {
	return strings.TrimSpace(minifySegment(code, IsIndentSensitive(languageID)))
}

// minifySegment collapses whitespace in a stretch of code outside any
// protected literal.
//
// Indent-sensitive code keeps every newline; each line's leading run of
// spaces and tabs becomes a single tab and whitespace-only lines become
// empty. Nesting depth is not preserved.
//
// Other code collapses horizontal whitespace runs to one space and any run
// containing a newline to one space.
func minifySegment(seg string, indentSensitive bool) string {
	if !indentSensitive {
		seg = newlineRun.ReplaceAllString(seg, " ")
		return horizontalRun.ReplaceAllString(seg, " ")
	}

	lines := strings.Split(seg, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = leadingIndent.ReplaceAllString(line, "\t")
	}
	return strings.Join(lines, "\n")
}
