package mcptools

import "github.com/dusk-indust/srclens/internal/graph"

// --- MCP Tool Input Types ---
// The MCP Go SDK generates JSON schemas from these struct tags.

// ScanDependenciesInput is the input for the scan_dependencies MCP tool.
type ScanDependenciesInput struct {
	Path       string `json:"path" jsonschema:"absolute path of the file being scanned"`
	Content    string `json:"content,omitempty" jsonschema:"file contents; read from path when omitted"`
	LanguageID string `json:"languageId,omitempty" jsonschema:"language id such as typescript, python or go; inferred from the extension when omitted"`
}

// ScanDependenciesOutput is the result of the scan_dependencies MCP tool.
type ScanDependenciesOutput struct {
	Path         string   `json:"path"`
	LanguageID   string   `json:"languageId"`
	Dependencies []string `json:"dependencies"`
}

// StripCommentsInput is the input for the strip_comments MCP tool.
type StripCommentsInput struct {
	Code         string `json:"code" jsonschema:"source code to strip"`
	LanguageID   string `json:"languageId" jsonschema:"language id of the code"`
	KeepComments bool   `json:"keepComments,omitempty" jsonschema:"only minify whitespace and keep comments"`
}

// StripCommentsOutput is the result of the strip_comments MCP tool.
type StripCommentsOutput struct {
	Code string `json:"code"`
}

// FindDependentsInput is the input for the find_dependents MCP tool.
type FindDependentsInput struct {
	Token string `json:"token" jsonschema:"dependency token, e.g. external:react or lib/button"`
}

// FindDependentsOutput is the result of the find_dependents MCP tool.
type FindDependentsOutput struct {
	Files []string `json:"files"`
	Total int      `json:"total"`
}

// IndexRepositoryInput is the input for the index_repository MCP tool.
type IndexRepositoryInput struct {
	RepoPath    string   `json:"repoPath" jsonschema:"the absolute path to the repository to index"`
	Languages   []string `json:"languages,omitempty" jsonschema:"language ids to index (default: every known extension)"`
	ExcludeDirs []string `json:"excludeDirs,omitempty" jsonschema:"directory names to skip (e.g. vendor, node_modules)"`
}

// IndexRepositoryOutput is the result of the index_repository MCP tool.
type IndexRepositoryOutput struct {
	Stats graph.GraphStats `json:"stats"`
}
