package graph

import (
	"strings"

	"github.com/dusk-indust/srclens/internal/deps"
)

// EdgeKindDependsOn links a File to a Dependency it imports.
const EdgeKindDependsOn = "DEPENDS_ON"

// FileNode represents a scanned source file.
type FileNode struct {
	Path     string `json:"path"`
	Language string `json:"language"`
	LOC      int    `json:"loc"`
}

// NewFileNode builds the node for a file from its contents.
func NewFileNode(path, language, content string) FileNode {
	return FileNode{Path: path, Language: language, LOC: countLines(content)}
}

func countLines(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}

// DependencyNode represents one dependency token. External tokens carry the
// "external:" prefix.
type DependencyNode struct {
	Token    string `json:"token"`
	External bool   `json:"external"`
}

// NewDependencyNode builds the node for token.
func NewDependencyNode(token string) DependencyNode {
	return DependencyNode{Token: token, External: strings.HasPrefix(token, deps.ExternalPrefix)}
}

// GraphStats summarizes a dependency graph.
type GraphStats struct {
	FileCount       int `json:"fileCount"`
	DependencyCount int `json:"dependencyCount"`
	EdgeCount       int `json:"edgeCount"`
	ExternalCount   int `json:"externalCount"`
}
