package export

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dusk-indust/srclens/internal/deps"
	"github.com/dusk-indust/srclens/internal/graph"
)

// GenerateMermaid produces a Mermaid graph TD diagram from a graph store.
// External packages are grouped in one subgraph; DEPENDS_ON edges become
// arrows from each file to its tokens.
func GenerateMermaid(ctx context.Context, store graph.Store) (string, error) {
	files, err := store.Files(ctx)
	if err != nil {
		return "", fmt.Errorf("list files: %w", err)
	}

	// Build node → ID mapping for Mermaid (alphanumeric only).
	nodeIDs := make(map[string]string)
	nextID := 0
	getID := func(key string) string {
		if id, ok := nodeIDs[key]; ok {
			return id
		}
		id := fmt.Sprintf("N%d", nextID)
		nextID++
		nodeIDs[key] = id
		return id
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var edges []string
	locals := make(map[string]bool)
	externals := make(map[string]bool)
	for _, f := range files {
		fmt.Fprintf(&sb, "  %s[\"%s\"]\n", getID("file:"+f.Path), shortPath(f.Path))

		tokens, err := store.Dependencies(ctx, f.Path)
		if err != nil {
			return "", fmt.Errorf("dependencies of %s: %w", f.Path, err)
		}
		for _, tok := range tokens {
			if strings.HasPrefix(tok, deps.ExternalPrefix) {
				externals[tok] = true
			} else {
				locals[tok] = true
			}
			edges = append(edges, fmt.Sprintf("  %s --> %s\n", getID("file:"+f.Path), getID("dep:"+tok)))
		}
	}

	for _, tok := range sortedKeys(locals) {
		fmt.Fprintf(&sb, "  %s([\"%s\"])\n", getID("dep:"+tok), tok)
	}

	if len(externals) > 0 {
		sb.WriteString("  subgraph external[\"external\"]\n")
		for _, tok := range sortedKeys(externals) {
			fmt.Fprintf(&sb, "    %s{{\"%s\"}}\n", getID("dep:"+tok), strings.TrimPrefix(tok, deps.ExternalPrefix))
		}
		sb.WriteString("  end\n")
	}

	for _, e := range edges {
		sb.WriteString(e)
	}
	return sb.String(), nil
}

// shortPath returns the last 2 path segments for readability.
func shortPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) <= 2 {
		return path
	}
	return strings.Join(parts[len(parts)-2:], "/")
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
