package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dusk-indust/srclens/internal/engine"
)

// validateFormat checks the --format flag.
func validateFormat(format string) error {
	switch format {
	case "json", "text":
		return nil
	default:
		return fmt.Errorf("invalid format %q (expected json or text)", format)
	}
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatDepsText prints each file followed by its indented tokens.
func formatDepsText(w io.Writer, results []engine.FileDeps) {
	for _, r := range results {
		fmt.Fprintf(w, "%s (%s)\n", r.Path, r.LanguageID)
		for _, tok := range r.Dependencies {
			fmt.Fprintf(w, "  %s\n", tok)
		}
	}
}

// depsByPath maps each path to its tokens for JSON output.
func depsByPath(results []engine.FileDeps) map[string][]string {
	out := make(map[string][]string, len(results))
	for _, r := range results {
		out[r.Path] = r.Dependencies
	}
	return out
}

// formatLinesText prints one value per line.
func formatLinesText(w io.Writer, lines []string) {
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}

// formatStatsText prints graph counts as aligned columns.
func formatStatsText(w io.Writer, files, deps, edges int) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILES\tDEPENDENCIES\tEDGES")
	fmt.Fprintf(tw, "%d\t%d\t%d\n", files, deps, edges)
	tw.Flush()
}
