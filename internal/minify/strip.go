// Package minify removes comments from source code and collapses the
// whitespace around them while leaving literals byte-for-byte intact.
package minify

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dusk-indust/srclens/internal/diag"
	"github.com/dusk-indust/srclens/internal/grammar"
)

// commentKinds are the node kinds deleted by StripComments.
var commentKinds = grammar.Kinds("comment", "line_comment", "block_comment")

// protectedKinds are copied verbatim by MinifyWhitespace: strings, raw and
// template strings, regexes, character literals and single-line
// preprocessor directives across the builtin grammars.
var protectedKinds = grammar.Kinds(
	// javascript, typescript, tsx, python
	"string", "template_string", "regex",
	// go
	"interpreted_string_literal", "raw_string_literal", "rune_literal",
	// rust, java, csharp
	"string_literal", "char_literal", "character_literal", "text_block",
	"verbatim_string_literal", "interpolated_string_expression",
	// css
	"string_value",
	// preprocessor directives
	"preproc_include", "preproc_def", "preproc_function_def", "preproc_call",
	"preproc_define", "preproc_undef", "preproc_pragma", "preproc_line",
	"preproc_error", "preproc_warning", "preproc_region", "preproc_endregion",
	"preproc_nullable",
)

// Stripper strips comments and minifies whitespace. It is safe for
// concurrent use.
type Stripper struct {
	registry *grammar.Registry
	sink     diag.Sink

	// segment minifies the text between protected literals.
	segment func(seg string, indentSensitive bool) string
}

// NewStripper creates a Stripper. A nil sink discards diagnostics.
func NewStripper(registry *grammar.Registry, sink diag.Sink) *Stripper {
	return &Stripper{registry: registry, sink: diag.Safe(sink), segment: minifySegment}
}

// byteSpan is a half-open byte range.
type byteSpan struct {
	start, end uint
}

// StripComments deletes every comment and then minifies whitespace. Without
// a grammar it falls back to BasicWhitespaceMinify. Any internal failure
// returns code unchanged.
func (s *Stripper) StripComments(ctx context.Context, code, languageID string) (result string) {
	defer func() {
		if p := recover(); p != nil {
			s.sink.Error("strip comments panicked", "language", languageID, "panic", fmt.Sprint(p))
			result = code
		}
	}()

	h, ok := s.registry.GetParser(ctx, languageID)
	if !ok {
		return BasicWhitespaceMinify(code, languageID)
	}

	tree, err := h.Parse([]byte(code))
	if err != nil {
		s.sink.Error("parse failed", "language", h.Language(), "error", err)
		return BasicWhitespaceMinify(code, languageID)
	}
	comments := spansOf(tree.Root().DescendantsOfKind(commentKinds))
	tree.Close()

	stripped := code
	if len(comments) > 0 {
		stripped = cutSpans(code, comments)
	}
	return s.minify(ctx, stripped, languageID)
}

// MinifyWhitespace collapses whitespace outside protected literals and trims
// the result. Without a grammar it falls back to BasicWhitespaceMinify.
func (s *Stripper) MinifyWhitespace(ctx context.Context, code, languageID string) (result string) {
	defer func() {
		if p := recover(); p != nil {
			s.sink.Error("minify whitespace panicked", "language", languageID, "panic", fmt.Sprint(p))
			result = code
		}
	}()
	return s.minify(ctx, code, languageID)
}

// minify does the work of MinifyWhitespace without recovering, so a panic
// reaches the caller's own recover.
func (s *Stripper) minify(ctx context.Context, code, languageID string) string {
	h, ok := s.registry.GetParser(ctx, languageID)
	if !ok {
		return BasicWhitespaceMinify(code, languageID)
	}

	tree, err := h.Parse([]byte(code))
	if err != nil {
		s.sink.Error("parse failed", "language", h.Language(), "error", err)
		return BasicWhitespaceMinify(code, languageID)
	}
	protected := spansOf(tree.Root().DescendantsOfKind(protectedKinds))
	tree.Close()

	indent := IsIndentSensitive(languageID)
	var b strings.Builder
	b.Grow(len(code))

	var last uint
	for _, span := range protected {
		if span.start < last || span.end > uint(len(code)) {
			continue
		}
		b.WriteString(s.segment(code[last:span.start], indent))
		b.WriteString(code[span.start:span.end])
		last = span.end
	}
	b.WriteString(s.segment(code[last:], indent))

	return strings.TrimSpace(b.String())
}

// spansOf returns the byte ranges of nodes sorted by start, skipping nil
// nodes and empty ranges.
func spansOf(nodes []grammar.SyntaxNode) []byteSpan {
	spans := make([]byteSpan, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		start, end := n.ByteRange()
		if end <= start {
			continue
		}
		spans = append(spans, byteSpan{start: start, end: end})
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	return spans
}

// cutSpans removes the given ascending ranges from code. Ranges overlapping
// an earlier one are skipped.
func cutSpans(code string, spans []byteSpan) string {
	var b strings.Builder
	b.Grow(len(code))

	var last uint
	for _, span := range spans {
		if span.start < last || span.end > uint(len(code)) {
			continue
		}
		b.WriteString(code[last:span.start])
		last = span.end
	}
	b.WriteString(code[last:])
	return b.String()
}
