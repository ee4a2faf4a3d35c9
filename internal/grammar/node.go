package grammar

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// KindSet is a set of node kinds.
type KindSet map[string]struct{}

// Kinds builds a KindSet.
func Kinds(kinds ...string) KindSet {
	s := make(KindSet, len(kinds))
	for _, k := range kinds {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether kind is in the set.
func (s KindSet) Has(kind string) bool {
	_, ok := s[kind]
	return ok
}

// SyntaxNode is the read-only view of a parsed node used by the minifier.
type SyntaxNode interface {
	// ByteRange returns the half-open byte span [start, end) of the node.
	ByteRange() (start, end uint)
	Kind() string
	Text() string
	// DescendantsOfKind returns the outermost nodes (the receiver included)
	// whose kind is in kinds, in document order. Matches are not searched
	// for nested matches, so the returned ranges never overlap.
	DescendantsOfKind(kinds KindSet) []SyntaxNode
}

// Tree is the result of parsing one source buffer.
type Tree struct {
	tree   *tree_sitter.Tree
	source []byte
}

// Root returns the root node.
func (t *Tree) Root() SyntaxNode {
	return &node{node: t.tree.RootNode(), source: t.source}
}

// RawRoot returns the underlying tree-sitter root node, for running queries.
func (t *Tree) RawRoot() *tree_sitter.Node {
	return t.tree.RootNode()
}

// Source returns the bytes the tree was parsed from.
func (t *Tree) Source() []byte { return t.source }

// Close releases the tree's C memory.
func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
	}
}

type node struct {
	node   *tree_sitter.Node
	source []byte
}

func (n *node) ByteRange() (uint, uint) {
	return n.node.StartByte(), n.node.EndByte()
}

func (n *node) Kind() string { return n.node.Kind() }

func (n *node) Text() string {
	start, end := n.ByteRange()
	if end > uint(len(n.source)) || start > end {
		return ""
	}
	return string(n.source[start:end])
}

func (n *node) DescendantsOfKind(kinds KindSet) []SyntaxNode {
	var out []SyntaxNode
	cursor := n.node.Walk()
	defer cursor.Close()

	collectKinds(cursor, n.source, kinds, &out)
	return out
}

func collectKinds(cursor *tree_sitter.TreeCursor, source []byte, kinds KindSet, out *[]SyntaxNode) {
	current := cursor.Node()
	if kinds.Has(current.Kind()) {
		*out = append(*out, &node{node: current, source: source})
		return
	}

	if cursor.GotoFirstChild() {
		collectKinds(cursor, source, kinds, out)
		for cursor.GotoNextSibling() {
			collectKinds(cursor, source, kinds, out)
		}
		cursor.GotoParent()
	}
}
