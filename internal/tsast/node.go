// Package tsast reads TypeScript source into a lightweight node tree the
// path-expression engine queries and the executor edits. The reader is
// tolerant: tokens it does not understand are skipped with brace balancing,
// so partially-understood files still yield the declarations, imports and
// call expressions the refactoring engine cares about.
//
// Node kind names follow the TypeScript compiler's AST vocabulary
// (SourceFile, ClassDeclaration, MethodDeclaration, CallExpression,
// PropertyAccessExpression, OpenParenToken, ...), so path expressions read
// the same as they would against the real compiler output.
package tsast

import (
	"fmt"

	"github.com/1homsi/tsparam/internal/project"
)

// Node kinds produced by the reader.
const (
	KindSourceFile          = "SourceFile"
	KindImportDeclaration   = "ImportDeclaration"
	KindClassDeclaration    = "ClassDeclaration"
	KindMethodDeclaration   = "MethodDeclaration"
	KindFunctionDeclaration = "FunctionDeclaration"
	KindModuleDeclaration   = "ModuleDeclaration"
	KindModuleBlock         = "ModuleBlock"
	KindCallExpression      = "CallExpression"
	KindNewExpression       = "NewExpression"
	KindPropertyAccess      = "PropertyAccessExpression"
	KindIdentifier          = "Identifier"
	KindThisKeyword         = "ThisKeyword"
	KindStringLiteral       = "StringLiteral"
	KindOpenParenToken      = "OpenParenToken"
	KindCloseParenToken     = "CloseParenToken"
	KindParameter           = "Parameter"
	KindTypeReference       = "TypeReference"
	KindBindingPattern      = "ObjectBindingPattern"
	KindBlock               = "Block"
	KindExportKeyword       = "ExportKeyword"
	KindDeclareKeyword      = "DeclareKeyword"
	KindAbstractKeyword     = "AbstractKeyword"
	KindAsyncKeyword        = "AsyncKeyword"
	KindPublicKeyword       = "PublicKeyword"
	KindPrivateKeyword      = "PrivateKeyword"
	KindProtectedKeyword    = "ProtectedKeyword"
	KindStaticKeyword       = "StaticKeyword"
	KindReadonlyKeyword     = "ReadonlyKeyword"
)

// Tree is the parse result for one file. When bound to a project file,
// SetValue on any of its nodes stages a byte-range edit there.
type Tree struct {
	Path   string
	Source string
	Root   *Node

	file *project.File
}

// Node is one tree node. Start/End are byte offsets into Tree.Source.
type Node struct {
	Kind  string
	Start int
	End   int

	tree     *Tree
	parent   *Node
	children []*Node
}

// ParseFile parses a project file and binds the resulting tree to it, so
// node writes stage edits on the file.
func ParseFile(f *project.File) *Tree {
	t := ParseSource(f.Path, f.Content())
	t.file = f
	return t
}

// ParseSource parses source text without binding it to a project; node
// writes on the result fail. Intended for read-only inspection and tests.
func ParseSource(path, src string) *Tree {
	t := &Tree{Path: path, Source: src}
	p := &parser{tree: t, toks: lex(src)}
	t.Root = p.parseSourceFile()
	return t
}

// Name returns the node kind.
func (n *Node) Name() string { return n.Kind }

// Value returns the node's current source slice.
func (n *Node) Value() string {
	return n.tree.Source[n.Start:n.End]
}

// SetValue stages a replacement of the node's source range. The write
// becomes visible after the owning project flushes; this node and every
// other node of the tree are invalid after that flush.
func (n *Node) SetValue(text string) error {
	if n.tree.file == nil {
		return fmt.Errorf("node %s in %s is not bound to a project file", n.Kind, n.tree.Path)
	}
	return n.tree.file.Stage(n.Start, n.End, text)
}

// Children returns the node's children in document order.
func (n *Node) Children() []*Node { return n.children }

// Parent returns the enclosing node, or nil for the SourceFile root.
func (n *Node) Parent() *Node { return n.parent }

// FilePath returns the path of the file this node was parsed from.
func (n *Node) FilePath() string { return n.tree.Path }

// Child returns the first child of the given kind, or nil.
func (n *Node) Child(kind string) *Node {
	for _, c := range n.children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// HasChild reports whether any direct child has the given kind.
func (n *Node) HasChild(kind string) bool { return n.Child(kind) != nil }

// Walk visits n and every descendant in document order. Returning false
// from fn prunes the subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// newChild appends a child node spanning [start,end).
func (n *Node) newChild(kind string, start, end int) *Node {
	c := &Node{Kind: kind, Start: start, End: end, tree: n.tree, parent: n}
	n.children = append(n.children, c)
	return c
}
