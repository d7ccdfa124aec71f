// Package sandbox is the script engine. It exposes an AST-grep-style
// syntactic API (SgRoot/SgNode, matchers, edits, commit) to user transform
// scripts and runs them inside a yaegi interpreter with a capability-gated
// symbol table, instead of a host-owned eval of arbitrary Go source.
//
// Scripts are interpreted against an allowlist of stdlib import names, the
// way an embedded Go interpreter usually sandboxes untrusted code; the
// exposed surface here is this package's own exported symbols plus a small
// allowed-stdlib set, so a script can only ever touch the syntactic API and
// capability-gated built-ins the caller explicitly grants.
package sandbox

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codemod-rs/codemod-go/internal/langhandle"
)

// SgRoot is the parsed-source root. Every SgNode carries a strong reference
// back to its root so source slices stay valid.
type SgRoot struct {
	handle   langhandle.Handle
	tree     *sitter.Tree
	source   []byte
	filename string
	renameTo *string
}

// NewSgRoot parses source with handle and builds the root value.
func NewSgRoot(handle langhandle.Handle, source []byte, filename string) (*SgRoot, error) {
	tree, err := handle.Parse(context.Background(), source)
	if err != nil {
		return nil, err
	}
	return &SgRoot{handle: handle, tree: tree, source: source, filename: filename}, nil
}

// Root returns the root SgNode.
func (r *SgRoot) Root() *SgNode {
	return &SgNode{root: r, node: r.tree.RootNode()}
}

// Filename returns the root's optional filename.
func (r *SgRoot) Filename() string { return r.filename }

// Source returns the full source text.
func (r *SgRoot) Source() string { return string(r.source) }

// RenameTo records a rename target on the root.
func (r *SgRoot) RenameTo(path string) { r.renameTo = &path }

// RenameTarget returns the recorded rename path, if any.
func (r *SgRoot) RenameTarget() (string, bool) {
	if r.renameTo == nil {
		return "", false
	}
	return *r.renameTo, true
}

// Language exposes the root's language handle, used for pattern matcher
// coercion: a string matcher becomes a Pattern against the node's language.
func (r *SgRoot) Language() langhandle.Handle { return r.handle }

// SgNode wraps one tree-sitter node together with a match environment of
// named captures.
type SgNode struct {
	root *SgRoot
	node *sitter.Node
	env  map[string]*SgNode
}

// Text returns the node's source slice.
func (n *SgNode) Text() string {
	return n.node.Content(n.root.source)
}

// Kind returns the node's grammar kind name.
func (n *SgNode) Kind() string { return n.node.Type() }

// Range returns half-open byte bounds plus line/column positions.
type Range struct {
	StartByte, EndByte                     uint32
	StartLine, StartColumn, EndLine, EndColumn uint32
}

func (n *SgNode) Range() Range {
	sp, ep := n.node.StartPoint(), n.node.EndPoint()
	return Range{
		StartByte: n.node.StartByte(), EndByte: n.node.EndByte(),
		StartLine: sp.Row, StartColumn: sp.Column,
		EndLine: ep.Row, EndColumn: ep.Column,
	}
}

// ID returns tree-sitter's internal node id, stable within one parse.
func (n *SgNode) ID() uintptr { return n.node.ID() }

func (n *SgNode) IsLeaf() bool      { return n.node.ChildCount() == 0 }
func (n *SgNode) IsNamed() bool     { return n.node.IsNamed() }
func (n *SgNode) IsNamedLeaf() bool { return n.IsLeaf() && n.IsNamed() }

func (n *SgNode) wrap(ts *sitter.Node) *SgNode {
	if ts == nil {
		return nil
	}
	return &SgNode{root: n.root, node: ts}
}

func (n *SgNode) Parent() *SgNode { return n.wrap(n.node.Parent()) }

func (n *SgNode) Child(i int) *SgNode {
	if i < 0 || i >= int(n.node.ChildCount()) {
		return nil
	}
	return n.wrap(n.node.Child(i))
}

func (n *SgNode) Children() []*SgNode {
	out := make([]*SgNode, 0, n.node.ChildCount())
	for i := 0; i < int(n.node.ChildCount()); i++ {
		out = append(out, n.wrap(n.node.Child(i)))
	}
	return out
}

// Ancestors walks parent links to the root, nearest first.
func (n *SgNode) Ancestors() []*SgNode {
	var out []*SgNode
	for p := n.Parent(); p != nil; p = p.Parent() {
		out = append(out, p)
	}
	return out
}

func (n *SgNode) Next() *SgNode { return n.wrap(n.node.NextSibling()) }
func (n *SgNode) Prev() *SgNode { return n.wrap(n.node.PrevSibling()) }

func (n *SgNode) NextAll() []*SgNode {
	var out []*SgNode
	for s := n.Next(); s != nil; s = s.Next() {
		out = append(out, s)
	}
	return out
}

func (n *SgNode) PrevAll() []*SgNode {
	var out []*SgNode
	for s := n.Prev(); s != nil; s = s.Prev() {
		out = append(out, s)
	}
	return out
}

func (n *SgNode) Field(name string) *SgNode {
	return n.wrap(n.node.ChildByFieldName(name))
}

// FieldChildren returns every child attached under the named field, in
// document order. smacker/go-tree-sitter only exposes a single
// ChildByFieldName lookup (no per-child field name query), so multi-valued
// fields (e.g. a call's repeated "argument" field) fall back to the single
// match Field returns; grammars with a genuinely repeating field expose it
// as a dedicated list node instead, which FindAll/Children already reach.
func (n *SgNode) FieldChildren(name string) []*SgNode {
	if f := n.Field(name); f != nil {
		return []*SgNode{f}
	}
	return nil
}

// GetRoot returns the owning SgRoot.
func (n *SgNode) GetRoot() *SgRoot { return n.root }

// GetMatch returns a named capture from this node's match environment.
func (n *SgNode) GetMatch(name string) *SgNode {
	if n.env == nil {
		return nil
	}
	return n.env[name]
}

// GetMultipleMatches returns the capture recorded under name together with
// every capture keyed "name#<suffix>"; captures with other keys, including
// other keys that merely start with name, are not returned.
func (n *SgNode) GetMultipleMatches(name string) []*SgNode {
	var out []*SgNode
	for k, v := range n.env {
		if k == name || hasCapturePrefix(k, name) {
			out = append(out, v)
		}
	}
	return out
}

func hasCapturePrefix(key, name string) bool {
	return len(key) > len(name) && key[:len(name)] == name && key[len(name)] == '#'
}

// Replace builds an Edit that would substitute this node's span with text.
func (n *SgNode) Replace(text string) Edit {
	return Edit{Start: n.node.StartByte(), End: n.node.EndByte(), Text: text}
}

// CommitEdits sorts edits ascending by start byte, drops any whose start
// lies before the write cursor (overlap), and splices the rest into the
// original text in order.
func (n *SgNode) CommitEdits(edits []Edit) string {
	return CommitEdits(n.root.source, edits)
}
