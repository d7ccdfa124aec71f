package sandbox

import (
	"context"
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
)

// matchPattern compiles pattern against the candidate node's language and
// structurally matches it. A pattern identifier of the form $NAME is a
// meta-variable: it matches any subtree and records the match under NAME;
// $_ (the meta-variable char followed by '_') matches anything without
// recording a capture.
func matchPattern(pattern string, candidate *SgNode) (map[string]*SgNode, bool) {
	handle := candidate.root.Language()
	tree, err := handle.Parse(context.Background(), []byte(pattern))
	if err != nil {
		return nil, false
	}
	patRoot := tree.RootNode()
	patNode := firstMeaningfulChild(patRoot)
	if patNode == nil {
		patNode = patRoot
	}

	env := map[string]*SgNode{}
	if matchNodes(patNode, candidate.node, []byte(pattern), candidate) {
		collectCaptures(patNode, candidate.node, []byte(pattern), candidate, env)
		return env, true
	}
	return nil, false
}

func firstMeaningfulChild(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	if int(n.NamedChildCount()) == 1 {
		return n.NamedChild(0)
	}
	return n
}

func metaVarName(patSource []byte, n *sitter.Node) (string, bool) {
	if n.Type() != "identifier" {
		return "", false
	}
	text := n.Content(patSource)
	if !strings.HasPrefix(text, "$") {
		return "", false
	}
	rest := text[1:]
	if rest == "" {
		return "", false
	}
	for i, r := range rest {
		if i == 0 && !unicode.IsUpper(r) && r != '_' {
			return "", false
		}
	}
	return rest, true
}

// matchNodes recursively checks whether candidate matches the shape of
// patNode, treating $META identifiers as wildcards.
//
// Structural comparison walks named children only, not raw children: a
// pattern is parsed in isolation (`console.log($A)`), while a real
// candidate statement carries grammar punctuation the pattern's own
// parse never produced (`console.log("hi");` wraps the same call in an
// expression_statement whose extra child is the anonymous `;` token).
// Comparing named-child counts instead of raw ChildCount lets patterns
// match the statements and expressions they're meant to, rather than
// only the exact isolated fragment the pattern text happens to parse to.
func matchNodes(patNode, candNode *sitter.Node, patSource []byte, candRoot *SgNode) bool {
	if patNode == nil || candNode == nil {
		return patNode == candNode
	}
	if _, ok := metaVarName(patSource, patNode); ok {
		return true
	}
	if patNode.Type() != candNode.Type() {
		return false
	}
	if patNode.NamedChildCount() == 0 {
		if patNode.ChildCount() == 0 {
			return patNode.Content(patSource) == candNode.Content(candRoot.root.source)
		}
		return patNode.ChildCount() == candNode.ChildCount()
	}
	if patNode.NamedChildCount() != candNode.NamedChildCount() {
		return false
	}
	for i := 0; i < int(patNode.NamedChildCount()); i++ {
		if !matchNodes(patNode.NamedChild(i), candNode.NamedChild(i), patSource, candRoot) {
			return false
		}
	}
	return true
}

func collectCaptures(patNode, candNode *sitter.Node, patSource []byte, candRoot *SgNode, env map[string]*SgNode) {
	if patNode == nil || candNode == nil {
		return
	}
	if name, ok := metaVarName(patSource, patNode); ok {
		if name != "_" {
			env[name] = &SgNode{root: candRoot.root, node: candNode}
		}
		return
	}
	for i := 0; i < int(patNode.NamedChildCount()) && i < int(candNode.NamedChildCount()); i++ {
		collectCaptures(patNode.NamedChild(i), candNode.NamedChild(i), patSource, candRoot, env)
	}
}
