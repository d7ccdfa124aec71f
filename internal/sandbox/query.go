package sandbox

// dfs walks the tree depth-first, left-to-right, invoking visit on every
// node including n itself. Traversal stops early if visit returns false.
func (n *SgNode) dfs(visit func(*SgNode) bool) bool {
	if !visit(n) {
		return false
	}
	for _, c := range n.Children() {
		if !c.dfs(visit) {
			return false
		}
	}
	return true
}

// Find returns the first node-match in DFS order, or nil.
func (n *SgNode) Find(m Matcher) *SgNode {
	var found *SgNode
	n.dfs(func(cand *SgNode) bool {
		if match, ok := m.Match(cand); ok {
			found = match
			return false
		}
		return true
	})
	return found
}

// FindAll returns every node-match in DFS order, relied on by tests that
// assert counts over matches.
func (n *SgNode) FindAll(m Matcher) []*SgNode {
	var out []*SgNode
	n.dfs(func(cand *SgNode) bool {
		if match, ok := m.Match(cand); ok {
			out = append(out, match)
		}
		return true
	})
	return out
}

// Matches reports whether this node itself satisfies the matcher.
func (n *SgNode) Matches(m Matcher) bool {
	_, ok := m.Match(n)
	return ok
}

// Inside reports whether any ancestor of n satisfies the matcher.
func (n *SgNode) Inside(m Matcher) bool {
	for _, a := range n.Ancestors() {
		if a.Matches(m) {
			return true
		}
	}
	return false
}

// Has reports whether any descendant of n (excluding n itself) satisfies
// the matcher.
func (n *SgNode) Has(m Matcher) bool {
	found := false
	for _, c := range n.Children() {
		c.dfs(func(cand *SgNode) bool {
			if cand.Matches(m) {
				found = true
				return false
			}
			return true
		})
		if found {
			return true
		}
	}
	return false
}

// SelectorMatches runs the DFS prefilter: if the rule produces zero
// matches, callers should return Skipped without invoking the transform.
func SelectorMatches(root *SgRoot, rule RuleConfig) []*SgNode {
	return root.Root().FindAll(ConfigMatcher{Rule: rule})
}
