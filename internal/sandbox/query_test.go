package sandbox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindReturnsFirstDFSMatch(t *testing.T) {
	root := mustJSRoot(t, "var a = 1;\nvar b = 2;\n")
	found := root.Root().Find(KindMatcher{KindName: "variable_declaration"})
	require.NotNil(t, found)
	require.Contains(t, found.Text(), "a = 1")
}

func TestFindAllReturnsEveryMatchInOrder(t *testing.T) {
	root := mustJSRoot(t, "var a = 1;\nvar b = 2;\nvar c = 3;\n")
	all := root.Root().FindAll(KindMatcher{KindName: "variable_declaration"})
	require.Len(t, all, 3)
	require.Contains(t, all[0].Text(), "a = 1")
	require.Contains(t, all[2].Text(), "c = 3")
}

func TestFindAllReturnsNoneWhenNothingMatches(t *testing.T) {
	root := mustJSRoot(t, "var a = 1;\n")
	all := root.Root().FindAll(KindMatcher{KindName: "nonexistent_kind"})
	require.Empty(t, all)
}

func TestMatchesReportsWhetherNodeItselfSatisfiesMatcher(t *testing.T) {
	root := mustJSRoot(t, "var a = 1;\n")
	decl := root.Root().Find(KindMatcher{KindName: "variable_declaration"})
	require.NotNil(t, decl)

	require.True(t, decl.Matches(KindMatcher{KindName: "variable_declaration"}))
	require.False(t, decl.Matches(KindMatcher{KindName: "nonexistent_kind"}))
}

func TestInsideReportsAncestorMatch(t *testing.T) {
	root := mustJSRoot(t, "function f() { var a = 1; }\n")
	decl := root.Root().Find(KindMatcher{KindName: "variable_declaration"})
	require.NotNil(t, decl)

	require.True(t, decl.Inside(KindMatcher{KindName: "function_declaration"}))
	require.False(t, decl.Inside(KindMatcher{KindName: "class_declaration"}))
}

func TestHasReportsDescendantMatchExcludingSelf(t *testing.T) {
	root := mustJSRoot(t, "function f() { var a = 1; }\n")
	fn := root.Root().Find(KindMatcher{KindName: "function_declaration"})
	require.NotNil(t, fn)

	require.True(t, fn.Has(KindMatcher{KindName: "variable_declaration"}))
	require.False(t, fn.Has(KindMatcher{KindName: "function_declaration"}))
}

func TestSelectorMatchesRunsRuleAsPrefilter(t *testing.T) {
	root := mustJSRoot(t, "console.log(\"hi\");\n")
	matches := SelectorMatches(root, RuleConfig{Pattern: "console.log($A)"})
	require.Len(t, matches, 1)

	none := SelectorMatches(root, RuleConfig{Kind: "nonexistent_kind"})
	require.Empty(t, none)
}
