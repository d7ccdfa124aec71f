package testharness

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codemod-rs/codemod-go/internal/langhandle"
)

func mustHandle(t *testing.T, name string) langhandle.Handle {
	t.Helper()
	h, err := langhandle.FromName(name)
	require.NoError(t, err)
	return h
}

func TestCompareStrictRequiresExactBytes(t *testing.T) {
	h := mustHandle(t, "go")
	ok, err := Compare(h, "package main\n\nvar x = 1\n", "package main\n\nvar x  = 1\n", Strict, false, nil)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = Compare(h, "package main\n\nvar x = 1\n", "package main\n\nvar x  = 1\n", Strict, true, nil)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCompareCSTDistinguishesCommentChanges(t *testing.T) {
	h := mustHandle(t, "go")
	a := "package main\n\n// keep\nvar x = 1\n"
	b := "package main\n\nvar x = 1\n"
	ok, err := Compare(h, a, b, CST, false, nil)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCompareASTIgnoresCommentsAndFormatting(t *testing.T) {
	h := mustHandle(t, "go")
	a := "package main\n\n// keep\nvar x = 1\n"
	b := "package main\n\nvar   x=1\n"
	ok, err := Compare(h, a, b, AST, false, nil)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCompareLooseNormalizesUnorderedKinds(t *testing.T) {
	h := mustHandle(t, "javascript")
	a := "const o = { a: 1, b: 2 };\n"
	b := "const o = { b: 2, a: 1 };\n"

	okAST, err := Compare(h, a, b, AST, false, nil)
	require.NoError(t, err)
	require.False(t, okAST)

	okLoose, err := Compare(h, a, b, Loose, false, nil)
	require.NoError(t, err)
	require.True(t, okLoose)
}

func TestParseStrictness(t *testing.T) {
	for in, want := range map[string]Strictness{"strict": Strict, "CST": CST, "ast": AST, "loose": Loose, "": Strict} {
		got, err := ParseStrictness(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseStrictness("bogus")
	require.Error(t, err)
}
