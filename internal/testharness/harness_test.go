package testharness

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codemod-rs/codemod-go/internal/runner"
	"github.com/codemod-rs/codemod-go/internal/sandbox"
)

const bumpTransform = `
func Transform(root *sandbox.SgRoot, opts sandbox.Options) (*string, error) {
	out := "package main\n\nvar x = 2\n"
	return &out, nil
}
`

func writeFixture(t *testing.T, root, caseName, inputExt, input, expected string) {
	t.Helper()
	dir := filepath.Join(root, caseName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "input"+inputExt), []byte(input), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "expected_output"+inputExt), []byte(expected), 0o644))
}

func TestDiscoverFindsInputExpectedPairs(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "case1", ".go", "package main\n\nvar x = 1\n", "package main\n\nvar x = 2\n")

	cases, err := Discover(root, "")
	require.NoError(t, err)
	require.Len(t, cases, 1)
	require.Equal(t, "case1", cases[0].Name)
	require.Equal(t, "go", cases[0].Handle.Name())
}

func TestRunPassesWhenTransformMatchesExpected(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "case1", ".go", "package main\n\nvar x = 1\n", "package main\n\nvar x = 2\n")

	eng := sandbox.NewEngine(sandbox.CheckEquality)
	codemod := runner.Codemod{Name: "bump", TransformSrc: bumpTransform}

	summary, err := Run(context.Background(), eng, codemod, root, Options{Strictness: Strict})
	require.NoError(t, err)
	require.Equal(t, 1, summary.Passed)
	require.Equal(t, 0, summary.Failed)
}

func TestRunFailsWhenTransformDoesNotMatchExpected(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "case1", ".go", "package main\n\nvar x = 1\n", "package main\n\nvar x = 99\n")

	eng := sandbox.NewEngine(sandbox.CheckEquality)
	codemod := runner.Codemod{Name: "bump", TransformSrc: bumpTransform}

	summary, err := Run(context.Background(), eng, codemod, root, Options{Strictness: Strict})
	require.NoError(t, err)
	require.Equal(t, 0, summary.Passed)
	require.Equal(t, 1, summary.Failed)
	require.NotEmpty(t, summary.Results[0].DiffText)
}

func TestRunFilterSkipsNonMatchingCases(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "alpha", ".go", "package main\n\nvar x = 1\n", "package main\n\nvar x = 2\n")
	writeFixture(t, root, "beta", ".go", "package main\n\nvar x = 1\n", "package main\n\nvar x = 2\n")

	eng := sandbox.NewEngine(sandbox.CheckEquality)
	codemod := runner.Codemod{Name: "bump", TransformSrc: bumpTransform}

	summary, err := Run(context.Background(), eng, codemod, root, Options{Strictness: Strict, Filter: "alpha"})
	require.NoError(t, err)
	require.Equal(t, 1, summary.Passed)
	require.Equal(t, 0, summary.Failed)

	skipped := 0
	for _, r := range summary.Results {
		if r.Skipped {
			skipped++
		}
	}
	require.Equal(t, 1, skipped)
}

func TestRunUpdateSnapshotsWritesExpectedFile(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "case1", ".go", "package main\n\nvar x = 1\n", "package main\n\nvar x = 99\n")

	eng := sandbox.NewEngine(sandbox.CheckEquality)
	codemod := runner.Codemod{Name: "bump", TransformSrc: bumpTransform}

	summary, err := Run(context.Background(), eng, codemod, root, Options{Strictness: Strict, UpdateSnapshots: true})
	require.NoError(t, err)
	require.Equal(t, 1, summary.Passed)

	updated, err := os.ReadFile(filepath.Join(root, "case1", "expected_output.go"))
	require.NoError(t, err)
	require.Equal(t, "package main\n\nvar x = 2\n", string(updated))
}
