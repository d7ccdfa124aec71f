package sandbox

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/codemod-rs/codemod-go/internal/config"
	"github.com/codemod-rs/codemod-go/internal/langhandle"
	"github.com/codemod-rs/codemod-go/internal/resolver"
)

func mustGoRoot(t *testing.T, source string) *SgRoot {
	t.Helper()
	h, err := langhandle.FromName("go")
	require.NoError(t, err)
	root, err := NewSgRoot(h, []byte(source), "input.go")
	require.NoError(t, err)
	return root
}

func TestEngineRunIdentityTransformIsUnmodified(t *testing.T) {
	root := mustGoRoot(t, "package main\n\nvar x = 1\n")
	transform := `
func Transform(root *sandbox.SgRoot, opts sandbox.Options) (*string, error) {
	out := root.Source()
	return &out, nil
}
`
	e := NewEngine(CheckEquality)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, _, err := e.Run(ctx, root, transform, "", Options{}, config.CapabilitySet{}, false)
	require.NoError(t, err)
	require.Equal(t, Unmodified, result.Kind)
}

func TestEngineRunClassifiesModified(t *testing.T) {
	root := mustGoRoot(t, "package main\n\nvar x = 1\n")
	transform := `
func Transform(root *sandbox.SgRoot, opts sandbox.Options) (*string, error) {
	out := "package main\n\nvar x = 2\n"
	return &out, nil
}
`
	e := NewEngine(CheckEquality)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, _, err := e.Run(ctx, root, transform, "", Options{}, config.CapabilitySet{}, false)
	require.NoError(t, err)
	require.Equal(t, Modified, result.Kind)
	require.Equal(t, "package main\n\nvar x = 2\n", result.NewText)
}

func TestEngineRunSkipsWhenSelectorMatchesNothing(t *testing.T) {
	root := mustGoRoot(t, "package main\n\nvar x = 1\n")
	selector := `
func Selector() *sandbox.RuleConfig {
	return &sandbox.RuleConfig{Kind: "nonexistent_kind_xyz"}
}
`
	transform := `
func Transform(root *sandbox.SgRoot, opts sandbox.Options) (*string, error) {
	out := "should not run"
	return &out, nil
}
`
	e := NewEngine(CheckEquality)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, _, err := e.Run(ctx, root, transform, selector, Options{}, config.CapabilitySet{}, false)
	require.NoError(t, err)
	require.Equal(t, Skipped, result.Kind)
}

func TestEngineRunRejectsForbiddenImport(t *testing.T) {
	root := mustGoRoot(t, "package main\n\nvar x = 1\n")
	transform := `
import "os/exec"

func Transform(root *sandbox.SgRoot, opts sandbox.Options) (*string, error) {
	exec.Command("echo", "hi").Run()
	out := root.Source()
	return &out, nil
}
`
	e := NewEngine(CheckEquality)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, _, err := e.Run(ctx, root, transform, "", Options{}, config.CapabilitySet{}, false)
	require.Error(t, err)
}

func TestEngineRunResolvesRequiredModule(t *testing.T) {
	root := mustGoRoot(t, "package main\n\nvar x = 1\n")
	transform := `
// require: "helpers"
func Transform(root *sandbox.SgRoot, opts sandbox.Options) (*string, error) {
	out := bumpSuffix(root.Source())
	return &out, nil
}
`
	helperSrc := `
func bumpSuffix(s string) string {
	return s + "// bumped\n"
}
`
	res := resolver.WithModules(map[string]string{"helpers": "/virtual/helpers.go"})
	res.SetSource("/virtual/helpers.go", helperSrc)

	e := NewEngine(CheckEquality)
	e.SetModules(&ModuleSet{Resolver: res, Loader: resolver.NewInMemoryLoader(res)})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, _, err := e.Run(ctx, root, transform, "", Options{}, config.CapabilitySet{}, false)
	require.NoError(t, err)
	require.Equal(t, Modified, result.Kind)
	require.Equal(t, "package main\n\nvar x = 1\n// bumped\n", result.NewText)
}

func TestEngineRunWithoutModulesIgnoresRequireDirective(t *testing.T) {
	root := mustGoRoot(t, "package main\n\nvar x = 1\n")
	transform := `
// require: "helpers"
func Transform(root *sandbox.SgRoot, opts sandbox.Options) (*string, error) {
	out := root.Source()
	return &out, nil
}
`
	e := NewEngine(CheckEquality)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, _, err := e.Run(ctx, root, transform, "", Options{}, config.CapabilitySet{}, false)
	require.NoError(t, err)
	require.Equal(t, Unmodified, result.Kind)
}
