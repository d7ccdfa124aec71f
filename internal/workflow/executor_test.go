package workflow

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codemod-rs/codemod-go/internal/config"
	"github.com/codemod-rs/codemod-go/internal/runner"
	"github.com/codemod-rs/codemod-go/internal/sandbox"
)

const bumpTransform = `
func Transform(root *sandbox.SgRoot, opts sandbox.Options) (*string, error) {
	out := "package main\n\nvar x = 2\n"
	return &out, nil
}
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestExecutorRunsEachStep(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.go"), "package main\n\nvar x = 1\n")

	eng := sandbox.NewEngine(sandbox.CheckEquality)
	r := runner.New(eng, config.DefaultDiffConfig(), nil)
	ex := NewExecutor(eng, r, dir, config.CapabilitySet{}, false)

	wf := Workflow{Steps: []Step{
		{ID: "bump", Name: "bump", Kind: ActionRunScript, Language: "go", TransformSrc: bumpTransform},
	}}

	results, err := ex.Run(context.Background(), wf)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.False(t, results[0].Skipped)
	require.Equal(t, 1, results[0].Report.Stats.FilesModified)
}

func TestExecutorSkipsStepWhenConditionFalse(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.go"), "package main\n\nvar x = 1\n")

	eng := sandbox.NewEngine(sandbox.CheckEquality)
	r := runner.New(eng, config.DefaultDiffConfig(), nil)
	ex := NewExecutor(eng, r, dir, config.CapabilitySet{}, false)

	wf := Workflow{Steps: []Step{
		{
			ID: "bump", Name: "bump", Kind: ActionRunScript, Language: "go",
			TransformSrc: bumpTransform,
			If:           "func Condition() bool { return false }",
		},
	}}

	results, err := ex.Run(context.Background(), wf)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.True(t, results[0].Skipped)
}

func TestExecutorConditionReadsPriorStepOutput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.go"), "package main\n\nvar x = 1\n")

	eng := sandbox.NewEngine(sandbox.CheckEquality)
	r := runner.New(eng, config.DefaultDiffConfig(), nil)
	ex := NewExecutor(eng, r, dir, config.CapabilitySet{}, false)

	wf := Workflow{Steps: []Step{
		{
			ID: "gate", Name: "gate", Kind: ActionRunScript, Language: "go",
			TransformSrc: bumpTransform,
			If: `
func Condition() bool {
	v, ok := sandbox.GetStepOutput("seed", "go")
	return ok && v == "yes"
}
`,
		},
	}}

	Default.Set("seed", "go", "yes")
	results, err := ex.Run(context.Background(), wf)
	require.NoError(t, err)
	require.False(t, results[0].Skipped)
}

func TestResolveTemplatesExpandsUseTemplateStep(t *testing.T) {
	wf := Workflow{
		Templates: []Template{{Name: "bump", TransformSrc: bumpTransform, Language: "go"}},
		Steps: []Step{
			{ID: "s1", Kind: ActionUseTemplate, Template: "bump"},
		},
	}
	resolved, err := ResolveTemplates(wf)
	require.NoError(t, err)
	require.Equal(t, ActionRunScript, resolved.Steps[0].Kind)
	require.Equal(t, bumpTransform, resolved.Steps[0].TransformSrc)
	require.Equal(t, "go", resolved.Steps[0].Language)
}

func TestResolveTemplatesErrorsOnUnknownTemplate(t *testing.T) {
	wf := Workflow{Steps: []Step{{ID: "s1", Kind: ActionUseTemplate, Template: "missing"}}}
	_, err := ResolveTemplates(wf)
	require.Error(t, err)
}
