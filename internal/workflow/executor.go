package workflow

import (
	"context"
	"fmt"
	"os"

	"github.com/codemod-rs/codemod-go/internal/config"
	"github.com/codemod-rs/codemod-go/internal/logging"
	"github.com/codemod-rs/codemod-go/internal/runner"
	"github.com/codemod-rs/codemod-go/internal/sandbox"
)

// StepResult is the outcome of executing one Step.
type StepResult struct {
	StepID  string
	Skipped bool
	Report  *runner.Report
}

// Executor runs a Workflow's steps in sequence against a target path,
// grounded on original_source/crates/cli/src/commands/workflow/run.rs's
// sequential step loop.
type Executor struct {
	Engine   *sandbox.Engine
	Runner   *runner.Runner
	Target   string
	Caps     config.CapabilitySet
	DryRun   bool
}

// NewExecutor builds an Executor sharing one engine/runner across every step
// in a workflow run.
func NewExecutor(engine *sandbox.Engine, r *runner.Runner, target string, caps config.CapabilitySet, dryRun bool) *Executor {
	return &Executor{Engine: engine, Runner: r, Target: target, Caps: caps, DryRun: dryRun}
}

// Run executes every step of wf in order, honoring each step's `if`
// condition, and setting CODEMOD_STEP_ID (read back by config.StepID) and
// the step's own env vars for the duration of the step. A step without an
// id gets "step-<index>".
func (ex *Executor) Run(ctx context.Context, wf Workflow) ([]StepResult, error) {
	log := logging.Get(logging.CategoryWorkflow)
	var results []StepResult

	for i, step := range wf.Steps {
		stepID := step.ID
		if stepID == "" {
			stepID = fmt.Sprintf("step-%d", i)
		}

		if step.If != "" {
			ok, err := ex.evalCondition(step, stepID)
			if err != nil {
				return results, fmt.Errorf("workflow: step %q condition: %w", stepID, err)
			}
			if !ok {
				log.Infow("step skipped by condition", "step", stepID)
				results = append(results, StepResult{StepID: stepID, Skipped: true})
				continue
			}
		}

		report, err := ex.runStep(ctx, step, stepID)
		if err != nil {
			return results, fmt.Errorf("workflow: step %q: %w", stepID, err)
		}
		results = append(results, StepResult{StepID: stepID, Report: report})
	}
	return results, nil
}

func (ex *Executor) evalCondition(step Step, stepID string) (bool, error) {
	restore := ex.withStepEnv(step, stepID)
	defer restore()
	return ex.Engine.EvaluateCondition(step.If)
}

// withStepEnv sets CODEMOD_STEP_ID and the step's own env vars for the
// duration of one step, returning a restore function.
func (ex *Executor) withStepEnv(step Step, stepID string) func() {
	prevStepID, hadStepID := os.LookupEnv(config.EnvStepID)
	os.Setenv(config.EnvStepID, stepID)

	type saved struct {
		val string
		had bool
	}
	prev := make(map[string]saved, len(step.Env))
	for k, v := range step.Env {
		pv, had := os.LookupEnv(k)
		prev[k] = saved{val: pv, had: had}
		os.Setenv(k, v)
	}

	return func() {
		for k, s := range prev {
			if s.had {
				os.Setenv(k, s.val)
			} else {
				os.Unsetenv(k)
			}
		}
		if hadStepID {
			os.Setenv(config.EnvStepID, prevStepID)
		} else {
			os.Unsetenv(config.EnvStepID)
		}
	}
}

func (ex *Executor) runStep(ctx context.Context, step Step, stepID string) (*runner.Report, error) {
	restore := ex.withStepEnv(step, stepID)
	defer restore()

	switch step.Kind {
	case ActionRunScript, ActionJSAstGrep, ActionAstGrep:
		return ex.runTransformStep(ctx, step)
	default:
		return nil, fmt.Errorf("unsupported step kind %q (call ResolveTemplates before Run for use_template steps)", step.Kind)
	}
}

// runTransformStep dispatches run_script/js_ast_grep/ast_grep steps: all
// three reduce to "run this transform (optionally gated by a selector)
// across base_path/include/exclude". Only the inline TransformSrc and
// SelectorSrc are run; a step's TransformFile and ConfigFile are not read.
func (ex *Executor) runTransformStep(ctx context.Context, step Step) (*runner.Report, error) {
	cfg := config.ExecutionConfig{
		TargetPath:   ex.Target,
		BasePath:     step.BasePath,
		IncludeGlobs: step.Include,
		ExcludeGlobs: step.Exclude,
		DryRun:       ex.DryRun,
		Capabilities: ex.Caps,
	}
	if step.Language != "" {
		cfg.Languages = []string{step.Language}
	}

	codemod := runner.Codemod{Name: step.Name, TransformSrc: step.TransformSrc, SelectorSrc: step.SelectorSrc}
	return ex.Runner.Run(ctx, cfg, codemod)
}

// ResolveTemplate expands a use_template step into a run_script step using
// tpl's transform source and the step's own env/if/id.
func ResolveTemplate(step Step, tpl Template) Step {
	step.Kind = ActionRunScript
	step.TransformSrc = tpl.TransformSrc
	if step.Language == "" {
		step.Language = tpl.Language
	}
	return step
}

// ResolveTemplates rewrites every use_template step in wf against
// wf.Templates in place, so Executor.Run never has to special-case that
// step kind. Call once after loading a workflow, before Run.
func ResolveTemplates(wf Workflow) (Workflow, error) {
	byName := make(map[string]Template, len(wf.Templates))
	for _, t := range wf.Templates {
		byName[t.Name] = t
	}
	for i, step := range wf.Steps {
		if step.Kind != ActionUseTemplate {
			continue
		}
		tpl, ok := byName[step.Template]
		if !ok {
			return wf, fmt.Errorf("workflow: step %q references unknown template %q", step.ID, step.Template)
		}
		wf.Steps[i] = ResolveTemplate(step, tpl)
	}
	return wf, nil
}
