package sandbox

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/codemod-rs/codemod-go/internal/config"
	"github.com/codemod-rs/codemod-go/internal/logging"
)

// TransformFunc is the Go-idiom equivalent of a transform contract: default
// export function `transform(root, options) → string | null | ...`. A
// script interpreted by Engine must declare exactly this function under
// package main.
type TransformFunc = func(root *SgRoot, opts Options) (*string, error)

// SelectorFunc is the Go-idiom equivalent of a prefilter selector contract:
// `runSelector() → RuleConfigObject | null`.
type SelectorFunc = func() *RuleConfig

// allowedImports mirrors internal/autopoiesis/yaegi_executor.go's stdlib
// allowlist (generalized: os/exec/net/net/http/syscall/unsafe stay
// forbidden at the import-name level; host I/O is instead reached only
// through the gated Capabilities value, see capability.go).
var allowedImports = map[string]bool{
	"strings": true, "strconv": true, "fmt": true, "math": true,
	"regexp": true, "encoding/json": true, "encoding/base64": true,
	"time": true, "sort": true, "bytes": true, "path": true,
	"path/filepath": true, "errors": true, "unicode": true,
}

// Engine is the sandboxed script runtime.
type Engine struct {
	check   ModificationCheck
	modules *ModuleSet
}

// NewEngine builds a script engine. check selects how "no change" is
// decided: CheckEquality for in-memory execution, CheckContentHash for
// file-backed execution.
func NewEngine(check ModificationCheck) *Engine {
	return &Engine{check: check}
}

// SetModules installs the resolver/loader pair this engine consults for a
// transform's `// require:` directives. Nil (the default) disables module
// resolution entirely — scripts with no require directives are unaffected
// either way.
func (e *Engine) SetModules(m *ModuleSet) { e.modules = m }

// ErrExecutionFailed wraps every script-runtime failure behind one error
// kind carrying the originating message.
type ErrExecutionFailed struct {
	Message string
	Cause   error
}

func (e *ErrExecutionFailed) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("sandbox: execution failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("sandbox: execution failed: %s", e.Message)
}
func (e *ErrExecutionFailed) Unwrap() error { return e.Cause }

// Run is the per-transform lifecycle:
//  1. parse source into a root (handled by the caller, who hands us root);
//  2. if a selector was supplied, prefilter with DFS and short-circuit to
//     Skipped when it matches nothing;
//  3. interpret the transform script in a capability-gated yaegi sandbox;
//  4. classify the result.
func (e *Engine) Run(ctx context.Context, root *SgRoot, transformSrc string, selectorSrc string, opts Options, caps config.CapabilitySet, dryRun bool) (Result, []SecondaryChange, error) {
	log := logging.Get(logging.CategorySandbox)
	capsInstance := &Capabilities{caps: caps, check: e.check, dryRun: dryRun}

	if selectorSrc != "" {
		rule, err := e.evalSelector(selectorSrc, capsInstance)
		if err != nil {
			return Result{}, nil, err
		}
		if rule != nil {
			matches := SelectorMatches(root, *rule)
			if len(matches) == 0 {
				return Result{Kind: Skipped}, nil, nil
			}
			opts.Matches = matches
		}
	}

	fn, err := e.evalTransform(transformSrc, capsInstance, root.Filename())
	if err != nil {
		return Result{}, nil, err
	}

	type outcome struct {
		text *string
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		text, err := fn(root, opts)
		done <- outcome{text: text, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			return Result{}, nil, &ErrExecutionFailed{Message: "transform threw", Cause: out.err}
		}
		renamePath, hasRename := root.RenameTarget()
		result := ClassifyTransformResult(root.Source(), out.text, renamePath, hasRename, e.check)
		log.Debugw("transform classified", "kind", result.Kind, "rename", hasRename)
		return result, capsInstance.Secondary(), nil
	case <-ctx.Done():
		return Result{}, nil, &ErrExecutionFailed{Message: "transform timed out", Cause: ctx.Err()}
	}
}

// EvaluateCondition runs a step's `if` condition — a Go source fragment
// declaring `func Condition() bool`, interpreted with the same yaegi
// sandbox and step-output bindings as any other script (so a condition can
// call sandbox.GetStepOutput directly) — for the workflow executor.
func (e *Engine) EvaluateCondition(src string) (bool, error) {
	v, err := e.eval(src, "Condition", &Capabilities{check: e.check}, "")
	if err != nil {
		return false, err
	}
	fn, ok := v.Interface().(func() bool)
	if !ok {
		return false, &ErrExecutionFailed{Message: "condition produced malformed result: Condition must be func() bool"}
	}
	return fn(), nil
}

// EvaluateSelector runs only a selector script's Selector() function, with
// no capability grants, for callers that need the resulting rule without a
// full transform invocation (e.g. the list-applicable check, wired to the
// prefilter half of this engine).
func (e *Engine) EvaluateSelector(src string) (*RuleConfig, error) {
	return e.evalSelector(src, &Capabilities{check: e.check})
}

func (e *Engine) evalSelector(src string, caps *Capabilities) (*RuleConfig, error) {
	v, err := e.eval(src, "Selector", caps, "")
	if err != nil {
		return nil, err
	}
	fn, ok := v.Interface().(func() *RuleConfig)
	if !ok {
		return nil, &ErrExecutionFailed{Message: "selector produced malformed rule: Selector must be func() *sandbox.RuleConfig"}
	}
	return fn(), nil
}

func (e *Engine) evalTransform(src string, caps *Capabilities, entryPath string) (TransformFunc, error) {
	v, err := e.eval(src, "Transform", caps, entryPath)
	if err != nil {
		return nil, err
	}
	fn, ok := v.Interface().(TransformFunc)
	if !ok {
		return nil, &ErrExecutionFailed{Message: "Invalid result type: Transform must be func(*sandbox.SgRoot, sandbox.Options) (*string, error)"}
	}
	return fn, nil
}

// eval validates imports, constructs a fresh interpreter with the stdlib
// allowlist plus this package's own exports, binds caps as the single
// authoritative "sandbox.Caps" instance for this run, evaluates src, and
// returns the requested top-level symbol from package main.
func (e *Engine) eval(src, symbol string, caps *Capabilities, entryPath string) (reflect.Value, error) {
	required, err := e.modules.resolveRequires(entryPath, src)
	if err != nil {
		return reflect.Value{}, &ErrExecutionFailed{Message: "module resolution", Cause: err}
	}
	if required != "" {
		src = required + "\n\n" + src
	}

	if err := validateImports(src); err != nil {
		return reflect.Value{}, &ErrExecutionFailed{Message: "module declaration", Cause: err}
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return reflect.Value{}, &ErrExecutionFailed{Message: "context creation", Cause: err}
	}
	if err := i.Use(Exports); err != nil {
		return reflect.Value{}, &ErrExecutionFailed{Message: "context creation", Cause: err}
	}
	runExports := interp.Exports{
		"github.com/codemod-rs/codemod-go/internal/sandbox": {"Caps": reflect.ValueOf(caps)},
	}
	if err := i.Use(runExports); err != nil {
		return reflect.Value{}, &ErrExecutionFailed{Message: "context creation", Cause: err}
	}

	if _, err := i.Eval(wrapPackage(src)); err != nil {
		return reflect.Value{}, &ErrExecutionFailed{Message: "module evaluation", Cause: err}
	}

	v, err := i.Eval("main." + symbol)
	if err != nil {
		return reflect.Value{}, &ErrExecutionFailed{Message: "property lookup", Cause: err}
	}
	return v, nil
}

func wrapPackage(src string) string {
	if strings.Contains(src, "package main") {
		return src
	}
	return "package main\n\n" + src
}

func validateImports(code string) error {
	lines := strings.Split(code, "\n")
	inBlock := false
	var forbidden []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "import (") {
			inBlock = true
			continue
		}
		if inBlock && strings.HasPrefix(trimmed, ")") {
			inBlock = false
			continue
		}
		var pkg string
		switch {
		case inBlock:
			pkg = strings.Trim(trimmed, `"`)
		case strings.HasPrefix(trimmed, "import "):
			pkg = strings.Trim(strings.TrimPrefix(trimmed, "import "), `"`)
		default:
			continue
		}
		pkg = strings.TrimSpace(pkg)
		if pkg == "" || pkg == "github.com/codemod-rs/codemod-go/internal/sandbox" {
			continue
		}
		if !allowedImports[pkg] {
			forbidden = append(forbidden, pkg)
		}
	}
	if len(forbidden) > 0 {
		return fmt.Errorf("forbidden imports: %v", forbidden)
	}
	return nil
}
