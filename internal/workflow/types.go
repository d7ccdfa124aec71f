package workflow

// Workflow is a declarative chain of steps, the Go shape of
// original_source/crates/models/src/workflow.rs's Workflow/Node, flattened:
// the original's Node layer added no behavior beyond grouping Steps, so one
// Workflow here holds its Steps directly.
type Workflow struct {
	Version   string            `yaml:"version"`
	Params    map[string]string `yaml:"params"`
	Templates []Template        `yaml:"templates"`
	Steps     []Step            `yaml:"steps"`
}

// ActionKind discriminates a Step's action (original_source's StepAction
// enum, trimmed to the kinds this module implements: the `codemod` kind
// (invoke a registry package) and the `ai` kind (LLM agent) are dropped —
// registry backends and LLM calls are out of scope, see DESIGN.md).
type ActionKind string

const (
	ActionRunScript  ActionKind = "run_script"
	ActionAstGrep    ActionKind = "ast_grep"
	ActionJSAstGrep  ActionKind = "js_ast_grep"
	ActionUseTemplate ActionKind = "use_template"
)

// Step is one named action in a Workflow (original_source's Step, with
// StepAction's serde-flatten union expressed as an explicit Kind tag plus
// the fields relevant to that kind).
type Step struct {
	ID        string            `yaml:"id"`
	Name      string            `yaml:"name"`
	Kind      ActionKind        `yaml:"kind"`
	Env       map[string]string `yaml:"env"`
	// If, when set, is a `func Condition() bool { ... }` source fragment
	// interpreted by the same sandbox engine as transforms (it may call
	// sandbox.GetStepOutput to read a prior step's recorded output); the
	// step runs only if it evaluates true. Empty means always run.
	If string `yaml:"if"`

	// ActionRunScript / ActionJSAstGrep: inline transform source run through
	// the sandbox engine. TransformFile is loaded from YAML but the executor
	// does not read it.
	TransformFile string `yaml:"transform_file"`
	TransformSrc  string `yaml:"transform_src"`
	SelectorSrc   string `yaml:"selector_src"`
	Language      string `yaml:"language"`

	// ActionAstGrep: a rule config file plus target glob overrides. The
	// executor applies the globs; ConfigFile is not read.
	ConfigFile string   `yaml:"config_file"`
	Include    []string `yaml:"include"`
	Exclude    []string `yaml:"exclude"`
	BasePath   string   `yaml:"base_path"`

	// ActionUseTemplate: a named template plus its inputs.
	Template string            `yaml:"template"`
	Inputs   map[string]string `yaml:"inputs"`
}

// Template is a reusable step fragment (original_source's Template, used by
// ActionUseTemplate steps).
type Template struct {
	Name         string `yaml:"name"`
	TransformSrc string `yaml:"transform_src"`
	Language     string `yaml:"language"`
}
