package sandbox

import (
	"reflect"

	"github.com/traefik/yaegi/interp"
)

// Exports is the symbol table yaegi loads for user scripts: a built-in
// module registration covering `<engine>:ast-grep`, `<engine>:metrics`,
// `<engine>:workflow`. Scripts `import
// "github.com/codemod-rs/codemod-go/internal/sandbox"` to reach the
// syntactic API. The metrics and step-output bindings are listed in this
// table too; the step-output store behind them is installed by
// internal/workflow through SetStepStore to avoid an import cycle.
var Exports = interp.Exports{
	"github.com/codemod-rs/codemod-go/internal/sandbox": {
		"SgRoot":            reflect.ValueOf((*SgRoot)(nil)),
		"SgNode":            reflect.ValueOf((*SgNode)(nil)),
		"Options":           reflect.ValueOf(Options{}),
		"Edit":              reflect.ValueOf(Edit{}),
		"RuleConfig":        reflect.ValueOf(RuleConfig{}),
		"KindMatcher":       reflect.ValueOf(KindMatcher{}),
		"PatternMatcher":    reflect.ValueOf(PatternMatcher{}),
		"CoerceMatcher":     reflect.ValueOf(CoerceMatcher),
		"CommitEdits":       reflect.ValueOf(CommitEdits),
		// Capabilities is exported as a type only, for scripts that want to
		// name the parameter type of a helper function; scripts never
		// construct their own instance (no NewCapabilities binding). The
		// single authoritative instance for one execution is injected under
		// the name "Caps" by engine.go's per-run export, so capability
		// grants are decided solely by the host.
		"Capabilities": reflect.ValueOf((*Capabilities)(nil)),
		"Metrics":            reflect.ValueOf(metricsBinding),
		"SetStepOutput":      reflect.ValueOf(stepOutputSetBinding),
		"GetStepOutput":      reflect.ValueOf(stepOutputGetBinding),
		"GetOrSetStepOutput": reflect.ValueOf(stepOutputGetOrSetBinding),
	},
}

// StepStore is the step-output store contract sandbox scripts call into
// through the `<engine>:workflow` bindings. Set once by internal/workflow's
// package init to avoid an import cycle with the sandbox package.
type StepStore interface {
	Set(stepID, name, value string)
	Get(stepID, name string) (string, bool)
	GetOrSet(stepID, name, def string) string
}

var stepStore StepStore

// SetStepStore installs the step-output store implementation.
func SetStepStore(s StepStore) { stepStore = s }

func stepOutputSetBinding(stepID, name, value string) {
	if stepStore != nil {
		stepStore.Set(stepID, name, value)
	}
}

func stepOutputGetBinding(stepID, name string) (string, bool) {
	if stepStore == nil {
		return "", false
	}
	return stepStore.Get(stepID, name)
}

func stepOutputGetOrSetBinding(stepID, name, def string) string {
	if stepStore == nil {
		return def
	}
	return stepStore.GetOrSet(stepID, name, def)
}

// MetricsContext aggregates counters by (name, cardinality), guarded by an
// internal lock.
type MetricsContext struct{}

var metricsBinding = &MetricsContext{}

func (m *MetricsContext) Increment(name string, cardinality map[string]string) {
	incrementMetric(name, cardinality)
}
