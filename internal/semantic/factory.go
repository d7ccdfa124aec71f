package semantic

// jsTagSet / pyTagSet are the language tag families each analyzer accepts.
var jsTagSet = map[string]bool{
	"javascript": true, "typescript": true, "js": true, "ts": true,
	"jsx": true, "tsx": true, "mjs": true, "cjs": true,
}

var pyTagSet = map[string]bool{"python": true, "py": true}

// ProviderBuilder constructs the concrete analyzer for a tag family; the
// two builders in internal/semantic/jsts and internal/semantic/pyprov
// register themselves from their own package init (cmd/codemod imports
// both), which avoids a dependency cycle between this package and its own
// sub-packages.
type ProviderBuilder func(mode Mode, fs FS, workspaceRoot string) Provider

var (
	jsBuilder ProviderBuilder
	pyBuilder ProviderBuilder
)

// RegisterJSBuilder installs the JS/TS provider constructor.
func RegisterJSBuilder(b ProviderBuilder) { jsBuilder = b }

// RegisterPythonBuilder installs the Python provider constructor.
func RegisterPythonBuilder(b ProviderBuilder) { pyBuilder = b }

// Create returns the provider for language_tag, or nil if unsupported.
func Create(tag string, mode Mode, fs FS, workspaceRoot string) Provider {
	switch {
	case jsTagSet[tag] && jsBuilder != nil:
		return jsBuilder(mode, fs, workspaceRoot)
	case pyTagSet[tag] && pyBuilder != nil:
		return pyBuilder(mode, fs, workspaceRoot)
	default:
		return nil
	}
}

// DefaultFactory adapts Create to the Factory signature LazyFacade expects,
// binding workspaceRoot once.
func DefaultFactory(workspaceRoot string) Factory {
	return func(tag string, mode Mode, fs FS) (Provider, error) {
		return Create(tag, mode, fs, workspaceRoot), nil
	}
}
