package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/codemod-rs/codemod-go/internal/config"
	"github.com/codemod-rs/codemod-go/internal/resolver"
	"github.com/codemod-rs/codemod-go/internal/runner"
	"github.com/codemod-rs/codemod-go/internal/sandbox"
	"github.com/codemod-rs/codemod-go/internal/semantic"
)

// capabilitySet reads the process-wide --allow-* flags into the
// CapabilitySet the sandbox consults for every run: deny-by-default, only
// the flags a caller explicitly sets are granted.
func capabilitySet() config.CapabilitySet {
	return config.CapabilitySet{
		Filesystem:   allowFS,
		Network:      allowNetwork,
		ChildProcess: allowExec,
	}
}

// newEngine builds a sandbox.Engine with file-backed modification checking
// (content-hash comparison for file-backed execution) and a physical
// module resolver rooted at target, so a transform's `// require:`
// directives resolve relative to the codebase being transformed.
func newEngine(target string) *sandbox.Engine {
	eng := sandbox.NewEngine(sandbox.CheckContentHash)
	res := resolver.NewPhysicalResolver(target)
	eng.SetModules(&sandbox.ModuleSet{Resolver: res, Loader: resolver.PhysicalLoader{}})
	return eng
}

// newSemanticFacade builds the lazy semantic façade rooted at target, or
// nil when semantic analysis isn't requested — a runner.SemanticNotifier
// of nil simply disables post-write notification.
func newSemanticFacade(target string, enabled bool) *semantic.LazyFacade {
	if !enabled {
		return nil
	}
	fs := semantic.NewPhysicalFS(target)
	return semantic.NewLazyFacade(semantic.FileScope, fs, semantic.DefaultFactory(target))
}

// newRunner composes a Runner from the flags common to every
// codemod-applying subcommand.
func newRunner(cmd *cobra.Command, target string, diffCfg config.DiffConfig, withSemantic bool) *runner.Runner {
	eng := newEngine(target)
	facade := newSemanticFacade(target, withSemantic)
	if facade != nil {
		return runner.New(eng, diffCfg, facade)
	}
	return runner.New(eng, diffCfg, nil)
}

// readCodemodFile loads a transform script (and, if present, a sibling
// "<name>.selector.go" prefilter) from disk into a runner.Codemod.
func readCodemodFile(path string) (runner.Codemod, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return runner.Codemod{}, err
	}
	selectorPath := selectorSiblingPath(path)
	var selectorSrc string
	if data, err := os.ReadFile(selectorPath); err == nil {
		selectorSrc = string(data)
	}
	return runner.Codemod{Name: path, TransformSrc: string(src), SelectorSrc: selectorSrc}, nil
}

func selectorSiblingPath(transformPath string) string {
	ext := ".go"
	base := transformPath
	if len(transformPath) > len(ext) && transformPath[len(transformPath)-len(ext):] == ext {
		base = transformPath[:len(transformPath)-len(ext)]
	}
	return base + ".selector.go"
}
