package sandbox

import (
	"strings"

	"github.com/codemod-rs/codemod-go/internal/resolver"
)

// ModuleSet bundles the resolver/loader pair an Engine consults while
// interpreting a transform's leading `// require: "specifier"` directives.
// Either field may independently be nil to disable resolution (a nil
// *ModuleSet altogether is the common case — most transforms need no
// auxiliary module).
type ModuleSet struct {
	Resolver resolver.Resolver
	Loader   resolver.Loader
}

const requireDirectivePrefix = "// require:"

// resolveRequires scans src's leading comment lines for `// require:
// "specifier"` directives (one specifier per line, ending at the first
// line that isn't such a directive or blank) and returns the concatenated,
// package-clause-stripped source of each resolved module, in declaration
// order, ready to be prepended ahead of src in the same interpreted unit.
// yaegi interprets one package body per Eval call, so — unlike the
// original's per-module JS contexts — a required module's declarations
// join the transform's own package main rather than staying import-scoped;
// this is recorded as the Go-idiom rendition of "imports the user's script
// path" in DESIGN.md.
func (m *ModuleSet) resolveRequires(entryPath, src string) (string, error) {
	if m == nil || m.Resolver == nil || m.Loader == nil {
		return "", nil
	}

	var specs []string
	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, requireDirectivePrefix) {
			break
		}
		spec := strings.TrimSpace(trimmed[len(requireDirectivePrefix):])
		spec = strings.Trim(spec, `"`)
		if spec != "" {
			specs = append(specs, spec)
		}
	}
	if len(specs) == 0 {
		return "", nil
	}

	var modules []string
	for _, spec := range specs {
		resolved, err := m.Resolver.Resolve(spec, entryPath)
		if err != nil {
			return "", err
		}
		body, err := m.Loader.Load(resolved)
		if err != nil {
			return "", err
		}
		modules = append(modules, stripPackageClause(string(body)))
	}
	return strings.Join(modules, "\n\n"), nil
}

func stripPackageClause(src string) string {
	lines := strings.Split(src, "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "package ") {
			continue
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}
