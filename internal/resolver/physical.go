package resolver

import (
	"os"
	"path/filepath"
	"strings"
)

// nodeExtensions mirrors the host ecosystem's typical extension-fallback
// order for bare/relative specifiers.
var nodeExtensions = []string{"", ".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

// indexFiles is tried when a resolved directory has no direct file match.
var indexFiles = []string{"index.ts", "index.tsx", "index.js"}

// PhysicalResolver resolves specifiers against a base directory on disk,
// with node-module-style extension and index-file fallback.
type PhysicalResolver struct {
	BaseDir string
	// PathMapping optionally maps a bare specifier prefix to a directory,
	// analogous to a tsconfig "paths" entry.
	PathMapping map[string]string
}

// NewPhysicalResolver roots a resolver at dir.
func NewPhysicalResolver(dir string) *PhysicalResolver {
	return &PhysicalResolver{BaseDir: dir}
}

func (r *PhysicalResolver) Resolve(specifier, importerPath string) (string, error) {
	var candidateDir string
	switch {
	case strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../"):
		base := r.BaseDir
		if importerPath != "" {
			base = filepath.Dir(importerPath)
		}
		candidateDir = filepath.Join(base, specifier)
	default:
		if mapped, ok := r.lookupMapping(specifier); ok {
			candidateDir = mapped
		} else {
			candidateDir = filepath.Join(r.BaseDir, specifier)
		}
	}

	if resolved, ok := r.tryFile(candidateDir); ok {
		return resolved, nil
	}
	for _, idx := range indexFiles {
		if resolved, ok := r.tryFile(filepath.Join(candidateDir, idx)); ok {
			return resolved, nil
		}
	}
	return "", &ErrResolutionFailed{Base: importerPath, Specifier: specifier}
}

func (r *PhysicalResolver) lookupMapping(specifier string) (string, bool) {
	for prefix, dir := range r.PathMapping {
		if specifier == prefix {
			return dir, true
		}
		if strings.HasPrefix(specifier, prefix+"/") {
			return filepath.Join(dir, strings.TrimPrefix(specifier, prefix+"/")), true
		}
	}
	return "", false
}

func (r *PhysicalResolver) tryFile(path string) (string, bool) {
	for _, ext := range nodeExtensions {
		candidate := path + ext
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// PhysicalLoader reads bytes from disk for paths resolved by
// PhysicalResolver.
type PhysicalLoader struct{}

func (PhysicalLoader) Load(resolvedPath string) ([]byte, error) {
	b, err := os.ReadFile(resolvedPath)
	if err != nil {
		return nil, &ErrInvalidPath{Path: resolvedPath}
	}
	return b, nil
}
