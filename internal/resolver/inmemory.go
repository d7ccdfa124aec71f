package resolver

import (
	"path"
	"strings"
	"sync"
)

// InMemoryResolver holds two maps — specifier→path and path→source — used
// for memory-only execution (e.g. embedded use, tests). Grounded exactly on
// original_source/crates/codemod-sandbox/src/sandbox/resolvers/
// in_memory_resolver.rs's InMemoryResolver/InMemoryLoader.
type InMemoryResolver struct {
	mu      sync.RWMutex
	modules map[string]string
	sources map[string]string
}

// NewInMemoryResolver builds an empty resolver.
func NewInMemoryResolver() *InMemoryResolver {
	return &InMemoryResolver{modules: map[string]string{}, sources: map[string]string{}}
}

// WithModules builds a resolver pre-seeded with specifier→path mappings.
func WithModules(modules map[string]string) *InMemoryResolver {
	r := NewInMemoryResolver()
	for k, v := range modules {
		r.modules[k] = v
	}
	return r
}

// AddModule records a specifier→path mapping in place, replacing any earlier
// mapping for the same specifier.
func (r *InMemoryResolver) AddModule(name, resolvedPath string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules[name] = resolvedPath
}

// AddModuleWithSource records both the mapping and its source in one call.
func (r *InMemoryResolver) AddModuleWithSource(name, resolvedPath, source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules[name] = resolvedPath
	r.sources[resolvedPath] = source
}

// SetSource records the source for an already-resolved path.
func (r *InMemoryResolver) SetSource(resolvedPath, source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[resolvedPath] = source
}

// GetSource returns the source recorded for a resolved path.
func (r *InMemoryResolver) GetSource(resolvedPath string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sources[resolvedPath]
	return s, ok
}

// Resolve tries an exact map match first. A relative specifier is then
// joined against the importer's parent directory: the map's entry for the
// joined path is returned if there is one, and the joined path itself
// otherwise. Any other specifier fails.
func (r *InMemoryResolver) Resolve(specifier, importerPath string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if resolved, ok := r.modules[specifier]; ok {
		return resolved, nil
	}

	if strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") {
		parent := path.Dir(importerPath)
		if parent == "" || parent == "." && importerPath == "" {
			return "", &ErrResolutionFailed{Base: importerPath, Specifier: specifier}
		}
		resolvedPath := path.Join(parent, specifier)
		if mapped, ok := r.modules[resolvedPath]; ok {
			return mapped, nil
		}
		return resolvedPath, nil
	}

	return "", &ErrResolutionFailed{Base: importerPath, Specifier: specifier}
}

// InMemoryLoader loads module bytes by resolved path, falling back to a
// "./"-stripped lookup the way the Rust loader does.
type InMemoryLoader struct {
	resolver *InMemoryResolver
}

func NewInMemoryLoader(r *InMemoryResolver) *InMemoryLoader {
	return &InMemoryLoader{resolver: r}
}

func (l *InMemoryLoader) Load(resolvedPath string) ([]byte, error) {
	if src, ok := l.resolver.GetSource(resolvedPath); ok {
		return []byte(src), nil
	}
	if src, ok := l.resolver.GetSource(strings.TrimPrefix(resolvedPath, "./")); ok {
		return []byte(src), nil
	}
	return nil, &ErrInvalidPath{Path: resolvedPath}
}
