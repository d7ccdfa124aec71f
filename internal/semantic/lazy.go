package semantic

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// Factory builds the concrete provider for a language tag, given the
// scope mode and the filesystem handle to read through. Returning
// (nil, nil) means the tag is unsupported; the lazy façade falls back to a
// noop response in that case rather than erroring — unsupported extensions
// return empty results.
type Factory func(tag string, mode Mode, fs FS) (Provider, error)

// extToTag derives a language tag from a file extension, matching the
// supported-tag families of the language-handle registry.
var extToTag = map[string]string{
	".js": "javascript", ".jsx": "javascript", ".mjs": "javascript", ".cjs": "javascript",
	".ts": "typescript", ".tsx": "typescript",
	".py": "python",
}

// LazyFacade holds a one-shot initializer and scope configuration; on first
// semantic call it detects the language from the file's extension and
// creates the appropriate provider, memoizing per-tag.
type LazyFacade struct {
	mode    Mode
	fs      FS
	factory Factory

	mu        sync.Mutex
	providers map[string]Provider
	noop      *NoopProvider
}

// NewLazyFacade builds a façade that creates providers on demand via
// factory.
func NewLazyFacade(mode Mode, fs FS, factory Factory) *LazyFacade {
	return &LazyFacade{
		mode:      mode,
		fs:        fs,
		factory:   factory,
		providers: make(map[string]Provider),
		noop:      NewNoopProvider(),
	}
}

func (l *LazyFacade) tagFor(filePath string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(filePath))
	tag, ok := extToTag[ext]
	return tag, ok
}

// providerFor memoizes provider construction per language tag.
func (l *LazyFacade) providerFor(filePath string) (Provider, error) {
	tag, ok := l.tagFor(filePath)
	if !ok {
		return l.noop, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if p, ok := l.providers[tag]; ok {
		return p, nil
	}
	p, err := l.factory(tag, l.mode, l.fs)
	if err != nil {
		return nil, fmt.Errorf("semantic: building provider for %q: %w", tag, err)
	}
	if p == nil {
		p = l.noop
	}
	l.providers[tag] = p
	return p, nil
}

func (l *LazyFacade) GetDefinition(filePath string, r ByteRange, opts GetDefinitionOptions) (*DefinitionResult, error) {
	p, err := l.providerFor(filePath)
	if err != nil {
		return nil, err
	}
	return p.GetDefinition(filePath, r, opts)
}

func (l *LazyFacade) FindReferences(filePath string, r ByteRange) (ReferencesResult, error) {
	p, err := l.providerFor(filePath)
	if err != nil {
		return ReferencesResult{}, err
	}
	return p.FindReferences(filePath, r)
}

func (l *LazyFacade) GetType(filePath string, r ByteRange) (*string, error) {
	p, err := l.providerFor(filePath)
	if err != nil {
		return nil, err
	}
	return p.GetType(filePath, r)
}

func (l *LazyFacade) NotifyFileProcessed(filePath, content string) error {
	p, err := l.providerFor(filePath)
	if err != nil {
		return err
	}
	return p.NotifyFileProcessed(filePath, content)
}

func (l *LazyFacade) SupportsLanguage(tag string) bool {
	for _, t := range extToTag {
		if t == tag {
			return true
		}
	}
	return false
}

func (l *LazyFacade) Mode() Mode { return l.mode }
