package jsts

import (
	"fmt"
	"sync"

	"github.com/codemod-rs/codemod-go/internal/semantic"
)

// extensionFallbacks is the module-resolution order: `("", ".ts", ".tsx",
// ".js", ".jsx", "/index.ts", "/index.tsx", "/index.js")`.
var extensionFallbacks = []string{"", ".ts", ".tsx", ".js", ".jsx", "/index.ts", "/index.tsx", "/index.js"}

// Provider is the shared JS/TS semantic provider shell. mode is reported by
// Mode(); indexing is the same in both modes: files are cached as they are
// queried or notified, and EnsureIndexed indexes a caller-given path list.
type Provider struct {
	mode semantic.Mode
	fs   semantic.FS
	root string // workspace root, stored for WorkspaceScope; not read by indexing

	mu        sync.RWMutex
	cache     map[string]*symbolTable
	indexedAll bool
}

// NewFileScopeProvider builds the lightweight, incremental-cache analyzer.
func NewFileScopeProvider(fs semantic.FS) *Provider {
	return &Provider{mode: semantic.FileScope, fs: fs, cache: make(map[string]*symbolTable)}
}

// NewWorkspaceScopeProvider builds the accurate, lazily-workspace-indexing
// analyzer. root is stored on the provider; the files to index are passed
// to EnsureIndexed by the caller.
func NewWorkspaceScopeProvider(fs semantic.FS, root string) *Provider {
	return &Provider{mode: semantic.WorkspaceScope, fs: fs, root: root, cache: make(map[string]*symbolTable)}
}

// EnsureIndexed indexes every path in paths that is not already cached
// under that path. Only its first call does any work; later calls return
// immediately. Unreadable or unparsable files are skipped.
func (p *Provider) EnsureIndexed(paths []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.indexedAll {
		return nil
	}
	for _, path := range paths {
		if _, ok := p.cache[path]; ok {
			continue
		}
		content, err := p.fs.ReadFile(path)
		if err != nil {
			continue
		}
		tbl, err := buildSymbolTable(path, content)
		if err != nil {
			continue
		}
		p.cache[path] = tbl
	}
	p.indexedAll = true
	return nil
}

func (p *Provider) ensureCached(filePath string) (*symbolTable, error) {
	p.mu.RLock()
	tbl, ok := p.cache[filePath]
	p.mu.RUnlock()
	if ok {
		return tbl, nil
	}

	content, err := p.fs.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("jsts: reading %s: %w", filePath, err)
	}
	return p.index(filePath, content)
}

func (p *Provider) index(filePath, content string) (*symbolTable, error) {
	tbl, err := buildSymbolTable(filePath, content)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.cache[filePath] = tbl
	p.mu.Unlock()
	return tbl, nil
}

// tightestSymbol returns the declaration or reference whose range most
// tightly contains r, preferring declarations.
func tightestSymbol(tbl *symbolTable, r semantic.ByteRange) (semantic.SymbolLocation, bool, bool) {
	var best *semantic.SymbolLocation
	bestIsDecl := false
	consider := func(s semantic.SymbolLocation, isDecl bool) {
		if !s.Range.Overlaps(r) && !r.IsWithin(s.Range) && !s.Range.IsWithin(r) {
			return
		}
		if best == nil || (s.Range.End-s.Range.Start) < (best.Range.End-best.Range.Start) {
			sc := s
			best = &sc
			bestIsDecl = isDecl
		}
	}
	for _, s := range tbl.Symbols {
		consider(s, true)
	}
	for _, s := range tbl.References {
		consider(s, false)
	}
	if best == nil {
		return semantic.SymbolLocation{}, false, false
	}
	return *best, bestIsDecl, true
}

func (p *Provider) GetDefinition(filePath string, r semantic.ByteRange, opts semantic.GetDefinitionOptions) (*semantic.DefinitionResult, error) {
	tbl, err := p.ensureCached(filePath)
	if err != nil {
		return nil, err
	}

	hit, isDecl, ok := tightestSymbol(tbl, r)
	if !ok {
		return nil, nil
	}
	if isDecl {
		return &semantic.DefinitionResult{Location: hit, Content: tbl.Content, DefinitionKind: semantic.DefinitionLocal}, nil
	}

	// It's a reference: resolve within the same file first.
	for _, s := range tbl.Symbols {
		if s.Name == hit.Name {
			return &semantic.DefinitionResult{Location: s, Content: tbl.Content, DefinitionKind: semantic.DefinitionLocal}, nil
		}
	}

	// Maybe it's the local name of an import.
	for _, imp := range tbl.Imports {
		if imp.LocalName != hit.Name {
			continue
		}
		if !opts.ResolveExternal {
			return &semantic.DefinitionResult{
				Location: semantic.SymbolLocation{FilePath: filePath, Range: imp.Range, Kind: semantic.SymbolImport, Name: imp.LocalName},
				Content:  tbl.Content, DefinitionKind: semantic.DefinitionImport,
			}, nil
		}
		return p.resolveImport(tbl, imp)
	}

	return nil, nil
}

// resolveImport tries the module specifier against already-cached files
// using the extension fallback order; falls back to returning the import
// statement itself when the module isn't cached.
func (p *Provider) resolveImport(tbl *symbolTable, imp importBinding) (*semantic.DefinitionResult, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, suffix := range extensionFallbacks {
		candidate := imp.Source + suffix
		target, ok := p.cache[candidate]
		if !ok {
			continue
		}
		for _, s := range target.Symbols {
			if s.Name == imp.OriginalName {
				return &semantic.DefinitionResult{Location: s, Content: target.Content, DefinitionKind: semantic.DefinitionExternal}, nil
			}
		}
		// Module found but the named export wasn't; still External.
		return &semantic.DefinitionResult{
			Location: semantic.SymbolLocation{FilePath: candidate, Range: semantic.ByteRange{}, Kind: semantic.SymbolImport, Name: imp.OriginalName},
			Content:  target.Content, DefinitionKind: semantic.DefinitionExternal,
		}, nil
	}

	return &semantic.DefinitionResult{
		Location: semantic.SymbolLocation{FilePath: tbl.FilePath, Range: imp.Range, Kind: semantic.SymbolImport, Name: imp.LocalName},
		Content:  tbl.Content, DefinitionKind: semantic.DefinitionImport,
	}, nil
}

func (p *Provider) FindReferences(filePath string, r semantic.ByteRange) (semantic.ReferencesResult, error) {
	tbl, err := p.ensureCached(filePath)
	if err != nil {
		return semantic.ReferencesResult{}, err
	}
	hit, _, ok := tightestSymbol(tbl, r)
	if !ok {
		return semantic.ReferencesResult{}, nil
	}

	var result semantic.ReferencesResult
	var own []semantic.SymbolLocation
	for _, ref := range tbl.References {
		if ref.Name == hit.Name {
			own = append(own, ref)
		}
	}
	if len(own) > 0 {
		result.Files = append(result.Files, semantic.FileReferences{FilePath: filePath, Content: tbl.Content, Locations: own})
	}

	p.mu.RLock()
	for path, other := range p.cache {
		if path == filePath {
			continue
		}
		var hits []semantic.SymbolLocation
		for _, imp := range other.Imports {
			if imp.LocalName == hit.Name || imp.OriginalName == hit.Name {
				hits = append(hits, semantic.SymbolLocation{FilePath: path, Range: imp.Range, Kind: semantic.SymbolImport, Name: imp.LocalName})
			}
		}
		if len(hits) > 0 {
			result.Files = append(result.Files, semantic.FileReferences{FilePath: path, Content: other.Content, Locations: hits})
		}
	}
	p.mu.RUnlock()

	return result, nil
}

func (p *Provider) GetType(string, semantic.ByteRange) (*string, error) {
	// Type inference needs a real type checker; not attempted here.
	return nil, nil
}

func (p *Provider) NotifyFileProcessed(filePath, content string) error {
	_, err := p.index(filePath, content)
	return err
}

func (p *Provider) SupportsLanguage(tag string) bool {
	switch tag {
	case "javascript", "typescript", "js", "ts", "jsx", "tsx", "mjs", "cjs":
		return true
	default:
		return false
	}
}

func (p *Provider) Mode() semantic.Mode { return p.mode }

// CachedFileCount reports how many files have been indexed, for tests.
func (p *Provider) CachedFileCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.cache)
}

// ClearCache drops every cached symbol table.
func (p *Provider) ClearCache() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache = make(map[string]*symbolTable)
	p.indexedAll = false
}
