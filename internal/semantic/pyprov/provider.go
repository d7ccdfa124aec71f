// Package pyprov is the Python semantic analyzer. A Salsa-based incremental
// Python-semantic database has no equivalent in this module's dependency
// set, so this analyzer builds the same per-file symbol table shape
// directly over the tree-sitter Python grammar already wired in
// internal/langhandle, giving the same contract (FileScope/WorkspaceScope,
// Local/External definition kinds) without incremental-recompute machinery.
package pyprov

import (
	"context"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codemod-rs/codemod-go/internal/langhandle"
	"github.com/codemod-rs/codemod-go/internal/semantic"
)

type symbolTable struct {
	FilePath   string
	Content    string
	Symbols    []semantic.SymbolLocation
	References []semantic.SymbolLocation
}

func buildSymbolTable(filePath, content string) (*symbolTable, error) {
	handle, err := langhandle.FromName("python")
	if err != nil {
		return nil, err
	}
	tree, err := handle.Parse(context.Background(), []byte(content))
	if err != nil {
		return nil, err
	}

	tbl := &symbolTable{FilePath: filePath, Content: content}
	src := []byte(content)
	declared := make(map[*sitter.Node]bool)

	record := func(n *sitter.Node, kind semantic.SymbolKind) {
		if n == nil {
			return
		}
		declared[n] = true
		tbl.Symbols = append(tbl.Symbols, semantic.SymbolLocation{
			FilePath: filePath,
			Range:    semantic.ByteRange{Start: n.StartByte(), End: n.EndByte()},
			Kind:     kind,
			Name:     n.Content(src),
		})
	}

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "function_definition":
			record(n.ChildByFieldName("name"), semantic.SymbolFunction)
		case "class_definition":
			record(n.ChildByFieldName("name"), semantic.SymbolClass)
		case "assignment":
			if left := n.ChildByFieldName("left"); left != nil && left.Type() == "identifier" {
				record(left, semantic.SymbolVariable)
			}
		case "parameters":
			for i := 0; i < int(n.ChildCount()); i++ {
				if c := n.Child(i); c.Type() == "identifier" {
					record(c, semantic.SymbolParameter)
				}
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.RootNode())

	var walkRefs func(n *sitter.Node)
	walkRefs = func(n *sitter.Node) {
		if n.Type() == "identifier" && !declared[n] {
			tbl.References = append(tbl.References, semantic.SymbolLocation{
				FilePath: filePath,
				Range:    semantic.ByteRange{Start: n.StartByte(), End: n.EndByte()},
				Kind:     semantic.SymbolUnknown,
				Name:     n.Content(src),
			})
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walkRefs(n.Child(i))
		}
	}
	walkRefs(tree.RootNode())

	return tbl, nil
}

// Provider is the Python FileScope/WorkspaceScope analyzer shell. A
// definition found in the queried file is reported as Local and one found
// in another cached file (searched only when ResolveExternal is set) as
// External, named by the source text at the
// symbol's range; references are grouped per file.
type Provider struct {
	mode semantic.Mode
	fs   semantic.FS

	mu    sync.RWMutex
	cache map[string]*symbolTable
}

func NewFileScopeProvider(fs semantic.FS) *Provider {
	return &Provider{mode: semantic.FileScope, fs: fs, cache: make(map[string]*symbolTable)}
}

func NewWorkspaceScopeProvider(fs semantic.FS) *Provider {
	return &Provider{mode: semantic.WorkspaceScope, fs: fs, cache: make(map[string]*symbolTable)}
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
		return nil, fmt.Errorf("pyprov: reading %s: %w", filePath, err)
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

func tightest(tbl *symbolTable, r semantic.ByteRange) (semantic.SymbolLocation, bool) {
	var best *semantic.SymbolLocation
	consider := func(s semantic.SymbolLocation) {
		if !s.Range.Overlaps(r) {
			return
		}
		if best == nil || (s.Range.End-s.Range.Start) < (best.Range.End-best.Range.Start) {
			sc := s
			best = &sc
		}
	}
	for _, s := range tbl.Symbols {
		consider(s)
	}
	for _, s := range tbl.References {
		consider(s)
	}
	if best == nil {
		return semantic.SymbolLocation{}, false
	}
	return *best, true
}

func (p *Provider) GetDefinition(filePath string, r semantic.ByteRange, opts semantic.GetDefinitionOptions) (*semantic.DefinitionResult, error) {
	tbl, err := p.ensureCached(filePath)
	if err != nil {
		return nil, err
	}
	hit, ok := tightest(tbl, r)
	if !ok {
		return nil, nil
	}

	for _, s := range tbl.Symbols {
		if s.Name == hit.Name {
			kind := semantic.DefinitionLocal
			if s.FilePath != filePath {
				kind = semantic.DefinitionExternal
			}
			return &semantic.DefinitionResult{Location: s, Content: tbl.Content, DefinitionKind: kind}, nil
		}
	}

	if !opts.ResolveExternal {
		return nil, nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	for path, other := range p.cache {
		if path == filePath {
			continue
		}
		for _, s := range other.Symbols {
			if s.Name == hit.Name {
				return &semantic.DefinitionResult{Location: s, Content: other.Content, DefinitionKind: semantic.DefinitionExternal}, nil
			}
		}
	}
	return nil, nil
}

func (p *Provider) FindReferences(filePath string, r semantic.ByteRange) (semantic.ReferencesResult, error) {
	tbl, err := p.ensureCached(filePath)
	if err != nil {
		return semantic.ReferencesResult{}, err
	}
	hit, ok := tightest(tbl, r)
	if !ok {
		return semantic.ReferencesResult{}, nil
	}

	var result semantic.ReferencesResult
	p.mu.RLock()
	defer p.mu.RUnlock()
	for path, other := range p.cache {
		var hits []semantic.SymbolLocation
		for _, ref := range other.References {
			if ref.Name == hit.Name {
				hits = append(hits, ref)
			}
		}
		if len(hits) > 0 {
			result.Files = append(result.Files, semantic.FileReferences{FilePath: path, Content: other.Content, Locations: hits})
		}
	}
	return result, nil
}

func (p *Provider) GetType(string, semantic.ByteRange) (*string, error) { return nil, nil }

func (p *Provider) NotifyFileProcessed(filePath, content string) error {
	_, err := p.index(filePath, content)
	return err
}

func (p *Provider) SupportsLanguage(tag string) bool {
	return tag == "python" || tag == "py"
}

func (p *Provider) Mode() semantic.Mode { return p.mode }

func (p *Provider) CachedFileCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.cache)
}

func (p *Provider) ClearCache() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache = make(map[string]*symbolTable)
}
