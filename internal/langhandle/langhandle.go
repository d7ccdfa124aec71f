// Package langhandle presents a single interface over tree-sitter grammars
// compiled into the binary ("static") and grammars loaded at runtime from a
// shared library ("dynamic").
package langhandle

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/codemod-rs/codemod-go/internal/logging"
)

// Kind discriminates the two Handle variants. Equality and hashing of a
// Handle must consider both Kind and Name so a built-in and a dynamic
// parser sharing a name never collide.
type Kind int

const (
	KindStatic Kind = iota
	KindDynamic
)

// Handle is the tagged {Static|Dynamic} language value.
type Handle struct {
	kind Kind
	name string
	lang *sitter.Language
	// metaVarChar / expandoChar / extensions are only meaningful for
	// dynamic handles; static grammars use the built-in fixed conventions.
	metaVarChar byte
	expandoChar byte
	extensions  []string
}

func (h Handle) Kind() Kind    { return h.kind }
func (h Handle) Name() string  { return h.name }
func (h Handle) String() string { return h.name }

// Equal implements tag-discriminated equality.
func (h Handle) Equal(o Handle) bool {
	return h.kind == o.kind && h.name == o.name
}

// TSLanguage returns the underlying *sitter.Language for parsing.
func (h Handle) TSLanguage() *sitter.Language { return h.lang }

// MetaVarChar is the character introducing a meta-variable in patterns
// ('$' for every built-in grammar; configurable for dynamic grammars).
func (h Handle) MetaVarChar() byte {
	if h.kind == KindStatic {
		return '$'
	}
	return h.metaVarChar
}

// ExpandoChar is the character used for anonymous/expando meta-variables.
func (h Handle) ExpandoChar() byte {
	if h.kind == KindStatic {
		return '_'
	}
	return h.expandoChar
}

// staticLang is one entry in the built-in language table.
type staticLang struct {
	name       string
	extensions []string
	get        func() *sitter.Language
}

var staticTable = []staticLang{
	{"go", []string{".go"}, golang.GetLanguage},
	{"javascript", []string{".js", ".jsx", ".mjs", ".cjs"}, javascript.GetLanguage},
	{"typescript", []string{".ts"}, typescript.GetLanguage},
	{"tsx", []string{".tsx"}, tsxLanguage},
	{"python", []string{".py"}, python.GetLanguage},
	{"rust", []string{".rs"}, rust.GetLanguage},
}

func tsxLanguage() *sitter.Language { return typescript.GetLanguage() }

var (
	staticByName = func() map[string]staticLang {
		m := make(map[string]staticLang, len(staticTable))
		for _, l := range staticTable {
			m[l.name] = l
		}
		// common aliases
		m["js"] = m["javascript"]
		m["ts"] = m["typescript"]
		m["py"] = m["python"]
		m["golang"] = m["go"]
		return m
	}()

	dynamicMu   sync.RWMutex
	dynamicByName = make(map[string]Handle)

	// dynamicInit triggers dynamic-loader initialization once (idempotent,
	// memoized; initialization failure is recorded and returned on every
	// subsequent call).
	dynamicInitOnce sync.Once
	dynamicInitErr  error
	dynamicInitFunc func() error
)

// SetDynamicInitializer installs the callback used to lazily initialize the
// dynamic language set on first miss in FromName. internal/parserloader
// calls this during its own package init so langhandle never imports it
// directly (avoiding an import cycle between the two packages).
func SetDynamicInitializer(f func() error) {
	dynamicByNameMu().Lock()
	defer dynamicByNameMu().Unlock()
	dynamicInitFunc = f
}

func dynamicByNameMu() *sync.RWMutex { return &dynamicMu }

// RegisterDynamic adds a dynamically-loaded language to the dynamic set
// (called by internal/parserloader after it resolves a shared library).
func RegisterDynamic(h Handle) {
	h.kind = KindDynamic
	dynamicMu.Lock()
	dynamicByName[h.name] = h
	dynamicMu.Unlock()
}

// FromName resolves a language by name: static set first; on miss, trigger
// (once) dynamic-loader initialization, then consult the dynamic set.
func FromName(name string) (Handle, error) {
	name = strings.ToLower(name)
	if s, ok := staticByName[name]; ok {
		return Handle{kind: KindStatic, name: s.name, lang: s.get()}, nil
	}

	dynamicInitOnce.Do(func() {
		dynamicMu.RLock()
		f := dynamicInitFunc
		dynamicMu.RUnlock()
		if f != nil {
			dynamicInitErr = f()
		}
	})
	if dynamicInitErr != nil {
		return Handle{}, fmt.Errorf("langhandle: dynamic init failed: %w", dynamicInitErr)
	}

	dynamicMu.RLock()
	h, ok := dynamicByName[name]
	dynamicMu.RUnlock()
	if !ok {
		return Handle{}, fmt.Errorf("langhandle: unknown language %q", name)
	}
	return h, nil
}

// FromPath derives a language from a file's extension: static first, then
// dynamic.
func FromPath(path string) (Handle, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range staticTable {
		for _, e := range s.extensions {
			if e == ext {
				return Handle{kind: KindStatic, name: s.name, lang: s.get()}, nil
			}
		}
	}

	dynamicMu.RLock()
	defer dynamicMu.RUnlock()
	for _, h := range dynamicByName {
		for _, e := range h.extensions {
			if e == ext {
				return h, nil
			}
		}
	}
	return Handle{}, fmt.Errorf("langhandle: no language registered for extension %q", ext)
}

// NewDynamicHandle builds the Handle value internal/parserloader registers
// once it has resolved a *sitter.Language from a shared library.
func NewDynamicHandle(name string, lang *sitter.Language, metaVarChar, expandoChar byte, extensions []string) Handle {
	return Handle{
		kind:        KindDynamic,
		name:        name,
		lang:        lang,
		metaVarChar: metaVarChar,
		expandoChar: expandoChar,
		extensions:  extensions,
	}
}

// Parse parses source with this handle's language.
func (h Handle) Parse(ctx context.Context, source []byte) (*sitter.Tree, error) {
	if h.lang == nil {
		return nil, fmt.Errorf("langhandle: handle %q has no language bound", h.name)
	}
	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(h.lang)
	tree, err := p.ParseCtx(ctx, nil, source)
	if err != nil {
		logging.Get(logging.CategoryLangHandle).Debugw("parse failed", "lang", h.name, "err", err)
		return nil, fmt.Errorf("langhandle: parse %s: %w", h.name, err)
	}
	return tree, nil
}

var (
	kindIndexMu sync.Mutex
	kindIndex   = make(map[*sitter.Language]map[string]uint16)
	fieldIndex  = make(map[*sitter.Language]map[string]uint16)
)

// KindID translates a kind name to a numeric id for this handle's language,
// building (and caching) a reverse index over the language's symbol table on
// first use.
func (h Handle) KindID(kindName string) (uint16, bool) {
	kindIndexMu.Lock()
	defer kindIndexMu.Unlock()

	idx, ok := kindIndex[h.lang]
	if !ok {
		idx = make(map[string]uint16)
		count := h.lang.SymbolCount()
		for i := uint16(0); i < uint16(count); i++ {
			idx[h.lang.SymbolName(sitter.Symbol(i))] = i
		}
		kindIndex[h.lang] = idx
	}
	id, ok := idx[kindName]
	return id, ok
}

// FieldID translates a field name to a numeric id for this handle's
// language, same caching strategy as KindID.
func (h Handle) FieldID(fieldName string) (uint16, bool) {
	kindIndexMu.Lock()
	defer kindIndexMu.Unlock()

	idx, ok := fieldIndex[h.lang]
	if !ok {
		idx = make(map[string]uint16)
		count := h.lang.FieldCount()
		for i := uint16(1); i <= uint16(count); i++ {
			idx[h.lang.FieldName(i)] = i
		}
		fieldIndex[h.lang] = idx
	}
	id, ok := idx[fieldName]
	return id, ok
}

// BuildPattern is a pass-through hook: pattern compilation itself lives in
// internal/sandbox (it needs the matcher/rule-core machinery), but the
// language handle is the thing a pattern is compiled "against".
func (h Handle) BuildPattern(pattern string) string {
	return pattern
}
