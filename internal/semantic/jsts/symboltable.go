// Package jsts is the JavaScript/TypeScript semantic analyzer: a FileScope
// and a WorkspaceScope provider sharing one symbol-table builder over the
// tree-sitter grammars already wired in internal/langhandle.
package jsts

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codemod-rs/codemod-go/internal/langhandle"
	"github.com/codemod-rs/codemod-go/internal/semantic"
)

// importBinding records one name bound by an import statement: resolve the
// module specifier and look up the named export.
type importBinding struct {
	LocalName    string
	OriginalName string
	Source       string
	Range        semantic.ByteRange
}

// symbolTable is the per-file index built on notify_file_processed: it
// stores symbols, imports, references and the content hash. Exports are not
// recorded as a separate list.
type symbolTable struct {
	FilePath    string
	Content     string
	ContentHash string
	Symbols     []semantic.SymbolLocation
	References  []semantic.SymbolLocation
	Imports     []importBinding
}

func contentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// languageFor derives the tree-sitter handle to parse path with from its
// extension, via langhandle.FromPath; it fails for an unregistered
// extension.
func languageFor(path string) (langhandle.Handle, error) {
	return langhandle.FromPath(path)
}

// buildSymbolTable parses content and extracts declarations, references,
// and imports via a single DFS pass.
func buildSymbolTable(filePath, content string) (*symbolTable, error) {
	handle, err := languageFor(filePath)
	if err != nil {
		// Fall back to the javascript grammar for unrecognized extensions
		// (e.g. a virtual path with no extension) rather than failing the
		// whole notify call.
		handle, err = langhandle.FromName("javascript")
		if err != nil {
			return nil, err
		}
	}

	tree, err := handle.Parse(context.Background(), []byte(content))
	if err != nil {
		return nil, err
	}

	tbl := &symbolTable{FilePath: filePath, Content: content, ContentHash: contentHash(content)}
	src := []byte(content)

	var walk func(n *sitter.Node)
	declared := make(map[*sitter.Node]bool)

	recordSymbol := func(nameNode *sitter.Node, kind semantic.SymbolKind) {
		if nameNode == nil {
			return
		}
		declared[nameNode] = true
		tbl.Symbols = append(tbl.Symbols, semantic.SymbolLocation{
			FilePath: filePath,
			Range:    semantic.ByteRange{Start: nameNode.StartByte(), End: nameNode.EndByte()},
			Kind:     kind,
			Name:     nameNode.Content(src),
		})
	}

	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "function_declaration", "function":
			recordSymbol(n.ChildByFieldName("name"), semantic.SymbolFunction)
		case "class_declaration", "class":
			recordSymbol(n.ChildByFieldName("name"), semantic.SymbolClass)
		case "interface_declaration":
			recordSymbol(n.ChildByFieldName("name"), semantic.SymbolInterface)
		case "type_alias_declaration":
			recordSymbol(n.ChildByFieldName("name"), semantic.SymbolType)
		case "enum_declaration":
			recordSymbol(n.ChildByFieldName("name"), semantic.SymbolEnum)
		case "variable_declarator":
			recordSymbol(n.ChildByFieldName("name"), semantic.SymbolVariable)
		case "method_definition":
			recordSymbol(n.ChildByFieldName("name"), semantic.SymbolMethod)
		case "import_statement":
			recordImport(tbl, n, src)
		}

		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.RootNode())

	// Second pass: every identifier not itself a declaration site is a
	// candidate reference.
	var walkRefs func(n *sitter.Node)
	walkRefs = func(n *sitter.Node) {
		if (n.Type() == "identifier" || n.Type() == "type_identifier" || n.Type() == "property_identifier") && !declared[n] {
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

func recordImport(tbl *symbolTable, n *sitter.Node, src []byte) {
	var source string
	if src2 := n.ChildByFieldName("source"); src2 != nil {
		source = trimQuotes(src2.Content(src))
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "import_clause":
			for j := 0; j < int(c.ChildCount()); j++ {
				collectImportNames(c.Child(j), src, source, tbl)
			}
		case "identifier":
			tbl.Imports = append(tbl.Imports, importBinding{
				LocalName: c.Content(src), OriginalName: "default", Source: source,
				Range: semantic.ByteRange{Start: c.StartByte(), End: c.EndByte()},
			})
		}
	}
}

func collectImportNames(n *sitter.Node, src []byte, source string, tbl *symbolTable) {
	switch n.Type() {
	case "identifier":
		tbl.Imports = append(tbl.Imports, importBinding{
			LocalName: n.Content(src), OriginalName: "default", Source: source,
			Range: semantic.ByteRange{Start: n.StartByte(), End: n.EndByte()},
		})
	case "namespace_import":
		if id := lastIdentifierChild(n); id != nil {
			tbl.Imports = append(tbl.Imports, importBinding{
				LocalName: id.Content(src), OriginalName: "*", Source: source,
				Range: semantic.ByteRange{Start: id.StartByte(), End: id.EndByte()},
			})
		}
	case "named_imports":
		for i := 0; i < int(n.ChildCount()); i++ {
			spec := n.Child(i)
			if spec.Type() != "import_specifier" {
				continue
			}
			name := spec.ChildByFieldName("name")
			alias := spec.ChildByFieldName("alias")
			local, orig := name, name
			if alias != nil {
				local = alias
			}
			if local == nil || orig == nil {
				continue
			}
			tbl.Imports = append(tbl.Imports, importBinding{
				LocalName: local.Content(src), OriginalName: orig.Content(src), Source: source,
				Range: semantic.ByteRange{Start: local.StartByte(), End: local.EndByte()},
			})
		}
	}
}

func lastIdentifierChild(n *sitter.Node) *sitter.Node {
	var last *sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.Type() == "identifier" {
			last = c
		}
	}
	return last
}

func trimQuotes(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'' || s[0] == '`') {
		return s[1 : len(s)-1]
	}
	return s
}
