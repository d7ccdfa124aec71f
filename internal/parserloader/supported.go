package parserloader

import "strings"

// SupportedLanguage describes one dynamically-loadable grammar, grounded on
// original_source/crates/ast-grep-dynamic-lang/src/supported_langs.rs.
type SupportedLanguage struct {
	Name        string
	Aliases     []string
	Extensions  []string
	MetaVarChar byte
	ExpandoChar byte
}

// NormalizedSymbolName returns the entry symbol the shared library must
// export: tree_sitter_<name> with hyphens replaced by underscores.
func (s SupportedLanguage) NormalizedSymbolName() string {
	return "tree_sitter_" + strings.ReplaceAll(s.Name, "-", "_")
}

// Registry is the table of languages this build knows how to fetch
// dynamically. Additional entries can be appended by callers before the
// first Load call.
var Registry = []SupportedLanguage{
	{Name: "c-sharp", Aliases: []string{"csharp", "cs"}, Extensions: []string{".cs"}, MetaVarChar: '$', ExpandoChar: '_'},
	{Name: "java", Extensions: []string{".java"}, MetaVarChar: '$', ExpandoChar: '_'},
	{Name: "kotlin", Aliases: []string{"kt"}, Extensions: []string{".kt", ".kts"}, MetaVarChar: '$', ExpandoChar: '_'},
	{Name: "ruby", Aliases: []string{"rb"}, Extensions: []string{".rb"}, MetaVarChar: '$', ExpandoChar: '_'},
	{Name: "php", Extensions: []string{".php"}, MetaVarChar: '$', ExpandoChar: '_'},
	{Name: "scala", Extensions: []string{".scala"}, MetaVarChar: '$', ExpandoChar: '_'},
	{Name: "swift", Extensions: []string{".swift"}, MetaVarChar: '$', ExpandoChar: '_'},
	{Name: "css", Extensions: []string{".css"}, MetaVarChar: '$', ExpandoChar: '_'},
	{Name: "html", Extensions: []string{".html", ".htm"}, MetaVarChar: '$', ExpandoChar: '_'},
	{Name: "yaml", Extensions: []string{".yaml", ".yml"}, MetaVarChar: '$', ExpandoChar: '_'},
	{Name: "json", Extensions: []string{".json"}, MetaVarChar: '$', ExpandoChar: '_'},
	{Name: "less", Extensions: []string{".less"}, MetaVarChar: '$', ExpandoChar: '_'},
}

// Find resolves a name or alias to its SupportedLanguage entry.
func Find(name string) (SupportedLanguage, bool) {
	name = strings.ToLower(name)
	for _, l := range Registry {
		if l.Name == name {
			return l, true
		}
		for _, a := range l.Aliases {
			if a == name {
				return l, true
			}
		}
	}
	return SupportedLanguage{}, false
}
