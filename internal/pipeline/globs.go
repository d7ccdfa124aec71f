package pipeline

import (
	"github.com/bmatcuk/doublestar/v4"

	"github.com/codemod-rs/codemod-go/internal/config"
)

// languageExtensions maps a language tag to the registered extensions used to
// synthesize an include glob when the caller gave languages but no explicit
// include patterns. Kept in sync with internal/langhandle's static table and
// internal/parserloader's supported registry by name, not by import, to
// avoid a dependency from pipeline onto every language backend.
var languageExtensions = map[string][]string{
	"go":         {".go"},
	"javascript": {".js", ".jsx", ".mjs", ".cjs"},
	"js":         {".js", ".jsx", ".mjs", ".cjs"},
	"typescript": {".ts"},
	"ts":         {".ts"},
	"tsx":        {".tsx"},
	"python":     {".py"},
	"py":         {".py"},
	"rust":       {".rs"},
	"c-sharp":    {".cs"},
	"java":       {".java"},
	"kotlin":     {".kt", ".kts"},
	"ruby":       {".rb"},
	"php":        {".php"},
	"scala":      {".scala"},
	"swift":      {".swift"},
	"css":        {".css"},
	"html":       {".html", ".htm"},
	"yaml":       {".yaml", ".yml"},
	"json":       {".json"},
	"less":       {".less"},
}

// globSet is the compiled include/exclude pattern set. A globSet with
// Disabled set means globbing is off entirely: every regular file passes.
type globSet struct {
	Include  []string
	Exclude  []string
	Disabled bool
}

// buildGlobSet synthesizes `**/*<ext>` per extension of each requested
// language when no explicit include globs were given, appends the user's
// include globs, and carries the user's exclude globs as negative patterns.
// If nothing accumulated at all, globbing is disabled and every file is a
// candidate.
func buildGlobSet(cfg config.ExecutionConfig) globSet {
	var include []string
	include = append(include, cfg.IncludeGlobs...)

	if len(cfg.IncludeGlobs) == 0 {
		for _, lang := range cfg.Languages {
			for _, ext := range languageExtensions[lang] {
				include = append(include, "**/*"+ext)
			}
		}
	}

	if len(include) == 0 && len(cfg.ExcludeGlobs) == 0 {
		return globSet{Disabled: true}
	}
	return globSet{Include: include, Exclude: cfg.ExcludeGlobs}
}

// matches reports whether relPath (slash-separated, relative to the search
// base) should be visited: it must match at least one include pattern (or
// no include patterns were given) and no exclude pattern.
func (g globSet) matches(relPath string) bool {
	if g.Disabled {
		return true
	}
	if len(g.Include) > 0 {
		ok := false
		for _, pat := range g.Include {
			if m, _ := doublestar.Match(pat, relPath); m {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	for _, pat := range g.Exclude {
		if m, _ := doublestar.Match(pat, relPath); m {
			return false
		}
	}
	return true
}
