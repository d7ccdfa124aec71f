package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// gitIgnoreChain applies nested .gitignore files the way git does: every
// directory between the search root and a candidate path may contribute its
// own .gitignore, evaluated relative to that directory, with deeper
// directories' rules taking precedence over shallower ones (
// step 4: "git-ignore+git-global+git-exclude on"). The chain also honors a
// single repo-wide core.excludesFile equivalent (.git/info/exclude) and the
// user's global excludes file, loaded once per walk.
type gitIgnoreChain struct {
	root    string
	perDir  map[string]*ignore.GitIgnore
	global  *ignore.GitIgnore
	exclude *ignore.GitIgnore
}

func newGitIgnoreChain(root string) *gitIgnoreChain {
	c := &gitIgnoreChain{root: root, perDir: make(map[string]*ignore.GitIgnore)}

	if home, err := os.UserHomeDir(); err == nil {
		if gi, err := ignore.CompileIgnoreFile(filepath.Join(home, ".config", "git", "ignore")); err == nil {
			c.global = gi
		}
	}
	if gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".git", "info", "exclude")); err == nil {
		c.exclude = gi
	}
	return c
}

func (c *gitIgnoreChain) ignoreFileFor(dir string) *ignore.GitIgnore {
	if gi, ok := c.perDir[dir]; ok {
		return gi
	}
	gi, err := ignore.CompileIgnoreFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		gi = nil
	}
	c.perDir[dir] = gi
	return gi
}

// Ignored reports whether path (absolute, under root) is excluded by any
// applicable .gitignore, the global excludes file, or .git/info/exclude.
func (c *gitIgnoreChain) Ignored(path string) bool {
	if c.global != nil {
		if rel, err := filepath.Rel(c.root, path); err == nil {
			if c.global.MatchesPath(filepath.ToSlash(rel)) {
				return true
			}
		}
	}
	if c.exclude != nil {
		if rel, err := filepath.Rel(c.root, path); err == nil {
			if c.exclude.MatchesPath(filepath.ToSlash(rel)) {
				return true
			}
		}
	}

	dir := filepath.Dir(path)
	for {
		if gi := c.ignoreFileFor(dir); gi != nil {
			if rel, err := filepath.Rel(dir, path); err == nil {
				if gi.MatchesPath(filepath.ToSlash(rel)) {
					return true
				}
			}
		}
		if dir == c.root || dir == "." || dir == string(filepath.Separator) {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return false
}

// isHiddenEntry reports whether name begins with ".": dotfiles and
// dot-directories are skipped by default.
func isHiddenEntry(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
