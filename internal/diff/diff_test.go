package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codemod-rs/codemod-go/internal/config"
)

func TestComputeDiffDetectsNewAndDeletedFiles(t *testing.T) {
	e := NewEngine()

	created := e.ComputeDiff("new.js", "new.js", "", "console.log(1);")
	require.True(t, created.IsNew)
	require.False(t, created.IsDelete)

	removed := e.ComputeDiff("old.js", "old.js", "console.log(1);", "")
	require.True(t, removed.IsDelete)
	require.False(t, removed.IsNew)
}

func TestComputeDiffProducesHunksWithLineChanges(t *testing.T) {
	e := NewEngine()
	old := "a\nb\nc\n"
	newC := "a\nB\nc\n"

	fd := e.ComputeDiff("f.txt", "f.txt", old, newC)
	require.NotEmpty(t, fd.Hunks)

	var added, removed int
	for _, h := range fd.Hunks {
		for _, l := range h.Lines {
			switch l.Type {
			case LineAdded:
				added++
			case LineRemoved:
				removed++
			}
		}
	}
	require.Equal(t, 1, added)
	require.Equal(t, 1, removed)
}

func TestComputeDiffCachesIdenticalPairs(t *testing.T) {
	e := NewEngine()
	first := e.ComputeDiff("a.txt", "a.txt", "x\n", "y\n")
	second := e.ComputeDiff("b.txt", "b.txt", "x\n", "y\n")

	require.Equal(t, first.Hunks, second.Hunks)
	require.Equal(t, "b.txt", second.OldPath)
}

func TestRenderProducesUnifiedDiffFormat(t *testing.T) {
	cfg := config.DefaultDiffConfig()
	cfg.NoColor = true

	res := Render(cfg, "hi.js", `console.log("hi");`, `logger.log("hi");`)

	require.Contains(t, res.Text, "File: hi.js")
	require.Contains(t, res.Text, "--- [before] hi.js")
	require.Contains(t, res.Text, "+++ [after]  hi.js")
	require.True(t, strings.Contains(res.Text, "additions"))
	require.Equal(t, 1, res.Additions)
	require.Equal(t, 1, res.Deletions)
}

func TestRenderTruncatesAtMaxLines(t *testing.T) {
	cfg := config.DiffConfig{ContextLines: 3, NoColor: true, MaxLinesPerFile: 2}
	old := "a\nb\nc\nd\ne"
	newC := "a\nB\nc\nD\ne"

	res := Render(cfg, "f.txt", old, newC)
	require.Contains(t, res.Text, "truncated")
}

func TestRenderHonorsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	cfg := config.DefaultDiffConfig()

	res := Render(cfg, "f.txt", "a\n", "b\n")
	require.NotContains(t, res.Text, "\x1b[")
}

func TestRenderNoChangesReportsZeroCounts(t *testing.T) {
	cfg := config.DefaultDiffConfig()
	cfg.NoColor = true

	res := Render(cfg, "f.txt", "same\n", "same\n")
	require.Equal(t, 0, res.Additions)
	require.Equal(t, 0, res.Deletions)
	require.Contains(t, res.Text, "+0 additions, -0 deletions")
}
