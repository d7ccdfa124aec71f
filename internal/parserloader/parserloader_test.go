package parserloader

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOSTriple(t *testing.T) {
	got, err := osTriple("darwin")
	require.NoError(t, err)
	require.Equal(t, "darwin", got)

	got, err = osTriple("windows")
	require.NoError(t, err)
	require.Equal(t, "win32", got)

	_, err = osTriple("plan9")
	require.Error(t, err)
}

func TestLibExt(t *testing.T) {
	require.Equal(t, "dylib", libExt("darwin"))
	require.Equal(t, "so", libExt("linux"))
	require.Equal(t, "dll", libExt("windows"))
	require.Equal(t, "so", libExt("freebsd"))
}

func TestNormalizedSymbolName(t *testing.T) {
	sl := SupportedLanguage{Name: "c-sharp"}
	require.Equal(t, "tree_sitter_c_sharp", sl.NormalizedSymbolName())
}

func TestURLFormat(t *testing.T) {
	t.Setenv("TREE_SITTER_BASE_URL", "https://example.test")
	got := URL("ruby", "linux", "x64", "so")
	require.Equal(t, "https://example.test/tree-sitter/parsers/tree-sitter-ruby/latest/linux-x64.so", got)
}

func TestFindResolvesAlias(t *testing.T) {
	sl, ok := Find("cs")
	require.True(t, ok)
	require.Equal(t, "c-sharp", sl.Name)
}
