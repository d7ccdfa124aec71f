package langhandle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromNameStaticLanguages(t *testing.T) {
	for _, name := range []string{"go", "javascript", "typescript", "python", "rust", "js", "ts", "py"} {
		h, err := FromName(name)
		require.NoError(t, err, name)
		require.Equal(t, KindStatic, h.Kind())
	}
}

func TestFromPathDerivesLanguage(t *testing.T) {
	h, err := FromPath("main.go")
	require.NoError(t, err)
	require.Equal(t, "go", h.Name())
}

func TestFromNameUnknownFails(t *testing.T) {
	dynamicMu.Lock()
	dynamicInitFunc = nil
	dynamicMu.Unlock()

	_, err := FromName("cobol")
	require.Error(t, err)
}

func TestHandleEqualDiscriminatesKind(t *testing.T) {
	static, err := FromName("go")
	require.NoError(t, err)

	dyn := NewDynamicHandle("go", static.TSLanguage(), '$', '_', []string{".go"})
	require.False(t, static.Equal(dyn), "a built-in and a same-named dynamic handle must not collide")
}

func TestParseGoSource(t *testing.T) {
	h, err := FromName("go")
	require.NoError(t, err)

	tree, err := h.Parse(context.Background(), []byte("package main\nfunc main() {}\n"))
	require.NoError(t, err)
	require.NotNil(t, tree)
}
