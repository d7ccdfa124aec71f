package pyprov

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codemod-rs/codemod-go/internal/semantic"
)

func TestProviderSupportsLanguage(t *testing.T) {
	p := NewFileScopeProvider(semantic.NewMemoryFS())
	assert.True(t, p.SupportsLanguage("python"))
	assert.True(t, p.SupportsLanguage("py"))
	assert.False(t, p.SupportsLanguage("javascript"))
}

func TestNotifyFileProcessedIndexesAssignment(t *testing.T) {
	fs := semantic.NewMemoryFS()
	p := NewFileScopeProvider(fs)

	content := "x = 1\ny = x + 2\n"
	require.NoError(t, p.NotifyFileProcessed("test.py", content))
	assert.Equal(t, 1, p.CachedFileCount())
}

func TestClearCache(t *testing.T) {
	fs := semantic.NewMemoryFS()
	p := NewFileScopeProvider(fs)
	require.NoError(t, p.NotifyFileProcessed("a.py", "a = 1"))
	p.ClearCache()
	assert.Equal(t, 0, p.CachedFileCount())
}
