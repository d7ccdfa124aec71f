package jsts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codemod-rs/codemod-go/internal/semantic"
)

func TestProviderSupportsLanguage(t *testing.T) {
	p := NewFileScopeProvider(semantic.NewMemoryFS())
	assert.True(t, p.SupportsLanguage("javascript"))
	assert.True(t, p.SupportsLanguage("tsx"))
	assert.False(t, p.SupportsLanguage("python"))
}

func TestNotifyFileProcessedIndexesDeclarations(t *testing.T) {
	fs := semantic.NewMemoryFS()
	p := NewFileScopeProvider(fs)

	content := "const x = 1;\nconst y = x + 2;\n"
	require.NoError(t, p.NotifyFileProcessed("test.ts", content))
	assert.Equal(t, 1, p.CachedFileCount())

	// byte offset of "x" in "const x"
	def, err := p.GetDefinition("test.ts", semantic.ByteRange{Start: 6, End: 7}, semantic.GetDefinitionOptions{})
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, "x", def.Location.Name)
	assert.Equal(t, semantic.DefinitionLocal, def.DefinitionKind)
}

func TestFindReferencesReturnsIntraFileUses(t *testing.T) {
	fs := semantic.NewMemoryFS()
	p := NewFileScopeProvider(fs)

	content := "const x = 1;\nconst y = x + 2;\nconsole.log(x);\n"
	require.NoError(t, p.NotifyFileProcessed("test.ts", content))

	refs, err := p.FindReferences("test.ts", semantic.ByteRange{Start: 6, End: 7})
	require.NoError(t, err)
	assert.False(t, refs.IsEmpty())
}

func TestClearCacheResetsCount(t *testing.T) {
	fs := semantic.NewMemoryFS()
	p := NewFileScopeProvider(fs)
	require.NoError(t, p.NotifyFileProcessed("a.ts", "const a = 1;"))
	assert.Equal(t, 1, p.CachedFileCount())
	p.ClearCache()
	assert.Equal(t, 0, p.CachedFileCount())
}
