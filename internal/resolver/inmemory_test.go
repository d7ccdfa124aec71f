package resolver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInMemoryResolverNoModules(t *testing.T) {
	r := NewInMemoryResolver()
	_, err := r.Resolve("some-module", "/base/path.js")
	require.Error(t, err)
}

func TestInMemoryResolverWithModuleMapping(t *testing.T) {
	r := WithModules(map[string]string{"lodash": "/__virtual/lodash.js"})
	got, err := r.Resolve("lodash", "/base/path.js")
	require.NoError(t, err)
	require.Equal(t, "/__virtual/lodash.js", got)
}

func TestInMemoryResolverAddModule(t *testing.T) {
	r := NewInMemoryResolver()
	r.AddModule("mymodule", "/__virtual/mymodule.js")

	got, err := r.Resolve("mymodule", "/base/path.js")
	require.NoError(t, err)
	require.Equal(t, "/__virtual/mymodule.js", got)
}

func TestInMemoryResolverWithSource(t *testing.T) {
	r := NewInMemoryResolver()
	source := "export const foo = 'bar';"
	r.AddModuleWithSource("mymodule", "/__virtual/mymodule.js", source)

	got, err := r.Resolve("mymodule", "/base/path.js")
	require.NoError(t, err)
	require.Equal(t, "/__virtual/mymodule.js", got)

	retrieved, ok := r.GetSource("/__virtual/mymodule.js")
	require.True(t, ok)
	require.Equal(t, source, retrieved)
}

func TestInMemoryResolverRelativeSpecifier(t *testing.T) {
	r := NewInMemoryResolver()
	got, err := r.Resolve("./sibling", "/base/path.js")
	require.NoError(t, err)
	require.Equal(t, "/base/sibling", got)
}

func TestInMemoryLoaderMissingPath(t *testing.T) {
	r := NewInMemoryResolver()
	l := NewInMemoryLoader(r)
	_, err := l.Load("/nope.js")
	require.Error(t, err)
}
