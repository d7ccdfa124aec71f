package sandbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strp(s string) *string { return &s }

func TestClassifyTransformResultUnchangedString(t *testing.T) {
	r := ClassifyTransformResult("const x = 1;", strp("const x = 1;"), "", false, CheckEquality)
	assert.Equal(t, Unmodified, r.Kind)
}

func TestClassifyTransformResultChangedString(t *testing.T) {
	r := ClassifyTransformResult("const x = 1;", strp("const x = 2;"), "", false, CheckEquality)
	assert.Equal(t, Modified, r.Kind)
	assert.Equal(t, "const x = 2;", r.NewText)
}

func TestClassifyTransformResultNilNoRename(t *testing.T) {
	r := ClassifyTransformResult("anything", nil, "", false, CheckEquality)
	assert.Equal(t, Unmodified, r.Kind)
}

func TestClassifyTransformResultNilWithRename(t *testing.T) {
	r := ClassifyTransformResult("const x = 1;", nil, "new/path.js", true, CheckEquality)
	assert.Equal(t, Modified, r.Kind)
	assert.Equal(t, "const x = 1;", r.NewText)
	assert.True(t, r.HasRename)
	assert.Equal(t, "new/path.js", r.RenamePath)
}

func TestClassifyTransformResultRenameWithSameContentStillModified(t *testing.T) {
	r := ClassifyTransformResult("same", strp("same"), "moved.js", true, CheckEquality)
	assert.Equal(t, Modified, r.Kind)
	assert.True(t, r.HasRename)
}

func TestClassifyTransformResultContentHashCheck(t *testing.T) {
	r := ClassifyTransformResult("abc", strp("abc"), "", false, CheckContentHash)
	assert.Equal(t, Unmodified, r.Kind)

	r2 := ClassifyTransformResult("abc", strp("abd"), "", false, CheckContentHash)
	assert.Equal(t, Modified, r2.Kind)
}
