package workflow

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreSetGet(t *testing.T) {
	s := NewStore()
	s.Set("step1", "out", "value")
	v, ok := s.Get("step1", "out")
	require.True(t, ok)
	require.Equal(t, "value", v)
}

func TestStoreGetMissingReturnsFalse(t *testing.T) {
	s := NewStore()
	_, ok := s.Get("nope", "out")
	require.False(t, ok)
}

func TestStoreGetOrSetSetsWhenEmpty(t *testing.T) {
	s := NewStore()
	got := s.GetOrSet("step1", "out", "default")
	require.Equal(t, "default", got)
	v, ok := s.Get("step1", "out")
	require.True(t, ok)
	require.Equal(t, "default", v)
}

func TestStoreGetOrSetReturnsExisting(t *testing.T) {
	s := NewStore()
	s.Set("step1", "out", "first")
	got := s.GetOrSet("step1", "out", "second")
	require.Equal(t, "first", got)
}

func TestStoreGetAllReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Set("step1", "a", "1")
	s.Set("step1", "b", "2")
	all := s.GetAll("step1")
	require.Equal(t, map[string]string{"a": "1", "b": "2"}, all)
	all["c"] = "3"
	_, ok := s.Get("step1", "c")
	require.False(t, ok)
}
