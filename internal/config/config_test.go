package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSearchBaseRequiresTarget(t *testing.T) {
	_, err := ExecutionConfig{}.SearchBase()
	require.Error(t, err)
}

func TestSearchBaseRejectsAbsoluteBase(t *testing.T) {
	_, err := ExecutionConfig{TargetPath: "/repo", BasePath: "/etc"}.SearchBase()
	require.Error(t, err)
}

func TestSearchBaseJoinsRelativeBase(t *testing.T) {
	got, err := ExecutionConfig{TargetPath: "/repo", BasePath: "src"}.SearchBase()
	require.NoError(t, err)
	require.Equal(t, "/repo/src", got)
}

func TestDiffConfigColorPolicy(t *testing.T) {
	cfg := DefaultDiffConfig()

	t.Setenv("NO_COLOR", "1")
	require.False(t, cfg.ColorEnabled())

	require.NoError(t, os.Unsetenv("NO_COLOR"))
	require.True(t, cfg.ColorEnabled())

	cfg.NoColor = true
	require.False(t, cfg.ColorEnabled())
}
