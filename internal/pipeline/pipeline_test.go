package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codemod-rs/codemod-go/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRunVisitsMatchingFilesAndSkipsIgnored(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.go"), "package a\n")
	writeFile(t, filepath.Join(dir, "b.go"), "package b\n")
	writeFile(t, filepath.Join(dir, "c.txt"), "not go\n")
	writeFile(t, filepath.Join(dir, "vendor", "d.go"), "package vendor\n")
	writeFile(t, filepath.Join(dir, ".gitignore"), "vendor/\n")

	cfg := config.ExecutionConfig{TargetPath: dir, Languages: []string{"go"}}

	var mu sync.Mutex
	var visited []string
	err := Run(context.Background(), cfg, func(path string) error {
		mu.Lock()
		visited = append(visited, filepath.Base(path))
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	sort.Strings(visited)
	require.Equal(t, []string{"a.go", "b.go"}, visited)
}

func TestRunEmitsLifecycleEvents(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.go"), "package a\n")

	var phases []Phase
	var mu sync.Mutex
	cfg := config.ExecutionConfig{
		TargetPath: dir,
		Languages:  []string{"go"},
		ProgressCallback: func(event any) {
			ev := event.(ProgressEvent)
			mu.Lock()
			phases = append(phases, ev.Phase)
			mu.Unlock()
		},
	}

	err := Run(context.Background(), cfg, func(path string) error { return nil })
	require.NoError(t, err)

	require.Contains(t, phases, PhaseStart)
	require.Contains(t, phases, PhaseCounting)
	require.Contains(t, phases, PhaseProcessing)
	require.Contains(t, phases, PhaseIncrement)
	require.Contains(t, phases, PhaseFinish)
}

func TestRunRejectsAbsoluteBase(t *testing.T) {
	cfg := config.ExecutionConfig{TargetPath: t.TempDir(), BasePath: "/etc"}
	err := Run(context.Background(), cfg, func(path string) error { return nil })
	require.Error(t, err)
}

func TestCollectFilesSingleThreadedVariant(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "x.py"), "x = 1\n")
	writeFile(t, filepath.Join(dir, "y.go"), "package y\n")

	files, err := CollectFiles(config.ExecutionConfig{TargetPath: dir, Languages: []string{"python"}})
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "x.py", filepath.Base(files[0]))
}

func TestRunNoGlobsVisitsEveryFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.go"), "package a\n")
	writeFile(t, filepath.Join(dir, "b.txt"), "hi\n")

	var mu sync.Mutex
	var visited []string
	cfg := config.ExecutionConfig{TargetPath: dir}
	err := Run(context.Background(), cfg, func(path string) error {
		mu.Lock()
		visited = append(visited, filepath.Base(path))
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	sort.Strings(visited)
	require.Equal(t, []string{"a.go", "b.txt"}, visited)
}
