// Package config holds the ambient configuration types shared across the
// execution pipeline, script sandbox, and diff engine.
package config

import (
	"fmt"
	"path/filepath"
)

// CapabilitySet selects which host-I/O built-ins the sandbox grants to a
// transform script. All flags default to false (deny-by-default).
type CapabilitySet struct {
	Filesystem  bool
	Network     bool
	ChildProcess bool
}

// ExecutionConfig configures one execution-pipeline run.
type ExecutionConfig struct {
	// TargetPath is required: the root to walk.
	TargetPath string
	// BasePath, if set, must be relative to TargetPath.
	BasePath string
	// IncludeGlobs / ExcludeGlobs are doublestar patterns.
	IncludeGlobs []string
	ExcludeGlobs []string
	// Languages, when IncludeGlobs is empty, derives the include set from
	// each language's registered extensions.
	Languages []string
	// DryRun suppresses writes; the runner emits diffs instead.
	DryRun bool
	// ThreadCount overrides the worker-pool size; 0 means
	// min(runtime.NumCPU(), 12).
	ThreadCount int
	Capabilities CapabilitySet

	// PreRunCallback runs once before the walk begins (e.g. a dirty-git
	// check). May be nil.
	PreRunCallback func() error
	// ProgressCallback receives pipeline lifecycle events (see
	// internal/pipeline.ProgressEvent). May be nil.
	ProgressCallback func(event any)
	// DownloadProgressCallback is forwarded to the dynamic parser loader.
	DownloadProgressCallback func(downloaded, total int64)
}

// SearchBase computes target ⊕ optional relative base, rejecting an
// absolute base.
func (c ExecutionConfig) SearchBase() (string, error) {
	if c.TargetPath == "" {
		return "", fmt.Errorf("config: target path is required")
	}
	if c.BasePath == "" {
		return c.TargetPath, nil
	}
	if filepath.IsAbs(c.BasePath) {
		return "", fmt.Errorf("config: base path %q must be relative", c.BasePath)
	}
	return filepath.Join(c.TargetPath, c.BasePath), nil
}
