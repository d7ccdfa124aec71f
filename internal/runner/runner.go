// Package runner is the codemod runner: it composes the execution pipeline
// and the script engine, persisting writes or rendering diffs, and reports
// secondary changes identically to the primary one.
package runner

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/codemod-rs/codemod-go/internal/config"
	"github.com/codemod-rs/codemod-go/internal/diff"
	"github.com/codemod-rs/codemod-go/internal/langhandle"
	"github.com/codemod-rs/codemod-go/internal/logging"
	"github.com/codemod-rs/codemod-go/internal/pipeline"
	"github.com/codemod-rs/codemod-go/internal/sandbox"
)

// Codemod bundles the interpreted transform/selector sources run against
// every matching file.
type Codemod struct {
	Name         string
	TransformSrc string
	SelectorSrc  string
}

// SemanticNotifier is the slice of semantic.Provider the runner calls after
// a write succeeds. Declared locally rather than importing
// internal/semantic so the runner stays usable without a semantic facade
// wired in (e.g. file-scope-only invocations).
type SemanticNotifier interface {
	NotifyFileProcessed(filePath, content string) error
}

// Stats aggregates per-file outcomes across a run, the Go shape of
// original_source/crates/core/src/report.rs's ReportStats.
type Stats struct {
	FilesModified   int
	FilesUnmodified int
	FilesWithErrors int
	TotalAdditions  int
	TotalDeletions  int
}

// FileDiffEntry is one reported file change (ReportFileDiff in report.rs).
// DiffText is only populated in dry-run mode; a non-dry-run entry carries
// only the path and +/- counts.
type FileDiffEntry struct {
	Path      string
	DiffText  string
	Additions int
	Deletions int
}

// Report is the execution summary the runner produces. It deliberately
// omits report.rs's telemetry envelope (id, cli_version, os/arch, share
// level): telemetry delivery and report-HTML serving are out of scope.
type Report struct {
	DryRun     bool
	TargetPath string
	Duration   time.Duration
	Stats      Stats
	Diffs      []FileDiffEntry
	Errors     []string
}

func (r *Report) addError(path string, err error) {
	r.Stats.FilesWithErrors++
	r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", path, err))
}

// Runner composes pipeline.Run and sandbox.Engine.
type Runner struct {
	Engine   *sandbox.Engine
	DiffCfg  config.DiffConfig
	Semantic SemanticNotifier // optional; nil disables post-write notification
}

// New builds a Runner. sem may be nil when no semantic provider is wired for
// this invocation (e.g. a language with no registered analyzer).
func New(engine *sandbox.Engine, diffCfg config.DiffConfig, sem SemanticNotifier) *Runner {
	return &Runner{Engine: engine, DiffCfg: diffCfg, Semantic: sem}
}

// addResult classifies one sandbox.Result into the running report, rendering
// a diff against original content with this runner's configured DiffCfg.
func (r *Runner) addResult(report *Report, path string, result sandbox.Result, original string) {
	switch result.Kind {
	case sandbox.Unmodified, sandbox.Skipped:
		report.Stats.FilesUnmodified++
		return
	case sandbox.Modified:
		report.Stats.FilesModified++
		displayPath := path
		if result.HasRename {
			displayPath = result.RenamePath
		}
		rendered := diff.Render(r.DiffCfg, displayPath, original, result.NewText)
		entry := FileDiffEntry{Path: displayPath, Additions: rendered.Additions, Deletions: rendered.Deletions}
		if report.DryRun {
			entry.DiffText = rendered.Text
			if result.HasRename {
				entry.DiffText = fmt.Sprintf("rename: %s -> %s\n%s", path, result.RenamePath, rendered.Text)
			}
		}
		report.Diffs = append(report.Diffs, entry)
	}
}

// Run executes codemod against every file pipeline.Run selects under cfg,
// writing changes (non dry-run) or recording diffs (dry-run), including
// secondary changes made through jssgTransform.
func (r *Runner) Run(ctx context.Context, cfg config.ExecutionConfig, codemod Codemod) (*Report, error) {
	log := logging.Get(logging.CategoryRunner)
	start := time.Now()
	report := &Report{DryRun: cfg.DryRun, TargetPath: cfg.TargetPath}
	var mu sync.Mutex

	walkErr := pipeline.Run(ctx, cfg, func(path string) error {
		result, secondary, original, procErr := r.processOne(ctx, path, codemod, cfg)

		mu.Lock()
		defer mu.Unlock()
		if procErr != nil {
			report.addError(path, procErr)
			log.Warnw("codemod execution failed", "path", path, "err", procErr)
			return procErr
		}
		r.addResult(report, path, result, original)
		for _, sc := range secondary {
			r.recordSecondary(report, sc)
		}
		return nil
	})

	for _, d := range report.Diffs {
		report.Stats.TotalAdditions += d.Additions
		report.Stats.TotalDeletions += d.Deletions
	}
	report.Duration = time.Since(start)
	return report, walkErr
}

// processOne reads path, builds the script sandbox's root, and runs the
// codemod against it.
func (r *Runner) processOne(ctx context.Context, path string, codemod Codemod, cfg config.ExecutionConfig) (sandbox.Result, []sandbox.SecondaryChange, string, error) {
	handle, err := langhandle.FromPath(path)
	if err != nil {
		return sandbox.Result{}, nil, "", err
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return sandbox.Result{}, nil, "", err
	}
	root, err := sandbox.NewSgRoot(handle, source, path)
	if err != nil {
		return sandbox.Result{}, nil, "", err
	}

	opts := sandbox.Options{Language: handle.Name()}
	result, secondary, err := r.Engine.Run(ctx, root, codemod.TransformSrc, codemod.SelectorSrc, opts, cfg.Capabilities, cfg.DryRun)
	if err != nil {
		return sandbox.Result{}, nil, "", err
	}

	if result.Kind == sandbox.Modified {
		if err := r.applyOrSkip(path, result, cfg.DryRun); err != nil {
			return sandbox.Result{}, nil, "", err
		}
		if !cfg.DryRun && r.Semantic != nil {
			if err := r.Semantic.NotifyFileProcessed(path, result.NewText); err != nil {
				log := logging.Get(logging.CategoryRunner)
				log.Warnw("semantic notify failed", "path", path, "err", err)
			}
		}
	}

	return result, secondary, string(source), nil
}

// applyOrSkip persists a Modified result (non dry-run): write new text to
// the rename target or original path; delete the original when a rename
// moved it elsewhere. Dry-run writes
// nothing — the caller renders a diff from the original content it already
// has in hand.
func (r *Runner) applyOrSkip(path string, result sandbox.Result, dryRun bool) error {
	if dryRun {
		return nil
	}
	target := path
	if result.HasRename {
		target = result.RenamePath
	}
	if err := os.WriteFile(target, []byte(result.NewText), 0o644); err != nil {
		return err
	}
	if result.HasRename && target != path {
		if err := os.Remove(path); err != nil {
			return err
		}
	}
	return nil
}

// recordSecondary reports a jssgTransform side-effect identically to a
// primary change: the capability call captured the file's pre-transform
// content before writing (or, under dry-run, withholding the write), so the
// runner renders its diff from that rather than re-reading a file that may
// already carry the post-transform content on disk.
func (r *Runner) recordSecondary(report *Report, sc sandbox.SecondaryChange) {
	r.addResult(report, sc.Path, sc.Result, sc.Original)
}
