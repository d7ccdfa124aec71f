// Package pipeline is the execution pipeline: it walks a search base
// honoring globs and git-ignore rules, and dispatches each regular file to
// a caller-supplied callback while reporting progress.
package pipeline

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/codemod-rs/codemod-go/internal/config"
	"github.com/codemod-rs/codemod-go/internal/logging"
)

// Phase names a progress lifecycle stage.
type Phase string

const (
	PhaseStart      Phase = "start"
	PhaseCounting   Phase = "counting"
	PhaseProcessing Phase = "processing"
	PhaseIncrement  Phase = "increment"
	PhaseFinish     Phase = "finish"
)

// ProgressEvent is emitted to config.ExecutionConfig.ProgressCallback
// throughout a run: (task, path, phase, total, processed).
type ProgressEvent struct {
	TaskID    string
	Path      string
	Phase     Phase
	Total     int
	Processed int
}

// Callback processes one regular file found by the walk. Errors are logged
// and skipped per-entry; the walk itself never aborts on a callback error.
type Callback func(path string) error

// Run performs the full two-phase walk: count, then dispatch.
func Run(ctx context.Context, cfg config.ExecutionConfig, cb Callback) error {
	log := logging.Get(logging.CategoryPipeline)
	taskID := uuid.NewString()

	base, err := cfg.SearchBase()
	if err != nil {
		return err
	}
	globs := buildGlobSet(cfg)

	if cfg.PreRunCallback != nil {
		if err := cfg.PreRunCallback(); err != nil {
			return err
		}
	}

	emit := func(ev ProgressEvent) {
		ev.TaskID = taskID
		if cfg.ProgressCallback != nil {
			cfg.ProgressCallback(ev)
		}
	}

	emit(ProgressEvent{Phase: PhaseStart})
	emit(ProgressEvent{Phase: PhaseCounting})

	files, err := walkFiles(base, globs)
	if err != nil {
		return err
	}
	total := len(files)
	emit(ProgressEvent{Phase: PhaseCounting, Total: total})

	workers := cfg.ThreadCount
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers > 12 {
			workers = 12
		}
	}
	if workers < 1 {
		workers = 1
	}

	var processed int64
	paths := make(chan string)
	eg, egCtx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		eg.Go(func() error {
			for {
				select {
				case <-egCtx.Done():
					return nil
				case path, ok := <-paths:
					if !ok {
						return nil
					}
					emit(ProgressEvent{Path: path, Phase: PhaseProcessing, Total: total})
					if err := cb(path); err != nil {
						log.Warnw("callback failed", "path", path, "err", err)
					}
					n := atomic.AddInt64(&processed, 1)
					emit(ProgressEvent{Path: path, Phase: PhaseIncrement, Total: total, Processed: int(n)})
				}
			}
		})
	}

feed:
	for _, f := range files {
		select {
		case <-egCtx.Done():
			break feed
		case paths <- f:
		}
	}
	close(paths)
	_ = eg.Wait()

	emit(ProgressEvent{Phase: PhaseFinish, Total: total, Processed: int(atomic.LoadInt64(&processed))})
	return ctx.Err()
}

// CollectFiles performs only the first (single-threaded) walk and returns
// matching paths, used by semantic providers to pre-index in workspace
// mode.
func CollectFiles(cfg config.ExecutionConfig) ([]string, error) {
	base, err := cfg.SearchBase()
	if err != nil {
		return nil, err
	}
	return walkFiles(base, buildGlobSet(cfg))
}

// walkFiles is the single-threaded, count/collect walk shared by the first
// phase of Run and by CollectFiles: follow-links=false,
// git-ignore+git-global+git-exclude on, require-git off, parents on,
// ignore on, hidden off.
func walkFiles(base string, globs globSet) ([]string, error) {
	chain := newGitIgnoreChain(base)
	log := logging.Get(logging.CategoryPipeline)

	var out []string
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warnw("walk error", "path", path, "err", err)
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if path != base {
				if isHiddenEntry(name) {
					return filepath.SkipDir
				}
				if chain.Ignored(path) {
					return filepath.SkipDir
				}
			}
			return nil
		}
		if isHiddenEntry(name) {
			return nil
		}
		if chain.Ignored(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return nil
		}
		if !globs.matches(filepath.ToSlash(rel)) {
			return nil
		}
		out = append(out, path)
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return out, nil
}
