package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/codemod-rs/codemod-go/internal/logging"
)

// Watcher re-runs a Workflow against its Executor's target whenever a file
// directly in that target directory changes, debouncing rapid bursts of
// writes into a single re-run via fsnotify.Watcher plus a debounce ticker
// feeding one event-processing loop. Only the target directory itself is
// watched; changes inside its subdirectories do not trigger a re-run.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	executor    *Executor
	workflow    Workflow
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool

	// OnRun is invoked with each run's results; may be nil.
	OnRun func([]StepResult, error)
}

// NewWatcher builds a watcher over ex.Target for wf, re-running it on
// change.
func NewWatcher(ex *Executor, wf Workflow) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(ex.Target); err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{
		watcher:     fw,
		executor:    ex,
		workflow:    wf,
		debounceMap: make(map[string]time.Time),
		debounceDur: 300 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching in a goroutine; it is non-blocking.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()
	go w.run(ctx)
}

// Stop halts the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	log := logging.Get(logging.CategoryWorkflow)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.mu.Lock()
			w.debounceMap[ev.Name] = time.Now()
			w.mu.Unlock()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warnw("watch error", "err", err)
		case <-ticker.C:
			w.flushDebounced(ctx)
		}
	}
}

func (w *Watcher) flushDebounced(ctx context.Context) {
	w.mu.Lock()
	due := false
	now := time.Now()
	for _, t := range w.debounceMap {
		if now.Sub(t) >= w.debounceDur {
			due = true
			break
		}
	}
	if due {
		w.debounceMap = make(map[string]time.Time)
	}
	w.mu.Unlock()

	if !due {
		return
	}
	results, err := w.executor.Run(ctx, w.workflow)
	if w.OnRun != nil {
		w.OnRun(results, err)
	}
}
