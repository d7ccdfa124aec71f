// Package logging provides categorized structured logging for codemod.
// Every subsystem pulls its logger with Get(category); the process-wide
// *zap.Logger is built once via Init.
package logging

import (
	"sync"

	"go.uber.org/zap"
)

// Category identifies the subsystem a log line originates from.
type Category string

const (
	CategoryPipeline     Category = "pipeline"
	CategorySandbox      Category = "sandbox"
	CategoryLangHandle   Category = "langhandle"
	CategoryParserLoader Category = "parserloader"
	CategoryResolver     Category = "resolver"
	CategorySemantic     Category = "semantic"
	CategoryDiff         Category = "diff"
	CategoryWorkflow     Category = "workflow"
	CategoryRunner       Category = "runner"
	CategoryCLI          Category = "cli"
)

var (
	mu      sync.RWMutex
	base    *zap.Logger
	cached  = make(map[Category]*zap.SugaredLogger)
)

// Init builds the process-wide logger. verbose selects development-mode
// (debug level, human-readable) encoding; otherwise production JSON
// encoding is used.
func Init(verbose bool) error {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		return err
	}

	mu.Lock()
	base = logger
	cached = make(map[Category]*zap.SugaredLogger)
	mu.Unlock()
	return nil
}

// Get returns the sugared logger for category, lazily tagging it with a
// "component" field. If Init was never called, a no-op logger is used so
// callers never need a nil check.
func Get(category Category) *zap.SugaredLogger {
	mu.RLock()
	if l, ok := cached[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := cached[category]; ok {
		return l
	}
	b := base
	if b == nil {
		b = zap.NewNop()
	}
	l := b.With(zap.String("component", string(category))).Sugar()
	cached[category] = l
	return l
}

// Sync flushes the process-wide logger. Errors flushing stderr/stdout are
// expected on some platforms and are intentionally ignored; this is called
// from the CLI's PersistentPostRun on shutdown.
func Sync() {
	mu.RLock()
	b := base
	mu.RUnlock()
	if b != nil {
		_ = b.Sync()
	}
}
