package pipeline

import (
	"context"
	"sync"

	"github.com/codemod-rs/codemod-go/internal/config"
)

// Predicate reports whether one file would be touched by a codemod, without
// actually running its transform (the selector half of the engine's
// file-applicability prefilter).
type Predicate func(path string) (bool, error)

// ListApplicable walks cfg exactly as Run does, but only evaluates pred per
// file and collects the paths it accepts — the "would this codemod touch
// this file" check a caller runs before committing to a full execution
// (grounded on original_source's jssg list-applicable command, which scans
// with the selector only and prints matching paths without transforming).
func ListApplicable(ctx context.Context, cfg config.ExecutionConfig, pred Predicate) ([]string, error) {
	var mu sync.Mutex
	var applicable []string

	err := Run(ctx, cfg, func(path string) error {
		ok, err := pred(path)
		if err != nil {
			return err
		}
		if ok {
			mu.Lock()
			applicable = append(applicable, path)
			mu.Unlock()
		}
		return nil
	})
	return applicable, err
}
