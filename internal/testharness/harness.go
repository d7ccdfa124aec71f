package testharness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/codemod-rs/codemod-go/internal/config"
	"github.com/codemod-rs/codemod-go/internal/diff"
	"github.com/codemod-rs/codemod-go/internal/langhandle"
	"github.com/codemod-rs/codemod-go/internal/logging"
	"github.com/codemod-rs/codemod-go/internal/runner"
	"github.com/codemod-rs/codemod-go/internal/sandbox"
)

// Case is one discovered fixture: a subdirectory of the test root holding a
// single "input.<ext>" file and, unless ExpectError, an "expected_output.<ext>"
// sibling (fixtures.rs's FileSystemTestCase, simplified to one input/expected
// pair per case directory rather than the original's multi-file map).
type Case struct {
	Name         string
	Dir          string
	InputPath    string
	ExpectedPath string
	Input        string
	Expected     string
	Handle       langhandle.Handle
	// ExpectError marks a case whose transform is expected to fail (a
	// sibling file named "expect_error" in the case directory).
	ExpectError bool
}

// Discover walks root's immediate subdirectories for fixture cases. A
// subdirectory qualifies when it holds a file named "input.<ext>" (if it
// holds several, the last in directory order is used); languageOverride,
// when non-empty, is used instead of
// resolving the language from the input file's extension.
func Discover(root string, languageOverride string) ([]Case, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("testharness: reading %s: %w", root, err)
	}

	var cases []Case
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		caseDir := filepath.Join(root, entry.Name())
		c, ok, err := loadCase(caseDir, entry.Name(), languageOverride)
		if err != nil {
			return nil, err
		}
		if ok {
			cases = append(cases, c)
		}
	}
	sort.Slice(cases, func(i, j int) bool { return cases[i].Name < cases[j].Name })
	return cases, nil
}

func loadCase(dir, name, languageOverride string) (Case, bool, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return Case{}, false, fmt.Errorf("testharness: reading case %s: %w", dir, err)
	}

	var inputName, expectedName string
	expectError := false
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		switch {
		case strings.HasPrefix(de.Name(), "input."):
			inputName = de.Name()
		case strings.HasPrefix(de.Name(), "expected_output."):
			expectedName = de.Name()
		case de.Name() == "expect_error":
			expectError = true
		}
	}
	if inputName == "" {
		return Case{}, false, nil
	}

	inputPath := filepath.Join(dir, inputName)
	inputBytes, err := os.ReadFile(inputPath)
	if err != nil {
		return Case{}, false, fmt.Errorf("testharness: reading %s: %w", inputPath, err)
	}

	var handle langhandle.Handle
	if languageOverride != "" {
		handle, err = langhandle.FromName(languageOverride)
	} else {
		handle, err = langhandle.FromPath(inputPath)
	}
	if err != nil {
		return Case{}, false, fmt.Errorf("testharness: resolving language for %s: %w", inputPath, err)
	}

	c := Case{
		Name:        name,
		Dir:         dir,
		InputPath:   inputPath,
		Input:       string(inputBytes),
		Handle:      handle,
		ExpectError: expectError,
	}

	if expectedName != "" {
		c.ExpectedPath = filepath.Join(dir, expectedName)
		expectedBytes, err := os.ReadFile(c.ExpectedPath)
		if err != nil {
			return Case{}, false, fmt.Errorf("testharness: reading %s: %w", c.ExpectedPath, err)
		}
		c.Expected = string(expectedBytes)
	} else if !expectError {
		ext := filepath.Ext(inputName)
		c.ExpectedPath = filepath.Join(dir, "expected_output"+ext)
	}

	return c, true, nil
}

// Options configures one harness run (test.rs's TestOptions, trimmed to the
// fields this package supports: the reporter/watch/parallel/max_threads
// knobs are CLI-presentation or scheduling concerns out of this package's
// scope, see DESIGN.md).
type Options struct {
	Strictness       Strictness
	Comparator       *Comparator
	IgnoreWhitespace bool
	Filter           string
	FailFast         bool
	UpdateSnapshots  bool
	// Timeout bounds each case's transform invocation; zero means 30s.
	Timeout time.Duration
}

// CaseResult is one case's outcome.
type CaseResult struct {
	Name     string
	Passed   bool
	Skipped  bool
	Err      error
	DiffText string
}

// Summary aggregates a harness run (test.rs's TestRunResult).
type Summary struct {
	Results  []CaseResult
	Passed   int
	Failed   int
	Duration time.Duration
}

func (s *Summary) record(r CaseResult) {
	s.Results = append(s.Results, r)
	if r.Skipped {
		return
	}
	if r.Passed {
		s.Passed++
	} else {
		s.Failed++
	}
}

// Run discovers fixtures under dir and, for each, executes codemod's
// transform against the input and compares the result to the expected
// output at opts.Strictness. Each case's transform runs under its own
// opts.Timeout-bounded context.
func Run(ctx context.Context, eng *sandbox.Engine, codemod runner.Codemod, dir string, opts Options) (*Summary, error) {
	log := logging.Get(logging.CategoryRunner)
	start := time.Now()

	cases, err := Discover(dir, "")
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	summary := &Summary{}
	for _, c := range cases {
		if opts.Filter != "" && !strings.Contains(c.Name, opts.Filter) {
			summary.record(CaseResult{Name: c.Name, Skipped: true})
			continue
		}

		result := runCase(ctx, eng, codemod, c, opts, timeout)
		summary.record(result)
		if !result.Skipped && !result.Passed {
			log.Warnw("fixture case failed", "case", c.Name, "err", result.Err)
			if opts.FailFast {
				break
			}
		}
	}

	summary.Duration = time.Since(start)
	return summary, nil
}

func runCase(ctx context.Context, eng *sandbox.Engine, codemod runner.Codemod, c Case, opts Options, timeout time.Duration) CaseResult {
	caseCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	root, err := sandbox.NewSgRoot(c.Handle, []byte(c.Input), c.InputPath)
	if err != nil {
		return CaseResult{Name: c.Name, Err: fmt.Errorf("testharness: building root: %w", err)}
	}

	sgOpts := sandbox.Options{Language: c.Handle.Name()}
	result, _, err := eng.Run(caseCtx, root, codemod.TransformSrc, codemod.SelectorSrc, sgOpts, config.CapabilitySet{}, true)

	if err != nil {
		if c.ExpectError {
			return CaseResult{Name: c.Name, Passed: true}
		}
		return CaseResult{Name: c.Name, Err: err}
	}
	if c.ExpectError {
		return CaseResult{Name: c.Name, Err: fmt.Errorf("testharness: expected an error but transform succeeded")}
	}

	actual := c.Input
	if result.Kind == sandbox.Modified {
		actual = result.NewText
	}

	if opts.UpdateSnapshots {
		if err := os.WriteFile(c.ExpectedPath, []byte(actual), 0o644); err != nil {
			return CaseResult{Name: c.Name, Err: fmt.Errorf("testharness: updating snapshot: %w", err)}
		}
		return CaseResult{Name: c.Name, Passed: true}
	}

	ok, err := Compare(c.Handle, c.Expected, actual, opts.Strictness, opts.IgnoreWhitespace, opts.Comparator)
	if err != nil {
		return CaseResult{Name: c.Name, Err: err}
	}
	if ok {
		return CaseResult{Name: c.Name, Passed: true}
	}

	rendered := diff.Render(config.DefaultDiffConfig(), c.Name, c.Expected, actual)
	return CaseResult{Name: c.Name, Passed: false, DiffText: rendered.Text,
		Err: fmt.Errorf("testharness: output did not match expected at %s strictness", opts.Strictness)}
}
