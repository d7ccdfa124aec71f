package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/codemod-rs/codemod-go/internal/testharness"
)

var (
	testStrictness      string
	testIgnoreWhitespace bool
	testFilter           string
	testFailFast         bool
	testUpdateSnapshots  bool
	testTimeout          time.Duration
)

var testCmd = &cobra.Command{
	Use:   "test <codemod-file> <fixtures-dir>",
	Short: "Run a codemod against fixture cases (input.<ext> / expected_output.<ext>)",
	Args:  cobra.ExactArgs(2),
	RunE:  runTest,
}

func init() {
	testCmd.Flags().StringVar(&testStrictness, "strictness", "strict", "Comparison strictness: strict, cst, ast, loose")
	testCmd.Flags().BoolVar(&testIgnoreWhitespace, "ignore-whitespace", false, "Ignore whitespace differences at strict strictness")
	testCmd.Flags().StringVar(&testFilter, "filter", "", "Only run cases whose name contains this substring")
	testCmd.Flags().BoolVar(&testFailFast, "fail-fast", false, "Stop at the first failing case")
	testCmd.Flags().BoolVar(&testUpdateSnapshots, "update-snapshots", false, "Write actual output back to expected_output files instead of comparing")
	testCmd.Flags().DurationVar(&testTimeout, "timeout", 30*time.Second, "Per-case transform timeout")
}

func runTest(cmd *cobra.Command, args []string) error {
	codemodPath, fixturesDir := args[0], args[1]

	codemod, err := readCodemodFile(codemodPath)
	if err != nil {
		return fmt.Errorf("reading codemod: %w", err)
	}

	strictness, err := testharness.ParseStrictness(testStrictness)
	if err != nil {
		return err
	}

	eng := newEngine(fixturesDir)
	summary, err := testharness.Run(cmd.Context(), eng, codemod, fixturesDir, testharness.Options{
		Strictness:       strictness,
		IgnoreWhitespace: testIgnoreWhitespace,
		Filter:           testFilter,
		FailFast:         testFailFast,
		UpdateSnapshots:  testUpdateSnapshots,
		Timeout:          testTimeout,
	})
	if err != nil {
		return err
	}

	for _, r := range summary.Results {
		switch {
		case r.Skipped:
			fmt.Fprintf(cmd.OutOrStdout(), "SKIP  %s\n", r.Name)
		case r.Passed:
			fmt.Fprintf(cmd.OutOrStdout(), "PASS  %s\n", r.Name)
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "FAIL  %s: %v\n", r.Name, r.Err)
			if r.DiffText != "" {
				fmt.Fprint(cmd.OutOrStdout(), r.DiffText)
			}
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d passed, %d failed in %s\n", summary.Passed, summary.Failed, summary.Duration)
	if summary.Failed > 0 {
		return fmt.Errorf("%d fixture case(s) failed", summary.Failed)
	}
	return nil
}
