package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codemod-rs/codemod-go/internal/config"
)

var (
	runDryRun      bool
	runBasePath    string
	runInclude     []string
	runExclude     []string
	runLanguages   []string
	runThreads     int
	runSemantic    bool
	runNoColor     bool
	runContextLine int
)

var runCmd = &cobra.Command{
	Use:   "run <codemod-file> <target>",
	Short: "Apply a codemod's transform (and optional selector) across a directory",
	Args:  cobra.ExactArgs(2),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Report diffs instead of writing changes")
	runCmd.Flags().StringVar(&runBasePath, "base-path", "", "Search base relative to target")
	runCmd.Flags().StringArrayVar(&runInclude, "include", nil, "Include glob (doublestar); repeatable")
	runCmd.Flags().StringArrayVar(&runExclude, "exclude", nil, "Exclude glob (doublestar); repeatable")
	runCmd.Flags().StringArrayVar(&runLanguages, "language", nil, "Restrict to these languages when no --include is given")
	runCmd.Flags().IntVar(&runThreads, "threads", 0, "Worker count override (0 = automatic)")
	runCmd.Flags().BoolVar(&runSemantic, "semantic", false, "Enable the semantic provider facade (getDefinition/findReferences/getType)")
	runCmd.Flags().BoolVar(&runNoColor, "no-color", false, "Disable ANSI color in dry-run diff output")
	runCmd.Flags().IntVar(&runContextLine, "context-lines", 3, "Unchanged lines of context around a diff hunk (stored in the diff config; rendered diffs always use 3)")
}

func runRun(cmd *cobra.Command, args []string) error {
	codemodPath, target := args[0], args[1]

	codemod, err := readCodemodFile(codemodPath)
	if err != nil {
		return fmt.Errorf("reading codemod: %w", err)
	}

	diffCfg := config.DiffConfig{ContextLines: runContextLine, NoColor: runNoColor, MaxLinesPerFile: config.DefaultDiffConfig().MaxLinesPerFile}
	r := newRunner(cmd, target, diffCfg, runSemantic)

	execCfg := config.ExecutionConfig{
		TargetPath:   target,
		BasePath:     runBasePath,
		IncludeGlobs: runInclude,
		ExcludeGlobs: runExclude,
		Languages:    runLanguages,
		DryRun:       runDryRun,
		ThreadCount:  runThreads,
		Capabilities: capabilitySet(),
	}

	report, err := r.Run(cmd.Context(), execCfg, codemod)
	if err != nil {
		return fmt.Errorf("codemod run failed: %w", err)
	}

	if report.DryRun {
		for _, d := range report.Diffs {
			fmt.Fprint(cmd.OutOrStdout(), d.DiffText)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "modified=%d unmodified=%d errors=%d (+%d/-%d) in %s\n",
		report.Stats.FilesModified, report.Stats.FilesUnmodified, report.Stats.FilesWithErrors,
		report.Stats.TotalAdditions, report.Stats.TotalDeletions, report.Duration)
	for _, e := range report.Errors {
		fmt.Fprintln(cmd.ErrOrStderr(), e)
	}
	if report.Stats.FilesWithErrors > 0 {
		return fmt.Errorf("%d file(s) failed", report.Stats.FilesWithErrors)
	}
	return nil
}
