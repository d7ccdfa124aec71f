package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codemod-rs/codemod-go/internal/config"
	"github.com/codemod-rs/codemod-go/internal/langhandle"
	"github.com/codemod-rs/codemod-go/internal/pipeline"
	"github.com/codemod-rs/codemod-go/internal/sandbox"
)

var (
	listBasePath  string
	listInclude   []string
	listExclude   []string
	listLanguages []string
)

var listApplicableCmd = &cobra.Command{
	Use:   "list-applicable <selector-file> <target>",
	Short: "Print files a selector matches, without running any transform",
	Args:  cobra.ExactArgs(2),
	RunE:  runListApplicable,
}

func init() {
	listApplicableCmd.Flags().StringVar(&listBasePath, "base-path", "", "Search base relative to target")
	listApplicableCmd.Flags().StringArrayVar(&listInclude, "include", nil, "Include glob (doublestar); repeatable")
	listApplicableCmd.Flags().StringArrayVar(&listExclude, "exclude", nil, "Exclude glob (doublestar); repeatable")
	listApplicableCmd.Flags().StringArrayVar(&listLanguages, "language", nil, "Restrict to these languages when no --include is given")
}

func runListApplicable(cmd *cobra.Command, args []string) error {
	selectorPath, target := args[0], args[1]

	selectorSrc, err := os.ReadFile(selectorPath)
	if err != nil {
		return fmt.Errorf("reading selector: %w", err)
	}

	eng := newEngine(target)
	rule, err := eng.EvaluateSelector(string(selectorSrc))
	if err != nil {
		return fmt.Errorf("evaluating selector: %w", err)
	}

	pred := func(path string) (bool, error) {
		if rule == nil {
			return true, nil
		}
		handle, err := langhandle.FromPath(path)
		if err != nil {
			return false, nil
		}
		source, err := os.ReadFile(path)
		if err != nil {
			return false, err
		}
		root, err := sandbox.NewSgRoot(handle, source, path)
		if err != nil {
			return false, err
		}
		return len(sandbox.SelectorMatches(root, *rule)) > 0, nil
	}

	execCfg := config.ExecutionConfig{
		TargetPath:   target,
		BasePath:     listBasePath,
		IncludeGlobs: listInclude,
		ExcludeGlobs: listExclude,
		Languages:    listLanguages,
	}

	paths, err := pipeline.ListApplicable(cmd.Context(), execCfg, pred)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return nil
}
