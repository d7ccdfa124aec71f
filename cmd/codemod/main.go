// Package main implements the codemod CLI - a codemod/ast-grep-style
// code-transformation engine with a sandboxed script runtime, a codemod
// runner, and a declarative workflow orchestrator.
//
// This file is the entry point and command registration hub. Subcommand
// implementations are split across the other cmd_*.go files:
//
//   - cmd_run.go        - run: apply a codemod file to a target directory
//   - cmd_list.go       - list-applicable: print files a selector matches
//   - cmd_test.go       - test: run a codemod against fixture cases
//   - cmd_workflow.go   - workflow run / workflow watch
//   - cmd_langs.go      - langs download: fetch dynamic grammars ahead of time
//   - wiring.go         - shared Engine/Runner/semantic-facade construction
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/codemod-rs/codemod-go/internal/semantic/jsts"
	_ "github.com/codemod-rs/codemod-go/internal/semantic/pyprov"

	"github.com/codemod-rs/codemod-go/internal/logging"
)

var (
	verbose      bool
	allowFS      bool
	allowNetwork bool
	allowExec    bool
)

var rootCmd = &cobra.Command{
	Use:   "codemod",
	Short: "Sandboxed, multi-language codemod engine",
	Long: `codemod applies AST-grep-style transform scripts across a codebase,
inside a capability-gated sandbox, with optional semantic analysis and
declarative multi-step workflows.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Init(verbose)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug) logging")
	rootCmd.PersistentFlags().BoolVar(&allowFS, "allow-fs", false, "Grant the filesystem capability to scripts")
	rootCmd.PersistentFlags().BoolVar(&allowNetwork, "allow-network", false, "Grant the network capability to scripts")
	rootCmd.PersistentFlags().BoolVar(&allowExec, "allow-exec", false, "Grant the child-process capability to scripts")

	rootCmd.AddCommand(
		runCmd,
		listApplicableCmd,
		testCmd,
		workflowCmd,
		langsCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
