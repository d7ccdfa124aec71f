package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/codemod-rs/codemod-go/internal/config"
	"github.com/codemod-rs/codemod-go/internal/workflow"
)

var (
	workflowDryRun bool
)

var workflowCmd = &cobra.Command{
	Use:   "workflow",
	Short: "Run or watch a declarative multi-step workflow",
}

var workflowRunCmd = &cobra.Command{
	Use:   "run <workflow-file> <target>",
	Short: "Execute a workflow's steps once, in order",
	Args:  cobra.ExactArgs(2),
	RunE:  runWorkflowRun,
}

var workflowWatchCmd = &cobra.Command{
	Use:   "watch <workflow-file> <target>",
	Short: "Re-run a workflow whenever a file directly in target changes (subdirectories are not watched)",
	Args:  cobra.ExactArgs(2),
	RunE:  runWorkflowWatch,
}

func init() {
	workflowCmd.PersistentFlags().BoolVar(&workflowDryRun, "dry-run", false, "Report diffs instead of writing changes")
	workflowCmd.AddCommand(workflowRunCmd, workflowWatchCmd)
}

func buildExecutor(target string, wf workflow.Workflow) *workflow.Executor {
	eng := newEngine(target)
	r := newRunner(nil, target, config.DefaultDiffConfig(), false)
	return workflow.NewExecutor(eng, r, target, capabilitySet(), workflowDryRun)
}

func reportWorkflowResults(cmd *cobra.Command, results []workflow.StepResult) {
	for _, r := range results {
		if r.Skipped {
			fmt.Fprintf(cmd.OutOrStdout(), "step %s: skipped\n", r.StepID)
			continue
		}
		if r.Report == nil {
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "step %s: modified=%d unmodified=%d errors=%d\n",
			r.StepID, r.Report.Stats.FilesModified, r.Report.Stats.FilesUnmodified, r.Report.Stats.FilesWithErrors)
		if r.Report.DryRun {
			for _, d := range r.Report.Diffs {
				fmt.Fprint(cmd.OutOrStdout(), d.DiffText)
			}
		}
	}
}

func runWorkflowRun(cmd *cobra.Command, args []string) error {
	wfPath, target := args[0], args[1]

	wf, err := workflow.Load(wfPath)
	if err != nil {
		return fmt.Errorf("loading workflow: %w", err)
	}

	ex := buildExecutor(target, wf)
	results, err := ex.Run(cmd.Context(), wf)
	reportWorkflowResults(cmd, results)
	if err != nil {
		return err
	}
	return nil
}

func runWorkflowWatch(cmd *cobra.Command, args []string) error {
	wfPath, target := args[0], args[1]

	wf, err := workflow.Load(wfPath)
	if err != nil {
		return fmt.Errorf("loading workflow: %w", err)
	}

	ex := buildExecutor(target, wf)
	w, err := workflow.NewWatcher(ex, wf)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	w.OnRun = func(results []workflow.StepResult, err error) {
		reportWorkflowResults(cmd, results)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "watching %s for changes (ctrl-c to stop)\n", target)
	w.Start(ctx)
	<-ctx.Done()
	w.Stop()
	return nil
}
