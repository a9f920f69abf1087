package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/app"
	"github.com/SwapLabsInc/ChadGI-sub001/internal/usecase"
	"github.com/spf13/cobra"
)

// newRunCommand creates the run command, the control loop itself.
func newRunCommand(c *app.Container) *cobra.Command {
	var opts struct {
		MaxTasks    int
		DryRun      bool
		IgnoreDeps  bool
		Interactive bool
	}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the backlog until exhausted or stopped",
		Long: `Run the control loop: select the next eligible issue, gate it behind
budget and approval checkpoints, drive the agent to completion, and
record the outcome. The loop repeats until the backlog is empty, a
stop condition fires, or it is interrupted.

Ctrl-C is honored at the next safe point: the in-flight task is
recorded as skipped and the session record is persisted before exit.

Examples:
  # Run the whole backlog
  chadgi run

  # Preview without mutating anything
  chadgi run --dry-run

  # Run at most two tasks, asking before each one
  chadgi run --max-tasks 2 --interactive`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			uc := c.RunBacklogUseCase()
			out, err := uc.Execute(ctx, usecase.RunBacklogInput{
				MaxTasks:    opts.MaxTasks,
				DryRun:      opts.DryRun,
				IgnoreDeps:  opts.IgnoreDeps,
				Interactive: opts.Interactive,
			})
			if out != nil {
				printRunSummary(cmd, out)
			}
			return err
		},
	}

	cmd.Flags().IntVar(&opts.MaxTasks, "max-tasks", 0, "Stop after this many attempted tasks (0 = unlimited)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Select and report without moving issues or running the agent")
	cmd.Flags().BoolVar(&opts.IgnoreDeps, "ignore-deps", false, "Ignore dependency references between issues")
	cmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false, "Require approval before each task")

	return cmd
}

func printRunSummary(cmd *cobra.Command, out *usecase.RunBacklogOutput) {
	w := cmd.OutOrStdout()
	s := out.Record.Summary

	_, _ = fmt.Fprintf(w, "\nSession %s stopped: %s\n", out.Record.ID, out.StopReason)
	_, _ = fmt.Fprintf(w, "Attempted %d  succeeded %d  skipped %d  failed %d\n",
		s.Attempted, s.Succeeded, s.Skipped, s.Failed)
	if s.Attempted > 0 {
		_, _ = fmt.Fprintf(w, "Cost $%.2f (avg $%.2f)  elapsed %.0fs\n",
			s.TotalCost, s.AvgCost, s.TotalElapsed)
	}
	if s.PullRequests > 0 {
		_, _ = fmt.Fprintf(w, "Pull requests opened: %d\n", s.PullRequests)
	}
}
