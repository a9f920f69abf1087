package cli

import (
	"fmt"
	"strconv"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/app"
	"github.com/SwapLabsInc/ChadGI-sub001/internal/domain"
	"github.com/SwapLabsInc/ChadGI-sub001/internal/usecase"
	"github.com/spf13/cobra"
)

// parseTaskID converts a command argument to an issue number. A leading
// '#' is accepted so numbers can be pasted straight from the tracker.
func parseTaskID(arg string) (int, error) {
	if len(arg) > 1 && arg[0] == '#' {
		arg = arg[1:]
	}
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid issue number %q", arg)
	}
	return id, nil
}

// parseCheckpoint validates the --checkpoint flag value.
func parseCheckpoint(arg string) (domain.Checkpoint, error) {
	if arg == "" {
		return "", nil
	}
	for _, cp := range domain.AllCheckpoints() {
		if string(cp) == arg {
			return cp, nil
		}
	}
	return "", fmt.Errorf("unknown checkpoint %q (expected pre_task, phase1, or phase2)", arg)
}

// newDecideCommand builds approve, reject, and skip, which differ only in
// the decision they record.
func newDecideCommand(c *app.Container, use, short string, decision domain.ApprovalDecision) *cobra.Command {
	var opts struct {
		Checkpoint string
		Message    string
	}

	cmd := &cobra.Command{
		Use:   use + " <issue>",
		Short: short,
		Long: short + ` for an issue waiting at an approval checkpoint.

A running loop in another terminal picks the decision up on its next
poll. When the issue has exactly one pending checkpoint the
--checkpoint flag may be omitted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			checkpoint, err := parseCheckpoint(opts.Checkpoint)
			if err != nil {
				return err
			}

			uc := c.DecideApprovalUseCase()
			if err := uc.Execute(cmd.Context(), usecase.DecideApprovalInput{
				TaskID:     taskID,
				Checkpoint: checkpoint,
				Decision:   decision,
				Message:    opts.Message,
			}); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Issue #%d: %s\n", taskID, decision)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Checkpoint, "checkpoint", "", "Checkpoint to decide (pre_task, phase1, phase2)")
	cmd.Flags().StringVarP(&opts.Message, "message", "m", "", "Message recorded with the decision")

	return cmd
}

// newApproveCommand creates the approve command.
func newApproveCommand(c *app.Container) *cobra.Command {
	return newDecideCommand(c, "approve", "Approve a pending checkpoint", domain.DecisionApproved)
}

// newRejectCommand creates the reject command.
func newRejectCommand(c *app.Container) *cobra.Command {
	return newDecideCommand(c, "reject", "Reject a pending checkpoint", domain.DecisionRejected)
}

// newSkipCommand creates the skip command.
func newSkipCommand(c *app.Container) *cobra.Command {
	return newDecideCommand(c, "skip", "Skip a pending checkpoint's task", domain.DecisionSkipped)
}
