package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/app"
	"github.com/SwapLabsInc/ChadGI-sub001/internal/tui/review"
	"github.com/spf13/cobra"
)

// launchReviewTUIFunc is a function variable for launching the review
// TUI, allowing it to be mocked in tests.
var launchReviewTUIFunc = launchReviewTUI

// newReviewCommand creates the review command.
func newReviewCommand(c *app.Container) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review pending approval checkpoints",
		Long: `Open an interactive view of all checkpoints waiting for a decision.

A running loop in another terminal picks decisions up on its next poll.
Use --plain to print the pending list without the interactive view.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if plain {
				return printPendingApprovals(cmd, c)
			}
			return launchReviewTUIFunc(c)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Print the pending list instead of the interactive view")

	return cmd
}

// launchReviewTUI launches the interactive review TUI.
func launchReviewTUI(c *app.Container) error {
	model := review.New(c.ListPendingApprovalsUseCase(), c.DecideApprovalUseCase())
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// printPendingApprovals renders the pending artifacts as a table.
func printPendingApprovals(cmd *cobra.Command, c *app.Container) error {
	pending, err := c.ListPendingApprovalsUseCase().Execute(cmd.Context())
	if err != nil {
		return err
	}

	if len(pending) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No pending approvals")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "ID\tCHECKPOINT\tSINCE\tTITLE")
	for _, a := range pending {
		_, _ = fmt.Fprintf(tw, "#%d\t%s\t%s\t%s\n",
			a.TaskID, a.Checkpoint, a.Created.Format(time.DateTime), a.TaskTitle)
	}
	return nil
}
