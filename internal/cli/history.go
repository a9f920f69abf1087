package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/app"
	"github.com/SwapLabsInc/ChadGI-sub001/internal/usecase"
	"github.com/spf13/cobra"
)

// newHistoryCommand creates the history command.
func newHistoryCommand(c *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past sessions",
		Long: `Display persisted session records, oldest first.

Output format is tab-separated with columns:
  ID, STARTED, BRANCH, TASKS, OK, FAIL, COST`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.ShowHistoryUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ShowHistoryInput{Limit: limit})
			if err != nil {
				return err
			}

			if len(out.Sessions) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No sessions recorded")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			defer func() { _ = tw.Flush() }()

			_, _ = fmt.Fprintln(tw, "ID\tSTARTED\tBRANCH\tTASKS\tOK\tFAIL\tCOST")
			for _, rec := range out.Sessions {
				s := rec.Summary
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t$%.2f\n",
					rec.ID,
					rec.Started.Format(time.DateTime),
					rec.Branch,
					s.Attempted, s.Succeeded, s.Failed, s.TotalCost)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the most recent N sessions (0 = all)")

	return cmd
}
