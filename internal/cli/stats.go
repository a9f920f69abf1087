package cli

import (
	"fmt"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/app"
	"github.com/spf13/cobra"
)

// newStatsCommand creates the stats command.
func newStatsCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate statistics over all sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.ShowStatsUseCase()
			out, err := uc.Execute(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			t := out.Totals
			_, _ = fmt.Fprintf(w, "Sessions:       %d\n", out.Sessions)
			_, _ = fmt.Fprintf(w, "Tasks attempted: %d (succeeded %d, skipped %d, failed %d)\n",
				t.Attempted, t.Succeeded, t.Skipped, t.Failed)
			_, _ = fmt.Fprintf(w, "Pull requests:  %d\n", t.PullRequests)
			_, _ = fmt.Fprintf(w, "Total cost:     $%.2f", t.TotalCost)
			if t.Attempted > 0 {
				_, _ = fmt.Fprintf(w, " (avg $%.2f per task)", t.AvgCost)
			}
			_, _ = fmt.Fprintln(w)
			_, _ = fmt.Fprintf(w, "Total elapsed:  %.0fs", t.TotalElapsed)
			if t.Attempted > 0 {
				_, _ = fmt.Fprintf(w, " (avg %.0fs per task)", t.AvgElapsed)
			}
			_, _ = fmt.Fprintln(w)
			return nil
		},
	}
}
