package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/app"
	"github.com/SwapLabsInc/ChadGI-sub001/internal/usecase"
	"github.com/spf13/cobra"
)

// newQueueCommand creates the queue command.
func newQueueCommand(c *app.Container) *cobra.Command {
	var ignoreDeps bool

	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Preview the backlog in execution order",
		Long: `Display the ready issues in the order the loop would attempt them,
with the priority class and any unresolved blocking issues.

Output format is tab-separated with columns:
  ID, PRIORITY, BLOCKED, TITLE`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.ListQueueUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ListQueueInput{
				IgnoreDeps: ignoreDeps,
			})
			if err != nil {
				return err
			}

			if len(out.Entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No ready issues")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			defer func() { _ = tw.Flush() }()

			_, _ = fmt.Fprintln(tw, "ID\tPRIORITY\tBLOCKED\tTITLE")
			for _, e := range out.Entries {
				blocked := "-"
				if e.Blocked {
					ids := make([]string, len(e.BlockingIDs))
					for i, id := range e.BlockingIDs {
						ids[i] = fmt.Sprintf("#%d", id)
					}
					blocked = strings.Join(ids, ",")
				}
				_, _ = fmt.Fprintf(tw, "#%d\t%s\t%s\t%s\n", e.Task.ID, e.Priority, blocked, e.Task.Title)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&ignoreDeps, "ignore-deps", false, "Ignore dependency references between issues")

	return cmd
}
