package cli

import (
	"fmt"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/app"
	"github.com/spf13/cobra"
)

// newInitCommand creates the init command.
func newInitCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the repository for chadgi",
		Long: `Initialize a repository for chadgi.

This command creates the .git/chadgi/ directory with an annotated
config.toml holding the default settings. Edit it to point at your
tracker labels, budget limits, and approval checkpoints.

Preconditions:
- Current directory must be inside a git repository

Error conditions:
- Already initialized: "chadgi already initialized"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.ConfigLoader.InitRepoConfig(); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Initialized chadgi in %s\n", c.Paths.StateDir)
			return nil
		},
	}
}
