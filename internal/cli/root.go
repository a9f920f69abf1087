// Package cli provides the command-line interface for chadgi.
package cli

import (
	"fmt"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/app"
	"github.com/spf13/cobra"
)

// Command group IDs.
const (
	groupSetup   = "setup"
	groupRun     = "run"
	groupInspect = "inspect"
)

// NewRootCommand creates the root command for chadgi.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "chadgi",
		Short: "Autonomous backlog runner for GitHub issues",
		Long: `chadgi drives a backlog of GitHub issues through an external coding
agent, one task at a time. Each iteration selects the highest-priority
unblocked issue, gates it behind budget and approval checkpoints, runs
the agent to completion, and records the outcome.

State lives under .git/chadgi/ in the current repository.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip for init: the state directory does not exist yet
			if cmd.Name() == "init" {
				return nil
			}

			// Skip if container is nil (e.g. in tests)
			if c == nil {
				return nil
			}

			for _, w := range c.Config.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
	}

	// Define command groups
	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupRun, Title: "Run & Control:"},
		&cobra.Group{ID: groupInspect, Title: "Inspection:"},
	)

	// Setup commands
	initCmd := newInitCommand(c)
	initCmd.GroupID = groupSetup

	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	// Run & control commands
	runCmd := newRunCommand(c)
	runCmd.GroupID = groupRun

	approveCmd := newApproveCommand(c)
	approveCmd.GroupID = groupRun

	rejectCmd := newRejectCommand(c)
	rejectCmd.GroupID = groupRun

	skipCmd := newSkipCommand(c)
	skipCmd.GroupID = groupRun

	reviewCmd := newReviewCommand(c)
	reviewCmd.GroupID = groupRun

	// Inspection commands
	queueCmd := newQueueCommand(c)
	queueCmd.GroupID = groupInspect

	historyCmd := newHistoryCommand(c)
	historyCmd.GroupID = groupInspect

	statsCmd := newStatsCommand(c)
	statsCmd.GroupID = groupInspect

	snapshotCmd := newSnapshotCommand(c)
	snapshotCmd.GroupID = groupInspect

	root.AddCommand(
		initCmd,
		configCmd,
		runCmd,
		approveCmd,
		rejectCmd,
		skipCmd,
		reviewCmd,
		queueCmd,
		historyCmd,
		statsCmd,
		snapshotCmd,
	)

	return root
}
