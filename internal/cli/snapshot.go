package cli

import (
	"fmt"
	"os"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/app"
	"github.com/spf13/cobra"
)

func newSnapshotCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Export or import persisted state",
		Long:  "Export and restore session history, task metrics, and pending approvals as YAML.",
	}

	cmd.AddCommand(newSnapshotExportCommand(c))
	cmd.AddCommand(newSnapshotImportCommand(c))

	return cmd
}

func newSnapshotExportCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write a snapshot of the persisted state",
		Long:  "Write the persisted state as YAML to the given file, or to stdout when no file is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.ExportSnapshotUseCase()

			if len(args) == 0 {
				return uc.Execute(cmd.Context(), cmd.OutOrStdout())
			}

			f, err := os.Create(args[0]) //nolint:gosec // Destination chosen by the operator
			if err != nil {
				return fmt.Errorf("create snapshot file: %w", err)
			}
			defer func() { _ = f.Close() }()

			if err := uc.Execute(cmd.Context(), f); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Snapshot written to %s\n", args[0])
			return nil
		},
	}
}

func newSnapshotImportCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Restore persisted state from a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0]) //nolint:gosec // Source chosen by the operator
			if err != nil {
				return fmt.Errorf("open snapshot file: %w", err)
			}
			defer func() { _ = f.Close() }()

			uc := c.ImportSnapshotUseCase()
			if err := uc.Execute(cmd.Context(), f); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Snapshot restored from %s\n", args[0])
			return nil
		},
	}
}
