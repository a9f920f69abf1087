package cli

import (
	"fmt"
	"os"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/app"
	"github.com/SwapLabsInc/ChadGI-sub001/internal/infra/config"
	"github.com/spf13/cobra"
)

// newConfigCommand creates the config command.
func newConfigCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `Manage chadgi configuration files and settings.`,
		// No RunE: shows subcommand list when called without arguments
	}

	cmd.AddCommand(newConfigShowCommand(c))

	return cmd
}

// newConfigShowCommand creates the config show subcommand.
func newConfigShowCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display the effective configuration after merging all sources.

Shows which config files were consulted and the final merged values.
Repository config (.git/chadgi/config.toml) takes precedence over the
global file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()

			_, _ = fmt.Fprintln(w, "[Loaded from]")
			for _, path := range c.ConfigLoader.Sources() {
				if _, err := os.Stat(path); err != nil {
					_, _ = fmt.Fprintf(w, "- %s (not found)\n", path)
				} else {
					_, _ = fmt.Fprintf(w, "- %s\n", path)
				}
			}
			_, _ = fmt.Fprintln(w)

			data, err := config.Render(c.Config)
			if err != nil {
				return err
			}
			_, _ = w.Write(data)
			return nil
		},
	}
}
