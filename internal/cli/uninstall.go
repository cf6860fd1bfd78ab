package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/gdm/pkg/deps"
)

// uninstallCommand creates the uninstall command.
func (c *CLI) uninstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the dependency storage directory",
		Long: `Remove the directory dependencies are installed into (gdm_sources by
default). Link aliases outside it are left in place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			removed, err := cfg.UninstallDeps()
			if err != nil {
				return err
			}
			if !removed {
				printInfo(c.Out, "Nothing to uninstall")
				return nil
			}
			printSuccess(c.Out, "Removed %s", cfg.StorageDir())
			if hasLinks(cfg.Sources) {
				printDetail(c.Out, "Link aliases were left in place")
			}
			return nil
		},
	}
}

func hasLinks(sources []deps.Source) bool {
	for _, s := range sources {
		if s.Link != "" {
			return true
		}
	}
	return false
}
