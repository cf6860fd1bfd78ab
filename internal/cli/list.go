package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gdm/pkg/deps"
)

// listCommand creates the list command.
func (c *CLI) listCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the path, repository, and commit of each dependency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			ids, err := collect(cmd.Context(), cfg, c.newRunner())
			if err != nil {
				return err
			}

			if len(ids) == 0 {
				printInfo(c.Out, "No dependencies installed")
				return nil
			}
			if plain {
				for _, id := range ids {
					fmt.Fprintf(c.Out, "%s\t%s\t%s\n", id.Path, id.URL, id.Rev)
				}
				return nil
			}

			fmt.Fprintln(c.Out, renderIdentities(cfg.Root, ids))
			if missing := countMissing(ids); missing > 0 {
				printWarning(c.Out, "%s not installed (run 'gdm install')", plural(missing))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "tab-separated output without styling")
	return cmd
}

// collect drains GetDeps.
func collect(ctx context.Context, cfg *deps.Config, r *deps.Runner) ([]deps.Identity, error) {
	var ids []deps.Identity
	for id, err := range cfg.GetDeps(ctx, r) {
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func countMissing(ids []deps.Identity) int {
	n := 0
	for _, id := range ids {
		if !id.Installed() {
			n++
		}
	}
	return n
}
