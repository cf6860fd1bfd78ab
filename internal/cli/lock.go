package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// lockCommand creates the lock command.
func (c *CLI) lockCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lock",
		Short: "Record the installed commits in sources_locked",
		Long: `Pin every installed dependency, including nested ones, to the commit
currently checked out and save the result as sources_locked.

Dependencies that are missing or have uncommitted changes cannot be locked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			prog := newProgress(loggerFromContext(cmd.Context()))
			n, err := cfg.Lock(cmd.Context(), c.newRunner())
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Locked %s", plural(n)))

			printSuccess(c.Out, "Locked %s", plural(n))
			printFile(c.Out, cfg.Path())
			return nil
		},
	}
}
