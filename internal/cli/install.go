package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gdm/pkg/deps"
)

// installOpts holds the flags shared by install and update.
type installOpts struct {
	force bool
	clean bool
	lock  bool // update only: lock the result
}

func (o *installOpts) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&o.force, "force", "f", false, "overwrite uncommitted changes and occupied link locations")
	cmd.Flags().BoolVarP(&o.clean, "clean", "c", false, "remove untracked and ignored files in dependencies")
}

// resolve applies settings defaults for flags not given on the command line.
func (c *CLI) resolve(cmd *cobra.Command, update bool) deps.InstallOptions {
	return deps.InstallOptions{
		Force:  boolFlag(cmd, "force", c.settings.Force),
		Clean:  boolFlag(cmd, "clean", c.settings.Clean),
		Update: update,
	}
}

// installCommand creates the install command.
func (c *CLI) installCommand() *cobra.Command {
	var opts installOpts

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install dependencies, using locked revisions when present",
		Long: `Install every dependency declared in gdm.yml, then recurse into any
configuration found inside the installed dependencies.

When the configuration has a sources_locked list, those exact commits are
installed instead of the declared revisions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInstall(cmd.Context(), c.resolve(cmd, false), false)
		},
	}

	opts.register(cmd)
	return cmd
}

// updateCommand creates the update command.
func (c *CLI) updateCommand() *cobra.Command {
	var opts installOpts

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update dependencies to the latest declared revisions",
		Long: `Install every dependency at its declared revision, ignoring any
sources_locked list, so branches move to their newest commit.

With --lock the resulting commits are written back to sources_locked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInstall(cmd.Context(), c.resolve(cmd, true), opts.lock)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.lock, "lock", false, "record the installed commits in sources_locked")
	return cmd
}

func (c *CLI) runInstall(ctx context.Context, opts deps.InstallOptions, lock bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	logger := loggerFromContext(ctx)
	logger.Debug("install", "force", opts.Force, "clean", opts.Clean, "update", opts.Update)

	runner := c.newRunner()
	prog := newProgress(logger)

	var count int
	err = c.withPrinter(ctx, func(ctx context.Context) error {
		var err error
		count, err = cfg.InstallDeps(ctx, runner, opts)
		return err
	})
	if err != nil {
		if count > 0 {
			printError(c.Out, "Stopped after installing %s", plural(count))
		}
		return err
	}

	if count == 0 {
		printInfo(c.Out, "No dependencies to install")
		return nil
	}
	printSuccess(c.Out, "Installed %s %s", plural(count), StyleDim.Render(fmt.Sprintf("(%s)", prog.elapsed())))

	if !lock {
		return nil
	}
	n, err := cfg.Lock(ctx, runner)
	if err != nil {
		return err
	}
	printSuccess(c.Out, "Locked %s", plural(n))
	printFile(c.Out, cfg.Path())
	return nil
}
