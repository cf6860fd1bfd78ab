// Package cli implements the gdm command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gdm/pkg/buildinfo"
	"github.com/matzehuels/gdm/pkg/deps"
	"github.com/matzehuels/gdm/pkg/errors"
	"github.com/matzehuels/gdm/pkg/observability"
	"github.com/matzehuels/gdm/pkg/vcs"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "gdm"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Out    io.Writer

	// VCS overrides the git adapter built from settings. Used by tests.
	VCS vcs.VCS

	root         string
	settingsPath string
	settings     Settings
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:   newLogger(w, level),
		Out:      os.Stdout,
		settings: DefaultSettings(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "gdm installs nested source dependencies",
		Long: `gdm checks out the git repositories a project declares in gdm.yml, links
them into place, and recurses into any gdm.yml found inside them. The resolved
tree can be locked to exact commits for reproducible installs.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadSettings(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.root, "root", "", "project directory (default: current directory)")
	root.PersistentFlags().StringVar(&c.settingsPath, "settings", "", "settings file (default: "+defaultSettingsHint()+")")

	// Register all subcommands
	root.AddCommand(c.installCommand())
	root.AddCommand(c.updateCommand())
	root.AddCommand(c.lockCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.uninstallCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Project & Runner Factory
// =============================================================================

// projectRoot returns the absolute project directory.
func (c *CLI) projectRoot() (string, error) {
	root := c.root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeFilesystem, err, "get working directory")
		}
		root = wd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFilesystem, err, "resolve %s", root)
	}
	return abs, nil
}

// loadConfig finds and parses the project's configuration file.
func (c *CLI) loadConfig() (*deps.Config, error) {
	root, err := c.projectRoot()
	if err != nil {
		return nil, err
	}
	cfg, err := deps.Load(root)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "no configuration file found in %s", root)
	}
	c.Logger.Debug("loaded configuration", "path", cfg.Path())
	return cfg, nil
}

// newRunner creates a dependency runner for CLI use.
func (c *CLI) newRunner() *deps.Runner {
	v := c.VCS
	if v == nil {
		v = vcs.NewGit(c.settings.Git, c.Logger)
	}
	r := deps.NewRunner(v, c.Logger)
	if c.settings.MaxDepth > 0 {
		r.MaxDepth = c.settings.MaxDepth
	}
	return r
}

// withPrinter registers the progress printer for the duration of fn.
func (c *CLI) withPrinter(ctx context.Context, fn func(context.Context) error) error {
	observability.SetInstallHooks(newInstallPrinter(c.Out))
	defer observability.Reset()
	return fn(ctx)
}

// =============================================================================
// Flag Helpers
// =============================================================================

// boolFlag returns the flag's value when set on the command line and the
// settings fallback otherwise.
func boolFlag(cmd *cobra.Command, name string, fallback bool) bool {
	if !cmd.Flags().Changed(name) {
		return fallback
	}
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return fallback
	}
	return v
}
