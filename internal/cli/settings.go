package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gdm/pkg/deps"
	"github.com/matzehuels/gdm/pkg/errors"
)

// settingsFile is the settings file name inside the config directory.
const settingsFile = "settings.toml"

// Settings are user defaults read from settings.toml. Command-line flags
// override them.
type Settings struct {
	Git      string `toml:"git"`       // git binary
	MaxDepth int    `toml:"max_depth"` // nesting bound
	Force    bool   `toml:"force"`     // default for --force
	Clean    bool   `toml:"clean"`     // default for --clean
	Verbose  bool   `toml:"verbose"`   // debug logging
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{Git: "git", MaxDepth: deps.DefaultMaxDepth}
}

// LoadSettings reads path over the defaults. A missing file is not an error.
// Keys absent from the file keep their default values.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return s, nil
	}

	md, err := toml.DecodeFile(path, &s)
	if err != nil {
		return DefaultSettings(), errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse settings %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return DefaultSettings(), errors.New(errors.ErrCodeInvalidConfig,
			"unknown settings key %q in %s", undecoded[0].String(), path)
	}
	if s.MaxDepth < 0 {
		return DefaultSettings(), errors.New(errors.ErrCodeInvalidConfig,
			"max_depth must not be negative in %s", path)
	}
	if s.Git == "" {
		s.Git = "git"
	}
	return s, nil
}

// loadSettings resolves the settings path and applies the file to c.
func (c *CLI) loadSettings() error {
	path := c.settingsPath
	if path == "" {
		dir, err := configDir()
		if err != nil {
			// No home directory: run with defaults.
			c.Logger.Debug("settings disabled", "error", err)
			return nil
		}
		path = filepath.Join(dir, settingsFile)
	}

	s, err := LoadSettings(path)
	if err != nil {
		return err
	}
	c.settings = s
	if s.Verbose {
		c.SetLogLevel(LogDebug)
	}
	c.Logger.Debug("settings", "path", path, "git", s.Git, "max_depth", s.MaxDepth)
	return nil
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the config directory using XDG standard (~/.config/gdm/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// defaultSettingsHint describes the default settings path for help text.
func defaultSettingsHint() string {
	return filepath.Join("$XDG_CONFIG_HOME", appName, settingsFile)
}
