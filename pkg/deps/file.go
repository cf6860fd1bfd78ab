package deps

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/gdm/pkg/errors"
)

// Filenames lists the recognized configuration filenames in priority order.
// Matching is case-insensitive.
var Filenames = []string{"gdm.yml", "gdm.yaml", ".gdm.yml", ".gdm.yaml"}

// Load finds and parses the configuration file in root. It returns nil and no
// error when root has no recognized file or does not exist.
//
// When several recognized files coexist, the one earliest in [Filenames] wins,
// independent of directory listing order. Between names differing only by case,
// the lexically first one wins.
func Load(root string) (*Config, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFilesystem, err, "resolve %s", root)
	}

	filename, err := find(abs)
	if err != nil || filename == "" {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(abs, filename))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFilesystem, err, "read %s", filepath.Join(abs, filename))
	}

	cfg, err := Unmarshal(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", filepath.Join(abs, filename))
	}
	cfg.Root = abs
	cfg.Filename = filename
	return cfg, nil
}

// find returns the highest-priority recognized filename in dir, or "".
func find(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFilesystem, err, "list %s", dir)
	}

	for _, want := range Filenames {
		// ReadDir returns entries sorted by name.
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if strings.ToLower(e.Name()) == want {
				return e.Name(), nil
			}
		}
	}
	return "", nil
}

// Unmarshal parses a configuration document. Missing location defaults to
// [DefaultLocation]; every source entry is validated. JSON documents are
// accepted as well.
func Unmarshal(data []byte) (*Config, error) {
	cfg := &Config{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	if cfg.Location == "" {
		cfg.Location = DefaultLocation
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal renders the configuration document.
func Marshal(c *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the configuration to Path.
func (c *Config) Save() error {
	if c.Filename == "" {
		c.Filename = Filenames[0]
	}
	data, err := Marshal(c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode %s", c.Path())
	}
	if err := os.WriteFile(c.Path(), data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "write %s", c.Path())
	}
	return nil
}
