package deps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/gdm/pkg/errors"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		wantFile string
	}{
		{"none", []string{"README.md"}, ""},
		{"gdm.yml", []string{"gdm.yml"}, "gdm.yml"},
		{"hidden yaml", []string{".gdm.yaml"}, ".gdm.yaml"},
		{"case-insensitive", []string{"GDM.YML"}, "GDM.YML"},
		{"priority over listing order", []string{".gdm.yml", "gdm.yaml"}, "gdm.yaml"},
		{"first name wins", []string{"gdm.yaml", "gdm.yml", ".gdm.yml"}, "gdm.yml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			for _, f := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(root, f), []byte("sources: []\n"), 0644))
			}

			cfg, err := Load(root)
			require.NoError(t, err)
			if tt.wantFile == "" {
				assert.Nil(t, cfg)
				return
			}
			require.NotNil(t, cfg)
			assert.Equal(t, tt.wantFile, cfg.Filename)
			assert.Equal(t, root, cfg.Root)
			assert.Equal(t, filepath.Join(root, tt.wantFile), cfg.Path())
		})
	}
}

func TestLoadIgnoresDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "gdm.yml"), 0755))

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadMissingDirectory(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing repo", "sources:\n  - dir: libX\n"},
		{"missing dir", "sources:\n  - repo: X\n"},
		{"invalid locked entry", "sources_locked:\n  - repo: X\n    dir: x\n    sources_locked:\n      - repo: Y\n"},
		{"malformed yaml", "sources: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(root, "gdm.yml"), []byte(tt.content), 0644))

			cfg, err := Load(root)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "code = %s", errors.GetCode(err))
		})
	}
}

func TestUnmarshalDefaults(t *testing.T) {
	cfg, err := Unmarshal([]byte("sources:\n  - repo: X\n    dir: libX\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultLocation, cfg.Location)
	require.Len(t, cfg.Sources, 1)
	assert.Equal(t, DefaultRev, cfg.Sources[0].Rev)
	assert.Empty(t, cfg.SourcesLocked)

	empty, err := Unmarshal(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultLocation, empty.Location)
	assert.Empty(t, empty.Sources)
}

func TestUnmarshalJSON(t *testing.T) {
	cfg, err := Unmarshal([]byte(`{"location": "vendor", "sources": [{"repo": "X", "dir": "x", "rev": "v1", "link": "lib/x"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "vendor", cfg.Location)
	assert.Equal(t, []Source{{Repo: "X", Dir: "x", Rev: "v1", Link: "lib/x"}}, cfg.Sources)
}

func TestUnmarshalPreservesOrder(t *testing.T) {
	cfg, err := Unmarshal([]byte(`
sources:
  - {repo: Z, dir: z}
  - {repo: A, dir: a}
  - {repo: Z, dir: z}
`))
	require.NoError(t, err)
	var dirs []string
	for _, s := range cfg.Sources {
		dirs = append(dirs, s.Dir)
	}
	assert.Equal(t, []string{"z", "a", "z"}, dirs)
}

func TestSaveRoundTrip(t *testing.T) {
	root := t.TempDir()
	cfg, err := NewConfig(root)
	require.NoError(t, err)
	cfg.Sources = []Source{{Repo: "X", Dir: "x", Rev: "v1", Link: "lib/x"}}
	cfg.SourcesLocked = []Source{{
		Repo: "X", Dir: "x", Rev: "abc",
		Locked: []Source{{Repo: "Y", Dir: "y", Rev: "def"}},
	}}
	require.NoError(t, cfg.Save())

	data, err := os.ReadFile(filepath.Join(root, "gdm.yml"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "depth")

	loaded, err := Load(root)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, cfg.Location, loaded.Location)
	assert.Equal(t, cfg.Sources, loaded.Sources)
	assert.Equal(t, cfg.SourcesLocked, loaded.SourcesLocked)
}
