package deps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/gdm/pkg/vcs"
)

// fakeVCS serves in-memory upstream repositories. Update writes the files of
// the requested revision into the working copy, so nested configs appear just
// like they would after a real checkout.
type fakeVCS struct {
	upstream map[string]map[string]map[string]string // repo -> rev -> path -> content
	dirty    map[string]bool                         // working copy -> has changes
	remotes  map[string]string                       // working copy -> repo
	revs     map[string]string                       // working copy -> rev

	fetches []string // "dir@rev" per Fetch call
	updates []string // "dir@rev" per Update call
}

var _ vcs.VCS = (*fakeVCS)(nil)

func newFakeVCS() *fakeVCS {
	return &fakeVCS{
		upstream: make(map[string]map[string]map[string]string),
		dirty:    make(map[string]bool),
		remotes:  make(map[string]string),
		revs:     make(map[string]string),
	}
}

// publish adds files to repo at rev.
func (f *fakeVCS) publish(repo, rev string, files map[string]string) {
	if f.upstream[repo] == nil {
		f.upstream[repo] = make(map[string]map[string]string)
	}
	f.upstream[repo][rev] = files
}

func (f *fakeVCS) Init(_ context.Context, dir string) error {
	return os.MkdirAll(filepath.Join(dir, vcs.MetadataDir), 0755)
}

func (f *fakeVCS) Fetch(_ context.Context, dir, repo, rev string) error {
	f.fetches = append(f.fetches, filepath.Base(dir)+"@"+rev)
	if _, ok := f.upstream[repo]; !ok {
		return fmt.Errorf("repository not found: %s", repo)
	}
	f.remotes[dir] = repo
	return nil
}

func (f *fakeVCS) Update(_ context.Context, dir, rev string, _ bool) error {
	f.updates = append(f.updates, filepath.Base(dir)+"@"+rev)
	files, ok := f.upstream[f.remotes[dir]][strings.TrimPrefix(rev, "sha-")]
	if !ok {
		return fmt.Errorf("unknown revision %s", rev)
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return err
		}
	}
	f.revs[dir] = strings.TrimPrefix(rev, "sha-")
	return nil
}

func (f *fakeVCS) HasChanges(_ context.Context, dir string) (bool, error) {
	return f.dirty[dir], nil
}

func (f *fakeVCS) RemoteURL(_ context.Context, dir string) (string, error) {
	url, ok := f.remotes[dir]
	if !ok {
		return "", fmt.Errorf("no remote in %s", dir)
	}
	return url, nil
}

func (f *fakeVCS) CurrentSHA(_ context.Context, dir string) (string, error) {
	rev, ok := f.revs[dir]
	if !ok {
		return "", fmt.Errorf("no commit in %s", dir)
	}
	return "sha-" + rev, nil
}

// writeConfig writes a gdm.yml into dir and loads it.
func writeConfig(t *testing.T, dir, content string) *Config {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "gdm.yml"), []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg == nil {
		t.Fatalf("no config loaded from %s", dir)
	}
	return cfg
}
