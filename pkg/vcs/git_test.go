package vcs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/gdm/pkg/errors"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	t.Setenv("GIT_AUTHOR_NAME", "gdm")
	t.Setenv("GIT_AUTHOR_EMAIL", "gdm@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "gdm")
	t.Setenv("GIT_COMMITTER_EMAIL", "gdm@example.com")
}

func git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-c", "commit.gpgsign=false", "-c", "tag.gpgsign=false"}, args...)...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
	return strings.TrimSpace(string(out))
}

// newUpstream creates a repository with a "v1" tag and one later commit on main.
func newUpstream(t *testing.T) (dir, v1, head string) {
	t.Helper()
	dir = t.TempDir()
	git(t, dir, "init")
	git(t, dir, "checkout", "-b", "main")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "VERSION"), []byte("1"), 0644))
	git(t, dir, "add", "VERSION")
	git(t, dir, "commit", "-m", "v1")
	git(t, dir, "tag", "v1")
	v1 = git(t, dir, "rev-parse", "HEAD")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "VERSION"), []byte("2"), 0644))
	git(t, dir, "commit", "-am", "v2")
	head = git(t, dir, "rev-parse", "HEAD")
	return dir, v1, head
}

func checkout(t *testing.T, g *Git, upstream, rev string) string {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, g.Init(ctx, dir))
	require.NoError(t, g.Fetch(ctx, dir, upstream, rev))
	require.NoError(t, g.Update(ctx, dir, rev, false))
	return dir
}

func TestGitCheckoutTag(t *testing.T) {
	requireGit(t)
	upstream, v1, _ := newUpstream(t)
	g := NewGit("", nil)
	ctx := context.Background()

	dir := checkout(t, g, upstream, "v1")

	data, err := os.ReadFile(filepath.Join(dir, "VERSION"))
	require.NoError(t, err)
	assert.Equal(t, "1", string(data))

	sha, err := g.CurrentSHA(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, v1, sha)

	url, err := g.RemoteURL(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, upstream, url)
}

func TestGitCheckoutBranch(t *testing.T) {
	requireGit(t)
	upstream, _, head := newUpstream(t)
	g := NewGit("", nil)

	dir := checkout(t, g, upstream, "main")

	sha, err := g.CurrentSHA(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, head, sha)
}

func TestGitCheckoutSHA(t *testing.T) {
	requireGit(t)
	upstream, v1, _ := newUpstream(t)
	g := NewGit("", nil)

	dir := checkout(t, g, upstream, v1)

	sha, err := g.CurrentSHA(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, v1, sha)
}

func TestGitHasChanges(t *testing.T) {
	requireGit(t)
	upstream, _, _ := newUpstream(t)
	g := NewGit("", nil)
	ctx := context.Background()

	dir := checkout(t, g, upstream, "v1")

	changed, err := g.HasChanges(ctx, dir)
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "VERSION"), []byte("local"), 0644))
	changed, err = g.HasChanges(ctx, dir)
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestGitUpdateClean(t *testing.T) {
	requireGit(t)
	upstream, _, _ := newUpstream(t)
	g := NewGit("", nil)
	ctx := context.Background()

	dir := checkout(t, g, upstream, "v1")
	untracked := filepath.Join(dir, "build.out")
	require.NoError(t, os.WriteFile(untracked, []byte("artifact"), 0644))

	require.NoError(t, g.Update(ctx, dir, "main", true))
	assert.NoFileExists(t, untracked)

	data, err := os.ReadFile(filepath.Join(dir, "VERSION"))
	require.NoError(t, err)
	assert.Equal(t, "2", string(data))
}

func TestGitErrorsAreCoded(t *testing.T) {
	requireGit(t)
	g := NewGit("", nil)

	// Not a repository.
	_, err := g.CurrentSHA(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeVCS))
}
