package vcs

import (
	"bytes"
	"context"
	"os/exec"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gdm/pkg/errors"
)

// Git implements VCS by running the git binary with its working directory set
// to the target working copy.
type Git struct {
	Binary string // git executable (default "git")
	Logger *log.Logger
}

// NewGit creates a Git adapter. An empty binary means "git" on PATH; a nil
// logger falls back to log.Default().
func NewGit(binary string, logger *log.Logger) *Git {
	if binary == "" {
		binary = "git"
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Git{Binary: binary, Logger: logger}
}

var _ VCS = (*Git)(nil)

var shaRe = regexp.MustCompile(`^[0-9a-fA-F]{40}$`)

// run executes git in dir and returns trimmed combined output.
func (g *Git) run(ctx context.Context, dir string, args ...string) (string, error) {
	g.Logger.Debug("$ git "+strings.Join(args, " "), "dir", dir)

	cmd := exec.CommandContext(ctx, g.Binary, args...)
	cmd.Dir = dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	output := strings.TrimSpace(out.String())
	if err != nil {
		if ctx.Err() != nil {
			return output, ctx.Err()
		}
		if output != "" {
			return output, errors.Wrap(errors.ErrCodeVCS, err, "git %s in %s: %s", args[0], dir, output)
		}
		return output, errors.Wrap(errors.ErrCodeVCS, err, "git %s in %s", args[0], dir)
	}
	return output, nil
}

// tryRun runs a git command whose failure is expected in some states, such as
// pulling while on a tag.
func (g *Git) tryRun(ctx context.Context, dir string, args ...string) {
	if _, err := g.run(ctx, dir, args...); err != nil {
		g.Logger.Debug("ignored git failure", "err", err)
	}
}

// Init creates an empty repository.
func (g *Git) Init(ctx context.Context, dir string) error {
	_, err := g.run(ctx, dir, "init")
	return err
}

// Fetch replaces the origin remote with repo and fetches rev from it.
// Full SHAs and reflog expressions cannot be fetched by name, so those fetch
// every ref instead.
func (g *Git) Fetch(ctx context.Context, dir, repo, rev string) error {
	g.tryRun(ctx, dir, "remote", "remove", "origin")
	if _, err := g.run(ctx, dir, "remote", "add", "origin", repo); err != nil {
		return err
	}

	args := []string{"fetch", "--tags", "--force", "--prune", "origin"}
	if rev != "" && !shaRe.MatchString(rev) && !strings.Contains(rev, "@") {
		args = append(args, rev)
	}
	_, err := g.run(ctx, dir, args...)
	return err
}

// Update checks out rev, discarding local modifications. Branches are then
// fast-forwarded to their upstream.
func (g *Git) Update(ctx context.Context, dir, rev string, clean bool) error {
	g.tryRun(ctx, dir, "stash")
	if clean {
		if _, err := g.run(ctx, dir, "clean", "--force", "-d", "-x"); err != nil {
			return err
		}
	}
	if _, err := g.run(ctx, dir, "checkout", "--force", rev); err != nil {
		return err
	}
	g.tryRun(ctx, dir, "branch", "--set-upstream-to", "origin/"+rev)
	g.tryRun(ctx, dir, "pull", "--ff-only", "--no-rebase")
	return nil
}

// HasChanges reports tracked modifications and untracked files.
func (g *Git) HasChanges(ctx context.Context, dir string) (bool, error) {
	out, err := g.run(ctx, dir, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// RemoteURL returns origin's URL.
func (g *Git) RemoteURL(ctx context.Context, dir string) (string, error) {
	return g.run(ctx, dir, "config", "--get", "remote.origin.url")
}

// CurrentSHA returns HEAD's commit hash.
func (g *Git) CurrentSHA(ctx context.Context, dir string) (string, error) {
	return g.run(ctx, dir, "rev-parse", "HEAD")
}
