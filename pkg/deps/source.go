package deps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/gdm/pkg/errors"
	"github.com/matzehuels/gdm/pkg/observability"
	"github.com/matzehuels/gdm/pkg/vcs"
)

// DefaultRev is checked out when a source does not name a revision.
const DefaultRev = "master"

// Sentinel identity values.
const (
	Missing = "<missing>" // URL of a dependency that is not installed
	Unknown = "<unknown>" // revision of a dependency that is not installed
	Dirty   = "<dirty>"   // revision of a working copy with local changes
)

// Source is one declared dependency.
//
// A Source with a non-empty Locked list is a locked source: it carries the
// resolved nested dependency tree captured when the lock was generated.
type Source struct {
	Repo   string   `yaml:"repo"`
	Dir    string   `yaml:"dir"`
	Rev    string   `yaml:"rev"`
	Link   string   `yaml:"link,omitempty"`
	Locked []Source `yaml:"sources_locked,omitempty"`

	// Depth is the nesting level assigned just before installation.
	Depth int `yaml:"-"`
}

// NewSource creates a validated Source. An empty rev means [DefaultRev].
func NewSource(repo, dir, rev, link string) (Source, error) {
	if rev == "" {
		rev = DefaultRev
	}
	s := Source{Repo: repo, Dir: dir, Rev: rev, Link: link}
	if err := s.Validate(); err != nil {
		return Source{}, err
	}
	return s, nil
}

// Validate checks required fields, including those of locked sub-sources.
func (s Source) Validate() error {
	if err := errors.ValidateRepo(s.Repo); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSource, err, "invalid source %s", s)
	}
	if err := errors.ValidateDir(s.Dir); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSource, err, "invalid source %s", s)
	}
	if err := errors.ValidateLink(s.Link); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSource, err, "invalid source %s", s)
	}
	for _, l := range s.Locked {
		if err := l.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// UnmarshalYAML decodes and validates a source entry, applying the default
// revision.
func (s *Source) UnmarshalYAML(node *yaml.Node) error {
	type plain Source
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	if p.Rev == "" {
		p.Rev = DefaultRev
	}
	src := Source(p)
	if err := src.Validate(); err != nil {
		return err
	}
	*s = src
	return nil
}

// String renders the source as 'repo' @ 'rev' in 'dir', with " <- 'link'"
// appended when a link is set.
func (s Source) String() string {
	str := fmt.Sprintf("'%s' @ '%s' in '%s'", s.Repo, s.Rev, s.Dir)
	if s.Link != "" {
		str += fmt.Sprintf(" <- '%s'", s.Link)
	}
	return str
}

// IsLocked reports whether the source carries a nested lock list.
func (s Source) IsLocked() bool {
	return len(s.Locked) > 0
}

func (s Source) revision() string {
	if s.Rev == "" {
		return DefaultRev
	}
	return s.Rev
}

// WorkDir returns the working-copy path under storage.
func (s Source) WorkDir(storage string) string {
	return filepath.Join(storage, s.Dir)
}

// UpdateFiles brings the working copy under storage to s.Rev. Without force,
// a working copy with uncommitted changes is left untouched and an
// UNCOMMITTED_CHANGES error is returned.
func (s Source) UpdateFiles(ctx context.Context, r *Runner, storage string, force, clean bool) error {
	dir := s.WorkDir(storage)
	r.Logger.Debug("updating source files", "source", s.String(), "dir", dir)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "create %s", dir)
	}

	if !exists(filepath.Join(dir, vcs.MetadataDir)) {
		r.Logger.Debug("creating a new repository", "dir", dir)
		if err := r.VCS.Init(ctx, dir); err != nil {
			return err
		}
	} else if !force {
		r.Logger.Debug("confirming there are no uncommitted changes", "dir", dir)
		changed, err := r.VCS.HasChanges(ctx, dir)
		if err != nil {
			return err
		}
		if changed {
			return errors.New(errors.ErrCodeUncommittedChanges,
				"uncommitted changes ('--force' to overwrite): %s", dir)
		}
	}

	rev := s.revision()
	if err := r.VCS.Fetch(ctx, dir, s.Repo, rev); err != nil {
		return err
	}
	return r.VCS.Update(ctx, dir, rev, clean)
}

// CreateLink points root/Link at the working copy with a relative symlink so
// the tree can be moved as a whole. An existing symlink is always replaced; any
// other file or directory is removed only with force, otherwise a
// LINK_OCCUPIED error is returned. No-op when Link is unset.
func (s Source) CreateLink(ctx context.Context, root, storage string, force bool) error {
	if s.Link == "" {
		return nil
	}

	target := filepath.Join(root, s.Link)
	rel, err := filepath.Rel(filepath.Dir(target), s.WorkDir(storage))
	if err != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "resolve link %s", target)
	}

	if info, err := os.Lstat(target); err == nil {
		switch {
		case info.Mode()&os.ModeSymlink != 0:
			if err := os.Remove(target); err != nil {
				return errors.Wrap(errors.ErrCodeFilesystem, err, "remove link %s", target)
			}
		case force:
			if err := os.RemoveAll(target); err != nil {
				return errors.Wrap(errors.ErrCodeFilesystem, err, "remove %s", target)
			}
		default:
			return errors.New(errors.ErrCodeLinkOccupied,
				"preexisting link location ('--force' to overwrite): %s", target)
		}
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "create %s", filepath.Dir(target))
	}
	if err := os.Symlink(rel, target); err != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "link %s", target)
	}

	observability.Install().OnLinkCreated(ctx, target, rel, s.Depth)
	return nil
}

// Identity describes an installed dependency.
type Identity struct {
	Path  string // absolute working-copy path
	URL   string // origin URL, or [Missing]
	Rev   string // commit SHA, [Dirty], or [Unknown]
	Depth int    // nesting level, 1 for direct dependencies
}

// Installed reports whether the working copy exists.
func (id Identity) Installed() bool {
	return id.URL != Missing
}

// Identify reports the working copy's path, remote URL, and commit. A missing
// working copy is not an error: it yields [Missing] and [Unknown]. A working
// copy with local changes reports [Dirty] instead of a commit.
func (s Source) Identify(ctx context.Context, r *Runner, storage string) (Identity, error) {
	path := s.WorkDir(storage)
	id := Identity{Path: path, URL: Missing, Rev: Unknown, Depth: s.Depth}

	if !isDir(path) {
		return id, nil
	}

	url, err := r.VCS.RemoteURL(ctx, path)
	if err != nil {
		return id, err
	}
	changed, err := r.VCS.HasChanges(ctx, path)
	if err != nil {
		return id, err
	}
	id.URL = url
	if changed {
		id.Rev = Dirty
		return id, nil
	}
	sha, err := r.VCS.CurrentSHA(ctx, path)
	if err != nil {
		return id, err
	}
	id.Rev = sha
	return id, nil
}

// install runs UpdateFiles and CreateLink, reporting progress through the
// install hooks.
func (s Source) install(ctx context.Context, r *Runner, root, storage string, opts InstallOptions) error {
	hooks := observability.Install()
	start := time.Now()
	hooks.OnSourceStart(ctx, s.String(), s.Depth)

	err := s.UpdateFiles(ctx, r, storage, opts.Force, opts.Clean)
	if err == nil {
		err = s.CreateLink(ctx, root, storage, opts.Force)
	}

	hooks.OnSourceComplete(ctx, s.String(), s.Depth, time.Since(start), err)
	return err
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
