package deps

import (
	"context"
	"iter"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gdm/pkg/errors"
	"github.com/matzehuels/gdm/pkg/observability"
	"github.com/matzehuels/gdm/pkg/vcs"
)

const (
	DefaultLocation = "gdm_sources" // Default dependency-storage directory
	DefaultMaxDepth = 50            // Default maximum nesting depth
)

// Config is a project's dependency configuration.
type Config struct {
	Root     string `yaml:"-"` // absolute project directory
	Filename string `yaml:"-"` // one of Filenames, as found on disk

	Location      string   `yaml:"location"`
	Sources       []Source `yaml:"sources"`
	SourcesLocked []Source `yaml:"sources_locked,omitempty"`

	depth int
}

// NewConfig creates an empty configuration for root using the first
// recognized filename and the default location.
func NewConfig(root string) (*Config, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFilesystem, err, "resolve %s", root)
	}
	return &Config{Root: abs, Filename: Filenames[0], Location: DefaultLocation}, nil
}

// Path returns the configuration file's location.
func (c *Config) Path() string {
	return filepath.Join(c.Root, c.Filename)
}

// StorageDir returns the directory dependencies are installed into.
func (c *Config) StorageDir() string {
	location := c.Location
	if location == "" {
		location = DefaultLocation
	}
	return filepath.Join(c.Root, location)
}

// Validate checks the location and every declared and locked source.
func (c *Config) Validate() error {
	if err := errors.ValidateLocation(c.Location); err != nil {
		return err
	}
	for _, s := range c.Sources {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	for _, s := range c.SourcesLocked {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Runner carries the collaborators shared by every step of a traversal.
type Runner struct {
	VCS      vcs.VCS
	Logger   *log.Logger
	MaxDepth int // nesting bound; a dependency cycle fails here (default 50)
}

// NewRunner creates a Runner. A nil logger falls back to log.Default().
func NewRunner(v vcs.VCS, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{VCS: v, Logger: logger, MaxDepth: DefaultMaxDepth}
}

func (r *Runner) maxDepth() int {
	if r.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return r.MaxDepth
}

// InstallOptions configures InstallDeps.
type InstallOptions struct {
	Force  bool // overwrite local changes and occupied link locations
	Clean  bool // remove untracked and ignored files while updating
	Update bool // resolve declared revisions even when a lock list exists
}

// sourcesToInstall picks the locked list unless update was requested or
// nothing is locked.
func (c *Config) sourcesToInstall(update bool) []Source {
	if update || len(c.SourcesLocked) == 0 {
		return c.Sources
	}
	return c.SourcesLocked
}

// InstallDeps installs every dependency of c, recursing into configurations
// found inside the installed working copies. It returns the number of
// dependencies installed across the whole subtree.
//
// The first error stops the traversal. Dependencies installed before it stay
// on disk.
func (c *Config) InstallDeps(ctx context.Context, r *Runner, opts InstallOptions) (int, error) {
	if c.depth >= r.maxDepth() {
		return 0, errors.New(errors.ErrCodeMaxDepthExceeded,
			"dependencies nested deeper than %d levels at %s (circular dependency?)", r.maxDepth(), c.Root)
	}

	storage := c.StorageDir()
	if err := os.MkdirAll(storage, 0755); err != nil {
		return 0, errors.Wrap(errors.ErrCodeFilesystem, err, "create %s", storage)
	}
	observability.Install().OnInstallStart(ctx, storage, c.depth)

	sources := c.sourcesToInstall(opts.Update)
	locked := !opts.Update && len(c.SourcesLocked) > 0

	count := 0
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		src.Depth = c.depth + 1
		if err := src.install(ctx, r, c.Root, storage, opts); err != nil {
			return count, err
		}
		count++

		nested, err := c.nested(ctx, src, storage)
		if err != nil {
			return count, err
		}
		if nested == nil {
			continue
		}
		if locked && src.IsLocked() {
			nested.SourcesLocked = src.Locked
		}
		n, err := nested.InstallDeps(ctx, r, opts)
		count += n
		if err != nil {
			return count, err
		}
	}

	return count, nil
}

// nested loads the configuration inside src's working copy, if any, and sets
// its display depth.
func (c *Config) nested(ctx context.Context, src Source, storage string) (*Config, error) {
	nested, err := Load(src.WorkDir(storage))
	if err != nil || nested == nil {
		return nil, err
	}
	nested.depth = src.Depth
	observability.Install().OnNestedConfig(ctx, nested.Path(), src.Depth)
	return nested, nil
}

// GetDeps yields the identity of every declared dependency, depth-first in
// declaration order, each followed by its own nested dependencies. Nothing is
// modified. A missing storage directory yields nothing.
//
// The sequence reads the tree lazily; iterating it again re-reads the disk.
// Iteration stops after the first error is yielded.
func (c *Config) GetDeps(ctx context.Context, r *Runner) iter.Seq2[Identity, error] {
	return func(yield func(Identity, error) bool) {
		c.walk(ctx, r, yield)
	}
}

// walk drives GetDeps. It returns false once the consumer stops or an error
// has been yielded.
func (c *Config) walk(ctx context.Context, r *Runner, yield func(Identity, error) bool) bool {
	if c.depth >= r.maxDepth() {
		yield(Identity{}, errors.New(errors.ErrCodeMaxDepthExceeded,
			"dependencies nested deeper than %d levels at %s (circular dependency?)", r.maxDepth(), c.Root))
		return false
	}

	storage := c.StorageDir()
	if !isDir(storage) {
		return true
	}

	for _, src := range c.Sources {
		if err := ctx.Err(); err != nil {
			yield(Identity{}, err)
			return false
		}

		src.Depth = c.depth + 1
		id, err := src.Identify(ctx, r, storage)
		if !yield(id, err) || err != nil {
			return false
		}

		nested, err := Load(src.WorkDir(storage))
		if err != nil {
			yield(Identity{}, err)
			return false
		}
		if nested == nil {
			continue
		}
		nested.depth = src.Depth
		if !nested.walk(ctx, r, yield) {
			return false
		}
	}
	return true
}

// LockDeps captures the installed tree as locked sources: each declared
// source pinned to the commit currently checked out, with its own nested
// dependencies locked beneath it. Missing or dirty working copies cannot be
// locked.
func (c *Config) LockDeps(ctx context.Context, r *Runner) ([]Source, error) {
	if c.depth >= r.maxDepth() {
		return nil, errors.New(errors.ErrCodeMaxDepthExceeded,
			"dependencies nested deeper than %d levels at %s (circular dependency?)", r.maxDepth(), c.Root)
	}

	storage := c.StorageDir()
	locked := make([]Source, 0, len(c.Sources))
	for _, src := range c.Sources {
		src.Depth = c.depth + 1
		id, err := src.Identify(ctx, r, storage)
		if err != nil {
			return nil, err
		}
		switch id.Rev {
		case Unknown:
			return nil, errors.New(errors.ErrCodeUnresolvedSource,
				"cannot lock %s: not installed (run 'gdm install')", id.Path)
		case Dirty:
			return nil, errors.New(errors.ErrCodeUnresolvedSource,
				"cannot lock %s: uncommitted changes", id.Path)
		}

		entry := Source{Repo: src.Repo, Dir: src.Dir, Rev: id.Rev, Link: src.Link}

		nested, err := Load(src.WorkDir(storage))
		if err != nil {
			return nil, err
		}
		if nested != nil {
			nested.depth = src.Depth
			if entry.Locked, err = nested.LockDeps(ctx, r); err != nil {
				return nil, err
			}
			if len(entry.Locked) == 0 {
				entry.Locked = nil
			}
		}
		locked = append(locked, entry)
	}
	return locked, nil
}

// Lock records the installed tree in SourcesLocked and saves the
// configuration file.
func (c *Config) Lock(ctx context.Context, r *Runner) (int, error) {
	locked, err := c.LockDeps(ctx, r)
	if err != nil {
		return 0, err
	}
	c.SourcesLocked = locked
	if err := c.Save(); err != nil {
		return 0, err
	}
	return countSources(locked), nil
}

// UninstallDeps removes the dependency-storage directory. It reports whether
// anything was removed. Link aliases are left in place.
func (c *Config) UninstallDeps() (bool, error) {
	storage := c.StorageDir()
	if !exists(storage) {
		return false, nil
	}
	if err := os.RemoveAll(storage); err != nil {
		return false, errors.Wrap(errors.ErrCodeFilesystem, err, "remove %s", storage)
	}
	return true, nil
}

func countSources(sources []Source) int {
	n := len(sources)
	for _, s := range sources {
		n += countSources(s.Locked)
	}
	return n
}
