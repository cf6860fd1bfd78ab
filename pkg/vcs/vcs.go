// Package vcs defines the revision-control operations gdm needs and an
// implementation backed by the git command-line tool.
//
// Every operation names the working copy it acts on. Nothing here reads or
// changes the process working directory.
package vcs

import "context"

// VCS performs revision-control operations on a working copy at dir.
type VCS interface {
	// Init creates an empty repository in dir.
	Init(ctx context.Context, dir string) error

	// Fetch points dir's origin at repo and fetches rev from it.
	Fetch(ctx context.Context, dir, repo, rev string) error

	// Update checks out rev in dir. With clean set, untracked and ignored
	// files are removed first.
	Update(ctx context.Context, dir, rev string, clean bool) error

	// HasChanges reports whether dir contains uncommitted changes.
	HasChanges(ctx context.Context, dir string) (bool, error)

	// RemoteURL returns the URL of dir's origin remote.
	RemoteURL(ctx context.Context, dir string) (string, error)

	// CurrentSHA returns the commit checked out in dir.
	CurrentSHA(ctx context.Context, dir string) (string, error)
}

// MetadataDir is the directory whose presence marks a working copy as
// already initialized.
const MetadataDir = ".git"
