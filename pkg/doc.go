// Package pkg provides the libraries behind gdm, a manager for nested source
// dependencies.
//
// # Overview
//
// A project declares git repositories it depends on in gdm.yml. gdm checks
// each one out under a storage directory, optionally links it to an alias
// path, and repeats the process for any gdm.yml found inside the checkout.
// The resolved tree can be frozen into a lock list of exact commits.
//
//  1. [deps] - configuration files, sources, install/lock/list traversals
//  2. [vcs] - the revision control adapter and its git implementation
//  3. [graph] - export of an installed tree as JSON, DOT, or SVG
//  4. [observability] - install progress hooks
//  5. [errors] - coded errors shared by every package
//
// # Data Flow
//
//	gdm.yml
//	   ↓
//	[deps] Load → Config.InstallDeps ──→ [vcs] Fetch/Update
//	   ↓                                    ↓
//	nested gdm.yml (recursion)         working copies + links
//	   ↓
//	Config.GetDeps → [graph] / Config.LockDeps → sources_locked
//
// # Quick Start
//
//	cfg, err := deps.Load(projectDir)
//	if err != nil || cfg == nil {
//	    // handle error or missing gdm.yml
//	}
//	runner := deps.NewRunner(vcs.NewGit("git", logger), logger)
//	n, err := cfg.InstallDeps(ctx, runner, deps.InstallOptions{})
//
// [deps]: https://pkg.go.dev/github.com/matzehuels/gdm/pkg/deps
// [vcs]: https://pkg.go.dev/github.com/matzehuels/gdm/pkg/vcs
// [graph]: https://pkg.go.dev/github.com/matzehuels/gdm/pkg/graph
// [observability]: https://pkg.go.dev/github.com/matzehuels/gdm/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/gdm/pkg/errors
package pkg
