// Package deps installs nested source dependencies declared in gdm
// configuration files.
//
// # Overview
//
// A project declares its dependencies in one of the recognized configuration
// files ([Filenames]). Each [Source] names a git repository, the directory it
// is checked out to under the project's dependency-storage directory, the
// revision to check out, and an optional link alias. After a source is
// checked out, its working copy is searched for a configuration file of its
// own; if one exists, those dependencies are installed beneath it. Tree depth
// is therefore discovered while installing, not declared up front.
//
// # Installing
//
//	cfg, err := deps.Load(root)
//	if err != nil || cfg == nil {
//	    // no configuration in root
//	}
//	r := deps.NewRunner(vcs.NewGit("", logger), logger)
//	count, err := cfg.InstallDeps(ctx, r, deps.InstallOptions{})
//
// [Config.InstallDeps] installs the locked list ([Config.SourcesLocked]) when
// one exists, unless Update is set, in which case the declared list is
// resolved again. [Config.Lock] freezes the installed tree back into the
// configuration file.
//
// # Inspecting
//
// [Config.GetDeps] yields the identity (path, remote URL, commit) of every
// installed dependency in depth-first order without modifying anything.
//
// # Paths
//
// Every operation works on absolute paths derived from [Config.Root]. The
// process working directory is never read or changed.
//
// # Ordering
//
// Sources are installed in declaration order and never deduplicated. When two
// subtrees declare the same directory, the later one wins.
package deps
