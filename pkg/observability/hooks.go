// Package observability provides hooks for reporting dependency installation
// progress.
//
// Libraries emit events; the entry point decides what to do with them. The CLI
// registers a printer that indents each line by nesting depth. Tests and
// embedders can register their own recorder or leave the no-op default.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetInstallHooks(&printer{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Install().OnSourceStart(ctx, src.String(), depth)
//	// ... fetch and check out ...
//	observability.Install().OnSourceComplete(ctx, src.String(), depth, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// InstallHooks receives events from dependency installation.
type InstallHooks interface {
	// OnInstallStart fires when a config begins installing into storage.
	OnInstallStart(ctx context.Context, storage string, depth int)

	// Per-source events
	OnSourceStart(ctx context.Context, source string, depth int)
	OnSourceComplete(ctx context.Context, source string, depth int, duration time.Duration, err error)

	// OnLinkCreated records a link alias pointing at a working copy.
	OnLinkCreated(ctx context.Context, link, target string, depth int)

	// OnNestedConfig records discovery of a config inside a working copy.
	OnNestedConfig(ctx context.Context, path string, depth int)
}

// NoopInstallHooks is a no-op implementation of InstallHooks.
type NoopInstallHooks struct{}

func (NoopInstallHooks) OnInstallStart(context.Context, string, int) {}
func (NoopInstallHooks) OnSourceStart(context.Context, string, int)  {}
func (NoopInstallHooks) OnSourceComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopInstallHooks) OnLinkCreated(context.Context, string, string, int) {}
func (NoopInstallHooks) OnNestedConfig(context.Context, string, int)       {}

var (
	installHooks InstallHooks = NoopInstallHooks{}
	hooksMu      sync.RWMutex
)

// SetInstallHooks registers custom install hooks.
// This should be called once at application startup before any installs.
func SetInstallHooks(h InstallHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		installHooks = h
	}
}

// Install returns the registered install hooks.
func Install() InstallHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return installHooks
}

// Reset restores the no-op default. Useful in tests.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	installHooks = NoopInstallHooks{}
}
