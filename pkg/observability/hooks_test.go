package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	h := NoopInstallHooks{}
	h.OnInstallStart(ctx, "/project/gdm_sources", 0)
	h.OnSourceStart(ctx, "'repo' @ 'v1' in 'libX'", 1)
	h.OnSourceComplete(ctx, "'repo' @ 'v1' in 'libX'", 1, time.Second, nil)
	h.OnLinkCreated(ctx, "/project/deps/x", "../gdm_sources/libX", 1)
	h.OnNestedConfig(ctx, "/project/gdm_sources/libX/gdm.yml", 1)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Install().(NoopInstallHooks); !ok {
		t.Error("Install() should return NoopInstallHooks by default")
	}

	custom := &testInstallHooks{}
	SetInstallHooks(custom)
	if Install() != custom {
		t.Error("SetInstallHooks should set custom hooks")
	}

	Install().OnSourceStart(context.Background(), "src", 2)
	if custom.starts != 1 {
		t.Errorf("custom hooks received %d starts, want 1", custom.starts)
	}

	Reset()
	if _, ok := Install().(NoopInstallHooks); !ok {
		t.Error("Reset() should restore NoopInstallHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testInstallHooks{}
	SetInstallHooks(custom)
	SetInstallHooks(nil)

	if Install() != custom {
		t.Error("SetInstallHooks(nil) should not replace existing hooks")
	}
	Reset()
}

type testInstallHooks struct {
	NoopInstallHooks
	starts int
}

func (h *testInstallHooks) OnSourceStart(context.Context, string, int) { h.starts++ }
