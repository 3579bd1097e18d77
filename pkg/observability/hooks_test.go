package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Graph hooks
	g := NoopGraphHooks{}
	g.OnLoad(ctx, "demo", 12, time.Millisecond, nil)
	g.OnSave(ctx, "demo", 2048, time.Millisecond, errors.New("disk full"))
	g.OnPurge(ctx, "demo", "g1", 3, time.Millisecond)
	g.OnCopy(ctx, "demo", "g1", "g2", 5)
	g.OnRemove(ctx, "demo", "g1", "n1", nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "svg")
	c.OnCacheMiss(ctx, "svg")
	c.OnCacheSet(ctx, "svg", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Graph().(NoopGraphHooks); !ok {
		t.Error("Graph() should return NoopGraphHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	// Set custom hooks
	customGraph := &testGraphHooks{}
	SetGraphHooks(customGraph)
	if Graph() != customGraph {
		t.Error("SetGraphHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Graph().(NoopGraphHooks); !ok {
		t.Error("Reset() should restore NoopGraphHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset() should restore NoopCacheHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testGraphHooks{}
	SetGraphHooks(custom)

	// Setting nil should be ignored
	SetGraphHooks(nil)

	if Graph() != custom {
		t.Error("SetGraphHooks(nil) should be ignored")
	}

	Reset()
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	rec := &testGraphHooks{}
	SetGraphHooks(rec)

	Graph().OnPurge(context.Background(), "demo", "g1", 2, time.Millisecond)
	Graph().OnPurge(context.Background(), "demo", "g2", 1, time.Millisecond)

	if rec.purged != 3 {
		t.Errorf("purged = %d, want 3", rec.purged)
	}
}

// Test implementations
type testGraphHooks struct {
	NoopGraphHooks
	purged int
}

func (h *testGraphHooks) OnPurge(_ context.Context, _, _ string, removed int, _ time.Duration) {
	h.purged += removed
}

type testCacheHooks struct{ NoopCacheHooks }
