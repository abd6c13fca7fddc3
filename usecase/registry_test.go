package usecase

import (
	"context"
	"testing"
)

func TestRegistryEnsureReturnsSameEngine(t *testing.T) {
	store := &fakeStore{}
	feed := &fakeFeed{}
	registry, err := NewEngineRegistry(store, feed)
	if err != nil {
		t.Fatalf("failed to construct registry: %v", err)
	}

	first, err := registry.Ensure(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	second, err := registry.Ensure(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("second Ensure failed: %v", err)
	}

	if first != second {
		t.Error("Ensure created a second engine for the same user")
	}
	if feed.openSubs() != 1 {
		t.Errorf("expected exactly 1 open channel, got %d", feed.openSubs())
	}
}

func TestRegistryEnsureRequiresUser(t *testing.T) {
	registry, err := NewEngineRegistry(&fakeStore{}, &fakeFeed{})
	if err != nil {
		t.Fatalf("failed to construct registry: %v", err)
	}
	if _, err := registry.Ensure(context.Background(), ""); err == nil {
		t.Error("expected error for empty user id")
	}
}

func TestRegistryStopClosesChannel(t *testing.T) {
	store := &fakeStore{}
	feed := &fakeFeed{}
	registry, err := NewEngineRegistry(store, feed)
	if err != nil {
		t.Fatalf("failed to construct registry: %v", err)
	}

	if _, err := registry.Ensure(context.Background(), "user-1"); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	registry.Stop("user-1")

	if feed.openSubs() != 0 {
		t.Errorf("expected no open channels after Stop, got %d", feed.openSubs())
	}
	if registry.Get("user-1") != nil {
		t.Error("engine should be forgotten after Stop")
	}
}

func TestRegistryStopDuringStartKeepsSingleChannel(t *testing.T) {
	store := &fakeStore{}
	feed := &fakeFeed{}
	registry, err := NewEngineRegistry(store, feed)
	if err != nil {
		t.Fatalf("failed to construct registry: %v", err)
	}

	if _, err := registry.Ensure(context.Background(), "user-1"); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	evicted := registry.Get("user-1")
	if evicted == nil {
		t.Fatal("engine missing after Ensure")
	}

	// Teardown evicts the engine while another caller still holds it
	registry.Stop("user-1")

	// The orphaned Start must not reopen a channel nothing will close
	if err := evicted.Start(context.Background()); err == nil {
		t.Error("Start on an evicted engine should refuse")
	}
	if feed.openSubs() != 0 {
		t.Fatalf("evicted engine reopened a channel: %d open", feed.openSubs())
	}

	// The next session gets a fresh engine and exactly one channel
	fresh, err := registry.Ensure(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Ensure after Stop failed: %v", err)
	}
	if fresh == evicted {
		t.Error("registry handed back the evicted engine")
	}
	if feed.openSubs() != 1 {
		t.Errorf("expected exactly 1 open channel for the user, got %d", feed.openSubs())
	}
}

func TestRegistryStopAll(t *testing.T) {
	store := &fakeStore{}
	feed := &fakeFeed{}
	registry, err := NewEngineRegistry(store, feed)
	if err != nil {
		t.Fatalf("failed to construct registry: %v", err)
	}

	for _, userID := range []string{"user-1", "user-2", "user-3"} {
		if _, err := registry.Ensure(context.Background(), userID); err != nil {
			t.Fatalf("Ensure %s failed: %v", userID, err)
		}
	}
	registry.StopAll()

	if feed.openSubs() != 0 {
		t.Errorf("expected all channels closed, got %d open", feed.openSubs())
	}
}
