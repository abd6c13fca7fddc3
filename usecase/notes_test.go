package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"main/model"
	"main/services"
)

func TestCreateNoteDoesNotTouchCollection(t *testing.T) {
	store := &fakeStore{}
	feed := &fakeFeed{}
	engine := newTestEngine(t, store, feed)

	if err := engine.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	note, err := engine.CreateNote(context.Background(), model.NoteDraft{Title: "X"})
	if err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}
	if note == nil || note.ID != "created-1" {
		t.Fatalf("expected created note back, got %+v", note)
	}

	// The facade never mutates the collection; the insert event does.
	if got := len(engine.Notes()); got != 0 {
		t.Fatalf("collection mutated by facade: %d notes before any event", got)
	}

	feed.handlers.OnInsert(makeRow("created-1", "X"))

	notes := engine.Notes()
	if len(notes) != 1 || notes[0].ID != "created-1" {
		t.Errorf("insert event not reconciled: %+v", notes)
	}
}

func TestMutationsRequireAuthenticatedUser(t *testing.T) {
	engine, err := NewSyncEngine("", &fakeStore{}, &fakeFeed{}, nil)
	if err != nil {
		t.Fatalf("failed to construct engine: %v", err)
	}
	ctx := context.Background()

	if _, err := engine.CreateNote(ctx, model.NoteDraft{Title: "X"}); !errors.Is(err, model.ErrAuthRequired) {
		t.Errorf("CreateNote: expected auth error, got %v", err)
	}
	if _, err := engine.UpdateNote(ctx, "n1", model.NoteUpdate{}); !errors.Is(err, model.ErrAuthRequired) {
		t.Errorf("UpdateNote: expected auth error, got %v", err)
	}
	if _, err := engine.DeleteNote(ctx, "n1"); !errors.Is(err, model.ErrAuthRequired) {
		t.Errorf("DeleteNote: expected auth error, got %v", err)
	}
	if _, err := engine.ToggleFavorite(ctx, "n1"); !errors.Is(err, model.ErrAuthRequired) {
		t.Errorf("ToggleFavorite: expected auth error, got %v", err)
	}
}

func TestMutationStatusTransitions(t *testing.T) {
	store := &fakeStore{}
	feed := &fakeFeed{}
	engine := newTestEngine(t, store, feed)

	if err := engine.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Successful mutation ends connected
	if _, err := engine.CreateNote(context.Background(), model.NoteDraft{Title: "X"}); err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}
	if engine.SyncStatus() != model.SyncConnected {
		t.Errorf("expected connected after success, got %s", engine.SyncStatus())
	}

	// Transport failure flips to disconnected
	store.insertErr = fmt.Errorf("%w: connection reset", model.ErrStoreUnavailable)
	if _, err := engine.CreateNote(context.Background(), model.NoteDraft{Title: "X"}); err == nil {
		t.Fatal("expected store error")
	}
	if engine.SyncStatus() != model.SyncDisconnected {
		t.Errorf("expected disconnected after store failure, got %s", engine.SyncStatus())
	}
}

func TestValidationErrorKeepsStatus(t *testing.T) {
	store := &fakeStore{}
	feed := &fakeFeed{}
	engine := newTestEngine(t, store, feed)

	if err := engine.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	store.insertErr = fmt.Errorf("%w: note title is required", model.ErrValidation)
	_, err := engine.CreateNote(context.Background(), model.NoteDraft{})
	if !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// A rejected draft says nothing about connectivity
	if engine.SyncStatus() != model.SyncConnected {
		t.Errorf("validation failure flipped status to %s", engine.SyncStatus())
	}
}

func TestUpdateNoteNotFound(t *testing.T) {
	store := &fakeStore{updateErr: model.ErrNoteNotFound}
	feed := &fakeFeed{}
	engine := newTestEngine(t, store, feed)

	if err := engine.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	note, err := engine.UpdateNote(context.Background(), "ghost", model.NoteUpdate{})
	if err != nil {
		t.Fatalf("not-found should not error: %v", err)
	}
	if note != nil {
		t.Errorf("expected nil note for unknown id, got %+v", note)
	}
	if engine.SyncStatus() != model.SyncConnected {
		t.Errorf("not-found flipped status to %s", engine.SyncStatus())
	}
}

func TestMutationsEmitNotifications(t *testing.T) {
	store := &fakeStore{}
	feed := &fakeFeed{}
	notifier := services.NewNotifier(0)
	engine, err := NewSyncEngine("user-1", store, feed, notifier)
	if err != nil {
		t.Fatalf("failed to construct engine: %v", err)
	}

	if _, err := engine.CreateNote(context.Background(), model.NoteDraft{Title: "X"}); err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}
	store.deleteErr = fmt.Errorf("%w: down", model.ErrStoreUnavailable)
	if _, err := engine.DeleteNote(context.Background(), "n1"); err == nil {
		t.Fatal("expected delete error")
	}

	notifications := engine.Notifications()
	if len(notifications) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notifications))
	}
	if notifications[0].Level != services.NotifySuccess {
		t.Errorf("expected success first, got %s", notifications[0].Level)
	}
	if notifications[1].Level != services.NotifyError {
		t.Errorf("expected error second, got %s", notifications[1].Level)
	}
}

func TestToggleFavoriteReturnsFlippedNote(t *testing.T) {
	store := &fakeStore{}
	feed := &fakeFeed{}
	engine := newTestEngine(t, store, feed)

	note, err := engine.ToggleFavorite(context.Background(), "n1")
	if err != nil {
		t.Fatalf("ToggleFavorite failed: %v", err)
	}
	if note == nil || !note.IsFavorite {
		t.Errorf("expected favorited note back, got %+v", note)
	}
}
