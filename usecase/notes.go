package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"main/dto"
	"main/middleware"
	"main/model"
)

// Mutation facade. Each operation requires an authenticated user, calls
// the remote store directly, and reports call-level success or failure
// through the sync status and a user-visible notification. None of them
// touch the in-memory collection: the collection is updated only when
// the resulting change event is reconciled.

// CreateNote persists a draft and returns the created note so callers
// can navigate to it immediately. The collection entry still arrives
// via the insert event.
func (e *SyncEngine) CreateNote(ctx context.Context, draft model.NoteDraft) (*model.Note, error) {
	if e.userID == "" {
		return nil, model.ErrAuthRequired
	}

	prev := e.beginMutation()
	callCtx, cancel := storeCtx(ctx)
	defer cancel()
	row, err := e.store.InsertNote(callCtx, e.userID, draft)
	if err != nil {
		e.failMutation("create", prev, err)
		return nil, err
	}
	e.endMutation("create", "Note created")

	note := dto.RowToNote(row)
	return &note, nil
}

// UpdateNote applies a partial update. Returns (nil, nil) when the id
// does not exist remotely.
func (e *SyncEngine) UpdateNote(ctx context.Context, noteID string, updates model.NoteUpdate) (*model.Note, error) {
	if e.userID == "" {
		return nil, model.ErrAuthRequired
	}

	prev := e.beginMutation()
	callCtx, cancel := storeCtx(ctx)
	defer cancel()
	row, err := e.store.UpdateNote(callCtx, noteID, e.userID, updates)
	if err != nil {
		e.failMutation("update", prev, err)
		if errors.Is(err, model.ErrNoteNotFound) {
			return nil, nil
		}
		return nil, err
	}
	e.endMutation("update", "Note updated")

	note := dto.RowToNote(row)
	return &note, nil
}

// DeleteNote removes a note; the boolean reports whether the id existed.
func (e *SyncEngine) DeleteNote(ctx context.Context, noteID string) (bool, error) {
	if e.userID == "" {
		return false, model.ErrAuthRequired
	}

	prev := e.beginMutation()
	callCtx, cancel := storeCtx(ctx)
	defer cancel()
	deleted, err := e.store.DeleteNote(callCtx, noteID, e.userID)
	if err != nil {
		e.failMutation("delete", prev, err)
		return false, err
	}
	if !deleted {
		// Nothing to remove; the call itself still succeeded.
		e.mu.Lock()
		e.setStatusLocked(prev)
		e.mu.Unlock()
		e.notifier.Error("Note not found")
		return false, nil
	}
	e.endMutation("delete", "Note deleted")
	return true, nil
}

// ToggleFavorite flips the favorite flag through the store's toggle
// primitive and returns the resulting note.
func (e *SyncEngine) ToggleFavorite(ctx context.Context, noteID string) (*model.Note, error) {
	if e.userID == "" {
		return nil, model.ErrAuthRequired
	}

	prev := e.beginMutation()
	callCtx, cancel := storeCtx(ctx)
	defer cancel()
	row, err := e.store.ToggleFavorite(callCtx, noteID, e.userID)
	if err != nil {
		e.failMutation("favorite", prev, err)
		if errors.Is(err, model.ErrNoteNotFound) {
			return nil, nil
		}
		return nil, err
	}

	note := dto.RowToNote(row)
	if note.IsFavorite {
		e.endMutation("favorite", "Added to favorites")
	} else {
		e.endMutation("favorite", "Removed from favorites")
	}
	return &note, nil
}

// beginMutation flips the status to syncing and remembers the previous
// value so non-connectivity failures can restore it.
func (e *SyncEngine) beginMutation() model.SyncStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	prev := e.status
	e.setStatusLocked(model.SyncSyncing)
	return prev
}

func (e *SyncEngine) endMutation(operation string, message string) {
	e.mu.Lock()
	e.setStatusLocked(model.SyncConnected)
	e.mu.Unlock()

	middleware.TrackNoteOperation(operation, "success")
	e.notifier.Success(message)
}

// failMutation records the failure. Validation and not-found errors say
// nothing about connectivity, so they restore the previous status;
// everything else means the store is unreachable.
func (e *SyncEngine) failMutation(operation string, prev model.SyncStatus, err error) {
	e.mu.Lock()
	if errors.Is(err, model.ErrValidation) || errors.Is(err, model.ErrNoteNotFound) {
		e.setStatusLocked(prev)
	} else {
		e.setStatusLocked(model.SyncDisconnected)
	}
	e.mu.Unlock()

	middleware.TrackNoteOperation(operation, "failure")
	e.notifier.Error(fmt.Sprintf("Failed to %s note", operation))
	log.Printf("sync engine: %s failed for user %s: %v", operation, e.userID, err)
}
