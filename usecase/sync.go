package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"main/dto"
	"main/middleware"
	"main/model"
	"main/services"

	"github.com/google/uuid"
)

// NoteStore is the persistence half of the remote store adapter.
type NoteStore interface {
	ListNotes(ctx context.Context, userID string) ([]model.NoteRow, error)
	InsertNote(ctx context.Context, userID string, draft model.NoteDraft) (model.NoteRow, error)
	UpdateNote(ctx context.Context, noteID string, userID string, updates model.NoteUpdate) (model.NoteRow, error)
	DeleteNote(ctx context.Context, noteID string, userID string) (bool, error)
	ToggleFavorite(ctx context.Context, noteID string, userID string) (model.NoteRow, error)
}

// ChangeFeed is the notification half of the remote store adapter.
type ChangeFeed interface {
	Subscribe(ctx context.Context, userID string, name string, handlers services.ChangeHandlers) (services.Subscription, error)
}

// Lifecycle states of the engine's subscription.
type engineState int

const (
	stateIdle engineState = iota
	stateInitializing
	stateSubscribing
	stateActive
	stateClosing
)

// SyncEngine keeps one user's in-memory note collection consistent with
// the remote store. Local mutations go through the store and come back
// as change events; the collection is only ever modified by
// reconciliation and explicit pointer setters, never by the mutation
// methods themselves.
//
// The engine owns exactly one subscription at a time. Every lifecycle
// attempt carries a fresh nonce; callbacks and in-flight confirmations
// that outlive their nonce are ignored, so a teardown or restart cannot
// race a stale subscribe.
type SyncEngine struct {
	mu sync.Mutex

	userID   string
	store    NoteStore
	feed     ChangeFeed
	notifier *services.Notifier

	coll   *noteCollection
	filter model.NoteFilter
	status model.SyncStatus

	state       engineState
	nonce       string
	sub         services.Subscription
	initialized bool
	retired     bool
}

// storeCallTimeout bounds every remote store round-trip so a hung call
// cannot leave the status stuck at syncing.
const storeCallTimeout = 5 * time.Second

func storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, storeCallTimeout)
}

// NewSyncEngine constructs an engine for one user. Misconfiguration is a
// construction-time error, not a runtime surprise. An empty userID is
// allowed: such an engine refuses to load or subscribe (auth not ready).
func NewSyncEngine(userID string, store NoteStore, feed ChangeFeed, notifier *services.Notifier) (*SyncEngine, error) {
	if store == nil {
		return nil, errors.New("sync engine requires a note store")
	}
	if feed == nil {
		return nil, errors.New("sync engine requires a change feed")
	}
	if notifier == nil {
		notifier = services.NewNotifier(0)
	}
	return &SyncEngine{
		userID:   userID,
		store:    store,
		feed:     feed,
		notifier: notifier,
		coll:     newNoteCollection(),
		status:   model.SyncDisconnected,
		state:    stateIdle,
	}, nil
}

// Start performs the initial bulk load and opens the change channel.
// It is idempotent: a second Start while active is a no-op. A Start
// while an older channel is still open closes that channel first, so at
// most one subscription is ever live.
func (e *SyncEngine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.retired {
		e.mu.Unlock()
		return errors.New("sync engine retired")
	}
	if e.initialized && e.state == stateActive {
		e.mu.Unlock()
		return nil
	}
	if e.userID == "" {
		// Auth not resolved: no load, no subscribe, status untouched.
		e.mu.Unlock()
		return nil
	}

	old := e.sub
	e.sub = nil
	nonce := uuid.New().String()
	e.nonce = nonce
	e.state = stateInitializing
	e.setStatusLocked(model.SyncSyncing)
	e.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			log.Printf("sync engine: closing superseded channel for user %s: %v", e.userID, err)
		}
		middleware.TrackSubscriptionClosed()
	}

	loadCtx, cancel := storeCtx(ctx)
	rows, err := e.store.ListNotes(loadCtx, e.userID)
	cancel()
	if err != nil {
		e.abortStart(nonce)
		return fmt.Errorf("initial load failed: %w", err)
	}

	e.mu.Lock()
	if e.nonce != nonce {
		// Torn down while loading; drop the stale result.
		e.mu.Unlock()
		return nil
	}
	e.coll.reset(dto.RowsToNotes(rows))
	e.state = stateSubscribing
	e.mu.Unlock()

	name := subscriptionName(e.userID, nonce)
	subCtx, cancelSub := storeCtx(ctx)
	sub, err := e.feed.Subscribe(subCtx, e.userID, name, services.ChangeHandlers{
		OnInsert: func(row model.NoteRow) { e.reconcileInsert(nonce, row) },
		OnUpdate: func(row model.NoteRow) { e.reconcileUpdate(nonce, row) },
		OnDelete: func(noteID string) { e.reconcileDelete(nonce, noteID) },
		OnClosed: func() { e.reconcileClosed(nonce) },
	})
	cancelSub()
	if err != nil {
		e.abortStart(nonce)
		return err
	}

	e.mu.Lock()
	if e.nonce != nonce {
		// Confirmation arrived after teardown; discard it.
		e.mu.Unlock()
		if err := sub.Close(); err != nil {
			log.Printf("sync engine: closing stale channel for user %s: %v", e.userID, err)
		}
		return nil
	}
	e.sub = sub
	e.state = stateActive
	e.initialized = true
	e.setStatusLocked(model.SyncConnected)
	e.mu.Unlock()

	middleware.TrackSubscriptionOpened()
	return nil
}

// Stop tears the subscription down. Close errors are logged and
// swallowed since the session is ending regardless; the initialized
// marker is always cleared.
func (e *SyncEngine) Stop() {
	e.mu.Lock()
	e.nonce = ""
	e.initialized = false
	e.state = stateClosing
	sub := e.sub
	e.sub = nil
	e.mu.Unlock()

	if sub != nil {
		if err := sub.Close(); err != nil {
			log.Printf("sync engine: channel close failed during teardown for user %s: %v", e.userID, err)
		}
		middleware.TrackSubscriptionClosed()
	}

	e.mu.Lock()
	e.state = stateIdle
	e.mu.Unlock()
}

// Retire stops the engine permanently. A retired engine refuses to
// start or refresh again; callers get a fresh engine from the registry
// instead. This closes the race where a teardown evicts the engine
// while a concurrent Start is still in flight.
func (e *SyncEngine) Retire() {
	e.mu.Lock()
	e.retired = true
	e.mu.Unlock()
	e.Stop()
}

// Refresh forces a new bulk load without touching the subscription.
func (e *SyncEngine) Refresh(ctx context.Context) error {
	e.mu.Lock()
	if e.retired {
		e.mu.Unlock()
		return errors.New("sync engine retired")
	}
	if e.userID == "" {
		e.mu.Unlock()
		return model.ErrAuthRequired
	}
	nonce := e.nonce
	e.setStatusLocked(model.SyncSyncing)
	e.mu.Unlock()

	loadCtx, cancel := storeCtx(ctx)
	rows, err := e.store.ListNotes(loadCtx, e.userID)
	cancel()

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.setStatusLocked(model.SyncDisconnected)
		return fmt.Errorf("refresh failed: %w", err)
	}
	if e.nonce != nonce {
		// Lifecycle moved on while we were loading.
		return nil
	}
	e.coll.reset(dto.RowsToNotes(rows))
	e.setStatusLocked(model.SyncConnected)
	return nil
}

// abortStart rolls a failed Start back to idle, unless a newer attempt
// or a teardown already superseded this one.
func (e *SyncEngine) abortStart(nonce string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.nonce != nonce {
		return
	}
	e.state = stateIdle
	e.initialized = false
	e.setStatusLocked(model.SyncDisconnected)
}

// Reconciliation callbacks. Each checks its nonce so events from a
// superseded subscription cannot touch the collection.

func (e *SyncEngine) reconcileInsert(nonce string, row model.NoteRow) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.nonce != nonce {
		return
	}
	note := dto.RowToNote(row)
	if e.coll.applyInsert(note) {
		middleware.TrackReconcileEvent("insert")
		e.notifier.Success(fmt.Sprintf("Note %q added", note.Title))
	}
}

func (e *SyncEngine) reconcileUpdate(nonce string, row model.NoteRow) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.nonce != nonce {
		return
	}
	if e.coll.applyUpdate(dto.RowToNote(row)) {
		middleware.TrackReconcileEvent("update")
	}
}

func (e *SyncEngine) reconcileDelete(nonce string, noteID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.nonce != nonce {
		return
	}
	if e.coll.applyDelete(noteID) {
		middleware.TrackReconcileEvent("delete")
	}
}

// reconcileClosed handles a channel that died without a deliberate
// teardown (lost connection). The engine drops back to idle and reports
// disconnected; recovery is a new Start.
func (e *SyncEngine) reconcileClosed(nonce string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.nonce != nonce {
		return
	}

	log.Printf("sync engine: change channel lost for user %s", e.userID)
	e.nonce = ""
	e.initialized = false
	e.state = stateIdle
	if e.sub != nil {
		// Best-effort release of the dead subscription's resources.
		if err := e.sub.Close(); err != nil {
			log.Printf("sync engine: closing lost channel for user %s: %v", e.userID, err)
		}
		e.sub = nil
		middleware.TrackSubscriptionClosed()
	}
	e.setStatusLocked(model.SyncDisconnected)
}

// Read surface for UI consumers.

func (e *SyncEngine) UserID() string {
	return e.userID
}

func (e *SyncEngine) Notes() []model.Note {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.coll.snapshot()
}

func (e *SyncEngine) FilteredNotes() []model.Note {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.coll.filtered(e.filter)
}

func (e *SyncEngine) CurrentNote() *model.Note {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.coll.current == nil {
		return nil
	}
	n := *e.coll.current
	return &n
}

func (e *SyncEngine) SelectedNote() *model.Note {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.coll.selected == nil {
		return nil
	}
	n := *e.coll.selected
	return &n
}

func (e *SyncEngine) SyncStatus() model.SyncStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Notifications drains the engine's pending user-visible notifications.
func (e *SyncEngine) Notifications() []services.Notification {
	return e.notifier.Drain()
}

// Write surface for UI consumers (collection pointers and filters only;
// note mutations live in notes.go).

func (e *SyncEngine) SetCurrentNote(noteID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.coll.setCurrent(noteID)
}

func (e *SyncEngine) SetSelectedNote(noteID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.coll.setSelected(noteID)
}

func (e *SyncEngine) SetFilter(filter model.NoteFilter) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filter = filter
}

func (e *SyncEngine) Filter() model.NoteFilter {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filter
}

func (e *SyncEngine) setStatusLocked(status model.SyncStatus) {
	if e.status == status {
		return
	}
	e.status = status
	middleware.TrackSyncStatus(string(status))
}

// subscriptionName uniquely names one session's subscription so
// concurrent sessions of the same user are distinguishable in logs and
// stale confirmations are attributable.
func subscriptionName(userID string, nonce string) string {
	return fmt.Sprintf("notes:%s:%s", userID, nonce)
}
