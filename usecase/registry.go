package usecase

import (
	"context"
	"errors"
	"sync"

	"main/services"
)

// EngineRegistry owns one SyncEngine per authenticated user. Engines are
// created on demand and torn down when the user's session ends. Repeated
// Ensure calls for the same user hit the engine's idempotent Start, so
// rapid re-entries cannot leak channels.
type EngineRegistry struct {
	mu      sync.Mutex
	engines map[string]*SyncEngine

	store NoteStore
	feed  ChangeFeed

	// NotifierCapacity sizes each engine's notification buffer. Zero
	// means the default. Set before serving traffic.
	NotifierCapacity int
}

func NewEngineRegistry(store NoteStore, feed ChangeFeed) (*EngineRegistry, error) {
	if store == nil {
		return nil, errors.New("engine registry requires a note store")
	}
	if feed == nil {
		return nil, errors.New("engine registry requires a change feed")
	}
	return &EngineRegistry{
		engines: make(map[string]*SyncEngine),
		store:   store,
		feed:    feed,
	}, nil
}

// Ensure returns the user's engine, creating and starting it on first
// use. The engine is returned even when Start fails (status reads
// disconnected and the collection is empty); the caller may retry via
// Refresh or a later Ensure.
func (r *EngineRegistry) Ensure(ctx context.Context, userID string) (*SyncEngine, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}

	r.mu.Lock()
	engine, ok := r.engines[userID]
	if !ok {
		var err error
		engine, err = NewSyncEngine(userID, r.store, r.feed, services.NewNotifier(r.NotifierCapacity))
		if err != nil {
			r.mu.Unlock()
			return nil, err
		}
		r.engines[userID] = engine
	}
	r.mu.Unlock()

	// Start outside the registry lock: it performs network round-trips.
	// It is a no-op when the engine is already active.
	return engine, engine.Start(ctx)
}

// Get returns the user's engine without starting one.
func (r *EngineRegistry) Get(userID string) *SyncEngine {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.engines[userID]
}

// Stop tears down and forgets the user's engine. The engine is retired,
// not merely stopped: a Start still in flight on the evicted instance
// must not reopen a channel nothing would ever close.
func (r *EngineRegistry) Stop(userID string) {
	r.mu.Lock()
	engine, ok := r.engines[userID]
	delete(r.engines, userID)
	r.mu.Unlock()

	if ok {
		engine.Retire()
	}
}

// StopAll tears down every engine; used on shutdown.
func (r *EngineRegistry) StopAll() {
	r.mu.Lock()
	engines := make([]*SyncEngine, 0, len(r.engines))
	for _, engine := range r.engines {
		engines = append(engines, engine)
	}
	r.engines = make(map[string]*SyncEngine)
	r.mu.Unlock()

	for _, engine := range engines {
		engine.Retire()
	}
}
