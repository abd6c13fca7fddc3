package model

import "errors"

// Error kinds surfaced by the store adapter and the sync engine.
// Callers match with errors.Is. Validation and not-found errors are not
// connectivity problems and must not flip the sync status to
// disconnected.
var (
	ErrAuthRequired     = errors.New("authentication required")
	ErrStoreUnavailable = errors.New("note store unavailable")
	ErrValidation       = errors.New("validation failed")
	ErrNoteNotFound     = errors.New("note not found")
	ErrSubscription     = errors.New("subscription failed")
)
