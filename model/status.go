package model

// SyncStatus is the tri-state connectivity indicator consumed by UI
// clients. It is derived from load, mutation, and subscription outcomes;
// the last event to resolve wins.
type SyncStatus string

const (
	SyncConnected    SyncStatus = "connected"
	SyncSyncing      SyncStatus = "syncing"
	SyncDisconnected SyncStatus = "disconnected"
)
