package domain

import "time"

// SyncState is the phase of the most recent reconciliation with the remote source.
type SyncState string

const (
	SyncIdle    SyncState = "idle"
	SyncRunning SyncState = "syncing"
	SyncDone    SyncState = "synced"
	SyncFailed  SyncState = "failed"
)

// Status line messages.
const (
	SyncRunningMessage = "Syncing with server..."
	SyncDoneMessage    = "Sync complete. Server data applied."
	SyncFailedMessage  = "Sync failed. Server unavailable."
)

// SyncStatus is a snapshot of the sync status line.
type SyncStatus struct {
	State       SyncState `json:"state"`
	Message     string    `json:"message"`
	Error       string    `json:"error,omitempty"`
	LastAttempt time.Time `json:"lastAttempt,omitzero"`
	LastSuccess time.Time `json:"lastSuccess,omitzero"`
	Fetched     int       `json:"fetched"`
	Total       int       `json:"total"`
}

// Message returns the status line text for a state.
func (s SyncState) Message() string {
	switch s {
	case SyncRunning:
		return SyncRunningMessage
	case SyncDone:
		return SyncDoneMessage
	case SyncFailed:
		return SyncFailedMessage
	case SyncIdle:
		return ""
	default:
		return ""
	}
}
