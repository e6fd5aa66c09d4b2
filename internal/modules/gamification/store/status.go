package store

import "time"

type SyncState string

const (
	SyncIdle    SyncState = "idle"
	SyncPending SyncState = "pending"
	SyncSynced  SyncState = "synced"
	SyncFailed  SyncState = "failed"
)

// SyncStatus reports how far remote persistence lags the local state. Local updates
// never wait for it.
type SyncStatus struct {
	State         SyncState  `json:"state"`
	Pending       int        `json:"pending"`
	Seq           uint64     `json:"seq"`
	LastError     string     `json:"last_error,omitempty"`
	LastAttemptAt *time.Time `json:"last_attempt_at,omitempty"`
	LastSyncedAt  *time.Time `json:"last_synced_at,omitempty"`
}

func (s *SyncStatus) begin() {
	s.Pending++
	s.State = SyncPending
}

func (s *SyncStatus) finish(seq uint64, at time.Time, err error) {
	if s.Pending > 0 {
		s.Pending--
	}
	if seq > s.Seq {
		s.Seq = seq
	}
	s.LastAttemptAt = &at
	if err != nil {
		s.LastError = err.Error()
		s.State = SyncFailed
		return
	}
	s.LastError = ""
	s.LastSyncedAt = &at
	if s.Pending > 0 {
		s.State = SyncPending
	} else {
		s.State = SyncSynced
	}
}
