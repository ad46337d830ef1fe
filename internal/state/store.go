package state

import (
	"sync"
	"time"

	"github.com/five82/stockboard/internal/inventory"
)

// SyncState is what the dashboard renders: the latest inventory plus the
// synchronizer's status.
type SyncState struct {
	// Snapshot is nil until the first fetch resolves. The pointed-to value is
	// never mutated after publication.
	Snapshot *inventory.Snapshot
	// FromFallback is true while Snapshot is the configured fallback dataset.
	FromFallback bool

	Loading  bool
	Fetching bool
	Paused   bool

	LastError string
	HasError  bool

	LastAttempt         time.Time
	LastSuccess         time.Time
	ConsecutiveFailures int
}

// IsOffline returns true when the source has been unreachable for multiple polls.
func (s SyncState) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Initial returns the state a synchronizer starts from.
func Initial() SyncState {
	return SyncState{Loading: true}
}

// Store coordinates the single writer (the synchronizer loop) with any number
// of readers.
type Store struct {
	mu      sync.RWMutex
	state   SyncState
	started bool
	changes chan struct{}
	once    sync.Once
}

func (s *Store) init() {
	s.once.Do(func() {
		s.changes = make(chan struct{}, 1)
	})
}

// Begin resets the store to the initial state.
func (s *Store) Begin() {
	s.mutate(func(st *SyncState) {
		*st = Initial()
	})
}

// ApplySuccess publishes snap as the current snapshot and clears any error.
// snap is cloned so the caller keeps no alias into published state.
func (s *Store) ApplySuccess(snap inventory.Snapshot, at time.Time) {
	published := snap.Clone()
	s.mutate(func(st *SyncState) {
		st.Snapshot = &published
		st.FromFallback = false
		st.Loading = false
		st.LastError = ""
		st.HasError = false
		st.LastAttempt = at
		st.LastSuccess = at
		st.ConsecutiveFailures = 0
	})
}

// ApplyFailure records msg. When fallback is non-nil and no snapshot has been
// published yet, the fallback becomes the snapshot. An existing snapshot is
// always retained.
func (s *Store) ApplyFailure(msg string, at time.Time, fallback *inventory.Snapshot) {
	var published *inventory.Snapshot
	if fallback != nil {
		dup := fallback.Clone()
		published = &dup
	}
	s.mutate(func(st *SyncState) {
		if st.Snapshot == nil && published != nil {
			st.Snapshot = published
			st.FromFallback = true
		}
		st.Loading = false
		st.LastError = msg
		st.HasError = true
		st.LastAttempt = at
		st.ConsecutiveFailures++
	})
}

// SetFetching marks whether a request is in flight.
func (s *Store) SetFetching(fetching bool) {
	s.mutate(func(st *SyncState) {
		st.Fetching = fetching
	})
}

// SetPaused marks whether polling is suspended.
func (s *Store) SetPaused(paused bool) {
	s.mutate(func(st *SyncState) {
		st.Paused = paused
	})
}

// State returns a copy of the current state.
func (s *Store) State() SyncState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return Initial()
	}
	return s.state
}

// Changes returns a channel that receives a value after any mutation.
// Notifications coalesce: a slow reader sees at most one pending signal.
func (s *Store) Changes() <-chan struct{} {
	s.init()
	return s.changes
}

func (s *Store) mutate(fn func(*SyncState)) {
	s.init()
	s.mu.Lock()
	if !s.started {
		s.state = Initial()
		s.started = true
	}
	before := s.state
	fn(&s.state)
	changed := before != s.state
	s.mu.Unlock()

	if changed {
		select {
		case s.changes <- struct{}{}:
		default:
		}
	}
}
