// Package state provides thread-safe state management for stockboard.
//
// # Overview
//
// This package holds the one piece of shared mutable data in the application:
// the SyncState the dashboard renders. The synchronizer loop is the only writer;
// the UI and the one-shot print command read it.
//
//	Producer (syncer loop):            Consumer (UI):
//	┌──────────────────────┐          ┌──────────────────┐
//	│ fetch result arrives │          │ <-store.Changes()│
//	│        ↓             │          │        ↓         │
//	│ store.ApplySuccess() │─────────→│ store.State()    │
//	│ store.ApplyFailure() │ (mutex)  │        ↓         │
//	└──────────────────────┘          │ render table     │
//	                                  └──────────────────┘
//
// # Core Types
//
// SyncState:
//   - Snapshot: pointer to an immutable inventory.Snapshot, nil until the first
//     fetch resolves
//   - Loading: true only until the first fetch attempt resolves
//   - LastError/HasError: the message from the most recent failure, cleared on
//     success
//   - Fetching/Paused: in-flight and suspended indicators for the header
//
// Store:
//   - sync.RWMutex around a SyncState value
//   - Changes() channel for redraw notifications (buffered, coalescing)
//
// # Atomicity
//
// A new snapshot replaces the old one as a single pointer assignment under the
// write lock. Published snapshots are cloned on the way in and never written
// again, so State() can hand out the pointer without copying the document.
//
// # Retention Rules
//
// ApplyFailure never clears an existing snapshot. It installs the fallback
// dataset only when nothing has been published yet, which is how the first
// failed fetch still gives the table something to show.
//
// # Offline Detection
//
// SyncState.IsOffline() returns true after two or more consecutive failures.
// The header uses it to distinguish a blip from a source that is down.
package state
