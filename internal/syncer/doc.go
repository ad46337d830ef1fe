// Package syncer keeps the dashboard's inventory in step with the remote
// document.
//
// # Lifecycle
//
//	New(opts) ──> Start(ctx) ──> ... ──> Stop()
//	                 │
//	                 ├─ store.Begin()            Loading=true
//	                 ├─ subscribe to visibility
//	                 └─ go run()
//	                       ├─ arm ticker
//	                       ├─ fetch (start)
//	                       └─ select {tick, visibility, refresh, result}
//
// # States
//
// The loop is either Active (ticker armed) or Paused (no ticker). A hidden
// signal moves Active to Paused and stops the ticker. A visible signal moves
// Paused to Active, fetches at once and arms a fresh ticker. Repeated signals
// in the same direction are ignored, so there is never more than one ticker.
//
// # Results
//
// Every fetch carries a sequence number. Results apply in the order they
// complete, except that a result older than the newest applied success is
// dropped. A slow success still lands after a quicker failure. The first
// applied result decides what happens on failure:
//
//   - first result fails: the fallback dataset is published with the error
//   - later result fails: the previous snapshot stays, only the error changes
//   - any success: the snapshot is replaced and the error cleared
//
// Loading goes false on the first applied result and never returns to true.
//
// # Stopping
//
// Stop cancels the loop context, which also aborts in-flight HTTP requests,
// and waits for all goroutines. Nothing touches the store after Stop returns.
package syncer
