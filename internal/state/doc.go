// Package state provides thread-safe state management for the Ladle application.
//
// # Overview
//
// This package implements a simple but thread-safe store for sharing recent
// listings and impact stats between the background poller and the UI. It acts
// as the coordination point where polling updates meet UI rendering.
//
// # Architecture
//
// The package follows a producer-consumer pattern:
//
//	Producer (Poller):             Consumer (UI):
//	┌────────────────┐            ┌────────────────┐
//	│ Recent()       │            │                │
//	│ Stats()        │            │                │
//	│      ↓         │            │                │
//	│ store.Update() │───────────→│ store.Snapshot()│
//	│      ↓         │  (mutex)   │      ↓         │
//	│  repeat...     │            │  render UI     │
//	└────────────────┘            └────────────────┘
//
// The Store mediates between these two independent goroutines, ensuring:
//   - Atomic updates (no partial/torn reads)
//   - No data races (mutex-protected access)
//   - Immutable snapshots (defensive copying)
//
// # Update Semantics
//
// The Update method has special error handling behavior:
//
//	// Success case: Replace entire snapshot
//	store.Update(recent, stats, nil)
//	→ snapshot.Recent = recent
//	→ snapshot.Stats = stats
//	→ snapshot.LastError = nil
//	→ snapshot.ConsecutiveFailures = 0
//
//	// Error case: Keep old data, record error
//	store.Update(nil, nil, err)
//	→ snapshot.Recent = <unchanged>
//	→ snapshot.Stats = <unchanged>
//	→ snapshot.LastError = err
//	→ snapshot.ConsecutiveFailures++
//
// This ensures the UI always has the most recent successful data to display,
// while also being informed of polling failures. Two or more consecutive
// failures flip Snapshot.IsOffline, which the UI surfaces as an offline
// indicator without discarding the stale listings.
//
// # Defensive Copying
//
// Both Update and Snapshot perform deep copies to prevent shared state:
//
//   - Listing slices are cloned (not just slice header)
//   - Error values are copied (not shared pointers)
//   - Stats struct is copied by value
//
// # Usage Example
//
//	// Poller goroutine:
//	store := &state.Store{}
//	for {
//		recent, err1 := composer.Recent(ctx)
//		stats, err2 := composer.Stats(ctx)
//		store.Update(recent, stats, errors.Join(err1, err2))
//		time.Sleep(interval)
//	}
//
//	// UI goroutine:
//	snap := store.Snapshot()
//	renderUI(snap)
//
// # Testing Considerations
//
// The Store is safe to construct with zero value:
//
//	store := &state.Store{}  // Ready to use immediately
//
// Snapshot() returns a zero Snapshot if never updated, and updates are
// atomic and immediately visible.
package state
