// Package app provides the orchestration layer for the Ladle application.
//
// # Overview
//
// This package wires together configuration, the FoodShare API client, the
// query cache, location services, the submission coordinator, polling, and
// the UI to create the complete Ladle TUI experience. It serves as the
// composition root where all dependencies are initialized and connected.
//
// # Architecture
//
// The app package follows a simple initialization pattern:
//
//  1. Load Ladle configuration from ~/.config/ladle/config.toml
//  2. Initialize HTTP client for the FoodShare API
//  3. Build the shared query cache and the search composer over it
//  4. Assemble the location service from the configured fixed source
//  5. Wire the upload pipeline and submission coordinator
//  6. Launch background poller goroutine for home-screen updates
//  7. Start the TUI and block until user exits or context cancels
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()         Read Ladle config
//	       ├─────> foodshare.NewClient() Create HTTP client
//	       ├─────> querycache.New()      Shared read cache
//	       ├─────> search.NewComposer()  Cached discovery reads
//	       ├─────> submit.NewCoordinator() Submission flow
//	       ├─────> StartPoller()         Launch background updates
//	       └─────> ui.Run()              Start TUI (blocks)
//
//	Background Poller Loop:
//	┌─────────────────────────────────────────┐
//	│ StartPoller() goroutine                 │
//	│  ├─> invalidate recent + stats groups   │
//	│  ├─> composer.Recent()                  │
//	│  ├─> composer.Stats()                   │
//	│  └─> store.Update()  (atomic)           │
//	│      └─> UI reads store.Snapshot()      │
//	└─────────────────────────────────────────┘
//
// # Polling Behavior
//
// The poller runs continuously in the background at a configurable interval
// (default: 2 seconds). On each tick it invalidates the recent-listings and
// stats cache groups, reads them back through the composer, and updates the
// shared state.Store atomically. Reading through the composer keeps the
// cache warm, so the UI's own reads of the same groups hit memoized data.
//
// While the API is unreachable the poller backs off exponentially, doubling
// the interval per consecutive failure up to a 30 second cap. A successful
// poll resets the cadence.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Configuration file present but invalid
//   - FoodShare client initialization failure
//
// Recoverable errors (logged, polling continues):
//   - Periodic fetch failures and network timeouts
//   - Geocoder initialization failure (degrades to coordinates-only)
//
// # Configuration
//
// The Options struct allows callers to customize:
//
//   - ConfigPath: Path to config.toml (default: ~/.config/ladle/config.toml)
//   - PrefsPath: Path to prefs.toml (default: ~/.config/ladle/prefs.toml)
//   - PollEvery: Polling interval in seconds (default: 2 seconds)
//
// # Design Rationale
//
// This package intentionally keeps orchestration logic minimal and focused.
// Business logic lives in domain packages (foodshare, search, submit,
// location, state, ui). The app package simply connects these pieces with
// sensible defaults.
package app
