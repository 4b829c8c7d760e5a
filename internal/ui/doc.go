// Package ui provides the terminal user interface for the Ladle application.
//
// # Architecture Overview
//
// The UI is a bubbletea program with four tabs mirroring the FoodShare
// experience: Home (recent listings and impact stats from the background
// poller), Discover (multi-criterion listing search), Donate (the listing
// submission form), and Profile (profile view and first-run setup).
//
// # Package Structure
//
//   - ui.go: Options, the root model, tab routing, and the Run function
//   - home.go: Home tab rendered from the poller's state.Snapshot
//   - discover.go: Search input, category and proximity filters, results list
//   - donate.go: Submission form feeding the submit.Coordinator
//   - profile.go: Profile display and setup form
//   - keys.go: Key bindings (bubbles/key)
//   - theme.go: Color themes and lipgloss styles
//   - helpers.go: Shared formatting (expiry badges, distances, durations)
//
// # Message Flow
//
// Key presses route to the focused tab only; asynchronous results
// (listings, categories, location fixes, submission outcomes) fan out to
// every tab because a fetch may complete after the user switches away.
// Each tab model issues its own tea.Cmd closures against the composer,
// location service, or coordinator; no network I/O happens in Update.
//
// Discover guards against out-of-order fetches by tagging each result with
// its query's cache key and dropping results whose key no longer matches
// the current query.
//
// # Theming
//
// Themes are cycled at runtime with T and persisted to the preferences
// file, as is the last-used category filter.
package ui
