// Package foodshare is the client for the FoodShare HTTP API.
//
// Client covers the REST boundary Ladle consumes: category reference data,
// listing search and recency feeds, listing creation, image upload, and
// the user's profile and impact stats. The Directory and Publisher
// interfaces split those operations into the read side used by discovery
// and the write side used by submission, so tests can fake either half.
//
// Errors from non-2xx responses are *APIError values that preserve the
// server-supplied message when the body carried one. A missing profile
// (404) is not an error; Profile reports it as (nil, nil).
package foodshare
