// Package search composes multi-criterion listing searches and resolves
// them through the shared query cache.
//
// A Query combines free text, a category filter, and optional coordinates.
// Queries are canonicalized before use as cache keys so that an empty text
// filter and an absent one address the same entry, and concurrent
// identical searches coalesce into one remote call. The composer also owns
// the cached reads for categories, the recent feed, the user profile, and
// impact stats, with one invalidation group per view.
package search
