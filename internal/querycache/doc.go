// Package querycache provides a keyed, process-wide cache of remote reads.
//
// Every read is addressed by a structured Key whose Kind doubles as an
// invalidation group. Concurrent reads for the same key coalesce into one
// underlying fetch, completed fetches are memoized until the caller
// invalidates their group, and each key carries a generation counter so a
// slow superseded fetch can never overwrite data from a newer one.
//
// There is deliberately no time-based expiry: staleness is driven entirely
// by explicit invalidation after mutations.
package querycache
