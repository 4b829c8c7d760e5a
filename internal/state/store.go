package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/foodshare/ladle/internal/foodshare"
)

// Snapshot represents the latest home-screen data available to the UI.
type Snapshot struct {
	Recent              []foodshare.Listing
	Stats               foodshare.UserStats
	HasStats            bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored snapshot. When err is non-nil the previous data is
// kept but the error is recorded for visibility.
func (s *Store) Update(recent []foodshare.Listing, stats *foodshare.UserStats, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Recent = cloneListings(recent)
	if stats != nil {
		s.snapshot.Stats = *stats
		s.snapshot.HasStats = true
	} else {
		s.snapshot.HasStats = false
	}
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Recent = cloneListings(s.snapshot.Recent)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneListings(items []foodshare.Listing) []foodshare.Listing {
	if len(items) == 0 {
		return nil
	}
	dup := make([]foodshare.Listing, len(items))
	copy(dup, items)
	return dup
}
