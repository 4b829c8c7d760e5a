package app

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/foodshare/ladle/internal/search"
	"github.com/foodshare/ladle/internal/state"
)

const (
	defaultPollInterval = 2 * time.Second
	maxBackoff          = 30 * time.Second
)

// StartPoller launches a background goroutine that refreshes the store at a
// fixed cadence, backing off exponentially while the API is unreachable.
// It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, composer *search.Composer, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		for {
			refresh(ctx, store, composer)

			timer := time.NewTimer(calculateBackoff(store.Snapshot().ConsecutiveFailures, interval))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
}

// refresh invalidates the home-screen cache groups and reads them back
// through the composer so the UI's next cache reads are already warm.
func refresh(ctx context.Context, store *state.Store, composer *search.Composer) {
	cache := composer.Cache()
	cache.Invalidate(search.GroupRecent)
	cache.Invalidate(search.GroupStats)

	recent, err := composer.Recent(ctx)
	if err != nil {
		store.Update(nil, nil, err)
		if !errors.Is(err, context.Canceled) {
			log.Printf("recent listings poll failed: %v", err)
		}
		return
	}
	stats, err := composer.Stats(ctx)
	if err != nil {
		store.Update(nil, nil, err)
		if !errors.Is(err, context.Canceled) {
			log.Printf("stats poll failed: %v", err)
		}
		return
	}
	store.Update(recent, &stats, nil)
}

// calculateBackoff doubles the base interval once per consecutive failure,
// capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
