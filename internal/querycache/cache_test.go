package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRead_MemoizesResult(t *testing.T) {
	c := New()
	key := Key{Kind: "listings", Arg: "q=bread"}
	var calls int32

	fetch := func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "result", nil
	}

	for i := 0; i < 3; i++ {
		got, err := Read(context.Background(), c, key, fetch)
		if err != nil {
			t.Fatalf("Read returned error: %v", err)
		}
		if got != "result" {
			t.Fatalf("Read = %q, want result", got)
		}
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("fetch called %d times, want 1", n)
	}
}

func TestRead_CoalescesConcurrentReads(t *testing.T) {
	c := New()
	key := Key{Kind: "listings", Arg: ""}

	var calls int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 42, nil
	}

	const readers = 8
	var wg sync.WaitGroup
	results := make([]int, readers)
	errs := make([]error, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = Read(context.Background(), c, key, fetch)
		}(i)
	}

	// Let the readers pile up on the in-flight fetch before releasing it.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < readers; i++ {
		if errs[i] != nil {
			t.Fatalf("reader %d error: %v", i, errs[i])
		}
		if results[i] != 42 {
			t.Fatalf("reader %d = %d, want 42", i, results[i])
		}
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("fetch called %d times, want 1", n)
	}
}

func TestInvalidate_ForcesRefetchForEveryKeyInGroup(t *testing.T) {
	c := New()
	keys := []Key{
		{Kind: "listings", Arg: ""},
		{Kind: "listings", Arg: "q=soup"},
		{Kind: "listings", Arg: "cat=Produce"},
	}
	other := Key{Kind: "userStats", Arg: ""}

	calls := make(map[Key]int)
	var mu sync.Mutex
	fetchFor := func(key Key) func(context.Context) (string, error) {
		return func(ctx context.Context) (string, error) {
			mu.Lock()
			calls[key]++
			mu.Unlock()
			return key.String(), nil
		}
	}

	for _, k := range keys {
		if _, err := Read(context.Background(), c, k, fetchFor(k)); err != nil {
			t.Fatalf("Read(%s) returned error: %v", k, err)
		}
	}
	if _, err := Read(context.Background(), c, other, fetchFor(other)); err != nil {
		t.Fatalf("Read(%s) returned error: %v", other, err)
	}

	c.Invalidate("listings")

	for _, k := range keys {
		if _, err := Read(context.Background(), c, k, fetchFor(k)); err != nil {
			t.Fatalf("Read(%s) after invalidate returned error: %v", k, err)
		}
		if calls[k] != 2 {
			t.Fatalf("fetch(%s) called %d times, want 2", k, calls[k])
		}
	}

	// Unrelated groups stay cached.
	if _, err := Read(context.Background(), c, other, fetchFor(other)); err != nil {
		t.Fatalf("Read(%s) returned error: %v", other, err)
	}
	if calls[other] != 1 {
		t.Fatalf("fetch(%s) called %d times, want 1", other, calls[other])
	}
}

func TestRead_ErrorsAreNotCached(t *testing.T) {
	c := New()
	key := Key{Kind: "categories", Arg: ""}

	var calls int
	fetch := func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("remote down")
		}
		return "ok", nil
	}

	if _, err := Read(context.Background(), c, key, fetch); err == nil {
		t.Fatal("first Read returned nil error, want error")
	}
	got, err := Read(context.Background(), c, key, fetch)
	if err != nil {
		t.Fatalf("second Read returned error: %v", err)
	}
	if got != "ok" {
		t.Fatalf("second Read = %q, want ok", got)
	}
	if calls != 2 {
		t.Fatalf("fetch called %d times, want 2", calls)
	}
}

func TestRead_SupersededFetchDoesNotClobberNewerResult(t *testing.T) {
	c := New()
	key := Key{Kind: "listings", Arg: "q=x"}

	slowStarted := make(chan struct{})
	slowRelease := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	var slowGot string
	go func() {
		defer wg.Done()
		slowGot, _ = Read(context.Background(), c, key, func(ctx context.Context) (string, error) {
			close(slowStarted)
			<-slowRelease
			return "old", nil
		})
	}()

	<-slowStarted
	// Invalidating while the first fetch is in flight makes the next read
	// issue a newer generation for the same key.
	c.Invalidate("listings")

	got, err := Read(context.Background(), c, key, func(ctx context.Context) (string, error) {
		return "new", nil
	})
	if err != nil {
		t.Fatalf("newer Read returned error: %v", err)
	}
	if got != "new" {
		t.Fatalf("newer Read = %q, want new", got)
	}

	// Let the stale fetch finish after the newer one.
	close(slowRelease)
	wg.Wait()
	if slowGot != "old" {
		t.Fatalf("superseded reader = %q, want its own result old", slowGot)
	}

	// The cache must still hold the newer value.
	got, err = Read(context.Background(), c, key, func(ctx context.Context) (string, error) {
		return "refetched", nil
	})
	if err != nil {
		t.Fatalf("final Read returned error: %v", err)
	}
	if got != "new" {
		t.Fatalf("final Read = %q, want cached new", got)
	}
	if gen := c.Generation(key); gen != 2 {
		t.Fatalf("Generation = %d, want 2", gen)
	}
}

func TestInvalidate_InFlightFetchStillPopulates(t *testing.T) {
	c := New()
	key := Key{Kind: "recentListings", Arg: ""}

	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = Read(context.Background(), c, key, func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "v1", nil
		})
	}()

	<-started
	c.Invalidate("recentListings")
	close(release)
	wg.Wait()

	// The completed fetch populated the entry, but invalidation already
	// marked it stale, so the next read fetches again.
	var calls int
	got, err := Read(context.Background(), c, key, func(ctx context.Context) (string, error) {
		calls++
		return "v2", nil
	})
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if got != "v2" || calls != 1 {
		t.Fatalf("Read = %q (calls=%d), want refetched v2", got, calls)
	}
}

func TestRead_ContextCancelledWhileWaiting(t *testing.T) {
	c := New()
	key := Key{Kind: "listings", Arg: "slow"}

	started := make(chan struct{})
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	go func() {
		_, _ = Read(context.Background(), c, key, func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "late", nil
		})
	}()

	<-started
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Read(ctx, c, key, func(ctx context.Context) (string, error) {
		return "", nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Read error = %v, want context.Canceled", err)
	}
}

func TestInvalidateKey_OnlyMarksThatKey(t *testing.T) {
	c := New()
	a := Key{Kind: "listings", Arg: "a"}
	b := Key{Kind: "listings", Arg: "b"}

	calls := map[string]int{}
	fetchFor := func(name string) func(context.Context) (string, error) {
		return func(ctx context.Context) (string, error) {
			calls[name]++
			return name, nil
		}
	}

	_, _ = Read(context.Background(), c, a, fetchFor("a"))
	_, _ = Read(context.Background(), c, b, fetchFor("b"))
	c.InvalidateKey(a)
	_, _ = Read(context.Background(), c, a, fetchFor("a"))
	_, _ = Read(context.Background(), c, b, fetchFor("b"))

	if calls["a"] != 2 || calls["b"] != 1 {
		t.Fatalf("calls = %v, want a=2 b=1", calls)
	}
}
