package search

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/foodshare/ladle/internal/foodshare"
	"github.com/foodshare/ladle/internal/location"
	"github.com/foodshare/ladle/internal/querycache"
)

type fakeDirectory struct {
	mu          sync.Mutex
	searchCalls int32
	lastQuery   foodshare.ListingQuery
	listings    []foodshare.Listing
	block       chan struct{}
}

func (f *fakeDirectory) SearchListings(ctx context.Context, query foodshare.ListingQuery) ([]foodshare.Listing, error) {
	atomic.AddInt32(&f.searchCalls, 1)
	f.mu.Lock()
	f.lastQuery = query
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	return f.listings, nil
}

func (f *fakeDirectory) Categories(ctx context.Context) ([]foodshare.Category, error) {
	return []foodshare.Category{{ID: 1, Name: "Produce"}}, nil
}

func (f *fakeDirectory) RecentListings(ctx context.Context) ([]foodshare.Listing, error) {
	return f.listings, nil
}

func (f *fakeDirectory) Profile(ctx context.Context) (*foodshare.UserProfile, error) {
	return &foodshare.UserProfile{UserType: foodshare.UserTypeDonor, FullName: "Sam"}, nil
}

func (f *fakeDirectory) Stats(ctx context.Context) (foodshare.UserStats, error) {
	return foodshare.UserStats{ItemsDonated: 2}, nil
}

func TestQueryCacheKey_CanonicalizesEmptyFilters(t *testing.T) {
	blank := Query{}
	emptyStrings := Query{Text: "", Category: "   "}

	if blank.CacheKey() != emptyStrings.CacheKey() {
		t.Fatalf("keys differ: %v vs %v", blank.CacheKey(), emptyStrings.CacheKey())
	}
	if blank.CacheKey().Kind != GroupListings {
		t.Fatalf("kind = %q, want %q", blank.CacheKey().Kind, GroupListings)
	}
	if blank.CacheKey().Arg != "" {
		t.Fatalf("show-all arg = %q, want empty", blank.CacheKey().Arg)
	}
}

func TestQueryCacheKey_DistinguishesFilters(t *testing.T) {
	coords := &location.Coordinates{Latitude: 40.11, Longitude: -88.24}
	keys := map[querycache.Key]bool{
		Query{}.CacheKey():                        true,
		Query{Text: "bread"}.CacheKey():           true,
		Query{Category: "Bakery"}.CacheKey():      true,
		Query{Coords: coords}.CacheKey():          true,
		Query{Text: "bread", Coords: coords}.CacheKey(): true,
	}
	if len(keys) != 5 {
		t.Fatalf("got %d distinct keys, want 5", len(keys))
	}
}

func TestQueryCacheKey_StableAcrossWhitespace(t *testing.T) {
	a := Query{Text: " bread ", Category: "Bakery"}
	b := Query{Text: "bread", Category: " Bakery "}
	if a.CacheKey() != b.CacheKey() {
		t.Fatalf("keys differ: %v vs %v", a.CacheKey(), b.CacheKey())
	}
}

func TestListings_CachesByCanonicalQuery(t *testing.T) {
	dir := &fakeDirectory{listings: []foodshare.Listing{{ID: 1, Title: "Bread"}}}
	c := NewComposer(querycache.New(), dir)

	for i := 0; i < 3; i++ {
		got, err := c.Listings(context.Background(), Query{Text: "bread"})
		if err != nil {
			t.Fatalf("Listings returned error: %v", err)
		}
		if len(got) != 1 || got[0].ID != 1 {
			t.Fatalf("Listings = %#v, want cached bread", got)
		}
	}
	if n := atomic.LoadInt32(&dir.searchCalls); n != 1 {
		t.Fatalf("SearchListings called %d times, want 1", n)
	}
}

func TestListings_ConcurrentIdenticalSearchesShareOneCall(t *testing.T) {
	dir := &fakeDirectory{
		listings: []foodshare.Listing{{ID: 1}},
		block:    make(chan struct{}),
	}
	c := NewComposer(querycache.New(), dir)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Listings(context.Background(), Query{Text: "soup"})
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(dir.block)
	wg.Wait()

	if n := atomic.LoadInt32(&dir.searchCalls); n != 1 {
		t.Fatalf("SearchListings called %d times, want 1", n)
	}
}

func TestListings_CoordinatesForwardedToRemote(t *testing.T) {
	dir := &fakeDirectory{}
	c := NewComposer(querycache.New(), dir)

	coords := &location.Coordinates{Latitude: 40.5, Longitude: -88.9}
	if _, err := c.Listings(context.Background(), Query{Coords: coords}); err != nil {
		t.Fatalf("Listings returned error: %v", err)
	}

	dir.mu.Lock()
	got := dir.lastQuery
	dir.mu.Unlock()
	if got.Latitude == nil || *got.Latitude != 40.5 {
		t.Fatalf("latitude = %v, want 40.5", got.Latitude)
	}
	if got.Longitude == nil || *got.Longitude != -88.9 {
		t.Fatalf("longitude = %v, want -88.9", got.Longitude)
	}
}

func TestListings_RefetchesAfterInvalidation(t *testing.T) {
	dir := &fakeDirectory{}
	c := NewComposer(querycache.New(), dir)

	if _, err := c.Listings(context.Background(), Query{}); err != nil {
		t.Fatalf("Listings returned error: %v", err)
	}
	c.Cache().Invalidate(GroupListings)
	if _, err := c.Listings(context.Background(), Query{}); err != nil {
		t.Fatalf("Listings returned error: %v", err)
	}

	if n := atomic.LoadInt32(&dir.searchCalls); n != 2 {
		t.Fatalf("SearchListings called %d times, want 2 after invalidation", n)
	}
}

func TestComposer_OtherReads(t *testing.T) {
	dir := &fakeDirectory{listings: []foodshare.Listing{{ID: 4}}}
	c := NewComposer(querycache.New(), dir)
	ctx := context.Background()

	categories, err := c.Categories(ctx)
	if err != nil || len(categories) != 1 {
		t.Fatalf("Categories = %#v, %v", categories, err)
	}
	recent, err := c.Recent(ctx)
	if err != nil || len(recent) != 1 {
		t.Fatalf("Recent = %#v, %v", recent, err)
	}
	profile, err := c.Profile(ctx)
	if err != nil || profile == nil || profile.FullName != "Sam" {
		t.Fatalf("Profile = %#v, %v", profile, err)
	}
	stats, err := c.Stats(ctx)
	if err != nil || stats.ItemsDonated != 2 {
		t.Fatalf("Stats = %#v, %v", stats, err)
	}
}
