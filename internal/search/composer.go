package search

import (
	"context"
	"net/url"
	"strings"

	"github.com/foodshare/ladle/internal/foodshare"
	"github.com/foodshare/ladle/internal/location"
	"github.com/foodshare/ladle/internal/querycache"
)

// Cache groups for the reads the composer owns. A mutation that changes a
// view invalidates the matching group.
const (
	GroupListings   = "listings"
	GroupRecent     = "recentListings"
	GroupCategories = "categories"
	GroupProfile    = "userProfile"
	GroupStats      = "userStats"
)

// Query is the canonical multi-criterion search input. The zero value is
// the "show all" query. Equality is field-wise, so canonical queries make
// stable cache keys.
type Query struct {
	Text     string
	Category string
	Coords   *location.Coordinates
}

// Canonical normalizes the query: text and category are trimmed, and empty
// strings become absent, so {Text: ""} and {} address the same cache entry.
func (q Query) Canonical() Query {
	q.Text = strings.TrimSpace(q.Text)
	q.Category = strings.TrimSpace(q.Category)
	return q
}

// CacheKey derives the cache key for this query. url.Values encoding keeps
// parameter order stable regardless of how the query was built.
func (q Query) CacheKey() querycache.Key {
	canonical := q.Canonical()
	values := url.Values{}
	if canonical.Text != "" {
		values.Set("search", canonical.Text)
	}
	if canonical.Category != "" {
		values.Set("category", canonical.Category)
	}
	if canonical.Coords != nil {
		values.Set("near", canonical.Coords.String())
	}
	return querycache.Key{Kind: GroupListings, Arg: values.Encode()}
}

// Composer resolves discovery reads through the query cache. Identical
// queries issued while one is in flight share a single remote call; the
// composer never computes distance itself and passes DistanceKm through
// as unknown when the server omits it.
type Composer struct {
	cache  *querycache.Cache
	client foodshare.Directory
}

// NewComposer builds a Composer over the shared cache and API client.
func NewComposer(cache *querycache.Cache, client foodshare.Directory) *Composer {
	return &Composer{cache: cache, client: client}
}

// Listings resolves a listing search, serving from cache when the same
// canonical query was already fetched and not since invalidated.
func (c *Composer) Listings(ctx context.Context, q Query) ([]foodshare.Listing, error) {
	canonical := q.Canonical()
	return querycache.Read(ctx, c.cache, canonical.CacheKey(), func(ctx context.Context) ([]foodshare.Listing, error) {
		req := foodshare.ListingQuery{
			Search:   canonical.Text,
			Category: canonical.Category,
		}
		if canonical.Coords != nil {
			lat := canonical.Coords.Latitude
			lng := canonical.Coords.Longitude
			req.Latitude = &lat
			req.Longitude = &lng
		}
		return c.client.SearchListings(ctx, req)
	})
}

// Categories resolves the category reference data, fetched once per
// session.
func (c *Composer) Categories(ctx context.Context) ([]foodshare.Category, error) {
	key := querycache.Key{Kind: GroupCategories}
	return querycache.Read(ctx, c.cache, key, c.client.Categories)
}

// Recent resolves the recent-listings feed.
func (c *Composer) Recent(ctx context.Context) ([]foodshare.Listing, error) {
	key := querycache.Key{Kind: GroupRecent}
	return querycache.Read(ctx, c.cache, key, c.client.RecentListings)
}

// Profile resolves the current user's profile; nil means none saved yet.
func (c *Composer) Profile(ctx context.Context) (*foodshare.UserProfile, error) {
	key := querycache.Key{Kind: GroupProfile}
	return querycache.Read(ctx, c.cache, key, c.client.Profile)
}

// Stats resolves the current user's impact stats.
func (c *Composer) Stats(ctx context.Context) (foodshare.UserStats, error) {
	key := querycache.Key{Kind: GroupStats}
	return querycache.Read(ctx, c.cache, key, c.client.Stats)
}

// Cache exposes the underlying cache for invalidation by mutating flows.
func (c *Composer) Cache() *querycache.Cache {
	return c.cache
}
