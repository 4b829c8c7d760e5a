package submit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/foodshare/ladle/internal/foodshare"
	"github.com/foodshare/ladle/internal/search"
	"github.com/foodshare/ladle/internal/upload"
)

// Phase is the coordinator's position in a submission.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseUploadingImages
	PhaseCreating
	PhaseInvalidating
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseUploadingImages:
		return "uploading images"
	case PhaseCreating:
		return "creating"
	case PhaseInvalidating:
		return "invalidating"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	}
	return fmt.Sprintf("phase(%d)", int32(p))
}

// Sentinel errors returned before any phase runs.
var (
	// ErrSubmitting means a submission is already in a non-terminal state.
	ErrSubmitting = errors.New("a submission is already in progress")
	// ErrProfileRequired means no profile is on record for the user.
	ErrProfileRequired = errors.New("complete your profile before donating")
)

// ProfileChecker reports the profile on record, nil when none. The
// composer's cached read satisfies it without extra network traffic.
type ProfileChecker func(ctx context.Context) (*foodshare.UserProfile, error)

// Result is a successful submission's outcome. FailedUploads carries the
// non-fatal per-image failures for an advisory warning; the published
// listing's images are only the successful subset.
type Result struct {
	Listing       *foodshare.Listing
	ImageURLs     []string
	FailedUploads []upload.Result
}

// Coordinator runs the submission flow as one logical transaction:
// validate, upload images, create, invalidate caches. Image upload
// failures are absorbed (the listing publishes with the photos that made
// it); validation and create failures abort with nothing published.
type Coordinator struct {
	publisher foodshare.Publisher
	pipeline  *upload.Pipeline
	composer  *search.Composer
	profile   ProfileChecker
	phase     atomic.Int32
}

// NewCoordinator wires a Coordinator. The profile checker may be nil to
// skip the profile gate.
func NewCoordinator(publisher foodshare.Publisher, pipeline *upload.Pipeline, composer *search.Composer, profile ProfileChecker) *Coordinator {
	return &Coordinator{
		publisher: publisher,
		pipeline:  pipeline,
		composer:  composer,
		profile:   profile,
	}
}

// Phase reports the current submission phase for progress display.
func (c *Coordinator) Phase() Phase {
	return Phase(c.phase.Load())
}

// Submit runs one submission end to end. A second Submit while the first
// is in a non-terminal state returns ErrSubmitting instead of
// interleaving. The phase lands on PhaseSucceeded or PhaseFailed and stays
// there until the next Submit, so a progress display can show the outcome.
func (c *Coordinator) Submit(ctx context.Context, draft Draft) (*Result, error) {
	if !c.begin() {
		return nil, ErrSubmitting
	}
	result, err := c.run(ctx, draft)
	if err != nil {
		c.phase.Store(int32(PhaseFailed))
		return nil, err
	}
	c.phase.Store(int32(PhaseSucceeded))
	return result, nil
}

// begin claims the coordinator for a new submission. Terminal phases count
// as reusable; anything mid-flight does not.
func (c *Coordinator) begin() bool {
	for {
		cur := c.phase.Load()
		switch Phase(cur) {
		case PhaseIdle, PhaseSucceeded, PhaseFailed:
			if c.phase.CompareAndSwap(cur, int32(PhaseValidating)) {
				return true
			}
		default:
			return false
		}
	}
}

func (c *Coordinator) run(ctx context.Context, draft Draft) (*Result, error) {
	if fields := Validate(draft); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	if c.profile != nil {
		profile, err := c.profile(ctx)
		if err != nil {
			return nil, fmt.Errorf("check profile: %w", err)
		}
		if profile == nil {
			return nil, ErrProfileRequired
		}
	}

	quantity, err := parseQuantity(draft.Quantity)
	if err != nil {
		return nil, &ValidationError{Fields: []string{"quantity"}}
	}
	expiry, err := normalizeExpiry(draft.ExpiryDate)
	if err != nil {
		return nil, &ValidationError{Fields: []string{"expiry_date"}}
	}

	var uploads []upload.Result
	if len(draft.Assets) > 0 {
		c.phase.Store(int32(PhaseUploadingImages))
		uploads, err = c.pipeline.UploadAll(ctx, draft.Assets)
		if err != nil {
			return nil, fmt.Errorf("upload images: %w", err)
		}
	}

	c.phase.Store(int32(PhaseCreating))
	req := foodshare.CreateListingRequest{
		Title:              strings.TrimSpace(draft.Title),
		Description:        draft.Description,
		CategoryID:         draft.CategoryID,
		Quantity:           quantity,
		Unit:               strings.TrimSpace(draft.Unit),
		ExpiryDate:         expiry,
		PickupLocation:     strings.TrimSpace(draft.PickupLocation),
		PickupInstructions: draft.PickupInstructions,
		SafetyNotes:        draft.SafetyNotes,
		DietaryInfo:        draft.DietaryInfo,
		ImageURLs:          upload.Succeeded(uploads),
	}
	if draft.Coords != nil {
		lat := draft.Coords.Latitude
		lng := draft.Coords.Longitude
		req.PickupLatitude = &lat
		req.PickupLongitude = &lng
	}

	listing, err := c.publisher.CreateListing(ctx, req)
	if err != nil {
		return nil, err
	}

	// A new listing changes the search results, the recent feed, and the
	// donor's stats; all three must re-fetch on next read.
	c.phase.Store(int32(PhaseInvalidating))
	cache := c.composer.Cache()
	cache.Invalidate(search.GroupListings)
	cache.Invalidate(search.GroupRecent)
	cache.Invalidate(search.GroupStats)

	return &Result{
		Listing:       listing,
		ImageURLs:     req.ImageURLs,
		FailedUploads: upload.Failed(uploads),
	}, nil
}
