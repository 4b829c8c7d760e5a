package location

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Coordinates is a device position in decimal degrees. Values are immutable
// once read; a fresh read supersedes any earlier one.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// String renders coordinates in a stable "lat,lng" form suitable for cache
// keys and query parameters.
func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Latitude, c.Longitude)
}

// Sentinel errors reported by a Source.
var (
	// ErrPermissionDenied means the user has not granted location access.
	ErrPermissionDenied = errors.New("location permission denied")
	// ErrUnavailable means access is granted but no position could be read.
	ErrUnavailable = errors.New("location unavailable")
)

// Source is the device position capability. Current performs a single
// one-shot read; callers decide whether to retry.
type Source interface {
	Current(ctx context.Context) (Coordinates, error)
}

// Geocoder resolves coordinates into a human-readable address.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, coords Coordinates) (Address, error)
}

// Address holds the components used to build a pickup address line. Any
// subset may be empty.
type Address struct {
	Street string
	City   string
	Region string
}

// Line joins the available components into a single best-effort address
// line. Missing components are omitted rather than replaced.
func (a Address) Line() string {
	left := strings.TrimSpace(strings.TrimSpace(a.Street) + " " + strings.TrimSpace(a.City))
	region := strings.TrimSpace(a.Region)
	switch {
	case left == "" && region == "":
		return ""
	case left == "":
		return region
	case region == "":
		return left
	}
	return left + ", " + region
}

// IsZero reports whether no component is set.
func (a Address) IsZero() bool {
	return a.Line() == ""
}

// FixedSource serves a position configured ahead of time. It stands in for
// the OS location capability on hosts without one: Enabled=false behaves
// like a denied permission prompt, and an enabled source with no
// coordinates reports the position as unavailable.
type FixedSource struct {
	Enabled bool
	Coords  *Coordinates
}

// Current implements Source.
func (s FixedSource) Current(ctx context.Context) (Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return Coordinates{}, err
	}
	if !s.Enabled {
		return Coordinates{}, ErrPermissionDenied
	}
	if s.Coords == nil {
		return Coordinates{}, ErrUnavailable
	}
	return *s.Coords, nil
}

// Fix is a completed location acquisition. Address is advisory and may be
// empty even when coordinates were obtained.
type Fix struct {
	Coords  Coordinates
	Address Address
}

// Service wraps a position source and a reverse geocoder into the single
// acquisition capability the rest of the app consumes.
type Service struct {
	source   Source
	geocoder Geocoder
}

// NewService builds a Service. The geocoder may be nil, in which case
// acquisitions return coordinates without an address.
func NewService(source Source, geocoder Geocoder) *Service {
	return &Service{source: source, geocoder: geocoder}
}

// Acquire performs one position read and a best-effort reverse geocode.
// A geocoder failure never blocks coordinates already obtained.
func (s *Service) Acquire(ctx context.Context) (Fix, error) {
	coords, err := s.source.Current(ctx)
	if err != nil {
		return Fix{}, err
	}
	fix := Fix{Coords: coords}
	if s.geocoder == nil {
		return fix, nil
	}
	addr, err := s.geocoder.ReverseGeocode(ctx, coords)
	if err != nil {
		// Advisory lookup only; the fix stands without it.
		return fix, nil
	}
	fix.Address = addr
	return fix, nil
}
