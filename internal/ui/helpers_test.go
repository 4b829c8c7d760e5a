package ui

import (
	"testing"
	"time"

	"github.com/foodshare/ladle/internal/foodshare"
)

func TestHumanizeDuration(t *testing.T) {
	cases := []struct {
		name string
		in   int64 // seconds
		want string
	}{
		{"negative", -5, "now"},
		{"subsecond", 0, "now"},
		{"seconds", 12, "12s"},
		{"minutes", 61, "1m"},
		{"hours", 2*60*60 + 10, "2h"},
		{"days", 25 * 60 * 60, "1d"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := humanizeDuration(time.Duration(tc.in) * time.Second)
			if got != tc.want {
				t.Fatalf("humanizeDuration(%d) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("  ", 10); got != "" {
		t.Fatalf("truncate blank = %q, want empty", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate short = %q, want unchanged", got)
	}
	got := truncate("a long listing title", 8)
	if len([]rune(got)) > 8 {
		t.Fatalf("got %q (%d runes), want <=8", got, len([]rune(got)))
	}
	if got[len(got)-len("…"):] != "…" {
		t.Fatalf("got %q, want ellipsis suffix", got)
	}
}

func TestExpiryStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		expiry string
		want   string
	}{
		{"no expiry", "", expiryFresh},
		{"unparseable", "whenever", expiryFresh},
		{"past", "2026-03-09", expiryExpired},
		{"later today", "2026-03-10T18:00:00Z", expiryToday},
		{"tomorrow", "2026-03-11T18:00:00Z", expirySoon},
		{"next week", "2026-03-17", expiryFresh},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := foodshare.Listing{ExpiryDate: tc.expiry}
			if got := expiryStatus(l, now); got != tc.want {
				t.Fatalf("expiryStatus(%q) = %q, want %q", tc.expiry, got, tc.want)
			}
		})
	}
}

func TestExpiryLabel(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	if got := expiryLabel(foodshare.Listing{}, now); got != "no expiry" {
		t.Fatalf("expiryLabel no date = %q, want %q", got, "no expiry")
	}
	if got := expiryLabel(foodshare.Listing{ExpiryDate: "2026-03-01"}, now); got != "expired" {
		t.Fatalf("expiryLabel past = %q, want %q", got, "expired")
	}
	got := expiryLabel(foodshare.Listing{ExpiryDate: "2026-03-10T15:00:00Z"}, now)
	if got != "expires in 3h" {
		t.Fatalf("expiryLabel future = %q, want %q", got, "expires in 3h")
	}
}

func TestDistanceLabel(t *testing.T) {
	if got := distanceLabel(nil); got != "–" {
		t.Fatalf("distanceLabel(nil) = %q, want dash", got)
	}
	near := 0.25
	if got := distanceLabel(&near); got != "250 m" {
		t.Fatalf("distanceLabel(0.25) = %q, want %q", got, "250 m")
	}
	far := 3.14
	if got := distanceLabel(&far); got != "3.1 km" {
		t.Fatalf("distanceLabel(3.14) = %q, want %q", got, "3.1 km")
	}
}

func TestDonorLabel(t *testing.T) {
	l := foodshare.Listing{DonorName: "Sam", OrganizationName: "City Kitchen"}
	if got := donorLabel(l); got != "City Kitchen" {
		t.Fatalf("donorLabel = %q, want organization name", got)
	}
	l.OrganizationName = ""
	if got := donorLabel(l); got != "Sam" {
		t.Fatalf("donorLabel = %q, want donor name", got)
	}
	if got := donorLabel(foodshare.Listing{}); got != "anonymous" {
		t.Fatalf("donorLabel = %q, want anonymous", got)
	}
}

func TestQuantityLabel(t *testing.T) {
	l := foodshare.Listing{Quantity: 3, Unit: "boxes"}
	if got := quantityLabel(l); got != "3 boxes" {
		t.Fatalf("quantityLabel = %q, want %q", got, "3 boxes")
	}
	if got := quantityLabel(foodshare.Listing{Quantity: 2}); got != "2" {
		t.Fatalf("quantityLabel = %q, want %q", got, "2")
	}
}
