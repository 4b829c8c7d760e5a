package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/foodshare/ladle/internal/foodshare"
)

func humanizeDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || value == "" {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 1 {
		return string(runes[:limit])
	}
	return string(runes[:limit-1]) + "…"
}

// Expiry status keys. The theme maps each to a badge color.
const (
	expiryFresh   = "fresh"
	expirySoon    = "soon"
	expiryToday   = "today"
	expiryExpired = "expired"
)

// expiryStatus classifies a listing's expiry relative to now for badge
// coloring: more than two days out is fresh, within two days is soon,
// within 24 hours is today, past is expired. Listings without a parseable
// expiry date count as fresh.
func expiryStatus(l foodshare.Listing, now time.Time) string {
	expiry := l.ParsedExpiry()
	if expiry.IsZero() {
		return expiryFresh
	}
	remaining := expiry.Sub(now)
	switch {
	case remaining < 0:
		return expiryExpired
	case remaining < 24*time.Hour:
		return expiryToday
	case remaining < 48*time.Hour:
		return expirySoon
	default:
		return expiryFresh
	}
}

// expiryLabel renders the human expiry text shown next to a listing.
func expiryLabel(l foodshare.Listing, now time.Time) string {
	expiry := l.ParsedExpiry()
	if expiry.IsZero() {
		return "no expiry"
	}
	remaining := expiry.Sub(now)
	if remaining < 0 {
		return "expired"
	}
	return "expires in " + humanizeDuration(remaining)
}

// distanceLabel renders a listing's distance, or a dash when the server
// did not report one.
func distanceLabel(km *float64) string {
	if km == nil {
		return "–"
	}
	if *km < 1 {
		return fmt.Sprintf("%.0f m", *km*1000)
	}
	return fmt.Sprintf("%.1f km", *km)
}

// donorLabel prefers the organization name over the personal one.
func donorLabel(l foodshare.Listing) string {
	if l.OrganizationName != "" {
		return l.OrganizationName
	}
	if l.DonorName != "" {
		return l.DonorName
	}
	return "anonymous"
}

// quantityLabel joins quantity and unit ("3 boxes").
func quantityLabel(l foodshare.Listing) string {
	unit := strings.TrimSpace(l.Unit)
	if unit == "" {
		return fmt.Sprintf("%d", l.Quantity)
	}
	return fmt.Sprintf("%d %s", l.Quantity, unit)
}
