package submit

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/foodshare/ladle/internal/location"
	"github.com/foodshare/ladle/internal/upload"
)

// Draft is the immutable form input for one listing submission. Quantity
// stays a string until validation because it arrives from a text field.
type Draft struct {
	Title              string
	Description        string
	CategoryID         *int64
	Quantity           string
	Unit               string
	ExpiryDate         string // YYYY-MM-DD, optional
	PickupLocation     string
	PickupInstructions string
	SafetyNotes        string
	DietaryInfo        string
	Coords             *location.Coordinates
	Assets             []upload.LocalAsset
}

// ValidationError reports the fields that block a submission. No network
// call was made when one is returned.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing or invalid fields: " + strings.Join(e.Fields, ", ")
}

// Validate checks the draft against the submission invariants and returns
// the violated field names in a stable order. An empty result means the
// draft may be submitted.
func Validate(d Draft) []string {
	var fields []string
	if strings.TrimSpace(d.Title) == "" {
		fields = append(fields, "title")
	}
	if qty, err := parseQuantity(d.Quantity); err != nil || qty <= 0 {
		fields = append(fields, "quantity")
	}
	if strings.TrimSpace(d.Unit) == "" {
		fields = append(fields, "unit")
	}
	if strings.TrimSpace(d.PickupLocation) == "" {
		fields = append(fields, "pickup_location")
	}
	if strings.TrimSpace(d.ExpiryDate) != "" {
		if _, err := normalizeExpiry(d.ExpiryDate); err != nil {
			fields = append(fields, "expiry_date")
		}
	}
	return fields
}

func parseQuantity(raw string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(raw))
}

// normalizeExpiry turns a YYYY-MM-DD form value into the canonical RFC3339
// timestamp the create endpoint expects.
func normalizeExpiry(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}
	t, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return "", fmt.Errorf("parse expiry date %q: %w", raw, err)
	}
	return t.UTC().Format(time.RFC3339), nil
}
