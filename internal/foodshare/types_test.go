package foodshare

import (
	"testing"
	"time"
)

func TestListingParsedExpiry(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{"rfc3339", "2026-09-04T00:00:00Z", time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)},
		{"date only", "2026-09-04", time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)},
		{"empty", "", time.Time{}},
		{"garbage", "soonish", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Listing{ExpiryDate: tt.value}
			if got := l.ParsedExpiry(); !got.Equal(tt.want) {
				t.Errorf("ParsedExpiry() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAPIErrorMessage(t *testing.T) {
	withMessage := &APIError{Status: 400, Message: "unit required"}
	if withMessage.Error() != "unit required" {
		t.Fatalf("Error() = %q, want server message", withMessage.Error())
	}

	bare := &APIError{Status: 502}
	if bare.Error() != "api returned status 502" {
		t.Fatalf("Error() = %q, want generic status message", bare.Error())
	}
}
