package submit

import (
	"reflect"
	"testing"
)

func TestValidate(t *testing.T) {
	valid := Draft{
		Title:          "Fresh vegetables",
		Quantity:       "5",
		Unit:           "kg",
		PickupLocation: "12 Oak St",
	}

	tests := []struct {
		name   string
		mutate func(*Draft)
		want   []string
	}{
		{"valid draft", func(d *Draft) {}, nil},
		{"empty title", func(d *Draft) { d.Title = " " }, []string{"title"}},
		{"zero quantity", func(d *Draft) { d.Quantity = "0" }, []string{"quantity"}},
		{"negative quantity", func(d *Draft) { d.Quantity = "-2" }, []string{"quantity"}},
		{"non-numeric quantity", func(d *Draft) { d.Quantity = "five" }, []string{"quantity"}},
		{"empty unit", func(d *Draft) { d.Unit = "" }, []string{"unit"}},
		{"empty pickup", func(d *Draft) { d.PickupLocation = "  " }, []string{"pickup_location"}},
		{"bad expiry", func(d *Draft) { d.ExpiryDate = "next week" }, []string{"expiry_date"}},
		{"valid expiry", func(d *Draft) { d.ExpiryDate = "2026-09-04" }, nil},
		{
			"everything missing",
			func(d *Draft) { *d = Draft{} },
			[]string{"title", "quantity", "unit", "pickup_location"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)
			if got := Validate(d); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeExpiry(t *testing.T) {
	got, err := normalizeExpiry("2026-09-04")
	if err != nil {
		t.Fatalf("normalizeExpiry returned error: %v", err)
	}
	if got != "2026-09-04T00:00:00Z" {
		t.Fatalf("normalizeExpiry = %q, want RFC3339 midnight UTC", got)
	}

	got, err = normalizeExpiry("  ")
	if err != nil || got != "" {
		t.Fatalf("normalizeExpiry(blank) = %q, %v, want empty and nil", got, err)
	}

	if _, err := normalizeExpiry("04/09/2026"); err == nil {
		t.Fatal("normalizeExpiry accepted non-ISO date")
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: []string{"quantity", "unit"}}
	if err.Error() != "missing or invalid fields: quantity, unit" {
		t.Fatalf("Error() = %q", err.Error())
	}
}
