package foodshare

import "time"

// Category is reference data, fetched once per session and treated as
// immutable for the session lifetime.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Listing mirrors a published food listing as returned by /api/listings.
// DistanceKm is only present when the search supplied coordinates, and may
// be absent even then; nil means unknown, never zero.
type Listing struct {
	ID                 int64    `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description,omitempty"`
	CategoryID         int64    `json:"category_id,omitempty"`
	CategoryName       string   `json:"category_name,omitempty"`
	Quantity           int      `json:"quantity"`
	Unit               string   `json:"unit"`
	PickupLocation     string   `json:"pickup_location"`
	PickupInstructions string   `json:"pickup_instructions,omitempty"`
	PickupLatitude     *float64 `json:"pickup_latitude,omitempty"`
	PickupLongitude    *float64 `json:"pickup_longitude,omitempty"`
	SafetyNotes        string   `json:"safety_notes,omitempty"`
	DietaryInfo        string   `json:"dietary_info,omitempty"`
	ExpiryDate         string   `json:"expiry_date,omitempty"`
	ImageURLs          []string `json:"image_urls,omitempty"`
	DonorName          string   `json:"donor_name,omitempty"`
	OrganizationName   string   `json:"organization_name,omitempty"`
	DistanceKm         *float64 `json:"distance_km,omitempty"`
	CreatedAt          string   `json:"created_at,omitempty"`
}

// ParsedExpiry returns the expiry date as time.Time when possible.
func (l Listing) ParsedExpiry() time.Time {
	return parseTime(l.ExpiryDate)
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (l Listing) ParsedCreatedAt() time.Time {
	return parseTime(l.CreatedAt)
}

// CreateListingRequest is the POST /api/listings body: the Listing fields
// minus the server-assigned ones. ImageURLs holds only URLs returned by
// successful uploads; nil marshals to null for a listing without photos.
type CreateListingRequest struct {
	Title              string   `json:"title"`
	Description        string   `json:"description,omitempty"`
	CategoryID         *int64   `json:"category_id,omitempty"`
	Quantity           int      `json:"quantity"`
	Unit               string   `json:"unit"`
	ExpiryDate         string   `json:"expiry_date,omitempty"`
	PickupLocation     string   `json:"pickup_location"`
	PickupInstructions string   `json:"pickup_instructions,omitempty"`
	SafetyNotes        string   `json:"safety_notes,omitempty"`
	DietaryInfo        string   `json:"dietary_info,omitempty"`
	PickupLatitude     *float64 `json:"pickup_latitude,omitempty"`
	PickupLongitude    *float64 `json:"pickup_longitude,omitempty"`
	ImageURLs          []string `json:"image_urls"`
}

// ListingQuery configures /api/listings searches. Every field is optional;
// the zero value is the "show all" query.
type ListingQuery struct {
	Search    string
	Category  string
	Latitude  *float64
	Longitude *float64
}

// UserProfile describes the signed-in user. Its presence gates listing
// submission; the server answers 404 until one has been saved.
type UserProfile struct {
	UserType         string   `json:"user_type"`
	FullName         string   `json:"full_name"`
	Phone            string   `json:"phone,omitempty"`
	Address          string   `json:"address,omitempty"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	OrganizationName string   `json:"organization_name,omitempty"`
	OrganizationType string   `json:"organization_type,omitempty"`
}

// User types accepted by the profile endpoint.
const (
	UserTypeDonor     = "donor"
	UserTypeRecipient = "recipient"
)

// UserStats aggregates the impact numbers shown on the home and profile
// tabs. Fields the server omits decode to zero.
type UserStats struct {
	ItemsDonated  int     `json:"itemsDonated"`
	ItemsReceived int     `json:"itemsReceived"`
	CO2Saved      float64 `json:"co2Saved"`
	ValueSaved    float64 `json:"valueSaved"`
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
