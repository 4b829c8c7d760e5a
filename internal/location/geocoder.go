package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNoAddress means the geocoder resolved nothing for the coordinates.
var ErrNoAddress = errors.New("no address found")

const (
	geocoderTimeout   = 5 * time.Second
	geocoderUserAgent = "ladle/0.1"
)

// HTTPGeocoder talks to a Nominatim-compatible reverse geocoding endpoint.
type HTTPGeocoder struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

// NewHTTPGeocoder builds a geocoder client for the given base URL.
func NewHTTPGeocoder(base string) (*HTTPGeocoder, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		return nil, fmt.Errorf("geocoder base url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse geocoder url %q: %w", base, err)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return &HTTPGeocoder{
		baseURL: u,
		http: &http.Client{
			Timeout: geocoderTimeout,
		},
		userAgent: geocoderUserAgent,
	}, nil
}

// reverseResponse mirrors the subset of the Nominatim reverse payload Ladle
// reads. Smaller places report their name under town or village instead of
// city.
type reverseResponse struct {
	Address struct {
		Road    string `json:"road"`
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		State   string `json:"state"`
	} `json:"address"`
	Error string `json:"error"`
}

// ReverseGeocode implements Geocoder.
func (g *HTTPGeocoder) ReverseGeocode(ctx context.Context, coords Coordinates) (Address, error) {
	if g == nil {
		return Address{}, fmt.Errorf("geocoder is nil")
	}
	values := url.Values{}
	values.Set("format", "jsonv2")
	values.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', 6, 64))
	values.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', 6, 64))
	rel := &url.URL{Path: "/reverse", RawQuery: values.Encode()}
	reqURL := g.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return Address{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.http.Do(req)
	if err != nil {
		return Address{}, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return Address{}, ErrNoAddress
	}
	if resp.StatusCode >= 400 {
		return Address{}, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var payload reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Address{}, fmt.Errorf("decode response: %w", err)
	}
	if payload.Error != "" {
		return Address{}, ErrNoAddress
	}

	city := payload.Address.City
	if city == "" {
		city = payload.Address.Town
	}
	if city == "" {
		city = payload.Address.Village
	}
	addr := Address{
		Street: payload.Address.Road,
		City:   city,
		Region: payload.Address.State,
	}
	if addr.IsZero() {
		return Address{}, ErrNoAddress
	}
	return addr, nil
}
