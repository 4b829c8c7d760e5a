package foodshare

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Directory defines the read side of the FoodShare API consumed by the
// discovery screens. Implemented by *Client; fakes implement it in tests.
type Directory interface {
	Categories(ctx context.Context) ([]Category, error)
	SearchListings(ctx context.Context, query ListingQuery) ([]Listing, error)
	RecentListings(ctx context.Context) ([]Listing, error)
	Profile(ctx context.Context) (*UserProfile, error)
	Stats(ctx context.Context) (UserStats, error)
}

// Publisher defines the write side used by the submission flow.
type Publisher interface {
	CreateListing(ctx context.Context, req CreateListingRequest) (*Listing, error)
	UploadImage(ctx context.Context, name string, r io.Reader) (string, error)
}

// Ensure Client satisfies both roles at compile time.
var (
	_ Directory = (*Client)(nil)
	_ Publisher = (*Client)(nil)
)

// APIError carries a non-2xx response. Message holds the server-supplied
// error string when the body contained one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api returned status %d", e.Status)
}

// Client talks to the FoodShare HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	token     string
}

const (
	defaultAPIBase   = "127.0.0.1:8642"
	defaultUserAgent = "ladle/0.1"
	requestTimeout   = 10 * time.Second
)

// NewClient builds a Client for the given base URL or host:port. token is
// the opaque session credential; empty means unauthenticated.
func NewClient(apiBase, token string) (*Client, error) {
	base, err := parseBaseURL(apiBase)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		token:     strings.TrimSpace(token),
	}, nil
}

// Categories retrieves the food category reference data.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Category
	if err := c.get(ctx, &url.URL{Path: "/api/categories"}, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// SearchListings retrieves listings matching the query. When coordinates
// are supplied the server may annotate each listing with distance_km.
func (c *Client) SearchListings(ctx context.Context, query ListingQuery) ([]Listing, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	if search := strings.TrimSpace(query.Search); search != "" {
		values.Set("search", search)
	}
	if category := strings.TrimSpace(query.Category); category != "" {
		values.Set("category", category)
	}
	if query.Latitude != nil && query.Longitude != nil {
		values.Set("latitude", strconv.FormatFloat(*query.Latitude, 'f', -1, 64))
		values.Set("longitude", strconv.FormatFloat(*query.Longitude, 'f', -1, 64))
	}
	rel := &url.URL{Path: "/api/listings", RawQuery: values.Encode()}
	var payload []Listing
	if err := c.get(ctx, rel, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// RecentListings retrieves the most recently published listings.
func (c *Client) RecentListings(ctx context.Context) ([]Listing, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Listing
	if err := c.get(ctx, &url.URL{Path: "/api/listings/recent"}, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// CreateListing publishes a new listing. A non-2xx response surfaces as an
// *APIError carrying the server's message when one was returned.
func (c *Client) CreateListing(ctx context.Context, req CreateListingRequest) (*Listing, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload Listing
	if err := c.postJSON(ctx, &url.URL{Path: "/api/listings"}, req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Profile retrieves the current user's profile. A 404 means no profile has
// been saved yet and is reported as (nil, nil).
func (c *Client) Profile(ctx context.Context) (*UserProfile, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload UserProfile
	err := c.get(ctx, &url.URL{Path: "/api/users/profile"}, &payload)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &payload, nil
}

// SaveProfile creates or updates the current user's profile.
func (c *Client) SaveProfile(ctx context.Context, profile UserProfile) (*UserProfile, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload UserProfile
	if err := c.postJSON(ctx, &url.URL{Path: "/api/users/profile"}, profile, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Stats retrieves the current user's impact stats.
func (c *Client) Stats(ctx context.Context) (UserStats, error) {
	if c == nil {
		return UserStats{}, fmt.Errorf("client is nil")
	}
	var payload UserStats
	if err := c.get(ctx, &url.URL{Path: "/api/users/stats"}, &payload); err != nil {
		return UserStats{}, err
	}
	return payload, nil
}

// UploadImage posts one image as multipart form data and returns the URL
// the server stored it under.
func (c *Client) UploadImage(ctx context.Context, name string, r io.Reader) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finish form: %w", err)
	}

	reqURL := c.baseURL.ResolveReference(&url.URL{Path: "/api/upload"})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	var payload struct {
		URL string `json:"url"`
	}
	if err := c.send(req, &payload); err != nil {
		return "", err
	}
	if payload.URL == "" {
		return "", fmt.Errorf("upload response missing url")
	}
	return payload.URL, nil
}

func (c *Client) get(ctx context.Context, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.send(req, dest)
}

func (c *Client) postJSON(ctx context.Context, rel *url.URL, body, dest any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.send(req, dest)
}

func (c *Client) send(req *http.Request, dest any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeAPIError drains a failed response into an *APIError, keeping the
// server's {"error": ...} message when the body carries one.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil && len(body) > 0 {
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &payload) == nil {
			apiErr.Message = strings.TrimSpace(payload.Error)
		}
	}
	return apiErr
}

func parseBaseURL(apiBase string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBase)
	if trimmed == "" {
		trimmed = defaultAPIBase
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base %q: %w", apiBase, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
