package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	apperrors "staymate/internal/errors"
	"staymate/internal/logging"
	"staymate/internal/models"
)

// HTTPClient implements Client over the backend's JSON REST API.
type HTTPClient struct {
	baseURL     string
	httpClient  *http.Client
	sessionPath string
	logger      zerolog.Logger

	mu    sync.RWMutex
	token string
	email string
}

// ClientConfig holds configuration for the HTTP client.
type ClientConfig struct {
	BaseURL     string
	Timeout     time.Duration
	SessionPath string
}

// NewHTTPClient creates a backend client. Any session persisted from a
// previous login is loaded automatically.
func NewHTTPClient(cfg ClientConfig, logger zerolog.Logger) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	sessionPath := cfg.SessionPath
	if sessionPath == "" {
		home, _ := os.UserHomeDir()
		sessionPath = filepath.Join(home, ".config", "staymate", "session.json")
	}

	c := &HTTPClient{
		baseURL:     cfg.BaseURL,
		httpClient:  &http.Client{Timeout: timeout},
		sessionPath: sessionPath,
		logger:      logger,
	}

	_ = c.loadSession()

	return c
}

// sessionData represents persisted session data.
type sessionData struct {
	Token   string    `json:"token"`
	Email   string    `json:"email"`
	SavedAt time.Time `json:"saved_at"`
}

func (c *HTTPClient) loadSession() error {
	data, err := os.ReadFile(c.sessionPath)
	if err != nil {
		return err
	}

	var session sessionData
	if err := json.Unmarshal(data, &session); err != nil {
		return err
	}

	c.mu.Lock()
	c.token = session.Token
	c.email = session.Email
	c.mu.Unlock()
	return nil
}

func (c *HTTPClient) saveSession() error {
	c.mu.RLock()
	session := sessionData{Token: c.token, Email: c.email, SavedAt: time.Now()}
	c.mu.RUnlock()

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.sessionPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(c.sessionPath, data, 0600)
}

func (c *HTTPClient) clearSession() {
	c.mu.Lock()
	c.token = ""
	c.email = ""
	c.mu.Unlock()
	_ = os.Remove(c.sessionPath)
}

// IsAuthenticated reports whether a session token is present.
func (c *HTTPClient) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

// Email returns the logged-in user's email, empty when logged out.
func (c *HTTPClient) Email() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.email
}

// errorEnvelope is the backend's error response body.
type errorEnvelope struct {
	Error string `json:"error"`
}

func (c *HTTPClient) request(ctx context.Context, method, endpoint string, body, out interface{}, auth bool) error {
	start := time.Now()
	err := c.do(ctx, method, endpoint, body, out, auth)
	logging.LogAPICall(c.logger, method, endpoint, time.Since(start), err)
	return err
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, body, out interface{}, auth bool) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if auth {
		c.mu.RLock()
		token := c.token
		c.mu.RUnlock()
		if token == "" {
			return apperrors.ErrNotAuthenticated
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrConnectionFailed, err.Error())
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var envelope errorEnvelope
		message := "request failed"
		if json.Unmarshal(data, &envelope) == nil && envelope.Error != "" {
			message = envelope.Error
		}
		var cause error
		if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized {
			cause = apperrors.ErrSessionExpired
		}
		return apperrors.NewAPIError(resp.StatusCode, endpoint, message, cause)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response from %s: %w", endpoint, err)
		}
	}
	return nil
}

// Register creates a new account and starts a session.
func (c *HTTPClient) Register(ctx context.Context, email, password, name string) error {
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password, "name": name}
	if err := c.request(ctx, http.MethodPost, endpointRegister, body, &out, false); err != nil {
		return err
	}

	c.mu.Lock()
	c.token = out.Token
	c.email = email
	c.mu.Unlock()
	return c.saveSession()
}

// Login authenticates and persists the session token.
func (c *HTTPClient) Login(ctx context.Context, email, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.request(ctx, http.MethodPost, endpointLogin, body, &out, false); err != nil {
		return err
	}

	c.mu.Lock()
	c.token = out.Token
	c.email = email
	c.mu.Unlock()
	return c.saveSession()
}

// Logout invalidates the session server-side and clears it locally. The
// local session is cleared even when the server call fails.
func (c *HTTPClient) Logout(ctx context.Context) error {
	err := c.request(ctx, http.MethodPost, endpointLogout, struct{}{}, nil, true)
	c.clearSession()
	return err
}

// GetListings returns all listings.
func (c *HTTPClient) GetListings(ctx context.Context) ([]models.Listing, error) {
	var out struct {
		Listings []models.Listing `json:"listings"`
	}
	if err := c.request(ctx, http.MethodGet, endpointListings, nil, &out, false); err != nil {
		return nil, err
	}
	return out.Listings, nil
}

// notFoundAs rewrites a 404 response's cause to the given sentinel so
// callers can match with errors.Is.
func notFoundAs(err, sentinel error) error {
	var apiErr *apperrors.APIError
	if apperrors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		apiErr.Err = sentinel
	}
	return err
}

// GetListing returns a single listing by ID.
func (c *HTTPClient) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	var out struct {
		Listing models.Listing `json:"listing"`
	}
	if err := c.request(ctx, http.MethodGet, endpointListingDetail(id), nil, &out, false); err != nil {
		return nil, notFoundAs(err, apperrors.ErrListingNotFound)
	}
	out.Listing.ID = id
	return &out.Listing, nil
}

// CreateListing creates a listing and returns its ID.
func (c *HTTPClient) CreateListing(ctx context.Context, req models.ListingRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	var out struct {
		ListingID string `json:"listingId"`
	}
	if err := c.request(ctx, http.MethodPost, endpointListingNew, req, &out, true); err != nil {
		return "", err
	}
	return out.ListingID, nil
}

// UpdateListing updates a listing.
func (c *HTTPClient) UpdateListing(ctx context.Context, id string, req models.ListingRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return c.request(ctx, http.MethodPut, endpointListingDetail(id), req, nil, true)
}

// DeleteListing deletes a listing.
func (c *HTTPClient) DeleteListing(ctx context.Context, id string) error {
	return c.request(ctx, http.MethodDelete, endpointListingDetail(id), nil, nil, true)
}

// PublishListing publishes a listing with the given availability windows.
func (c *HTTPClient) PublishListing(ctx context.Context, id string, availability []models.DateRange) error {
	if err := models.ValidateAvailability(availability, models.Today()); err != nil {
		return err
	}
	body := map[string][]models.DateRange{"availability": availability}
	return c.request(ctx, http.MethodPut, endpointListingPublish(id), body, nil, true)
}

// UnpublishListing takes a listing offline.
func (c *HTTPClient) UnpublishListing(ctx context.Context, id string) error {
	return c.request(ctx, http.MethodPut, endpointListingUnpublish(id), struct{}{}, nil, true)
}

// LeaveReview submits a review for a completed stay.
func (c *HTTPClient) LeaveReview(ctx context.Context, listingID, bookingID string, review models.Review) error {
	body := map[string]models.Review{"review": review}
	return c.request(ctx, http.MethodPut, endpointListingReview(listingID, bookingID), body, nil, true)
}

// GetBookings returns all bookings visible to the current user.
func (c *HTTPClient) GetBookings(ctx context.Context) ([]models.Booking, error) {
	var out struct {
		Bookings []models.Booking `json:"bookings"`
	}
	if err := c.request(ctx, http.MethodGet, endpointBookings, nil, &out, true); err != nil {
		return nil, err
	}
	return out.Bookings, nil
}

// CreateBooking submits a booking request and returns its ID.
func (c *HTTPClient) CreateBooking(ctx context.Context, req models.BookingRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	var out struct {
		BookingID string `json:"bookingId"`
	}
	if err := c.request(ctx, http.MethodPost, endpointBookingNew, req, &out, true); err != nil {
		return "", err
	}
	return out.BookingID, nil
}

// AcceptBooking accepts a pending booking request.
func (c *HTTPClient) AcceptBooking(ctx context.Context, id string) error {
	err := c.request(ctx, http.MethodPut, endpointBookingAccept(id), struct{}{}, nil, true)
	return notFoundAs(err, apperrors.ErrBookingNotFound)
}

// DeclineBooking declines a pending booking request.
func (c *HTTPClient) DeclineBooking(ctx context.Context, id string) error {
	err := c.request(ctx, http.MethodPut, endpointBookingDecline(id), struct{}{}, nil, true)
	return notFoundAs(err, apperrors.ErrBookingNotFound)
}

// DeleteBooking cancels a booking.
func (c *HTTPClient) DeleteBooking(ctx context.Context, id string) error {
	return c.request(ctx, http.MethodDelete, endpointBookingDetail(id), nil, nil, true)
}
