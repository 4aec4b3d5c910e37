package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CredentialSource supplies the current access credential and performs
// renewal when it has expired. Implemented by the session store, which
// single-flights renewal across all concurrent callers. The client treats
// the credential as read-only.
type CredentialSource interface {
	// Credential returns the in-memory access credential, if present.
	// Never blocks, never performs network I/O.
	Credential() (string, bool)

	// Renew replaces the expired credential. Reports whether a fresh
	// credential is available afterwards.
	Renew(ctx context.Context) bool
}

// Config holds common client configuration.
type Config struct {
	BaseURL  string
	DeviceID string
}

// Client performs every outbound API call: it attaches the current access
// credential, classifies failures, and on an authorization failure drives
// exactly one renew-and-replay cycle per request. It holds no mutable state
// of its own, so a single instance serves any number of concurrent callers.
type Client struct {
	baseURL    string
	deviceID   string
	httpClient *http.Client
	creds      CredentialSource
}

// New creates an API client. creds may be nil, in which case calls are
// performed unauthenticated and never replayed.
func New(cfg Config, httpClient *http.Client, creds CredentialSource) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		deviceID:   cfg.DeviceID,
		httpClient: httpClient,
		creds:      creds,
	}
}

// Get performs an authenticated GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.roundTrip(ctx, http.MethodGet, path, nil, out)
}

// Post performs an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	body, err := marshalBody(in)
	if err != nil {
		return err
	}
	return c.roundTrip(ctx, http.MethodPost, path, body, out)
}

// Put performs an authenticated PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	body, err := marshalBody(in)
	if err != nil {
		return err
	}
	return c.roundTrip(ctx, http.MethodPut, path, body, out)
}

func marshalBody(in any) ([]byte, error) {
	if in == nil {
		return nil, nil
	}
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return body, nil
}

// roundTrip executes one logical request. The body is held as a byte slice so
// the request can be rebuilt for the single permitted replay.
func (c *Client) roundTrip(ctx context.Context, method, path string, body []byte, out any) error {
	resp, err := c.attempt(ctx, method, path, body)
	if err != nil {
		return transportError(err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return decodeResponse(resp, out)
	}

	apiErr := classifyResponse(resp)
	closeBody(resp)

	if apiErr.Kind != KindAuthorizationExpired || c.creds == nil {
		return apiErr
	}

	// Authorization failure: drive one renewal. The session store collapses
	// concurrent renewals into a single network call, so every request that
	// failed at the same instant awaits the same outcome.
	if !c.creds.Renew(ctx) {
		log.Debug().Str("path", path).Msg("credential renewal failed, session expired")
		return &Error{Kind: KindSessionExpired, Status: apiErr.Status, Message: apiErr.Message}
	}

	log.Debug().Str("path", path).Msg("credential renewed, replaying request")

	// Replay exactly once with the refreshed credential. Whatever comes back
	// is final; a second authorization failure is surfaced as-is.
	resp, err = c.attempt(ctx, method, path, body)
	if err != nil {
		return transportError(err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return decodeResponse(resp, out)
	}
	apiErr = classifyResponse(resp)
	closeBody(resp)
	return apiErr
}

// attempt builds and executes a single HTTP request with the current
// credential attached. Each attempt carries its own request ID.
func (c *Client) attempt(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.deviceID != "" {
		req.Header.Set("X-Device-Id", c.deviceID)
	}
	if c.creds != nil {
		if cred, ok := c.creds.Credential(); ok {
			req.Header.Set("Authorization", "Bearer "+cred)
		}
	}

	return c.httpClient.Do(req)
}

func decodeResponse(resp *http.Response, out any) error {
	defer closeBody(resp)
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func closeBody(resp *http.Response) {
	// Drain so the underlying connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	_ = resp.Body.Close()
}
