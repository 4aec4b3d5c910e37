package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/mealdeck/mealdeck/internal/api"
	"github.com/mealdeck/mealdeck/internal/models"
)

// renewKey is the singleflight key for renewal; there is exactly one session,
// so one key.
const renewKey = "renew"

// Config holds session store settings.
type Config struct {
	BaseURL string
	// RenewTimeout bounds the renewal call. A hung renewal would otherwise
	// stall every caller queued behind it, so it fails closed instead.
	RenewTimeout time.Duration
}

// Store is the single source of truth for who the current user is and which
// access credential authenticates them. The credential lives in memory only;
// the long-lived renewal reference is a server-set cookie carried by the
// HTTP client's jar and never read by application code.
//
// Renewal is single-flighted: however many callers hit an expired credential
// at once, the renewal endpoint sees one request and every caller observes
// the same outcome.
type Store struct {
	baseURL      string
	renewTimeout time.Duration
	httpClient   *http.Client
	profile      *ProfileStore

	group singleflight.Group

	mu            sync.RWMutex
	credential    string
	user          *models.User
	authenticated bool
	initialized   bool
	lastError     string
}

// New creates a session store. httpClient must carry the cookie jar shared
// with the API client so the renewal-reference cookie set at login is
// presented on renewal.
func New(cfg Config, httpClient *http.Client, profile *ProfileStore) *Store {
	if cfg.RenewTimeout <= 0 {
		cfg.RenewTimeout = 15 * time.Second
	}
	return &Store{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		renewTimeout: cfg.RenewTimeout,
		httpClient:   httpClient,
		profile:      profile,
	}
}

// Credential returns the in-memory access credential, if any. It never
// blocks and never performs network I/O.
func (s *Store) Credential() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential, s.credential != ""
}

// User returns the hydrated identity, or nil when unauthenticated.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Authenticated reports whether a usable credential is held.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Initialized reports whether the startup renewal attempt has completed.
func (s *Store) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// LastError returns the diagnostic from the most recent session failure.
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// CredentialExpiry peeks at the credential's expiry claim for display.
func (s *Store) CredentialExpiry() (time.Time, bool) {
	cred, ok := s.Credential()
	if !ok {
		return time.Time{}, false
	}
	_, expiresAt, err := peekCredential(cred)
	if err != nil || expiresAt.IsZero() {
		return time.Time{}, false
	}
	return expiresAt, true
}

// Init performs the startup renewal attempt: if a user identifier survives
// from a previous run, it tries to resume that session. Reports whether the
// store ended up authenticated.
func (s *Store) Init(ctx context.Context) bool {
	if s.Initialized() {
		return s.Authenticated()
	}

	p, err := s.profile.Load()
	if err != nil || p.UserID == "" {
		s.mu.Lock()
		s.initialized = true
		s.mu.Unlock()
		return false
	}

	log.Debug().Str("userID", p.UserID).Msg("resuming previous session")

	return s.Renew(ctx)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	AccessCredential string       `json:"accessCredential"`
	User             *models.User `json:"user"`
}

// Login authenticates with the remote login endpoint. On success the access
// credential is held in memory, the user identifier is persisted, and the
// server sets the renewal-reference cookie on the shared jar. On failure the
// existing session state is left untouched.
func (s *Store) Login(ctx context.Context, username, password string) (*models.User, error) {
	resp, err := s.postJSON(ctx, "/auth/login", credentialsRequest{Username: username, Password: password}, "")
	if err != nil {
		return nil, &api.Error{Kind: api.KindTransport, Message: err.Error()}
	}
	defer drainBody(resp)

	switch {
	case resp.StatusCode == http.StatusOK:
		var auth authResponse
		if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
			return nil, fmt.Errorf("failed to decode login response: %w", err)
		}
		s.establish(auth.AccessCredential, auth.User)
		return auth.User, nil

	case resp.StatusCode == http.StatusUnauthorized:
		return nil, &api.Error{Kind: api.KindInvalidCredentials, Status: resp.StatusCode, Message: responseMessage(resp)}

	default:
		return nil, &api.Error{Kind: api.KindRemote, Status: resp.StatusCode, Message: responseMessage(resp)}
	}
}

// Registration is the signup payload collected by onboarding.
type Registration struct {
	Email       string              `json:"email"`
	Name        string              `json:"name"`
	Password    string              `json:"password"`
	Preferences *models.Preferences `json:"preferences,omitempty"`
}

type registerResponse struct {
	Success          bool         `json:"success"`
	AccessCredential string       `json:"accessCredential,omitempty"`
	User             *models.User `json:"user,omitempty"`
	Message          string       `json:"message,omitempty"`
}

// Register creates an account. A business-rule rejection (duplicate email,
// malformed field) surfaces as validation_failed with the server's message;
// transport failures are classified separately.
func (s *Store) Register(ctx context.Context, reg Registration) (*models.User, error) {
	resp, err := s.postJSON(ctx, "/auth/register", reg, "")
	if err != nil {
		return nil, &api.Error{Kind: api.KindTransport, Message: err.Error()}
	}
	defer drainBody(resp)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		var created registerResponse
		if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
			return nil, fmt.Errorf("failed to decode register response: %w", err)
		}
		if !created.Success {
			return nil, &api.Error{Kind: api.KindValidationFailed, Status: resp.StatusCode, Message: created.Message}
		}
		s.establish(created.AccessCredential, created.User)
		return created.User, nil

	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return nil, &api.Error{Kind: api.KindValidationFailed, Status: resp.StatusCode, Message: responseMessage(resp)}

	default:
		return nil, &api.Error{Kind: api.KindRemote, Status: resp.StatusCode, Message: responseMessage(resp)}
	}
}

// Renew replaces the access credential using the server-held renewal
// reference. Concurrent calls collapse into a single network request whose
// outcome every caller observes. Any failure clears the session entirely:
// an ambiguous renewal must not leave a stale credential in use.
func (s *Store) Renew(ctx context.Context) bool {
	v, _, _ := s.group.Do(renewKey, func() (any, error) {
		return s.renew(ctx), nil
	})
	renewed, _ := v.(bool)
	return renewed
}

type renewResponse struct {
	AccessCredential string `json:"accessCredential"`
}

func (s *Store) renew(ctx context.Context) bool {
	// Detach from the triggering caller's cancellation: late joiners share
	// this renewal, so one caller going away must not fail it for the rest.
	// The explicit timeout bounds a hung renewal instead.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.renewTimeout)
	defer cancel()

	resp, err := s.postJSON(ctx, "/auth/refresh", nil, "")
	if err != nil {
		s.failClosed(fmt.Sprintf("renewal failed: %v", err))
		return false
	}
	defer drainBody(resp)

	if resp.StatusCode != http.StatusOK {
		s.failClosed(fmt.Sprintf("renewal rejected: HTTP %d", resp.StatusCode))
		return false
	}

	var renewed renewResponse
	if err := json.NewDecoder(resp.Body).Decode(&renewed); err != nil {
		s.failClosed(fmt.Sprintf("renewal failed: %v", err))
		return false
	}
	if renewed.AccessCredential == "" {
		s.failClosed("renewal returned no credential")
		return false
	}

	user, err := s.hydrateUser(ctx, renewed.AccessCredential)
	if err != nil {
		// Hydration is part of the renewal; an identity we cannot confirm is
		// treated the same as a rejected renewal.
		s.failClosed(fmt.Sprintf("identity hydration failed: %v", err))
		return false
	}

	s.establish(renewed.AccessCredential, user)

	log.Debug().Str("userID", user.ID).Msg("session renewed")

	return true
}

// hydrateUser fetches the identity record with the freshly minted credential.
// The user identifier comes from the durable profile, falling back to the
// credential's subject claim on a first run.
func (s *Store) hydrateUser(ctx context.Context, credential string) (*models.User, error) {
	userID := ""
	if p, err := s.profile.Load(); err == nil {
		userID = p.UserID
	}
	if userID == "" {
		subject, _, err := peekCredential(credential)
		if err != nil || subject == "" {
			return nil, fmt.Errorf("no user identifier available")
		}
		userID = subject
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/user/"+userID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build identity request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity request failed: %w", err)
	}
	defer drainBody(resp)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity request rejected: HTTP %d", resp.StatusCode)
	}

	var envelope struct {
		User *models.User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode identity response: %w", err)
	}
	if envelope.User == nil || envelope.User.ID == "" {
		return nil, fmt.Errorf("identity response missing user")
	}

	return envelope.User, nil
}

// Logout ends the session. The remote call is best effort: whatever it
// returns, local state is cleared unconditionally.
func (s *Store) Logout(ctx context.Context) {
	cred, _ := s.Credential()

	resp, err := s.postJSON(ctx, "/auth/logout", nil, cred)
	if err != nil {
		log.Warn().Err(err).Msg("remote logout failed, clearing local session anyway")
	} else {
		drainBody(resp)
		if resp.StatusCode >= 300 {
			log.Warn().Int("status", resp.StatusCode).Msg("remote logout rejected, clearing local session anyway")
		}
	}

	s.mu.Lock()
	s.credential = ""
	s.user = nil
	s.authenticated = false
	s.initialized = true
	s.lastError = ""
	s.mu.Unlock()

	if err := s.profile.Clear(); err != nil {
		log.Warn().Err(err).Msg("failed to clear persisted user identifier")
	}

	log.Info().Msg("logged out")
}

// establish installs a fresh credential and identity, and persists the
// durable user identifier. The credential itself is never persisted.
func (s *Store) establish(credential string, user *models.User) {
	s.mu.Lock()
	s.credential = credential
	s.user = user
	s.authenticated = credential != ""
	s.initialized = true
	s.lastError = ""
	s.mu.Unlock()

	if user != nil && user.ID != "" {
		if err := s.profile.SaveUserID(user.ID); err != nil {
			log.Warn().Err(err).Msg("failed to persist user identifier")
		}
	}
}

// failClosed wipes the session, memory and disk both, and records why.
func (s *Store) failClosed(reason string) {
	s.mu.Lock()
	s.credential = ""
	s.user = nil
	s.authenticated = false
	s.initialized = true
	s.lastError = reason
	s.mu.Unlock()

	if err := s.profile.Clear(); err != nil {
		log.Warn().Err(err).Msg("failed to clear persisted user identifier")
	}

	log.Warn().Str("reason", reason).Msg("session cleared")
}

// postJSON posts to an auth endpoint. credential is attached when non-empty.
func (s *Store) postJSON(ctx context.Context, path string, in any, credential string) (*http.Response, error) {
	var reader io.Reader
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	return s.httpClient.Do(req)
}

// maxMessageBody bounds how much of an error response is read for a message.
const maxMessageBody = 64 << 10

// responseMessage extracts the server's error message, if any.
func responseMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxMessageBody))
	if err != nil || len(data) == 0 {
		return ""
	}
	var body struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(data, &body)
	return body.Message
}

func drainBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxMessageBody))
	_ = resp.Body.Close()
}
