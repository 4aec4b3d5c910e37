package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Kind classifies an API failure. Callers branch on Kind rather than raw
// HTTP status codes.
type Kind string

const (
	// KindInvalidCredentials means a login was rejected for a bad
	// username/password pair. Recoverable by user retry; never triggers renewal.
	KindInvalidCredentials Kind = "invalid_credentials"

	// KindValidationFailed means the server rejected the payload for
	// business-rule reasons (duplicate account, malformed field).
	KindValidationFailed Kind = "validation_failed"

	// KindAuthorizationExpired means an authenticated call was rejected with
	// an auth-failure status. Triggers at most one renew-and-retry cycle.
	KindAuthorizationExpired Kind = "authorization_expired"

	// KindSessionExpired means renewal itself failed and the session has been
	// cleared. Callers must treat this as logged-out.
	KindSessionExpired Kind = "session_expired"

	// KindRateLimited means the server returned too-many-requests. Carries an
	// optional Retry-After hint; never triggers renewal.
	KindRateLimited Kind = "rate_limited"

	// KindTransport means no response was received at all. Never retried by
	// this layer.
	KindTransport Kind = "transport_failure"

	// KindRemote covers every other non-2xx response.
	KindRemote Kind = "remote_error"
)

// Error is the classified failure returned by every API operation.
type Error struct {
	Kind       Kind
	Status     int           // HTTP status, 0 for transport failures
	Message    string        // server-provided message, if any
	RetryAfter time.Duration // only set for rate_limited
	cause      error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.cause)
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: HTTP %d", e.Kind, e.Status)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Kind == kind
}

// AsError unwraps err into an *Error if possible.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// transportError wraps a network-level failure where no response arrived.
func transportError(err error) *Error {
	return &Error{Kind: KindTransport, cause: err}
}

// errorBody is the JSON error envelope returned by the API.
type errorBody struct {
	Message string `json:"message"`
}

// maxErrorBody bounds how much of an error response is read for the message.
const maxErrorBody = 64 << 10

// classifyResponse turns a non-2xx response into an *Error. It consumes the
// response body.
func classifyResponse(resp *http.Response) *Error {
	var body errorBody
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil && len(data) > 0 {
		// Best effort; a non-JSON body just leaves Message empty
		_ = json.Unmarshal(data, &body)
	}

	apiErr := &Error{Status: resp.StatusCode, Message: body.Message}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		apiErr.Kind = KindAuthorizationExpired
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		apiErr.Kind = KindValidationFailed
	case http.StatusTooManyRequests:
		apiErr.Kind = KindRateLimited
		apiErr.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
	default:
		apiErr.Kind = KindRemote
	}

	return apiErr
}

// parseRetryAfter handles both delta-seconds and HTTP-date forms.
// Returns 0 when the header is absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
