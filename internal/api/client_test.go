package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCreds is a CredentialSource with scripted renewal behaviour.
type stubCreds struct {
	mu         sync.Mutex
	token      string
	next       string
	renewOK    bool
	renewCalls int
}

func (s *stubCreds) Credential() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

func (s *stubCreds) Renew(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renewCalls++
	if s.renewOK && s.next != "" {
		s.token = s.next
	}
	return s.renewOK
}

func (s *stubCreds) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renewCalls
}

func newTestClient(t *testing.T, handler http.Handler, creds CredentialSource) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL, DeviceID: "dev-1"}, &http.Client{Timeout: 5 * time.Second}, creds)
}

func TestClient_RenewAndReplay(t *testing.T) {
	t.Run("expired credential is renewed and the call replayed once", func(t *testing.T) {
		var hits atomic.Int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		})

		creds := &stubCreds{token: "stale", next: "fresh", renewOK: true}
		client := newTestClient(t, handler, creds)

		var out map[string]string
		err := client.Get(context.Background(), "/api/plans/current", &out)
		require.NoError(t, err)
		assert.Equal(t, "ok", out["status"])
		assert.Equal(t, int32(2), hits.Load())
		assert.Equal(t, 1, creds.calls())
	})

	t.Run("a second authorization failure is surfaced, never a second retry", func(t *testing.T) {
		var hits atomic.Int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
		})

		creds := &stubCreds{token: "stale", next: "fresh", renewOK: true}
		client := newTestClient(t, handler, creds)

		err := client.Get(context.Background(), "/api/plans/current", nil)
		require.Error(t, err)
		assert.True(t, IsKind(err, KindAuthorizationExpired))
		assert.Equal(t, int32(2), hits.Load())
		assert.Equal(t, 1, creds.calls())
	})

	t.Run("failed renewal becomes session_expired without a replay", func(t *testing.T) {
		var hits atomic.Int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
		})

		creds := &stubCreds{token: "stale", renewOK: false}
		client := newTestClient(t, handler, creds)

		err := client.Get(context.Background(), "/api/plans/current", nil)
		require.Error(t, err)
		assert.True(t, IsKind(err, KindSessionExpired))
		assert.Equal(t, int32(1), hits.Load())
		assert.Equal(t, 1, creds.calls())
	})

	t.Run("replayed requests resend the full body", func(t *testing.T) {
		var bodies [][]byte
		var mu sync.Mutex
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			mu.Lock()
			bodies = append(bodies, body)
			mu.Unlock()
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(http.StatusCreated)
		})

		creds := &stubCreds{token: "stale", next: "fresh", renewOK: true}
		client := newTestClient(t, handler, creds)

		err := client.Post(context.Background(), "/api/feedback", map[string]any{"recipeId": "r1", "rating": 5}, nil)
		require.NoError(t, err)

		require.Len(t, bodies, 2)
		assert.JSONEq(t, string(bodies[0]), string(bodies[1]))
	})
}

func TestClient_NoRetryForOtherFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		kind   Kind
	}{
		{"rate limited", http.StatusTooManyRequests, KindRateLimited},
		{"validation", http.StatusUnprocessableEntity, KindValidationFailed},
		{"server error", http.StatusInternalServerError, KindRemote},
		{"not found", http.StatusNotFound, KindRemote},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var hits atomic.Int32
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				if tc.status == http.StatusTooManyRequests {
					w.Header().Set("Retry-After", "30")
				}
				w.WriteHeader(tc.status)
			})

			creds := &stubCreds{token: "valid", renewOK: true}
			client := newTestClient(t, handler, creds)

			err := client.Get(context.Background(), "/api/chat", nil)
			require.Error(t, err)
			assert.True(t, IsKind(err, tc.kind))
			assert.Equal(t, int32(1), hits.Load(), "no retry for %s", tc.name)
			assert.Equal(t, 0, creds.calls(), "no renewal for %s", tc.name)

			if tc.kind == KindRateLimited {
				apiErr, ok := AsError(err)
				require.True(t, ok)
				assert.Equal(t, 30*time.Second, apiErr.RetryAfter)
			}
		})
	}
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	creds := &stubCreds{token: "valid", renewOK: true}
	client := New(Config{BaseURL: srv.URL}, &http.Client{Timeout: time.Second}, creds)

	err := client.Get(context.Background(), "/api/plans/current", nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindTransport))
	assert.Equal(t, 0, creds.calls())
}

func TestClient_Headers(t *testing.T) {
	t.Run("attaches bearer, device and request ids", func(t *testing.T) {
		var requestIDs []string
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestIDs = append(requestIDs, r.Header.Get("X-Request-Id"))
			assert.Equal(t, "dev-1", r.Header.Get("X-Device-Id"))
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("{}"))
		})

		creds := &stubCreds{token: "stale", next: "fresh", renewOK: true}
		client := newTestClient(t, handler, creds)

		require.NoError(t, client.Get(context.Background(), "/api/plans/current", nil))

		require.Len(t, requestIDs, 2)
		assert.NotEmpty(t, requestIDs[0])
		assert.NotEmpty(t, requestIDs[1])
		assert.NotEqual(t, requestIDs[0], requestIDs[1], "each attempt carries its own request id")
	})

	t.Run("absent credential means an unauthenticated call and no renewal", func(t *testing.T) {
		var hits atomic.Int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			assert.Empty(t, r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusUnauthorized)
		})

		client := newTestClient(t, handler, nil)

		err := client.Get(context.Background(), "/api/plans/current", nil)
		require.Error(t, err)
		assert.True(t, IsKind(err, KindAuthorizationExpired))
		assert.Equal(t, int32(1), hits.Load())
	})
}
