package api

import (
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
	"golang.org/x/net/publicsuffix"
)

// NewCookieJar creates the cookie jar that carries the server-set renewal
// reference. The cookie is HttpOnly on the wire and application code never
// reads it; the jar is the only holder on the client side.
func NewCookieJar() (*cookiejar.Jar, error) {
	return cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
}

// NewHTTPClient creates the HTTP client shared by the session store and the
// API client so both see the same renewal-reference cookie.
func NewHTTPClient(jar http.CookieJar, timeout time.Duration) *http.Client {
	return &http.Client{
		Jar:     jar,
		Timeout: timeout,
	}
}

// NewCachingHTTPClient creates an HTTP client with disk-based response
// caching. Used for recipe reads, where the server marks responses cacheable
// with Cache-Control headers.
func NewCachingHTTPClient(jar http.CookieJar, cacheDir string, timeout time.Duration) *http.Client {
	if cacheDir == "" {
		// Use in-memory cache if no cache directory specified
		return &http.Client{
			Jar:       jar,
			Timeout:   timeout,
			Transport: httpcache.NewTransport(httpcache.NewMemoryCache()),
		}
	}

	// Use disk-based cache for persistence across restarts
	cache := diskcache.New(cacheDir)
	transport := httpcache.NewTransport(cache)

	return &http.Client{
		Jar:       jar,
		Timeout:   timeout,
		Transport: transport,
	}
}
