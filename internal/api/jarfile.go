package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// FileJar wraps an in-memory cookie jar and persists cookies set by the API
// origin to disk, so the server-held renewal reference survives process
// restarts the way a browser cookie store would. Application code never reads
// cookie values; the jar is the only component that touches them.
type FileJar struct {
	inner  *cookiejar.Jar
	path   string
	origin *url.URL

	mu     sync.Mutex
	stored map[string]storedCookie
}

type storedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Expires time.Time `json:"expires,omitzero"`
}

// NewFileJar creates a jar persisting cookies for origin at path.
// A missing file is not an error; a corrupt one is discarded with a warning.
func NewFileJar(path string, origin *url.URL) (*FileJar, error) {
	inner, err := NewCookieJar()
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	j := &FileJar{
		inner:  inner,
		path:   path,
		origin: origin,
		stored: make(map[string]storedCookie),
	}

	if err := j.load(); err != nil {
		return nil, err
	}

	return j, nil
}

// Cookies implements http.CookieJar.
func (j *FileJar) Cookies(u *url.URL) []*http.Cookie {
	return j.inner.Cookies(u)
}

// SetCookies implements http.CookieJar. Cookies for the API origin are
// mirrored to disk; everything else stays in memory only.
func (j *FileJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.inner.SetCookies(u, cookies)

	if u.Host != j.origin.Host {
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	changed := false
	for _, c := range cookies {
		if c.MaxAge < 0 {
			if _, ok := j.stored[c.Name]; ok {
				delete(j.stored, c.Name)
				changed = true
			}
			continue
		}

		sc := storedCookie{Name: c.Name, Value: c.Value, Path: c.Path}
		if c.MaxAge > 0 {
			sc.Expires = time.Now().Add(time.Duration(c.MaxAge) * time.Second)
		} else if !c.Expires.IsZero() {
			sc.Expires = c.Expires
		}
		if !sc.Expires.IsZero() && time.Now().After(sc.Expires) {
			continue
		}

		j.stored[c.Name] = sc
		changed = true
	}

	if changed {
		if err := j.save(); err != nil {
			log.Warn().Err(err).Str("path", j.path).Msg("failed to persist cookies")
		}
	}
}

// Clear drops every stored cookie, in memory and on disk.
func (j *FileJar) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	inner, err := NewCookieJar()
	if err != nil {
		return fmt.Errorf("failed to reset cookie jar: %w", err)
	}
	j.inner = inner
	j.stored = make(map[string]storedCookie)

	if err := os.Remove(j.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove cookie file: %w", err)
	}
	return nil
}

func (j *FileJar) load() error {
	data, err := os.ReadFile(j.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read cookie file: %w", err)
	}

	var cookies []storedCookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		log.Warn().Str("path", j.path).Msg("discarding corrupt cookie file")
		return nil
	}

	now := time.Now()
	for _, sc := range cookies {
		if !sc.Expires.IsZero() && now.After(sc.Expires) {
			continue
		}
		j.stored[sc.Name] = sc

		cookiePath := sc.Path
		if cookiePath == "" {
			cookiePath = "/"
		}
		u := *j.origin
		u.Path = cookiePath
		j.inner.SetCookies(&u, []*http.Cookie{{Name: sc.Name, Value: sc.Value, Path: sc.Path}})
	}

	return nil
}

// save writes the cookie file atomically. Caller holds the mutex.
func (j *FileJar) save() error {
	cookies := make([]storedCookie, 0, len(j.stored))
	for _, sc := range j.stored {
		cookies = append(cookies, sc)
	}
	sort.Slice(cookies, func(i, k int) bool { return cookies[i].Name < cookies[k].Name })

	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cookies: %w", err)
	}

	tempPath := j.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write cookie file: %w", err)
	}
	if err := os.Rename(tempPath, j.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save cookie file: %w", err)
	}

	return nil
}
