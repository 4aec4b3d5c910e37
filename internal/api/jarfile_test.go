package api

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestFileJar(t *testing.T) {
	origin := mustParse(t, "http://api.mealdeck.test")

	t.Run("cookies survive a reload", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cookies.json")

		jar, err := NewFileJar(path, origin)
		require.NoError(t, err)

		jar.SetCookies(origin, []*http.Cookie{{Name: "mealdeck_refresh", Value: "ref-1", Path: "/auth"}})

		reloaded, err := NewFileJar(path, origin)
		require.NoError(t, err)

		cookies := reloaded.Cookies(mustParse(t, "http://api.mealdeck.test/auth/refresh"))
		require.Len(t, cookies, 1)
		assert.Equal(t, "mealdeck_refresh", cookies[0].Name)
		assert.Equal(t, "ref-1", cookies[0].Value)
	})

	t.Run("cookie file has restrictive permissions", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cookies.json")

		jar, err := NewFileJar(path, origin)
		require.NoError(t, err)
		jar.SetCookies(origin, []*http.Cookie{{Name: "mealdeck_refresh", Value: "ref-1"}})

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("expired cookie deletion is persisted", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cookies.json")

		jar, err := NewFileJar(path, origin)
		require.NoError(t, err)
		jar.SetCookies(origin, []*http.Cookie{{Name: "mealdeck_refresh", Value: "ref-1"}})
		jar.SetCookies(origin, []*http.Cookie{{Name: "mealdeck_refresh", Value: "", MaxAge: -1}})

		reloaded, err := NewFileJar(path, origin)
		require.NoError(t, err)
		assert.Empty(t, reloaded.Cookies(origin))
	})

	t.Run("cookies from other hosts stay in memory only", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cookies.json")

		jar, err := NewFileJar(path, origin)
		require.NoError(t, err)

		other := mustParse(t, "http://other.example.test")
		jar.SetCookies(other, []*http.Cookie{{Name: "tracker", Value: "x"}})

		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("clear removes memory and disk state", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cookies.json")

		jar, err := NewFileJar(path, origin)
		require.NoError(t, err)
		jar.SetCookies(origin, []*http.Cookie{{Name: "mealdeck_refresh", Value: "ref-1"}})

		require.NoError(t, jar.Clear())
		assert.Empty(t, jar.Cookies(origin))

		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("corrupt cookie file is discarded", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cookies.json")
		require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

		jar, err := NewFileJar(path, origin)
		require.NoError(t, err)
		assert.Empty(t, jar.Cookies(origin))
	})
}
