package commands

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/mealdeck/mealdeck/internal/api"
	"github.com/mealdeck/mealdeck/internal/config"
	"github.com/mealdeck/mealdeck/internal/session"
)

type Globals struct {
	Debug      bool
	Version    string
	ConfigPath string
}

// app bundles the wired client stack shared by every command: one cookie jar,
// one HTTP client, one session store, one API client.
type app struct {
	cfg     config.Config
	profile *session.ProfileStore
	jar     *api.FileJar
	session *session.Store
	api     *api.Client
}

func newApp(globals *Globals) (*app, error) {
	cfg, err := config.Load(globals.ConfigPath)
	if err != nil {
		return nil, err
	}

	profile, err := session.NewProfileStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	origin, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}

	jar, err := api.NewFileJar(filepath.Join(profile.Dir(), "cookies.json"), origin)
	if err != nil {
		return nil, err
	}

	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		cacheDir = filepath.Join(profile.Dir(), "cache")
	}
	httpClient := api.NewCachingHTTPClient(jar, cacheDir, cfg.Timeout)

	store := session.New(session.Config{
		BaseURL:      cfg.BaseURL,
		RenewTimeout: cfg.RenewTimeout,
	}, httpClient, profile)

	deviceID := ""
	if p, err := profile.Load(); err == nil {
		deviceID = p.DeviceID
	}

	client := api.New(api.Config{BaseURL: cfg.BaseURL, DeviceID: deviceID}, httpClient, store)

	return &app{
		cfg:     cfg,
		profile: profile,
		jar:     jar,
		session: store,
		api:     client,
	}, nil
}

// requireSession attempts the startup renewal and fails with a friendly
// message when no session can be resumed.
func (a *app) requireSession(ctx context.Context) error {
	if a.session.Init(ctx) {
		return nil
	}
	return fmt.Errorf("not logged in, run 'mealdeck login' first")
}

// friendly rewrites classified API errors into messages suited for the
// terminal; anything unrecognised passes through unchanged.
func friendly(err error) error {
	apiErr, ok := api.AsError(err)
	if !ok {
		return err
	}
	switch apiErr.Kind {
	case api.KindSessionExpired:
		return fmt.Errorf("your session has expired, run 'mealdeck login' to sign in again")
	case api.KindRateLimited:
		if apiErr.RetryAfter > 0 {
			return fmt.Errorf("slow down: try again in %s", apiErr.RetryAfter)
		}
		return fmt.Errorf("slow down: too many requests")
	case api.KindTransport:
		return fmt.Errorf("could not reach the server: %v", err)
	default:
		return err
	}
}
