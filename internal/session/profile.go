package session

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mr-tron/base58"
	"github.com/rs/zerolog/log"
)

// Profile is the only session state that survives restarts. It deliberately
// excludes the access credential: leaking this file must never leak a usable
// token.
type Profile struct {
	Version   int       `json:"version"`
	UserID    string    `json:"user_id,omitempty"`
	DeviceID  string    `json:"device_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileStore manages the durable profile on the local filesystem.
type ProfileStore struct {
	baseDir string
}

// NewProfileStore creates a profile store rooted at baseDir.
// If baseDir is empty, uses ~/.mealdeck/
func NewProfileStore(baseDir string) (*ProfileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".mealdeck")
	}

	// Create directory with 0700 permissions
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	store := &ProfileStore{baseDir: baseDir}

	if err := store.ensureProfile(); err != nil {
		return nil, err
	}

	log.Debug().Str("baseDir", baseDir).Msg("profile store initialized")

	return store, nil
}

// Dir returns the directory holding the profile and related client state.
func (s *ProfileStore) Dir() string {
	return s.baseDir
}

// Load reads the current profile.
func (s *ProfileStore) Load() (*Profile, error) {
	data, err := os.ReadFile(s.profilePath())
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	return &p, nil
}

// SaveUserID records the durable user identifier after a successful login,
// registration, or renewal.
func (s *ProfileStore) SaveUserID(userID string) error {
	p, err := s.Load()
	if err != nil {
		return err
	}

	p.UserID = userID
	p.UpdatedAt = time.Now().UTC()

	if err := s.save(p); err != nil {
		return err
	}

	log.Debug().Str("userID", userID).Msg("user identifier persisted")

	return nil
}

// Clear removes the user identifier. The device identifier is kept so the
// installation keeps a stable identity across logins.
func (s *ProfileStore) Clear() error {
	p, err := s.Load()
	if err != nil {
		return err
	}

	if p.UserID == "" {
		return nil
	}

	p.UserID = ""
	p.UpdatedAt = time.Now().UTC()

	if err := s.save(p); err != nil {
		return err
	}

	log.Debug().Msg("user identifier cleared")

	return nil
}

// ensureProfile creates an empty profile with a fresh device identifier if
// none exists.
func (s *ProfileStore) ensureProfile() error {
	if _, err := os.Stat(s.profilePath()); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat profile: %w", err)
	}

	deviceID, err := newDeviceID()
	if err != nil {
		return err
	}

	return s.save(&Profile{
		Version:   1,
		DeviceID:  deviceID,
		UpdatedAt: time.Now().UTC(),
	})
}

// save writes the profile file atomically.
func (s *ProfileStore) save(p *Profile) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	// Write to temp file first
	profilePath := s.profilePath()
	tempPath := profilePath + ".tmp"

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tempPath, profilePath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save profile: %w", err)
	}

	return nil
}

func (s *ProfileStore) profilePath() string {
	return filepath.Join(s.baseDir, "profile.json")
}

// newDeviceID generates a random Base58-encoded installation identifier.
func newDeviceID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate device id: %w", err)
	}
	return base58.Encode(buf), nil
}
