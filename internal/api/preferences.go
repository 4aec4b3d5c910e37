package api

import (
	"context"
	"net/url"

	"github.com/mealdeck/mealdeck/internal/models"
)

// SavePreferences stores the onboarding payload for the given user.
func (c *Client) SavePreferences(ctx context.Context, userID string, prefs models.Preferences) error {
	return c.Put(ctx, "/api/user/"+url.PathEscape(userID)+"/preferences", prefs, nil)
}

// Preferences fetches the stored onboarding answers.
func (c *Client) Preferences(ctx context.Context, userID string) (*models.Preferences, error) {
	var prefs models.Preferences
	if err := c.Get(ctx, "/api/user/"+url.PathEscape(userID)+"/preferences", &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}
