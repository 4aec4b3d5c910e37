package api

import (
	"context"

	"github.com/mealdeck/mealdeck/internal/models"
)

// SubmitFeedback records a meal rating.
func (c *Client) SubmitFeedback(ctx context.Context, fb models.Feedback) error {
	return c.Post(ctx, "/api/feedback", fb, nil)
}

// FeedbackStats fetches the aggregates backing the feedback dashboard.
func (c *Client) FeedbackStats(ctx context.Context) (*models.FeedbackStats, error) {
	var stats models.FeedbackStats
	if err := c.Get(ctx, "/api/feedback/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
