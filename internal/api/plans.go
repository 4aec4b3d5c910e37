package api

import (
	"context"

	"github.com/mealdeck/mealdeck/internal/models"
)

// CurrentPlan fetches the active weekly plan for the logged-in user.
func (c *Client) CurrentPlan(ctx context.Context) (*models.MealPlan, error) {
	var plan models.MealPlan
	if err := c.Get(ctx, "/api/plans/current", &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// GeneratePlan asks the server to build a fresh weekly plan from the stored
// preferences, overridden by any non-zero fields in req.
func (c *Client) GeneratePlan(ctx context.Context, req models.GeneratePlanRequest) (*models.MealPlan, error) {
	var plan models.MealPlan
	if err := c.Post(ctx, "/api/plans", req, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}
