package api

import (
	"context"
	"net/url"

	"github.com/mealdeck/mealdeck/internal/models"
)

// Recipe fetches full recipe detail. Responses are cacheable; when the client
// is built with a caching transport, repeat views are served per the server's
// Cache-Control headers.
func (c *Client) Recipe(ctx context.Context, id string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := c.Get(ctx, "/api/recipes/"+url.PathEscape(id), &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

type searchResponse struct {
	Recipes []models.RecipeSummary `json:"recipes"`
}

// SearchRecipes runs a free-text recipe search.
func (c *Client) SearchRecipes(ctx context.Context, query string) ([]models.RecipeSummary, error) {
	var resp searchResponse
	if err := c.Get(ctx, "/api/recipes?q="+url.QueryEscape(query), &resp); err != nil {
		return nil, err
	}
	return resp.Recipes, nil
}
