package models

import "time"

// Feedback is a single meal rating submitted by the user.
type Feedback struct {
	RecipeID  string    `json:"recipeId"`
	Rating    int       `json:"rating"` // 1..5
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// FeedbackStats is the aggregate view backing the feedback dashboard.
type FeedbackStats struct {
	TotalRatings  int            `json:"totalRatings"`
	AverageRating float64        `json:"averageRating"`
	TopRecipes    []RecipeRating `json:"topRecipes,omitempty"`
}

// RecipeRating is a per-recipe aggregate within FeedbackStats.
type RecipeRating struct {
	RecipeID      string  `json:"recipeId"`
	Title         string  `json:"title"`
	AverageRating float64 `json:"averageRating"`
	RatingCount   int     `json:"ratingCount"`
}
