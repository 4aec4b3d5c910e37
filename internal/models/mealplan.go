package models

import "time"

// Meal slot names used in a day's plan.
const (
	SlotBreakfast = "breakfast"
	SlotLunch     = "lunch"
	SlotDinner    = "dinner"
)

// MealPlan is one week of planned meals for a user.
type MealPlan struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId"`
	WeekStart time.Time     `json:"weekStart"`
	Meals     []PlannedMeal `json:"meals"`
	CreatedAt time.Time     `json:"createdAt"`
}

// PlannedMeal is a single recipe assignment within a plan.
type PlannedMeal struct {
	Day      string `json:"day"`  // "monday" .. "sunday"
	Slot     string `json:"slot"` // breakfast, lunch, dinner
	RecipeID string `json:"recipeId"`
	Title    string `json:"title"`
	Servings int    `json:"servings"`
	Calories int    `json:"calories,omitempty"`
}

// GeneratePlanRequest asks the server to build a fresh weekly plan.
// Zero values mean "use the stored preferences".
type GeneratePlanRequest struct {
	WeekStart time.Time `json:"weekStart,omitzero"`
	Servings  int       `json:"servings,omitempty"`
	ExcludeRecipeIDs []string `json:"excludeRecipeIds,omitempty"`
}
