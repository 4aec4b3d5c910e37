package models

import "time"

// User represents the authenticated account as returned by the identity endpoint.
// Only the UserID is ever persisted locally; everything else is re-hydrated
// from the server after each session renewal.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// DietType values accepted by the preferences endpoint.
const (
	DietOmnivore   = "omnivore"
	DietVegetarian = "vegetarian"
	DietVegan      = "vegan"
	DietPescatarian = "pescatarian"
)

// Preferences is the onboarding payload describing how plans should be generated.
type Preferences struct {
	Diet         string   `json:"diet"`
	Allergies    []string `json:"allergies,omitempty"`
	Dislikes     []string `json:"dislikes,omitempty"`
	Servings     int      `json:"servings"`
	WeeklyBudget float64  `json:"weeklyBudget,omitempty"`
	Goal         string   `json:"goal,omitempty"`
}
