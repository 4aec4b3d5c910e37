package models

// Recipe is the full recipe detail record.
type Recipe struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	PrepMinutes int          `json:"prepMinutes"`
	CookMinutes int          `json:"cookMinutes"`
	Servings    int          `json:"servings"`
	Calories    int          `json:"calories,omitempty"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []string     `json:"steps"`
	Tags        []string     `json:"tags,omitempty"`
	ImageURL    string       `json:"imageUrl,omitempty"`
}

// Ingredient is one line of a recipe's ingredient list.
type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit,omitempty"`
}

// RecipeSummary is the compact form returned by search.
type RecipeSummary struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	TotalMinutes int      `json:"totalMinutes"`
	Tags         []string `json:"tags,omitempty"`
}
