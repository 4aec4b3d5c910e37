package commands

import (
	"context"
	"fmt"

	"github.com/mealdeck/mealdeck/internal/api"
	"github.com/mealdeck/mealdeck/internal/models"
)

type OnboardCmd struct {
	Diet      string   `help:"Diet type." enum:"omnivore,vegetarian,vegan,pescatarian" default:"omnivore"`
	Allergies []string `help:"Ingredients to exclude entirely."`
	Dislikes  []string `help:"Ingredients to avoid where possible."`
	Servings  int      `help:"Servings per meal." default:"2"`
	Budget    float64  `help:"Weekly budget, in your local currency."`
	Goal      string   `help:"Free-text goal, e.g. 'more protein'."`
}

func (c *OnboardCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	user := a.session.User()
	err = a.api.SavePreferences(ctx, user.ID, models.Preferences{
		Diet:         c.Diet,
		Allergies:    c.Allergies,
		Dislikes:     c.Dislikes,
		Servings:     c.Servings,
		WeeklyBudget: c.Budget,
		Goal:         c.Goal,
	})
	if err != nil {
		if apiErr, ok := api.AsError(err); ok && apiErr.Kind == api.KindValidationFailed && apiErr.Message != "" {
			return fmt.Errorf("preferences rejected: %s", apiErr.Message)
		}
		return friendly(err)
	}

	fmt.Println("Preferences saved. Run 'mealdeck plan generate' to build a plan around them.")
	return nil
}
