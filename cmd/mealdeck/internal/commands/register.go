package commands

import (
	"context"
	"fmt"

	"github.com/mealdeck/mealdeck/internal/api"
	"github.com/mealdeck/mealdeck/internal/models"
	"github.com/mealdeck/mealdeck/internal/session"
)

type RegisterCmd struct {
	Email    string `arg:"" help:"Email address for the new account."`
	Name     string `help:"Display name." required:""`
	Password string `help:"Account password." env:"MEALDECK_PASSWORD" required:""`
	Diet     string `help:"Starting diet preference." enum:"omnivore,vegetarian,vegan,pescatarian" default:"omnivore"`
	Servings int    `help:"Default servings per meal." default:"2"`
}

func (c *RegisterCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}

	user, err := a.session.Register(ctx, session.Registration{
		Email:    c.Email,
		Name:     c.Name,
		Password: c.Password,
		Preferences: &models.Preferences{
			Diet:     c.Diet,
			Servings: c.Servings,
		},
	})
	if err != nil {
		if apiErr, ok := api.AsError(err); ok && apiErr.Kind == api.KindValidationFailed {
			if apiErr.Message != "" {
				return fmt.Errorf("registration rejected: %s", apiErr.Message)
			}
			return fmt.Errorf("registration rejected")
		}
		return friendly(err)
	}

	fmt.Printf("Welcome, %s! You are registered and logged in.\n", user.Name)
	fmt.Println("Run 'mealdeck onboard' to fill in your preferences, then 'mealdeck plan generate'.")
	return nil
}
