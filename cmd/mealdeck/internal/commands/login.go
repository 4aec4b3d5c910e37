package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mealdeck/mealdeck/internal/api"
)

type LoginCmd struct {
	Username string `arg:"" help:"Account username or email."`
	Password string `help:"Account password." env:"MEALDECK_PASSWORD" required:""`
}

func (c *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}

	user, err := a.session.Login(ctx, c.Username, c.Password)
	if err != nil {
		if api.IsKind(err, api.KindInvalidCredentials) {
			return fmt.Errorf("login rejected: check your username and password")
		}
		return friendly(err)
	}

	log.Debug().Str("userID", user.ID).Msg("session established")

	if exp, ok := a.session.CredentialExpiry(); ok {
		fmt.Printf("Logged in as %s (credential valid until %s)\n", user.Name, exp.Local().Format("15:04:05"))
		return nil
	}
	fmt.Printf("Logged in as %s\n", user.Name)
	return nil
}
