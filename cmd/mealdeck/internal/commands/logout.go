package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}

	a.session.Init(ctx)
	a.session.Logout(ctx)

	if err := a.jar.Clear(); err != nil {
		log.Warn().Err(err).Msg("failed to clear stored cookies")
	}

	fmt.Println("Logged out.")
	return nil
}
