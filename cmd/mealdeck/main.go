package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog/log"

	"github.com/mealdeck/mealdeck/cmd/mealdeck/internal/commands"
	"github.com/mealdeck/mealdeck/internal/logger"
)

var (
	version = "dev"
	cli     struct {
		Login    commands.LoginCmd    `cmd:"" help:"Log in to your account"`
		Register commands.RegisterCmd `cmd:"" help:"Create an account"`
		Logout   commands.LogoutCmd   `cmd:"" help:"Log out and clear local session state"`
		Whoami   commands.WhoamiCmd   `cmd:"" help:"Show the current session"`
		Onboard  commands.OnboardCmd  `cmd:"" help:"Save dietary preferences"`
		Plan     commands.PlanCmd     `cmd:"" help:"View or generate the weekly meal plan"`
		Recipe   commands.RecipeCmd   `cmd:"" help:"Browse recipes"`
		Feedback commands.FeedbackCmd `cmd:"" help:"Rate meals and view feedback stats"`
		Chat     commands.ChatCmd     `cmd:"" help:"Ask the meal-planning assistant"`
		Config   string               `help:"Config file path" type:"path"`
		Debug    bool                 `help:"Enable debug mode."`
		Version  kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	log.Logger = logger.Setup(cli.Debug)
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version, ConfigPath: cli.Config})
	cmd.FatalIfErrorf(err)
}
