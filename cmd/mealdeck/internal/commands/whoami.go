package commands

import (
	"context"
	"fmt"
	"time"
)

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}

	if err := a.requireSession(ctx); err != nil {
		if reason := a.session.LastError(); reason != "" {
			return fmt.Errorf("%w (%s)", err, reason)
		}
		return err
	}

	user := a.session.User()
	fmt.Printf("%-12s %s\n", "User:", user.Name)
	fmt.Printf("%-12s %s\n", "Email:", user.Email)
	fmt.Printf("%-12s %s\n", "ID:", user.ID)

	if exp, ok := a.session.CredentialExpiry(); ok {
		fmt.Printf("%-12s %s (in %s)\n", "Expires:", exp.Local().Format(time.RFC822), time.Until(exp).Round(time.Second))
	}

	if p, err := a.profile.Load(); err == nil && p.DeviceID != "" {
		fmt.Printf("%-12s %s\n", "Device:", p.DeviceID)
	}
	return nil
}
