package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"

	"github.com/mealdeck/mealdeck/internal/api"
	"github.com/mealdeck/mealdeck/internal/models"
)

type ChatCmd struct {
	Message      []string `arg:"" help:"Message for the meal-planning assistant."`
	Conversation string   `help:"Continue an existing conversation by ID."`
}

func (c *ChatCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	content := strings.Join(c.Message, " ")

	// The chat endpoint is rate limited. Wait out the server's cooldown hint
	// when it gives one, back off exponentially when it doesn't, and give up
	// on anything that is not a rate limit.
	reply, err := backoff.Retry(ctx, func() (*models.ChatReply, error) {
		reply, err := a.api.SendChatMessage(ctx, content, c.Conversation)
		if err != nil {
			apiErr, ok := api.AsError(err)
			if !ok || apiErr.Kind != api.KindRateLimited {
				return nil, backoff.Permanent(err)
			}
			log.Debug().Dur("retryAfter", apiErr.RetryAfter).Msg("assistant is busy, backing off")
			if apiErr.RetryAfter > 0 {
				return nil, backoff.RetryAfter(int(apiErr.RetryAfter / time.Second))
			}
			return nil, err
		}
		return reply, nil
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(4))
	if err != nil {
		return friendly(err)
	}

	fmt.Println(reply.Message.Content)
	if len(reply.SuggestedIDs) > 0 {
		fmt.Printf("\nSuggested recipes: %s\n", strings.Join(reply.SuggestedIDs, ", "))
	}
	if reply.ConversationID != "" {
		fmt.Printf("(continue with --conversation %s)\n", reply.ConversationID)
	}
	return nil
}
