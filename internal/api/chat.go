package api

import (
	"context"

	"github.com/mealdeck/mealdeck/internal/models"
)

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId,omitempty"`
}

// SendChatMessage sends one message to the meal-planning assistant.
// The chat endpoint is rate limited; callers should honour the RetryAfter
// hint on a rate_limited error before sending again.
func (c *Client) SendChatMessage(ctx context.Context, content, conversationID string) (*models.ChatReply, error) {
	var reply models.ChatReply
	req := chatRequest{Message: content, ConversationID: conversationID}
	if err := c.Post(ctx, "/api/chat", req, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}
