package models

import "time"

// Chat message roles.
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is one message exchanged with the meal-planning assistant.
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// ChatReply is the assistant's response to a sent message.
type ChatReply struct {
	Message       ChatMessage `json:"message"`
	SuggestedIDs  []string    `json:"suggestedRecipeIds,omitempty"`
	ConversationID string     `json:"conversationId,omitempty"`
}
