package inference

import (
	"context"
)

//go:generate mockgen -source=interface.go -destination=../mocks/inference/mock_client.go -package=mock_inference

// Client interface defines the methods for text generation operations
type Client interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}

// Message is a single role-tagged conversation turn
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MaxConversationTurns is the number of past turns kept when assembling a
// request. Truncation is the caller's responsibility, not the client's.
const MaxConversationTurns = 10

// Truncate returns the most recent limit messages, preserving order.
func Truncate(messages []Message, limit int) []Message {
	if limit <= 0 || len(messages) <= limit {
		return messages
	}
	return messages[len(messages)-limit:]
}
