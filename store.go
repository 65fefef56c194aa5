package chat

import (
	"context"
	"errors"
)

var (
	ErrConversationNotFound = errors.New("chat: conversation not found")
)

// Store defines the contract for durable conversation persistence.
type Store interface {
	// Schema
	CreateSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error

	// Conversations
	CreateConversation(ctx context.Context, id string) error

	// Turns
	SaveTurn(ctx context.Context, id, conversationID string, sender Sender, text string) error
	ListTurns(ctx context.Context, conversationID string) ([]Turn, error)
}
