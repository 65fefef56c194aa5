package chat

import (
	"context"
	"errors"
)

var (
	ErrEmptyMessage   = errors.New("chat: message is empty")
	ErrProviderFailed = errors.New("chat: provider error")
	ErrNoProvider     = errors.New("chat: no provider available")
)

// Provider defines the contract for completion backends. Generate
// renders the system prompt, prior turns, and the user's message into
// the backend's expected input shape, preserving turn order and sender
// identity, and returns the completion text.
type Provider interface {
	Name() string
	Generate(ctx context.Context, systemPrompt string, history []Turn, userText string) (string, error)
}
