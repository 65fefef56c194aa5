package chat

import "context"

// ContextCache is the bounded, expiring rolling window of recent turns
// per conversation. It exists only to cap the prompt sent to completion
// providers; it carries no durability guarantee, and callers treat a
// failing cache as an empty one.
type ContextCache interface {
	// Append adds one turn to the conversation's window, trims the
	// window to its configured bound, and resets the TTL. Not
	// idempotent: call at most once per logical turn.
	Append(ctx context.Context, conversationID string, turn Turn) error

	// Read returns the window's turns oldest first, or an empty
	// sequence when the conversation is absent or expired. Read does
	// not touch the TTL.
	Read(ctx context.Context, conversationID string) ([]Turn, error)

	// Clear drops the conversation's window immediately.
	Clear(ctx context.Context, conversationID string) error
}
