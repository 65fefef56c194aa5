package postgres

import (
	"context"
	"fmt"
)

// CreateConversation inserts the conversation row if it does not
// already exist. Idempotent, so the orchestrator can call it on every
// turn without checking first.
func (s *PGStore) CreateConversation(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO conversations (id) VALUES ($1) ON CONFLICT DO NOTHING`,
		id,
	)
	if err != nil {
		return fmt.Errorf("chat: create conversation: %w", err)
	}
	return nil
}
