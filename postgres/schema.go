package postgres

import (
	"context"
	"fmt"
)

// CreateSchema creates the conversations and messages tables if they
// do not exist. Idempotent; safe to run at every startup.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS conversations (
			id UUID PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS messages (
			id UUID PRIMARY KEY,
			conversation_id UUID NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
			sender VARCHAR(10) NOT NULL,
			text TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS messages_conversation_created_idx
			ON messages (conversation_id, created_at);
	`)
	if err != nil {
		return fmt.Errorf("chat: create schema: %w", err)
	}
	return nil
}

// DropSchema drops all chat tables.
func (s *PGStore) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		DROP TABLE IF EXISTS messages CASCADE;
		DROP TABLE IF EXISTS conversations CASCADE;
	`)
	return err
}
