package postgres

import (
	"context"
	"fmt"

	"github.com/meikuraledutech/chat"
)

// SaveTurn appends one message to a conversation.
func (s *PGStore) SaveTurn(ctx context.Context, id, conversationID string, sender chat.Sender, text string) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO messages (id, conversation_id, sender, text)
		 VALUES ($1, $2, $3, $4)`,
		id, conversationID, string(sender), text,
	)
	if err != nil {
		return fmt.Errorf("chat: save turn: %w", err)
	}
	return nil
}

// ListTurns returns a conversation's messages oldest first.
func (s *PGStore) ListTurns(ctx context.Context, conversationID string) ([]chat.Turn, error) {
	rows, err := s.db.Query(ctx,
		`SELECT sender, text
		 FROM messages
		 WHERE conversation_id = $1
		 ORDER BY created_at ASC`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("chat: list turns: %w", err)
	}
	defer rows.Close()

	var turns []chat.Turn
	for rows.Next() {
		var sender, text string
		if err := rows.Scan(&sender, &text); err != nil {
			return nil, fmt.Errorf("chat: scan turn: %w", err)
		}
		turns = append(turns, chat.Turn{Sender: chat.Sender(sender), Text: text})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("chat: list turns: %w", err)
	}

	return turns, nil
}

// Ensure PGStore implements chat.Store at compile time.
var _ chat.Store = (*PGStore)(nil)
