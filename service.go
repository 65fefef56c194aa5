package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Completer produces a reply from the system prompt, prior context,
// and the user's message. *Router satisfies it.
type Completer interface {
	Generate(ctx context.Context, systemPrompt string, history []Turn, userText string) (string, error)
}

var _ Completer = (*Router)(nil)

// Service handles one conversational turn end to end: resolve the
// conversation identity, read the rolling context, generate a reply,
// persist both turns, refresh the context window.
type Service struct {
	store        Store
	cache        ContextCache
	completer    Completer
	systemPrompt string
	log          zerolog.Logger
}

// NewService wires the orchestrator from its collaborators.
func NewService(store Store, cache ContextCache, completer Completer, systemPrompt string, log zerolog.Logger) *Service {
	return &Service{
		store:        store,
		cache:        cache,
		completer:    completer,
		systemPrompt: systemPrompt,
		log:          log,
	}
}

// HandleTurn processes one user message and returns the reply plus the
// conversation identity the client must resubmit. Provider exhaustion
// is absorbed into a fixed fallback reply with a nil error; only
// persistence failures surface as errors.
func (s *Service) HandleTurn(ctx context.Context, conversationID, userText string) (*Reply, error) {
	if strings.TrimSpace(userText) == "" {
		return nil, ErrEmptyMessage
	}

	id := resolveConversationID(conversationID)

	if err := s.store.CreateConversation(ctx, id); err != nil {
		return nil, fmt.Errorf("chat: create conversation: %w", err)
	}

	history, err := s.cache.Read(ctx, id)
	if err != nil {
		// Context is an optimization, not a requirement. Degrade to a
		// stateless single-turn reply.
		s.log.Warn().
			Err(err).
			Str("conversation_id", id).
			Msg("context read failed, continuing without context")
		history = nil
	}

	reply, err := s.completer.Generate(ctx, s.systemPrompt, history, userText)
	if err != nil {
		// Nothing answered. Hand back a usable session id with the
		// fallback text and persist nothing for this turn.
		s.log.Error().
			Err(err).
			Str("conversation_id", id).
			Msg("completion failed")
		return &Reply{Text: FallbackUnavailable, ConversationID: id}, nil
	}
	if strings.TrimSpace(reply) == "" {
		reply = FallbackNoAnswer
	}

	if err := s.saveTurn(ctx, id, SenderUser, userText); err != nil {
		return nil, err
	}
	if err := s.saveTurn(ctx, id, SenderAI, reply); err != nil {
		return nil, err
	}

	for _, turn := range []Turn{
		{Sender: SenderUser, Text: userText},
		{Sender: SenderAI, Text: reply},
	} {
		if err := s.cache.Append(ctx, id, turn); err != nil {
			// Stop so the window never holds an ai turn without the
			// user turn that prompted it.
			s.log.Warn().
				Err(err).
				Str("conversation_id", id).
				Msg("context append failed")
			break
		}
	}

	return &Reply{Text: reply, ConversationID: id}, nil
}

// History returns the conversation's full persisted transcript, oldest
// first. It bypasses the context cache entirely.
func (s *Service) History(ctx context.Context, conversationID string) ([]Turn, error) {
	turns, err := s.store.ListTurns(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("chat: list turns: %w", err)
	}
	return turns, nil
}

func (s *Service) saveTurn(ctx context.Context, conversationID string, sender Sender, text string) error {
	if err := s.store.SaveTurn(ctx, uuid.New().String(), conversationID, sender, text); err != nil {
		return fmt.Errorf("chat: save %s turn: %w", sender, err)
	}
	return nil
}

// resolveConversationID returns the supplied id when it is a
// well-formed UUID and mints a fresh one otherwise. Clients that never
// held a session send "" or a junk literal such as "undefined"; both
// fail parsing and start a new conversation.
func resolveConversationID(id string) string {
	if _, err := uuid.Parse(id); err == nil {
		return id
	}
	return uuid.New().String()
}
