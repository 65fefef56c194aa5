package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory chat.Store for orchestrator tests.
type memStore struct {
	conversations map[string]bool
	turns         map[string][]Turn
	saveErr       error
	createErr     error
	listErr       error
}

func newMemStore() *memStore {
	return &memStore{
		conversations: make(map[string]bool),
		turns:         make(map[string][]Turn),
	}
}

func (m *memStore) CreateSchema(context.Context) error { return nil }
func (m *memStore) DropSchema(context.Context) error   { return nil }

func (m *memStore) CreateConversation(_ context.Context, id string) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.conversations[id] = true
	return nil
}

func (m *memStore) SaveTurn(_ context.Context, _, conversationID string, sender Sender, text string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.turns[conversationID] = append(m.turns[conversationID], Turn{Sender: sender, Text: text})
	return nil
}

func (m *memStore) ListTurns(_ context.Context, conversationID string) ([]Turn, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.turns[conversationID], nil
}

// stubCache is an in-memory chat.ContextCache with injectable failures.
type stubCache struct {
	turns     map[string][]Turn
	readErr   error
	appendErr error
}

func newStubCache() *stubCache {
	return &stubCache{turns: make(map[string][]Turn)}
}

func (c *stubCache) Append(_ context.Context, conversationID string, turn Turn) error {
	if c.appendErr != nil {
		return c.appendErr
	}
	c.turns[conversationID] = append(c.turns[conversationID], turn)
	return nil
}

func (c *stubCache) Read(_ context.Context, conversationID string) ([]Turn, error) {
	if c.readErr != nil {
		return nil, c.readErr
	}
	return c.turns[conversationID], nil
}

func (c *stubCache) Clear(_ context.Context, conversationID string) error {
	delete(c.turns, conversationID)
	return nil
}

// stubCompleter stands in for the router and captures its input.
type stubCompleter struct {
	text       string
	err        error
	gotHistory []Turn
}

func (s *stubCompleter) Generate(_ context.Context, _ string, history []Turn, _ string) (string, error) {
	s.gotHistory = history
	return s.text, s.err
}

func newTestService(store Store, cache ContextCache, completer Completer) *Service {
	return NewService(store, cache, completer, "You are a support agent.", zerolog.Nop())
}

func TestHandleTurnMintsNewID(t *testing.T) {
	store := newMemStore()
	cache := newStubCache()
	svc := newTestService(store, cache, &stubCompleter{text: "Hello!"})

	reply, err := svc.HandleTurn(context.Background(), "", "Hi")
	require.NoError(t, err)
	assert.Equal(t, "Hello!", reply.Text)

	_, err = uuid.Parse(reply.ConversationID)
	require.NoError(t, err, "minted id must be a well-formed UUID")

	assert.True(t, store.conversations[reply.ConversationID])
	assert.Equal(t, []Turn{
		{Sender: SenderUser, Text: "Hi"},
		{Sender: SenderAI, Text: "Hello!"},
	}, store.turns[reply.ConversationID])
	assert.Equal(t, []Turn{
		{Sender: SenderUser, Text: "Hi"},
		{Sender: SenderAI, Text: "Hello!"},
	}, cache.turns[reply.ConversationID])
}

func TestHandleTurnReusesExistingID(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, newStubCache(), &stubCompleter{text: "Hello!"})

	id := uuid.New().String()
	reply, err := svc.HandleTurn(context.Background(), id, "Hi")
	require.NoError(t, err)
	assert.Equal(t, id, reply.ConversationID)
}

func TestHandleTurnReplacesMalformedID(t *testing.T) {
	svc := newTestService(newMemStore(), newStubCache(), &stubCompleter{text: "Hello!"})

	// Web clients without a session send the literal string "undefined".
	for _, junk := range []string{"undefined", "null", "not-a-uuid"} {
		reply, err := svc.HandleTurn(context.Background(), junk, "Hi")
		require.NoError(t, err)
		assert.NotEqual(t, junk, reply.ConversationID)

		_, err = uuid.Parse(reply.ConversationID)
		assert.NoError(t, err)
	}
}

func TestHandleTurnEmptyMessage(t *testing.T) {
	svc := newTestService(newMemStore(), newStubCache(), &stubCompleter{text: "Hello!"})

	_, err := svc.HandleTurn(context.Background(), "", "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestHandleTurnProviderExhaustion(t *testing.T) {
	store := newMemStore()
	cache := newStubCache()
	svc := newTestService(store, cache, &stubCompleter{err: ErrNoProvider})

	reply, err := svc.HandleTurn(context.Background(), "", "Hi")
	require.NoError(t, err, "provider exhaustion resolves to fallback text, not an error")
	assert.Equal(t, FallbackUnavailable, reply.Text)

	_, err = uuid.Parse(reply.ConversationID)
	assert.NoError(t, err, "client still gets a usable session id")

	assert.Empty(t, store.turns[reply.ConversationID], "failed turns are not persisted")
	assert.Empty(t, cache.turns[reply.ConversationID], "failed turns are not cached")
}

func TestHandleTurnBlankReplyPersistsApology(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, newStubCache(), &stubCompleter{text: "   "})

	reply, err := svc.HandleTurn(context.Background(), "", "Hi")
	require.NoError(t, err)
	assert.Equal(t, FallbackNoAnswer, reply.Text)

	// Unlike a thrown provider error, a blank completion still records
	// the turn with the substitute text.
	require.Len(t, store.turns[reply.ConversationID], 2)
	assert.Equal(t, Turn{Sender: SenderAI, Text: FallbackNoAnswer}, store.turns[reply.ConversationID][1])
}

func TestHandleTurnPersistenceFailureIsFatal(t *testing.T) {
	store := newMemStore()
	store.saveErr = errors.New("connection refused")
	cache := newStubCache()
	svc := newTestService(store, cache, &stubCompleter{text: "Hello!"})

	_, err := svc.HandleTurn(context.Background(), "", "Hi")
	require.Error(t, err)
	assert.Empty(t, cache.turns, "cache write must not happen when persistence fails")
}

func TestHandleTurnCacheReadFailureDegrades(t *testing.T) {
	cache := newStubCache()
	cache.readErr = errors.New("redis unreachable")
	completer := &stubCompleter{text: "Hello!"}
	svc := newTestService(newMemStore(), cache, completer)

	reply, err := svc.HandleTurn(context.Background(), "", "Hi")
	require.NoError(t, err)
	assert.Equal(t, "Hello!", reply.Text)
	assert.Empty(t, completer.gotHistory, "unreachable cache reads as empty context")
}

func TestHandleTurnCacheAppendFailureSwallowed(t *testing.T) {
	store := newMemStore()
	cache := newStubCache()
	cache.appendErr = errors.New("redis unreachable")
	svc := newTestService(store, cache, &stubCompleter{text: "Hello!"})

	reply, err := svc.HandleTurn(context.Background(), "", "Hi")
	require.NoError(t, err)
	assert.Len(t, store.turns[reply.ConversationID], 2, "persistence is unaffected by cache failures")
}

func TestHandleTurnPassesContextToCompleter(t *testing.T) {
	cache := newStubCache()
	completer := &stubCompleter{text: "30 days"}
	svc := newTestService(newMemStore(), cache, completer)

	id := uuid.New().String()
	prior := []Turn{
		{Sender: SenderUser, Text: "Hi"},
		{Sender: SenderAI, Text: "Hello!"},
	}
	cache.turns[id] = prior

	_, err := svc.HandleTurn(context.Background(), id, "Return policy?")
	require.NoError(t, err)
	assert.Equal(t, prior, completer.gotHistory)
}

func TestHistory(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, newStubCache(), &stubCompleter{})

	id := uuid.New().String()
	store.turns[id] = []Turn{
		{Sender: SenderUser, Text: "Hi"},
		{Sender: SenderAI, Text: "Hello!"},
	}

	turns, err := svc.History(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, store.turns[id], turns)
}

func TestHistoryStoreError(t *testing.T) {
	store := newMemStore()
	store.listErr = errors.New("connection refused")
	svc := newTestService(store, newStubCache(), &stubCompleter{})

	_, err := svc.History(context.Background(), uuid.New().String())
	assert.Error(t, err)
}
