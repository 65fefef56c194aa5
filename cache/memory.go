package cache

import (
	"context"
	"sync"
	"time"

	"github.com/meikuraledutech/chat"
)

// MemoryCache implements chat.ContextCache in process memory with the
// same trim and expiry contract as RedisCache. Suitable for tests and
// single-process runs without a Redis deployment.
type MemoryCache struct {
	mu          sync.Mutex
	entries     map[string]*memoryEntry
	maxMessages int
	ttl         time.Duration
	now         func() time.Time
}

type memoryEntry struct {
	turns     []chat.Turn
	expiresAt time.Time
}

// NewMemoryCache creates an in-memory context cache. Non-positive
// arguments keep the defaults.
func NewMemoryCache(maxMessages int, ttl time.Duration) *MemoryCache {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxMessages
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryCache{
		entries:     make(map[string]*memoryEntry),
		maxMessages: maxMessages,
		ttl:         ttl,
		now:         time.Now,
	}
}

// Append adds one turn, trims to the bound from the most recent end,
// and resets the entry's expiry.
func (c *MemoryCache) Append(_ context.Context, conversationID string, turn chat.Turn) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	e := c.entries[conversationID]
	if e == nil || now.After(e.expiresAt) {
		e = &memoryEntry{}
		c.entries[conversationID] = e
	}

	e.turns = append(e.turns, turn)
	if len(e.turns) > c.maxMessages {
		e.turns = e.turns[len(e.turns)-c.maxMessages:]
	}
	e.expiresAt = now.Add(c.ttl)
	return nil
}

// Read returns the window oldest first; absent or expired entries read
// as empty. Expired entries are dropped lazily here rather than by a
// background sweep.
func (c *MemoryCache) Read(_ context.Context, conversationID string) ([]chat.Turn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entries[conversationID]
	if e == nil {
		return nil, nil
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, conversationID)
		return nil, nil
	}

	turns := make([]chat.Turn, len(e.turns))
	copy(turns, e.turns)
	return turns, nil
}

// Clear drops the conversation's window immediately.
func (c *MemoryCache) Clear(_ context.Context, conversationID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, conversationID)
	return nil
}

// Ensure MemoryCache implements chat.ContextCache at compile time.
var _ chat.ContextCache = (*MemoryCache)(nil)
