package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meikuraledutech/chat"
)

// keyPrefix matches the key shape of existing deployments; entries are
// JSON {"sender","text"} objects in a Redis list.
const keyPrefix = "chat:context:"

const (
	DefaultMaxMessages = 3
	DefaultTTL         = 300 * time.Second
)

// RedisCache implements chat.ContextCache on one Redis list per
// conversation. The bound counts raw messages, not user+ai pairs, and
// is enforced on every append so it holds between calls regardless of
// caller discipline.
type RedisCache struct {
	client      *redis.Client
	maxMessages int64
	ttl         time.Duration
}

// RedisOption configures a RedisCache.
type RedisOption func(*RedisCache)

// WithTTL sets the window's time-to-live, refreshed on every append.
func WithTTL(ttl time.Duration) RedisOption {
	return func(c *RedisCache) {
		c.ttl = ttl
	}
}

// WithMaxMessages sets how many messages the window retains. Values
// below one keep the default.
func WithMaxMessages(n int) RedisOption {
	return func(c *RedisCache) {
		if n > 0 {
			c.maxMessages = int64(n)
		}
	}
}

// NewRedisCache creates a context cache on an existing Redis client.
func NewRedisCache(client *redis.Client, opts ...RedisOption) *RedisCache {
	c := &RedisCache{
		client:      client,
		maxMessages: DefaultMaxMessages,
		ttl:         DefaultTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisCache) key(conversationID string) string {
	return keyPrefix + conversationID
}

// Append pushes one turn onto the conversation's list, trims the list
// to the configured bound from the most recent end, and resets the
// TTL. The three commands run in a single pipeline round-trip.
func (c *RedisCache) Append(ctx context.Context, conversationID string, turn chat.Turn) error {
	data, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("cache: marshal turn: %w", err)
	}

	key := c.key(conversationID)
	pipe := c.client.Pipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, -c.maxMessages, -1)
	pipe.Expire(ctx, key, c.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache: append: %w", err)
	}
	return nil
}

// Read returns the conversation's turns oldest first. A missing or
// expired key reads as an empty sequence; the TTL is not touched.
func (c *RedisCache) Read(ctx context.Context, conversationID string) ([]chat.Turn, error) {
	entries, err := c.client.LRange(ctx, c.key(conversationID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("cache: read: %w", err)
	}

	turns := make([]chat.Turn, 0, len(entries))
	for _, entry := range entries {
		var turn chat.Turn
		if err := json.Unmarshal([]byte(entry), &turn); err != nil {
			return nil, fmt.Errorf("cache: unmarshal turn: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// Clear drops the conversation's window and its TTL immediately.
func (c *RedisCache) Clear(ctx context.Context, conversationID string) error {
	if err := c.client.Del(ctx, c.key(conversationID)).Err(); err != nil {
		return fmt.Errorf("cache: clear: %w", err)
	}
	return nil
}

// Ensure RedisCache implements chat.ContextCache at compile time.
var _ chat.ContextCache = (*RedisCache)(nil)
