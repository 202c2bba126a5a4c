package agent

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/meudayhegde/sprint-summary-chatbot/internal/events"
)

const cachePrefix = "answer:"

// AnswerCache stores narrated answers in Redis, keyed by snapshot version
// and normalized question. Entries become unreachable as soon as a new
// snapshot is installed because the version is part of every key.
type AnswerCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewAnswerCache builds a cache over an existing Redis client. A nil
// client yields a cache where every lookup misses.
func NewAnswerCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *AnswerCache {
	return &AnswerCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached answer for a question against one snapshot
// version. The second result reports whether the entry was found.
func (c *AnswerCache) Get(ctx context.Context, snapshotID uuid.UUID, question string) (*Answer, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, cacheKey(snapshotID, question)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("answer cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var ans Answer
	if err := json.Unmarshal([]byte(raw), &ans); err != nil {
		c.logger.Warn("answer cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return &ans, true
}

// Set stores an answer. Failures are logged and swallowed.
func (c *AnswerCache) Set(ctx context.Context, snapshotID uuid.UUID, question string, ans *Answer) {
	if c == nil || c.client == nil || ans == nil {
		return
	}
	raw, err := json.Marshal(ans)
	if err != nil {
		c.logger.Warn("answer cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, cacheKey(snapshotID, question), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("answer cache write failed", zap.Error(err))
	}
}

// Flush removes every cached answer. Wired to snapshot reload events so
// stale entries do not linger until their TTL.
func (c *AnswerCache) Flush(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, cachePrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("answer cache scan failed", zap.Error(err))
		return
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			c.logger.Warn("answer cache flush failed", zap.Error(err))
		}
	}
}

// SubscribeReloads registers the cache on the dispatcher so reloads flush it.
func (c *AnswerCache) SubscribeReloads(d events.Dispatcher) {
	if c == nil || d == nil {
		return
	}
	d.Subscribe(events.EventSnapshotReloaded, func(ctx context.Context, _ events.Event) error {
		c.Flush(ctx)
		return nil
	})
}

func cacheKey(snapshotID uuid.UUID, question string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(question))))
	return cachePrefix + snapshotID.String() + ":" + hex.EncodeToString(sum[:])
}
