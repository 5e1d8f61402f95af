package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/olaniyigeorge/iHR/models"
	"github.com/redis/go-redis/v9"
)

const contextKeyPrefix = "interview_ctx:"

// ContextCache is a TTL-bounded Redis cache of materialized interview
// contexts. It is never authoritative: a backend outage degrades every Get
// to a miss and every Set to a logged no-op, so callers always fall back to
// rebuilding from the Store. Entries are not invalidated on interview
// mutation; the TTL bounds the staleness window.
type ContextCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewContextCache(rdb *redis.Client, ttl time.Duration) *ContextCache {
	return &ContextCache{rdb: rdb, ttl: ttl}
}

func (c *ContextCache) key(interviewID string) string {
	return contextKeyPrefix + interviewID
}

// Get returns the cached context for an interview, or (nil, nil) on a miss.
// Backend failures are reported as misses.
func (c *ContextCache) Get(ctx context.Context, interviewID string) (*models.InterviewContext, error) {
	if c.rdb == nil {
		return nil, nil
	}

	raw, err := c.rdb.Get(ctx, c.key(interviewID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		slog.Warn("Context cache unavailable, treating as miss", "error", err, "interview_id", interviewID)
		return nil, nil
	}

	var ictx models.InterviewContext
	if err := json.Unmarshal(raw, &ictx); err != nil {
		slog.Warn("Failed to decode cached context, treating as miss", "error", err, "interview_id", interviewID)
		return nil, nil
	}

	slog.Debug("Context cache hit", "interview_id", interviewID)
	return &ictx, nil
}

// Set writes a context snapshot with the configured TTL. Writes are
// fire-and-forget: failures are logged and swallowed. Duplicate writes for
// the same interview are harmless; the last writer wins and the TTL resets.
func (c *ContextCache) Set(ctx context.Context, interviewID string, ictx *models.InterviewContext) {
	if c.rdb == nil || ictx == nil {
		return
	}

	raw, err := json.Marshal(ictx)
	if err != nil {
		slog.Error("Failed to encode context for cache", "error", err, "interview_id", interviewID)
		return
	}

	if err := c.rdb.Set(ctx, c.key(interviewID), raw, c.ttl).Err(); err != nil {
		slog.Warn("Failed to cache interview context", "error", err, "interview_id", interviewID)
		return
	}

	slog.Debug("Context cached", "interview_id", interviewID, "ttl", c.ttl)
}

// Ping reports cache backend reachability for the health endpoint
func (c *ContextCache) Ping(ctx context.Context) error {
	if c.rdb == nil {
		return errors.New("cache not configured")
	}
	return c.rdb.Ping(ctx).Err()
}
