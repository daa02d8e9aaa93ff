package service

import (
	"context"

	"goatmeter-be/pkg/redis"

	"go.uber.org/zap"
)

// CacheService centralizes the Redis touches around the vote core. All
// methods degrade to no-ops when Redis is not configured; the database
// is always the source of truth.
type CacheService struct {
	redis  *redis.Client
	logger *zap.Logger
}

// NewCacheService creates a new cache service.
func NewCacheService(redisClient *redis.Client, logger *zap.Logger) *CacheService {
	return &CacheService{redis: redisClient, logger: logger}
}

// TryIdempotencyLock acquires a short-lived lock for a client request
// token. Returns true on first sight, false for a duplicate within TTL.
func (c *CacheService) TryIdempotencyLock(ctx context.Context, token string) (bool, error) {
	if c.redis == nil {
		return true, nil
	}
	return c.redis.SetNX(ctx, c.redis.KeyBuilder.KeyIdempotency(token), "1", redis.TTLIdempotency)
}

// ReleaseIdempotencyLock frees a request token after a failed
// submission so the client can retry with the same token.
func (c *CacheService) ReleaseIdempotencyLock(ctx context.Context, token string) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Delete(ctx, c.redis.KeyBuilder.KeyIdempotency(token)); err != nil {
		c.logger.Warn("failed to release idempotency lock", zap.Error(err))
	}
}

// CacheUserVoted marks a user's vote flag after a successful submission.
func (c *CacheService) CacheUserVoted(ctx context.Context, userID, voteID string) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Set(ctx, c.redis.KeyBuilder.KeyUserVoted(userID), voteID, redis.TTLUserVote); err != nil {
		c.logger.Warn("failed to cache user vote flag",
			zap.String("user_id", userID),
			zap.Error(err))
	}
}

// InvalidateUserVoted drops a user's cached vote flag.
func (c *CacheService) InvalidateUserVoted(ctx context.Context, userID string) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Delete(ctx, c.redis.KeyBuilder.KeyUserVoted(userID)); err != nil {
		c.logger.Warn("failed to invalidate user vote flag",
			zap.String("user_id", userID),
			zap.Error(err))
	}
}

// InvalidateAggregates drops the cached summary, ticker and the given
// warzone rollups after a write path changed them.
func (c *CacheService) InvalidateAggregates(ctx context.Context, warzoneIDs ...string) {
	if c.redis == nil {
		return
	}
	keys := []string{
		c.redis.KeyBuilder.KeyGlobalSummary(),
		c.redis.KeyBuilder.KeyTicker(),
	}
	for _, wid := range warzoneIDs {
		if wid != "" {
			keys = append(keys, c.redis.KeyBuilder.KeyWarzoneStats(wid))
		}
	}
	if err := c.redis.Delete(ctx, keys...); err != nil {
		c.logger.Warn("failed to invalidate aggregate caches",
			zap.Int("keys", len(keys)),
			zap.Error(err))
	}
}

// HealthCheck pings Redis; healthy when unconfigured.
func (c *CacheService) HealthCheck(ctx context.Context) error {
	if c.redis == nil {
		return nil
	}
	return c.redis.Health(ctx)
}
