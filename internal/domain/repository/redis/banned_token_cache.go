// Package redis implements the TTL-backed revocation and challenge stores
// over a shared Redis client. Entries self-expire, so neither store needs
// a background sweep.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/gatewatch/auth-service/internal/domain/repository"
)

const bannedTokenKeyPrefix = "revoked:"

// BannedTokenCache is the production revocation store. Each banned token
// is keyed "revoked:<token>" with a TTL equal to the token's remaining
// validity; once the token itself expires the denylist entry is useless
// and Redis drops it.
type BannedTokenCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewBannedTokenCache creates a Redis-backed revocation store.
func NewBannedTokenCache(client *redis.Client, logger *zap.Logger) *BannedTokenCache {
	return &BannedTokenCache{
		client: client,
		logger: logger.Named("banned_token_cache"),
	}
}

// Ban records the token as revoked for ttl. SET overwrites an existing
// entry, so banning twice is naturally idempotent.
func (c *BannedTokenCache) Ban(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		// The token is already past its own expiry; keep a short-lived
		// entry anyway so a clock-skewed verifier still sees the ban.
		ttl = time.Minute
	}

	key := bannedTokenKeyPrefix + token
	if err := c.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		c.logger.Error("failed to ban token", zap.Error(err))
		return fmt.Errorf("failed to ban token: %w", err)
	}
	return nil
}

func (c *BannedTokenCache) IsBanned(ctx context.Context, token string) (bool, error) {
	key := bannedTokenKeyPrefix + token
	err := c.client.Get(ctx, key).Err()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		c.logger.Error("failed to check banned token", zap.Error(err))
		return false, fmt.Errorf("failed to check banned token: %w", err)
	}
	return true, nil
}

var _ repository.BannedTokenStore = (*BannedTokenCache)(nil)
