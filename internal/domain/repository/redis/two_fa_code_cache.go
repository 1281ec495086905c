package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domainErrors "github.com/gatewatch/auth-service/internal/domain/errors"
	"github.com/gatewatch/auth-service/internal/domain/models"
	"github.com/gatewatch/auth-service/internal/domain/repository"
)

const challengeKeyPrefix = "challenge:"

// consumeScript deletes the challenge only when the stored payload equals
// the presented one, as a single Redis operation. Returns -1 when no
// entry exists, 0 on a mismatch, 1 when matched and deleted.
var consumeScript = redis.NewScript(`
local value = redis.call("GET", KEYS[1])
if value == false then
	return -1
end
if value == ARGV[1] then
	redis.call("DEL", KEYS[1])
	return 1
end
return 0
`)

type challengePayload struct {
	AttemptID string `json:"attemptId"`
	Code      string `json:"code"`
}

// TwoFACodeCache is the production challenge store. Each account's
// pending challenge is keyed "challenge:<email>" as a serialized
// {attemptId, code} pair. SET overwrites and resets the TTL, which gives
// the last-writer-wins policy for free.
type TwoFACodeCache struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewTwoFACodeCache creates a Redis-backed challenge store whose entries
// live for ttl after each Put.
func NewTwoFACodeCache(client *redis.Client, logger *zap.Logger, ttl time.Duration) *TwoFACodeCache {
	return &TwoFACodeCache{
		client: client,
		logger: logger.Named("two_fa_code_cache"),
		ttl:    ttl,
	}
}

func (c *TwoFACodeCache) Put(ctx context.Context, email models.Email, attemptID models.LoginAttemptID, code models.TwoFACode) error {
	payload, err := json.Marshal(challengePayload{
		AttemptID: attemptID.String(),
		Code:      code.Value(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal challenge: %w", err)
	}

	key := challengeKeyPrefix + email.Address()
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Error("failed to store challenge", zap.Error(err), zap.Stringer("email", email))
		return fmt.Errorf("failed to store challenge: %w", err)
	}
	return nil
}

func (c *TwoFACodeCache) Get(ctx context.Context, email models.Email) (models.LoginAttemptID, models.TwoFACode, error) {
	key := challengeKeyPrefix + email.Address()
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return models.LoginAttemptID{}, models.TwoFACode{}, domainErrors.ErrChallengeNotFound
		}
		c.logger.Error("failed to get challenge", zap.Error(err), zap.Stringer("email", email))
		return models.LoginAttemptID{}, models.TwoFACode{}, fmt.Errorf("failed to get challenge: %w", err)
	}

	var payload challengePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return models.LoginAttemptID{}, models.TwoFACode{}, fmt.Errorf("failed to unmarshal challenge: %w", err)
	}

	attemptID, err := models.ParseLoginAttemptID(payload.AttemptID)
	if err != nil {
		return models.LoginAttemptID{}, models.TwoFACode{}, fmt.Errorf("stored attempt id failed to parse: %w", err)
	}
	code, err := models.ParseTwoFACode(payload.Code)
	if err != nil {
		return models.LoginAttemptID{}, models.TwoFACode{}, fmt.Errorf("stored 2FA code failed to parse: %w", err)
	}

	return attemptID, code, nil
}

// Consume matches and deletes atomically. The comparison is over the
// serialized payload; both sides marshal the same struct, so equal pairs
// always serialize identically.
func (c *TwoFACodeCache) Consume(ctx context.Context, email models.Email, attemptID models.LoginAttemptID, code models.TwoFACode) error {
	payload, err := json.Marshal(challengePayload{
		AttemptID: attemptID.String(),
		Code:      code.Value(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal challenge: %w", err)
	}

	key := challengeKeyPrefix + email.Address()
	result, err := consumeScript.Run(ctx, c.client, []string{key}, string(payload)).Int()
	if err != nil {
		c.logger.Error("failed to consume challenge", zap.Error(err), zap.Stringer("email", email))
		return fmt.Errorf("failed to consume challenge: %w", err)
	}

	switch result {
	case 1:
		return nil
	case -1:
		return domainErrors.ErrChallengeNotFound
	default:
		return domainErrors.ErrChallengeMismatch
	}
}

func (c *TwoFACodeCache) Remove(ctx context.Context, email models.Email) error {
	key := challengeKeyPrefix + email.Address()
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Error("failed to remove challenge", zap.Error(err), zap.Stringer("email", email))
		return fmt.Errorf("failed to remove challenge: %w", err)
	}
	return nil
}

var _ repository.TwoFACodeStore = (*TwoFACodeCache)(nil)
