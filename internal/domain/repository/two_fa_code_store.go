package repository

import (
	"context"

	"github.com/gatewatch/auth-service/internal/domain/models"
)

// TwoFACodeStore holds at most one outstanding (attempt id, code) pair per
// account, time-boxed. Put overwrites any prior pending challenge for the
// account and resets its TTL (last-writer-wins). Get returns
// domainErrors.ErrChallengeNotFound once the entry has expired or was
// removed; expiry is checked at read time, there is no background sweep.
//
// Consume is the single-use path: it matches and deletes in one store
// operation, so two concurrent requests presenting the same pair cannot
// both succeed. It returns domainErrors.ErrChallengeNotFound when no live
// challenge exists and domainErrors.ErrChallengeMismatch when the pair
// does not match; a mismatch leaves the challenge intact.
type TwoFACodeStore interface {
	Put(ctx context.Context, email models.Email, attemptID models.LoginAttemptID, code models.TwoFACode) error
	Get(ctx context.Context, email models.Email) (models.LoginAttemptID, models.TwoFACode, error)
	Consume(ctx context.Context, email models.Email, attemptID models.LoginAttemptID, code models.TwoFACode) error
	Remove(ctx context.Context, email models.Email) error
}
