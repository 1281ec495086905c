package memory

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/gatewatch/auth-service/internal/domain/errors"
	"github.com/gatewatch/auth-service/internal/domain/models"
	"github.com/gatewatch/auth-service/internal/domain/repository"
)

type challengeEntry struct {
	attemptID models.LoginAttemptID
	code      models.TwoFACode
	createdAt time.Time
}

// TwoFACodeStore is an in-memory challenge store with at most one pending
// (attempt id, code) pair per account. Entries expire at read time; there
// is no background sweep. A stale entry is simply overwritten by the next
// Put.
type TwoFACodeStore struct {
	mu         sync.RWMutex
	challenges map[models.Email]challengeEntry
	ttl        time.Duration
	now        func() time.Time
}

// NewTwoFACodeStore creates an empty challenge store whose entries live
// for ttl after each Put.
func NewTwoFACodeStore(ttl time.Duration) *TwoFACodeStore {
	return &TwoFACodeStore{
		challenges: make(map[models.Email]challengeEntry),
		ttl:        ttl,
		now:        time.Now,
	}
}

// Put stores the challenge, replacing any prior pending challenge for the
// account and resetting its TTL.
func (s *TwoFACodeStore) Put(_ context.Context, email models.Email, attemptID models.LoginAttemptID, code models.TwoFACode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.challenges[email] = challengeEntry{
		attemptID: attemptID,
		code:      code,
		createdAt: s.now(),
	}
	return nil
}

func (s *TwoFACodeStore) Get(_ context.Context, email models.Email) (models.LoginAttemptID, models.TwoFACode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.challenges[email]
	if !exists || s.now().Sub(entry.createdAt) > s.ttl {
		return models.LoginAttemptID{}, models.TwoFACode{}, domainErrors.ErrChallengeNotFound
	}
	return entry.attemptID, entry.code, nil
}

// Consume matches and deletes under a single write lock, so concurrent
// requests presenting the same pair race against the lock and at most one
// of them observes the challenge.
func (s *TwoFACodeStore) Consume(_ context.Context, email models.Email, attemptID models.LoginAttemptID, code models.TwoFACode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.challenges[email]
	if !exists || s.now().Sub(entry.createdAt) > s.ttl {
		return domainErrors.ErrChallengeNotFound
	}
	if entry.attemptID != attemptID || entry.code != code {
		return domainErrors.ErrChallengeMismatch
	}

	delete(s.challenges, email)
	return nil
}

// Remove deletes the pending challenge. Removing an absent challenge is
// not an error.
func (s *TwoFACodeStore) Remove(_ context.Context, email models.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.challenges, email)
	return nil
}

var _ repository.TwoFACodeStore = (*TwoFACodeStore)(nil)
