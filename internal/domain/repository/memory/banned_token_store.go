package memory

import (
	"context"
	"sync"
	"time"

	"github.com/gatewatch/auth-service/internal/domain/repository"
)

// BannedTokenStore is an unbounded in-memory revocation set. It never
// shrinks and does not survive a restart, so it is for tests and
// development only; production uses the redis-backed variant whose
// entries self-expire.
type BannedTokenStore struct {
	mu     sync.RWMutex
	banned map[string]struct{}
}

// NewBannedTokenStore creates an empty revocation set.
func NewBannedTokenStore() *BannedTokenStore {
	return &BannedTokenStore{banned: make(map[string]struct{})}
}

// Ban adds the token to the set. Idempotent; the TTL is ignored by this
// variant.
func (s *BannedTokenStore) Ban(_ context.Context, token string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.banned[token] = struct{}{}
	return nil
}

func (s *BannedTokenStore) IsBanned(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, banned := s.banned[token]
	return banned, nil
}

var _ repository.BannedTokenStore = (*BannedTokenStore)(nil)
