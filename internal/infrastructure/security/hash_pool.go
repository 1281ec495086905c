package security

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"

	"github.com/gatewatch/auth-service/internal/domain/interfaces"
)

const defaultHashWorkers = 4

// boundedPasswordService wraps a PasswordService behind a weighted
// semaphore so at most maxWorkers hash derivations run at once. Argon2id
// is deliberately memory- and CPU-hard; without the bound, a burst of
// logins would occupy every scheduler thread and starve unrelated
// connections.
type boundedPasswordService struct {
	inner interfaces.PasswordService
	sem   *semaphore.Weighted
}

// NewBoundedPasswordService wraps inner with a concurrency bound of
// maxWorkers. A non-positive maxWorkers falls back to the default.
func NewBoundedPasswordService(inner interfaces.PasswordService, maxWorkers int64) interfaces.PasswordService {
	if maxWorkers <= 0 {
		maxWorkers = defaultHashWorkers
	}
	return &boundedPasswordService{
		inner: inner,
		sem:   semaphore.NewWeighted(maxWorkers),
	}
}

func (s *boundedPasswordService) HashPassword(ctx context.Context, password string) (string, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("failed to acquire hash worker: %w", err)
	}
	defer s.sem.Release(1)
	return s.inner.HashPassword(ctx, password)
}

func (s *boundedPasswordService) CheckPasswordHash(ctx context.Context, password, encodedHash string) (bool, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return false, fmt.Errorf("failed to acquire hash worker: %w", err)
	}
	defer s.sem.Release(1)
	return s.inner.CheckPasswordHash(ctx, password, encodedHash)
}

var _ interfaces.PasswordService = (*boundedPasswordService)(nil)
