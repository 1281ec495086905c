// Package memory provides map-backed store implementations. Each store
// guards its own state with its own RWMutex, so concurrent requests
// touching different stores never serialize behind each other; a write
// lock is held only for the single mutating call. State is
// process-lifetime only, which is acceptable for tests and development
// but not for production.
package memory

import (
	"context"
	"fmt"
	"sync"

	domainErrors "github.com/gatewatch/auth-service/internal/domain/errors"
	"github.com/gatewatch/auth-service/internal/domain/interfaces"
	"github.com/gatewatch/auth-service/internal/domain/models"
	"github.com/gatewatch/auth-service/internal/domain/repository"
)

// UserStore is an in-memory repository.UserStore keyed by normalized
// email.
type UserStore struct {
	mu        sync.RWMutex
	users     map[models.Email]models.User
	passwords interfaces.PasswordService
}

// NewUserStore creates an empty in-memory user store. The password
// service is used by ValidateCredentials to check candidates against
// stored hashes.
func NewUserStore(passwords interfaces.PasswordService) *UserStore {
	return &UserStore{
		users:     make(map[models.Email]models.User),
		passwords: passwords,
	}
}

func (s *UserStore) AddUser(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.Email]; exists {
		return domainErrors.ErrUserAlreadyExists
	}
	s.users[user.Email] = user
	return nil
}

func (s *UserStore) GetUser(_ context.Context, email models.Email) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[email]
	if !exists {
		return models.User{}, domainErrors.ErrUserNotFound
	}
	return user, nil
}

func (s *UserStore) ValidateCredentials(ctx context.Context, email models.Email, password models.Password) error {
	user, err := s.GetUser(ctx, email)
	if err != nil {
		return err
	}

	// Hash verification happens outside the lock; only the map read above
	// is guarded.
	match, err := s.passwords.CheckPasswordHash(ctx, password.Secret(), user.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to check password hash: %w", err)
	}
	if !match {
		return domainErrors.ErrInvalidCredentials
	}
	return nil
}

var _ repository.UserStore = (*UserStore)(nil)
