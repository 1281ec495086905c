package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	domainErrors "github.com/gatewatch/auth-service/internal/domain/errors"
)

func TestIsUnauthorized(t *testing.T) {
	assert.True(t, domainErrors.IsUnauthorized(domainErrors.ErrInvalidCredentials))
	assert.True(t, domainErrors.IsUnauthorized(domainErrors.ErrInvalidToken))
	assert.True(t, domainErrors.IsUnauthorized(domainErrors.ErrTokenExpired))
	assert.True(t, domainErrors.IsUnauthorized(domainErrors.ErrTokenMalformed))

	// Wrapping preserves classification.
	wrapped := fmt.Errorf("%w: signature mismatch", domainErrors.ErrInvalidToken)
	assert.True(t, domainErrors.IsUnauthorized(wrapped))

	assert.False(t, domainErrors.IsUnauthorized(domainErrors.ErrUserAlreadyExists))
	assert.False(t, domainErrors.IsUnauthorized(domainErrors.ErrInternal))
	assert.False(t, domainErrors.IsUnauthorized(nil))
}

func TestIsConflict(t *testing.T) {
	assert.True(t, domainErrors.IsConflict(domainErrors.ErrUserAlreadyExists))
	assert.False(t, domainErrors.IsConflict(domainErrors.ErrUserNotFound))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, domainErrors.IsNotFound(domainErrors.ErrUserNotFound))
	assert.True(t, domainErrors.IsNotFound(domainErrors.ErrChallengeNotFound))
	assert.False(t, domainErrors.IsNotFound(domainErrors.ErrChallengeMismatch), "a mismatch is a live challenge, not an absent one")
	assert.False(t, domainErrors.IsNotFound(domainErrors.ErrInvalidToken))
}
