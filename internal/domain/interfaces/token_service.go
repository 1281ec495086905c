package interfaces

import (
	"time"

	"github.com/gatewatch/auth-service/internal/domain/models"
)

// TokenClaims are the decoded contents of a session token.
type TokenClaims struct {
	Subject   string
	ExpiresAt time.Time
}

// TokenService signs and verifies stateless session tokens carrying
// subject and expiry. Decode checks signature and expiry only; it has no
// knowledge of revocation, which is layered on top by the auth service.
type TokenService interface {
	Issue(email models.Email) (string, error)
	Decode(token string) (*TokenClaims, error)
}
