package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainErrors "github.com/gatewatch/auth-service/internal/domain/errors"
	"github.com/gatewatch/auth-service/internal/domain/interfaces"
	"github.com/gatewatch/auth-service/internal/domain/models"
)

// JWTService signs and verifies session tokens with a process-wide shared
// secret (HS256). Claims carry only subject and expiry. Revocation is a
// denylist layered above; this codec never consults it.
type JWTService struct {
	secret   []byte
	tokenTTL time.Duration
}

// NewJWTService creates a token service. The secret must be non-empty.
func NewJWTService(secret string, tokenTTL time.Duration) (*JWTService, error) {
	if secret == "" {
		return nil, errors.New("JWT secret must not be empty")
	}
	if tokenTTL <= 0 {
		return nil, errors.New("JWT token TTL must be positive")
	}
	return &JWTService{secret: []byte(secret), tokenTTL: tokenTTL}, nil
}

// Issue builds and signs a session token for the given account.
func (s *JWTService) Issue(email models.Email) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   email.Address(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Decode verifies signature and expiry and returns the claims. Failures
// map to the domain taxonomy: ErrTokenExpired, ErrTokenMalformed, or
// ErrInvalidToken for a bad signature.
func (s *JWTService) Decode(tokenString string) (*interfaces.TokenClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %v", domainErrors.ErrTokenExpired, err)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %v", domainErrors.ErrTokenMalformed, err)
		default:
			return nil, fmt.Errorf("%w: %v", domainErrors.ErrInvalidToken, err)
		}
	}
	if !token.Valid || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing required claims", domainErrors.ErrInvalidToken)
	}

	return &interfaces.TokenClaims{
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

var _ interfaces.TokenService = (*JWTService)(nil)
