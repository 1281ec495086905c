// Package service contains the session orchestrator: the flows that
// compose the user, revocation and challenge stores with the password
// hasher and token codec. There is no cross-store transaction anywhere in
// this package; each store mutation is an independent step with no
// rollback, and a failed step leaves earlier steps applied.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	domainErrors "github.com/gatewatch/auth-service/internal/domain/errors"
	"github.com/gatewatch/auth-service/internal/domain/interfaces"
	"github.com/gatewatch/auth-service/internal/domain/models"
	"github.com/gatewatch/auth-service/internal/domain/repository"
)

const twoFAEmailSubject = "Your login verification code"

// AuthService orchestrates signup, login, second-factor verification,
// logout, token verification and token refresh. Stores are injected by
// interface and chosen once at process start; they are never mixed at
// runtime.
type AuthService struct {
	users        repository.UserStore
	bannedTokens repository.BannedTokenStore
	challenges   repository.TwoFACodeStore
	email        interfaces.EmailClient
	passwords    interfaces.PasswordService
	tokens       interfaces.TokenService
	logger       *zap.Logger
}

// NewAuthService wires the orchestrator.
func NewAuthService(
	users repository.UserStore,
	bannedTokens repository.BannedTokenStore,
	challenges repository.TwoFACodeStore,
	email interfaces.EmailClient,
	passwords interfaces.PasswordService,
	tokens interfaces.TokenService,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:        users,
		bannedTokens: bannedTokens,
		challenges:   challenges,
		email:        email,
		passwords:    passwords,
		tokens:       tokens,
		logger:       logger.Named("auth_service"),
	}
}

// LoginResult is the outcome of a successful credential check. When the
// account requires a second factor, Token is empty and LoginAttemptID
// identifies the pending challenge; the code itself is only ever sent
// through the notification channel, never returned to the caller.
type LoginResult struct {
	Token          string
	TwoFARequired  bool
	LoginAttemptID models.LoginAttemptID
}

// Signup registers a new account. Parse failures surface as
// ErrMalformedRequest, duplicates as ErrUserAlreadyExists.
func (s *AuthService) Signup(ctx context.Context, rawEmail, rawPassword string, requiresTwoFA bool) error {
	email, err := models.ParseEmail(rawEmail)
	if err != nil {
		return err
	}
	password, err := models.ParsePassword(rawPassword)
	if err != nil {
		return err
	}

	hash, err := s.passwords.HashPassword(ctx, password.Secret())
	if err != nil {
		return fmt.Errorf("%w: failed to hash password: %v", domainErrors.ErrInternal, err)
	}

	user := models.User{
		Email:         email,
		PasswordHash:  hash,
		RequiresTwoFA: requiresTwoFA,
	}
	if err := s.users.AddUser(ctx, user); err != nil {
		if errors.Is(err, domainErrors.ErrUserAlreadyExists) {
			return domainErrors.ErrUserAlreadyExists
		}
		return fmt.Errorf("%w: failed to add user: %v", domainErrors.ErrInternal, err)
	}

	s.logger.Info("user registered", zap.Stringer("email", email), zap.Bool("requires_2fa", requiresTwoFA))
	return nil
}

// Login validates credentials. Unknown email and wrong password both
// collapse to ErrInvalidCredentials so the response shape cannot be used
// to enumerate accounts. For accounts with the second factor enabled, a
// fresh challenge replaces any prior pending one, the code is dispatched
// through the notification channel, and no token is issued until the
// factor is verified.
func (s *AuthService) Login(ctx context.Context, rawEmail, rawPassword string) (*LoginResult, error) {
	email, err := models.ParseEmail(rawEmail)
	if err != nil {
		return nil, domainErrors.ErrInvalidCredentials
	}
	password, err := models.ParsePassword(rawPassword)
	if err != nil {
		return nil, domainErrors.ErrInvalidCredentials
	}

	if err := s.users.ValidateCredentials(ctx, email, password); err != nil {
		if domainErrors.IsNotFound(err) || errors.Is(err, domainErrors.ErrInvalidCredentials) {
			return nil, domainErrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: failed to validate credentials: %v", domainErrors.ErrInternal, err)
	}

	user, err := s.users.GetUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load user after validation: %v", domainErrors.ErrInternal, err)
	}

	if user.RequiresTwoFA {
		return s.beginTwoFAChallenge(ctx, email)
	}

	token, err := s.tokens.Issue(email)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to issue token: %v", domainErrors.ErrInternal, err)
	}

	s.logger.Info("user logged in", zap.Stringer("email", email))
	return &LoginResult{Token: token}, nil
}

// beginTwoFAChallenge mints a fresh (attempt id, code) pair, stores it
// (overwriting any prior pending challenge) and dispatches the code.
// Storing the challenge and sending the notification are independent
// steps: if dispatch fails the challenge stays live until its TTL
// expires, and the caller sees a delivery error. That partial state is
// policy, not a bug.
func (s *AuthService) beginTwoFAChallenge(ctx context.Context, email models.Email) (*LoginResult, error) {
	attemptID := models.NewLoginAttemptID()
	code, err := models.NewTwoFACode()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to generate 2FA code: %v", domainErrors.ErrInternal, err)
	}

	if err := s.challenges.Put(ctx, email, attemptID, code); err != nil {
		return nil, fmt.Errorf("%w: failed to store challenge: %v", domainErrors.ErrInternal, err)
	}

	body := fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", code.Value())
	if err := s.email.SendEmail(ctx, email, twoFAEmailSubject, body); err != nil {
		s.logger.Error("failed to dispatch 2FA code; challenge remains live until its TTL",
			zap.Stringer("email", email), zap.Error(err))
		return nil, fmt.Errorf("%w: failed to dispatch 2FA code: %v", domainErrors.ErrInternal, err)
	}

	s.logger.Info("2FA challenge issued", zap.Stringer("email", email), zap.Stringer("attempt_id", attemptID))
	return &LoginResult{TwoFARequired: true, LoginAttemptID: attemptID}, nil
}

// VerifyTwoFA completes a pending login. Attempt id and code must both
// match; the store matches and deletes in one operation, so the same code
// can never be replayed and concurrent requests presenting the same pair
// succeed at most once. A mismatch leaves the challenge intact. No
// lockout or backoff is applied to repeated failures.
func (s *AuthService) VerifyTwoFA(ctx context.Context, rawEmail, rawAttemptID, rawCode string) (string, error) {
	email, err := models.ParseEmail(rawEmail)
	if err != nil {
		return "", domainErrors.ErrMalformedRequest
	}
	attemptID, err := models.ParseLoginAttemptID(rawAttemptID)
	if err != nil {
		return "", domainErrors.ErrMalformedRequest
	}
	code, err := models.ParseTwoFACode(rawCode)
	if err != nil {
		return "", domainErrors.ErrMalformedRequest
	}

	if err := s.challenges.Consume(ctx, email, attemptID, code); err != nil {
		if domainErrors.IsNotFound(err) || errors.Is(err, domainErrors.ErrChallengeMismatch) {
			return "", domainErrors.ErrInvalidCredentials
		}
		return "", fmt.Errorf("%w: failed to consume challenge: %v", domainErrors.ErrInternal, err)
	}

	token, err := s.tokens.Issue(email)
	if err != nil {
		return "", fmt.Errorf("%w: failed to issue token: %v", domainErrors.ErrInternal, err)
	}

	s.logger.Info("2FA verified", zap.Stringer("email", email))
	return token, nil
}

// Logout revokes the presented token. The token must carry a valid
// signature and be unexpired and unrevoked; otherwise ErrInvalidToken.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.validateToken(ctx, token)
	if err != nil {
		return err
	}

	if err := s.bannedTokens.Ban(ctx, token, time.Until(claims.ExpiresAt)); err != nil {
		return fmt.Errorf("%w: failed to ban token: %v", domainErrors.ErrInternal, err)
	}

	s.logger.Info("user logged out", zap.String("subject", claims.Subject))
	return nil
}

// VerifyToken checks that a token is trustworthy: valid signature,
// unexpired and not revoked. All failures collapse to ErrInvalidToken so
// revocation state is not distinguishable from forgery.
func (s *AuthService) VerifyToken(ctx context.Context, token string) error {
	_, err := s.validateToken(ctx, token)
	return err
}

// RefreshToken rotates a session: the presented token must be valid,
// unrevoked and belong to the claimed account. The old token is banned
// and a new one minted; lifetimes are never extended in place.
func (s *AuthService) RefreshToken(ctx context.Context, rawEmail, token string) (string, error) {
	email, err := models.ParseEmail(rawEmail)
	if err != nil {
		return "", domainErrors.ErrInvalidCredentials
	}

	if _, err := s.users.GetUser(ctx, email); err != nil {
		if domainErrors.IsNotFound(err) {
			return "", domainErrors.ErrInvalidCredentials
		}
		return "", fmt.Errorf("%w: failed to load user: %v", domainErrors.ErrInternal, err)
	}

	claims, err := s.validateToken(ctx, token)
	if err != nil {
		return "", err
	}
	if claims.Subject != email.Address() {
		return "", domainErrors.ErrInvalidToken
	}

	if err := s.bannedTokens.Ban(ctx, token, time.Until(claims.ExpiresAt)); err != nil {
		return "", fmt.Errorf("%w: failed to ban token: %v", domainErrors.ErrInternal, err)
	}

	newToken, err := s.tokens.Issue(email)
	if err != nil {
		return "", fmt.Errorf("%w: failed to issue token: %v", domainErrors.ErrInternal, err)
	}

	s.logger.Info("token rotated", zap.Stringer("email", email))
	return newToken, nil
}

// validateToken applies the full trust check: revocation first, then
// signature and expiry. Every failure surfaces as ErrInvalidToken with
// the cause preserved underneath for logging.
func (s *AuthService) validateToken(ctx context.Context, token string) (*interfaces.TokenClaims, error) {
	if token == "" {
		return nil, domainErrors.ErrMissingToken
	}

	banned, err := s.bannedTokens.IsBanned(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to check revocation: %v", domainErrors.ErrInternal, err)
	}
	if banned {
		return nil, domainErrors.ErrInvalidToken
	}

	claims, err := s.tokens.Decode(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrInvalidToken, err)
	}
	return claims, nil
}
