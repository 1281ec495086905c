package errors

import (
	"errors"
)

// Sentinel errors for the authentication domain. Unknown-account and
// wrong-password conditions are collapsed to ErrInvalidCredentials at the
// service boundary so response variance cannot be used for account
// enumeration; the finer-grained sentinels below exist for the store
// contracts and for logging.
var (
	// Generic errors.
	ErrInternal         = errors.New("unexpected error")
	ErrMalformedRequest = errors.New("malformed request")

	// Credential errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")

	// Token errors. Bad signature, expiry and revocation are all reported
	// to callers as ErrInvalidToken; ErrTokenExpired and ErrTokenMalformed
	// are preserved underneath for the cause chain.
	ErrMissingToken   = errors.New("missing token")
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("token is malformed")

	// Second-factor challenge errors. A mismatch leaves the challenge
	// intact; not-found covers absent, expired and already-consumed.
	ErrChallengeNotFound = errors.New("login challenge not found")
	ErrChallengeMismatch = errors.New("login challenge mismatch")
)

// IsUnauthorized reports whether err should surface as a 401.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenMalformed)
}

// IsConflict reports whether err should surface as a 409.
func IsConflict(err error) bool {
	return errors.Is(err, ErrUserAlreadyExists)
}

// IsNotFound reports whether err is a not-found condition from a store.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrChallengeNotFound)
}
