package models

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"unicode"

	"github.com/google/uuid"

	domainErrors "github.com/gatewatch/auth-service/internal/domain/errors"
)

const (
	passwordMinLength = 8
	passwordMaxLength = 32

	twoFACodeLength = 6
	twoFACodeSpace  = 1_000_000
)

// Email is a parsed, normalized email address. The zero value is invalid;
// construct via ParseEmail. Equality is defined over the normalized
// address, so Email values are usable as map keys.
type Email struct {
	address string
}

// ParseEmail validates and normalizes an email address. The address is
// trimmed and lower-cased before validation so "User@X.com" and
// "user@x.com " refer to the same account.
func ParseEmail(s string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "" {
		return Email{}, fmt.Errorf("%w: email is empty", domainErrors.ErrMalformedRequest)
	}

	addr, err := mail.ParseAddress(normalized)
	if err != nil || addr.Address != normalized {
		return Email{}, fmt.Errorf("%w: invalid email format", domainErrors.ErrMalformedRequest)
	}

	local, domain, ok := strings.Cut(normalized, "@")
	if !ok || local == "" || domain == "" || !strings.Contains(domain, ".") {
		return Email{}, fmt.Errorf("%w: invalid email format", domainErrors.ErrMalformedRequest)
	}

	return Email{address: normalized}, nil
}

// Address returns the normalized address. This is the only accessor that
// exposes the raw value; String deliberately does not.
func (e Email) Address() string { return e.address }

// IsZero reports whether the Email was never parsed.
func (e Email) IsZero() bool { return e.address == "" }

// String returns a masked form safe for log lines.
func (e Email) String() string {
	local, domain, ok := strings.Cut(e.address, "@")
	if !ok {
		return "***"
	}
	if len(local) <= 1 {
		return "***@" + domain
	}
	return local[:1] + "***@" + domain
}

// Password is a parsed plaintext password. It is never persisted; only its
// argon2id hash is stored. String is redacted so the secret cannot leak
// through formatting.
type Password struct {
	secret string
}

// ParsePassword validates a candidate password: length within
// [8,32] and no control characters.
func ParsePassword(s string) (Password, error) {
	if len(s) < passwordMinLength || len(s) > passwordMaxLength {
		return Password{}, fmt.Errorf("%w: password length must be between %d and %d",
			domainErrors.ErrMalformedRequest, passwordMinLength, passwordMaxLength)
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return Password{}, fmt.Errorf("%w: password contains control characters", domainErrors.ErrMalformedRequest)
		}
	}
	return Password{secret: s}, nil
}

// Secret exposes the raw password for hashing and verification only.
func (p Password) Secret() string { return p.secret }

// String returns a redacted placeholder.
func (p Password) String() string { return "[REDACTED]" }

// LoginAttemptID is the opaque random identifier minted for each login
// attempt that requires a second factor.
type LoginAttemptID struct {
	value string
}

// NewLoginAttemptID mints a fresh random attempt identifier.
func NewLoginAttemptID() LoginAttemptID {
	return LoginAttemptID{value: uuid.NewString()}
}

// ParseLoginAttemptID validates a client-supplied attempt identifier.
func ParseLoginAttemptID(s string) (LoginAttemptID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return LoginAttemptID{}, fmt.Errorf("%w: invalid login attempt id", domainErrors.ErrMalformedRequest)
	}
	return LoginAttemptID{value: id.String()}, nil
}

// String returns the identifier. Attempt ids are not secret; they are
// returned to the client in the pending-login response.
func (id LoginAttemptID) String() string { return id.value }

// TwoFACode is a single-use 6-digit second-factor code.
type TwoFACode struct {
	code string
}

// NewTwoFACode generates a uniformly random 6-digit code, zero-padded.
func NewTwoFACode() (TwoFACode, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(twoFACodeSpace))
	if err != nil {
		return TwoFACode{}, fmt.Errorf("failed to generate 2FA code: %w", err)
	}
	return TwoFACode{code: fmt.Sprintf("%06d", n.Int64())}, nil
}

// ParseTwoFACode validates a client-supplied code: exactly 6 ASCII digits.
func ParseTwoFACode(s string) (TwoFACode, error) {
	if len(s) != twoFACodeLength {
		return TwoFACode{}, fmt.Errorf("%w: 2FA code must be %d digits", domainErrors.ErrMalformedRequest, twoFACodeLength)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return TwoFACode{}, fmt.Errorf("%w: 2FA code must be numeric", domainErrors.ErrMalformedRequest)
		}
	}
	return TwoFACode{code: s}, nil
}

// Value exposes the code for storage and notification delivery.
func (c TwoFACode) Value() string { return c.code }

// String returns a redacted placeholder; the code must never be logged.
func (c TwoFACode) String() string { return "[REDACTED]" }
