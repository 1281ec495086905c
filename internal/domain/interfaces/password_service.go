package interfaces

import "context"

// PasswordService hashes and verifies passwords. Hashing is salted and
// non-deterministic: two hashes of the same password differ byte-for-byte.
// Both operations are CPU-bound; implementations served on the request
// path should be wrapped so a burst of logins cannot starve unrelated
// connections (see security.NewBoundedPasswordService).
type PasswordService interface {
	HashPassword(ctx context.Context, password string) (string, error)
	CheckPasswordHash(ctx context.Context, password, encodedHash string) (bool, error)
}
