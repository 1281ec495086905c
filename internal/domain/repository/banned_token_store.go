package repository

import (
	"context"
	"time"
)

// BannedTokenStore is the revocation denylist: session tokens that must no
// longer be trusted despite a valid signature. Entries need not outlive
// the token they revoke, so Ban takes the token's remaining validity as
// its lifetime. Ban is idempotent; banning an already-banned token is not
// an error.
type BannedTokenStore interface {
	Ban(ctx context.Context, token string, ttl time.Duration) error
	IsBanned(ctx context.Context, token string) (bool, error)
}
