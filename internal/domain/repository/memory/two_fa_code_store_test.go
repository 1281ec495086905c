package memory_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/gatewatch/auth-service/internal/domain/errors"
	"github.com/gatewatch/auth-service/internal/domain/models"
	"github.com/gatewatch/auth-service/internal/domain/repository/memory"
)

func mustTwoFACode(t *testing.T, raw string) models.TwoFACode {
	t.Helper()
	code, err := models.ParseTwoFACode(raw)
	require.NoError(t, err)
	return code
}

func TestTwoFACodeStore_PutGetRemove(t *testing.T) {
	store := memory.NewTwoFACodeStore(10 * time.Minute)
	email := mustEmail(t, "user@example.com")
	attemptID := models.NewLoginAttemptID()
	code := mustTwoFACode(t, "123456")

	require.NoError(t, store.Put(context.Background(), email, attemptID, code))

	gotID, gotCode, err := store.Get(context.Background(), email)
	require.NoError(t, err)
	assert.Equal(t, attemptID, gotID)
	assert.Equal(t, code, gotCode)

	require.NoError(t, store.Remove(context.Background(), email))

	_, _, err = store.Get(context.Background(), email)
	assert.ErrorIs(t, err, domainErrors.ErrChallengeNotFound)
}

func TestTwoFACodeStore_GetUnknown(t *testing.T) {
	store := memory.NewTwoFACodeStore(10 * time.Minute)

	_, _, err := store.Get(context.Background(), mustEmail(t, "nobody@example.com"))
	assert.ErrorIs(t, err, domainErrors.ErrChallengeNotFound)
}

func TestTwoFACodeStore_PutOverwrites(t *testing.T) {
	store := memory.NewTwoFACodeStore(10 * time.Minute)
	email := mustEmail(t, "user@example.com")

	firstID := models.NewLoginAttemptID()
	require.NoError(t, store.Put(context.Background(), email, firstID, mustTwoFACode(t, "111111")))

	secondID := models.NewLoginAttemptID()
	secondCode := mustTwoFACode(t, "222222")
	require.NoError(t, store.Put(context.Background(), email, secondID, secondCode))

	gotID, gotCode, err := store.Get(context.Background(), email)
	require.NoError(t, err)
	assert.Equal(t, secondID, gotID, "the newest challenge wins")
	assert.Equal(t, secondCode, gotCode)
}

func TestTwoFACodeStore_Expiry(t *testing.T) {
	store := memory.NewTwoFACodeStore(20 * time.Millisecond)
	email := mustEmail(t, "user@example.com")

	require.NoError(t, store.Put(context.Background(), email, models.NewLoginAttemptID(), mustTwoFACode(t, "123456")))

	time.Sleep(40 * time.Millisecond)

	_, _, err := store.Get(context.Background(), email)
	assert.ErrorIs(t, err, domainErrors.ErrChallengeNotFound)
}

func TestTwoFACodeStore_PutResetsTTL(t *testing.T) {
	store := memory.NewTwoFACodeStore(50 * time.Millisecond)
	email := mustEmail(t, "user@example.com")

	require.NoError(t, store.Put(context.Background(), email, models.NewLoginAttemptID(), mustTwoFACode(t, "111111")))

	time.Sleep(30 * time.Millisecond)

	freshID := models.NewLoginAttemptID()
	require.NoError(t, store.Put(context.Background(), email, freshID, mustTwoFACode(t, "222222")))

	time.Sleep(30 * time.Millisecond)

	gotID, _, err := store.Get(context.Background(), email)
	require.NoError(t, err, "the second Put restarted the clock")
	assert.Equal(t, freshID, gotID)
}

func TestTwoFACodeStore_Consume(t *testing.T) {
	store := memory.NewTwoFACodeStore(10 * time.Minute)
	email := mustEmail(t, "user@example.com")
	attemptID := models.NewLoginAttemptID()
	code := mustTwoFACode(t, "123456")

	require.NoError(t, store.Put(context.Background(), email, attemptID, code))

	// Mismatched code leaves the challenge intact.
	err := store.Consume(context.Background(), email, attemptID, mustTwoFACode(t, "654321"))
	assert.ErrorIs(t, err, domainErrors.ErrChallengeMismatch)

	// Mismatched attempt id too.
	err = store.Consume(context.Background(), email, models.NewLoginAttemptID(), code)
	assert.ErrorIs(t, err, domainErrors.ErrChallengeMismatch)

	gotID, _, err := store.Get(context.Background(), email)
	require.NoError(t, err, "mismatches must not consume the challenge")
	assert.Equal(t, attemptID, gotID)

	// The matching pair consumes it; a second attempt finds nothing.
	require.NoError(t, store.Consume(context.Background(), email, attemptID, code))
	err = store.Consume(context.Background(), email, attemptID, code)
	assert.ErrorIs(t, err, domainErrors.ErrChallengeNotFound)
}

func TestTwoFACodeStore_ConsumeAbsent(t *testing.T) {
	store := memory.NewTwoFACodeStore(10 * time.Minute)

	err := store.Consume(context.Background(), mustEmail(t, "nobody@example.com"), models.NewLoginAttemptID(), mustTwoFACode(t, "123456"))
	assert.ErrorIs(t, err, domainErrors.ErrChallengeNotFound)
}

func TestTwoFACodeStore_ConsumeExpired(t *testing.T) {
	store := memory.NewTwoFACodeStore(20 * time.Millisecond)
	email := mustEmail(t, "user@example.com")
	attemptID := models.NewLoginAttemptID()
	code := mustTwoFACode(t, "123456")

	require.NoError(t, store.Put(context.Background(), email, attemptID, code))

	time.Sleep(40 * time.Millisecond)

	err := store.Consume(context.Background(), email, attemptID, code)
	assert.ErrorIs(t, err, domainErrors.ErrChallengeNotFound)
}

func TestTwoFACodeStore_ConsumeExactlyOnce(t *testing.T) {
	store := memory.NewTwoFACodeStore(10 * time.Minute)
	email := mustEmail(t, "user@example.com")
	attemptID := models.NewLoginAttemptID()
	code := mustTwoFACode(t, "123456")

	require.NoError(t, store.Put(context.Background(), email, attemptID, code))

	// Many goroutines present the same pair at once; match-and-delete runs
	// under one write lock, so exactly one of them wins.
	var wg sync.WaitGroup
	var successes atomic.Int64
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.Consume(context.Background(), email, attemptID, code); err == nil {
				successes.Add(1)
			} else {
				assert.ErrorIs(t, err, domainErrors.ErrChallengeNotFound)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), successes.Load())
}

func TestTwoFACodeStore_RemoveAbsent(t *testing.T) {
	store := memory.NewTwoFACodeStore(10 * time.Minute)

	assert.NoError(t, store.Remove(context.Background(), mustEmail(t, "nobody@example.com")))
}

func TestTwoFACodeStore_IsolatedPerAccount(t *testing.T) {
	store := memory.NewTwoFACodeStore(10 * time.Minute)
	alice := mustEmail(t, "alice@example.com")
	bob := mustEmail(t, "bob@example.com")

	aliceID := models.NewLoginAttemptID()
	bobID := models.NewLoginAttemptID()
	require.NoError(t, store.Put(context.Background(), alice, aliceID, mustTwoFACode(t, "111111")))
	require.NoError(t, store.Put(context.Background(), bob, bobID, mustTwoFACode(t, "222222")))

	gotID, _, err := store.Get(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, aliceID, gotID)

	require.NoError(t, store.Remove(context.Background(), alice))

	gotID, _, err = store.Get(context.Background(), bob)
	require.NoError(t, err, "removing alice's challenge must not touch bob's")
	assert.Equal(t, bobID, gotID)
}
