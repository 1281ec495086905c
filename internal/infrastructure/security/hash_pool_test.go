package security_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatewatch/auth-service/internal/infrastructure/security"
)

// countingPasswordService records the peak number of in-flight calls.
type countingPasswordService struct {
	inFlight atomic.Int64
	peak     atomic.Int64
}

func (s *countingPasswordService) enter() {
	cur := s.inFlight.Add(1)
	for {
		peak := s.peak.Load()
		if cur <= peak || s.peak.CompareAndSwap(peak, cur) {
			return
		}
	}
}

func (s *countingPasswordService) HashPassword(_ context.Context, _ string) (string, error) {
	s.enter()
	defer s.inFlight.Add(-1)
	time.Sleep(10 * time.Millisecond)
	return "hash", nil
}

func (s *countingPasswordService) CheckPasswordHash(_ context.Context, _, _ string) (bool, error) {
	s.enter()
	defer s.inFlight.Add(-1)
	time.Sleep(10 * time.Millisecond)
	return true, nil
}

func TestBoundedPasswordService_LimitsConcurrency(t *testing.T) {
	inner := &countingPasswordService{}
	svc := security.NewBoundedPasswordService(inner, 2)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.HashPassword(context.Background(), "some-password-1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, inner.peak.Load(), int64(2), "no more than maxWorkers hashes may run at once")
}

func TestBoundedPasswordService_DelegatesResult(t *testing.T) {
	inner := &countingPasswordService{}
	svc := security.NewBoundedPasswordService(inner, 1)

	hash, err := svc.HashPassword(context.Background(), "some-password-1")
	require.NoError(t, err)
	assert.Equal(t, "hash", hash)

	ok, err := svc.CheckPasswordHash(context.Background(), "some-password-1", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBoundedPasswordService_CanceledContext(t *testing.T) {
	inner := &countingPasswordService{}
	svc := security.NewBoundedPasswordService(inner, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.HashPassword(ctx, "some-password-1")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = svc.CheckPasswordHash(ctx, "some-password-1", "hash")
	assert.ErrorIs(t, err, context.Canceled)
}
