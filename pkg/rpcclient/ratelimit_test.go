package rpcclient

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLimiterTryAcquire(t *testing.T) {
	// Two tokens of capacity, one refill per 50ms.
	l := newLimiter(20, 2, time.Second)

	require.NoError(t, l.TryAcquire())
	require.NoError(t, l.TryAcquire())

	// Bucket drained within one refill interval.
	err := l.TryAcquire()
	var limited *RateLimitedError
	require.ErrorAs(t, err, &limited)
	require.Zero(t, limited.WaitTimeout)

	// One full refill interval brings a token back.
	time.Sleep(60 * time.Millisecond)
	require.NoError(t, l.TryAcquire())
}

func TestLimiterAcquireWaits(t *testing.T) {
	l := newLimiter(100, 1, time.Second)
	require.NoError(t, l.TryAcquire())

	// Refill takes 10ms, well within the wait timeout.
	start := time.Now()
	require.NoError(t, l.Acquire(context.Background()))
	require.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}

func TestLimiterAcquireTimesOut(t *testing.T) {
	// One token per minute, so the wait always exceeds the timeout.
	l := newLimiter(1.0/60, 1, 20*time.Millisecond)
	require.NoError(t, l.TryAcquire())

	err := l.Acquire(context.Background())
	var limited *RateLimitedError
	require.ErrorAs(t, err, &limited)
	require.Equal(t, 20*time.Millisecond, limited.WaitTimeout)
}

func TestLimiterAcquireCancellation(t *testing.T) {
	l := newLimiter(1.0/60, 1, time.Minute)
	require.NoError(t, l.TryAcquire())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	require.ErrorIs(t, l.Acquire(ctx), context.Canceled)
}
