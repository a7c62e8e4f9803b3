package rpcclient

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// limiter wraps a token bucket. Tokens refill with elapsed time only, a
// finished request does not return capacity.
type limiter struct {
	rl          *rate.Limiter
	waitTimeout time.Duration
}

func newLimiter(perSecond float64, burst int, waitTimeout time.Duration) *limiter {
	return &limiter{
		rl:          rate.NewLimiter(rate.Limit(perSecond), burst),
		waitTimeout: waitTimeout,
	}
}

// TryAcquire takes a token without blocking, failing fast with
// RateLimitedError when the bucket is empty.
func (l *limiter) TryAcquire() error {
	if !l.rl.Allow() {
		return &RateLimitedError{}
	}
	return nil
}

// Acquire takes a token, suspending the caller until one refills, the wait
// timeout elapses (RateLimitedError) or ctx is done (the context's error).
func (l *limiter) Acquire(ctx context.Context) error {
	wctx, cancel := context.WithTimeout(ctx, l.waitTimeout)
	defer cancel()
	err := l.rl.Wait(wctx)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	// Deadline hit, or Wait refused up front because the required wait
	// provably exceeds it.
	return &RateLimitedError{WaitTimeout: l.waitTimeout}
}
