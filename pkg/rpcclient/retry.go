package rpcclient

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"syscall"
	"time"
)

// httpStatusError is a non-OK HTTP answer without a parsable JSON-RPC body.
type httpStatusError struct {
	code int
}

// Error implements the error interface.
func (e *httpStatusError) Error() string {
	return fmt.Sprintf("HTTP %d/%s", e.code, http.StatusText(e.code))
}

// isRetryable reports whether the failure is worth another local attempt:
// timeouts, connection resets/refusals, 5xx answers and local admission
// failures (pool, rate limit, breaker). Application-level RPC errors and
// context cancellation are not retryable.
func isRetryable(err error) bool {
	var (
		poolErr *PoolExhaustedError
		rateErr *RateLimitedError
		openErr *CircuitOpenError
		httpErr *httpStatusError
		netErr  net.Error
	)
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.As(err, &poolErr), errors.As(err, &rateErr), errors.As(err, &openErr):
		return true
	case errors.As(err, &httpErr):
		return httpErr.code >= 500
	case errors.Is(err, syscall.ECONNRESET), errors.Is(err, syscall.ECONNREFUSED):
		return true
	case errors.As(err, &netErr):
		return netErr.Timeout()
	default:
		return false
	}
}

// isIndeterminate reports whether the failure leaves the request's fate at
// the node unknown. Local admission failures and refused connections are
// determinate (the request never went out), timeouts, resets and 5xx
// answers are not.
func isIndeterminate(err error) bool {
	var (
		poolErr *PoolExhaustedError
		rateErr *RateLimitedError
		openErr *CircuitOpenError
		httpErr *httpStatusError
		netErr  net.Error
	)
	switch {
	case errors.As(err, &poolErr), errors.As(err, &rateErr), errors.As(err, &openErr):
		return false
	case errors.Is(err, syscall.ECONNREFUSED):
		return false
	case errors.As(err, &httpErr):
		return httpErr.code >= 500
	case errors.Is(err, syscall.ECONNRESET):
		return true
	case errors.As(err, &netErr):
		return netErr.Timeout()
	default:
		return false
	}
}

// backoff returns the sleep before the given retry (1-based): full jitter
// over an exponentially growing window capped at max.
func backoff(base, max time.Duration, retry int) time.Duration {
	d := base << (retry - 1)
	if d > max || d <= 0 {
		d = max
	}
	return time.Duration(rand.Int63n(int64(d) + 1))
}

// sleepCtx sleeps for d unless ctx is done first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
