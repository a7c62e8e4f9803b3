package rpcclient

import (
	"fmt"
	"time"
)

// PoolExhaustedError is returned when no pooled connection became free
// within the configured wait timeout.
type PoolExhaustedError struct {
	WaitTimeout time.Duration
}

// Error implements the error interface.
func (e *PoolExhaustedError) Error() string {
	return fmt.Sprintf("connection pool exhausted (waited %s)", e.WaitTimeout)
}

// RateLimitedError is returned when the token bucket has no capacity. For
// non-blocking acquisition WaitTimeout is zero, otherwise it's the time the
// caller spent waiting for a token.
type RateLimitedError struct {
	WaitTimeout time.Duration
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.WaitTimeout == 0 {
		return "rate limited"
	}
	return fmt.Sprintf("rate limited (waited %s)", e.WaitTimeout)
}

// CircuitOpenError is returned without touching the network while the
// endpoint's circuit breaker is open.
type CircuitOpenError struct {
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *CircuitOpenError) Error() string {
	return fmt.Sprintf("circuit open, retry in %s", e.RetryAfter)
}

// AmbiguousOutcomeError is returned when a state-changing call (transaction
// submission) failed in a way that doesn't tell whether the node processed
// it. The call is never retried automatically, resubmission is the caller's
// decision.
type AmbiguousOutcomeError struct {
	Method string
	Cause  error
}

// Error implements the error interface.
func (e *AmbiguousOutcomeError) Error() string {
	return fmt.Sprintf("%s outcome is unknown: %v", e.Method, e.Cause)
}

// Unwrap implements the error wrapper interface.
func (e *AmbiguousOutcomeError) Unwrap() error {
	return e.Cause
}

// TransportError wraps the last underlying failure after all local retry
// attempts are spent.
type TransportError struct {
	Endpoint string
	Attempts int
	Cause    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed after %d attempts: %v", e.Endpoint, e.Attempts, e.Cause)
}

// Unwrap implements the error wrapper interface.
func (e *TransportError) Unwrap() error {
	return e.Cause
}
