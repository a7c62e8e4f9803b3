package rpcclient

import (
	"testing"
	"time"

	"github.com/halcyon-chain/halcyon-go/pkg/metrics"
	"github.com/stretchr/testify/require"
)

// fakeClock drives the breaker's notion of time.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(threshold int, cooldown, maxCooldown time.Duration) (*breaker, *fakeClock) {
	clk := &fakeClock{t: time.Unix(1700000000, 0)}
	b := newBreaker(threshold, cooldown, maxCooldown, metrics.NopRecorder{})
	b.now = clk.now
	return b, clk
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	b, _ := newTestBreaker(5, time.Second, 30*time.Second)

	for i := 0; i < 4; i++ {
		require.NoError(t, b.Allow())
		b.Failure()
	}
	require.Equal(t, StateClosed, b.State())

	require.NoError(t, b.Allow())
	b.Failure()
	require.Equal(t, StateOpen, b.State())

	// Open circuit rejects without any network attempt.
	err := b.Allow()
	var open *CircuitOpenError
	require.ErrorAs(t, err, &open)
	require.Greater(t, open.RetryAfter, time.Duration(0))
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	b, _ := newTestBreaker(5, time.Second, 30*time.Second)

	for i := 0; i < 4; i++ {
		b.Failure()
	}
	b.Success()
	for i := 0; i < 4; i++ {
		b.Failure()
	}
	require.Equal(t, StateClosed, b.State())
}

func TestBreakerHalfOpenSingleTrial(t *testing.T) {
	b, clk := newTestBreaker(2, time.Second, 30*time.Second)

	b.Failure()
	b.Failure()
	require.Equal(t, StateOpen, b.State())

	clk.advance(1100 * time.Millisecond)

	// Exactly one trial goes through after the cooldown.
	require.NoError(t, b.Allow())
	require.Equal(t, StateHalfOpen, b.State())
	require.Error(t, b.Allow())

	b.Success()
	require.Equal(t, StateClosed, b.State())
	require.NoError(t, b.Allow())
}

func TestBreakerFailedTrialDoublesCooldown(t *testing.T) {
	b, clk := newTestBreaker(2, time.Second, 3*time.Second)

	b.Failure()
	b.Failure()

	// First trial fails, the cooldown doubles to 2s.
	clk.advance(1100 * time.Millisecond)
	require.NoError(t, b.Allow())
	b.Failure()
	require.Equal(t, StateOpen, b.State())

	clk.advance(1100 * time.Millisecond)
	require.Error(t, b.Allow())
	clk.advance(time.Second)
	require.NoError(t, b.Allow())

	// Second failed trial hits the cap instead of going to 4s.
	b.Failure()
	clk.advance(3100 * time.Millisecond)
	require.NoError(t, b.Allow())
	b.Success()
	require.Equal(t, StateClosed, b.State())
}
