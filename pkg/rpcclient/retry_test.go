package rpcclient

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"
	"time"

	"github.com/halcyon-chain/halcyon-go/pkg/rpc"
	"github.com/stretchr/testify/require"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestIsRetryable(t *testing.T) {
	for _, err := range []error{
		timeoutErr{},
		syscall.ECONNRESET,
		syscall.ECONNREFUSED,
		&httpStatusError{code: 500},
		&httpStatusError{code: 503},
		&PoolExhaustedError{},
		&RateLimitedError{},
		&CircuitOpenError{},
		fmt.Errorf("wrapped: %w", timeoutErr{}),
	} {
		require.True(t, isRetryable(err), "%v", err)
	}
	for _, err := range []error{
		errors.New("plain"),
		&httpStatusError{code: 400},
		rpc.NewInvalidParamsError("bad script"),
		context.Canceled,
		context.DeadlineExceeded,
	} {
		require.False(t, isRetryable(err), "%v", err)
	}
}

func TestIsIndeterminate(t *testing.T) {
	for _, err := range []error{
		timeoutErr{},
		syscall.ECONNRESET,
		&httpStatusError{code: 500},
	} {
		require.True(t, isIndeterminate(err), "%v", err)
	}
	// These failed before anything went out.
	for _, err := range []error{
		syscall.ECONNREFUSED,
		&PoolExhaustedError{},
		&RateLimitedError{},
		&CircuitOpenError{},
		rpc.NewInvalidParamsError("bad script"),
	} {
		require.False(t, isIndeterminate(err), "%v", err)
	}
}

func TestBackoffBounds(t *testing.T) {
	base := 100 * time.Millisecond
	max := time.Second
	for retry := 1; retry < 10; retry++ {
		for i := 0; i < 20; i++ {
			d := backoff(base, max, retry)
			require.GreaterOrEqual(t, d, time.Duration(0))
			require.LessOrEqual(t, d, max)
			if retry == 1 {
				require.LessOrEqual(t, d, base)
			}
		}
	}
}
