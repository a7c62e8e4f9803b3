package rpc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorIsComparesByCode(t *testing.T) {
	base := NewError(ErrVerificationFailedCode, "Verification failed", "gas limit")
	wrapped := fmt.Errorf("call failed: %w", base)

	require.ErrorIs(t, wrapped, NewError(ErrVerificationFailedCode, "whatever", ""))
	require.NotErrorIs(t, wrapped, NewError(ErrAlreadyExistsCode, "whatever", ""))
	require.False(t, errors.Is(base, errors.New("plain")))
}

func TestErrorString(t *testing.T) {
	require.Equal(t, "Invalid params (-32602) - oops", NewInvalidParamsError("oops").Error())
	require.Equal(t, "Internal error (-32603)", NewInternalServerError("").Error())
}
