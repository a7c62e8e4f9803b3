package actor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/halcyon-chain/halcyon-go/internal/random"
	"github.com/halcyon-chain/halcyon-go/pkg/rpc/result"
	"github.com/halcyon-chain/halcyon-go/pkg/transaction"
	"github.com/halcyon-chain/halcyon-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestWaitFindsTransaction(t *testing.T) {
	var lookups atomic.Int64
	txHash := random.Uint256()
	rpc := &fakeRPC{
		height: 10,
		verbose: func(h util.Uint256) (*result.TransactionOutputRaw, error) {
			if lookups.Add(1) < 3 {
				return nil, errors.New("unknown transaction")
			}
			return &result.TransactionOutputRaw{
				Transaction: *transaction.New([]byte{0x51}, 0),
				TransactionMetadata: result.TransactionMetadata{
					Blockhash:     util.Uint256{0xff},
					Confirmations: 1,
				},
			}, nil
		},
	}
	a, _ := newTestActor(t, rpc)

	res, err := a.WaitWithInterval(context.Background(), txHash, 100, time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, util.Uint256{0xff}, res.Blockhash)
	require.EqualValues(t, 3, lookups.Load())
}

func TestWaitExpires(t *testing.T) {
	rpc := &fakeRPC{height: 200}
	a, _ := newTestActor(t, rpc)

	_, err := a.WaitWithInterval(context.Background(), util.Uint256{1}, 100, time.Millisecond)
	require.ErrorIs(t, err, ErrTxNotAccepted)
}

func TestWaitCancellation(t *testing.T) {
	rpc := &fakeRPC{height: 10}
	a, _ := newTestActor(t, rpc)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := a.WaitWithInterval(ctx, util.Uint256{1}, 100, time.Millisecond)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
