package gas

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/halcyon-chain/halcyon-go/pkg/rpc/result"
	"github.com/halcyon-chain/halcyon-go/pkg/transaction"
	"github.com/halcyon-chain/halcyon-go/pkg/util"
	"github.com/stretchr/testify/require"
)

// fakeInvoker simulates a node answering invokescript calls.
type fakeInvoker struct {
	calls  atomic.Int64
	invoke func(script []byte) (*result.Invoke, error)
}

func (f *fakeInvoker) InvokeScript(_ context.Context, script []byte, _ []transaction.Signer) (*result.Invoke, error) {
	f.calls.Add(1)
	return f.invoke(script)
}

func haltingInvoker(gas int64) *fakeInvoker {
	return &fakeInvoker{invoke: func([]byte) (*result.Invoke, error) {
		return &result.Invoke{State: "HALT", GasConsumed: gas}, nil
	}}
}

func TestEstimateCachesByContent(t *testing.T) {
	inv := haltingInvoker(100500)
	e := New(inv, Options{})
	signers := []transaction.Signer{{Account: util.Uint160{1}, Scopes: transaction.CalledByEntry}}

	for i := 0; i < 3; i++ {
		est, err := e.Estimate(context.Background(), []byte{0x51}, signers)
		require.NoError(t, err)
		require.EqualValues(t, 100500, est.GasConsumed)
		require.Equal(t, "HALT", est.State)
	}
	require.EqualValues(t, 1, inv.calls.Load())

	// Different script, different signer scope: both are cache misses.
	_, err := e.Estimate(context.Background(), []byte{0x52}, signers)
	require.NoError(t, err)
	_, err = e.Estimate(context.Background(), []byte{0x51}, []transaction.Signer{{Account: util.Uint160{1}, Scopes: transaction.Global}})
	require.NoError(t, err)
	require.EqualValues(t, 3, inv.calls.Load())
}

func TestEstimateCacheExpires(t *testing.T) {
	inv := haltingInvoker(42)
	e := New(inv, Options{CacheTTL: 30 * time.Millisecond})

	_, err := e.Estimate(context.Background(), []byte{0x51}, nil)
	require.NoError(t, err)
	time.Sleep(60 * time.Millisecond)
	_, err = e.Estimate(context.Background(), []byte{0x51}, nil)
	require.NoError(t, err)
	require.EqualValues(t, 2, inv.calls.Load())
}

func TestEstimateFault(t *testing.T) {
	inv := &fakeInvoker{invoke: func([]byte) (*result.Invoke, error) {
		return &result.Invoke{State: "FAULT", GasConsumed: 100, FaultException: "method not found: badMethod/0"}, nil
	}}
	e := New(inv, Options{})

	_, err := e.Estimate(context.Background(), []byte{0x51}, nil)
	var fault *SimulationFaultError
	require.ErrorAs(t, err, &fault)
	require.Equal(t, "method not found: badMethod/0", fault.Exception)

	// Faults are not cached, the next call goes to the network again.
	_, err = e.Estimate(context.Background(), []byte{0x51}, nil)
	require.Error(t, err)
	require.EqualValues(t, 2, inv.calls.Load())
}

func TestEstimateWithMargin(t *testing.T) {
	e := New(haltingInvoker(101), Options{})

	fee, err := e.EstimateWithMargin(context.Background(), []byte{0x51}, nil, 0)
	require.NoError(t, err)
	require.EqualValues(t, 101, fee)

	// 101 * 1.03 = 104.03, rounded up.
	fee, err = e.EstimateWithMargin(context.Background(), []byte{0x51}, nil, 3)
	require.NoError(t, err)
	require.EqualValues(t, 105, fee)

	_, err = e.EstimateWithMargin(context.Background(), []byte{0x51}, nil, -1)
	require.Error(t, err)
}

func TestEstimateBatch(t *testing.T) {
	inv := &fakeInvoker{invoke: func(script []byte) (*result.Invoke, error) {
		switch script[0] {
		case 0x51:
			return &result.Invoke{State: "HALT", GasConsumed: 100}, nil
		case 0x52:
			return &result.Invoke{State: "FAULT", FaultException: "boom"}, nil
		default:
			return nil, errors.New("node unavailable")
		}
	}}
	e := New(inv, Options{})

	res := e.EstimateBatch(context.Background(), []BatchItem{
		{Script: []byte{0x51}},
		{Script: []byte{0x52}},
		{Script: []byte{0x53}},
		{Script: []byte{0x51}},
	})
	require.Len(t, res, 4)

	require.NoError(t, res[0].Err)
	require.EqualValues(t, 100, res[0].Estimate.GasConsumed)

	var fault *SimulationFaultError
	require.ErrorAs(t, res[1].Err, &fault)

	require.Error(t, res[2].Err)
	require.False(t, errors.As(res[2].Err, &fault))

	require.NoError(t, res[3].Err)
	require.EqualValues(t, 100, res[3].Estimate.GasConsumed)
}
