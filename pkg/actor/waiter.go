package actor

import (
	"context"
	"errors"
	"time"

	"github.com/halcyon-chain/halcyon-go/pkg/rpc/result"
	"github.com/halcyon-chain/halcyon-go/pkg/util"
)

// ErrTxNotAccepted is returned when the chain moved past the transaction's
// expiry height without including it.
var ErrTxNotAccepted = errors.New("transaction was not accepted before its expiry height")

// DefaultPollInterval is the Wait polling period.
const DefaultPollInterval = time.Second

// Wait polls the node until the transaction with the given hash is found on
// the chain, the chain grows past vub (ErrTxNotAccepted) or ctx is done.
// vub is the transaction's ValidUntilBlock.
func (a *Actor) Wait(ctx context.Context, h util.Uint256, vub uint32) (*result.TransactionOutputRaw, error) {
	return a.WaitWithInterval(ctx, h, vub, DefaultPollInterval)
}

// WaitWithInterval is Wait with a custom polling period.
func (a *Actor) WaitWithInterval(ctx context.Context, h util.Uint256, vub uint32, interval time.Duration) (*result.TransactionOutputRaw, error) {
	timer := time.NewTicker(interval)
	defer timer.Stop()
	for {
		tx, err := a.client.GetRawTransactionVerbose(ctx, h)
		if err == nil && !tx.Blockhash.Equals(util.Uint256{}) {
			return tx, nil
		}
		height, err := a.client.GetBlockCount(ctx)
		if err == nil && height > vub {
			return nil, ErrTxNotAccepted
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
