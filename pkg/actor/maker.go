package actor

import (
	"context"

	"github.com/halcyon-chain/halcyon-go/pkg/smartcontract"
	"github.com/halcyon-chain/halcyon-go/pkg/transaction"
	"github.com/halcyon-chain/halcyon-go/pkg/util"
)

// MakeCall creates and signs a transaction invoking method of the given
// contract with the given arguments, using the actor's signers.
func (a *Actor) MakeCall(ctx context.Context, contract util.Uint160, method string, args ...any) (*transaction.Transaction, error) {
	sb := smartcontract.NewBuilder()
	sb.InvokeMethod(contract, method, args...)
	script, err := sb.Bytes()
	if err != nil {
		return nil, err
	}
	return a.MakeRun(ctx, script)
}

// MakeRun creates and signs a transaction executing the given script with
// the actor's signers. The result is ready for Send.
func (a *Actor) MakeRun(ctx context.Context, script []byte) (*transaction.Transaction, error) {
	b := a.NewBuilder()
	if err := b.SetScript(script); err != nil {
		return nil, err
	}
	for i := range a.signers {
		if err := b.AddSigner(a.signers[i]); err != nil {
			return nil, err
		}
	}
	if err := b.ResolveFees(ctx); err != nil {
		return nil, err
	}
	if err := b.Sign(ctx); err != nil {
		return nil, err
	}
	return b.Build()
}

// SendCall is MakeCall followed by submission. It returns the transaction
// hash and its expiry height, the pair Wait needs.
func (a *Actor) SendCall(ctx context.Context, contract util.Uint160, method string, args ...any) (util.Uint256, uint32, error) {
	tx, err := a.MakeCall(ctx, contract, method, args...)
	if err != nil {
		return util.Uint256{}, 0, err
	}
	return a.sendTx(ctx, tx)
}

// SendRun is MakeRun followed by submission.
func (a *Actor) SendRun(ctx context.Context, script []byte) (util.Uint256, uint32, error) {
	tx, err := a.MakeRun(ctx, script)
	if err != nil {
		return util.Uint256{}, 0, err
	}
	return a.sendTx(ctx, tx)
}

func (a *Actor) sendTx(ctx context.Context, tx *transaction.Transaction) (util.Uint256, uint32, error) {
	h, err := a.client.SendRawTransaction(ctx, tx)
	if err != nil {
		return util.Uint256{}, 0, err
	}
	return h, tx.ValidUntilBlock, nil
}
