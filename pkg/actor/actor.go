/*
Package actor turns scripts into signed transactions. An Actor is bound to a
set of signers with their accounts and a node connection, its Builder walks
a transaction through script, signers, fees, signatures and submission, and
refuses steps out of order.
*/
package actor

import (
	"context"
	"errors"
	"fmt"

	"github.com/halcyon-chain/halcyon-go/pkg/gas"
	"github.com/halcyon-chain/halcyon-go/pkg/rpc/result"
	"github.com/halcyon-chain/halcyon-go/pkg/transaction"
	"github.com/halcyon-chain/halcyon-go/pkg/util"
	"github.com/halcyon-chain/halcyon-go/pkg/wallet"
)

// RPCActor is the network surface an Actor needs, satisfied by
// rpcclient.Client.
type RPCActor interface {
	GetVersion(ctx context.Context) (*result.Version, error)
	GetBlockCount(ctx context.Context) (uint32, error)
	InvokeScript(ctx context.Context, script []byte, signers []transaction.Signer) (*result.Invoke, error)
	CalculateNetworkFee(ctx context.Context, tx *transaction.Transaction) (int64, error)
	SendRawTransaction(ctx context.Context, tx *transaction.Transaction) (util.Uint256, error)
	GetRawTransactionVerbose(ctx context.Context, hash util.Uint256) (*result.TransactionOutputRaw, error)
}

// SignerAccount pairs a transaction signer with the account producing its
// witness.
type SignerAccount struct {
	Signer  transaction.Signer
	Account *wallet.Account

	// Participants hold the keys of a multisignature Account. Ignored for
	// other account kinds.
	Participants []*wallet.Account
}

// Actor creates and sends transactions on behalf of a fixed set of signers.
// It is safe for concurrent use, individual Builders are not.
type Actor struct {
	client   RPCActor
	est      *gas.Estimator
	signers  []SignerAccount
	version  *result.Version
	magic    uint32
	maxDelta uint32
}

// New creates an Actor for the given signers. Signer accounts must match
// signer script hashes. The node is asked once for its version to learn the
// network magic and the maximum transaction validity span.
func New(ctx context.Context, client RPCActor, signers []SignerAccount) (*Actor, error) {
	if len(signers) == 0 {
		return nil, errors.New("at least one signer is required")
	}
	for i := range signers {
		if signers[i].Account == nil {
			return nil, fmt.Errorf("signer %d has no account", i)
		}
		if signers[i].Account.ScriptHash() != signers[i].Signer.Account {
			return nil, fmt.Errorf("signer %d account mismatch: %s vs %s", i,
				signers[i].Account.ScriptHash().StringLE(), signers[i].Signer.Account.StringLE())
		}
	}
	version, err := client.GetVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting node version: %w", err)
	}
	return &Actor{
		client:   client,
		est:      gas.New(client, gas.Options{}),
		signers:  signers,
		version:  version,
		magic:    version.Protocol.Network,
		maxDelta: version.Protocol.MaxValidUntilBlockIncrement,
	}, nil
}

// NewSimple creates a single-signer Actor with the CalledByEntry scope,
// covering the most common case.
func NewSimple(ctx context.Context, client RPCActor, acc *wallet.Account) (*Actor, error) {
	return New(ctx, client, []SignerAccount{{
		Signer: transaction.Signer{
			Account: acc.ScriptHash(),
			Scopes:  transaction.CalledByEntry,
		},
		Account: acc,
	}})
}

// Magic returns the network magic the actor signs for.
func (a *Actor) Magic() uint32 {
	return a.magic
}

// Estimator returns the fee estimator sharing the actor's connection and
// cache.
func (a *Actor) Estimator() *gas.Estimator {
	return a.est
}

// Signers returns a copy of the transaction signer list.
func (a *Actor) Signers() []transaction.Signer {
	res := make([]transaction.Signer, len(a.signers))
	for i := range a.signers {
		res[i] = *a.signers[i].Signer.Copy()
	}
	return res
}

// CurrentHeight returns the chain height as the node sees it.
func (a *Actor) CurrentHeight(ctx context.Context) (uint32, error) {
	return a.client.GetBlockCount(ctx)
}
