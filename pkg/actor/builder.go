package actor

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/halcyon-chain/halcyon-go/pkg/fee"
	"github.com/halcyon-chain/halcyon-go/pkg/io"
	"github.com/halcyon-chain/halcyon-go/pkg/smartcontract"
	"github.com/halcyon-chain/halcyon-go/pkg/transaction"
	"github.com/halcyon-chain/halcyon-go/pkg/util"
	"github.com/halcyon-chain/halcyon-go/pkg/vm/emit"
	"github.com/halcyon-chain/halcyon-go/pkg/wallet"
)

// State is a Builder's position in the transaction lifecycle. It only moves
// forward, except for fee invalidation on script or signer changes.
type State int

// Builder states in lifecycle order.
const (
	StateEmpty State = iota
	StateScriptSet
	StateSignersSet
	StateFeesResolved
	StateSigned
	StateSubmitted
)

// String implements the fmt.Stringer interface.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateScriptSet:
		return "script set"
	case StateSignersSet:
		return "signers set"
	case StateFeesResolved:
		return "fees resolved"
	case StateSigned:
		return "signed"
	case StateSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// defaultValidityDelta is used when the node doesn't report a maximum
// validity increment.
const defaultValidityDelta = 5760

// Builder assembles one transaction step by step. It is a sequential state
// machine owned by a single caller, not safe for concurrent use.
type Builder struct {
	actor   *Actor
	state   State
	tx      *transaction.Transaction
	signers []SignerAccount
}

// NewBuilder starts an empty transaction.
func (a *Actor) NewBuilder() *Builder {
	return &Builder{
		actor: a,
		state: StateEmpty,
		tx:    transaction.New(nil, 0),
	}
}

// State returns the builder's current state.
func (b *Builder) State() State {
	return b.state
}

// SetScript sets the transaction's script. Resolved fees are dropped since
// they depend on it. Fails with ImmutableStateError once the transaction is
// signed.
func (b *Builder) SetScript(script []byte) error {
	if b.state >= StateSigned {
		return &ImmutableStateError{Op: "setting the script", State: b.state}
	}
	if len(script) == 0 {
		return errors.New("empty script")
	}
	b.invalidate()
	b.tx.Script = script
	b.dropFees()
	if b.state == StateEmpty {
		b.state = StateScriptSet
	}
	return nil
}

// AddSigner appends a signer with its account. Signer accounts must be
// unique. Resolved fees are dropped since they depend on the signer set.
func (b *Builder) AddSigner(sa SignerAccount) error {
	if b.state >= StateSigned {
		return &ImmutableStateError{Op: "adding a signer", State: b.state}
	}
	if b.state == StateEmpty {
		return &IncompleteTransactionError{Missing: "script"}
	}
	if sa.Account == nil {
		return errors.New("signer has no account")
	}
	if sa.Account.ScriptHash() != sa.Signer.Account {
		return fmt.Errorf("account %s doesn't match signer %s",
			sa.Account.ScriptHash().StringLE(), sa.Signer.Account.StringLE())
	}
	if b.tx.HasSigner(sa.Signer.Account) {
		return fmt.Errorf("signer %s is already present", sa.Signer.Account.StringLE())
	}
	b.invalidate()
	b.tx.Signers = append(b.tx.Signers, sa.Signer)
	b.signers = append(b.signers, sa)
	b.dropFees()
	b.state = StateSignersSet
	return nil
}

// ValidUntilBlock sets the transaction's expiry height. The height must
// exceed the current one by no more than the network's maximum validity
// span, anything else fails with ValidityRangeError.
func (b *Builder) ValidUntilBlock(ctx context.Context, height uint32) error {
	if b.state >= StateSigned {
		return &ImmutableStateError{Op: "setting the validity window", State: b.state}
	}
	current, err := b.actor.CurrentHeight(ctx)
	if err != nil {
		return fmt.Errorf("getting current height: %w", err)
	}
	delta := b.validityDelta()
	if height <= current || height > current+delta {
		return &ValidityRangeError{Height: current, Requested: height, MaxDelta: delta}
	}
	b.invalidate()
	b.tx.ValidUntilBlock = height
	return nil
}

// ResolveFees simulates the script to set the system fee and derives the
// network fee from the transaction's size and its witness costs. A FAULTed
// simulation fails with gas.SimulationFaultError and leaves the fees unset.
func (b *Builder) ResolveFees(ctx context.Context) error {
	return b.ResolveFeesWithMargin(ctx, 0)
}

// ResolveFeesWithMargin is ResolveFees with a multiplicative safety margin
// (in percent, rounded up) on top of the simulated system fee.
func (b *Builder) ResolveFeesWithMargin(ctx context.Context, marginPercent int64) error {
	switch {
	case b.state >= StateSigned:
		return &ImmutableStateError{Op: "resolving fees", State: b.state}
	case b.state == StateEmpty:
		return &IncompleteTransactionError{Missing: "script"}
	case b.state == StateScriptSet:
		return &IncompleteTransactionError{Missing: "signers"}
	}
	b.invalidate()
	if b.tx.ValidUntilBlock == 0 {
		current, err := b.actor.CurrentHeight(ctx)
		if err != nil {
			return fmt.Errorf("getting current height: %w", err)
		}
		b.tx.ValidUntilBlock = current + b.validityDelta()
	}

	sysFee, err := b.actor.est.EstimateWithMargin(ctx, b.tx.Script, b.tx.Signers, marginPercent)
	if err != nil {
		return err
	}
	b.tx.SystemFee = sysFee

	if err := b.resolveNetworkFee(ctx); err != nil {
		return err
	}
	b.state = StateFeesResolved
	return nil
}

// resolveNetworkFee asks the node first and falls back to the local fee
// table when the node can't answer.
func (b *Builder) resolveNetworkFee(ctx context.Context) error {
	dummy := b.tx.Copy()
	dummy.Scripts = make([]transaction.Witness, len(b.signers))
	for i := range b.signers {
		if b.signers[i].Account.Contract != nil {
			dummy.Scripts[i].VerificationScript = b.signers[i].Account.Contract.Script
		}
	}
	if netFee, err := b.actor.client.CalculateNetworkFee(ctx, dummy); err == nil {
		b.tx.NetworkFee = netFee
		return nil
	}

	var (
		netFee int64
		size   = io.GetVarSize(b.tx)
	)
	for i := range b.signers {
		var script []byte
		if b.signers[i].Account.Contract != nil {
			script = b.signers[i].Account.Contract.Script
		}
		f, ds := fee.Calculate(fee.DefaultBaseExecFee, script)
		netFee += f
		size += ds
	}
	b.tx.NetworkFee = netFee + int64(size)*fee.DefaultFeePerByte
	return nil
}

// Sign obtains a witness from every signer's account and attaches them in
// signer order. The operation is atomic: if any witness can't be produced
// none are attached, the builder drops back to the signers-set state and
// Sign fails with PartialSignatureError.
func (b *Builder) Sign(ctx context.Context) error {
	if b.state >= StateSigned {
		return &ImmutableStateError{Op: "signing", State: b.state}
	}
	if b.state < StateFeesResolved {
		return &IncompleteTransactionError{Missing: "resolved fees"}
	}

	witnesses := make([]transaction.Witness, len(b.signers))
	for i := range b.signers {
		w, err := b.witnessFor(ctx, &b.signers[i])
		if err != nil {
			b.state = StateSignersSet
			return &PartialSignatureError{Account: b.signers[i].Signer.Account, Cause: err}
		}
		witnesses[i] = w
	}
	b.tx.Scripts = witnesses
	b.state = StateSigned
	return nil
}

func (b *Builder) witnessFor(ctx context.Context, sa *SignerAccount) (transaction.Witness, error) {
	ct := sa.Account.Contract
	switch {
	case ct == nil:
		return transaction.Witness{}, errors.New("account has no contract")
	case ct.Deployed:
		if ct.InvocationBuilder == nil {
			return transaction.Witness{}, errors.New("deployed contract account has no invocation builder")
		}
		inv, err := ct.InvocationBuilder(b.tx)
		if err != nil {
			return transaction.Witness{}, err
		}
		return transaction.Witness{InvocationScript: inv}, nil
	case smartcontract.IsMultiSigContract(ct.Script):
		return b.multisigWitness(ctx, sa)
	default:
		sig, err := sa.Account.SignHashable(ctx, b.actor.magic, b.tx)
		if err != nil {
			return transaction.Witness{}, err
		}
		inv := io.NewBufBinWriter()
		emit.Bytes(inv.BinWriter, sig)
		return transaction.Witness{
			InvocationScript:   slices.Clone(inv.Bytes()),
			VerificationScript: ct.Script,
		}, nil
	}
}

// multisigWitness collects signatures from the available key holders and
// pushes them in the order of the contract's public keys, so the result
// doesn't depend on who signed first.
func (b *Builder) multisigWitness(ctx context.Context, sa *SignerAccount) (transaction.Witness, error) {
	m, _, pubs, ok := smartcontract.ParseMultiSigContract(sa.Account.Contract.Script)
	if !ok {
		return transaction.Witness{}, errors.New("bad multisignature contract script")
	}
	inContract := make(map[string]bool, len(pubs))
	for _, pb := range pubs {
		inContract[string(pb)] = true
	}

	holders := make([]*wallet.Account, 0, len(sa.Participants)+1)
	holders = append(holders, sa.Account)
	holders = append(holders, sa.Participants...)

	sigs := make(map[string][]byte, m)
	for _, acc := range holders {
		pub := acc.PublicKey()
		if pub == nil || !acc.CanSign() {
			continue
		}
		pb := string(pub.Bytes())
		if !inContract[pb] || sigs[pb] != nil {
			continue
		}
		sig, err := acc.SignHashable(ctx, b.actor.magic, b.tx)
		if err != nil {
			return transaction.Witness{}, err
		}
		sigs[pb] = sig
		if len(sigs) == m {
			break
		}
	}
	if len(sigs) < m {
		return transaction.Witness{}, fmt.Errorf("got %d signatures, %d required", len(sigs), m)
	}

	inv := io.NewBufBinWriter()
	for _, pb := range pubs {
		if sig := sigs[string(pb)]; sig != nil {
			emit.Bytes(inv.BinWriter, sig)
		}
	}
	return transaction.Witness{
		InvocationScript:   slices.Clone(inv.Bytes()),
		VerificationScript: sa.Account.Contract.Script,
	}, nil
}

// Build returns the signed transaction. Before the signed state it fails
// with IncompleteTransactionError naming the first missing step.
func (b *Builder) Build() (*transaction.Transaction, error) {
	if b.state < StateSigned {
		return nil, &IncompleteTransactionError{Missing: b.missingStep()}
	}
	return b.tx, nil
}

// Send submits the signed transaction through the actor's client and
// returns the hash the node accepted it under. A transaction can be
// submitted once, a failed submission may be retried.
func (b *Builder) Send(ctx context.Context) (util.Uint256, error) {
	if b.state == StateSubmitted {
		return util.Uint256{}, &ImmutableStateError{Op: "resending", State: b.state}
	}
	if b.state < StateSigned {
		return util.Uint256{}, &IncompleteTransactionError{Missing: b.missingStep()}
	}
	h, err := b.actor.client.SendRawTransaction(ctx, b.tx)
	if err != nil {
		return util.Uint256{}, err
	}
	b.state = StateSubmitted
	return h, nil
}

func (b *Builder) missingStep() string {
	switch b.state {
	case StateEmpty:
		return "script"
	case StateScriptSet:
		return "signers"
	case StateSignersSet:
		return "resolved fees"
	default:
		return "signatures"
	}
}

func (b *Builder) validityDelta() uint32 {
	if b.actor.maxDelta > 0 {
		return b.actor.maxDelta
	}
	return defaultValidityDelta
}

// invalidate drops the cached transaction hash that a previously failed
// signing attempt may have computed.
func (b *Builder) invalidate() {
	b.tx = b.tx.Copy()
}

func (b *Builder) dropFees() {
	b.tx.SystemFee = 0
	b.tx.NetworkFee = 0
	if b.state > StateSignersSet {
		b.state = StateSignersSet
	}
}
