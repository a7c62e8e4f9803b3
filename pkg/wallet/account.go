// Package wallet provides the account layer consumed by the transaction
// builder: key-backed, device-backed, multisignature and deployed-contract
// accounts. Key material is supplied by the caller, nothing is persisted.
package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/halcyon-chain/halcyon-go/pkg/crypto/hash"
	"github.com/halcyon-chain/halcyon-go/pkg/crypto/keys"
	"github.com/halcyon-chain/halcyon-go/pkg/encoding/address"
	"github.com/halcyon-chain/halcyon-go/pkg/smartcontract"
	"github.com/halcyon-chain/halcyon-go/pkg/transaction"
	"github.com/halcyon-chain/halcyon-go/pkg/util"
)

// ErrNoKey is returned when an account without signing capability is asked
// for a signature.
var ErrNoKey = errors.New("account has no signing capability")

// Account represents a chain account. It holds at most one signing
// capability (a private key or an external device) along with the
// verification contract bound to it.
type Account struct {
	privateKey *keys.PrivateKey
	publicKey  *keys.PublicKey
	device     Device

	// Address is the base58check-encoded form of the script hash.
	Address string

	// Label is a label the user had made for this account.
	Label string

	// Contract describes the verification contract of the account. For
	// deployed-contract accounts Script is empty and the script hash
	// refers to a contract on the chain.
	Contract *Contract
}

// Contract represents the verification part of an account.
type Contract struct {
	// Script is the verification script pushed with every witness. Empty
	// for deployed contracts.
	Script []byte

	// Parameters describe what the contract's verify method expects.
	Parameters []ContractParam

	// Deployed is true when verification is done by a contract on the
	// chain rather than by the script above.
	Deployed bool

	// InvocationBuilder builds the invocation script for deployed
	// verification contracts. It receives the partially formed transaction
	// and returns the parameters verify expects, packed as a script.
	InvocationBuilder func(tx *transaction.Transaction) ([]byte, error)
}

// ContractParam is a descriptor of a single verify parameter.
type ContractParam struct {
	Name string                  `json:"name"`
	Type smartcontract.ParamType `json:"type"`
}

// ScriptHash returns the hash of the contract's script, or the zero hash
// for a contract with no script.
func (c Contract) ScriptHash() util.Uint160 {
	return hash.Hash160(c.Script)
}

// NewAccount creates an Account with a newly generated private key.
func NewAccount() (*Account, error) {
	priv, err := keys.NewPrivateKey()
	if err != nil {
		return nil, err
	}
	return NewAccountFromPrivateKey(priv), nil
}

// NewAccountFromPrivateKey creates an Account from the given private key.
func NewAccountFromPrivateKey(priv *keys.PrivateKey) *Account {
	pub := priv.PublicKey()
	return &Account{
		privateKey: priv,
		publicKey:  pub,
		Address:    pub.Address(),
		Contract: &Contract{
			Script:     pub.GetVerificationScript(),
			Parameters: []ContractParam{{Name: "signature", Type: smartcontract.SignatureType}},
		},
	}
}

// NewAccountFromWIF creates an Account from the given WIF-encoded key.
func NewAccountFromWIF(wif string) (*Account, error) {
	priv, err := keys.NewPrivateKeyFromWIF(wif)
	if err != nil {
		return nil, err
	}
	return NewAccountFromPrivateKey(priv), nil
}

// NewAccountFromDevice creates an Account whose signatures are produced by
// an external device. The public key is fetched from the device at the
// given derivation index, which may take a while and may require user
// interaction.
func NewAccountFromDevice(ctx context.Context, dev Device, index uint32) (*Account, error) {
	pub, err := dev.PublicKey(ctx, index)
	if err != nil {
		return nil, fmt.Errorf("fetching public key from device: %w", err)
	}
	return &Account{
		publicKey: pub,
		device:    dev,
		Address:   pub.Address(),
		Contract: &Contract{
			Script:     pub.GetVerificationScript(),
			Parameters: []ContractParam{{Name: "signature", Type: smartcontract.SignatureType}},
		},
	}, nil
}

// NewContractAccount creates a watch-only Account for a verification
// contract deployed at the given hash. invocationBuilder packs the
// parameters the contract's verify method expects.
func NewContractAccount(h util.Uint160, params []ContractParam, invocationBuilder func(tx *transaction.Transaction) ([]byte, error)) *Account {
	return &Account{
		Address: address.Uint160ToString(h),
		Contract: &Contract{
			Parameters:        params,
			Deployed:          true,
			InvocationBuilder: invocationBuilder,
		},
	}
}

// ConvertMultisig sets a's contract to an m-of-n multisignature contract
// over the given keys. The account's own public key must be one of them.
func (a *Account) ConvertMultisig(m int, pubs keys.PublicKeys) error {
	if a.publicKey == nil {
		return errors.New("account has no public key")
	}
	if !pubs.Contains(a.publicKey) {
		return errors.New("own public key is not present among the multisig keys")
	}
	script, err := smartcontract.CreateMultiSigRedeemScript(m, pubs)
	if err != nil {
		return err
	}
	params := make([]ContractParam, m)
	for i := range params {
		params[i] = ContractParam{
			Name: fmt.Sprintf("parameter%d", i),
			Type: smartcontract.SignatureType,
		}
	}
	a.Address = address.Uint160ToString(hash.Hash160(script))
	a.Contract = &Contract{
		Script:     script,
		Parameters: params,
	}
	return nil
}

// ScriptHash returns the account's script hash.
func (a *Account) ScriptHash() util.Uint160 {
	if a.Contract != nil && len(a.Contract.Script) > 0 {
		return a.Contract.ScriptHash()
	}
	h, err := address.StringToUint160(a.Address)
	if err != nil {
		return util.Uint160{}
	}
	return h
}

// PrivateKey returns the account's private key or nil for accounts not
// backed by one.
func (a *Account) PrivateKey() *keys.PrivateKey {
	return a.privateKey
}

// PublicKey returns the account's public key or nil for deployed-contract
// accounts.
func (a *Account) PublicKey() *keys.PublicKey {
	return a.publicKey
}

// CanSign returns true when the account can produce signatures or
// invocation scripts, that is it has a key, a device or an invocation
// builder.
func (a *Account) CanSign() bool {
	return a.privateKey != nil || a.device != nil ||
		(a.Contract != nil && a.Contract.InvocationBuilder != nil)
}

// SignHashable produces a signature over the network-bound digest of the
// given item. Device-backed accounts forward the digest to the device,
// honoring ctx cancellation.
func (a *Account) SignHashable(ctx context.Context, net uint32, hh hash.Hashable) ([]byte, error) {
	switch {
	case a.privateKey != nil:
		return a.privateKey.SignHashable(net, hh), nil
	case a.device != nil:
		digest := hash.NetSha256(net, hh)
		return a.device.Sign(ctx, digest.BytesBE())
	default:
		return nil, ErrNoKey
	}
}
