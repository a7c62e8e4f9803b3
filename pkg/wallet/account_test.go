package wallet

import (
	"context"
	"testing"
	"time"

	"github.com/halcyon-chain/halcyon-go/pkg/crypto/hash"
	"github.com/halcyon-chain/halcyon-go/pkg/crypto/keys"
	"github.com/halcyon-chain/halcyon-go/pkg/encoding/address"
	"github.com/halcyon-chain/halcyon-go/pkg/smartcontract"
	"github.com/halcyon-chain/halcyon-go/pkg/transaction"
	"github.com/stretchr/testify/require"
)

func TestNewAccount(t *testing.T) {
	acc, err := NewAccount()
	require.NoError(t, err)
	require.True(t, acc.CanSign())
	require.NotNil(t, acc.PrivateKey())
	require.Equal(t, acc.PublicKey().Address(), acc.Address)
	require.Equal(t, acc.PublicKey().GetScriptHash(), acc.ScriptHash())
	require.True(t, smartcontract.IsSignatureContract(acc.Contract.Script))
}

func TestNewAccountFromWIF(t *testing.T) {
	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)

	acc, err := NewAccountFromWIF(priv.WIF())
	require.NoError(t, err)
	require.Equal(t, priv.PublicKey().Address(), acc.Address)

	_, err = NewAccountFromWIF("garbage")
	require.Error(t, err)
}

func TestAccountSignHashable(t *testing.T) {
	const netMagic = 42

	acc, err := NewAccount()
	require.NoError(t, err)
	tx := transaction.New([]byte{0x51}, 0)
	tx.Signers = []transaction.Signer{{Account: acc.ScriptHash()}}

	sig, err := acc.SignHashable(context.Background(), netMagic, tx)
	require.NoError(t, err)
	require.True(t, acc.PublicKey().VerifyHashable(sig, netMagic, tx))
	require.False(t, acc.PublicKey().VerifyHashable(sig, netMagic+1, tx))
}

func TestConvertMultisig(t *testing.T) {
	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	acc := NewAccountFromPrivateKey(priv)

	pubs := keys.PublicKeys{priv.PublicKey()}
	for i := 0; i < 2; i++ {
		p, err := keys.NewPrivateKey()
		require.NoError(t, err)
		pubs = append(pubs, p.PublicKey())
	}

	require.NoError(t, acc.ConvertMultisig(2, pubs))
	m, n, _, ok := smartcontract.ParseMultiSigContract(acc.Contract.Script)
	require.True(t, ok)
	require.Equal(t, 2, m)
	require.Equal(t, 3, n)
	require.Len(t, acc.Contract.Parameters, 2)
	require.Equal(t, address.Uint160ToString(hash.Hash160(acc.Contract.Script)), acc.Address)

	// Foreign keys only: the account's own key must be present.
	foreign := keys.PublicKeys{pubs[1], pubs[2]}
	require.Error(t, acc.ConvertMultisig(1, foreign))
}

func TestContractAccount(t *testing.T) {
	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	h := priv.GetScriptHash()

	acc := NewContractAccount(h, []ContractParam{{Name: "valid", Type: smartcontract.BoolType}},
		func(tx *transaction.Transaction) ([]byte, error) {
			return []byte{0x11}, nil // push true
		})
	require.Equal(t, h, acc.ScriptHash())
	require.True(t, acc.CanSign())
	require.Nil(t, acc.PrivateKey())
	require.Nil(t, acc.PublicKey())

	_, err = acc.SignHashable(context.Background(), 0, transaction.New([]byte{0x51}, 0))
	require.ErrorIs(t, err, ErrNoKey)
}

// slowDevice is a Device stub that blocks in Sign until its context is
// canceled or the configured delay elapses.
type slowDevice struct {
	priv  *keys.PrivateKey
	delay time.Duration
}

func (d *slowDevice) Sign(ctx context.Context, digest []byte) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(d.delay):
	}
	return d.priv.Sign(digest), nil
}

func (d *slowDevice) PublicKey(ctx context.Context, _ uint32) (*keys.PublicKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.priv.PublicKey(), nil
}

func TestDeviceAccount(t *testing.T) {
	const netMagic = 42

	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	dev := &slowDevice{priv: priv}

	acc, err := NewAccountFromDevice(context.Background(), dev, 0)
	require.NoError(t, err)
	require.True(t, acc.CanSign())
	require.Nil(t, acc.PrivateKey())
	require.Equal(t, priv.PublicKey().Address(), acc.Address)

	tx := transaction.New([]byte{0x51}, 0)
	tx.Signers = []transaction.Signer{{Account: acc.ScriptHash()}}
	sig, err := acc.SignHashable(context.Background(), netMagic, tx)
	require.NoError(t, err)
	require.True(t, acc.PublicKey().VerifyHashable(sig, netMagic, tx))
}

func TestDeviceAccountCancellation(t *testing.T) {
	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	dev := &slowDevice{priv: priv, delay: time.Minute}

	acc, err := NewAccountFromDevice(context.Background(), dev, 0)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = acc.SignHashable(ctx, 0, transaction.New([]byte{0x51}, 0))
	require.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = NewAccountFromDevice(ctx, dev, 0)
	require.Error(t, err)
}
