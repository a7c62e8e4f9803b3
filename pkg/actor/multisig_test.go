package actor

import (
	"context"
	"testing"

	"github.com/halcyon-chain/halcyon-go/pkg/crypto/keys"
	"github.com/halcyon-chain/halcyon-go/pkg/smartcontract"
	"github.com/halcyon-chain/halcyon-go/pkg/transaction"
	"github.com/halcyon-chain/halcyon-go/pkg/wallet"
	"github.com/stretchr/testify/require"
)

// parseSignatures splits an invocation script of PUSHDATA1 pushes into the
// pushed signatures.
func parseSignatures(t *testing.T, inv []byte) [][]byte {
	var sigs [][]byte
	for len(inv) > 0 {
		require.GreaterOrEqual(t, len(inv), 2)
		require.EqualValues(t, 0x0C, inv[0]) // PUSHDATA1
		n := int(inv[1])
		require.GreaterOrEqual(t, len(inv), 2+n)
		sigs = append(sigs, inv[2:2+n])
		inv = inv[2+n:]
	}
	return sigs
}

func TestMultisigSignatureOrder(t *testing.T) {
	const m = 2

	privs := make([]*keys.PrivateKey, 3)
	accs := make([]*wallet.Account, 3)
	pubs := make(keys.PublicKeys, 3)
	for i := range privs {
		var err error
		privs[i], err = keys.NewPrivateKey()
		require.NoError(t, err)
		accs[i] = wallet.NewAccountFromPrivateKey(privs[i])
		pubs[i] = privs[i].PublicKey()
	}
	sortedPubs := pubs.Copy()
	sortedPubs.Sort()

	// Whatever order the key holders come in, signatures land in the
	// order of the contract's (sorted) public keys.
	for _, perm := range [][3]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}} {
		msig := wallet.NewAccountFromPrivateKey(privs[perm[0]])
		require.NoError(t, msig.ConvertMultisig(m, pubs))
		sa := SignerAccount{
			Signer: transaction.Signer{
				Account: msig.ScriptHash(),
				Scopes:  transaction.CalledByEntry,
			},
			Account:      msig,
			Participants: []*wallet.Account{accs[perm[1]], accs[perm[2]]},
		}

		rpc := &fakeRPC{height: 10, netFee: 100}
		a, err := New(context.Background(), rpc, []SignerAccount{sa})
		require.NoError(t, err)

		tx, err := a.MakeRun(context.Background(), []byte{0x51})
		require.NoError(t, err)
		require.Len(t, tx.Scripts, 1)
		require.Equal(t, msig.Contract.Script, tx.Scripts[0].VerificationScript)

		sigs := parseSignatures(t, tx.Scripts[0].InvocationScript)
		require.Len(t, sigs, m)

		// Each signature must belong to a later sorted key than the
		// previous one.
		last := -1
		for _, sig := range sigs {
			matched := -1
			for i, pub := range sortedPubs {
				if pub.VerifyHashable(sig, testMagic, tx) {
					matched = i
					break
				}
			}
			require.GreaterOrEqual(t, matched, 0, "signature doesn't match any key")
			require.Greater(t, matched, last, "signatures out of key order")
			last = matched
		}
	}
}

func TestMultisigNotEnoughSignatures(t *testing.T) {
	privs := make([]*keys.PrivateKey, 3)
	pubs := make(keys.PublicKeys, 3)
	for i := range privs {
		var err error
		privs[i], err = keys.NewPrivateKey()
		require.NoError(t, err)
		pubs[i] = privs[i].PublicKey()
	}

	// A 3-of-3 account with only one key available.
	msig := wallet.NewAccountFromPrivateKey(privs[0])
	require.NoError(t, msig.ConvertMultisig(3, pubs))
	require.True(t, smartcontract.IsMultiSigContract(msig.Contract.Script))

	rpc := &fakeRPC{height: 10, netFee: 100}
	a, err := New(context.Background(), rpc, []SignerAccount{{
		Signer:  transaction.Signer{Account: msig.ScriptHash(), Scopes: transaction.CalledByEntry},
		Account: msig,
	}})
	require.NoError(t, err)

	_, err = a.MakeRun(context.Background(), []byte{0x51})
	var partial *PartialSignatureError
	require.ErrorAs(t, err, &partial)
	require.Equal(t, msig.ScriptHash(), partial.Account)
}
