package transaction

import (
	"encoding/json"
	"testing"

	"github.com/halcyon-chain/halcyon-go/pkg/io"
	"github.com/halcyon-chain/halcyon-go/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTx() *Transaction {
	tx := New([]byte{0x51}, 100)
	tx.NetworkFee = 2000
	tx.ValidUntilBlock = 100500
	tx.Signers = []Signer{{
		Account: util.Uint160{1, 2, 3},
		Scopes:  CalledByEntry,
	}}
	tx.Scripts = []Witness{{
		InvocationScript:   []byte{4, 5, 6},
		VerificationScript: []byte{7, 8, 9},
	}}
	return tx
}

func TestTransactionEncodeDecode(t *testing.T) {
	tx := newTestTx()
	data, err := tx.Bytes()
	require.NoError(t, err)

	decoded, err := NewTransactionFromBytes(data)
	require.NoError(t, err)
	require.Equal(t, tx.Hash(), decoded.Hash())
	require.Equal(t, tx.Version, decoded.Version)
	require.Equal(t, tx.Nonce, decoded.Nonce)
	require.Equal(t, tx.SystemFee, decoded.SystemFee)
	require.Equal(t, tx.NetworkFee, decoded.NetworkFee)
	require.Equal(t, tx.ValidUntilBlock, decoded.ValidUntilBlock)
	require.Equal(t, tx.Script, decoded.Script)
	require.Equal(t, tx.Signers, decoded.Signers)
	require.Equal(t, tx.Scripts, decoded.Scripts)
	require.Equal(t, len(data), decoded.Size())

	// Trailing garbage is rejected.
	_, err = NewTransactionFromBytes(append(data, 0x42))
	require.Error(t, err)
}

func TestTransactionHashExcludesWitnesses(t *testing.T) {
	tx := newTestTx()
	h := tx.Hash()

	tx2 := tx.Copy()
	tx2.Scripts = []Witness{{
		InvocationScript:   []byte{0xAA},
		VerificationScript: []byte{0xBB},
	}}
	require.Equal(t, h, tx2.Hash())

	tx3 := tx.Copy()
	tx3.Nonce++
	require.NotEqual(t, h, tx3.Hash())
}

func TestTransactionHashCaching(t *testing.T) {
	tx := newTestTx()
	h := tx.Hash()
	// The hash is cached, field mutations after hashing are not picked up.
	tx.Nonce++
	require.Equal(t, h, tx.Hash())
}

func TestDecodeInvalid(t *testing.T) {
	mangle := func(f func(tx *Transaction)) []byte {
		tx := newTestTx()
		f(tx)
		buf := io.NewBufBinWriter()
		tx.EncodeBinary(buf.BinWriter)
		require.NoError(t, buf.Err)
		return buf.Bytes()
	}

	// Duplicate signers.
	data := mangle(func(tx *Transaction) {
		tx.Signers = append(tx.Signers, tx.Signers[0])
		tx.Scripts = append(tx.Scripts, tx.Scripts[0])
	})
	_, err := NewTransactionFromBytes(data)
	require.Error(t, err)

	// No signers at all.
	data = mangle(func(tx *Transaction) {
		tx.Signers = nil
		tx.Scripts = nil
	})
	_, err = NewTransactionFromBytes(data)
	require.Error(t, err)

	// Witness count mismatch.
	data = mangle(func(tx *Transaction) {
		tx.Scripts = append(tx.Scripts, Witness{})
	})
	_, err = NewTransactionFromBytes(data)
	require.ErrorIs(t, err, ErrInvalidWitnessNum)

	// Negative system fee round-trips to a negative int64.
	data = mangle(func(tx *Transaction) {
		tx.SystemFee = -1
	})
	_, err = NewTransactionFromBytes(data)
	require.Error(t, err)
}

func TestDecodeEmptyScript(t *testing.T) {
	tx := newTestTx()
	tx.Script = []byte{}
	buf := io.NewBufBinWriter()
	tx.EncodeBinary(buf.BinWriter)
	require.NoError(t, buf.Err)
	_, err := NewTransactionFromBytes(buf.Bytes())
	require.Error(t, err)
}

func TestMarshalUnmarshalJSON(t *testing.T) {
	tx := newTestTx()
	data, err := json.Marshal(tx)
	require.NoError(t, err)

	decoded := new(Transaction)
	require.NoError(t, json.Unmarshal(data, decoded))
	require.Equal(t, tx.Hash(), decoded.Hash())
	require.Equal(t, tx.Script, decoded.Script)
	require.Equal(t, tx.SystemFee, decoded.SystemFee)
	require.Equal(t, tx.NetworkFee, decoded.NetworkFee)
	require.Equal(t, tx.Signers, decoded.Signers)

	// Mangled hash is rejected.
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &m))
	m["hash"] = json.RawMessage(`"0x` + util.Uint256{42}.StringLE() + `"`)
	bad, err := json.Marshal(m)
	require.NoError(t, err)
	require.Error(t, json.Unmarshal(bad, new(Transaction)))
}

func TestSenderAndHasSigner(t *testing.T) {
	tx := newTestTx()
	require.Equal(t, tx.Signers[0].Account, tx.Sender())
	require.True(t, tx.HasSigner(tx.Signers[0].Account))
	require.False(t, tx.HasSigner(util.Uint160{9, 9, 9}))

	require.Panics(t, func() {
		(&Transaction{}).Sender()
	})
}

func TestFeePerByte(t *testing.T) {
	tx := newTestTx()
	require.Equal(t, tx.NetworkFee/int64(tx.Size()), tx.FeePerByte())
}

func TestTransactionCopy(t *testing.T) {
	tx := newTestTx()
	_ = tx.Hash()

	cp := tx.Copy()
	require.Equal(t, tx.Hash(), cp.Hash())
	assert.NotSame(t, &tx.Script[0], &cp.Script[0])

	cp2 := tx.Copy()
	cp2.Nonce++
	require.NotEqual(t, tx.Hash(), cp2.Hash())
}
