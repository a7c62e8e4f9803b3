package transaction

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strconv"

	"github.com/halcyon-chain/halcyon-go/pkg/crypto/hash"
	"github.com/halcyon-chain/halcyon-go/pkg/encoding/address"
	"github.com/halcyon-chain/halcyon-go/pkg/io"
	"github.com/halcyon-chain/halcyon-go/pkg/util"
)

const (
	// HeaderSize is the size of the fixed part of the transaction: version,
	// nonce, system fee, network fee and the validity height.
	HeaderSize = 1 + 4 + 8 + 8 + 4

	// MaxScriptLength is the maximum allowed length of the entry script.
	MaxScriptLength = math.MaxUint16

	// MaxTransactionSize is the upper limit for a serialized transaction.
	MaxTransactionSize = 102400

	// MaxAttributes is the maximum number of attributes per transaction. The
	// same limit applies to the number of signers.
	MaxAttributes = 16

	// DummyVersion is the only transaction version the chain currently
	// accepts.
	DummyVersion = 0
)

// ErrInvalidWitnessNum returns when the number of witnesses does not match
// the number of signers.
var ErrInvalidWitnessNum = errors.New("number of signers doesn't match witnesses")

// Transaction is a chain state change request: an entry script plus the
// signers authorizing it, fees paying for it and witnesses proving the
// authorization. The hash covers every field except the witnesses, a
// transaction must not be modified once its hash has been computed.
type Transaction struct {
	// Version of the binary transaction format, currently always 0.
	Version uint8

	// Nonce is a random number to avoid hash collision.
	Nonce uint32

	// SystemFee is the fee paid for executing the script, GAS fractions.
	SystemFee int64

	// NetworkFee is the fee paid for transaction size and witness
	// verification, GAS fractions.
	NetworkFee int64

	// ValidUntilBlock is the maximum blockchain height exceeding which the
	// transaction can no longer be included into a block.
	ValidUntilBlock uint32

	// Code to run in the VM for this transaction.
	Script []byte

	// Transaction attributes.
	Attributes []Attribute

	// Signers define the set of accounts that authorize this transaction and
	// the extent of that authorization.
	Signers []Signer

	// Scripts are the witnesses, positionally matched 1:1 with Signers.
	Scripts []Witness

	// size is transaction's serialized size.
	size int

	// Hash of the transaction (double SHA256-free, single round).
	hash util.Uint256

	// Whether hash was calculated.
	hashed bool
}

// New returns a new transaction to execute the given script paying the given
// system fee. The nonce is randomized, other fields are at their zero values
// until filled in by the caller.
func New(script []byte, gas int64) *Transaction {
	return &Transaction{
		Version:    DummyVersion,
		Nonce:      rand.Uint32(),
		Script:     script,
		SystemFee:  gas,
		Attributes: []Attribute{},
		Signers:    []Signer{},
		Scripts:    []Witness{},
	}
}

// Hash returns the hash of the transaction which is based on all of its
// fields except the witness scripts. The value is cached, the transaction
// must not be modified afterwards.
func (t *Transaction) Hash() util.Uint256 {
	if !t.hashed {
		if t.createHash() != nil {
			panic("failed to compute hash!")
		}
	}
	return t.hash
}

// createHash creates the hash of the transaction.
func (t *Transaction) createHash() error {
	buf := io.NewBufBinWriter()
	t.encodeHashableFields(buf.BinWriter)
	if buf.Err != nil {
		return buf.Err
	}
	t.hash = hash.Sha256(buf.Bytes())
	t.hashed = true
	return nil
}

// Sender returns the sender of the transaction which is always on the first
// place in the transaction's signers list.
func (t *Transaction) Sender() util.Uint160 {
	if len(t.Signers) == 0 {
		panic("transaction does not have signers")
	}
	return t.Signers[0].Account
}

// HasSigner returns true if the transaction is signed by the given account.
func (t *Transaction) HasSigner(acc util.Uint160) bool {
	for _, s := range t.Signers {
		if s.Account.Equals(acc) {
			return true
		}
	}
	return false
}

// encodeHashableFields encodes the fields the transaction hash and signature
// cover, i.e. everything except the witnesses.
func (t *Transaction) encodeHashableFields(bw *io.BinWriter) {
	bw.WriteB(t.Version)
	bw.WriteU32LE(t.Nonce)
	bw.WriteU64LE(uint64(t.SystemFee))
	bw.WriteU64LE(uint64(t.NetworkFee))
	bw.WriteU32LE(t.ValidUntilBlock)
	io.WriteArray(bw, t.Signers)
	io.WriteArray(bw, t.Attributes)
	bw.WriteVarBytes(t.Script)
}

// EncodeHashableFields returns the serialized transaction body without the
// witnesses, the part the signatures are computed over.
func (t *Transaction) EncodeHashableFields() ([]byte, error) {
	bw := io.NewBufBinWriter()
	t.encodeHashableFields(bw.BinWriter)
	if bw.Err != nil {
		return nil, bw.Err
	}
	return bw.Bytes(), nil
}

// EncodeBinary implements the Serializable interface.
func (t *Transaction) EncodeBinary(bw *io.BinWriter) {
	t.encodeHashableFields(bw)
	io.WriteArray(bw, t.Scripts)
}

// decodeHashableFields decodes the part of the transaction the hash covers.
func (t *Transaction) decodeHashableFields(br *io.BinReader) {
	t.Version = br.ReadB()
	t.Nonce = br.ReadU32LE()
	t.SystemFee = int64(br.ReadU64LE())
	t.NetworkFee = int64(br.ReadU64LE())
	t.ValidUntilBlock = br.ReadU32LE()
	io.ReadArray(br, &t.Signers, MaxAttributes)
	io.ReadArray(br, &t.Attributes, MaxAttributes)
	t.Script = br.ReadVarBytes(MaxScriptLength)
	if br.Err == nil {
		br.Err = t.isValid()
	}
}

// DecodeBinary implements the Serializable interface.
func (t *Transaction) DecodeBinary(br *io.BinReader) {
	t.decodeHashableFields(br)
	if br.Err != nil {
		return
	}
	io.ReadArray(br, &t.Scripts, MaxAttributes)
	if br.Err == nil && len(t.Signers) != len(t.Scripts) {
		br.Err = fmt.Errorf("%w: %d vs %d", ErrInvalidWitnessNum, len(t.Signers), len(t.Scripts))
	}
}

// isValid checks whether decoded/created transaction has all its fields valid.
func (t *Transaction) isValid() error {
	if t.Version != DummyVersion {
		return fmt.Errorf("only version %d is supported", DummyVersion)
	}
	if t.SystemFee < 0 {
		return errors.New("negative system fee")
	}
	if t.NetworkFee < 0 {
		return errors.New("negative network fee")
	}
	if t.NetworkFee+t.SystemFee < t.SystemFee {
		return errors.New("too big fees: int64 overflow")
	}
	if len(t.Signers) == 0 {
		return errors.New("missing signers")
	}
	for i := range t.Signers {
		for j := i + 1; j < len(t.Signers); j++ {
			if t.Signers[i].Account.Equals(t.Signers[j].Account) {
				return errors.New("transaction signers should be unique")
			}
		}
	}
	if len(t.Script) == 0 {
		return errors.New("no script")
	}
	return nil
}

// Bytes converts the transaction to its full serialized form.
func (t *Transaction) Bytes() ([]byte, error) {
	buf := io.NewBufBinWriter()
	t.EncodeBinary(buf.BinWriter)
	if buf.Err != nil {
		return nil, buf.Err
	}
	return buf.Bytes(), nil
}

// NewTransactionFromBytes decodes a transaction from the given full
// serialized form.
func NewTransactionFromBytes(b []byte) (*Transaction, error) {
	tx := &Transaction{}
	r := io.NewBinReaderFromBuf(b)
	tx.DecodeBinary(r)
	if r.Err != nil {
		return nil, r.Err
	}
	if r.ReadB(); r.Err == nil {
		return nil, errors.New("additional data after the transaction")
	}
	tx.size = len(b)
	return tx, nil
}

// Size returns the size of the serialized transaction.
func (t *Transaction) Size() int {
	if t.size == 0 {
		t.size = io.GetVarSize(t)
	}
	return t.size
}

// FeePerByte returns the network fee divided by the transaction size.
func (t *Transaction) FeePerByte() int64 {
	return t.NetworkFee / int64(t.Size())
}

// transactionJSON is a wrapper for Transaction and
// used for correct marhalling of transaction.Data.
type transactionJSON struct {
	TxID            util.Uint256 `json:"hash"`
	Size            int          `json:"size"`
	Version         uint8        `json:"version"`
	Nonce           uint32       `json:"nonce"`
	Sender          string       `json:"sender"`
	SystemFee       string       `json:"sysfee"`
	NetworkFee      string       `json:"netfee"`
	ValidUntilBlock uint32       `json:"validuntilblock"`
	Attributes      []Attribute  `json:"attributes"`
	Signers         []Signer     `json:"signers"`
	Script          string       `json:"script"`
	Scripts         []Witness    `json:"witnesses"`
}

// MarshalJSON implements the json.Marshaler interface.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	tx := transactionJSON{
		TxID:            t.Hash(),
		Size:            t.Size(),
		Version:         t.Version,
		Nonce:           t.Nonce,
		Sender:          address.Uint160ToString(t.Sender()),
		ValidUntilBlock: t.ValidUntilBlock,
		Attributes:      t.Attributes,
		Signers:         t.Signers,
		Script:          base64.StdEncoding.EncodeToString(t.Script),
		Scripts:         t.Scripts,
		SystemFee:       strconv.FormatInt(t.SystemFee, 10),
		NetworkFee:      strconv.FormatInt(t.NetworkFee, 10),
	}
	return json.Marshal(tx)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	tx := new(transactionJSON)
	if err := json.Unmarshal(data, tx); err != nil {
		return err
	}
	t.Version = tx.Version
	t.Nonce = tx.Nonce
	t.ValidUntilBlock = tx.ValidUntilBlock
	t.Attributes = tx.Attributes
	t.Signers = tx.Signers
	t.Scripts = tx.Scripts
	var err error
	if t.Script, err = base64.StdEncoding.DecodeString(tx.Script); err != nil {
		return fmt.Errorf("invalid script: %w", err)
	}
	if t.SystemFee, err = strconv.ParseInt(tx.SystemFee, 10, 64); err != nil {
		return fmt.Errorf("invalid system fee: %w", err)
	}
	if t.NetworkFee, err = strconv.ParseInt(tx.NetworkFee, 10, 64); err != nil {
		return fmt.Errorf("invalid network fee: %w", err)
	}
	if err := t.isValid(); err != nil {
		return err
	}
	if t.Hash() != tx.TxID {
		return errors.New("txid doesn't match transaction hash")
	}
	t.size = tx.Size
	return nil
}

// Copy creates a deep copy of the Transaction, including all slice fields.
// The cached hash and size are reset to allow modifying the copy.
func (t *Transaction) Copy() *Transaction {
	if t == nil {
		return nil
	}
	cp := *t
	if t.Attributes != nil {
		cp.Attributes = make([]Attribute, len(t.Attributes))
		for i, attr := range t.Attributes {
			cp.Attributes[i] = *attr.Copy()
		}
	}
	if t.Signers != nil {
		cp.Signers = make([]Signer, len(t.Signers))
		for i, signer := range t.Signers {
			cp.Signers[i] = *signer.Copy()
		}
	}
	if t.Scripts != nil {
		cp.Scripts = make([]Witness, len(t.Scripts))
		for i, script := range t.Scripts {
			cp.Scripts[i] = script.Copy()
		}
	}
	cp.Script = append([]byte{}, t.Script...)

	cp.size = 0
	cp.hash = util.Uint256{}
	cp.hashed = false
	return &cp
}
