package keys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"slices"

	"github.com/halcyon-chain/halcyon-go/pkg/crypto/hash"
	"github.com/halcyon-chain/halcyon-go/pkg/encoding/address"
	"github.com/halcyon-chain/halcyon-go/pkg/io"
	"github.com/halcyon-chain/halcyon-go/pkg/util"
)

// coordLen is the number of bytes in a serialized X/Y coordinate.
const coordLen = 32

// SignatureLen is the length of a standard signature.
const SignatureLen = 64

// PublicKeys is a list of public keys.
type PublicKeys []*PublicKey

// Len implements sort.Interface.
func (keys PublicKeys) Len() int { return len(keys) }

// Swap implements sort.Interface.
func (keys PublicKeys) Swap(i, j int) { keys[i], keys[j] = keys[j], keys[i] }

// Less implements sort.Interface. The order is ascending over the compressed
// byte representation of the keys, ties are impossible for distinct keys.
func (keys PublicKeys) Less(i, j int) bool {
	return keys[i].Cmp(keys[j]) == -1
}

// Sorted returns a copy of the keys sorted in the ascending order.
func (keys PublicKeys) Sorted() PublicKeys {
	cp := slices.Clone(keys)
	cp.Sort()
	return cp
}

// Sort sorts the keys in place in the ascending order.
func (keys PublicKeys) Sort() {
	slices.SortFunc(keys, (*PublicKey).Cmp)
}

// Contains checks whether the passed param is contained in PublicKeys.
func (keys PublicKeys) Contains(pKey *PublicKey) bool {
	for _, key := range keys {
		if key.Equal(pKey) {
			return true
		}
	}
	return false
}

// Copy returns a shallow copy of the PublicKeys slice.
func (keys PublicKeys) Copy() PublicKeys {
	if keys == nil {
		return nil
	}
	return slices.Clone(keys)
}

// Unique returns a set of public keys.
func (keys PublicKeys) Unique() PublicKeys {
	unique := PublicKeys{}
	for _, publicKey := range keys {
		if !unique.Contains(publicKey) {
			unique = append(unique, publicKey)
		}
	}
	return unique
}

// PublicKey represents a public key and provides a high level API around
// ecdsa.PublicKey.
type PublicKey ecdsa.PublicKey

// Equal returns true if both keys are equal.
func (p *PublicKey) Equal(key *PublicKey) bool {
	return p.X.Cmp(key.X) == 0 && p.Y.Cmp(key.Y) == 0
}

// Cmp compares two keys returning the sort ordering (-1, 0, 1) over their
// compressed representation: X coordinate first, Y parity as a tie breaker.
func (p *PublicKey) Cmp(key *PublicKey) int {
	xCmp := p.X.Cmp(key.X)
	if xCmp != 0 {
		return xCmp
	}
	return int(p.Y.Bit(0)) - int(key.Y.Bit(0))
}

// NewPublicKeyFromString returns a public key created from the given hex
// string.
func NewPublicKeyFromString(s string) (*PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return NewPublicKeyFromBytes(b)
}

// NewPublicKeyFromBytes returns a public key created from the given
// compressed serialized representation.
func NewPublicKeyFromBytes(data []byte) (*PublicKey, error) {
	pubKey := new(PublicKey)
	r := io.NewBinReaderFromBuf(data)
	pubKey.DecodeBinary(r)
	if r.Err != nil {
		return nil, r.Err
	}
	return pubKey, nil
}

// Bytes returns byte array representation of the public key in compressed
// form (33 bytes with 0x02 or 0x03 prefix, except infinity which is a single
// zero byte).
func (p *PublicKey) Bytes() []byte {
	if p.IsInfinity() {
		return []byte{0x00}
	}

	var (
		x       = p.X.Bytes()
		paddedX = append(make([]byte, coordLen-len(x)), x...)
		prefix  = byte(0x03)
	)

	if p.Y.Bit(0) == 0 {
		prefix = byte(0x02)
	}

	return append([]byte{prefix}, paddedX...)
}

// IsInfinity checks if the key is infinite (null, basically).
func (p *PublicKey) IsInfinity() bool {
	return p.X == nil && p.Y == nil
}

// String implements the Stringer interface.
func (p *PublicKey) String() string {
	if p.IsInfinity() {
		return "00"
	}
	bx := hex.EncodeToString(p.X.Bytes())
	by := hex.EncodeToString(p.Y.Bytes())
	return fmt.Sprintf("%s%s", bx, by)
}

// StringCompressed returns the hex string of the compressed form.
func (p *PublicKey) StringCompressed() string {
	return hex.EncodeToString(p.Bytes())
}

// DecodeBinary decodes a PublicKey from the given BinReader.
func (p *PublicKey) DecodeBinary(r *io.BinReader) {
	var prefix = r.ReadB()
	if r.Err != nil {
		return
	}

	switch prefix {
	case 0x00:
		// Infinity
		p.X = nil
		p.Y = nil
		return
	case 0x02, 0x03:
	default:
		r.Err = fmt.Errorf("invalid prefix %d", prefix)
		return
	}

	var data = make([]byte, coordLen+1)
	data[0] = prefix
	r.ReadBytes(data[1:])
	if r.Err != nil {
		return
	}

	c := elliptic.P256()
	x, y := elliptic.UnmarshalCompressed(c, data)
	if x == nil || y == nil {
		r.Err = errors.New("encoded point is not on the P-256 curve")
		return
	}
	p.Curve, p.X, p.Y = c, x, y
}

// EncodeBinary encodes a PublicKey to the given BinWriter.
func (p *PublicKey) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(p.Bytes())
}

// GetVerificationScript returns the NeoVM-style verification script for the
// key: a push of the compressed key followed by the signature check syscall.
func (p *PublicKey) GetVerificationScript() []byte {
	return buildSignatureScript(p)
}

// GetScriptHash returns a Hash160 of the verification script.
func (p *PublicKey) GetScriptHash() util.Uint160 {
	return hash.Hash160(p.GetVerificationScript())
}

// Address returns the base58-encoded address of the verification script hash.
func (p *PublicKey) Address() string {
	return address.Uint160ToString(p.GetScriptHash())
}

// Verify returns true if the signature is valid and corresponds to the hash
// and public key.
func (p *PublicKey) Verify(signature []byte, hash []byte) bool {
	if p.X == nil || p.Y == nil || len(signature) != SignatureLen {
		return false
	}
	rBytes := new(big.Int).SetBytes(signature[0:32])
	sBytes := new(big.Int).SetBytes(signature[32:64])
	pk := ecdsa.PublicKey(*p)
	return ecdsa.Verify(&pk, hash, rBytes, sBytes)
}

// VerifyHashable returns true if the signature is valid and corresponds to
// the hash of the given item signed for the given network.
func (p *PublicKey) VerifyHashable(signature []byte, net uint32, hh hash.Hashable) bool {
	var digest = hash.NetSha256(net, hh)
	return p.Verify(signature, digest.BytesBE())
}

// MarshalJSON implements the json.Marshaler interface.
func (p PublicKey) MarshalJSON() ([]byte, error) {
	return []byte(`"` + hex.EncodeToString(p.Bytes()) + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (p *PublicKey) UnmarshalJSON(data []byte) error {
	var js string
	if err := json.Unmarshal(data, &js); err != nil {
		return err
	}

	gotKey, err := NewPublicKeyFromString(js)
	if err != nil {
		return err
	}
	*p = *gotKey
	return nil
}

func buildSignatureScript(p *PublicKey) []byte {
	// Avoiding an import cycle with vm/emit: the script is 40 bytes with a
	// fixed layout, assemble it directly.
	script := make([]byte, 0, 40)
	script = append(script, 0x0C, 33)   // PUSHDATA1, 33
	script = append(script, p.Bytes()...) // compressed key
	script = append(script, 0x41)       // SYSCALL
	script = append(script, checkSigInteropID...)
	return script
}

// checkSigInteropID is the little-endian ID of the System.Crypto.CheckSig
// syscall.
var checkSigInteropID = interopID("System.Crypto.CheckSig")

func interopID(name string) []byte {
	h := sha256.Sum256([]byte(name))
	return h[:4]
}
