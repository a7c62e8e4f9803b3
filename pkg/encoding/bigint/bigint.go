// Package bigint implements the little-endian two's-complement representation
// of arbitrary precision integers used by the VM wire format.
package bigint

import (
	"math/big"
)

// MaxBytesLen is the maximum length of a serialized integer suitable for
// the VM (256-bit signed integer).
const MaxBytesLen = 32

// FromBytesUnsigned converts data in little-endian format to an unsigned
// integer.
func FromBytesUnsigned(data []byte) *big.Int {
	bs := reverse(data)
	return new(big.Int).SetBytes(bs)
}

// FromBytes converts data in little-endian two's-complement format to an
// integer. The representation needs not be minimal, trailing padding
// bytes (0x00 for non-negative, 0xFF for negative values) are accepted.
func FromBytes(data []byte) *big.Int {
	if len(data) == 0 {
		if data == nil {
			panic("nil slice provided to `FromBytes`")
		}
		return big.NewInt(0)
	}

	isNeg := data[len(data)-1]&0x80 != 0

	n := new(big.Int).SetBytes(reverse(data))
	if isNeg {
		// Subtract 2^(8*len) to interpret as two's complement.
		mod := new(big.Int).Lsh(big.NewInt(1), uint(len(data)*8))
		n.Sub(n, mod)
	}
	return n
}

// ToBytes converts an integer to a minimal little-endian two's-complement
// representation. Zero is represented by an empty slice, positive values
// carry no superfluous trailing zero bytes (only the single byte needed to
// keep the sign bit clear) and negative values no superfluous 0xFF bytes.
func ToBytes(n *big.Int) []byte {
	return ToPreallocatedBytes(n, []byte{})
}

// ToPreallocatedBytes converts an integer to a slice in little-endian
// two's-complement format using the given byte buffer.
func ToPreallocatedBytes(n *big.Int, data []byte) []byte {
	sign := n.Sign()
	if sign == 0 {
		return data[:0]
	}

	if sign < 0 {
		abs := new(big.Int).Neg(n)
		// The minimal length l satisfies -2^(8l-1) <= n.
		l := (new(big.Int).Sub(abs, big.NewInt(1)).BitLen())/8 + 1
		comp := new(big.Int).Lsh(big.NewInt(1), uint(l*8))
		comp.Sub(comp, abs)
		// comp >= 2^(8l-1), so its representation is always exactly l bytes.
		return append(data[:0], reverse(comp.Bytes())...)
	}

	bs := n.Bytes()
	data = append(data[:0], reverse(bs)...)
	if data[len(data)-1]&0x80 != 0 {
		data = append(data, 0)
	}
	return data
}

func reverse(b []byte) []byte {
	r := make([]byte, len(b))
	for i := range b {
		r[i] = b[len(b)-1-i]
	}
	return r
}
