// Package address implements conversion between script hashes and the
// base58check address form shown to users.
package address

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/halcyon-chain/halcyon-go/pkg/crypto/hash"
	"github.com/halcyon-chain/halcyon-go/pkg/util"
	"github.com/mr-tron/base58"
)

// Prefix is the byte used to prepend to addresses when encoding them, it can
// be changed and defines the network the address belongs to (the default
// one here is the mainnet prefix).
var Prefix = byte(0x35)

// Uint160ToString returns the "user-facing" address string from the given
// script hash.
func Uint160ToString(u util.Uint160) string {
	// Dont forget to prepend the address version (0x35 / 53).
	b := append([]byte{Prefix}, u.BytesBE()...)
	return base58CheckEncode(b)
}

// StringToUint160 attempts to decode the given address string into a script
// hash.
func StringToUint160(s string) (u util.Uint160, err error) {
	b, err := base58CheckDecode(s)
	if err != nil {
		return u, err
	}
	if b[0] != Prefix {
		return u, errors.New("wrong address prefix")
	}
	return util.Uint160DecodeBytesBE(b[1:21])
}

// base58CheckEncode encodes b into a base58-encoded string with the 4-byte
// double-sha256 checksum appended.
func base58CheckEncode(b []byte) string {
	b = append(b, hash.Checksum(b)...)
	return base58.Encode(b)
}

// base58CheckDecode decodes the given string and checks the embedded
// checksum.
func base58CheckDecode(s string) ([]byte, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, err
	}

	if len(b) < 25 {
		return nil, fmt.Errorf("invalid base58 length: %d", len(b))
	}

	data := b[:len(b)-4]
	if !bytes.Equal(hash.Checksum(data), b[len(b)-4:]) {
		return nil, errors.New("address checksum mismatch")
	}
	return data, nil
}
