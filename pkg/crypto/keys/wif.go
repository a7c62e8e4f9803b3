package keys

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/halcyon-chain/halcyon-go/pkg/crypto/hash"
	"github.com/mr-tron/base58"
)

const (
	// WIFVersion is the version used to decode and encode WIF keys.
	WIFVersion = 0x80
)

// WIF represents a wallet import format.
type WIF struct {
	// Version of the wallet import format. Default to 0x80.
	Version byte

	// Compressed indicates if the key is compressed.
	Compressed bool

	// PrivateKey is the main field of the WIF.
	PrivateKey *PrivateKey

	// S is the string representation of the WIF.
	S string
}

// WIFEncode encodes the given private key into a WIF string.
func WIFEncode(key []byte, version byte, compressed bool) (s string, err error) {
	if version == 0x00 {
		version = WIFVersion
	}
	if len(key) != 32 {
		return s, fmt.Errorf("invalid private key length: %d", len(key))
	}

	buf := new(bytes.Buffer)
	buf.WriteByte(version)
	buf.Write(key)
	if compressed {
		buf.WriteByte(0x01)
	}
	b := buf.Bytes()
	b = append(b, hash.Checksum(b)...)

	return base58.Encode(b), nil
}

// WIFDecode decodes the given WIF string into a WIF struct.
func WIFDecode(wif string, version byte) (*WIF, error) {
	b, err := base58.Decode(wif)
	if err != nil {
		return nil, err
	}
	if len(b) < 37 {
		return nil, fmt.Errorf("invalid WIF length: %d", len(b))
	}

	data := b[:len(b)-4]
	if !bytes.Equal(hash.Checksum(data), b[len(b)-4:]) {
		return nil, errors.New("wif checksum mismatch")
	}

	if version == 0x00 {
		version = WIFVersion
	}

	w := &WIF{
		Version: version,
		S:       wif,
	}

	if b[0] != version {
		return nil, fmt.Errorf("invalid WIF version got %d, expected %d", b[0], version)
	}

	w.PrivateKey, err = NewPrivateKeyFromBytes(b[1:33])
	if err != nil {
		return nil, err
	}

	// This is an uncompressed WIF
	if len(data) == 33 {
		w.Compressed = false
		return w, nil
	}

	if len(data) != 34 || data[33] != 0x01 {
		return nil, fmt.Errorf("invalid WIF")
	}
	w.Compressed = true
	return w, nil
}

// NewPrivateKeyFromWIF returns a PrivateKey from the given WIF
// (wallet import format).
func NewPrivateKeyFromWIF(wif string) (*PrivateKey, error) {
	w, err := WIFDecode(wif, WIFVersion)
	if err != nil {
		return nil, err
	}
	return w.PrivateKey, nil
}

// WIF returns the (wallet import format) of the PrivateKey.
func (p *PrivateKey) WIF() string {
	w, err := WIFEncode(p.Bytes(), WIFVersion, true)
	// The only way WIFEncode() can fail is if we're to give it a key of
	// wrong size, but we have a proper key here.
	if err != nil {
		panic(err)
	}
	return w
}
