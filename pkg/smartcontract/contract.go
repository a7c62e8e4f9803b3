package smartcontract

import (
	"encoding/binary"
	"fmt"

	"github.com/halcyon-chain/halcyon-go/pkg/crypto/keys"
	"github.com/halcyon-chain/halcyon-go/pkg/io"
	"github.com/halcyon-chain/halcyon-go/pkg/vm/emit"
	"github.com/halcyon-chain/halcyon-go/pkg/vm/opcode"
)

// Interop APIs used in standard verification scripts.
const (
	CheckSigInterop      = "System.Crypto.CheckSig"
	CheckMultisigInterop = "System.Crypto.CheckMultisig"
)

// MaxMultiSigKeys is the maximum number of keys allowed in a multisignature
// verification script.
const MaxMultiSigKeys = 1024

// minMultiSigLen is PUSH1 + one minimal key push + PUSH1 + SYSCALL with id.
const minMultiSigLen = 1 + 35 + 1 + 5

// CreateSignatureRedeemScript creates a check signature script runnable by
// the VM.
func CreateSignatureRedeemScript(key *keys.PublicKey) ([]byte, error) {
	return key.GetVerificationScript(), nil
}

// CreateMultiSigRedeemScript creates an "m out of n" type verification script
// where n is the length of publicKeys. The keys are sorted by their compressed
// representation before emission, the script is invariant to the order they
// are passed in.
func CreateMultiSigRedeemScript(m int, publicKeys keys.PublicKeys) ([]byte, error) {
	if m < 1 {
		return nil, fmt.Errorf("param m cannot be smaller than 1, got %d", m)
	}
	if m > len(publicKeys) {
		return nil, fmt.Errorf("length of the signatures (%d) is higher then the number of public keys", m)
	}
	if m > MaxMultiSigKeys {
		return nil, fmt.Errorf("public key count %d exceeds maximum of length %d", m, MaxMultiSigKeys)
	}

	buf := io.NewBufBinWriter()
	emit.Int(buf.BinWriter, int64(m))
	sorted := publicKeys.Copy()
	sorted.Sort()
	for _, pubKey := range sorted {
		emit.Bytes(buf.BinWriter, pubKey.Bytes())
	}
	emit.Int(buf.BinWriter, int64(len(publicKeys)))
	emit.Syscall(buf.BinWriter, CheckMultisigInterop)
	if buf.Err != nil {
		return nil, buf.Err
	}
	return buf.Bytes(), nil
}

// CreateDefaultMultiSigRedeemScript creates an "m out of n" type verification
// script using publicKeys length with m set to majority.
func CreateDefaultMultiSigRedeemScript(publicKeys keys.PublicKeys) ([]byte, error) {
	n := len(publicKeys)
	m := GetDefaultHonestNodeCount(n)
	return CreateMultiSigRedeemScript(m, publicKeys)
}

// CreateMajorityMultiSigRedeemScript creates an "m out of n" type verification
// script using publicKeys length with m set to simple majority.
func CreateMajorityMultiSigRedeemScript(publicKeys keys.PublicKeys) ([]byte, error) {
	n := len(publicKeys)
	m := GetMajorityHonestNodeCount(n)
	return CreateMultiSigRedeemScript(m, publicKeys)
}

// GetDefaultHonestNodeCount returns the minimum number of honest nodes
// required for a network of size n to function, the BFT threshold.
func GetDefaultHonestNodeCount(n int) int {
	return n - (n-1)/3
}

// GetMajorityHonestNodeCount returns the minimum number of honest nodes
// required for simple majority.
func GetMajorityHonestNodeCount(n int) int {
	return n - (n-1)/2
}

// IsSignatureContract checks whether the passed script is a signature check
// contract.
func IsSignatureContract(script []byte) bool {
	_, ok := ParseSignatureContract(script)
	return ok
}

// ParseSignatureContract parses a signature check contract and returns the
// public key bytes it checks against.
func ParseSignatureContract(script []byte) ([]byte, bool) {
	if len(script) != 40 {
		return nil, false
	}
	if script[0] != byte(opcode.PUSHDATA1) || script[1] != 33 ||
		script[35] != byte(opcode.SYSCALL) ||
		binary.LittleEndian.Uint32(script[36:]) != emit.InteropNameToID(CheckSigInterop) {
		return nil, false
	}
	return script[2:35], true
}

// IsMultiSigContract checks whether the passed script is a multi-signature
// check contract.
func IsMultiSigContract(script []byte) bool {
	_, _, _, ok := ParseMultiSigContract(script)
	return ok
}

// ParseMultiSigContract parses a multi-signature check contract and returns
// the number of signatures required and the public keys checked against. The
// keys are returned in the order they appear in the script (ascending).
func ParseMultiSigContract(script []byte) (int, int, [][]byte, bool) {
	if len(script) < minMultiSigLen {
		return 0, 0, nil, false
	}
	var pos int
	m, ok := parseScriptInt(script, &pos)
	if !ok || m < 1 || m > MaxMultiSigKeys {
		return 0, 0, nil, false
	}
	var pubs [][]byte
	for pos+35 <= len(script) && script[pos] == byte(opcode.PUSHDATA1) && script[pos+1] == 33 {
		pubs = append(pubs, script[pos+2:pos+35])
		pos += 35
	}
	n, ok := parseScriptInt(script, &pos)
	if !ok || n != len(pubs) || m > n || n > MaxMultiSigKeys {
		return 0, 0, nil, false
	}
	if len(script)-pos != 5 || script[pos] != byte(opcode.SYSCALL) ||
		binary.LittleEndian.Uint32(script[pos+1:]) != emit.InteropNameToID(CheckMultisigInterop) {
		return 0, 0, nil, false
	}
	return m, n, pubs, true
}

// parseScriptInt reads a small non-negative integer push (PUSH1-16, PUSHINT8
// or PUSHINT16) at *pos advancing it past the instruction.
func parseScriptInt(script []byte, pos *int) (int, bool) {
	if *pos >= len(script) {
		return 0, false
	}
	op := opcode.Opcode(script[*pos])
	switch {
	case op >= opcode.PUSH1 && op <= opcode.PUSH16:
		*pos++
		return int(op-opcode.PUSH0), true
	case op == opcode.PUSHINT8:
		if *pos+2 > len(script) {
			return 0, false
		}
		v := int(int8(script[*pos+1]))
		*pos += 2
		return v, true
	case op == opcode.PUSHINT16:
		if *pos+3 > len(script) {
			return 0, false
		}
		v := int(int16(binary.LittleEndian.Uint16(script[*pos+1:])))
		*pos += 3
		return v, true
	}
	return 0, false
}
