// Package fee prices witness verification. The network fee of a transaction
// has to cover its size and the cost of executing every verification script,
// this package computes the verification part without running a VM.
package fee

import (
	"github.com/halcyon-chain/halcyon-go/pkg/io"
	"github.com/halcyon-chain/halcyon-go/pkg/smartcontract"
	"github.com/halcyon-chain/halcyon-go/pkg/vm/emit"
	"github.com/halcyon-chain/halcyon-go/pkg/vm/opcode"
)

// ECDSAVerifyPrice is a gas price of a single signature verification.
const ECDSAVerifyPrice = 1 << 15

// Default network pricing, used when the node can't be asked.
const (
	// DefaultBaseExecFee is the default execution fee factor.
	DefaultBaseExecFee = 30
	// DefaultFeePerByte is the default price of a transaction byte.
	DefaultFeePerByte = 1000
)

// Calculate returns the network fee for the given verification script along
// with the full size this witness adds to the transaction (invocation script
// estimated by the signature count, verification script as is). Unknown
// (contract-based) verification scripts yield zeroes, their cost can only be
// found out by simulation.
func Calculate(base int64, script []byte) (int64, int) {
	var (
		netFee int64
		size   int
	)
	if smartcontract.IsSignatureContract(script) {
		size += 67 + io.GetVarSize(script)
		netFee += Opcode(base, opcode.PUSHDATA1, opcode.PUSHDATA1) + base*ECDSAVerifyPrice
	} else if m, n, _, ok := smartcontract.ParseMultiSigContract(script); ok {
		sizeInv := 66 * m
		size += io.GetVarIntSize(sizeInv) + sizeInv + io.GetVarSize(script)
		netFee += calculateMultisig(base, m) + calculateMultisig(base, n)
		netFee += Opcode(base, opcode.PUSHNULL) + base*ECDSAVerifyPrice*int64(n)
	}
	return netFee, size
}

func calculateMultisig(base int64, n int) int64 {
	result := Opcode(base, opcode.PUSHDATA1) * int64(n)
	bw := io.NewBufBinWriter()
	emit.Int(bw.BinWriter, int64(n))
	// Coefficients of small PUSH* opcodes are equal, so the first byte of
	// the emitted int is enough.
	result += Opcode(base, opcode.Opcode(bw.Bytes()[0]))
	return result
}
