package fee

import (
	"github.com/halcyon-chain/halcyon-go/pkg/vm/opcode"
)

// Opcode returns the deployment coefficients of the specified opcodes
// multiplied by the base execution price.
func Opcode(base int64, opcodes ...opcode.Opcode) int64 {
	var result int64
	for _, op := range opcodes {
		result += int64(coefficients[op])
	}
	return result * base
}

var coefficients = [256]uint16{
	opcode.PUSHINT8:   1 << 0,
	opcode.PUSHINT16:  1 << 0,
	opcode.PUSHINT32:  1 << 0,
	opcode.PUSHINT64:  1 << 0,
	opcode.PUSHINT128: 1 << 2,
	opcode.PUSHINT256: 1 << 2,
	opcode.PUSHT:      1 << 0,
	opcode.PUSHF:      1 << 0,
	opcode.PUSHA:      1 << 2,
	opcode.PUSHNULL:   1 << 0,
	opcode.PUSHDATA1:  1 << 3,
	opcode.PUSHDATA2:  1 << 9,
	opcode.PUSHDATA4:  1 << 12,
	opcode.PUSHM1:     1 << 0,
	opcode.PUSH0:      1 << 0,
	opcode.PUSH1:      1 << 0,
	opcode.PUSH2:      1 << 0,
	opcode.PUSH3:      1 << 0,
	opcode.PUSH4:      1 << 0,
	opcode.PUSH5:      1 << 0,
	opcode.PUSH6:      1 << 0,
	opcode.PUSH7:      1 << 0,
	opcode.PUSH8:      1 << 0,
	opcode.PUSH9:      1 << 0,
	opcode.PUSH10:     1 << 0,
	opcode.PUSH11:     1 << 0,
	opcode.PUSH12:     1 << 0,
	opcode.PUSH13:     1 << 0,
	opcode.PUSH14:     1 << 0,
	opcode.PUSH15:     1 << 0,
	opcode.PUSH16:     1 << 0,
	opcode.NOP:        1 << 0,
	opcode.JMP:        1 << 1,
	opcode.JMPL:       1 << 1,
	opcode.CALL:       1 << 9,
	opcode.CALLL:      1 << 9,
	opcode.ABORT:      0,
	opcode.ASSERT:     1 << 0,
	opcode.THROW:      1 << 9,
	opcode.RET:        0,
	opcode.SYSCALL:    0,
	opcode.DEPTH:      1 << 1,
	opcode.DROP:       1 << 1,
	opcode.DUP:        1 << 1,
	opcode.SWAP:       1 << 1,
	opcode.PACKMAP:    1 << 11,
	opcode.PACKSTRUCT: 1 << 11,
	opcode.PACK:       1 << 11,
	opcode.UNPACK:     1 << 11,
	opcode.NEWARRAY0:  1 << 4,
	opcode.NEWMAP:     1 << 3,
	opcode.CONVERT:    1 << 13,
}
