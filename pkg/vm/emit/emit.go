// Package emit provides functions that emit VM instructions into a binary
// buffer. It's the lowest layer of the script assembly stack, the
// smartcontract package Builder composes these primitives.
package emit

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"math/bits"

	"github.com/halcyon-chain/halcyon-go/pkg/encoding/bigint"
	"github.com/halcyon-chain/halcyon-go/pkg/io"
	"github.com/halcyon-chain/halcyon-go/pkg/smartcontract/callflag"
	"github.com/halcyon-chain/halcyon-go/pkg/util"
	"github.com/halcyon-chain/halcyon-go/pkg/vm/opcode"
)

// ContractCallInterop is the syscall that performs a contract call.
const ContractCallInterop = "System.Contract.Call"

// ErrTooBigInteger is returned when an integer exceeds the maximum encodable
// width (bigint.MaxBytesLen bytes).
var ErrTooBigInteger = fmt.Errorf("integer does not fit into %d bytes", bigint.MaxBytesLen)

// Instruction emits a VM Instruction with data to the given buffer.
func Instruction(w *io.BinWriter, op opcode.Opcode, b []byte) {
	w.WriteB(byte(op))
	w.WriteBytes(b)
}

// Opcodes emits a single VM Instruction without arguments to the given buffer.
func Opcodes(w *io.BinWriter, ops ...opcode.Opcode) {
	for _, op := range ops {
		w.WriteB(byte(op))
	}
}

// Bool emits a bool type to the given buffer.
func Bool(w *io.BinWriter, ok bool) {
	if ok {
		Opcodes(w, opcode.PUSHT)
		return
	}
	Opcodes(w, opcode.PUSHF)
}

func padRight(s int, buf []byte) []byte {
	l := len(buf)
	buf = buf[:s]
	if buf[l-1]&0x80 != 0 {
		for i := l; i < s; i++ {
			buf[i] = 0xFF
		}
	}
	return buf
}

// Int emits an int type to the given buffer.
func Int(w *io.BinWriter, i int64) {
	if smallInt(w, i) {
		return
	}
	bigInt(w, big.NewInt(i))
}

// BigInt emits a big-integer type to the given buffer. Values exceeding
// 256 bits fail with ErrTooBigInteger.
func BigInt(w *io.BinWriter, n *big.Int) {
	if n.IsInt64() && smallInt(w, n.Int64()) {
		return
	}
	bigInt(w, n)
}

// smallInt emits an integer that has a dedicated single-byte opcode and
// returns true, or emits nothing and returns false.
func smallInt(w *io.BinWriter, i int64) bool {
	switch {
	case i == -1:
		Opcodes(w, opcode.PUSHM1)
	case i >= 0 && i < 17:
		Opcodes(w, opcode.PUSH0+opcode.Opcode(i))
	default:
		return false
	}
	return true
}

func bigInt(w *io.BinWriter, n *big.Int) {
	if w.Err != nil {
		return
	}
	buf := bigint.ToPreallocatedBytes(n, make([]byte, 0, bigint.MaxBytesLen+1))
	if len(buf) > bigint.MaxBytesLen {
		w.Err = ErrTooBigInteger
		return
	}
	// len(buf) is in [1, 32] here: zero and all the small values never
	// reach this point.
	padSize := byte(8 - bits.LeadingZeros8(byte(len(buf)-1)))
	Opcodes(w, opcode.PUSHINT8+opcode.Opcode(padSize))
	w.WriteBytes(padRight(1<<padSize, buf))
}

// Array emits an array of elements to the given buffer. The elements are
// pushed in reverse order and then packed, so the resulting VM array keeps
// the original order.
func Array(w *io.BinWriter, es ...any) {
	if len(es) == 0 {
		Opcodes(w, opcode.NEWARRAY0)
		return
	}
	for i := len(es) - 1; i >= 0; i-- {
		switch e := es[i].(type) {
		case []any:
			Array(w, e...)
		case int64:
			Int(w, e)
		case uint32:
			Int(w, int64(e))
		case int:
			Int(w, int64(e))
		case *big.Int:
			BigInt(w, e)
		case string:
			String(w, e)
		case util.Uint160:
			Bytes(w, e.BytesBE())
		case util.Uint256:
			Bytes(w, e.BytesBE())
		case []byte:
			Bytes(w, e)
		case bool:
			Bool(w, e)
		default:
			if es[i] != nil {
				w.Err = fmt.Errorf("unsupported type: %T", e)
				return
			}
			Opcodes(w, opcode.PUSHNULL)
		}
	}
	Int(w, int64(len(es)))
	Opcodes(w, opcode.PACK)
}

// String emits a string to the given buffer.
func String(w *io.BinWriter, s string) {
	Bytes(w, []byte(s))
}

// Bytes emits a byte array to the given buffer using the minimal PUSHDATA
// length class for the given length.
func Bytes(w *io.BinWriter, b []byte) {
	var n = len(b)

	switch {
	case n < 0x100:
		Instruction(w, opcode.PUSHDATA1, []byte{byte(n)})
	case n < 0x10000:
		buf := make([]byte, 2)
		binary.LittleEndian.PutUint16(buf, uint16(n))
		Instruction(w, opcode.PUSHDATA2, buf)
	default:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(n))
		Instruction(w, opcode.PUSHDATA4, buf)
	}
	w.WriteBytes(b)
}

// InteropNameToID returns an identifier of the method based on its name.
func InteropNameToID(name string) uint32 {
	h := sha256.Sum256([]byte(name))
	return binary.LittleEndian.Uint32(h[:4])
}

// Syscall emits the syscall API to the given buffer.
// The syscall API string cannot be empty.
func Syscall(w *io.BinWriter, api string) {
	if w.Err != nil {
		return
	} else if len(api) == 0 {
		w.Err = errors.New("syscall api cannot be of length 0")
		return
	}
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, InteropNameToID(api))
	Instruction(w, opcode.SYSCALL, buf)
}

// AppCall emits an invocation of the method of the contract with the given
// parameters and call flags.
func AppCall(w *io.BinWriter, scriptHash util.Uint160, operation string, f callflag.CallFlag, args ...any) {
	Array(w, args...)
	Int(w, int64(f))
	String(w, operation)
	Bytes(w, scriptHash.BytesBE())
	Syscall(w, ContractCallInterop)
}

// AppCallNoArgs is similar to AppCall but allows to skip arguments entirely
// (the method is called with a null instead of an empty array).
func AppCallNoArgs(w *io.BinWriter, scriptHash util.Uint160, operation string, f callflag.CallFlag) {
	Opcodes(w, opcode.PUSHNULL)
	Int(w, int64(f))
	String(w, operation)
	Bytes(w, scriptHash.BytesBE())
	Syscall(w, ContractCallInterop)
}
