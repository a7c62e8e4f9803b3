package smartcontract

import (
	"fmt"
	"math/big"
	"slices"

	"github.com/halcyon-chain/halcyon-go/pkg/io"
	"github.com/halcyon-chain/halcyon-go/pkg/smartcontract/callflag"
	"github.com/halcyon-chain/halcyon-go/pkg/util"
	"github.com/halcyon-chain/halcyon-go/pkg/vm/emit"
	"github.com/halcyon-chain/halcyon-go/pkg/vm/opcode"
)

// Builder is used to create arbitrary scripts from a set of methods it
// provides. Each method emits some set of opcodes performing an action and
// (in most cases) returning a result. These chunks of code can be composed
// together to perform several actions in the same script (and therefore in
// the same transaction), but the end result (in terms of state changes and/or
// resulting items) of the script totally depends on what it contains and
// that's the responsibility of the Builder user. Builder is mostly used to
// create transaction entry scripts, so the set of methods it exposes is
// tailored to this model of use and the calls emitted don't limit flags in
// any way (always use callflag.All).
type Builder struct {
	bw *io.BufBinWriter
}

// NewBuilder creates a new Builder instance.
func NewBuilder() *Builder {
	return &Builder{bw: io.NewBufBinWriter()}
}

// InvokeMethod is the most generic contract method invoker, the code it
// produces packs all of the arguments given into an array and calls some
// method of the contract. The correctness of this invocation (number and
// type of parameters) is out of scope of this method, as well as the return
// value: if the contract's method returns something, this value just remains
// on the execution stack.
func (b *Builder) InvokeMethod(contract util.Uint160, method string, params ...any) {
	emit.AppCall(b.bw.BinWriter, contract, method, callflag.All, params...)
}

// Assert emits an ASSERT opcode that expects a Boolean value to be on the
// stack, checks if it's true and aborts the transaction if it's not.
func (b *Builder) Assert() {
	emit.Opcodes(b.bw.BinWriter, opcode.ASSERT)
}

// InvokeWithAssert emits an invocation of the method (see InvokeMethod) with
// an ASSERT after the invocation. The presumption is that the method called
// returns a Boolean value signalling the success or failure of the
// operation. This pattern is pretty common in token 'transfer' methods: if
// the action is successful then the transaction is successful as well, if it
// went wrong then the whole transaction fails (ends in a FAULT state).
func (b *Builder) InvokeWithAssert(contract util.Uint160, method string, params ...any) {
	b.InvokeMethod(contract, method, params...)
	b.Assert()
}

// PushBytes pushes the given byte slice using the minimal length-prefix
// encoding for its length class.
func (b *Builder) PushBytes(data []byte) {
	emit.Bytes(b.bw.BinWriter, data)
}

// PushString pushes the given string as a byte string.
func (b *Builder) PushString(s string) {
	emit.String(b.bw.BinWriter, s)
}

// PushBool pushes the given boolean value.
func (b *Builder) PushBool(ok bool) {
	emit.Bool(b.bw.BinWriter, ok)
}

// PushInt pushes the given integer using the minimal encoding for its value.
func (b *Builder) PushInt(i int64) {
	emit.Int(b.bw.BinWriter, i)
}

// PushBigInt pushes the given arbitrary precision integer. Values that
// don't fit into 256 bits make the Builder fail with emit.ErrTooBigInteger
// (returned from Bytes).
func (b *Builder) PushBigInt(i *big.Int) {
	emit.BigInt(b.bw.BinWriter, i)
}

// PushParameter pushes the given contract parameter converting it to the
// appropriate pushes. Nested Array/Map structures are bounded by
// MaxNestingDepth.
func (b *Builder) PushParameter(p Parameter) {
	if b.bw.Err != nil {
		return
	}
	b.bw.Err = emitParameter(b.bw.BinWriter, p, MaxNestingDepth)
}

func emitParameter(w *io.BinWriter, p Parameter, maxDepth int) error {
	if maxDepth <= 0 {
		return ErrTooDeep
	}
	switch p.Type {
	case AnyType:
		if p.Value == nil {
			emit.Opcodes(w, opcode.PUSHNULL)
			return w.Err
		}
	case BoolType:
		if v, ok := p.Value.(bool); ok {
			emit.Bool(w, v)
			return w.Err
		}
	case IntegerType:
		if v, ok := p.Value.(*big.Int); ok {
			emit.BigInt(w, v)
			return w.Err
		}
	case ByteArrayType, SignatureType, PublicKeyType:
		if v, ok := p.Value.([]byte); ok {
			emit.Bytes(w, v)
			return w.Err
		}
	case StringType:
		if v, ok := p.Value.(string); ok {
			emit.String(w, v)
			return w.Err
		}
	case Hash160Type:
		if v, ok := p.Value.(util.Uint160); ok {
			emit.Bytes(w, v.BytesBE())
			return w.Err
		}
	case Hash256Type:
		if v, ok := p.Value.(util.Uint256); ok {
			emit.Bytes(w, v.BytesBE())
			return w.Err
		}
	case ArrayType:
		if v, ok := p.Value.([]Parameter); ok {
			if len(v) == 0 {
				emit.Opcodes(w, opcode.NEWARRAY0)
				return w.Err
			}
			for i := len(v) - 1; i >= 0; i-- {
				if err := emitParameter(w, v[i], maxDepth-1); err != nil {
					return err
				}
			}
			emit.Int(w, int64(len(v)))
			emit.Opcodes(w, opcode.PACK)
			return w.Err
		}
	case MapType:
		if v, ok := p.Value.([]ParameterPair); ok {
			if len(v) == 0 {
				emit.Opcodes(w, opcode.NEWMAP)
				return w.Err
			}
			// PACKMAP expects interleaved value/key pairs below the count.
			for i := len(v) - 1; i >= 0; i-- {
				if err := emitParameter(w, v[i].Value, maxDepth-1); err != nil {
					return err
				}
				if err := emitParameter(w, v[i].Key, maxDepth-1); err != nil {
					return err
				}
			}
			emit.Int(w, int64(len(v)))
			emit.Opcodes(w, opcode.PACKMAP)
			return w.Err
		}
	}
	return fmt.Errorf("unsupported parameter %s with value %v", p.Type, p.Value)
}

// Opcode emits a raw opcode without arguments.
func (b *Builder) Opcode(op opcode.Opcode) {
	emit.Opcodes(b.bw.BinWriter, op)
}

// Syscall emits a syscall with the given API name.
func (b *Builder) Syscall(api string) {
	emit.Syscall(b.bw.BinWriter, api)
}

// Len returns the current length of the accumulated script.
func (b *Builder) Len() int {
	return b.bw.Len()
}

// Bytes returns a copy of the script accumulated so far. The Builder can be
// extended afterwards, each call to Bytes is an independent snapshot of the
// current state, two subsequent calls without intervening modifications
// return byte-identical scripts.
func (b *Builder) Bytes() ([]byte, error) {
	if b.bw.Err != nil {
		return nil, b.bw.Err
	}
	return slices.Clone(b.bw.Bytes()), nil
}

// Reset resets the Builder, allowing to reuse the same script buffer (but
// the previous script will be overwritten there).
func (b *Builder) Reset() {
	b.bw.Reset()
}
