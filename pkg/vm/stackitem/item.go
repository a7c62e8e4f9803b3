// Package stackitem contains the VM stack item value model used to interpret
// simulation results and to convert contract parameters to their wire form.
package stackitem

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/halcyon-chain/halcyon-go/pkg/encoding/bigint"
)

const (
	// MaxBigIntegerSizeBits is the maximum size of a BigInt item in bits.
	MaxBigIntegerSizeBits = 32 * 8
	// MaxDeep is the maximum nesting depth of an Array/Map structure the
	// SDK accepts for encoding or decoding.
	MaxDeep = 16
	// MaxSize is the maximum allowed serialized size of an item.
	MaxSize = 1024 * 1024
)

// Type represents a type of the stack item.
type Type byte

// This block defines all known stack item types.
const (
	AnyT       Type = 0x00
	PointerT   Type = 0x10
	BooleanT   Type = 0x20
	IntegerT   Type = 0x21
	ByteArrayT Type = 0x28
	BufferT    Type = 0x30
	ArrayT     Type = 0x40
	StructT    Type = 0x41
	MapT       Type = 0x48
	InteropT   Type = 0x60
	InvalidT   Type = 0xFF
)

// String implements the stringer interface.
func (t Type) String() string {
	switch t {
	case AnyT:
		return "Any"
	case PointerT:
		return "Pointer"
	case BooleanT:
		return "Boolean"
	case IntegerT:
		return "Integer"
	case ByteArrayT:
		return "ByteString"
	case BufferT:
		return "Buffer"
	case ArrayT:
		return "Array"
	case StructT:
		return "Struct"
	case MapT:
		return "Map"
	case InteropT:
		return "InteropInterface"
	default:
		return "INVALID"
	}
}

// FromString returns the stackitem type from its name.
func FromString(s string) (Type, error) {
	switch s {
	case "Any":
		return AnyT, nil
	case "Pointer":
		return PointerT, nil
	case "Boolean":
		return BooleanT, nil
	case "Integer":
		return IntegerT, nil
	case "ByteString":
		return ByteArrayT, nil
	case "Buffer":
		return BufferT, nil
	case "Array":
		return ArrayT, nil
	case "Struct":
		return StructT, nil
	case "Map":
		return MapT, nil
	case "InteropInterface":
		return InteropT, nil
	default:
		return InvalidT, fmt.Errorf("unknown stackitem type: %q", s)
	}
}

// Item represents a single VM stack item of any type.
type Item interface {
	// Value returns the internal value of the item.
	Value() any
	// Type returns the type of the item.
	Type() Type
	// TryBytes converts the item to a byte slice if it's possible.
	TryBytes() ([]byte, error)
	// TryBool converts the item to a boolean value if it's possible.
	TryBool() (bool, error)
	// TryInteger converts the item to an integer if it's possible.
	TryInteger() (*big.Int, error)
}

// Error conditions common for stack item conversions.
var (
	// ErrInvalidConversion is returned on an attempt to make an impossible
	// conversion between item types.
	ErrInvalidConversion = errors.New("invalid conversion")
	// ErrIntegerTooBig is returned when an integer exceeds the maximum
	// allowed size.
	ErrIntegerTooBig = errors.New("integer is too big")
	// ErrTooDeep is returned when a structure exceeds the maximum allowed
	// nesting level.
	ErrTooDeep = errors.New("too deep structure")
)

// CheckIntegerSize checks that the value fits in the VM's integer range.
func CheckIntegerSize(value *big.Int) error {
	if value.BitLen() > MaxBigIntegerSizeBits {
		return ErrIntegerTooBig
	}
	return nil
}

// Null represents the PUSHNULL result on the stack.
type Null struct{}

// Value implements the Item interface.
func (i Null) Value() any { return nil }

// Type implements the Item interface.
func (i Null) Type() Type { return AnyT }

// TryBytes implements the Item interface.
func (i Null) TryBytes() ([]byte, error) { return nil, ErrInvalidConversion }

// TryBool implements the Item interface.
func (i Null) TryBool() (bool, error) { return false, nil }

// TryInteger implements the Item interface.
func (i Null) TryInteger() (*big.Int, error) { return nil, ErrInvalidConversion }

// Bool represents a boolean stack item.
type Bool bool

// NewBool returns a new Bool stack item.
func NewBool(val bool) Bool { return Bool(val) }

// Value implements the Item interface.
func (i Bool) Value() any { return bool(i) }

// Type implements the Item interface.
func (i Bool) Type() Type { return BooleanT }

// TryBytes implements the Item interface.
func (i Bool) TryBytes() ([]byte, error) {
	if i {
		return []byte{1}, nil
	}
	return []byte{0}, nil
}

// TryBool implements the Item interface.
func (i Bool) TryBool() (bool, error) { return bool(i), nil }

// TryInteger implements the Item interface.
func (i Bool) TryInteger() (*big.Int, error) {
	if i {
		return big.NewInt(1), nil
	}
	return big.NewInt(0), nil
}

// BigInteger represents an integer stack item.
type BigInteger big.Int

// NewBigInteger returns a new BigInteger stack item. It panics on integers
// not fitting into the VM range, use CheckIntegerSize on untrusted input.
func NewBigInteger(value *big.Int) *BigInteger {
	if err := CheckIntegerSize(value); err != nil {
		panic(err)
	}
	return (*BigInteger)(value)
}

// Big casts the item to big.Int.
func (i *BigInteger) Big() *big.Int { return (*big.Int)(i) }

// Value implements the Item interface.
func (i *BigInteger) Value() any { return i.Big() }

// Type implements the Item interface.
func (i *BigInteger) Type() Type { return IntegerT }

// TryBytes implements the Item interface.
func (i *BigInteger) TryBytes() ([]byte, error) {
	return bigint.ToBytes(i.Big()), nil
}

// TryBool implements the Item interface.
func (i *BigInteger) TryBool() (bool, error) {
	return i.Big().Sign() != 0, nil
}

// TryInteger implements the Item interface.
func (i *BigInteger) TryInteger() (*big.Int, error) { return i.Big(), nil }

// ByteArray represents an immutable byte string on the stack.
type ByteArray []byte

// NewByteArray returns a new ByteArray stack item.
func NewByteArray(b []byte) ByteArray { return b }

// Value implements the Item interface.
func (i ByteArray) Value() any { return []byte(i) }

// Type implements the Item interface.
func (i ByteArray) Type() Type { return ByteArrayT }

// TryBytes implements the Item interface.
func (i ByteArray) TryBytes() ([]byte, error) { return i, nil }

// TryBool implements the Item interface.
func (i ByteArray) TryBool() (bool, error) {
	for _, b := range i {
		if b != 0 {
			return true, nil
		}
	}
	return false, nil
}

// TryInteger implements the Item interface.
func (i ByteArray) TryInteger() (*big.Int, error) {
	if len(i) > bigint.MaxBytesLen {
		return nil, ErrIntegerTooBig
	}
	return bigint.FromBytes(i), nil
}

// Buffer represents a mutable byte buffer on the stack.
type Buffer []byte

// NewBuffer returns a new Buffer stack item.
func NewBuffer(b []byte) Buffer { return b }

// Value implements the Item interface.
func (i Buffer) Value() any { return []byte(i) }

// Type implements the Item interface.
func (i Buffer) Type() Type { return BufferT }

// TryBytes implements the Item interface.
func (i Buffer) TryBytes() ([]byte, error) { return i, nil }

// TryBool implements the Item interface.
func (i Buffer) TryBool() (bool, error) { return true, nil }

// TryInteger implements the Item interface.
func (i Buffer) TryInteger() (*big.Int, error) { return nil, ErrInvalidConversion }

// Array represents an array of stack items.
type Array struct {
	value []Item
}

// NewArray returns a new Array stack item.
func NewArray(items []Item) *Array { return &Array{value: items} }

// Value implements the Item interface.
func (i *Array) Value() any { return i.value }

// Len returns the length of the underlying slice.
func (i *Array) Len() int { return len(i.value) }

// Append adds an Item to the end of the Array.
func (i *Array) Append(item Item) { i.value = append(i.value, item) }

// Type implements the Item interface.
func (i *Array) Type() Type { return ArrayT }

// TryBytes implements the Item interface.
func (i *Array) TryBytes() ([]byte, error) { return nil, ErrInvalidConversion }

// TryBool implements the Item interface.
func (i *Array) TryBool() (bool, error) { return true, nil }

// TryInteger implements the Item interface.
func (i *Array) TryInteger() (*big.Int, error) { return nil, ErrInvalidConversion }

// MapElement is a key-value pair of Items.
type MapElement struct {
	Key   Item
	Value Item
}

// Map represents a Map of stack items. Its elements are ordered the way they
// were added, map keys need not be hashable, only comparable on the wire.
type Map struct {
	value []MapElement
}

// NewMap returns a new empty Map stack item.
func NewMap() *Map { return &Map{value: []MapElement{}} }

// Value implements the Item interface.
func (i *Map) Value() any { return i.value }

// Len returns the length of the underlying pair slice.
func (i *Map) Len() int { return len(i.value) }

// Add adds a key-value pair to the map, replacing any pair with an equal key.
func (i *Map) Add(key, value Item) {
	for k := range i.value {
		if equalKeys(i.value[k].Key, key) {
			i.value[k].Value = value
			return
		}
	}
	i.value = append(i.value, MapElement{Key: key, Value: value})
}

// Type implements the Item interface.
func (i *Map) Type() Type { return MapT }

// TryBytes implements the Item interface.
func (i *Map) TryBytes() ([]byte, error) { return nil, ErrInvalidConversion }

// TryBool implements the Item interface.
func (i *Map) TryBool() (bool, error) { return true, nil }

// TryInteger implements the Item interface.
func (i *Map) TryInteger() (*big.Int, error) { return nil, ErrInvalidConversion }

func equalKeys(a, b Item) bool {
	ab, err := a.TryBytes()
	if err != nil {
		return false
	}
	bb, err := b.TryBytes()
	if err != nil {
		return false
	}
	if len(ab) != len(bb) {
		return false
	}
	for k := range ab {
		if ab[k] != bb[k] {
			return false
		}
	}
	return true
}

// Interop represents an opaque server-side object reference.
type Interop struct {
	ID string
}

// Value implements the Item interface.
func (i Interop) Value() any { return i.ID }

// Type implements the Item interface.
func (i Interop) Type() Type { return InteropT }

// TryBytes implements the Item interface.
func (i Interop) TryBytes() ([]byte, error) { return nil, ErrInvalidConversion }

// TryBool implements the Item interface.
func (i Interop) TryBool() (bool, error) { return true, nil }

// TryInteger implements the Item interface.
func (i Interop) TryInteger() (*big.Int, error) { return nil, ErrInvalidConversion }

// Make tries to make an appropriate stack item from the provided value.
// It will panic if it's not possible.
func Make(v any) Item {
	switch val := v.(type) {
	case int:
		return NewBigInteger(big.NewInt(int64(val)))
	case int64:
		return NewBigInteger(big.NewInt(val))
	case uint32:
		return NewBigInteger(big.NewInt(int64(val)))
	case *big.Int:
		return NewBigInteger(val)
	case []byte:
		return NewByteArray(val)
	case string:
		return NewByteArray([]byte(val))
	case bool:
		return NewBool(val)
	case []Item:
		return NewArray(val)
	case nil:
		return Null{}
	case Item:
		return val
	default:
		panic(fmt.Sprintf("%v (%T) not supported", v, v))
	}
}
