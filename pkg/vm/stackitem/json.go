package stackitem

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"

	json "github.com/nspcc-dev/go-ordered-json"
)

type (
	rawItem struct {
		Type  string          `json:"type"`
		Value json.RawMessage `json:"value,omitempty"`
	}

	rawMapElement struct {
		Key   json.RawMessage `json:"key"`
		Value json.RawMessage `json:"value"`
	}
)

// FromJSONWithTypes deserializes an item from typed-JSON representation
// (the form remote nodes use for simulation result stacks). Byte strings
// come base64-encoded on the wire and are decoded to their raw bytes, the
// encoded string representation itself is never stored.
func FromJSONWithTypes(data []byte) (Item, error) {
	return fromJSONWithTypes(data, MaxDeep)
}

func fromJSONWithTypes(data []byte, maxDepth int) (Item, error) {
	if maxDepth <= 0 {
		return nil, ErrTooDeep
	}
	raw := new(rawItem)
	if err := json.Unmarshal(data, raw); err != nil {
		return nil, err
	}
	typ, err := FromString(raw.Type)
	if err != nil {
		return nil, fmt.Errorf("invalid type: %w", err)
	}
	switch typ {
	case AnyT:
		return Null{}, nil
	case BooleanT:
		var b bool
		if err := json.Unmarshal(raw.Value, &b); err != nil {
			return nil, err
		}
		return NewBool(b), nil
	case IntegerT:
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return nil, err
		}
		val, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, errors.New("invalid integer")
		}
		if err := CheckIntegerSize(val); err != nil {
			return nil, err
		}
		return (*BigInteger)(val), nil
	case ByteArrayT, BufferT:
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return nil, err
		}
		val, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, err
		}
		if typ == BufferT {
			return NewBuffer(val), nil
		}
		return NewByteArray(val), nil
	case ArrayT, StructT:
		var arr []json.RawMessage
		if err := json.Unmarshal(raw.Value, &arr); err != nil {
			return nil, err
		}
		items := make([]Item, len(arr))
		for i := range arr {
			items[i], err = fromJSONWithTypes(arr[i], maxDepth-1)
			if err != nil {
				return nil, err
			}
		}
		return NewArray(items), nil
	case MapT:
		var arr []rawMapElement
		if err := json.Unmarshal(raw.Value, &arr); err != nil {
			return nil, err
		}
		m := NewMap()
		for i := range arr {
			key, err := fromJSONWithTypes(arr[i].Key, maxDepth-1)
			if err != nil {
				return nil, err
			}
			value, err := fromJSONWithTypes(arr[i].Value, maxDepth-1)
			if err != nil {
				return nil, err
			}
			m.Add(key, value)
		}
		return m, nil
	case PointerT:
		var ptr int64
		if err := json.Unmarshal(raw.Value, &ptr); err != nil {
			return nil, err
		}
		return (*BigInteger)(big.NewInt(ptr)), nil
	case InteropT:
		var id string
		if raw.Value != nil {
			if err := json.Unmarshal(raw.Value, &id); err != nil {
				return nil, err
			}
		}
		return Interop{ID: id}, nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", typ)
	}
}

// ToJSONWithTypes serializes an item into the typed-JSON representation.
// Map element order is preserved as is.
func ToJSONWithTypes(item Item) ([]byte, error) {
	return toJSONWithTypes(item, MaxDeep)
}

func toJSONWithTypes(item Item, maxDepth int) ([]byte, error) {
	if maxDepth <= 0 {
		return nil, ErrTooDeep
	}
	var value any
	switch it := item.(type) {
	case Null:
		value = nil
	case Bool:
		value = bool(it)
	case *BigInteger:
		value = it.Big().String()
	case ByteArray, Buffer:
		b, _ := item.TryBytes()
		value = base64.StdEncoding.EncodeToString(b)
	case *Array:
		arr := make([]json.RawMessage, it.Len())
		for i, elem := range it.value {
			data, err := toJSONWithTypes(elem, maxDepth-1)
			if err != nil {
				return nil, err
			}
			arr[i] = data
		}
		value = arr
	case *Map:
		elems := make([]rawMapElement, it.Len())
		for i, elem := range it.value {
			key, err := toJSONWithTypes(elem.Key, maxDepth-1)
			if err != nil {
				return nil, err
			}
			val, err := toJSONWithTypes(elem.Value, maxDepth-1)
			if err != nil {
				return nil, err
			}
			elems[i] = rawMapElement{Key: key, Value: val}
		}
		value = elems
	case Interop:
		value = it.ID
	default:
		return nil, fmt.Errorf("unsupported type: %s", item.Type())
	}
	raw := rawItem{Type: item.Type().String()}
	if value != nil {
		data, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		raw.Value = data
	}
	return json.Marshal(raw)
}
