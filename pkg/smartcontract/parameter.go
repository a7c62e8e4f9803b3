package smartcontract

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/halcyon-chain/halcyon-go/pkg/crypto/keys"
	"github.com/halcyon-chain/halcyon-go/pkg/util"
	"github.com/halcyon-chain/halcyon-go/pkg/vm/stackitem"
)

// MaxNestingDepth is the maximum allowed nesting level of Array/Map
// parameters converted to or from stack items.
const MaxNestingDepth = 16

// ErrTooDeep is returned for parameters with a structure exceeding
// MaxNestingDepth.
var ErrTooDeep = errors.New("parameter structure exceeds maximum nesting depth")

// Parameter represents a smart contract parameter.
type Parameter struct {
	// Type of the parameter.
	Type ParamType `json:"type"`
	// The actual value of the parameter.
	Value any `json:"value"`
}

// ParameterPair represents a key-value pair, a slice of which is stored in
// MapType Parameter. Keys need not be hashable, Map order is preserved as
// given.
type ParameterPair struct {
	Key   Parameter `json:"key"`
	Value Parameter `json:"value"`
}

// NewParameter returns a Parameter with a proper initialized Value
// of the given ParamType.
func NewParameter(t ParamType) Parameter {
	return Parameter{
		Type:  t,
		Value: nil,
	}
}

type rawParameter struct {
	Type  ParamType       `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// MarshalJSON implements the json.Marshaler interface.
func (p Parameter) MarshalJSON() ([]byte, error) {
	var (
		resultRawValue json.RawMessage
		resultErr      error
	)
	if p.Value == nil {
		if _, ok := validParamTypes[p.Type]; ok && p.Type != UnknownType {
			return json.Marshal(rawParameter{Type: p.Type})
		}
		return nil, fmt.Errorf("can't marshal %s", p.Type)
	}
	switch p.Type {
	case BoolType, StringType, Hash160Type, Hash256Type:
		resultRawValue, resultErr = json.Marshal(p.Value)
	case IntegerType:
		val, ok := p.Value.(*big.Int)
		if !ok {
			resultErr = errors.New("invalid integer value")
			break
		}
		resultRawValue = json.RawMessage(`"` + val.String() + `"`)
	case PublicKeyType, ByteArrayType, SignatureType:
		if p.Type == PublicKeyType {
			resultRawValue, resultErr = json.Marshal(hex.EncodeToString(p.Value.([]byte)))
		} else {
			resultRawValue, resultErr = json.Marshal(base64.StdEncoding.EncodeToString(p.Value.([]byte)))
		}
	case ArrayType:
		var value = p.Value.([]Parameter)
		if value == nil {
			resultRawValue, resultErr = json.Marshal([]Parameter{})
		} else {
			resultRawValue, resultErr = json.Marshal(value)
		}
	case MapType:
		ppair := p.Value.([]ParameterPair)
		resultRawValue, resultErr = json.Marshal(ppair)
	case InteropInterfaceType, AnyType:
		resultRawValue = nil
	default:
		resultErr = fmt.Errorf("can't marshal %s", p.Type)
	}
	if resultErr != nil {
		return nil, resultErr
	}
	return json.Marshal(rawParameter{
		Type:  p.Type,
		Value: resultRawValue,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface. Note that
// byte-array-like values (ByteArray, Signature, PublicKey) are decoded from
// their base64/hex form into raw bytes, the encoded string representation is
// never kept.
func (p *Parameter) UnmarshalJSON(data []byte) (err error) {
	var (
		r       rawParameter
		i       int64
		s       string
		b       []byte
		boolean bool
	)
	if err = json.Unmarshal(data, &r); err != nil {
		return
	}
	p.Type = r.Type
	p.Value = nil
	if len(r.Value) == 0 || bytes.Equal(r.Value, []byte("null")) {
		return
	}
	switch r.Type {
	case BoolType:
		if err = json.Unmarshal(r.Value, &boolean); err != nil {
			return
		}
		p.Value = boolean
	case ByteArrayType, PublicKeyType, SignatureType:
		if err = json.Unmarshal(r.Value, &s); err != nil {
			return
		}
		if r.Type == PublicKeyType {
			b, err = hex.DecodeString(s)
		} else {
			b, err = base64.StdEncoding.DecodeString(s)
		}
		if err != nil {
			return
		}
		p.Value = b
	case StringType:
		if err = json.Unmarshal(r.Value, &s); err != nil {
			return
		}
		p.Value = s
	case IntegerType:
		if err = json.Unmarshal(r.Value, &i); err == nil {
			p.Value = big.NewInt(i)
			return
		}
		// sometimes integer comes as string
		if jErr := json.Unmarshal(r.Value, &s); jErr != nil {
			return jErr
		}
		bi, ok := new(big.Int).SetString(s, 10)
		if !ok {
			// In this case previous err should mean string contains
			// non-digit characters.
			return err
		}
		err = stackitem.CheckIntegerSize(bi)
		if err == nil {
			p.Value = bi
		}
		return
	case ArrayType:
		var rs []Parameter
		if err = json.Unmarshal(r.Value, &rs); err != nil {
			return
		}
		p.Value = rs
	case MapType:
		var ppair []ParameterPair
		if err = json.Unmarshal(r.Value, &ppair); err != nil {
			return
		}
		p.Value = ppair
	case Hash160Type:
		var h util.Uint160
		if err = json.Unmarshal(r.Value, &h); err != nil {
			return
		}
		p.Value = h
	case Hash256Type:
		var h util.Uint256
		if err = json.Unmarshal(r.Value, &h); err != nil {
			return
		}
		p.Value = h
	case InteropInterfaceType, AnyType:
		// stub, ignore value, it can only be null
		p.Value = nil
	default:
		return fmt.Errorf("can't unmarshal %s", p.Type)
	}
	return
}

// ToStackItem converts the Parameter to a stackitem.Item. The structure depth
// is bounded by MaxNestingDepth, deeper parameters fail with ErrTooDeep.
func (p *Parameter) ToStackItem() (stackitem.Item, error) {
	return p.toStackItem(MaxNestingDepth)
}

func (p *Parameter) toStackItem(maxDepth int) (stackitem.Item, error) {
	if maxDepth <= 0 {
		return nil, ErrTooDeep
	}
	switch p.Type {
	case AnyType, InteropInterfaceType:
		if p.Value == nil {
			return stackitem.Null{}, nil
		}
	case BoolType:
		if v, ok := p.Value.(bool); ok {
			return stackitem.NewBool(v), nil
		}
	case IntegerType:
		if v, ok := p.Value.(*big.Int); ok {
			if err := stackitem.CheckIntegerSize(v); err != nil {
				return nil, err
			}
			return (*stackitem.BigInteger)(v), nil
		}
	case ByteArrayType, SignatureType:
		if v, ok := p.Value.([]byte); ok {
			return stackitem.NewByteArray(v), nil
		}
	case PublicKeyType:
		switch v := p.Value.(type) {
		case []byte:
			return stackitem.NewByteArray(v), nil
		case *keys.PublicKey:
			return stackitem.NewByteArray(v.Bytes()), nil
		}
	case StringType:
		if v, ok := p.Value.(string); ok {
			return stackitem.NewByteArray([]byte(v)), nil
		}
	case Hash160Type:
		if v, ok := p.Value.(util.Uint160); ok {
			return stackitem.NewByteArray(v.BytesBE()), nil
		}
	case Hash256Type:
		if v, ok := p.Value.(util.Uint256); ok {
			return stackitem.NewByteArray(v.BytesBE()), nil
		}
	case ArrayType:
		if v, ok := p.Value.([]Parameter); ok {
			items := make([]stackitem.Item, 0, len(v))
			for i := range v {
				item, err := v[i].toStackItem(maxDepth - 1)
				if err != nil {
					return nil, err
				}
				items = append(items, item)
			}
			return stackitem.NewArray(items), nil
		}
	case MapType:
		if v, ok := p.Value.([]ParameterPair); ok {
			m := stackitem.NewMap()
			for i := range v {
				key, err := v[i].Key.toStackItem(maxDepth - 1)
				if err != nil {
					return nil, err
				}
				value, err := v[i].Value.toStackItem(maxDepth - 1)
				if err != nil {
					return nil, err
				}
				m.Add(key, value)
			}
			return m, nil
		}
	}
	return nil, fmt.Errorf("unsupported parameter %s with value %v", p.Type, p.Value)
}

// ParameterFromStackItem converts a stackitem.Item to a Parameter.
func ParameterFromStackItem(i stackitem.Item) (Parameter, error) {
	return parameterFromStackItem(i, MaxNestingDepth)
}

func parameterFromStackItem(i stackitem.Item, maxDepth int) (Parameter, error) {
	if maxDepth <= 0 {
		return Parameter{}, ErrTooDeep
	}
	switch t := i.(type) {
	case stackitem.Null:
		return NewParameter(AnyType), nil
	case stackitem.Bool:
		return Parameter{Type: BoolType, Value: bool(t)}, nil
	case *stackitem.BigInteger:
		return Parameter{Type: IntegerType, Value: t.Big()}, nil
	case stackitem.ByteArray, stackitem.Buffer:
		b, _ := t.TryBytes()
		return Parameter{Type: ByteArrayType, Value: b}, nil
	case stackitem.Interop:
		return Parameter{Type: InteropInterfaceType, Value: nil}, nil
	case *stackitem.Array:
		arr := t.Value().([]stackitem.Item)
		res := make([]Parameter, 0, len(arr))
		for _, item := range arr {
			elem, err := parameterFromStackItem(item, maxDepth-1)
			if err != nil {
				return Parameter{}, err
			}
			res = append(res, elem)
		}
		return Parameter{Type: ArrayType, Value: res}, nil
	case *stackitem.Map:
		elems := t.Value().([]stackitem.MapElement)
		res := make([]ParameterPair, 0, len(elems))
		for _, elem := range elems {
			key, err := parameterFromStackItem(elem.Key, maxDepth-1)
			if err != nil {
				return Parameter{}, err
			}
			value, err := parameterFromStackItem(elem.Value, maxDepth-1)
			if err != nil {
				return Parameter{}, err
			}
			res = append(res, ParameterPair{Key: key, Value: value})
		}
		return Parameter{Type: MapType, Value: res}, nil
	default:
		return Parameter{}, fmt.Errorf("unsupported stack item %s", i.Type())
	}
}

// NewParameterFromValue infers the Parameter type from the value given and
// creates the Parameter with this value.
func NewParameterFromValue(value any) (Parameter, error) {
	var result = Parameter{
		Value: value,
	}

	switch v := value.(type) {
	case []byte:
		result.Type = ByteArrayType
	case string:
		result.Type = StringType
	case bool:
		result.Type = BoolType
	case int:
		result.Type = IntegerType
		result.Value = big.NewInt(int64(v))
	case int64:
		result.Type = IntegerType
		result.Value = big.NewInt(v)
	case uint32:
		result.Type = IntegerType
		result.Value = big.NewInt(int64(v))
	case *big.Int:
		if err := stackitem.CheckIntegerSize(v); err != nil {
			return result, err
		}
		result.Type = IntegerType
	case util.Uint160:
		result.Type = Hash160Type
	case util.Uint256:
		result.Type = Hash256Type
	case *keys.PublicKey:
		result.Type = PublicKeyType
		result.Value = v.Bytes()
	case keys.PublicKeys:
		arr := make([]Parameter, 0, len(v))
		for i := range v {
			elem, err := NewParameterFromValue(v[i])
			if err != nil {
				return result, err
			}
			arr = append(arr, elem)
		}
		result.Type = ArrayType
		result.Value = arr
	case Parameter:
		result = v
	case []Parameter:
		result.Type = ArrayType
	case []any:
		arr := make([]Parameter, 0, len(v))
		for i := range v {
			elem, err := NewParameterFromValue(v[i])
			if err != nil {
				return result, err
			}
			arr = append(arr, elem)
		}
		result.Type = ArrayType
		result.Value = arr
	case nil:
		result.Type = AnyType
	default:
		return result, fmt.Errorf("unsupported parameter type %T", value)
	}
	return result, nil
}

// NewParametersFromValues is similar to NewParameterFromValue, but works with
// multiple values and returns a simple slice of Parameter.
func NewParametersFromValues(values ...any) ([]Parameter, error) {
	res := make([]Parameter, 0, len(values))
	for i := range values {
		elem, err := NewParameterFromValue(values[i])
		if err != nil {
			return nil, err
		}
		res = append(res, elem)
	}
	return res, nil
}
