package transaction

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/halcyon-chain/halcyon-go/pkg/crypto/keys"
	"github.com/halcyon-chain/halcyon-go/pkg/io"
	"github.com/halcyon-chain/halcyon-go/pkg/util"
)

// WitnessAction represents an action to perform if the corresponding witness
// condition matches.
type WitnessAction byte

const (
	// WitnessDeny rejects the witness if the condition matches.
	WitnessDeny WitnessAction = 0
	// WitnessAllow accepts the witness if the condition matches.
	WitnessAllow WitnessAction = 1
)

// WitnessRule represents a single rule for Rules witness scope.
type WitnessRule struct {
	Action    WitnessAction    `json:"action"`
	Condition WitnessCondition `json:"condition"`
}

// WitnessConditionType encodes the type of the witness condition.
type WitnessConditionType byte

const (
	// WitnessBoolean is a generic boolean condition.
	WitnessBoolean WitnessConditionType = 0x00
	// WitnessNot reverses another condition.
	WitnessNot WitnessConditionType = 0x01
	// WitnessAnd means that all conditions must be met.
	WitnessAnd WitnessConditionType = 0x02
	// WitnessOr means that any of the conditions must be met.
	WitnessOr WitnessConditionType = 0x03
	// WitnessScriptHash matches the executing contract hash.
	WitnessScriptHash WitnessConditionType = 0x18
	// WitnessGroup matches the executing contract group key.
	WitnessGroup WitnessConditionType = 0x19
	// WitnessCalledByEntry matches when the current script is an entry script
	// or is called by an entry script.
	WitnessCalledByEntry WitnessConditionType = 0x20
)

// MaxConditionNesting limits the depth of And/Or/Not nesting in conditions.
const MaxConditionNesting = 2

// maxSubCond is the maximum number of subconditions of And/Or.
const maxSubCond = 16

// WitnessCondition is a condition of the witness rule.
type WitnessCondition interface {
	// Type returns the condition type.
	Type() WitnessConditionType
	// EncodeBinary writes the condition with its type byte.
	EncodeBinary(*io.BinWriter)

	encodeBody(*io.BinWriter)
}

type (
	// ConditionBoolean is a boolean condition type.
	ConditionBoolean bool
	// ConditionNot inverses the meaning of the contained condition.
	ConditionNot struct {
		Condition WitnessCondition
	}
	// ConditionAnd is a set of conditions required to match.
	ConditionAnd []WitnessCondition
	// ConditionOr is a set of conditions one of which is required to match.
	ConditionOr []WitnessCondition
	// ConditionScriptHash is a condition matching executing script hash.
	ConditionScriptHash util.Uint160
	// ConditionGroup is a condition matching executing script group.
	ConditionGroup keys.PublicKey
	// ConditionCalledByEntry is a condition matching entry script or one
	// called by it.
	ConditionCalledByEntry struct{}
)

// Type implements the WitnessCondition interface.
func (c *ConditionBoolean) Type() WitnessConditionType { return WitnessBoolean }

// EncodeBinary implements the WitnessCondition interface.
func (c *ConditionBoolean) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(WitnessBoolean))
	c.encodeBody(w)
}

func (c *ConditionBoolean) encodeBody(w *io.BinWriter) {
	w.WriteBool(bool(*c))
}

// Type implements the WitnessCondition interface.
func (c *ConditionNot) Type() WitnessConditionType { return WitnessNot }

// EncodeBinary implements the WitnessCondition interface.
func (c *ConditionNot) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(WitnessNot))
	c.encodeBody(w)
}

func (c *ConditionNot) encodeBody(w *io.BinWriter) {
	c.Condition.EncodeBinary(w)
}

// Type implements the WitnessCondition interface.
func (c *ConditionAnd) Type() WitnessConditionType { return WitnessAnd }

// EncodeBinary implements the WitnessCondition interface.
func (c *ConditionAnd) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(WitnessAnd))
	c.encodeBody(w)
}

func (c *ConditionAnd) encodeBody(w *io.BinWriter) {
	w.WriteVarUint(uint64(len(*c)))
	for _, cond := range *c {
		cond.EncodeBinary(w)
	}
}

// Type implements the WitnessCondition interface.
func (c *ConditionOr) Type() WitnessConditionType { return WitnessOr }

// EncodeBinary implements the WitnessCondition interface.
func (c *ConditionOr) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(WitnessOr))
	c.encodeBody(w)
}

func (c *ConditionOr) encodeBody(w *io.BinWriter) {
	w.WriteVarUint(uint64(len(*c)))
	for _, cond := range *c {
		cond.EncodeBinary(w)
	}
}

// Type implements the WitnessCondition interface.
func (c *ConditionScriptHash) Type() WitnessConditionType { return WitnessScriptHash }

// EncodeBinary implements the WitnessCondition interface.
func (c *ConditionScriptHash) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(WitnessScriptHash))
	c.encodeBody(w)
}

func (c *ConditionScriptHash) encodeBody(w *io.BinWriter) {
	w.WriteBytes(c[:])
}

// Type implements the WitnessCondition interface.
func (c *ConditionGroup) Type() WitnessConditionType { return WitnessGroup }

// EncodeBinary implements the WitnessCondition interface.
func (c *ConditionGroup) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(WitnessGroup))
	c.encodeBody(w)
}

func (c *ConditionGroup) encodeBody(w *io.BinWriter) {
	(*keys.PublicKey)(c).EncodeBinary(w)
}

// Type implements the WitnessCondition interface.
func (c ConditionCalledByEntry) Type() WitnessConditionType { return WitnessCalledByEntry }

// EncodeBinary implements the WitnessCondition interface.
func (c ConditionCalledByEntry) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(WitnessCalledByEntry))
}

func (c ConditionCalledByEntry) encodeBody(*io.BinWriter) {}

// DecodeBinaryCondition decodes a condition from the given reader honoring
// the nesting limit.
func DecodeBinaryCondition(r *io.BinReader) WitnessCondition {
	return decodeBinaryCondition(r, MaxConditionNesting)
}

func decodeBinaryCondition(r *io.BinReader, maxDepth int) WitnessCondition {
	t := WitnessConditionType(r.ReadB())
	if r.Err != nil {
		return nil
	}
	var res WitnessCondition
	switch t {
	case WitnessBoolean:
		var v = ConditionBoolean(r.ReadBool())
		res = &v
	case WitnessNot:
		if maxDepth <= 0 {
			r.Err = errors.New("too many nesting levels")
			return nil
		}
		cond := decodeBinaryCondition(r, maxDepth-1)
		if r.Err == nil {
			res = &ConditionNot{Condition: cond}
		}
	case WitnessAnd, WitnessOr:
		if maxDepth <= 0 {
			r.Err = errors.New("too many nesting levels")
			return nil
		}
		n := r.ReadVarUint()
		if r.Err == nil && (n == 0 || n > maxSubCond) {
			r.Err = errors.New("invalid number of subconditions")
			return nil
		}
		conds := make([]WitnessCondition, n)
		for i := range conds {
			conds[i] = decodeBinaryCondition(r, maxDepth-1)
			if r.Err != nil {
				return nil
			}
		}
		if t == WitnessAnd {
			var v = ConditionAnd(conds)
			res = &v
		} else {
			var v = ConditionOr(conds)
			res = &v
		}
	case WitnessScriptHash:
		var v ConditionScriptHash
		r.ReadBytes(v[:])
		if r.Err == nil {
			res = &v
		}
	case WitnessGroup:
		var v ConditionGroup
		(*keys.PublicKey)(&v).DecodeBinary(r)
		if r.Err == nil {
			res = &v
		}
	case WitnessCalledByEntry:
		res = ConditionCalledByEntry{}
	default:
		r.Err = fmt.Errorf("invalid condition type: %d", t)
	}
	return res
}

// EncodeBinary implements the Serializable interface.
func (w *WitnessRule) EncodeBinary(bw *io.BinWriter) {
	bw.WriteB(byte(w.Action))
	w.Condition.EncodeBinary(bw)
}

// DecodeBinary implements the Serializable interface.
func (w *WitnessRule) DecodeBinary(br *io.BinReader) {
	a := WitnessAction(br.ReadB())
	if br.Err == nil && a != WitnessDeny && a != WitnessAllow {
		br.Err = errors.New("unknown witness rule action")
		return
	}
	w.Action = a
	w.Condition = DecodeBinaryCondition(br)
}

// conditionAux is the JSON wire form of a witness condition.
type conditionAux struct {
	Type        string            `json:"type"`
	Expression  json.RawMessage   `json:"expression,omitempty"`
	Expressions []json.RawMessage `json:"expressions,omitempty"`
	Hash        *util.Uint160     `json:"hash,omitempty"`
	Group       *keys.PublicKey   `json:"group,omitempty"`
}

// String implements the stringer interface.
func (t WitnessConditionType) String() string {
	switch t {
	case WitnessBoolean:
		return "Boolean"
	case WitnessNot:
		return "Not"
	case WitnessAnd:
		return "And"
	case WitnessOr:
		return "Or"
	case WitnessScriptHash:
		return "ScriptHash"
	case WitnessGroup:
		return "Group"
	case WitnessCalledByEntry:
		return "CalledByEntry"
	default:
		return fmt.Sprintf("WitnessConditionType(0x%02X)", byte(t))
	}
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionBoolean) MarshalJSON() ([]byte, error) {
	expr, _ := json.Marshal(bool(*c))
	return json.Marshal(conditionAux{Type: c.Type().String(), Expression: expr})
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionNot) MarshalJSON() ([]byte, error) {
	expr, err := json.Marshal(c.Condition)
	if err != nil {
		return nil, err
	}
	return json.Marshal(conditionAux{Type: c.Type().String(), Expression: expr})
}

func marshalSubConditions(t WitnessConditionType, conds []WitnessCondition) ([]byte, error) {
	exprs := make([]json.RawMessage, len(conds))
	for i, cond := range conds {
		b, err := json.Marshal(cond)
		if err != nil {
			return nil, err
		}
		exprs[i] = b
	}
	return json.Marshal(conditionAux{Type: t.String(), Expressions: exprs})
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionAnd) MarshalJSON() ([]byte, error) {
	return marshalSubConditions(c.Type(), *c)
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionOr) MarshalJSON() ([]byte, error) {
	return marshalSubConditions(c.Type(), *c)
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionScriptHash) MarshalJSON() ([]byte, error) {
	h := util.Uint160(*c)
	return json.Marshal(conditionAux{Type: c.Type().String(), Hash: &h})
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionGroup) MarshalJSON() ([]byte, error) {
	g := keys.PublicKey(*c)
	return json.Marshal(conditionAux{Type: c.Type().String(), Group: &g})
}

// MarshalJSON implements the json.Marshaler interface.
func (c ConditionCalledByEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(conditionAux{Type: c.Type().String()})
}

// UnmarshalConditionJSON decodes a condition from its JSON form honoring the
// nesting limit.
func UnmarshalConditionJSON(data []byte) (WitnessCondition, error) {
	return unmarshalConditionJSON(data, MaxConditionNesting)
}

func unmarshalConditionJSON(data []byte, maxDepth int) (WitnessCondition, error) {
	var aux conditionAux
	if err := json.Unmarshal(data, &aux); err != nil {
		return nil, err
	}
	switch aux.Type {
	case WitnessBoolean.String():
		var v bool
		if err := json.Unmarshal(aux.Expression, &v); err != nil {
			return nil, err
		}
		cond := ConditionBoolean(v)
		return &cond, nil
	case WitnessNot.String():
		if maxDepth <= 0 {
			return nil, errors.New("too many nesting levels")
		}
		cond, err := unmarshalConditionJSON(aux.Expression, maxDepth-1)
		if err != nil {
			return nil, err
		}
		return &ConditionNot{Condition: cond}, nil
	case WitnessAnd.String(), WitnessOr.String():
		if maxDepth <= 0 {
			return nil, errors.New("too many nesting levels")
		}
		if len(aux.Expressions) == 0 || len(aux.Expressions) > maxSubCond {
			return nil, errors.New("invalid number of subconditions")
		}
		conds := make([]WitnessCondition, len(aux.Expressions))
		for i := range aux.Expressions {
			cond, err := unmarshalConditionJSON(aux.Expressions[i], maxDepth-1)
			if err != nil {
				return nil, err
			}
			conds[i] = cond
		}
		if aux.Type == WitnessAnd.String() {
			cond := ConditionAnd(conds)
			return &cond, nil
		}
		cond := ConditionOr(conds)
		return &cond, nil
	case WitnessScriptHash.String():
		if aux.Hash == nil {
			return nil, errors.New("no hash specified")
		}
		cond := ConditionScriptHash(*aux.Hash)
		return &cond, nil
	case WitnessGroup.String():
		if aux.Group == nil {
			return nil, errors.New("no group specified")
		}
		cond := ConditionGroup(*aux.Group)
		return &cond, nil
	case WitnessCalledByEntry.String():
		return ConditionCalledByEntry{}, nil
	default:
		return nil, fmt.Errorf("invalid condition type: %s", aux.Type)
	}
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (w *WitnessRule) UnmarshalJSON(data []byte) error {
	aux := struct {
		Action    WitnessAction   `json:"action"`
		Condition json.RawMessage `json:"condition"`
	}{}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	cond, err := UnmarshalConditionJSON(aux.Condition)
	if err != nil {
		return err
	}
	w.Action = aux.Action
	w.Condition = cond
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (a WitnessAction) MarshalJSON() ([]byte, error) {
	var s string
	switch a {
	case WitnessDeny:
		s = "Deny"
	case WitnessAllow:
		s = "Allow"
	default:
		return nil, fmt.Errorf("unknown witness rule action %d", a)
	}
	return json.Marshal(s)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (a *WitnessAction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "Deny":
		*a = WitnessDeny
	case "Allow":
		*a = WitnessAllow
	default:
		return fmt.Errorf("unknown witness rule action %s", s)
	}
	return nil
}
