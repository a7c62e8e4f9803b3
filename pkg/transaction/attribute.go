package transaction

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/halcyon-chain/halcyon-go/pkg/io"
)

// AttrType represents the purpose of the attribute.
type AttrType uint8

const (
	// HighPriority whitelisted (committee-signed) transactions are sorted
	// before other transactions in a block.
	HighPriority AttrType = 0x01
	// NotValidBeforeT makes the transaction invalid before a certain height.
	NotValidBeforeT AttrType = 0x20
)

// AttrValue represents a Transaction Attribute value.
type AttrValue interface {
	io.Serializable
	// Copy returns a deep copy of the attribute value.
	Copy() AttrValue
}

// Attribute represents a Transaction attribute.
type Attribute struct {
	Type  AttrType
	Value AttrValue
}

// attrJSON is used for JSON I/O of Attribute.
type attrJSON struct {
	Type string `json:"type"`
}

// NotValidBefore represents the NotValidBefore attribute.
type NotValidBefore struct {
	Height uint32 `json:"height"`
}

// EncodeBinary implements the Serializable interface.
func (n *NotValidBefore) EncodeBinary(w *io.BinWriter) {
	w.WriteU32LE(n.Height)
}

// DecodeBinary implements the Serializable interface.
func (n *NotValidBefore) DecodeBinary(br *io.BinReader) {
	n.Height = br.ReadU32LE()
}

// Copy implements the AttrValue interface.
func (n *NotValidBefore) Copy() AttrValue {
	return &NotValidBefore{Height: n.Height}
}

// String implements the stringer interface.
func (t AttrType) String() string {
	switch t {
	case HighPriority:
		return "HighPriority"
	case NotValidBeforeT:
		return "NotValidBefore"
	default:
		return fmt.Sprintf("AttrType(0x%02X)", uint8(t))
	}
}

// EncodeBinary implements the Serializable interface.
func (attr *Attribute) EncodeBinary(bw *io.BinWriter) {
	bw.WriteB(byte(attr.Type))
	switch attr.Type {
	case HighPriority:
	case NotValidBeforeT:
		attr.Value.EncodeBinary(bw)
	default:
		bw.Err = fmt.Errorf("failed to encode attribute: unknown attribute type 0x%02X", uint8(attr.Type))
	}
}

// DecodeBinary implements the Serializable interface.
func (attr *Attribute) DecodeBinary(br *io.BinReader) {
	attr.Type = AttrType(br.ReadB())
	switch attr.Type {
	case HighPriority:
	case NotValidBeforeT:
		attr.Value = new(NotValidBefore)
		attr.Value.DecodeBinary(br)
	default:
		br.Err = fmt.Errorf("failed to decode attribute: unknown attribute type 0x%02X", uint8(attr.Type))
	}
}

// MarshalJSON implements the json.Marshaler interface.
func (attr Attribute) MarshalJSON() ([]byte, error) {
	switch attr.Type {
	case HighPriority:
		return json.Marshal(attrJSON{Type: attr.Type.String()})
	case NotValidBeforeT:
		nvb, ok := attr.Value.(*NotValidBefore)
		if !ok {
			return nil, errors.New("invalid NotValidBefore value")
		}
		return json.Marshal(struct {
			attrJSON
			Height uint32 `json:"height"`
		}{
			attrJSON: attrJSON{Type: attr.Type.String()},
			Height:   nvb.Height,
		})
	default:
		return nil, fmt.Errorf("unknown attribute type 0x%02X", uint8(attr.Type))
	}
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (attr *Attribute) UnmarshalJSON(data []byte) error {
	aux := new(attrJSON)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	switch aux.Type {
	case HighPriority.String():
		attr.Type = HighPriority
		attr.Value = nil
		return nil
	case NotValidBeforeT.String():
		v := struct {
			Height uint32 `json:"height"`
		}{}
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		attr.Type = NotValidBeforeT
		attr.Value = &NotValidBefore{Height: v.Height}
		return nil
	default:
		return fmt.Errorf("unknown attribute type %s", aux.Type)
	}
}

// Copy creates a deep copy of the Attribute.
func (attr *Attribute) Copy() *Attribute {
	if attr == nil {
		return nil
	}
	cp := &Attribute{Type: attr.Type}
	if attr.Value != nil {
		cp.Value = attr.Value.Copy()
	}
	return cp
}
