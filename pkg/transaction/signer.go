package transaction

import (
	"errors"

	"github.com/halcyon-chain/halcyon-go/pkg/crypto/keys"
	"github.com/halcyon-chain/halcyon-go/pkg/io"
	"github.com/halcyon-chain/halcyon-go/pkg/util"
)

// The maximum number of AllowedContracts, AllowedGroups or Rules.
const maxSubitems = 16

// Signer implements a Transaction signer.
type Signer struct {
	Account          util.Uint160      `json:"account"`
	Scopes           WitnessScope      `json:"scopes"`
	AllowedContracts []util.Uint160    `json:"allowedcontracts,omitempty"`
	AllowedGroups    []*keys.PublicKey `json:"allowedgroups,omitempty"`
	Rules            []WitnessRule     `json:"rules,omitempty"`
}

// EncodeBinary implements the Serializable interface.
func (c *Signer) EncodeBinary(bw *io.BinWriter) {
	bw.WriteBytes(c.Account[:])
	bw.WriteB(byte(c.Scopes))
	if c.Scopes&CustomContracts != 0 {
		io.WriteArray(bw, c.AllowedContracts)
	}
	if c.Scopes&CustomGroups != 0 {
		bw.WriteVarUint(uint64(len(c.AllowedGroups)))
		for _, g := range c.AllowedGroups {
			g.EncodeBinary(bw)
		}
	}
	if c.Scopes&Rules != 0 {
		io.WriteArray(bw, c.Rules)
	}
}

// DecodeBinary implements the Serializable interface.
func (c *Signer) DecodeBinary(br *io.BinReader) {
	br.ReadBytes(c.Account[:])
	var err error
	c.Scopes, err = ScopesFromByte(br.ReadB())
	if br.Err == nil && err != nil {
		br.Err = err
		return
	}
	if c.Scopes&CustomContracts != 0 {
		io.ReadArray(br, &c.AllowedContracts, maxSubitems)
	}
	if c.Scopes&CustomGroups != 0 {
		n := br.ReadVarUint()
		if br.Err == nil && n > maxSubitems {
			br.Err = errors.New("too many allowed groups")
			return
		}
		c.AllowedGroups = make([]*keys.PublicKey, n)
		for i := range c.AllowedGroups {
			c.AllowedGroups[i] = new(keys.PublicKey)
			c.AllowedGroups[i].DecodeBinary(br)
		}
	}
	if c.Scopes&Rules != 0 {
		io.ReadArray(br, &c.Rules, maxSubitems)
	}
}

// Copy creates a deep copy of the Signer.
func (c *Signer) Copy() *Signer {
	if c == nil {
		return nil
	}
	cp := *c
	if c.AllowedContracts != nil {
		cp.AllowedContracts = make([]util.Uint160, len(c.AllowedContracts))
		copy(cp.AllowedContracts, c.AllowedContracts)
	}
	cp.AllowedGroups = keys.PublicKeys(c.AllowedGroups).Copy()
	if c.Rules != nil {
		cp.Rules = make([]WitnessRule, len(c.Rules))
		copy(cp.Rules, c.Rules)
	}
	return &cp
}
