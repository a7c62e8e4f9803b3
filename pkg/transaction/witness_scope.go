package transaction

import (
	"encoding/json"
	"fmt"
	"strings"
)

// WitnessScope represents set of witness flags for Transaction signer.
type WitnessScope byte

const (
	// None specifies that no contract was witnessed. Only sign the
	// transaction itself, the witness can pay fees but can't be used
	// during execution.
	None WitnessScope = 0
	// CalledByEntry means that this condition must hold: EntryScriptHash == CallingScriptHash.
	// No params is needed, as the witness/permission/signature given on first invocation will
	// automatically expire if entering deeper internal invokes. This is a safe default
	// choice for simple transfers.
	CalledByEntry WitnessScope = 0x01
	// CustomContracts define custom hash for contract-specific witness.
	CustomContracts WitnessScope = 0x10
	// CustomGroups define custom public key for group member witness.
	CustomGroups WitnessScope = 0x20
	// Rules is a set of conditions with boolean operators.
	Rules WitnessScope = 0x40
	// Global allows this witness in all contexts.
	// This cannot be combined with other flags.
	Global WitnessScope = 0x80
)

var scopeNames = []struct {
	scope WitnessScope
	name  string
}{
	{None, "None"},
	{CalledByEntry, "CalledByEntry"},
	{CustomContracts, "CustomContracts"},
	{CustomGroups, "CustomGroups"},
	{Rules, "WitnessRules"},
	{Global, "Global"},
}

// String implements the stringer interface for a single scope flag.
func (s WitnessScope) String() string {
	for _, sn := range scopeNames {
		if sn.scope == s {
			return sn.name
		}
	}
	return fmt.Sprintf("WitnessScope(0x%02X)", byte(s))
}

// ScopesFromString converts a string of comma-separated scopes to a set of
// scopes (case-sensitive). The string can combine several scopes, e.g. be any
// of: 'Global', 'CalledByEntry,CustomGroups' etc. In case of an empty string
// an error will be returned.
func ScopesFromString(s string) (WitnessScope, error) {
	var result WitnessScope
	dict := make(map[string]WitnessScope, len(scopeNames))
	for _, sn := range scopeNames {
		dict[sn.name] = sn.scope
	}
	var isGlobal bool
	for _, scopeStr := range strings.Split(s, ",") {
		scope, ok := dict[strings.TrimSpace(scopeStr)]
		if !ok {
			return result, fmt.Errorf("invalid witness scope: %v", scopeStr)
		}
		if isGlobal && scope != Global {
			return result, fmt.Errorf("Global scope can not be combined with other scopes")
		}
		result |= scope
		if scope == Global {
			isGlobal = true
		}
	}
	return result, nil
}

// ScopesFromByte converts a byte to a set of scopes validating it against the
// set of known flags and the Global combination rule.
func ScopesFromByte(b byte) (WitnessScope, error) {
	var res = WitnessScope(b)
	if res & ^(Global|CalledByEntry|CustomContracts|CustomGroups|Rules|None) != 0 {
		return 0, fmt.Errorf("invalid scope %d", b)
	}
	if res&Global != 0 && res != Global {
		return 0, fmt.Errorf("Global scope can not be combined with other scopes")
	}
	return res, nil
}

// scopesToString converts witness scope to its string representation. It uses
// `, ` to separate scope names.
func scopesToString(scopes WitnessScope) string {
	if scopes&Global != 0 || scopes == None {
		return scopes.String()
	}
	var res string
	for _, sn := range scopeNames {
		if sn.scope == None || sn.scope == Global || scopes&sn.scope == 0 {
			continue
		}
		if len(res) != 0 {
			res += ", "
		}
		res += sn.name
	}
	return res
}

// MarshalJSON implements the json.Marshaler interface.
func (s WitnessScope) MarshalJSON() ([]byte, error) {
	return []byte(`"` + scopesToString(s) + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (s *WitnessScope) UnmarshalJSON(data []byte) error {
	var js string
	if err := json.Unmarshal(data, &js); err != nil {
		return err
	}
	scopes, err := ScopesFromString(js)
	if err != nil {
		return err
	}
	*s = scopes
	return nil
}
