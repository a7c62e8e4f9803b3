package transaction

import (
	"encoding/base64"
	"encoding/json"

	"github.com/halcyon-chain/halcyon-go/pkg/crypto/hash"
	"github.com/halcyon-chain/halcyon-go/pkg/io"
	"github.com/halcyon-chain/halcyon-go/pkg/util"
)

// MaxInvocationScript is the maximum length of allowed invocation script. It
// should fit 16 PUSHDATA1 signature pushes.
const MaxInvocationScript = 1024

// MaxVerificationScript is the maximum allowed length of verification script.
// It should be appropriate for 16 public keys multisig.
const MaxVerificationScript = 1024

// Witness contains an invocation script and a verification script. Contract
// based witnesses have an empty verification script, the logic lives in the
// deployed contract.
type Witness struct {
	InvocationScript   []byte `json:"invocation"`
	VerificationScript []byte `json:"verification"`
}

// EncodeBinary implements the Serializable interface.
func (w *Witness) EncodeBinary(writer *io.BinWriter) {
	writer.WriteVarBytes(w.InvocationScript)
	writer.WriteVarBytes(w.VerificationScript)
}

// DecodeBinary implements the Serializable interface.
func (w *Witness) DecodeBinary(reader *io.BinReader) {
	w.InvocationScript = reader.ReadVarBytes(MaxInvocationScript)
	w.VerificationScript = reader.ReadVarBytes(MaxVerificationScript)
}

// MarshalJSON implements the json.Marshaler interface.
func (w Witness) MarshalJSON() ([]byte, error) {
	data := map[string]string{
		"invocation":   base64.StdEncoding.EncodeToString(w.InvocationScript),
		"verification": base64.StdEncoding.EncodeToString(w.VerificationScript),
	}
	return json.Marshal(data)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (w *Witness) UnmarshalJSON(data []byte) error {
	aux := struct {
		Invocation   string `json:"invocation"`
		Verification string `json:"verification"`
	}{}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	inv, err := base64.StdEncoding.DecodeString(aux.Invocation)
	if err != nil {
		return err
	}
	ver, err := base64.StdEncoding.DecodeString(aux.Verification)
	if err != nil {
		return err
	}
	w.InvocationScript = inv
	w.VerificationScript = ver
	return nil
}

// ScriptHash returns the hash of the verification script.
func (w Witness) ScriptHash() util.Uint160 {
	return hash.Hash160(w.VerificationScript)
}

// Copy creates a deep copy of the Witness.
func (w Witness) Copy() Witness {
	return Witness{
		InvocationScript:   append([]byte{}, w.InvocationScript...),
		VerificationScript: append([]byte{}, w.VerificationScript...),
	}
}
