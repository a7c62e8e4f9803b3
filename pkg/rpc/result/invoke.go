package result

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/halcyon-chain/halcyon-go/pkg/vm/stackitem"
)

// Invoke represents a code invocation result and is used by several RPC calls
// that invoke functions, scripts and generic bytecode. No state changes
// happen on the chain for these calls, they only simulate execution.
type Invoke struct {
	State          string
	GasConsumed    int64
	Script         []byte
	Stack          []stackitem.Item
	FaultException string
	Session        uuid.UUID
}

type invokeAux struct {
	State          string          `json:"state"`
	GasConsumed    int64           `json:"gasconsumed,string"`
	Script         []byte          `json:"script"`
	Stack          json.RawMessage `json:"stack"`
	FaultException *string         `json:"exception"`
	Session        string          `json:"session,omitempty"`
}

// MarshalJSON implements the json.Marshaler interface.
func (r Invoke) MarshalJSON() ([]byte, error) {
	var (
		st  json.RawMessage
		err error
		arr = make([]json.RawMessage, len(r.Stack))
	)
	for i := range arr {
		arr[i], err = stackitem.ToJSONWithTypes(r.Stack[i])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal stack: %w", err)
		}
	}
	st, err = json.Marshal(arr)
	if err != nil {
		return nil, err
	}

	var sessionID string
	if r.Session != (uuid.UUID{}) {
		sessionID = r.Session.String()
	}
	aux := &invokeAux{
		GasConsumed: r.GasConsumed,
		Script:      r.Script,
		State:       r.State,
		Stack:       st,
		Session:     sessionID,
	}
	if len(r.FaultException) != 0 {
		aux.FaultException = &r.FaultException
	}
	return json.Marshal(aux)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (r *Invoke) UnmarshalJSON(data []byte) error {
	var err error
	aux := new(invokeAux)
	if err = json.Unmarshal(data, aux); err != nil {
		return err
	}
	if len(aux.Session) != 0 {
		r.Session, err = uuid.Parse(aux.Session)
		if err != nil {
			return fmt.Errorf("failed to parse session ID: %w", err)
		}
	}
	var arr []json.RawMessage
	if err = json.Unmarshal(aux.Stack, &arr); err == nil {
		st := make([]stackitem.Item, len(arr))
		for i := range arr {
			st[i], err = stackitem.FromJSONWithTypes(arr[i])
			if err != nil {
				return fmt.Errorf("failed to unmarshal stack: %w", err)
			}
		}
		r.Stack = st
	}
	r.GasConsumed = aux.GasConsumed
	r.Script = aux.Script
	r.State = aux.State
	if aux.FaultException != nil {
		r.FaultException = *aux.FaultException
	}
	return nil
}
