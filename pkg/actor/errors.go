package actor

import (
	"fmt"

	"github.com/halcyon-chain/halcyon-go/pkg/util"
)

// ImmutableStateError is returned on an attempt to change a transaction
// that has already been signed or submitted.
type ImmutableStateError struct {
	Op    string
	State State
}

// Error implements the error interface.
func (e *ImmutableStateError) Error() string {
	return fmt.Sprintf("%s is not allowed in the %s state", e.Op, e.State)
}

// IncompleteTransactionError is returned when a step is attempted before
// its prerequisites, it names the first missing one.
type IncompleteTransactionError struct {
	Missing string
}

// Error implements the error interface.
func (e *IncompleteTransactionError) Error() string {
	return fmt.Sprintf("transaction is incomplete: %s missing", e.Missing)
}

// ValidityRangeError is returned when the requested expiry height is not
// within (current height, current height + maximum increment].
type ValidityRangeError struct {
	Height    uint32
	Requested uint32
	MaxDelta  uint32
}

// Error implements the error interface.
func (e *ValidityRangeError) Error() string {
	return fmt.Sprintf("height %d is outside of the valid range (%d, %d]",
		e.Requested, e.Height, e.Height+e.MaxDelta)
}

// PartialSignatureError is returned when some signer couldn't produce its
// witness. No witnesses are attached in that case.
type PartialSignatureError struct {
	Account util.Uint160
	Cause   error
}

// Error implements the error interface.
func (e *PartialSignatureError) Error() string {
	return fmt.Sprintf("no witness for signer %s: %v", e.Account.StringLE(), e.Cause)
}

// Unwrap implements the error wrapper interface.
func (e *PartialSignatureError) Unwrap() error {
	return e.Cause
}
