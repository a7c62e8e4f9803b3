package rpc

import (
	"errors"
	"fmt"
)

// Error represents a JSON-RPC 2.0 error object embedded into a response.
type Error struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

// Standard JSON-RPC 2.0 error codes plus the server-side codes Halcyon nodes
// use.
const (
	// InternalServerErrorCode is returned for internal RPC server errors.
	InternalServerErrorCode = -32603
	// BadRequestCode is returned for a malformed request object.
	BadRequestCode = -32700
	// InvalidRequestCode is returned for an invalid request.
	InvalidRequestCode = -32600
	// MethodNotFoundCode is returned for unknown methods.
	MethodNotFoundCode = -32601
	// InvalidParamsCode is returned for requests with bad parameters.
	InvalidParamsCode = -32602

	// ErrUnknownTransactionCode is returned from getrawtransaction for
	// transactions the node doesn't know about.
	ErrUnknownTransactionCode = -101
	// ErrMempoolCapReachedCode is returned when the node mempool is full.
	ErrMempoolCapReachedCode = -105
	// ErrVerificationFailedCode is returned for transactions failing witness
	// or policy checks.
	ErrVerificationFailedCode = -500
	// ErrAlreadyExistsCode is returned when the submitted transaction is
	// already known to the node.
	ErrAlreadyExistsCode = -501
	// ErrExpiredTransactionCode is returned for transactions past their
	// ValidUntilBlock.
	ErrExpiredTransactionCode = -505
	// ErrInsufficientFundsCode is returned when the sender can't pay the
	// declared fees.
	ErrInsufficientFundsCode = -511
)

// NewError is an Error constructor that takes Error contents from its
// parameters.
func NewError(code int64, message string, data string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// NewInvalidParamsError creates a new error with the InvalidParamsCode.
func NewInvalidParamsError(data string) *Error {
	return NewError(InvalidParamsCode, "Invalid params", data)
}

// NewInternalServerError creates a new error with the
// InternalServerErrorCode.
func NewInternalServerError(data string) *Error {
	return NewError(InternalServerErrorCode, "Internal error", data)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Data) == 0 {
		return fmt.Sprintf("%s (%d)", e.Message, e.Code)
	}
	return fmt.Sprintf("%s (%d) - %s", e.Message, e.Code, e.Data)
}

// Is implements the interface used by errors.Is allowing to compare Errors
// by code.
func (e *Error) Is(target error) bool {
	var clTarget *Error
	if errors.As(target, &clTarget) {
		return e.Code == clTarget.Code
	}
	return false
}
