package script

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a kind of script execution failure
type ErrorCode int

const (
	// ErrInternal is returned for conditions that indicate a bug
	ErrInternal ErrorCode = iota

	// ErrScriptTooBig is returned when a script exceeds the size limit
	ErrScriptTooBig

	// ErrElementTooBig is returned when a pushed or computed element
	// exceeds the element size limit
	ErrElementTooBig

	// ErrTooManyOperations is returned when the executed op count exceeds
	// the configured limit
	ErrTooManyOperations

	// ErrStackOverflow is returned when the combined stack depth exceeds
	// the limit
	ErrStackOverflow

	// ErrMalformedPush is returned when a push opcode runs past the end of
	// the script
	ErrMalformedPush

	// ErrMinimalData is returned when a push or number is not minimally
	// encoded
	ErrMinimalData

	// ErrMinimalIf is returned when an IF argument is not empty or 0x01
	ErrMinimalIf

	// ErrNumberTooBig is returned when a numeric operand is too long
	ErrNumberTooBig

	// ErrInvalidStackOperation is returned on stack underflow or an out of
	// range index
	ErrInvalidStackOperation

	// ErrUnbalancedConditional is returned for ELSE/ENDIF without IF or an
	// IF without ENDIF
	ErrUnbalancedConditional

	// ErrDisabledOpcode is returned for opcodes the engine refuses
	ErrDisabledOpcode

	// ErrReservedOpcode is returned for reserved opcodes
	ErrReservedOpcode

	// ErrEarlyReturn is returned by OP_RETURN
	ErrEarlyReturn

	// ErrVerify is returned when OP_VERIFY fails
	ErrVerify

	// ErrEqualVerify is returned when OP_EQUALVERIFY fails
	ErrEqualVerify

	// ErrNumEqualVerify is returned when OP_NUMEQUALVERIFY fails
	ErrNumEqualVerify

	// ErrEmptyStack is returned when the script ends with an empty stack
	ErrEmptyStack

	// ErrEvalFalse is returned when the script ends with a false top item
	ErrEvalFalse
)

var errorCodeStrings = map[ErrorCode]string{
	ErrInternal:              "ErrInternal",
	ErrScriptTooBig:          "ErrScriptTooBig",
	ErrElementTooBig:         "ErrElementTooBig",
	ErrTooManyOperations:     "ErrTooManyOperations",
	ErrStackOverflow:         "ErrStackOverflow",
	ErrMalformedPush:         "ErrMalformedPush",
	ErrMinimalData:           "ErrMinimalData",
	ErrMinimalIf:             "ErrMinimalIf",
	ErrNumberTooBig:          "ErrNumberTooBig",
	ErrInvalidStackOperation: "ErrInvalidStackOperation",
	ErrUnbalancedConditional: "ErrUnbalancedConditional",
	ErrDisabledOpcode:        "ErrDisabledOpcode",
	ErrReservedOpcode:        "ErrReservedOpcode",
	ErrEarlyReturn:           "ErrEarlyReturn",
	ErrVerify:                "ErrVerify",
	ErrEqualVerify:           "ErrEqualVerify",
	ErrNumEqualVerify:        "ErrNumEqualVerify",
	ErrEmptyStack:            "ErrEmptyStack",
	ErrEvalFalse:             "ErrEvalFalse",
}

// String returns the ErrorCode as a human-readable name
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error identifies a script execution failure
type Error struct {
	Code        ErrorCode
	Description string
}

// Error returns the error message
func (e *Error) Error() string {
	return e.Description
}

// Is reports whether target is a script error with the same code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// scriptError creates an Error given a set of arguments
func scriptError(c ErrorCode, desc string) *Error {
	return &Error{Code: c, Description: desc}
}

// IsErrorCode returns whether err is a script error with the given code
func IsErrorCode(err error, c ErrorCode) bool {
	var serr *Error
	return errors.As(err, &serr) && serr.Code == c
}
