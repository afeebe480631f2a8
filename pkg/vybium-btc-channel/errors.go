package vybiumbtcchannel

import "fmt"

// ErrorCode represents a channel error code
type ErrorCode int

const (
	// ErrUnknown represents an unknown error
	ErrUnknown ErrorCode = iota

	// ErrInvalidConfig represents an invalid configuration error
	ErrInvalidConfig

	// ErrInvalidHint represents a hint whose shape does not match the
	// fragment it is fed to
	ErrInvalidHint

	// ErrScriptBuild represents a failure to assemble a fragment
	ErrScriptBuild

	// ErrVerificationFailed represents a fragment that rejected its inputs
	ErrVerificationFailed

	// ErrInvalidInput represents an invalid input error
	ErrInvalidInput
)

var errorCodeNames = map[ErrorCode]string{
	ErrUnknown:            "unknown",
	ErrInvalidConfig:      "invalid config",
	ErrInvalidHint:        "invalid hint",
	ErrScriptBuild:        "script build",
	ErrVerificationFailed: "verification failed",
	ErrInvalidInput:       "invalid input",
}

// String returns the name of the code
func (c ErrorCode) String() string {
	if s, ok := errorCodeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// ChannelError represents a channel error
type ChannelError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error returns the error message
func (e *ChannelError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("vybium-btc-channel error [%d]: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("vybium-btc-channel error [%d]: %s", e.Code, e.Message)
}

// Unwrap returns the cause of the error
func (e *ChannelError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error
func (e *ChannelError) Is(target error) bool {
	t, ok := target.(*ChannelError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func newError(code ErrorCode, msg string, cause error) *ChannelError {
	return &ChannelError{Code: code, Message: msg, Cause: cause}
}
