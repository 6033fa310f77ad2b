package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a script runs past its time limit.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrNoHost is returned by NewRuntime without a host.
	ErrNoHost = errors.New("lua runtime requires a host")

	// ErrUnknownCapability is returned by ParseCapability.
	ErrUnknownCapability = errors.New("unknown capability")
)

// ScriptError is an error raised by Lua code.
type ScriptError struct {
	Message string
	Err     error
}

func (e *ScriptError) Error() string {
	return "lua: " + e.Message
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}
