package transaction

import "errors"

// Errors returned by Build.
var (
	// ErrNoWorkingDoc indicates a builder method needed to read the
	// document but the builder was created without one.
	ErrNoWorkingDoc = errors.New("builder has no working document")

	// ErrInvalidStep indicates a builder method was given arguments that
	// cannot form a step.
	ErrInvalidStep = errors.New("invalid step arguments")
)
