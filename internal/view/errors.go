package view

import "errors"

var (
	// ErrNotReady is returned by accessors called before Mount.
	ErrNotReady = errors.New("view not mounted, wait for Ready")

	// ErrAlreadyMounted is returned by a second Mount.
	ErrAlreadyMounted = errors.New("view already mounted")

	// ErrNoRoot is returned by Mount when the view has no root element.
	ErrNoRoot = errors.New("view has no root element")
)
