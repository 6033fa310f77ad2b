package selsync

import "errors"

var (
	// ErrBlockNotMounted is returned when a selection names a block that has
	// no element under the root.
	ErrBlockNotMounted = errors.New("block not mounted")

	// ErrOffsetOutOfRange is returned when an offset lies past the rendered
	// content of its block.
	ErrOffsetOutOfRange = errors.New("offset out of range")
)
