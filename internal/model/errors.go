package model

import "errors"

// Errors returned by model operations.
var (
	// ErrInvalidIdentifier indicates a brand constructor rejected its input.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrMixedChildren indicates a block holds both inline and block children.
	ErrMixedChildren = errors.New("block mixes inline and block children")

	// ErrDuplicateBlockID indicates two blocks in one document share an id.
	ErrDuplicateBlockID = errors.New("duplicate block id")

	// ErrBlockNotFound indicates a block id is not present in the document.
	ErrBlockNotFound = errors.New("block not found")
)
