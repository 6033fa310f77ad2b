package fixture

import (
	"errors"
	"fmt"
)

// Errors returned while reading fixtures.
var (
	// ErrNoBlocks indicates a document file without blocks.
	ErrNoBlocks = errors.New("document has no blocks")

	// ErrInvalidNode indicates a child that is not text, inline or block.
	ErrInvalidNode = errors.New("node must have text, inline or type")

	// ErrMixedChildren indicates a block with both inline and block children.
	ErrMixedChildren = errors.New("block mixes inline and block children")

	// ErrMissingID indicates a block without id and no generator to make one.
	ErrMissingID = errors.New("block has no id")

	// ErrInvalidSelection indicates a selection that does not address the document.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrUnknownOp indicates a script operation name that is not recognized.
	ErrUnknownOp = errors.New("unknown operation")

	// ErrNotApplicable indicates a script operation that did not apply.
	ErrNotApplicable = errors.New("operation did not apply")
)

// NodeError locates a failure inside a document file.
type NodeError struct {
	// Path is the location, e.g. blocks[1].children[0].
	Path string
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

// OpError reports the script operation that failed.
type OpError struct {
	Index int
	Op    string
	Err   error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("ops[%d] %s: %v", e.Index, e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}
