package step

import (
	"errors"

	"github.com/dshills/inkwell/internal/model"
)

// Errors returned by Apply.
var (
	// ErrBlockNotFound indicates the step references a block that is not
	// in the document.
	ErrBlockNotFound = model.ErrBlockNotFound

	// ErrOffsetOutOfRange indicates an offset or index outside the target.
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrNotLeaf indicates a content step targets a container block.
	ErrNotLeaf = errors.New("block does not hold inline content")

	// ErrNoInlineNode indicates no inline node sits at the given offset.
	ErrNoInlineNode = errors.New("no inline node at offset")

	// ErrNotAdjacent indicates a merge source is not the next sibling of
	// its target.
	ErrNotAdjacent = errors.New("blocks are not adjacent siblings")

	// ErrLastBlock indicates a removal would leave a parent without blocks.
	ErrLastBlock = errors.New("cannot remove the only block of its parent")

	// ErrUnknownStep indicates a Step implementation Apply does not handle.
	ErrUnknownStep = errors.New("unknown step")
)
