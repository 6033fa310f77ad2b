package selection

import (
	"fmt"

	"github.com/dshills/inkwell/internal/model"
)

// Position addresses a point inside a leaf block.
type Position struct {
	BlockID model.BlockID
	Offset  int
}

// At creates a position.
func At(id model.BlockID, offset int) Position {
	return Position{BlockID: id, Offset: offset}
}

// String returns "id:offset".
func (p Position) String() string {
	return fmt.Sprintf("%s:%d", p.BlockID, p.Offset)
}

// IsZero reports whether p is the zero position.
func (p Position) IsZero() bool {
	return p.BlockID == "" && p.Offset == 0
}

// ValidIn reports whether p names a leaf block of doc and lies within its length.
func (p Position) ValidIn(doc *model.Document) bool {
	b, ok := model.FindBlock(doc, p.BlockID)
	if !ok || !b.IsLeaf() {
		return false
	}
	return p.Offset >= 0 && p.Offset <= model.BlockLength(b)
}

// ComparePositions orders two positions in document order. It returns -1, 0
// or 1. Positions in blocks missing from doc sort after every valid position.
func ComparePositions(doc *model.Document, a, b Position) int {
	if a.BlockID == b.BlockID {
		return compareInts(a.Offset, b.Offset)
	}
	ia, ib := blockOrder(doc, a.BlockID), blockOrder(doc, b.BlockID)
	return compareInts(ia, ib)
}

func blockOrder(doc *model.Document, id model.BlockID) int {
	for i, b := range model.AllBlocks(doc) {
		if b.ID == id {
			return i
		}
	}
	return int(^uint(0) >> 1)
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
