package selection

import (
	"slices"

	"github.com/dshills/inkwell/internal/model"
)

// Type discriminates selection variants.
type Type int

const (
	// TypeText is a TextSelection.
	TypeText Type = iota + 1
	// TypeNode is a NodeSelection.
	TypeNode
	// TypeGap is a GapCursor.
	TypeGap
)

// String returns the variant name.
func (t Type) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypeNode:
		return "node"
	case TypeGap:
		return "gap"
	default:
		return "unknown"
	}
}

// Selection is one of TextSelection, NodeSelection or GapCursor.
type Selection interface {
	Type() Type
	selection()
}

// TextSelection spans from Anchor (where it started) to Head (where typing
// happens). It is a cursor when Anchor == Head.
type TextSelection struct {
	Anchor Position
	Head   Position
}

// NodeSelection selects a whole block. Path lists ancestor ids root first,
// ending with NodeID.
type NodeSelection struct {
	NodeID model.BlockID
	Path   []model.BlockID
}

// Side says which edge of a block a gap cursor touches.
type Side int

const (
	// SideBefore places the cursor before the block.
	SideBefore Side = iota
	// SideAfter places the cursor after the block.
	SideAfter
)

// GapCursor sits between blocks, adjacent to BlockID.
type GapCursor struct {
	BlockID model.BlockID
	Side    Side
}

func (TextSelection) Type() Type { return TypeText }
func (NodeSelection) Type() Type { return TypeNode }
func (GapCursor) Type() Type     { return TypeGap }

func (TextSelection) selection() {}
func (NodeSelection) selection() {}
func (GapCursor) selection()     {}

// Cursor creates a collapsed text selection.
func Cursor(p Position) TextSelection {
	return TextSelection{Anchor: p, Head: p}
}

// Range creates a text selection from anchor to head.
func Range(anchor, head Position) TextSelection {
	return TextSelection{Anchor: anchor, Head: head}
}

// Node creates a node selection for id inside doc, deriving its path.
func Node(doc *model.Document, id model.BlockID) NodeSelection {
	path := model.BlockPath(doc, id)
	if path == nil {
		path = []model.BlockID{id}
	}
	return NodeSelection{NodeID: id, Path: path}
}

// Gap creates a gap cursor.
func Gap(id model.BlockID, side Side) GapCursor {
	return GapCursor{BlockID: id, Side: side}
}

// Collapsed reports whether the selection is a collapsed text cursor.
func (s TextSelection) Collapsed() bool {
	return s.Anchor == s.Head
}

// SameBlock reports whether anchor and head are in one block.
func (s TextSelection) SameBlock() bool {
	return s.Anchor.BlockID == s.Head.BlockID
}

// From returns the earlier endpoint in document order.
func (s TextSelection) From(doc *model.Document) Position {
	if ComparePositions(doc, s.Anchor, s.Head) <= 0 {
		return s.Anchor
	}
	return s.Head
}

// To returns the later endpoint in document order.
func (s TextSelection) To(doc *model.Document) Position {
	if ComparePositions(doc, s.Anchor, s.Head) <= 0 {
		return s.Head
	}
	return s.Anchor
}

// IsText reports whether sel is a TextSelection.
func IsText(sel Selection) bool {
	_, ok := sel.(TextSelection)
	return ok
}

// IsNode reports whether sel is a NodeSelection.
func IsNode(sel Selection) bool {
	_, ok := sel.(NodeSelection)
	return ok
}

// IsGap reports whether sel is a GapCursor.
func IsGap(sel Selection) bool {
	_, ok := sel.(GapCursor)
	return ok
}

// IsCollapsed reports whether sel is a collapsed text cursor.
func IsCollapsed(sel Selection) bool {
	ts, ok := sel.(TextSelection)
	return ok && ts.Collapsed()
}

// SelectedNodeID returns the selected block of a NodeSelection.
func SelectedNodeID(sel Selection) (model.BlockID, bool) {
	ns, ok := sel.(NodeSelection)
	if !ok {
		return "", false
	}
	return ns.NodeID, true
}

// Equal compares two selections by value. Nil equals only nil.
func Equal(a, b Selection) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case TextSelection:
		y, ok := b.(TextSelection)
		return ok && x == y
	case NodeSelection:
		y, ok := b.(NodeSelection)
		return ok && x.NodeID == y.NodeID && slices.Equal(x.Path, y.Path)
	case GapCursor:
		y, ok := b.(GapCursor)
		return ok && x == y
	}
	return false
}
