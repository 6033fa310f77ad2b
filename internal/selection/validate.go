package selection

import "github.com/dshills/inkwell/internal/model"

// Validate reports whether sel still addresses doc: text endpoints must be
// inside existing leaf blocks and node or gap targets must exist.
func Validate(doc *model.Document, sel Selection) bool {
	switch s := sel.(type) {
	case TextSelection:
		return s.Anchor.ValidIn(doc) && s.Head.ValidIn(doc)
	case NodeSelection:
		_, ok := model.FindBlock(doc, s.NodeID)
		return ok
	case GapCursor:
		_, ok := model.FindBlock(doc, s.BlockID)
		return ok
	}
	return false
}

// Clamp returns a selection that is valid in doc. Offsets past a block's end
// are pulled back to the end; endpoints in missing blocks fall back to the
// start of the first leaf block. A nil selection yields that fallback cursor.
func Clamp(doc *model.Document, sel Selection) Selection {
	switch s := sel.(type) {
	case TextSelection:
		return TextSelection{Anchor: clampPosition(doc, s.Anchor), Head: clampPosition(doc, s.Head)}
	case NodeSelection:
		if _, ok := model.FindBlock(doc, s.NodeID); ok {
			return Node(doc, s.NodeID)
		}
	case GapCursor:
		if _, ok := model.FindBlock(doc, s.BlockID); ok {
			return s
		}
	}
	return AtStart(doc)
}

// AtStart returns a cursor at the start of the first leaf block.
func AtStart(doc *model.Document) TextSelection {
	if b, ok := model.FirstLeaf(doc); ok {
		return Cursor(At(b.ID, 0))
	}
	return TextSelection{}
}

// AtEnd returns a cursor at the end of the last leaf block.
func AtEnd(doc *model.Document) TextSelection {
	leaves := model.LeafBlocks(doc)
	if len(leaves) == 0 {
		return TextSelection{}
	}
	last := leaves[len(leaves)-1]
	return Cursor(At(last.ID, model.BlockLength(last)))
}

func clampPosition(doc *model.Document, p Position) Position {
	b, ok := model.FindBlock(doc, p.BlockID)
	if !ok || !b.IsLeaf() {
		return AtStart(doc).Head
	}
	l := model.BlockLength(b)
	switch {
	case p.Offset < 0:
		return At(p.BlockID, 0)
	case p.Offset > l:
		return At(p.BlockID, l)
	}
	return p
}
