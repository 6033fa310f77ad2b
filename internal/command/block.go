package command

import (
	"github.com/dshills/inkwell/internal/model"
	"github.com/dshills/inkwell/internal/selection"
	"github.com/dshills/inkwell/internal/state"
	"github.com/dshills/inkwell/internal/transaction"
)

// SplitBlock splits the block at the cursor, deleting a range selection
// first. The new block gets its id from gen and the cursor moves to its
// start. Splitting a non-paragraph at its very end starts a paragraph.
func SplitBlock(gen model.IDGenerator) Command {
	return func(s *state.EditorState, dispatch Dispatch) bool {
		r, ok := resolveText(s)
		if !ok || gen == nil {
			return false
		}
		newID := gen.NewBlockID()
		if _, taken := s.BlockByID(newID); taken {
			return false
		}
		blk, _ := s.BlockByID(r.from.BlockID)

		b := s.Tr(transaction.OriginInput)
		length := model.BlockLength(blk)
		if !r.collapsed() {
			if !deleteRange(s, b, r) {
				return false
			}
			length = r.from.Offset + remainingAfter(s, r)
		}
		if r.from.Offset == length && blk.Type != model.Paragraph {
			b.SplitBlockAs(blk.ID, r.from.Offset, newID, model.Paragraph, nil)
		} else {
			b.SplitBlock(blk.ID, r.from.Offset, newID)
		}
		b.SetSelection(selection.Cursor(selection.At(newID, 0)))
		return run(b, dispatch)
	}
}

// remainingAfter is the length that follows the cursor once r is deleted.
func remainingAfter(s *state.EditorState, r textRange) int {
	last, _ := s.BlockByID(r.to.BlockID)
	return model.BlockLength(last) - r.to.Offset
}

// SelectNode selects block id as a node. Plain text blocks of a known
// schema type cannot be node-selected.
func SelectNode(id model.BlockID) Command {
	return func(s *state.EditorState, dispatch Dispatch) bool {
		blk, ok := s.BlockByID(id)
		if !ok {
			return false
		}
		reg := s.Schema()
		if _, known := reg.NodeSpec(blk.Type); known && blk.IsLeaf() && !reg.IsSelectable(blk.Type) {
			return false
		}
		b := s.Tr(transaction.OriginCommand)
		b.SetSelection(selection.Node(s.Doc(), id))
		b.SetMeta(transaction.MetaAddToHistory, false)
		return run(b, dispatch)
	}
}

// SetBlockType changes every selected text block to type t. It does not
// apply when no block would change.
func SetBlockType(t model.NodeType, attrs model.Attrs) Command {
	return func(s *state.EditorState, dispatch Dispatch) bool {
		var blocks []*model.BlockNode
		switch sel := s.Selection().(type) {
		case selection.NodeSelection:
			if blk, ok := s.BlockByID(sel.NodeID); ok && blk.IsLeaf() {
				blocks = append(blocks, blk)
			}
		case selection.TextSelection:
			r, ok := resolveText(s)
			if !ok {
				return false
			}
			blocks = leavesBetween(s.Doc(), r.from.BlockID, r.to.BlockID)
		}

		reg := s.Schema()
		b := s.Tr(transaction.OriginCommand)
		for _, blk := range blocks {
			if reg.IsVoid(blk.Type) {
				continue
			}
			if blk.Type == t && model.AttrsEqual(blk.Attrs, attrs) {
				continue
			}
			b.SetBlockType(blk.ID, t, attrs)
		}
		if b.Len() == 0 {
			return false
		}
		return run(b, dispatch)
	}
}
