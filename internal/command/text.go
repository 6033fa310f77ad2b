package command

import (
	"unicode/utf8"

	"github.com/dshills/inkwell/internal/model"
	"github.com/dshills/inkwell/internal/selection"
	"github.com/dshills/inkwell/internal/state"
	"github.com/dshills/inkwell/internal/step"
	"github.com/dshills/inkwell/internal/transaction"
)

// InsertText replaces the text selection with text. The inserted text takes
// the stored marks, or the marks of the character before the cursor.
func InsertText(text string) Command {
	return func(s *state.EditorState, dispatch Dispatch) bool {
		r, ok := resolveText(s)
		if !ok || text == "" {
			return false
		}
		marks := s.MarksAtCursor()
		if !r.collapsed() && s.StoredMarks() == nil {
			blk, _ := s.BlockByID(r.from.BlockID)
			marks = model.MarksAtOffset(blk, r.from.Offset)
		}
		b := s.Tr(transaction.OriginInput)
		if !r.collapsed() && !deleteRange(s, b, r) {
			return false
		}
		b.InsertText(r.from.BlockID, r.from.Offset, text, marks...)
		b.SetSelection(selection.Cursor(selection.At(r.from.BlockID, r.from.Offset+utf8.RuneCountInString(text))))
		return run(b, dispatch)
	}
}

// DeleteSelection deletes a non-empty text selection or the selected node.
func DeleteSelection(s *state.EditorState, dispatch Dispatch) bool {
	if ns, ok := s.Selection().(selection.NodeSelection); ok {
		return deleteNode(s, ns.NodeID, dispatch)
	}
	r, ok := resolveText(s)
	if !ok || r.collapsed() {
		return false
	}
	b := s.Tr(transaction.OriginCommand)
	if !deleteRange(s, b, r) {
		return false
	}
	b.SetSelection(selection.Cursor(r.from))
	return run(b, dispatch)
}

// DeleteBackward deletes the selection, or the unit before the cursor. At
// the start of a block it joins the block to the previous one, or selects
// the previous block when that one cannot be joined.
func DeleteBackward(s *state.EditorState, dispatch Dispatch) bool {
	if selection.IsNode(s.Selection()) {
		return DeleteSelection(s, dispatch)
	}
	r, ok := resolveText(s)
	if !ok {
		return false
	}
	if !r.collapsed() {
		return DeleteSelection(s, dispatch)
	}
	pos := r.from
	b := s.Tr(transaction.OriginInput)
	if pos.Offset > 0 {
		b.DeleteTextAt(pos.BlockID, pos.Offset-1, pos.Offset)
		b.SetSelection(selection.Cursor(selection.At(pos.BlockID, pos.Offset-1)))
		return run(b, dispatch)
	}

	list, i := siblings(s.Doc(), pos.BlockID)
	if i <= 0 {
		return false
	}
	prev := list[i-1]
	if !prev.IsLeaf() || s.Schema().IsVoid(prev.Type) {
		b.SetSelection(selection.Node(s.Doc(), prev.ID))
		b.SetMeta(transaction.MetaAddToHistory, false)
		return run(b, dispatch)
	}
	b.MergeBlocks(prev.ID, pos.BlockID)
	b.SetSelection(selection.Cursor(selection.At(prev.ID, model.BlockLength(prev))))
	return run(b, dispatch)
}

// deleteNode removes a block and puts the cursor into a neighbour.
func deleteNode(s *state.EditorState, id model.BlockID, dispatch Dispatch) bool {
	list, i := siblings(s.Doc(), id)
	if i < 0 || len(list) < 2 {
		return false
	}
	b := s.Tr(transaction.OriginCommand)
	b.RemoveNode(id)
	if i+1 < len(list) {
		b.SetSelection(near(s, list[i+1], false))
	} else {
		b.SetSelection(near(s, list[i-1], true))
	}
	return run(b, dispatch)
}

// near returns a selection at the start or end of blk: a cursor in its
// first or last leaf, or a node selection when that leaf holds no text.
func near(s *state.EditorState, blk *model.BlockNode, end bool) selection.Selection {
	for !blk.IsLeaf() {
		kids := blk.ChildBlocks()
		if len(kids) == 0 {
			break
		}
		if end {
			blk = kids[len(kids)-1]
		} else {
			blk = kids[0]
		}
	}
	if !blk.IsLeaf() || s.Schema().IsVoid(blk.Type) {
		return selection.Node(s.Doc(), blk.ID)
	}
	off := 0
	if end {
		off = model.BlockLength(blk)
	}
	return selection.Cursor(selection.At(blk.ID, off))
}

// deleteRange adds the steps deleting r to b. A range across blocks must
// start and end in siblings; the blocks between are removed and the last
// block is joined to the first.
func deleteRange(s *state.EditorState, b *transaction.Builder, r textRange) bool {
	if r.from.BlockID == r.to.BlockID {
		b.DeleteTextAt(r.from.BlockID, r.from.Offset, r.to.Offset)
		return true
	}
	list, i := siblings(s.Doc(), r.from.BlockID)
	if i < 0 {
		return false
	}
	j := -1
	for k := i + 1; k < len(list); k++ {
		if list[k].ID == r.to.BlockID {
			j = k
			break
		}
	}
	if j < 0 {
		return false
	}
	first, last := list[i], list[j]
	if l := model.BlockLength(first); r.from.Offset < l {
		b.DeleteTextAt(first.ID, r.from.Offset, l)
	}
	if r.to.Offset > 0 {
		b.DeleteTextAt(last.ID, 0, r.to.Offset)
	}
	for k := j - 1; k > i; k-- {
		b.RemoveNode(list[k].ID)
	}
	b.Step(step.MergeBlocks{
		TargetID:     first.ID,
		SourceID:     last.ID,
		TargetLength: r.from.Offset,
		SourceType:   last.Type,
		SourceAttrs:  last.Attrs,
	})
	return true
}
