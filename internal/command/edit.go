package command

import (
	"errors"
	"fmt"

	"github.com/dshills/inkwell/internal/model"
	"github.com/dshills/inkwell/internal/selection"
	"github.com/dshills/inkwell/internal/state"
	"github.com/dshills/inkwell/internal/transaction"
)

// ErrNotApplied is returned by Apply when the target kept its state.
var ErrNotApplied = errors.New("transaction was not applied")

// Edit builds one transaction against s addressed by block id and offset,
// independent of the selection. Edits carry the command origin.
type Edit func(s *state.EditorState) (*transaction.Transaction, error)

// Target is an editor that accepts transactions.
type Target interface {
	State() *state.EditorState
	Dispatch(tr *transaction.Transaction)
}

// Apply builds e against t's state and dispatches it. It fails when the
// edit cannot be built or t did not apply the transaction.
func Apply(t Target, e Edit) error {
	before := t.State()
	tr, err := e(before)
	if err != nil {
		return err
	}
	t.Dispatch(tr)
	if t.State() == before {
		return ErrNotApplied
	}
	return nil
}

// Command adapts e to a Command that ignores build errors.
func (e Edit) Command() Command {
	return func(s *state.EditorState, dispatch Dispatch) bool {
		tr, err := e(s)
		if err != nil {
			return false
		}
		if dispatch != nil {
			dispatch(tr)
		}
		return true
	}
}

// InsertTextAt inserts text at id:offset and puts the cursor after it.
func InsertTextAt(id model.BlockID, offset int, text string, marks ...model.Mark) Edit {
	return func(s *state.EditorState) (*transaction.Transaction, error) {
		b := s.Tr(transaction.OriginCommand).InsertText(id, offset, text, marks...)
		b.SetSelection(selection.Cursor(selection.At(id, offset+len([]rune(text)))))
		return b.Build()
	}
}

// DeleteTextAt deletes id[from:to].
func DeleteTextAt(id model.BlockID, from, to int) Edit {
	return func(s *state.EditorState) (*transaction.Transaction, error) {
		return s.Tr(transaction.OriginCommand).DeleteTextAt(id, from, to).Build()
	}
}

// AddMarkAt adds a mark of type t to id[from:to], filling schema defaults
// into attrs.
func AddMarkAt(id model.BlockID, from, to int, t model.MarkType, attrs model.Attrs) Edit {
	return func(s *state.EditorState) (*transaction.Transaction, error) {
		mark := s.Schema().MarkWithDefaults(model.NewMarkWithAttrs(t, attrs))
		return s.Tr(transaction.OriginCommand).AddMark(id, from, to, mark).Build()
	}
}

// RemoveMarkAt removes marks of type t from id[from:to]. Each run is removed
// with the mark it carries so the inverse restores its attributes. It fails
// when no text in the range has the mark.
func RemoveMarkAt(id model.BlockID, from, to int, t model.MarkType) Edit {
	return func(s *state.EditorState) (*transaction.Transaction, error) {
		blk, ok := s.BlockByID(id)
		if !ok {
			return nil, fmt.Errorf("removeMark %q: %w", id, model.ErrBlockNotFound)
		}
		if from < 0 || from > to || to > model.BlockLength(blk) {
			return nil, fmt.Errorf("removeMark %q [%d, %d): offset out of range", id, from, to)
		}
		b := s.Tr(transaction.OriginCommand)
		off := from
		for _, seg := range model.SegmentsInRange(blk, from, to) {
			end := off + seg.Len()
			if m, has := model.FindMark(seg.Marks, t); has {
				b.RemoveMark(id, off, end, m)
			}
			off = end
		}
		if b.Len() == 0 {
			return nil, fmt.Errorf("removeMark %q [%d, %d): no %s mark", id, from, to, t)
		}
		return b.Build()
	}
}

// SplitBlockAt splits id at offset into newID and puts the cursor at the
// start of newID.
func SplitBlockAt(id model.BlockID, offset int, newID model.BlockID) Edit {
	return func(s *state.EditorState) (*transaction.Transaction, error) {
		if _, ok := s.BlockByID(id); !ok {
			return nil, fmt.Errorf("splitBlock %q: %w", id, model.ErrBlockNotFound)
		}
		if _, taken := s.BlockByID(newID); taken {
			return nil, fmt.Errorf("splitBlock %q: id %q is taken", id, newID)
		}
		b := s.Tr(transaction.OriginCommand).SplitBlock(id, offset, newID)
		b.SetSelection(selection.Cursor(selection.At(newID, 0)))
		return b.Build()
	}
}

// SetCursor moves the cursor to id:offset, which must lie in a text block.
func SetCursor(id model.BlockID, offset int) Edit {
	return func(s *state.EditorState) (*transaction.Transaction, error) {
		sel := selection.Cursor(selection.At(id, offset))
		b, ok := s.BlockByID(id)
		if !ok || s.Schema().IsVoid(b.Type) || !selection.Validate(s.Doc(), sel) {
			return nil, fmt.Errorf("invalid cursor %s", sel.Head)
		}
		return s.Tr(transaction.OriginCommand).SetSelection(sel).Build()
	}
}
