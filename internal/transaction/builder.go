package transaction

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/inkwell/internal/model"
	"github.com/dshills/inkwell/internal/selection"
	"github.com/dshills/inkwell/internal/step"
)

// Builder accumulates steps for one transaction.
//
// Methods that read the document read the working document given to
// NewBuilder. Steps added earlier to the same builder are not visible to
// them.
type Builder struct {
	selBefore    selection.Selection
	storedBefore []model.Mark
	origin       Origin
	doc          *model.Document

	steps     []step.Step
	selAfter  selection.Selection
	selSet    bool
	stored    []model.Mark
	storedSet bool
	extra     map[string]any
	now       func() time.Time
	err       error
}

// NewBuilder starts a transaction. workingDoc may be nil, in which case
// methods that derive their payload from the document record
// ErrNoWorkingDoc.
func NewBuilder(selBefore selection.Selection, storedBefore []model.Mark, origin Origin, workingDoc *model.Document) *Builder {
	return &Builder{
		selBefore:    selBefore,
		storedBefore: storedBefore,
		origin:       origin,
		doc:          workingDoc,
		now:          time.Now,
	}
}

// WithClock sets the clock used for Meta.Timestamp.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Err returns the first error recorded by a builder method.
func (b *Builder) Err() error {
	return b.err
}

// Len returns the number of accumulated steps.
func (b *Builder) Len() int {
	return len(b.steps)
}

// WorkingDoc returns the document the builder reads from.
func (b *Builder) WorkingDoc() *model.Document {
	return b.doc
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = fmt.Errorf("step %d: %w", len(b.steps), err)
	}
	return b
}

func (b *Builder) add(s step.Step) *Builder {
	if b.err == nil {
		b.steps = append(b.steps, s)
	}
	return b
}

// block reads id from the working document.
func (b *Builder) block(op string, id model.BlockID) (*model.BlockNode, bool) {
	if b.doc == nil {
		b.fail(fmt.Errorf("%s: %w", op, ErrNoWorkingDoc))
		return nil, false
	}
	blk, ok := model.FindBlock(b.doc, id)
	if !ok {
		b.fail(fmt.Errorf("%s: %w", op, &model.BlockError{ID: id, Err: model.ErrBlockNotFound}))
		return nil, false
	}
	return blk, true
}

// Step appends a prebuilt step.
func (b *Builder) Step(s step.Step) *Builder {
	if s == nil {
		return b.fail(fmt.Errorf("nil step: %w", ErrInvalidStep))
	}
	return b.add(s)
}

// InsertText inserts text carrying marks.
func (b *Builder) InsertText(id model.BlockID, offset int, text string, marks ...model.Mark) *Builder {
	return b.add(step.InsertText{BlockID: id, Offset: offset, Text: text, Marks: marks})
}

// InsertSegments inserts content cut along node boundaries, such as pasted
// content or the segments of an earlier delete.
func (b *Builder) InsertSegments(id model.BlockID, offset int, segs []model.Segment) *Builder {
	return b.add(step.InsertText{
		BlockID:  id,
		Offset:   offset,
		Text:     model.SegmentsText(segs),
		Segments: segs,
	})
}

// DeleteText deletes [from, to). The deleted content is recorded from, in
// order of preference, the explicit segments, the working document, or one
// segment built from deletedText and deletedMarks. The last form cannot
// restore spans that crossed differently marked nodes on undo.
func (b *Builder) DeleteText(id model.BlockID, from, to int, deletedText string, deletedMarks []model.Mark, segments ...model.Segment) *Builder {
	s := step.DeleteText{BlockID: id, From: from, To: to, DeletedText: deletedText, DeletedMarks: deletedMarks}
	switch {
	case len(segments) > 0:
		s.DeletedSegments = segments
	case b.doc != nil:
		if blk, ok := model.FindBlock(b.doc, id); ok {
			s.DeletedSegments = model.SegmentsInRange(blk, from, to)
		}
	}
	if len(s.DeletedSegments) == 0 && from < to {
		s.DeletedSegments = []model.Segment{model.TextSegment(deletedText, deletedMarks...)}
	}
	if s.DeletedText == "" {
		s.DeletedText = model.SegmentsText(s.DeletedSegments)
	}
	if s.DeletedMarks == nil {
		s.DeletedMarks = step.FlattenMarks(s.DeletedSegments)
	}
	return b.add(s)
}

// DeleteTextAt deletes [from, to), reading the exact deleted content from
// the working document.
func (b *Builder) DeleteTextAt(id model.BlockID, from, to int) *Builder {
	blk, ok := b.block("deleteTextAt", id)
	if !ok {
		return b
	}
	if l := model.BlockLength(blk); from < 0 || to < from || to > l {
		return b.fail(fmt.Errorf("deleteTextAt %q [%d, %d): %w", id, from, to, step.ErrOffsetOutOfRange))
	}
	segs := model.SegmentsInRange(blk, from, to)
	return b.add(step.DeleteText{
		BlockID:         id,
		From:            from,
		To:              to,
		DeletedText:     model.SegmentsText(segs),
		DeletedMarks:    step.FlattenMarks(segs),
		DeletedSegments: segs,
	})
}

// AddMark adds mark to [from, to).
func (b *Builder) AddMark(id model.BlockID, from, to int, mark model.Mark) *Builder {
	return b.add(step.AddMark{BlockID: id, From: from, To: to, Mark: mark})
}

// RemoveMark removes marks of mark's type from [from, to).
func (b *Builder) RemoveMark(id model.BlockID, from, to int, mark model.Mark) *Builder {
	return b.add(step.RemoveMark{BlockID: id, From: from, To: to, Mark: mark})
}

// SplitBlock splits id at offset into a new block of the same type.
func (b *Builder) SplitBlock(id model.BlockID, offset int, newID model.BlockID) *Builder {
	if newID == "" {
		return b.fail(fmt.Errorf("splitBlock %q: empty new block id: %w", id, ErrInvalidStep))
	}
	return b.add(step.SplitBlock{BlockID: id, Offset: offset, NewBlockID: newID})
}

// SplitBlockAs splits id at offset into a new block of type t.
func (b *Builder) SplitBlockAs(id model.BlockID, offset int, newID model.BlockID, t model.NodeType, attrs model.Attrs) *Builder {
	if newID == "" || t == "" {
		return b.fail(fmt.Errorf("splitBlock %q: empty new block id or type: %w", id, ErrInvalidStep))
	}
	return b.add(step.SplitBlock{BlockID: id, Offset: offset, NewBlockID: newID, NewType: t, NewAttrs: attrs})
}

// MergeBlocks appends source to target, reading what the inverse split
// needs from the working document.
func (b *Builder) MergeBlocks(target, source model.BlockID) *Builder {
	t, ok := b.block("mergeBlocks", target)
	if !ok {
		return b
	}
	src, ok := b.block("mergeBlocks", source)
	if !ok {
		return b
	}
	return b.add(step.MergeBlocks{
		TargetID:     target,
		SourceID:     source,
		TargetLength: model.BlockLength(t),
		SourceType:   src.Type,
		SourceAttrs:  src.Attrs,
	})
}

// InsertInlineNode inserts an inline atom.
func (b *Builder) InsertInlineNode(id model.BlockID, offset int, n *model.InlineNode) *Builder {
	if n == nil {
		return b.fail(fmt.Errorf("insertInlineNode %q: nil node: %w", id, ErrInvalidStep))
	}
	return b.add(step.InsertInlineNode{BlockID: id, Offset: offset, Node: n})
}

// RemoveInlineNode removes the inline atom at offset. A nil removed node is
// read from the working document.
func (b *Builder) RemoveInlineNode(id model.BlockID, offset int, removed *model.InlineNode) *Builder {
	if removed == nil {
		blk, ok := b.block("removeInlineNode", id)
		if !ok {
			return b
		}
		n, ok := model.InlineNodeAt(blk, offset)
		if !ok {
			return b.fail(fmt.Errorf("removeInlineNode %q offset %d: %w", id, offset, step.ErrNoInlineNode))
		}
		removed = n
	}
	return b.add(step.RemoveInlineNode{BlockID: id, Offset: offset, RemovedNode: removed})
}

// SetInlineNodeAttr replaces the attrs of the inline atom at offset.
func (b *Builder) SetInlineNodeAttr(id model.BlockID, offset int, attrs model.Attrs) *Builder {
	blk, ok := b.block("setInlineNodeAttr", id)
	if !ok {
		return b
	}
	n, ok := model.InlineNodeAt(blk, offset)
	if !ok {
		return b.fail(fmt.Errorf("setInlineNodeAttr %q offset %d: %w", id, offset, step.ErrNoInlineNode))
	}
	return b.add(step.SetInlineNodeAttr{BlockID: id, Offset: offset, Attrs: attrs, PreviousAttrs: n.Attrs})
}

// SetBlockType changes the type and attrs of id.
func (b *Builder) SetBlockType(id model.BlockID, t model.NodeType, attrs model.Attrs) *Builder {
	blk, ok := b.block("setBlockType", id)
	if !ok {
		return b
	}
	return b.add(step.SetBlockType{
		BlockID:       id,
		Type:          t,
		Attrs:         attrs,
		PreviousType:  blk.Type,
		PreviousAttrs: blk.Attrs,
	})
}

// SetNodeAttr sets one attribute of id.
func (b *Builder) SetNodeAttr(id model.BlockID, key string, value any) *Builder {
	blk, ok := b.block("setNodeAttr", id)
	if !ok {
		return b
	}
	return b.add(step.SetNodeAttr{BlockID: id, Attrs: blk.Attrs.With(key, value), PreviousAttrs: blk.Attrs})
}

// InsertNode inserts n as child index of parent ("" for the root).
func (b *Builder) InsertNode(parent model.BlockID, index int, n *model.BlockNode) *Builder {
	if n == nil {
		return b.fail(fmt.Errorf("insertNode: nil block: %w", ErrInvalidStep))
	}
	return b.add(step.InsertNode{ParentID: parent, Index: index, Node: n})
}

// RemoveNode removes id, reading its parent and position from the working
// document.
func (b *Builder) RemoveNode(id model.BlockID) *Builder {
	blk, ok := b.block("removeNode", id)
	if !ok {
		return b
	}
	var parent model.BlockID
	if path := model.BlockPath(b.doc, id); len(path) > 1 {
		parent = path[len(path)-2]
	}
	idx := model.IndexPath(b.doc, id)
	return b.add(step.RemoveNode{ParentID: parent, Index: idx[len(idx)-1], Node: blk})
}

// SetSelection sets the selection after the transaction.
func (b *Builder) SetSelection(sel selection.Selection) *Builder {
	b.selAfter = sel
	b.selSet = true
	return b
}

// SetStoredMarks records a stored-marks change as a step and makes marks
// the stored marks after the transaction.
func (b *Builder) SetStoredMarks(marks []model.Mark) *Builder {
	prev := b.storedBefore
	if b.storedSet {
		prev = b.stored
	}
	b.stored = marks
	b.storedSet = true
	return b.add(step.SetStoredMarks{Marks: marks, PreviousMarks: prev})
}

// SetMeta sets an Extra metadata value.
func (b *Builder) SetMeta(key string, value any) *Builder {
	if b.extra == nil {
		b.extra = make(map[string]any)
	}
	b.extra[key] = value
	return b
}

// Build finalizes the transaction. Without SetSelection the selection after
// is the selection before mapped through the steps. Without SetStoredMarks
// the stored marks survive only if the selection did not change and no text
// was inserted.
func (b *Builder) Build() (*Transaction, error) {
	if b.err != nil {
		return nil, b.err
	}
	steps := make([]step.Step, len(b.steps))
	copy(steps, b.steps)

	selAfter := b.selAfter
	if !b.selSet {
		selAfter = mapSelection(b.doc, steps, b.selBefore)
	}

	storedAfter := b.stored
	if !b.storedSet {
		storedAfter = nil
		if selection.Equal(b.selBefore, selAfter) && !insertsText(steps) {
			storedAfter = b.storedBefore
		}
	}

	extra := make(map[string]any, len(b.extra))
	for k, v := range b.extra {
		extra[k] = v
	}
	return &Transaction{
		ID:                uuid.New(),
		Steps:             steps,
		SelectionBefore:   b.selBefore,
		SelectionAfter:    selAfter,
		StoredMarksBefore: b.storedBefore,
		StoredMarksAfter:  storedAfter,
		Meta: Meta{
			Origin:    b.origin,
			Timestamp: b.now(),
			Extra:     extra,
		},
	}, nil
}

func insertsText(steps []step.Step) bool {
	for _, s := range steps {
		if _, ok := s.(step.InsertText); ok {
			return true
		}
	}
	return false
}
