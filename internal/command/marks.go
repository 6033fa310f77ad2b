package command

import (
	"github.com/dshills/inkwell/internal/model"
	"github.com/dshills/inkwell/internal/state"
	"github.com/dshills/inkwell/internal/transaction"
)

// ToggleMark adds a mark to the selected text, or removes it when all of
// the selected text already has it. On a cursor it toggles the stored marks
// instead, so the next typed text picks the change up.
func ToggleMark(t model.MarkType, attrs model.Attrs) Command {
	return func(s *state.EditorState, dispatch Dispatch) bool {
		r, ok := resolveText(s)
		if !ok {
			return false
		}
		mark := model.NewMark(t)
		if attrs != nil {
			mark = model.NewMarkWithAttrs(t, attrs)
		}
		mark = s.Schema().MarkWithDefaults(mark)

		b := s.Tr(transaction.OriginCommand)
		if r.collapsed() {
			cur := s.MarksAtCursor()
			var next []model.Mark
			if model.HasMark(cur, t) {
				next = model.RemoveMarkFromSet(cur, t)
			} else {
				next = model.AddMarkToSet(cur, mark)
			}
			if next == nil {
				next = []model.Mark{}
			}
			b.SetStoredMarks(next)
			b.SetMeta(transaction.MetaAddToHistory, false)
			return run(b, dispatch)
		}

		spans := markSpans(s, r)
		remove := len(spans) > 0
		for _, sp := range spans {
			if !sp.all(t) {
				remove = false
				break
			}
		}
		for _, sp := range spans {
			if remove {
				for _, run := range sp.runs(func(seg model.Segment) (model.Mark, bool) {
					return model.FindMark(seg.Marks, t)
				}) {
					b.RemoveMark(sp.block.ID, run.from, run.to, run.mark)
				}
				continue
			}
			for _, run := range sp.runs(func(seg model.Segment) (model.Mark, bool) {
				return mark, !model.HasMark(seg.Marks, t)
			}) {
				b.AddMark(sp.block.ID, run.from, run.to, run.mark)
			}
		}
		if b.Len() == 0 {
			return false
		}
		b.SetSelection(s.Selection())
		return run(b, dispatch)
	}
}

// markSpan is the part of one leaf block covered by a selection.
type markSpan struct {
	block    *model.BlockNode
	from, to int
}

// all reports whether every text segment of the span has a mark of type t.
func (sp markSpan) all(t model.MarkType) bool {
	for _, seg := range model.SegmentsInRange(sp.block, sp.from, sp.to) {
		if seg.Kind == model.KindText && !model.HasMark(seg.Marks, t) {
			return false
		}
	}
	return true
}

// markRun is a stretch of a span that gets one mark change.
type markRun struct {
	from, to int
	mark     model.Mark
}

// runs groups the text segments of sp for which pick reports true into
// maximal stretches sharing one mark.
func (sp markSpan) runs(pick func(model.Segment) (model.Mark, bool)) []markRun {
	var out []markRun
	off := sp.from
	for _, seg := range model.SegmentsInRange(sp.block, sp.from, sp.to) {
		end := off + seg.Len()
		if seg.Kind == model.KindText {
			if m, ok := pick(seg); ok {
				if n := len(out); n > 0 && out[n-1].to == off && model.MarksEqual(out[n-1].mark, m) {
					out[n-1].to = end
				} else {
					out = append(out, markRun{from: off, to: end, mark: m})
				}
			}
		}
		off = end
	}
	return out
}

func markSpans(s *state.EditorState, r textRange) []markSpan {
	var out []markSpan
	for _, blk := range leavesBetween(s.Doc(), r.from.BlockID, r.to.BlockID) {
		if s.Schema().IsVoid(blk.Type) {
			continue
		}
		from, to := 0, model.BlockLength(blk)
		if blk.ID == r.from.BlockID {
			from = r.from.Offset
		}
		if blk.ID == r.to.BlockID {
			to = r.to.Offset
		}
		if from < to {
			out = append(out, markSpan{block: blk, from: from, to: to})
		}
	}
	return out
}
