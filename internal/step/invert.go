package step

import "github.com/dshills/inkwell/internal/model"

// Invert returns the step that undoes s. Applying s and then Invert(s) gives
// back the original document.
//
// An AddMark is undone by a RemoveMark over the same range, so undoing a
// mark added to text that already carried it removes the mark.
func Invert(s Step) Step {
	switch s := s.(type) {
	case InsertText:
		return DeleteText{
			BlockID:         s.BlockID,
			From:            s.Offset,
			To:              s.Offset + s.Len(),
			DeletedText:     model.SegmentsText(s.content()),
			DeletedMarks:    FlattenMarks(s.content()),
			DeletedSegments: s.content(),
		}
	case DeleteText:
		inv := InsertText{BlockID: s.BlockID, Offset: s.From}
		if len(s.DeletedSegments) > 0 {
			inv.Segments = s.DeletedSegments
		} else {
			inv.Text = s.DeletedText
			inv.Marks = s.DeletedMarks
		}
		return inv
	case AddMark:
		return RemoveMark(s)
	case RemoveMark:
		return AddMark(s)
	case SplitBlock:
		return MergeBlocks{
			TargetID:     s.BlockID,
			SourceID:     s.NewBlockID,
			TargetLength: s.Offset,
			SourceType:   s.NewType,
			SourceAttrs:  s.NewAttrs,
		}
	case MergeBlocks:
		return SplitBlock{
			BlockID:    s.TargetID,
			Offset:     s.TargetLength,
			NewBlockID: s.SourceID,
			NewType:    s.SourceType,
			NewAttrs:   s.SourceAttrs,
		}
	case InsertInlineNode:
		return RemoveInlineNode{BlockID: s.BlockID, Offset: s.Offset, RemovedNode: s.Node}
	case RemoveInlineNode:
		return InsertInlineNode{BlockID: s.BlockID, Offset: s.Offset, Node: s.RemovedNode}
	case SetInlineNodeAttr:
		return SetInlineNodeAttr{BlockID: s.BlockID, Offset: s.Offset, Attrs: s.PreviousAttrs, PreviousAttrs: s.Attrs}
	case SetBlockType:
		return SetBlockType{
			BlockID:       s.BlockID,
			Type:          s.PreviousType,
			Attrs:         s.PreviousAttrs,
			PreviousType:  s.Type,
			PreviousAttrs: s.Attrs,
		}
	case SetNodeAttr:
		return SetNodeAttr{BlockID: s.BlockID, Attrs: s.PreviousAttrs, PreviousAttrs: s.Attrs}
	case InsertNode:
		return RemoveNode(s)
	case RemoveNode:
		return InsertNode(s)
	case SetStoredMarks:
		return SetStoredMarks{Marks: s.PreviousMarks, PreviousMarks: s.Marks}
	}
	return s
}

// FlattenMarks returns the marks common to every text segment. It is the
// lossy single mark list a DeleteText carries next to its segments.
func FlattenMarks(segs []model.Segment) []model.Mark {
	var out []model.Mark
	first := true
	for _, seg := range segs {
		if seg.Kind != model.KindText {
			continue
		}
		if first {
			out = seg.Marks
			first = false
			continue
		}
		var keep []model.Mark
		for _, m := range out {
			if f, ok := model.FindMark(seg.Marks, m.Type); ok && model.MarksEqual(f, m) {
				keep = append(keep, m)
			}
		}
		out = keep
	}
	return out
}
