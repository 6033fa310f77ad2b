package step

import (
	"github.com/dshills/inkwell/internal/model"
	"github.com/dshills/inkwell/internal/selection"
)

// MapPosition returns where p ends up after s is applied. Insertions at p
// push it forward, deletions around p pull it to the start of the deleted
// range, splits at or before p move it into the new block and merges move
// positions of the source into the target.
func MapPosition(s Step, p selection.Position) selection.Position {
	switch s := s.(type) {
	case InsertText:
		if p.BlockID == s.BlockID && p.Offset >= s.Offset {
			p.Offset += s.Len()
		}
	case DeleteText:
		if p.BlockID == s.BlockID {
			p.Offset = mapDelete(p.Offset, s.From, s.To)
		}
	case InsertInlineNode:
		if p.BlockID == s.BlockID && p.Offset >= s.Offset {
			p.Offset++
		}
	case RemoveInlineNode:
		if p.BlockID == s.BlockID {
			p.Offset = mapDelete(p.Offset, s.Offset, s.Offset+1)
		}
	case SplitBlock:
		if p.BlockID == s.BlockID && p.Offset >= s.Offset {
			p = selection.At(s.NewBlockID, p.Offset-s.Offset)
		}
	case MergeBlocks:
		if p.BlockID == s.SourceID {
			p = selection.At(s.TargetID, s.TargetLength+p.Offset)
		}
	}
	return p
}

func mapDelete(off, from, to int) int {
	switch {
	case off >= to:
		return off - (to - from)
	case off > from:
		return from
	}
	return off
}

// MapSelection maps every position of sel through s. Node selections and
// gap cursors follow a merge of their block into its target.
func MapSelection(s Step, sel selection.Selection) selection.Selection {
	switch v := sel.(type) {
	case selection.TextSelection:
		return selection.Range(MapPosition(s, v.Anchor), MapPosition(s, v.Head))
	case selection.NodeSelection:
		if m, ok := s.(MergeBlocks); ok && v.NodeID == m.SourceID {
			return selection.Cursor(selection.At(m.TargetID, m.TargetLength))
		}
	case selection.GapCursor:
		if m, ok := s.(MergeBlocks); ok && v.BlockID == m.SourceID {
			return selection.Cursor(selection.At(m.TargetID, m.TargetLength))
		}
	}
	return sel
}

// MapSelectionIn is MapSelection with doc, the document before s. A
// selection touching a block that s removes moves to the end of the
// nearest leaf before it, or else to the start of the nearest leaf after.
func MapSelectionIn(doc *model.Document, s Step, sel selection.Selection) selection.Selection {
	rm, ok := s.(RemoveNode)
	if !ok || doc == nil || rm.Node == nil {
		return MapSelection(s, sel)
	}
	gone := make(map[model.BlockID]bool)
	for _, b := range model.AllBlocks(model.NewDocument(rm.Node)) {
		gone[b.ID] = true
	}
	if !touches(sel, gone) {
		return sel
	}

	leaves := model.LeafBlocks(doc)
	first, last := -1, -1
	for i, b := range leaves {
		if gone[b.ID] {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	switch {
	case first > 0:
		prev := leaves[first-1]
		return selection.Cursor(selection.At(prev.ID, model.BlockLength(prev)))
	case last >= 0 && last+1 < len(leaves):
		return selection.Cursor(selection.At(leaves[last+1].ID, 0))
	}
	// A removed block without leaves; the surrounding leaves follow it in
	// document order.
	return removedFallback(doc, rm.Node.ID, gone)
}

func touches(sel selection.Selection, gone map[model.BlockID]bool) bool {
	switch v := sel.(type) {
	case selection.TextSelection:
		return gone[v.Anchor.BlockID] || gone[v.Head.BlockID]
	case selection.NodeSelection:
		return gone[v.NodeID]
	case selection.GapCursor:
		return gone[v.BlockID]
	}
	return false
}

func removedFallback(doc *model.Document, id model.BlockID, gone map[model.BlockID]bool) selection.Selection {
	var before, after *model.BlockNode
	seen := false
	for _, b := range model.AllBlocks(doc) {
		switch {
		case b.ID == id:
			seen = true
		case gone[b.ID] || !b.IsLeaf():
		case !seen:
			before = b
		case after == nil:
			after = b
		}
	}
	switch {
	case before != nil:
		return selection.Cursor(selection.At(before.ID, model.BlockLength(before)))
	case after != nil:
		return selection.Cursor(selection.At(after.ID, 0))
	}
	return nil
}
