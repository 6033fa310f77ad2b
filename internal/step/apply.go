package step

import (
	"fmt"

	"github.com/dshills/inkwell/internal/model"
)

// Apply returns the document that results from applying s to doc. doc is
// not modified. Leaf content in the result is normalized.
func Apply(doc *model.Document, s Step) (*model.Document, error) {
	if doc == nil {
		return nil, fmt.Errorf("%s: nil document", s.Kind())
	}
	var (
		out *model.Document
		err error
	)
	switch s := s.(type) {
	case InsertText:
		out, err = applyInsertText(doc, s)
	case DeleteText:
		out, err = applyDeleteText(doc, s)
	case AddMark:
		out, err = applyMark(doc, s.BlockID, s.From, s.To, func(ms []model.Mark) []model.Mark {
			return model.AddMarkToSet(ms, s.Mark)
		})
	case RemoveMark:
		out, err = applyMark(doc, s.BlockID, s.From, s.To, func(ms []model.Mark) []model.Mark {
			return model.RemoveMarkFromSet(ms, s.Mark.Type)
		})
	case SplitBlock:
		out, err = applySplit(doc, s)
	case MergeBlocks:
		out, err = applyMerge(doc, s)
	case InsertInlineNode:
		out, err = applyInsertInline(doc, s)
	case RemoveInlineNode:
		out, err = applyReplaceInline(doc, s.BlockID, s.Offset, nil)
	case SetInlineNodeAttr:
		out, err = applySetInlineAttr(doc, s)
	case SetBlockType:
		out, err = model.UpdateBlock(doc, s.BlockID, func(b *model.BlockNode) (*model.BlockNode, error) {
			return b.WithType(s.Type, s.Attrs), nil
		})
	case SetNodeAttr:
		out, err = model.UpdateBlock(doc, s.BlockID, func(b *model.BlockNode) (*model.BlockNode, error) {
			return b.WithAttrs(s.Attrs), nil
		})
	case InsertNode:
		out, err = applyInsertNode(doc, s)
	case RemoveNode:
		out, err = applyRemoveNode(doc, s)
	case SetStoredMarks:
		return doc, nil
	default:
		return nil, fmt.Errorf("%T: %w", s, ErrUnknownStep)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Kind(), err)
	}
	return out, nil
}

// ApplyAll folds Apply over steps.
func ApplyAll(doc *model.Document, steps []Step) (*model.Document, error) {
	for i, s := range steps {
		next, err := Apply(doc, s)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		doc = next
	}
	return doc, nil
}

// updateLeaf rewrites the inline content of a leaf block.
func updateLeaf(doc *model.Document, id model.BlockID, fn func(b *model.BlockNode, length int) ([]model.Node, error)) (*model.Document, error) {
	return model.UpdateBlock(doc, id, func(b *model.BlockNode) (*model.BlockNode, error) {
		if !b.IsLeaf() {
			return nil, fmt.Errorf("block %q: %w", id, ErrNotLeaf)
		}
		kids, err := fn(b, model.BlockLength(b))
		if err != nil {
			return nil, err
		}
		return b.WithChildren(model.NormalizeInlineContent(kids)), nil
	})
}

func checkOffset(id model.BlockID, off, length int) error {
	if off < 0 || off > length {
		return fmt.Errorf("block %q offset %d (length %d): %w", id, off, length, ErrOffsetOutOfRange)
	}
	return nil
}

func checkRange(id model.BlockID, from, to, length int) error {
	if from < 0 || to < from || to > length {
		return fmt.Errorf("block %q range [%d, %d) (length %d): %w", id, from, to, length, ErrOffsetOutOfRange)
	}
	return nil
}

// splice returns the content of b with [from, to) replaced by mid.
func splice(b *model.BlockNode, from, to, length int, mid []model.Segment) []model.Node {
	segs := model.SegmentsInRange(b, 0, from)
	segs = append(segs, mid...)
	segs = append(segs, model.SegmentsInRange(b, to, length)...)
	return toNodes(segs)
}

func toNodes(segs []model.Segment) []model.Node {
	out := make([]model.Node, 0, len(segs))
	for _, s := range segs {
		out = append(out, s.ToNode())
	}
	return out
}

func applyInsertText(doc *model.Document, s InsertText) (*model.Document, error) {
	return updateLeaf(doc, s.BlockID, func(b *model.BlockNode, length int) ([]model.Node, error) {
		if err := checkOffset(s.BlockID, s.Offset, length); err != nil {
			return nil, err
		}
		return splice(b, s.Offset, s.Offset, length, s.content()), nil
	})
}

func applyDeleteText(doc *model.Document, s DeleteText) (*model.Document, error) {
	return updateLeaf(doc, s.BlockID, func(b *model.BlockNode, length int) ([]model.Node, error) {
		if err := checkRange(s.BlockID, s.From, s.To, length); err != nil {
			return nil, err
		}
		if s.From == s.To {
			return b.Children, nil
		}
		return splice(b, s.From, s.To, length, nil), nil
	})
}

// applyMark rewrites the mark sets of text in [from, to). A block whose only
// content is an empty text node gets its marks rewritten too.
func applyMark(doc *model.Document, id model.BlockID, from, to int, fn func([]model.Mark) []model.Mark) (*model.Document, error) {
	return updateLeaf(doc, id, func(b *model.BlockNode, length int) ([]model.Node, error) {
		if err := checkRange(id, from, to, length); err != nil {
			return nil, err
		}
		if length == 0 && len(b.Children) == 1 {
			if t, ok := b.Children[0].(*model.TextNode); ok {
				return []model.Node{model.NewTextNode("", fn(t.Marks)...)}, nil
			}
		}
		mid := model.SegmentsInRange(b, from, to)
		for i, seg := range mid {
			if seg.Kind == model.KindText {
				mid[i].Marks = fn(seg.Marks)
			}
		}
		return splice(b, from, to, length, mid), nil
	})
}

func applySplit(doc *model.Document, s SplitBlock) (*model.Document, error) {
	if _, exists := model.FindBlock(doc, s.NewBlockID); exists {
		return nil, fmt.Errorf("block %q: %w", s.NewBlockID, model.ErrDuplicateBlockID)
	}
	return model.UpdateSiblings(doc, s.BlockID, func(siblings []*model.BlockNode, i int) ([]*model.BlockNode, error) {
		b := siblings[i]
		if !b.IsLeaf() {
			return nil, fmt.Errorf("block %q: %w", b.ID, ErrNotLeaf)
		}
		length := model.BlockLength(b)
		if err := checkOffset(b.ID, s.Offset, length); err != nil {
			return nil, err
		}
		head := toNodes(model.SegmentsInRange(b, 0, s.Offset))
		tail := toNodes(model.SegmentsInRange(b, s.Offset, length))

		nt, attrs := b.Type, b.Attrs
		if s.NewType != "" {
			nt, attrs = s.NewType, s.NewAttrs
		}
		first := b.WithChildren(model.NormalizeInlineContent(head))
		second := &model.BlockNode{
			ID:       s.NewBlockID,
			Type:     nt,
			Attrs:    attrs.Clone(),
			Children: model.NormalizeInlineContent(tail),
		}

		out := make([]*model.BlockNode, 0, len(siblings)+1)
		out = append(out, siblings[:i]...)
		out = append(out, first, second)
		out = append(out, siblings[i+1:]...)
		return out, nil
	})
}

func applyMerge(doc *model.Document, s MergeBlocks) (*model.Document, error) {
	if _, ok := model.FindBlock(doc, s.SourceID); !ok {
		return nil, &model.BlockError{ID: s.SourceID, Err: ErrBlockNotFound}
	}
	return model.UpdateSiblings(doc, s.TargetID, func(siblings []*model.BlockNode, i int) ([]*model.BlockNode, error) {
		if i+1 >= len(siblings) || siblings[i+1].ID != s.SourceID {
			return nil, fmt.Errorf("merge %q into %q: %w", s.SourceID, s.TargetID, ErrNotAdjacent)
		}
		target, source := siblings[i], siblings[i+1]
		if !target.IsLeaf() || !source.IsLeaf() {
			return nil, fmt.Errorf("merge %q into %q: %w", s.SourceID, s.TargetID, ErrNotLeaf)
		}
		kids := make([]model.Node, 0, len(target.Children)+len(source.Children))
		kids = append(kids, target.Children...)
		kids = append(kids, source.Children...)

		out := make([]*model.BlockNode, 0, len(siblings)-1)
		out = append(out, siblings[:i]...)
		out = append(out, target.WithChildren(model.NormalizeInlineContent(kids)))
		out = append(out, siblings[i+2:]...)
		return out, nil
	})
}

func applyInsertInline(doc *model.Document, s InsertInlineNode) (*model.Document, error) {
	if s.Node == nil {
		return nil, fmt.Errorf("block %q: nil inline node", s.BlockID)
	}
	return updateLeaf(doc, s.BlockID, func(b *model.BlockNode, length int) ([]model.Node, error) {
		if err := checkOffset(s.BlockID, s.Offset, length); err != nil {
			return nil, err
		}
		return splice(b, s.Offset, s.Offset, length, []model.Segment{model.InlineSegment(s.Node)}), nil
	})
}

// applyReplaceInline swaps the inline atom at off for with, or removes it
// when with is nil.
func applyReplaceInline(doc *model.Document, id model.BlockID, off int, with *model.InlineNode) (*model.Document, error) {
	return updateLeaf(doc, id, func(b *model.BlockNode, length int) ([]model.Node, error) {
		if _, ok := model.InlineNodeAt(b, off); !ok {
			return nil, fmt.Errorf("block %q offset %d: %w", id, off, ErrNoInlineNode)
		}
		var mid []model.Segment
		if with != nil {
			mid = []model.Segment{model.InlineSegment(with)}
		}
		return splice(b, off, off+1, length, mid), nil
	})
}

func applySetInlineAttr(doc *model.Document, s SetInlineNodeAttr) (*model.Document, error) {
	b, ok := model.FindBlock(doc, s.BlockID)
	if !ok {
		return nil, &model.BlockError{ID: s.BlockID, Err: ErrBlockNotFound}
	}
	n, ok := model.InlineNodeAt(b, s.Offset)
	if !ok {
		return nil, fmt.Errorf("block %q offset %d: %w", s.BlockID, s.Offset, ErrNoInlineNode)
	}
	return applyReplaceInline(doc, s.BlockID, s.Offset, model.NewInlineNode(n.InlineType, s.Attrs))
}

func applyInsertNode(doc *model.Document, s InsertNode) (*model.Document, error) {
	if s.Node == nil {
		return nil, fmt.Errorf("parent %q: nil block", s.ParentID)
	}
	if err := model.Validate(s.Node); err != nil {
		return nil, err
	}
	for _, b := range model.AllBlocks(&model.Document{Children: []*model.BlockNode{s.Node}}) {
		if _, exists := model.FindBlock(doc, b.ID); exists {
			return nil, &model.BlockError{ID: b.ID, Err: model.ErrDuplicateBlockID}
		}
	}
	if s.ParentID != "" {
		p, ok := model.FindBlock(doc, s.ParentID)
		if !ok {
			return nil, &model.BlockError{ID: s.ParentID, Err: ErrBlockNotFound}
		}
		if !p.IsContainer() {
			return nil, fmt.Errorf("parent %q holds inline content: %w", s.ParentID, model.ErrMixedChildren)
		}
	}
	return model.UpdateChildrenOf(doc, s.ParentID, func(kids []*model.BlockNode) ([]*model.BlockNode, error) {
		if s.Index < 0 || s.Index > len(kids) {
			return nil, fmt.Errorf("parent %q index %d (children %d): %w", s.ParentID, s.Index, len(kids), ErrOffsetOutOfRange)
		}
		out := make([]*model.BlockNode, 0, len(kids)+1)
		out = append(out, kids[:s.Index]...)
		out = append(out, s.Node)
		out = append(out, kids[s.Index:]...)
		return out, nil
	})
}

func applyRemoveNode(doc *model.Document, s RemoveNode) (*model.Document, error) {
	if s.Node == nil {
		return nil, fmt.Errorf("parent %q: nil block", s.ParentID)
	}
	return model.UpdateSiblings(doc, s.Node.ID, func(siblings []*model.BlockNode, i int) ([]*model.BlockNode, error) {
		if len(siblings) == 1 {
			return nil, fmt.Errorf("block %q: %w", s.Node.ID, ErrLastBlock)
		}
		out := make([]*model.BlockNode, 0, len(siblings)-1)
		out = append(out, siblings[:i]...)
		out = append(out, siblings[i+1:]...)
		return out, nil
	})
}
