package step

import (
	"fmt"

	"github.com/dshills/inkwell/internal/model"
)

// Kind identifies a step variant.
type Kind int

const (
	KindInsertText Kind = iota
	KindDeleteText
	KindAddMark
	KindRemoveMark
	KindSplitBlock
	KindMergeBlocks
	KindInsertInlineNode
	KindRemoveInlineNode
	KindSetInlineNodeAttr
	KindSetBlockType
	KindSetNodeAttr
	KindInsertNode
	KindRemoveNode
	KindSetStoredMarks
)

var kindNames = [...]string{
	KindInsertText:        "insertText",
	KindDeleteText:        "deleteText",
	KindAddMark:           "addMark",
	KindRemoveMark:        "removeMark",
	KindSplitBlock:        "splitBlock",
	KindMergeBlocks:       "mergeBlocks",
	KindInsertInlineNode:  "insertInlineNode",
	KindRemoveInlineNode:  "removeInlineNode",
	KindSetInlineNodeAttr: "setInlineNodeAttr",
	KindSetBlockType:      "setBlockType",
	KindSetNodeAttr:       "setNodeAttr",
	KindInsertNode:        "insertNode",
	KindRemoveNode:        "removeNode",
	KindSetStoredMarks:    "setStoredMarks",
}

// String returns the step kind name.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Step is one atomic edit. The set of implementations is closed.
type Step interface {
	Kind() Kind
	step()
}

// InsertText inserts text at Offset. When Segments is set it is inserted
// instead of Text and Marks, which lets an undo restore text that spanned
// differently marked nodes or inline atoms.
type InsertText struct {
	BlockID  model.BlockID
	Offset   int
	Text     string
	Marks    []model.Mark
	Segments []model.Segment
}

// DeleteText removes [From, To). DeletedSegments records the removed content
// node by node; DeletedText and DeletedMarks are the flattened view.
type DeleteText struct {
	BlockID         model.BlockID
	From, To        int
	DeletedText     string
	DeletedMarks    []model.Mark
	DeletedSegments []model.Segment
}

// AddMark adds Mark to the text in [From, To). Inline atoms are skipped.
type AddMark struct {
	BlockID  model.BlockID
	From, To int
	Mark     model.Mark
}

// RemoveMark removes marks of Mark.Type from the text in [From, To).
type RemoveMark struct {
	BlockID  model.BlockID
	From, To int
	Mark     model.Mark
}

// SplitBlock moves the content at and after Offset into a new block
// NewBlockID placed right after BlockID. An empty NewType gives the new block
// the type and attrs of the original.
type SplitBlock struct {
	BlockID    model.BlockID
	Offset     int
	NewBlockID model.BlockID
	NewType    model.NodeType
	NewAttrs   model.Attrs
}

// MergeBlocks appends the content of SourceID to TargetID and removes the
// source, which must be the next sibling of the target. TargetLength,
// SourceType and SourceAttrs are recorded for the inverse split.
type MergeBlocks struct {
	TargetID     model.BlockID
	SourceID     model.BlockID
	TargetLength int
	SourceType   model.NodeType
	SourceAttrs  model.Attrs
}

// InsertInlineNode inserts an inline atom at Offset.
type InsertInlineNode struct {
	BlockID model.BlockID
	Offset  int
	Node    *model.InlineNode
}

// RemoveInlineNode removes the inline atom at Offset.
type RemoveInlineNode struct {
	BlockID     model.BlockID
	Offset      int
	RemovedNode *model.InlineNode
}

// SetInlineNodeAttr replaces the attrs of the inline atom at Offset.
type SetInlineNodeAttr struct {
	BlockID       model.BlockID
	Offset        int
	Attrs         model.Attrs
	PreviousAttrs model.Attrs
}

// SetBlockType changes the type and attrs of a block, keeping its content.
type SetBlockType struct {
	BlockID       model.BlockID
	Type          model.NodeType
	Attrs         model.Attrs
	PreviousType  model.NodeType
	PreviousAttrs model.Attrs
}

// SetNodeAttr replaces the attrs of a block.
type SetNodeAttr struct {
	BlockID       model.BlockID
	Attrs         model.Attrs
	PreviousAttrs model.Attrs
}

// InsertNode inserts Node as child Index of ParentID. An empty ParentID
// addresses the document root.
type InsertNode struct {
	ParentID model.BlockID
	Index    int
	Node     *model.BlockNode
}

// RemoveNode removes the block Node.ID, which sits at child Index of
// ParentID.
type RemoveNode struct {
	ParentID model.BlockID
	Index    int
	Node     *model.BlockNode
}

// SetStoredMarks changes the marks applied to the next typed text. It does
// not touch the document.
type SetStoredMarks struct {
	Marks         []model.Mark
	PreviousMarks []model.Mark
}

func (InsertText) Kind() Kind        { return KindInsertText }
func (DeleteText) Kind() Kind        { return KindDeleteText }
func (AddMark) Kind() Kind           { return KindAddMark }
func (RemoveMark) Kind() Kind        { return KindRemoveMark }
func (SplitBlock) Kind() Kind        { return KindSplitBlock }
func (MergeBlocks) Kind() Kind       { return KindMergeBlocks }
func (InsertInlineNode) Kind() Kind  { return KindInsertInlineNode }
func (RemoveInlineNode) Kind() Kind  { return KindRemoveInlineNode }
func (SetInlineNodeAttr) Kind() Kind { return KindSetInlineNodeAttr }
func (SetBlockType) Kind() Kind      { return KindSetBlockType }
func (SetNodeAttr) Kind() Kind       { return KindSetNodeAttr }
func (InsertNode) Kind() Kind        { return KindInsertNode }
func (RemoveNode) Kind() Kind        { return KindRemoveNode }
func (SetStoredMarks) Kind() Kind    { return KindSetStoredMarks }

func (InsertText) step()        {}
func (DeleteText) step()        {}
func (AddMark) step()           {}
func (RemoveMark) step()        {}
func (SplitBlock) step()        {}
func (MergeBlocks) step()       {}
func (InsertInlineNode) step()  {}
func (RemoveInlineNode) step()  {}
func (SetInlineNodeAttr) step() {}
func (SetBlockType) step()      {}
func (SetNodeAttr) step()       {}
func (InsertNode) step()        {}
func (RemoveNode) step()        {}
func (SetStoredMarks) step()    {}

// Len returns the number of offset units an InsertText adds.
func (s InsertText) Len() int {
	if len(s.Segments) > 0 {
		return model.SegmentsLength(s.Segments)
	}
	return len([]rune(s.Text))
}

// content returns the nodes an InsertText adds.
func (s InsertText) content() []model.Segment {
	if len(s.Segments) > 0 {
		return s.Segments
	}
	return []model.Segment{model.TextSegment(s.Text, s.Marks...)}
}

// IsDocChange reports whether applying s can change a document.
func IsDocChange(s Step) bool {
	_, stored := s.(SetStoredMarks)
	return !stored
}

// BlockOf returns the block a step addresses, or "" for steps that address
// none.
func BlockOf(s Step) model.BlockID {
	switch s := s.(type) {
	case InsertText:
		return s.BlockID
	case DeleteText:
		return s.BlockID
	case AddMark:
		return s.BlockID
	case RemoveMark:
		return s.BlockID
	case SplitBlock:
		return s.BlockID
	case MergeBlocks:
		return s.TargetID
	case InsertInlineNode:
		return s.BlockID
	case RemoveInlineNode:
		return s.BlockID
	case SetInlineNodeAttr:
		return s.BlockID
	case SetBlockType:
		return s.BlockID
	case SetNodeAttr:
		return s.BlockID
	case InsertNode:
		if s.Node != nil {
			return s.Node.ID
		}
	case RemoveNode:
		if s.Node != nil {
			return s.Node.ID
		}
	}
	return ""
}
