package model

import "unicode/utf8"

// Kind discriminates the node variants.
type Kind int

const (
	// KindText is a run of marked text.
	KindText Kind = iota + 1
	// KindInline is an atomic inline node.
	KindInline
	// KindBlock is a structural block.
	KindBlock
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInline:
		return "inline"
	case KindBlock:
		return "block"
	default:
		return "unknown"
	}
}

// Node is one of *TextNode, *InlineNode or *BlockNode.
type Node interface {
	Kind() Kind
	node()
}

// TextNode is a leaf run of text sharing one mark set.
type TextNode struct {
	Text  string
	Marks []Mark
}

// InlineNode is an atomic inline unit occupying one offset.
type InlineNode struct {
	InlineType InlineType
	Attrs      Attrs
}

// BlockNode is a structural unit identified by a stable id.
type BlockNode struct {
	ID       BlockID
	Type     NodeType
	Attrs    Attrs
	Children []Node
}

// Document is the root of the tree. It always holds at least one block.
type Document struct {
	Children []*BlockNode
}

func (*TextNode) Kind() Kind   { return KindText }
func (*InlineNode) Kind() Kind { return KindInline }
func (*BlockNode) Kind() Kind  { return KindBlock }

func (*TextNode) node()   {}
func (*InlineNode) node() {}
func (*BlockNode) node()  {}

// Len returns the text length in runes.
func (t *TextNode) Len() int {
	return utf8.RuneCountInString(t.Text)
}

// NewTextNode creates a text node. Duplicate mark types collapse to the last
// occurrence and the set is stored in canonical order.
func NewTextNode(text string, marks ...Mark) *TextNode {
	var set []Mark
	for _, m := range marks {
		set = AddMarkToSet(set, m)
	}
	if len(set) == 0 {
		set = nil
	}
	return &TextNode{Text: text, Marks: set}
}

// NewInlineNode creates an inline atom.
func NewInlineNode(t InlineType, attrs Attrs) *InlineNode {
	return &InlineNode{InlineType: t, Attrs: attrs.Clone()}
}

// NewBlockNode creates a block. A leaf block without children gets a single
// empty text node so it always has addressable content.
func NewBlockNode(t NodeType, children []Node, id BlockID, attrs Attrs) *BlockNode {
	kids := make([]Node, len(children))
	copy(kids, children)
	if len(kids) == 0 {
		kids = []Node{NewTextNode("")}
	} else if isInlineContent(kids) {
		kids = NormalizeInlineContent(kids)
	}
	return &BlockNode{ID: id, Type: t, Attrs: attrs.Clone(), Children: kids}
}

// NewContainerBlock creates a block whose children are blocks.
func NewContainerBlock(t NodeType, children []*BlockNode, id BlockID, attrs Attrs) *BlockNode {
	kids := make([]Node, len(children))
	for i, c := range children {
		kids[i] = c
	}
	return &BlockNode{ID: id, Type: t, Attrs: attrs.Clone(), Children: kids}
}

// EmptyParagraph creates a paragraph holding one empty text node.
func EmptyParagraph(id BlockID) *BlockNode {
	return NewBlockNode(Paragraph, nil, id, nil)
}

// placeholderIDs names the paragraph of documents created without blocks.
var placeholderIDs = NewULIDGenerator()

// NewDocument creates a document. With no blocks the document holds one
// empty paragraph with a freshly generated id.
func NewDocument(blocks ...*BlockNode) *Document {
	if len(blocks) == 0 {
		return NewDocumentWithGenerator(placeholderIDs)
	}
	kids := make([]*BlockNode, len(blocks))
	copy(kids, blocks)
	return &Document{Children: kids}
}

// NewDocumentWithGenerator is like NewDocument but draws the placeholder
// paragraph id from gen.
func NewDocumentWithGenerator(gen IDGenerator, blocks ...*BlockNode) *Document {
	if len(blocks) == 0 {
		return &Document{Children: []*BlockNode{EmptyParagraph(gen.NewBlockID())}}
	}
	return NewDocument(blocks...)
}

// IsTextNode reports whether n is a *TextNode.
func IsTextNode(n Node) bool {
	_, ok := n.(*TextNode)
	return ok
}

// IsInlineNode reports whether n is an *InlineNode.
func IsInlineNode(n Node) bool {
	_, ok := n.(*InlineNode)
	return ok
}

// IsBlockNode reports whether n is a *BlockNode.
func IsBlockNode(n Node) bool {
	_, ok := n.(*BlockNode)
	return ok
}

// IsLeaf reports whether the block holds inline content.
// A block with no children counts as a leaf.
func (b *BlockNode) IsLeaf() bool {
	return isInlineContent(b.Children)
}

// IsContainer reports whether the block holds child blocks.
func (b *BlockNode) IsContainer() bool {
	return len(b.Children) > 0 && !isInlineContent(b.Children)
}

// ChildBlocks returns the block children of a container block.
func (b *BlockNode) ChildBlocks() []*BlockNode {
	out := make([]*BlockNode, 0, len(b.Children))
	for _, c := range b.Children {
		if bn, ok := c.(*BlockNode); ok {
			out = append(out, bn)
		}
	}
	return out
}

// WithChildren returns a copy of b with new children, keeping id, type and attrs.
func (b *BlockNode) WithChildren(children []Node) *BlockNode {
	return &BlockNode{ID: b.ID, Type: b.Type, Attrs: b.Attrs, Children: children}
}

// WithAttrs returns a copy of b with new attrs.
func (b *BlockNode) WithAttrs(attrs Attrs) *BlockNode {
	return &BlockNode{ID: b.ID, Type: b.Type, Attrs: attrs.Clone(), Children: b.Children}
}

// WithType returns a copy of b with a new type and attrs.
func (b *BlockNode) WithType(t NodeType, attrs Attrs) *BlockNode {
	return &BlockNode{ID: b.ID, Type: t, Attrs: attrs.Clone(), Children: b.Children}
}

// Validate checks that b does not mix inline and block children, recursively.
func Validate(b *BlockNode) error {
	if len(b.Children) == 0 {
		return nil
	}
	blocks := 0
	for _, c := range b.Children {
		if cb, ok := c.(*BlockNode); ok {
			blocks++
			if err := Validate(cb); err != nil {
				return err
			}
		}
	}
	if blocks != 0 && blocks != len(b.Children) {
		return &BlockError{ID: b.ID, Err: ErrMixedChildren}
	}
	return nil
}

// ValidateDocument checks every block and rejects duplicate ids.
func ValidateDocument(doc *Document) error {
	seen := make(map[BlockID]struct{})
	var visit func(b *BlockNode) error
	visit = func(b *BlockNode) error {
		if _, dup := seen[b.ID]; dup {
			return &BlockError{ID: b.ID, Err: ErrDuplicateBlockID}
		}
		seen[b.ID] = struct{}{}
		for _, c := range b.Children {
			if cb, ok := c.(*BlockNode); ok {
				if err := visit(cb); err != nil {
					return err
				}
			}
		}
		return nil
	}
	for _, b := range doc.Children {
		if err := Validate(b); err != nil {
			return err
		}
		if err := visit(b); err != nil {
			return err
		}
	}
	return nil
}

// BlockError attaches a block id to an error.
type BlockError struct {
	ID  BlockID
	Err error
}

func (e *BlockError) Error() string {
	return "block " + string(e.ID) + ": " + e.Err.Error()
}

func (e *BlockError) Unwrap() error {
	return e.Err
}

func isInlineContent(children []Node) bool {
	for _, c := range children {
		if _, ok := c.(*BlockNode); ok {
			return false
		}
	}
	return true
}
