package model

import "strings"

// Span locates one inline child in its block's offset space.
type Span struct {
	Child Node
	From  int
	To    int
}

// WalkInlineContent returns the offset span of every text and inline child.
// Block children occupy no inline offsets and are skipped. The result is a
// plain slice, so walking twice yields the same spans.
func WalkInlineContent(children []Node) []Span {
	spans := make([]Span, 0, len(children))
	pos := 0
	for _, c := range children {
		switch n := c.(type) {
		case *TextNode:
			l := n.Len()
			spans = append(spans, Span{Child: n, From: pos, To: pos + l})
			pos += l
		case *InlineNode:
			spans = append(spans, Span{Child: n, From: pos, To: pos + 1})
			pos++
		}
	}
	return spans
}

// BlockText concatenates the text of a leaf block. Inline nodes contribute
// nothing, not even a placeholder character.
func BlockText(b *BlockNode) string {
	if b == nil {
		return ""
	}
	var sb strings.Builder
	for _, c := range b.Children {
		if t, ok := c.(*TextNode); ok {
			sb.WriteString(t.Text)
		}
	}
	return sb.String()
}

// BlockLength returns the size of a leaf block's offset space: text runes
// plus one per inline node.
func BlockLength(b *BlockNode) int {
	if b == nil {
		return 0
	}
	return contentLength(b.Children)
}

func contentLength(children []Node) int {
	n := 0
	for _, c := range children {
		switch v := c.(type) {
		case *TextNode:
			n += v.Len()
		case *InlineNode:
			n++
		}
	}
	return n
}

// InlineCount returns the number of inline atoms in a leaf block.
func InlineCount(b *BlockNode) int {
	n := 0
	for _, c := range b.Children {
		if _, ok := c.(*InlineNode); ok {
			n++
		}
	}
	return n
}

// MarksAtOffset returns the marks of the child containing offset. At the end
// of the block it returns the last child's marks, so typing after bold text
// continues bold. Inline nodes carry no marks.
func MarksAtOffset(b *BlockNode, offset int) []Mark {
	if b == nil || offset < 0 {
		return nil
	}
	spans := WalkInlineContent(b.Children)
	if len(spans) == 0 {
		return nil
	}
	for _, s := range spans {
		if offset >= s.From && offset < s.To {
			if t, ok := s.Child.(*TextNode); ok {
				return cloneMarks(t.Marks)
			}
			return nil
		}
	}
	last := spans[len(spans)-1]
	if offset == last.To {
		if t, ok := last.Child.(*TextNode); ok {
			return cloneMarks(t.Marks)
		}
	}
	return nil
}

// Content is the unit found at one offset.
type Content struct {
	Kind  Kind
	Char  rune
	Marks []Mark
	Node  *InlineNode
}

// ContentAt returns the character or inline node starting at offset.
// It returns false at or past the end of the block.
func ContentAt(b *BlockNode, offset int) (Content, bool) {
	if b == nil || offset < 0 {
		return Content{}, false
	}
	for _, s := range WalkInlineContent(b.Children) {
		if offset < s.From || offset >= s.To {
			continue
		}
		switch n := s.Child.(type) {
		case *TextNode:
			r := []rune(n.Text)[offset-s.From]
			return Content{Kind: KindText, Char: r, Marks: cloneMarks(n.Marks)}, true
		case *InlineNode:
			return Content{Kind: KindInline, Node: n}, true
		}
	}
	return Content{}, false
}

// InlineNodeAt returns the inline node occupying offset.
func InlineNodeAt(b *BlockNode, offset int) (*InlineNode, bool) {
	c, ok := ContentAt(b, offset)
	if !ok || c.Kind != KindInline {
		return nil, false
	}
	return c.Node, true
}

// Segment is a piece of leaf content cut along existing node boundaries.
// Text segments carry the marks of the node they came from; inline segments
// carry the node itself.
type Segment struct {
	Kind  Kind
	Text  string
	Marks []Mark
	Node  *InlineNode
}

// TextSegment creates a text segment.
func TextSegment(text string, marks ...Mark) Segment {
	return Segment{Kind: KindText, Text: text, Marks: cloneMarks(marks)}
}

// InlineSegment creates an inline segment.
func InlineSegment(n *InlineNode) Segment {
	return Segment{Kind: KindInline, Node: n}
}

// Len returns the number of offset units the segment covers.
func (s Segment) Len() int {
	if s.Kind == KindInline {
		return 1
	}
	return runeLen(s.Text)
}

// ToNode converts the segment to a content node.
func (s Segment) ToNode() Node {
	if s.Kind == KindInline {
		return s.Node
	}
	return &TextNode{Text: s.Text, Marks: cloneMarks(s.Marks)}
}

// SegmentsInRange splits [from, to) into segments at node boundaries. The
// range is clamped to the block; an empty range yields nil.
func SegmentsInRange(b *BlockNode, from, to int) []Segment {
	if b == nil {
		return nil
	}
	if from < 0 {
		from = 0
	}
	if l := BlockLength(b); to > l {
		to = l
	}
	if from >= to {
		return nil
	}
	var out []Segment
	for _, s := range WalkInlineContent(b.Children) {
		if s.To <= from || s.From >= to {
			continue
		}
		switch n := s.Child.(type) {
		case *TextNode:
			lo := max(from, s.From) - s.From
			hi := min(to, s.To) - s.From
			if lo == hi {
				continue
			}
			out = append(out, Segment{Kind: KindText, Text: runeSlice(n.Text, lo, hi), Marks: cloneMarks(n.Marks)})
		case *InlineNode:
			out = append(out, Segment{Kind: KindInline, Node: n})
		}
	}
	return out
}

// SegmentsText concatenates the text of segments, skipping inline ones.
func SegmentsText(segs []Segment) string {
	var sb strings.Builder
	for _, s := range segs {
		if s.Kind == KindText {
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}

// SegmentsLength sums segment lengths.
func SegmentsLength(segs []Segment) int {
	n := 0
	for _, s := range segs {
		n += s.Len()
	}
	return n
}

func runeLen(s string) int {
	return len([]rune(s))
}

func runeSlice(s string, from, to int) string {
	r := []rune(s)
	return string(r[from:to])
}
