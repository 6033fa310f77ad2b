package fixture

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/inkwell/internal/model"
	"github.com/dshills/inkwell/internal/schema"
	"github.com/dshills/inkwell/internal/selection"
)

// File is a decoded document file.
type File struct {
	Blocks    []Node     `yaml:"blocks"`
	Selection *Selection `yaml:"selection,omitempty"`
}

// Node is a block or an inline child. Text runs set Text, inline nodes set
// Inline, and blocks set Type.
type Node struct {
	Text     *string        `yaml:"text,omitempty"`
	Marks    []Mark         `yaml:"marks,omitempty"`
	Inline   string         `yaml:"inline,omitempty"`
	ID       string         `yaml:"id,omitempty"`
	Type     string         `yaml:"type,omitempty"`
	Attrs    map[string]any `yaml:"attrs,omitempty"`
	Children []Node         `yaml:"children,omitempty"`
}

// nodeFields decodes a Node without its custom unmarshaler.
type nodeFields Node

// UnmarshalYAML accepts a bare string as an unmarked text run.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		text := value.Value
		*n = Node{Text: &text}
		return nil
	}
	return value.Decode((*nodeFields)(n))
}

// MarshalYAML writes unmarked text runs as bare strings.
func (n Node) MarshalYAML() (any, error) {
	if n.Text != nil && len(n.Marks) == 0 {
		return *n.Text, nil
	}
	return nodeFields(n), nil
}

func (n Node) isBlock() bool {
	return n.Text == nil && n.Inline == "" && n.Type != ""
}

// Mark is a mark written as its type name or as {type, attrs}.
type Mark struct {
	Type  string         `yaml:"type"`
	Attrs map[string]any `yaml:"attrs,omitempty"`
}

type markFields Mark

// UnmarshalYAML accepts a bare mark type name.
func (m *Mark) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*m = Mark{Type: value.Value}
		return nil
	}
	return value.Decode((*markFields)(m))
}

// MarshalYAML writes marks without attributes as bare names.
func (m Mark) MarshalYAML() (any, error) {
	if len(m.Attrs) == 0 {
		return m.Type, nil
	}
	return markFields(m), nil
}

// Selection describes the initial selection. Set Anchor (and optionally
// Head) for text, Node for a node selection, or Gap and Side for a gap
// cursor. Positions are written block:offset.
type Selection struct {
	Anchor string `yaml:"anchor,omitempty"`
	Head   string `yaml:"head,omitempty"`
	Node   string `yaml:"node,omitempty"`
	Gap    string `yaml:"gap,omitempty"`
	Side   string `yaml:"side,omitempty"`
}

// DecodeDocument reads a document file.
func DecodeDocument(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	if len(f.Blocks) == 0 {
		return nil, ErrNoBlocks
	}
	return &f, nil
}

// ReadDocument reads and decodes the document file at path.
func ReadDocument(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := DecodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Document builds the model document. Blocks without an id get one from
// gen; reg fills attribute defaults and may be nil.
func (f *File) Document(gen model.IDGenerator, reg *schema.Registry) (*model.Document, error) {
	b := builder{gen: gen, reg: reg}
	blocks := make([]*model.BlockNode, 0, len(f.Blocks))
	for i, n := range f.Blocks {
		path := fmt.Sprintf("blocks[%d]", i)
		if !n.isBlock() {
			return nil, &NodeError{Path: path, Err: fmt.Errorf("top level node is not a block: %w", ErrInvalidNode)}
		}
		blk, err := b.block(path, n)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, blk)
	}
	doc := model.NewDocument(blocks...)
	if err := model.ValidateDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// InitialSelection resolves the file's selection against doc. Without one
// it returns nil.
func (f *File) InitialSelection(doc *model.Document) (selection.Selection, error) {
	if f.Selection == nil {
		return nil, nil
	}
	sel, err := f.Selection.resolve(doc)
	if err != nil {
		return nil, err
	}
	if !selection.Validate(doc, sel) {
		return nil, fmt.Errorf("%w: %+v", ErrInvalidSelection, *f.Selection)
	}
	return sel, nil
}

func (s Selection) resolve(doc *model.Document) (selection.Selection, error) {
	switch {
	case s.Node != "":
		return selection.Node(doc, model.BlockID(s.Node)), nil
	case s.Gap != "":
		side := selection.SideBefore
		switch s.Side {
		case "", "before":
		case "after":
			side = selection.SideAfter
		default:
			return nil, fmt.Errorf("%w: side %q", ErrInvalidSelection, s.Side)
		}
		return selection.Gap(model.BlockID(s.Gap), side), nil
	case s.Anchor != "":
		anchor, err := ParsePosition(s.Anchor)
		if err != nil {
			return nil, err
		}
		if s.Head == "" {
			return selection.Cursor(anchor), nil
		}
		head, err := ParsePosition(s.Head)
		if err != nil {
			return nil, err
		}
		return selection.Range(anchor, head), nil
	}
	return nil, fmt.Errorf("%w: empty", ErrInvalidSelection)
}

// ParsePosition parses block:offset.
func ParsePosition(s string) (selection.Position, error) {
	i := strings.LastIndexByte(s, ':')
	if i <= 0 {
		return selection.Position{}, fmt.Errorf("%w: position %q is not block:offset", ErrInvalidSelection, s)
	}
	off, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return selection.Position{}, fmt.Errorf("%w: position %q: %v", ErrInvalidSelection, s, err)
	}
	return selection.At(model.BlockID(s[:i]), off), nil
}

type builder struct {
	gen model.IDGenerator
	reg *schema.Registry
}

func (b builder) block(path string, n Node) (*model.BlockNode, error) {
	id, err := b.id(path, n.ID)
	if err != nil {
		return nil, err
	}
	t, err := model.ParseNodeType(n.Type)
	if err != nil {
		return nil, &NodeError{Path: path, Err: err}
	}
	attrs := model.Attrs(n.Attrs)

	var blockKids []*model.BlockNode
	var inlineKids []model.Node
	for i, c := range n.Children {
		cpath := fmt.Sprintf("%s.children[%d]", path, i)
		if c.isBlock() {
			cb, err := b.block(cpath, c)
			if err != nil {
				return nil, err
			}
			blockKids = append(blockKids, cb)
			continue
		}
		in, err := b.inline(cpath, c)
		if err != nil {
			return nil, err
		}
		inlineKids = append(inlineKids, in)
	}
	if len(blockKids) > 0 && len(inlineKids) > 0 {
		return nil, &NodeError{Path: path, Err: ErrMixedChildren}
	}

	var blk *model.BlockNode
	if len(blockKids) > 0 {
		blk = model.NewContainerBlock(t, blockKids, id, attrs)
	} else {
		blk = model.NewBlockNode(t, inlineKids, id, attrs)
	}
	return b.reg.ApplyDefaults(blk), nil
}

func (b builder) id(path, raw string) (model.BlockID, error) {
	if raw != "" {
		id, err := model.ParseBlockID(raw)
		if err != nil {
			return "", &NodeError{Path: path, Err: err}
		}
		return id, nil
	}
	if b.gen == nil {
		return "", &NodeError{Path: path, Err: ErrMissingID}
	}
	return b.gen.NewBlockID(), nil
}

func (b builder) inline(path string, n Node) (model.Node, error) {
	switch {
	case n.Text != nil:
		marks := make([]model.Mark, 0, len(n.Marks))
		for _, m := range n.Marks {
			t, err := model.ParseMarkType(m.Type)
			if err != nil {
				return nil, &NodeError{Path: path, Err: err}
			}
			marks = append(marks, b.reg.MarkWithDefaults(model.NewMarkWithAttrs(t, m.Attrs)))
		}
		return model.NewTextNode(*n.Text, marks...), nil
	case n.Inline != "":
		t, err := model.ParseInlineType(n.Inline)
		if err != nil {
			return nil, &NodeError{Path: path, Err: err}
		}
		return b.reg.InlineWithDefaults(model.NewInlineNode(t, n.Attrs)), nil
	}
	return nil, &NodeError{Path: path, Err: ErrInvalidNode}
}

// FromDocument describes doc and sel as a document file.
func FromDocument(doc *model.Document, sel selection.Selection) *File {
	f := &File{Blocks: make([]Node, 0, len(doc.Children))}
	for _, b := range doc.Children {
		f.Blocks = append(f.Blocks, blockNode(b))
	}
	switch s := sel.(type) {
	case selection.TextSelection:
		fs := &Selection{Anchor: s.Anchor.String()}
		if !s.Collapsed() {
			fs.Head = s.Head.String()
		}
		f.Selection = fs
	case selection.NodeSelection:
		f.Selection = &Selection{Node: string(s.NodeID)}
	case selection.GapCursor:
		side := "before"
		if s.Side == selection.SideAfter {
			side = "after"
		}
		f.Selection = &Selection{Gap: string(s.BlockID), Side: side}
	}
	return f
}

func blockNode(b *model.BlockNode) Node {
	n := Node{ID: string(b.ID), Type: string(b.Type), Attrs: b.Attrs}
	for _, c := range b.Children {
		switch c := c.(type) {
		case *model.BlockNode:
			n.Children = append(n.Children, blockNode(c))
		case *model.TextNode:
			if c.Text == "" && len(b.Children) == 1 {
				continue
			}
			text := c.Text
			tn := Node{Text: &text}
			for _, m := range c.Marks {
				tn.Marks = append(tn.Marks, Mark{Type: string(m.Type), Attrs: m.Attrs})
			}
			n.Children = append(n.Children, tn)
		case *model.InlineNode:
			n.Children = append(n.Children, Node{Inline: string(c.InlineType), Attrs: c.Attrs})
		}
	}
	return n
}

// Encode writes f as YAML.
func Encode(w io.Writer, f *File) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	return enc.Close()
}
