package schema

import (
	"strconv"

	"golang.org/x/net/html"

	"github.com/dshills/inkwell/internal/dom"
	"github.com/dshills/inkwell/internal/model"
)

// Type names of the basic schema.
const (
	Paragraph      model.NodeType = model.Paragraph
	Heading        model.NodeType = "heading"
	Blockquote     model.NodeType = "blockquote"
	HorizontalRule model.NodeType = "horizontal_rule"
	ImageBlock     model.NodeType = "image"
	CodeBlock      model.NodeType = "code_block"

	Bold      model.MarkType = model.Bold
	Italic    model.MarkType = model.Italic
	Underline model.MarkType = model.Underline
	Code      model.MarkType = "code"
	Link      model.MarkType = "link"

	HardBreak   model.InlineType = "hard_break"
	InlineImage model.InlineType = "image"
)

// Basic returns a registry holding the basic schema: paragraphs, headings,
// quotes, rules, images and code blocks, the common marks, hard breaks and
// inline images.
func Basic() *Registry {
	r := NewRegistry()
	for _, n := range basicNodes() {
		_ = r.RegisterNode(n)
	}
	for _, m := range basicMarks() {
		_ = r.RegisterMark(m)
	}
	for _, i := range basicInlines() {
		_ = r.RegisterInline(i)
	}
	return r
}

func basicNodes() []NodeSpec {
	return []NodeSpec{
		{Type: Paragraph, Tag: "p", ParseTags: []string{"p"}},
		{
			Type:  Heading,
			Attrs: map[string]AttrSpec{"level": {Default: 1}},
			ToDOM: func(b *model.BlockNode) DOMOutput {
				return DOMOutput{DOM: dom.Element("h" + strconv.Itoa(headingLevel(b)))}
			},
			ParseTags: []string{"h1", "h2", "h3", "h4", "h5", "h6"},
		},
		{Type: Blockquote, Tag: "blockquote", ParseTags: []string{"blockquote"}},
		{Type: HorizontalRule, Tag: "hr", IsVoid: true, Selectable: true, ParseTags: []string{"hr"}},
		{
			Type:       ImageBlock,
			IsVoid:     true,
			Selectable: true,
			Attrs: map[string]AttrSpec{
				"src": {Required: true},
				"alt": {Default: ""},
			},
			ToDOM: func(b *model.BlockNode) DOMOutput {
				fig := dom.Element("figure")
				img := dom.Element("img", "src", b.Attrs.String("src"), "alt", b.Attrs.String("alt"))
				dom.Append(fig, img)
				return DOMOutput{DOM: fig}
			},
			ParseTags: []string{"figure"},
		},
		{
			Type: CodeBlock,
			ToDOM: func(b *model.BlockNode) DOMOutput {
				pre := dom.Element("pre")
				code := dom.Element("code", dom.AttrContentDOM, "")
				dom.Append(pre, code)
				return DOMOutput{DOM: pre, ContentDOM: code}
			},
			ParseTags: []string{"pre"},
		},
	}
}

func basicMarks() []MarkSpec {
	return []MarkSpec{
		{Type: Bold, Tag: "strong", Rank: Rank(model.RankBold), ParseTags: []string{"strong", "b"}},
		{Type: Italic, Tag: "em", Rank: Rank(model.RankItalic), ParseTags: []string{"em", "i"}},
		{Type: Underline, Tag: "u", Rank: Rank(model.RankUnderline), ParseTags: []string{"u"}},
		{Type: Code, Tag: "code", Rank: Rank(50), ParseTags: []string{"code"}},
		{
			Type:  Link,
			Attrs: map[string]AttrSpec{"href": {Required: true}, "title": {}},
			Rank:  Rank(10),
			ToDOM: func(m model.Mark) *html.Node {
				a := dom.Element("a", "href", m.Attrs.String("href"))
				if title := m.Attrs.String("title"); title != "" {
					dom.SetAttr(a, "title", title)
				}
				return a
			},
			ParseTags: []string{"a"},
		},
	}
}

func basicInlines() []InlineSpec {
	return []InlineSpec{
		{Type: HardBreak, Tag: "br", ParseTags: []string{"br"}},
		{
			Type:  InlineImage,
			Attrs: map[string]AttrSpec{"src": {Required: true}, "alt": {Default: ""}},
			ToDOM: func(n *model.InlineNode) *html.Node {
				return dom.Element("img", "src", n.Attrs.String("src"), "alt", n.Attrs.String("alt"))
			},
			ParseTags: []string{"img"},
		},
	}
}

func headingLevel(b *model.BlockNode) int {
	switch v := b.Attrs["level"].(type) {
	case int:
		if v >= 1 && v <= 6 {
			return v
		}
	case float64:
		if v >= 1 && v <= 6 {
			return int(v)
		}
	case int64:
		if v >= 1 && v <= 6 {
			return int(v)
		}
	}
	return 1
}
