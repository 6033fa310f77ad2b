package schema

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/dshills/inkwell/internal/dom"
	"github.com/dshills/inkwell/internal/model"
)

// Fallback tags for unregistered types.
const (
	FallbackBlockTag  = "p"
	FallbackMarkTag   = "span"
	FallbackInlineTag = "span"
)

// RenderBlock renders the element of b from its spec, or a <p> fallback.
// The result never has a nil DOM.
func (r *Registry) RenderBlock(b *model.BlockNode) DOMOutput {
	spec, ok := r.NodeSpec(b.Type)
	var out DOMOutput
	switch {
	case ok && spec.ToDOM != nil:
		out = spec.ToDOM(b)
	case ok && spec.Tag != "":
		out = DOMOutput{DOM: dom.Element(spec.Tag)}
	}
	if out.DOM == nil {
		out = DOMOutput{DOM: dom.Element(FallbackBlockTag)}
	}
	return out
}

// RenderMark renders the wrapper element of a mark.
func (r *Registry) RenderMark(m model.Mark) *html.Node {
	spec, ok := r.MarkSpec(m.Type)
	var el *html.Node
	switch {
	case ok && spec.ToDOM != nil:
		el = spec.ToDOM(m)
	case ok && spec.Tag != "":
		el = dom.Element(spec.Tag)
	}
	if el == nil {
		el = dom.Element(FallbackMarkTag)
	}
	dom.SetAttr(el, dom.AttrMark, string(m.Type))
	return el
}

// RenderInline renders an inline atom. The element is marked
// data-inline-type and contenteditable="false" whatever the spec returns.
func (r *Registry) RenderInline(n *model.InlineNode) *html.Node {
	spec, ok := r.InlineSpec(n.InlineType)
	var el *html.Node
	switch {
	case ok && spec.ToDOM != nil:
		el = spec.ToDOM(n)
	case ok && spec.Tag != "":
		el = dom.Element(spec.Tag)
	}
	if el == nil {
		el = dom.Element(FallbackInlineTag)
	}
	dom.SetAttr(el, dom.AttrInlineType, string(n.InlineType))
	dom.SetAttr(el, "contenteditable", "false")
	return el
}

// AttrString formats an attribute value for the DOM.
func AttrString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(x)
	}
}
