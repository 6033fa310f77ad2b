package reconcile

import (
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/dshills/inkwell/internal/dom"
	"github.com/dshills/inkwell/internal/model"
	"github.com/dshills/inkwell/internal/schema"
)

// reservedAttrs are never written from block attrs.
var reservedAttrs = map[string]bool{
	dom.AttrBlockID:    true,
	dom.AttrNodeType:   true,
	dom.AttrVoid:       true,
	dom.AttrSelectable: true,
	dom.AttrContentDOM: true,
	dom.AttrSelected:   true,
}

// mountedBlock is the DOM state of one rendered block.
type mountedBlock struct {
	node      *model.BlockNode
	el        *html.Node
	content   *html.Node
	view      *NodeView
	decoAttrs []string
}

// build renders b and its descendants and registers them.
func (r *Reconciler) build(b *model.BlockNode, p *pass) *mountedBlock {
	m := &mountedBlock{node: b}
	if view := r.createView(b); view != nil {
		m.el, m.content, m.view = view.DOM, view.ContentDOM, view
	} else {
		out := r.schema.RenderBlock(b)
		m.el, m.content = out.DOM, out.ContentDOM
		if m.content == nil {
			m.content = m.el
		}
		writeBlockAttrs(m.el, b)
	}
	r.markBlock(m)
	r.mounted[b.ID] = m

	switch {
	case r.schema.IsVoid(b.Type):
		dom.SetAttr(m.el, "contenteditable", "false")
	case m.content == nil:
	case b.IsContainer():
		for _, c := range b.ChildBlocks() {
			dom.Append(m.content, r.build(c, p).el)
		}
	default:
		r.renderInline(m.content, b, p.decos.inline(b.ID))
	}
	r.applyNodeDecorations(m, p.decos.node(b.ID))
	return m
}

// markBlock writes the addressing attributes onto a block element.
func (r *Reconciler) markBlock(m *mountedBlock) {
	b := m.node
	dom.SetAttr(m.el, dom.AttrBlockID, string(b.ID))
	dom.SetAttr(m.el, dom.AttrNodeType, string(b.Type))
	if r.schema.IsVoid(b.Type) {
		dom.SetAttr(m.el, dom.AttrVoid, "")
	} else {
		dom.RemoveAttr(m.el, dom.AttrVoid)
	}
	if r.schema.IsSelectable(b.Type) {
		dom.SetAttr(m.el, dom.AttrSelectable, "")
	} else {
		dom.RemoveAttr(m.el, dom.AttrSelectable)
	}
	if m.content != nil && m.content != m.el {
		dom.SetAttr(m.content, dom.AttrContentDOM, "")
	}
}

// writeBlockAttrs mirrors block attrs as data-* attributes.
func writeBlockAttrs(el *html.Node, b *model.BlockNode) {
	for k, v := range b.Attrs {
		name := "data-" + strings.ToLower(k)
		if reservedAttrs[name] {
			continue
		}
		dom.SetAttr(el, name, schema.AttrString(v))
	}
}

// renderInline replaces the children of content with the inline content
// of b. Marks nest by ascending rank, outermost first; inline decorations
// wrap the text directly.
func (r *Reconciler) renderInline(content *html.Node, b *model.BlockNode, decos []Decoration) {
	dom.RemoveChildren(content)
	if model.BlockLength(b) == 0 {
		dom.Append(content, dom.Element("br", dom.AttrFiller, ""))
		return
	}
	rank := r.schema.RankFunc()
	for _, span := range model.WalkInlineContent(b.Children) {
		switch n := span.Child.(type) {
		case *model.InlineNode:
			dom.Append(content, r.schema.RenderInline(n))
		case *model.TextNode:
			if n.Text == "" {
				continue
			}
			marks := model.SortMarks(n.Marks, rank)
			for _, piece := range cutText(n.Text, span.From, decos) {
				leaf := dom.Text(piece.text)
				for i := len(piece.decos) - 1; i >= 0; i-- {
					leaf = wrap(decorationElement(piece.decos[i]), leaf)
				}
				for i := len(marks) - 1; i >= 0; i-- {
					leaf = wrap(r.schema.RenderMark(marks[i]), leaf)
				}
				dom.Append(content, leaf)
			}
		}
	}
}

func wrap(outer, inner *html.Node) *html.Node {
	dom.Append(outer, inner)
	return outer
}

func decorationElement(d Decoration) *html.Node {
	el := dom.Element("span", dom.AttrDecoration, "")
	for k, v := range d.Attrs {
		dom.SetAttr(el, k, v)
	}
	return el
}

type textPiece struct {
	text  string
	decos []Decoration
}

// cutText splits a text node starting at offset base at every decoration
// boundary inside it.
func cutText(text string, base int, decos []Decoration) []textPiece {
	runes := []rune(text)
	end := base + len(runes)
	cuts := []int{base, end}
	for _, d := range decos {
		if d.From > base && d.From < end {
			cuts = append(cuts, d.From)
		}
		if d.To > base && d.To < end {
			cuts = append(cuts, d.To)
		}
	}
	slices.Sort(cuts)
	cuts = slices.Compact(cuts)

	out := make([]textPiece, 0, len(cuts)-1)
	for i := 0; i+1 < len(cuts); i++ {
		from, to := cuts[i], cuts[i+1]
		var covering []Decoration
		for _, d := range decos {
			if d.From <= from && d.To >= to {
				covering = append(covering, d)
			}
		}
		out = append(out, textPiece{text: string(runes[from-base : to-base]), decos: covering})
	}
	return out
}

// applyNodeDecorations replaces the node decoration attributes of m.
func (r *Reconciler) applyNodeDecorations(m *mountedBlock, decos []Decoration) {
	for _, k := range m.decoAttrs {
		dom.RemoveAttr(m.el, k)
	}
	m.decoAttrs = m.decoAttrs[:0]
	for _, d := range decos {
		for k, v := range d.Attrs {
			if reservedAttrs[k] {
				continue
			}
			dom.SetAttr(m.el, k, v)
			m.decoAttrs = append(m.decoAttrs, k)
		}
	}
}

// createView runs the registered factory for b, if any. A factory that
// panics or returns no DOM falls back to the schema rendering.
func (r *Reconciler) createView(b *model.BlockNode) (view *NodeView) {
	f, ok := r.factories[b.Type]
	if !ok {
		return nil
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("node view factory panicked",
				zap.String("block", string(b.ID)),
				zap.String("type", string(b.Type)),
				zap.Any("panic", rec))
			view = nil
		}
	}()
	view = f(b, ViewContext{Schema: r.schema})
	if view != nil && view.DOM == nil {
		r.logger.Warn("node view has no DOM", zap.String("block", string(b.ID)))
		return nil
	}
	return view
}

// updateView calls view.Update, treating a panic as a refusal.
func (r *Reconciler) updateView(m *mountedBlock, b *model.BlockNode) (ok bool) {
	if m.view.Update == nil {
		return false
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("node view update panicked, rebuilding",
				zap.String("block", string(b.ID)),
				zap.Any("panic", rec))
			ok = false
		}
	}()
	return m.view.Update(b)
}

// destroy unregisters m and its descendants and runs their Destroy hooks.
func (r *Reconciler) destroy(m *mountedBlock) {
	for _, c := range m.node.ChildBlocks() {
		if cm, ok := r.mounted[c.ID]; ok && dom.Contains(m.el, cm.el) {
			r.destroy(cm)
		}
	}
	if cur, ok := r.mounted[m.node.ID]; ok && cur == m {
		delete(r.mounted, m.node.ID)
	}
	if m.view != nil && m.view.Destroy != nil {
		r.safeDestroy(m)
	}
}
