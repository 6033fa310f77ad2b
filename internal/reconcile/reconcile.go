package reconcile

import (
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/dshills/inkwell/internal/dom"
	"github.com/dshills/inkwell/internal/logging"
	"github.com/dshills/inkwell/internal/model"
	"github.com/dshills/inkwell/internal/schema"
	"github.com/dshills/inkwell/internal/selection"
	"github.com/dshills/inkwell/internal/state"
	"github.com/dshills/inkwell/internal/transaction"
)

// Options are the per-call inputs of Reconcile.
type Options struct {
	// Transaction produced the new state. It is passed to the decoration
	// source.
	Transaction *transaction.Transaction
	// PrevSelected and Selected are the node-selected block ids before and
	// after. When both are empty they are read from the two states.
	PrevSelected model.BlockID
	Selected     model.BlockID
	// Decorations overrides the reconciler's decoration source.
	Decorations DecorationSource
}

// Result counts what a reconcile did. Inserted, Removed and Moved count
// subtree roots.
type Result struct {
	Mounted            bool
	Inserted           int
	Removed            int
	Patched            int
	Rebuilt            int
	Moved              int
	Untouched          int
	DecorationsUpdated int
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Reconciler) {
		r.logger = logging.Component(l, "reconcile")
	}
}

// WithDecorations sets the default decoration source.
func WithDecorations(src DecorationSource) Option {
	return func(r *Reconciler) {
		r.decorations = src
	}
}

// WithNodeView registers a NodeView factory.
func WithNodeView(t model.NodeType, f Factory) Option {
	return func(r *Reconciler) {
		r.factories[t] = f
	}
}

// Reconciler owns the DOM under one root. It is not safe for concurrent
// use.
type Reconciler struct {
	schema      *schema.Registry
	factories   map[model.NodeType]Factory
	logger      *zap.Logger
	decorations DecorationSource

	root    *html.Node
	mounted map[model.BlockID]*mountedBlock
	decoFP  map[model.BlockID]uint64
}

// New creates a reconciler. A nil registry renders every type with the
// generic fallbacks.
func New(reg *schema.Registry, opts ...Option) *Reconciler {
	if reg == nil {
		reg = schema.NewRegistry()
	}
	r := &Reconciler{
		schema:    reg,
		factories: make(map[model.NodeType]Factory),
		logger:    zap.NewNop(),
		mounted:   make(map[model.BlockID]*mountedBlock),
		decoFP:    make(map[model.BlockID]uint64),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterNodeView registers a NodeView factory for blocks of type t.
// Blocks already mounted keep their current rendering until rebuilt.
func (r *Reconciler) RegisterNodeView(t model.NodeType, f Factory) {
	r.factories[t] = f
}

// Element returns the mounted element of a block.
func (r *Reconciler) Element(id model.BlockID) (*html.Node, bool) {
	m, ok := r.mounted[id]
	if !ok {
		return nil, false
	}
	return m.el, true
}

// Destroy unmounts everything, running every Destroy hook.
func (r *Reconciler) Destroy() {
	for _, m := range r.mounted {
		if m.view != nil && m.view.Destroy != nil {
			r.safeDestroy(m)
		}
	}
	if r.root != nil {
		dom.RemoveChildren(r.root)
	}
	r.mounted = make(map[model.BlockID]*mountedBlock)
	r.decoFP = make(map[model.BlockID]uint64)
	r.root = nil
}

func (r *Reconciler) safeDestroy(m *mountedBlock) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("node view destroy panicked", zap.String("block", string(m.node.ID)), zap.Any("panic", rec))
		}
	}()
	m.view.Destroy()
}

// pass is the state of one Reconcile call.
type pass struct {
	res     *Result
	decos   decorationSet
	fp      map[model.BlockID]uint64
	dirty   map[model.BlockID]bool
	touched map[model.BlockID]bool
	fresh   map[*html.Node]bool
}

// Reconcile brings root in line with next. A nil prev, or a root other than
// the one last reconciled, mounts from scratch.
func (r *Reconciler) Reconcile(root *html.Node, prev, next *state.EditorState, opts Options) Result {
	var res Result
	p := &pass{res: &res, fresh: make(map[*html.Node]bool)}

	src := opts.Decorations
	if src == nil {
		src = r.decorations
	}
	if src != nil {
		p.decos = groupDecorations(src(next, opts.Transaction))
	}
	p.fp = p.decos.fingerprints()

	if prev == nil || root != r.root {
		r.mount(root, next, p)
	} else {
		p.dirty, p.touched = r.dirtyBlocks(next.Doc(), p.fp)
		r.reconcileChildren(root, prev.Doc().Children, next.Doc().Children, p)
	}
	r.decoFP = p.fp

	prevSel, curSel := opts.PrevSelected, opts.Selected
	if prevSel == "" && curSel == "" {
		if prev != nil {
			prevSel, _ = selection.SelectedNodeID(prev.Selection())
		}
		curSel, _ = selection.SelectedNodeID(next.Selection())
	}
	r.markSelected(prevSel, curSel)

	r.logger.Debug("reconciled",
		zap.Bool("mounted", res.Mounted),
		zap.Int("inserted", res.Inserted),
		zap.Int("removed", res.Removed),
		zap.Int("patched", res.Patched),
		zap.Int("rebuilt", res.Rebuilt),
		zap.Int("moved", res.Moved),
		zap.Int("untouched", res.Untouched),
		zap.Int("decorations", res.DecorationsUpdated))
	return res
}

func (r *Reconciler) mount(root *html.Node, next *state.EditorState, p *pass) {
	for _, m := range r.mounted {
		if m.view != nil && m.view.Destroy != nil {
			r.safeDestroy(m)
		}
	}
	r.mounted = make(map[model.BlockID]*mountedBlock)
	r.root = root
	dom.RemoveChildren(root)
	for _, b := range next.Doc().Children {
		dom.Append(root, r.build(b, p).el)
		p.res.Inserted++
	}
	p.res.Mounted = true
}

// dirtyBlocks returns the blocks whose decoration fingerprint changed and
// those blocks plus their ancestors.
func (r *Reconciler) dirtyBlocks(doc *model.Document, fp map[model.BlockID]uint64) (dirty, touched map[model.BlockID]bool) {
	dirty = make(map[model.BlockID]bool)
	for id, h := range fp {
		if old, ok := r.decoFP[id]; !ok || old != h {
			dirty[id] = true
		}
	}
	for id := range r.decoFP {
		if _, ok := fp[id]; !ok {
			dirty[id] = true
		}
	}
	touched = make(map[model.BlockID]bool, len(dirty))
	for id := range dirty {
		for _, a := range model.BlockPath(doc, id) {
			touched[a] = true
		}
	}
	return dirty, touched
}

// reconcileChildren diffs one sibling list keyed by block id and leaves
// parent holding exactly the elements of next, in order.
func (r *Reconciler) reconcileChildren(parent *html.Node, prev, next []*model.BlockNode, p *pass) {
	keep := make(map[model.BlockID]bool, len(next))
	for _, b := range next {
		keep[b.ID] = true
	}
	prevByID := make(map[model.BlockID]*model.BlockNode, len(prev))
	for _, b := range prev {
		prevByID[b.ID] = b
		if keep[b.ID] {
			continue
		}
		if m, ok := r.mounted[b.ID]; ok && m.el.Parent == parent {
			dom.Detach(m.el)
			r.destroy(m)
			p.res.Removed++
		}
	}

	els := make([]*html.Node, 0, len(next))
	for _, nb := range next {
		ob, had := prevByID[nb.ID]
		m, mounted := r.mounted[nb.ID]
		if !had || !mounted {
			if mounted {
				dom.Detach(m.el)
				r.destroy(m)
			}
			m = r.build(nb, p)
			p.fresh[m.el] = true
			p.res.Inserted++
		} else {
			m = r.update(parent, m, ob, nb, p)
		}
		els = append(els, m.el)
	}

	ref := parent.FirstChild
	for _, el := range els {
		if el == ref {
			ref = ref.NextSibling
			continue
		}
		moved := el.Parent == parent && !p.fresh[el]
		dom.InsertBefore(parent, el, ref)
		if moved {
			p.res.Moved++
		}
	}
}

// update brings a mounted block from ob to nb and returns its mounted state,
// which is new when the block had to be rebuilt.
func (r *Reconciler) update(parent *html.Node, m *mountedBlock, ob, nb *model.BlockNode, p *pass) *mountedBlock {
	same := ob == nb || model.BlocksEqual(ob, nb)
	switch {
	case same && !p.touched[nb.ID]:
		m.node = nb
		p.res.Untouched++
		return m
	case same:
		r.redecorate(m, nb, p)
		return m
	}

	if m.view != nil {
		if !r.updateView(m, nb) {
			return r.rebuild(parent, m, nb, p)
		}
		prevNode := m.node
		m.node = nb
		r.fillContent(m, prevNode, nb, p)
		r.applyNodeDecorations(m, p.decos.node(nb.ID))
		p.res.Patched++
		return m
	}

	out := r.schema.RenderBlock(nb)
	if nb.Type != ob.Type || nb.IsContainer() != ob.IsContainer() || out.DOM.Data != m.el.Data {
		return r.rebuild(parent, m, nb, p)
	}
	selected := dom.HasAttr(m.el, dom.AttrSelected)
	m.el.Attr = m.el.Attr[:0]
	m.el.Attr = append(m.el.Attr, out.DOM.Attr...)
	if selected {
		dom.SetAttr(m.el, dom.AttrSelected, "true")
	}
	m.decoAttrs = m.decoAttrs[:0]
	writeBlockAttrs(m.el, nb)
	m.node = nb
	void := r.schema.IsVoid(nb.Type)
	if void || (out.ContentDOM != nil && out.ContentDOM != out.DOM) {
		r.adoptMarkup(m, out)
	}
	if void {
		dom.SetAttr(m.el, "contenteditable", "false")
	}
	r.markBlock(m)
	r.fillContent(m, ob, nb, p)
	r.applyNodeDecorations(m, p.decos.node(nb.ID))
	p.res.Patched++
	return m
}

// adoptMarkup replaces the markup under m's root with the children of a
// fresh rendering, keeping the root element. Mounted child blocks of a
// container move into the new content element.
func (r *Reconciler) adoptMarkup(m *mountedBlock, out schema.DOMOutput) {
	var kids []*html.Node
	if m.node.IsContainer() && m.content != nil {
		kids = dom.Children(m.content)
	}
	dom.RemoveChildren(m.el)
	dom.Append(m.el, dom.Children(out.DOM)...)
	m.content = out.ContentDOM
	if m.content == nil || m.content == out.DOM {
		m.content = m.el
	}
	dom.Append(m.content, kids...)
}

// fillContent re-renders the content region of m.
func (r *Reconciler) fillContent(m *mountedBlock, ob, nb *model.BlockNode, p *pass) {
	switch {
	case m.content == nil || r.schema.IsVoid(nb.Type):
	case nb.IsContainer():
		r.reconcileChildren(m.content, ob.ChildBlocks(), nb.ChildBlocks(), p)
	default:
		r.renderInline(m.content, nb, p.decos.inline(nb.ID))
	}
}

// redecorate refreshes decorations of a block whose content is unchanged.
func (r *Reconciler) redecorate(m *mountedBlock, nb *model.BlockNode, p *pass) {
	prevNode := m.node
	m.node = nb
	if p.dirty[nb.ID] {
		r.applyNodeDecorations(m, p.decos.node(nb.ID))
		if !nb.IsContainer() && m.content != nil && !r.schema.IsVoid(nb.Type) {
			r.renderInline(m.content, nb, p.decos.inline(nb.ID))
		}
		p.res.DecorationsUpdated++
	}
	if nb.IsContainer() && m.content != nil {
		r.reconcileChildren(m.content, prevNode.ChildBlocks(), nb.ChildBlocks(), p)
	}
}

// rebuild replaces m's element with a fresh rendering of nb.
func (r *Reconciler) rebuild(parent *html.Node, m *mountedBlock, nb *model.BlockNode, p *pass) *mountedBlock {
	old := m.el
	r.destroy(m)
	nm := r.build(nb, p)
	if old.Parent == parent {
		dom.InsertBefore(parent, nm.el, old)
		dom.Detach(old)
	}
	p.fresh[nm.el] = true
	p.res.Rebuilt++
	r.logger.Debug("rebuilt block", zap.String("block", string(nb.ID)))
	return nm
}

func (r *Reconciler) markSelected(prev, cur model.BlockID) {
	if prev != "" && prev != cur {
		if m, ok := r.mounted[prev]; ok {
			dom.RemoveAttr(m.el, dom.AttrSelected)
		}
	}
	if cur != "" {
		if m, ok := r.mounted[cur]; ok {
			dom.SetAttr(m.el, dom.AttrSelected, "true")
		}
	}
}
