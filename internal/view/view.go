package view

import (
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/dshills/inkwell/internal/dom"
	"github.com/dshills/inkwell/internal/history"
	"github.com/dshills/inkwell/internal/model"
	"github.com/dshills/inkwell/internal/reconcile"
	"github.com/dshills/inkwell/internal/selection"
	"github.com/dshills/inkwell/internal/selsync"
	"github.com/dshills/inkwell/internal/state"
	"github.com/dshills/inkwell/internal/transaction"
)

// StateChangeFunc is called after every successful update, once the DOM has
// been reconciled. tr is nil for ReplaceState.
type StateChangeFunc func(old, next *state.EditorState, tr *transaction.Transaction)

// selectionNotifier is implemented by selection APIs that report changes,
// such as dom.Headless.
type selectionNotifier interface {
	OnSelectionChange(fn func()) func()
}

// View renders an EditorState into a DOM root and routes updates.
type View struct {
	root          *html.Node
	state         *state.EditorState
	history       *history.History
	reconciler    *reconcile.Reconciler
	api           dom.SelectionAPI
	syncSelection bool
	decorations   reconcile.DecorationSource
	nodeViews     map[model.NodeType]reconcile.Factory
	logger        *zap.Logger

	updating bool
	mounted  bool
	ready    chan struct{}
	unwatch  func()

	listeners map[int]StateChangeFunc
	nextID    int

	stats counters
	last  reconcile.Result

	readyOnce sync.Once
}

// New creates a view of s under root. Nothing is rendered until Mount.
func New(root *html.Node, s *state.EditorState, opts ...Option) *View {
	v := &View{
		root:          root,
		state:         s,
		syncSelection: true,
		nodeViews:     make(map[model.NodeType]reconcile.Factory),
		ready:         make(chan struct{}),
		listeners:     make(map[int]StateChangeFunc),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.applyDefaults()

	ropts := []reconcile.Option{reconcile.WithLogger(v.logger)}
	if v.decorations != nil {
		ropts = append(ropts, reconcile.WithDecorations(v.decorations))
	}
	for t, f := range v.nodeViews {
		ropts = append(ropts, reconcile.WithNodeView(t, f))
	}
	v.reconciler = reconcile.New(s.Schema(), ropts...)
	return v
}

// Mount renders the state into the root and closes Ready.
func (v *View) Mount() error {
	if v.root == nil {
		return ErrNoRoot
	}
	if v.mounted {
		return ErrAlreadyMounted
	}
	v.updating = true
	defer func() { v.updating = false }()

	v.record(v.reconciler.Reconcile(v.root, nil, v.state, reconcile.Options{}))
	v.writeSelection()
	if n, ok := v.api.(selectionNotifier); ok {
		v.unwatch = n.OnSelectionChange(v.SelectionChanged)
	}
	v.mounted = true
	v.readyOnce.Do(func() { close(v.ready) })
	v.logger.Debug("mounted", zap.Int("blocks", len(v.state.Doc().Children)))
	return nil
}

// Ready is closed once the view is mounted.
func (v *View) Ready() <-chan struct{} {
	return v.ready
}

// Destroy unmounts the view, running NodeView Destroy hooks and detaching
// the selection listener.
func (v *View) Destroy() {
	if v.unwatch != nil {
		v.unwatch()
		v.unwatch = nil
	}
	v.reconciler.Destroy()
	v.mounted = false
}

// State returns the current state.
func (v *View) State() *state.EditorState {
	return v.state
}

// History returns the view's history.
func (v *View) History() *history.History {
	return v.history
}

// Root returns the root element.
func (v *View) Root() *html.Node {
	return v.root
}

// Document returns the current document, or ErrNotReady before Mount.
func (v *View) Document() (*model.Document, error) {
	if !v.mounted {
		return nil, ErrNotReady
	}
	return v.state.Doc(), nil
}

// BlockByID returns a block of the current document.
func (v *View) BlockByID(id model.BlockID) (*model.BlockNode, bool) {
	return v.state.BlockByID(id)
}

// NodePath returns the ids from the root down to id.
func (v *View) NodePath(id model.BlockID) []model.BlockID {
	return v.state.NodePath(id)
}

// Element returns the mounted element of a block.
func (v *View) Element(id model.BlockID) (*html.Node, bool) {
	return v.reconciler.Element(id)
}

// OnStateChange registers fn and returns a function that removes it.
func (v *View) OnStateChange(fn StateChangeFunc) func() {
	id := v.nextID
	v.nextID++
	v.listeners[id] = fn
	return func() { delete(v.listeners, id) }
}

// Dispatch applies tr. Calls made during another update are dropped, and a
// transaction that fails to apply is logged and dropped.
func (v *View) Dispatch(tr *transaction.Transaction) {
	if tr == nil || !v.enter("dispatch") {
		return
	}
	defer v.leave()

	next, err := v.state.Apply(tr)
	if err != nil {
		v.stats.failed.Add(1)
		v.logger.Warn("transaction failed",
			zap.Stringer("id", tr.ID),
			zap.String("origin", string(tr.Origin())),
			zap.Error(err))
		return
	}
	if tr.AddToHistory() && tr.DocChanged() {
		v.history.Push(tr)
	}
	v.stats.dispatched.Add(1)
	v.commit(next, tr)
}

// Undo reverts the newest history entry and reports whether anything was
// undone.
func (v *View) Undo() bool {
	return v.travel("undo", v.history.Undo, &v.stats.undone)
}

// Redo reapplies the newest undone entry.
func (v *View) Redo() bool {
	return v.travel("redo", v.history.Redo, &v.stats.redone)
}

type historyStep func(*state.EditorState) (*history.Result, error)

func (v *View) travel(op string, fn historyStep, n *atomic.Uint64) bool {
	if !v.enter(op) {
		return false
	}
	defer v.leave()

	res, err := fn(v.state)
	switch {
	case errors.Is(err, history.ErrNothingToUndo), errors.Is(err, history.ErrNothingToRedo):
		return false
	case err != nil:
		v.stats.failed.Add(1)
		v.logger.Warn(op+" failed", zap.Error(err))
		return false
	}
	n.Add(1)
	v.commit(res.State, res.Transaction)
	return true
}

// ReplaceState swaps in an unrelated state and clears history, whose
// entries no longer apply to it.
func (v *View) ReplaceState(s *state.EditorState) {
	if s == nil || !v.enter("replace state") {
		return
	}
	defer v.leave()
	v.history.Clear()
	v.commit(s, nil)
}

// SelectionChanged reads the DOM selection into the model. It is the
// selectionchange handler; calls during an update are dropped, and a
// selection outside the root is ignored.
func (v *View) SelectionChanged() {
	if !v.mounted || v.api == nil {
		return
	}
	sel := selsync.ReadSelection(v.root, v.api)
	if sel == nil || selection.Equal(sel, v.state.Selection()) {
		return
	}
	if v.updating {
		v.stats.dropped.Add(1)
		v.logger.Debug("dropped nested selection change")
		return
	}
	tr, err := v.state.Tr(transaction.OriginInput).
		SetSelection(sel).
		SetMeta(transaction.MetaAddToHistory, false).
		Build()
	if err != nil {
		v.logger.Warn("selection transaction", zap.Error(err))
		return
	}
	v.Dispatch(tr)
}

func (v *View) enter(op string) bool {
	if v.updating {
		v.stats.dropped.Add(1)
		v.logger.Debug("dropped nested update", zap.String("op", op))
		return false
	}
	v.updating = true
	return true
}

func (v *View) leave() {
	v.updating = false
}

// commit installs next, reconciles, syncs the selection and notifies.
func (v *View) commit(next *state.EditorState, tr *transaction.Transaction) {
	old := v.state
	v.state = next
	if v.mounted {
		v.record(v.reconciler.Reconcile(v.root, old, next, reconcile.Options{Transaction: tr}))
		v.writeSelection()
	}
	v.notify(old, next, tr)
}

func (v *View) record(res reconcile.Result) {
	v.last = res
	v.stats.reconciled.Add(1)
}

func (v *View) writeSelection() {
	if v.api == nil || !v.syncSelection {
		return
	}
	if err := selsync.SyncSelection(v.root, v.api, v.state.Selection()); err != nil {
		v.logger.Debug("selection not synced", zap.Error(err))
	}
}

func (v *View) notify(old, next *state.EditorState, tr *transaction.Transaction) {
	for i := 0; i < v.nextID; i++ {
		fn, ok := v.listeners[i]
		if !ok {
			continue
		}
		v.call(fn, old, next, tr)
	}
}

func (v *View) call(fn StateChangeFunc, old, next *state.EditorState, tr *transaction.Transaction) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("state change listener panicked", zap.Any("panic", r))
		}
	}()
	fn(old, next, tr)
}
