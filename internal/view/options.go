package view

import (
	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/dom"
	"github.com/dshills/inkwell/internal/history"
	"github.com/dshills/inkwell/internal/logging"
	"github.com/dshills/inkwell/internal/model"
	"github.com/dshills/inkwell/internal/reconcile"
)

// Option configures a View.
type Option func(*View)

// WithLogger sets the logger. The reconciler logs through the same logger.
func WithLogger(l *zap.Logger) Option {
	return func(v *View) {
		v.logger = l
	}
}

// WithHistory sets the history. Without it a history of
// history.DefaultMaxDepth is created.
func WithHistory(h *history.History) Option {
	return func(v *View) {
		v.history = h
	}
}

// WithSelectionAPI sets the live DOM selection. If api also has an
// OnSelectionChange method, the view listens to it once mounted.
func WithSelectionAPI(api dom.SelectionAPI) Option {
	return func(v *View) {
		v.api = api
	}
}

// WithSelectionSync turns writing the model selection into the DOM on or
// off. It is on by default.
func WithSelectionSync(on bool) Option {
	return func(v *View) {
		v.syncSelection = on
	}
}

// WithNodeView registers a NodeView factory for a block type.
func WithNodeView(t model.NodeType, f reconcile.Factory) Option {
	return func(v *View) {
		v.nodeViews[t] = f
	}
}

// WithDecorations sets the decoration source used on every reconcile.
func WithDecorations(src reconcile.DecorationSource) Option {
	return func(v *View) {
		v.decorations = src
	}
}

func (v *View) applyDefaults() {
	if v.logger == nil {
		v.logger = zap.NewNop()
	}
	v.logger = logging.Component(v.logger, "view")
	if v.history == nil {
		v.history = history.New(history.DefaultMaxDepth)
	}
}
