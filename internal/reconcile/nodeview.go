package reconcile

import (
	"golang.org/x/net/html"

	"github.com/dshills/inkwell/internal/model"
	"github.com/dshills/inkwell/internal/schema"
)

// NodeView is a custom renderer for one block.
type NodeView struct {
	// DOM is the root element of the block.
	DOM *html.Node
	// ContentDOM, if set, is where the reconciler renders the block's
	// content. Without it the view renders its content itself.
	ContentDOM *html.Node
	// Update patches the view for a changed block. Returning false asks
	// for a rebuild. A nil Update always rebuilds.
	Update func(b *model.BlockNode) bool
	// Destroy is called once the view leaves the DOM.
	Destroy func()
}

// ViewContext is passed to factories.
type ViewContext struct {
	Schema *schema.Registry
}

// Factory creates a NodeView for a block. Returning nil falls back to the
// schema rendering.
type Factory func(b *model.BlockNode, ctx ViewContext) *NodeView
