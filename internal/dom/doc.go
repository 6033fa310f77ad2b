// Package dom holds the DOM-side conventions shared by the reconciler and
// selection sync, over golang.org/x/net/html node trees.
//
// Every block's root element carries data-block-id. Void and selectable blocks
// add data-void and data-selectable, and a block whose editable region differs
// from its root marks that region with data-content-dom. Inline atoms carry
// data-inline-type and count as one offset unit. These attributes are the only
// contract between the document model and the DOM.
//
// The package also models the browser Selection object as the SelectionAPI
// interface, with a Headless implementation for servers and tests.
package dom
