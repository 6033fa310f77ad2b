// Package reconcile keeps a DOM tree in step with the editor state.
//
// The first call mounts every block under the root. Later calls diff the old
// and new documents block by block, keyed by block id at every level:
// untouched blocks keep their elements, changed blocks are patched in place,
// removed blocks are detached and new blocks are rendered at their position.
//
// Every block element carries data-block-id, which is how selection sync and
// everything else that reads the DOM finds its way back into the model.
//
// # NodeViews
//
// A block type may be rendered by a registered NodeView instead of the
// schema. When the block changes the view's Update is called; if it returns
// false or panics the block is rebuilt from scratch.
//
// # Decorations
//
// Decorations are computed on every call, fingerprinted per block, and only
// blocks whose decoration fingerprint changed are touched.
package reconcile
