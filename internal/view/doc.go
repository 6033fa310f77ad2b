// Package view binds an EditorState to a DOM root.
//
// Every update runs the same cycle on the calling goroutine: apply the
// transaction, record it in history, reconcile the DOM, write the selection
// back into the DOM, then notify state-change listeners. A call that arrives
// while a cycle is running, for example from a selectionchange listener
// fired by the selection write, is dropped rather than queued.
//
// A View is not safe for concurrent use. Only Ready may be waited on from
// another goroutine.
package view
