// Package history keeps the undo and redo stacks of an editor.
//
// The undo stack holds transactions as they were dispatched. Undo pops the
// newest one, applies its inverse and moves the original onto the redo
// stack; Redo applies the original again. Pushing clears the redo stack and
// evicts the oldest entry once MaxDepth is reached.
//
// Transactions pushed between BeginGroup and EndGroup are joined into one
// undo entry:
//
//	h.BeginGroup("typing")
//	h.Push(tr1)
//	h.Push(tr2)
//	h.EndGroup() // one entry undoes both
package history
