// Package step defines the atomic document edits and the pure functions over
// them.
//
// A Step carries everything needed to apply it and to build its inverse
// without looking at the document it was created against:
//
//	next, err := step.Apply(doc, step.InsertText{BlockID: "a", Offset: 0, Text: "hi"})
//	undo := step.Invert(s)
//
// Apply never mutates its input. Blocks not on the path to the edited block
// are shared between the old and new document.
package step
