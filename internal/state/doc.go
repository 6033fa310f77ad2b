// Package state holds the immutable editor state: a document, a selection,
// the stored marks and an optional schema.
//
// States are never modified. Apply returns a new state that shares every
// untouched block with the old one.
package state
