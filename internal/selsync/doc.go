// Package selsync maps selections between the DOM and the model.
//
// A model offset inside a block is found by walking the block's content
// element in document order: text counts its runes, an inline atom counts
// as one and filler elements count as nothing. Nested block elements are
// skipped; they own their own offsets.
//
// A NodeSelection is drawn as a range around the block element itself and
// a GapCursor as a collapsed point beside it in the parent element. Reading
// the DOM back recognises both shapes.
package selsync
