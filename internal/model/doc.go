// Package model provides the immutable document tree for the inkwell editor core.
//
// A Document is an ordered sequence of BlockNodes. A block is either a leaf
// block, whose children are TextNodes and InlineNodes, or a container block,
// whose children are all BlockNodes. Mixing the two is an invariant violation.
//
// # Offsets
//
// Within a leaf block every TextNode contributes one unit per rune and every
// InlineNode contributes exactly one unit. Offset 0 is before the first child
// and BlockLength(block) is after the last. All steps and selections address
// content through this linear offset space.
//
// # Immutability
//
// Nodes are never mutated after construction. Edits rebuild the path from the
// root to the changed block and reuse every untouched subtree, so an old and a
// new Document can be compared cheaply by pointer identity.
//
// Query functions never panic on invalid input: an offset out of range yields
// a zero value or false rather than an error.
package model
