// Package selection defines positions and the selection variants of the editor.
//
// A Position pairs a block id with an offset in that block's linear content
// space. Offsets are only meaningful against the document they were taken
// from; after any edit they must be mapped or re-validated.
//
// A Selection is exactly one of:
//   - TextSelection: anchor and head positions, collapsed when equal
//   - NodeSelection: a whole block, such as an image
//   - GapCursor: a cursor between blocks, next to a block that cannot hold text
//
// Commands check the active variant before acting; many text commands are
// no-ops on NodeSelection and GapCursor.
package selection
