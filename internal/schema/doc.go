// Package schema is the catalogue of node, mark and inline specs the editor
// renders with.
//
// The registry is populated by plugins and read by the core. Lookups of
// unregistered types report false and callers fall back to generic markup
// (<p> for blocks, <span> for marks and inline nodes); the core never fails on
// an unknown type.
//
//	reg := schema.Basic()
//	spec, ok := reg.NodeSpec("heading")
package schema
