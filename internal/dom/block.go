package dom

import "golang.org/x/net/html"

// BlockID returns the data-block-id of n, if n is a block root.
func BlockID(n *html.Node) (string, bool) {
	if !IsElement(n) {
		return "", false
	}
	return GetAttr(n, AttrBlockID)
}

// IsBlock reports whether n is a block root element.
func IsBlock(n *html.Node) bool {
	_, ok := BlockID(n)
	return ok
}

// ClosestBlock walks from n up to the nearest block root, n included.
// It stops at root and returns nil if no block is found beneath it.
func ClosestBlock(root, n *html.Node) *html.Node {
	for ; n != nil; n = n.Parent {
		if n == root {
			return nil
		}
		if IsBlock(n) {
			return n
		}
	}
	return nil
}

// BlockAncestors returns the block ids enclosing n, outermost first, n's own
// block included. The walk stops at root.
func BlockAncestors(root, n *html.Node) []string {
	var ids []string
	for ; n != nil && n != root; n = n.Parent {
		if id, ok := BlockID(n); ok {
			ids = append([]string{id}, ids...)
		}
	}
	return ids
}

// FindBlock returns the element under root carrying data-block-id == id.
func FindBlock(root *html.Node, id string) *html.Node {
	var found *html.Node
	var visit func(n *html.Node) bool
	visit = func(n *html.Node) bool {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if got, ok := BlockID(c); ok && got == id {
				found = c
				return false
			}
			if !visit(c) {
				return false
			}
		}
		return true
	}
	visit(root)
	return found
}

// ContentElement returns the editable region of a block: the first
// descendant marked data-content-dom that belongs to this block, or the
// block itself.
func ContentElement(block *html.Node) *html.Node {
	var found *html.Node
	var visit func(n *html.Node) bool
	visit = func(n *html.Node) bool {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !IsElement(c) {
				continue
			}
			if HasAttr(c, AttrContentDOM) {
				found = c
				return false
			}
			if IsBlock(c) {
				continue
			}
			if !visit(c) {
				return false
			}
		}
		return true
	}
	visit(block)
	if found != nil {
		return found
	}
	return block
}

// IsInlineAtom reports whether n is the DOM rendering of an inline node.
func IsInlineAtom(n *html.Node) bool {
	return IsElement(n) && HasAttr(n, AttrInlineType)
}

// IsFiller reports whether n is a placeholder without model content.
func IsFiller(n *html.Node) bool {
	return IsElement(n) && HasAttr(n, AttrFiller)
}
