package selsync

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/dshills/inkwell/internal/dom"
	"github.com/dshills/inkwell/internal/model"
	"github.com/dshills/inkwell/internal/selection"
)

// DOMPositionToState converts a DOM boundary point to a model position. It
// reports false when the point is outside root or not inside any block.
// A point between block elements resolves to the start of the following
// leaf block, or the end of the preceding one.
func DOMPositionToState(root, node *html.Node, offset int) (selection.Position, bool) {
	if node == nil || !dom.Contains(root, node) {
		return selection.Position{}, false
	}
	block := dom.ClosestBlock(root, node)
	if block == nil || isBetweenBlocks(node) {
		return betweenBlocks(node, offset)
	}
	content := dom.ContentElement(block)
	if !dom.Contains(content, node) {
		// Decorative wrapper markup outside the editable region.
		if precedesContent(block, content, node, offset) {
			return selection.At(blockID(block), 0), true
		}
		return selection.At(blockID(block), contentLength(content)), true
	}
	return selection.At(blockID(block), offsetOf(content, node, offset)), true
}

// StateToDOMPosition converts a model position to a DOM boundary point.
// Offsets at the edge between two text nodes resolve to the end of the
// first.
func StateToDOMPosition(root *html.Node, pos selection.Position) (dom.Point, error) {
	el := dom.FindBlock(root, string(pos.BlockID))
	if el == nil {
		return dom.Point{}, fmt.Errorf("%s: %w", pos.BlockID, ErrBlockNotMounted)
	}
	if pos.Offset < 0 {
		return dom.Point{}, fmt.Errorf("%s: %w", pos, ErrOffsetOutOfRange)
	}
	content := dom.ContentElement(el)
	pt, rest := locate(content, pos.Offset)
	if rest > 0 {
		return dom.Point{}, fmt.Errorf("%s: %w", pos, ErrOffsetOutOfRange)
	}
	if pt.Node == nil {
		pt = dom.Point{Node: content, Offset: countChildren(content)}
	}
	return pt, nil
}

// locate walks n looking for the point at offset. It returns the point, or
// a zero point and the offset still to go.
func locate(n *html.Node, offset int) (dom.Point, int) {
	i := 0
	for c := n.FirstChild; c != nil; c, i = c.NextSibling, i+1 {
		switch {
		case dom.IsText(c):
			l := dom.TextLen(c)
			if offset <= l {
				return dom.Point{Node: c, Offset: offset}, 0
			}
			offset -= l
		case dom.IsInlineAtom(c):
			if offset == 0 {
				return dom.Point{Node: n, Offset: i}, 0
			}
			offset--
		case dom.IsFiller(c):
			if offset == 0 {
				return dom.Point{Node: n, Offset: i}, 0
			}
		case dom.IsBlock(c):
		case dom.IsElement(c):
			pt, rest := locate(c, offset)
			if pt.Node != nil {
				return pt, 0
			}
			offset = rest
		}
	}
	return dom.Point{}, offset
}

// offsetOf returns the model offset of the boundary point (node, off)
// inside content.
func offsetOf(content, node *html.Node, off int) int {
	if atom := enclosingAtom(content, node); atom != nil {
		n := precedingLength(content, atom)
		if node != atom || off > 0 {
			n++
		}
		return n
	}
	if dom.IsText(node) {
		return precedingLength(content, node) + min(max(off, 0), dom.TextLen(node))
	}
	if c := dom.ChildAt(node, off); c != nil {
		return precedingLength(content, c)
	}
	if node == content {
		return contentLength(content)
	}
	return precedingLength(content, node) + contentLength(node)
}

// precedingLength sums the content of everything in content that comes
// before target in document order.
func precedingLength(content, target *html.Node) int {
	count := 0
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c == target {
				return true
			}
			switch {
			case dom.IsText(c):
				count += dom.TextLen(c)
			case dom.IsInlineAtom(c):
				if dom.Contains(c, target) {
					return true
				}
				count++
			case dom.IsFiller(c), dom.IsBlock(c):
			case dom.IsElement(c):
				if walk(c) {
					return true
				}
			}
		}
		return false
	}
	walk(content)
	return count
}

// contentLength is the model length rendered under n.
func contentLength(n *html.Node) int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case dom.IsText(c):
			count += dom.TextLen(c)
		case dom.IsInlineAtom(c):
			count++
		case dom.IsFiller(c), dom.IsBlock(c):
		case dom.IsElement(c):
			count += contentLength(c)
		}
	}
	return count
}

func enclosingAtom(content, n *html.Node) *html.Node {
	for ; n != nil && n != content; n = n.Parent {
		if dom.IsInlineAtom(n) {
			return n
		}
	}
	return nil
}

// isBetweenBlocks reports whether node's children are block elements, which
// makes a point inside it a point between blocks.
func isBetweenBlocks(node *html.Node) bool {
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if dom.IsBlock(c) {
			return true
		}
	}
	return false
}

func betweenBlocks(node *html.Node, offset int) (selection.Position, bool) {
	if !isBetweenBlocks(node) {
		return selection.Position{}, false
	}
	kids := dom.Children(node)
	for i := max(offset, 0); i < len(kids); i++ {
		if b := firstLeaf(kids[i]); b != nil {
			return selection.At(blockID(b), 0), true
		}
	}
	for i := min(offset, len(kids)) - 1; i >= 0; i-- {
		if b := lastLeaf(kids[i]); b != nil {
			return selection.At(blockID(b), contentLength(dom.ContentElement(b))), true
		}
	}
	return selection.Position{}, false
}

func firstLeaf(n *html.Node) *html.Node {
	if !dom.IsBlock(n) {
		return nil
	}
	content := dom.ContentElement(n)
	for c := content.FirstChild; c != nil; c = c.NextSibling {
		if b := firstLeaf(c); b != nil {
			return b
		}
	}
	return n
}

func lastLeaf(n *html.Node) *html.Node {
	if !dom.IsBlock(n) {
		return nil
	}
	content := dom.ContentElement(n)
	for c := content.LastChild; c != nil; c = c.PrevSibling {
		if b := lastLeaf(c); b != nil {
			return b
		}
	}
	return n
}

// precedesContent reports whether the point (node, off), which lies in
// block but outside its content element, comes before the content.
func precedesContent(block, content, node *html.Node, off int) bool {
	if dom.Contains(node, content) {
		for c := content; c != nil; c = c.Parent {
			if c.Parent == node {
				return off <= dom.IndexOf(c)
			}
		}
	}
	found := false
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n == content {
			return true
		}
		if n == node {
			found = true
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(block)
	return found
}

func blockID(el *html.Node) model.BlockID {
	id, _ := dom.BlockID(el)
	return model.BlockID(id)
}

func countChildren(n *html.Node) int {
	i := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		i++
	}
	return i
}
