package dom

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attribute names of the DOM addressing convention.
const (
	AttrBlockID    = "data-block-id"
	AttrNodeType   = "data-node-type"
	AttrVoid       = "data-void"
	AttrSelectable = "data-selectable"
	AttrContentDOM = "data-content-dom"
	AttrInlineType = "data-inline-type"
	AttrSelected   = "data-selected"
	AttrFiller     = "data-filler"
	AttrDecoration = "data-decoration"
	AttrMark       = "data-mark"
)

// Element creates an element node. Attributes are given as key, value pairs;
// a trailing odd key gets an empty value.
func Element(tag string, kv ...string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for i := 0; i < len(kv); i += 2 {
		val := ""
		if i+1 < len(kv) {
			val = kv[i+1]
		}
		n.Attr = append(n.Attr, html.Attribute{Key: kv[i], Val: val})
	}
	return n
}

// Text creates a text node.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// IsElement reports whether n is an element, optionally with the given tag.
func IsElement(n *html.Node, tag ...string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if len(tag) == 0 {
		return true
	}
	for _, t := range tag {
		if n.Data == t {
			return true
		}
	}
	return false
}

// IsText reports whether n is a text node.
func IsText(n *html.Node) bool {
	return n != nil && n.Type == html.TextNode
}

// GetAttr returns the value of key on n.
func GetAttr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttr reports whether n carries key.
func HasAttr(n *html.Node, key string) bool {
	_, ok := GetAttr(n, key)
	return ok
}

// SetAttr sets key on n, replacing an existing value.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes key from n and reports whether it was present.
func RemoveAttr(n *html.Node, key string) bool {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr = append(n.Attr[:i:i], n.Attr[i+1:]...)
			return true
		}
	}
	return false
}

// Append adds children to parent in order. Children that already have a
// parent are detached first.
func Append(parent *html.Node, children ...*html.Node) {
	for _, c := range children {
		if c == nil {
			continue
		}
		Detach(c)
		parent.AppendChild(c)
	}
}

// InsertBefore moves child to sit before ref inside parent; a nil ref appends.
func InsertBefore(parent, child, ref *html.Node) {
	Detach(child)
	parent.InsertBefore(child, ref)
}

// Detach removes n from its parent, if any.
func Detach(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// RemoveChildren detaches every child of n.
func RemoveChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

// Children returns n's children as a slice.
func Children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// IndexOf returns n's position among its siblings, or -1 without a parent.
func IndexOf(n *html.Node) int {
	if n == nil || n.Parent == nil {
		return -1
	}
	i := 0
	for c := n.Parent.FirstChild; c != nil; c = c.NextSibling {
		if c == n {
			return i
		}
		i++
	}
	return -1
}

// ChildAt returns the i-th child of n.
func ChildAt(n *html.Node, i int) *html.Node {
	if i < 0 {
		return nil
	}
	c := n.FirstChild
	for ; c != nil && i > 0; i-- {
		c = c.NextSibling
	}
	return c
}

// Contains reports whether n is root or a descendant of root.
func Contains(root, n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == root {
			return true
		}
	}
	return false
}

// TextLen returns the length of a text node in runes.
func TextLen(n *html.Node) int {
	return utf8.RuneCountInString(n.Data)
}

// Render serializes n and its subtree as HTML.
func Render(n *html.Node) string {
	var sb strings.Builder
	_ = html.Render(&sb, n)
	return sb.String()
}

// RenderChildren serializes the children of n without n itself.
func RenderChildren(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&sb, c)
	}
	return sb.String()
}
