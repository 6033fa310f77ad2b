package model

// NormalizeInlineContent merges adjacent text nodes with equal mark sets and
// drops empty text nodes. It never returns an empty slice: if nothing is left
// a single empty text node remains, keeping the marks of the first empty node
// it dropped. Applying it twice gives the same result as applying it once.
// Block children pass through untouched.
func NormalizeInlineContent(children []Node) []Node {
	out := make([]Node, 0, len(children))
	var firstEmpty *TextNode
	for _, c := range children {
		t, ok := c.(*TextNode)
		if !ok {
			out = append(out, c)
			continue
		}
		if t.Text == "" {
			if firstEmpty == nil {
				firstEmpty = t
			}
			continue
		}
		if n := len(out); n > 0 {
			if prev, ok := out[n-1].(*TextNode); ok && MarkSetsEqual(prev.Marks, t.Marks) {
				out[n-1] = &TextNode{Text: prev.Text + t.Text, Marks: prev.Marks}
				continue
			}
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		if firstEmpty != nil {
			return []Node{firstEmpty}
		}
		return []Node{&TextNode{}}
	}
	return out
}

// NormalizeTextNodes is NormalizeInlineContent restricted to text runs.
func NormalizeTextNodes(nodes []*TextNode) []*TextNode {
	in := make([]Node, len(nodes))
	for i, n := range nodes {
		in[i] = n
	}
	norm := NormalizeInlineContent(in)
	out := make([]*TextNode, 0, len(norm))
	for _, n := range norm {
		out = append(out, n.(*TextNode))
	}
	return out
}

// IsNormalized reports whether children are already in normal form.
func IsNormalized(children []Node) bool {
	if len(children) == 0 {
		return false
	}
	for i, c := range children {
		t, ok := c.(*TextNode)
		if !ok {
			continue
		}
		if t.Text == "" && len(children) > 1 {
			return false
		}
		if i > 0 {
			if prev, ok := children[i-1].(*TextNode); ok && MarkSetsEqual(prev.Marks, t.Marks) {
				return false
			}
		}
	}
	return true
}
