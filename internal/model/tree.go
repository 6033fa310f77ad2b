package model

// FindBlock returns the block with the given id anywhere in the document.
func FindBlock(doc *Document, id BlockID) (*BlockNode, bool) {
	if doc == nil {
		return nil, false
	}
	var found *BlockNode
	walkBlocks(doc.Children, func(b *BlockNode, _ []*BlockNode) bool {
		if b.ID == id {
			found = b
			return false
		}
		return true
	})
	return found, found != nil
}

// BlockPath returns the ids from the outermost ancestor down to id itself.
// It returns nil when id is not in the document.
func BlockPath(doc *Document, id BlockID) []BlockID {
	if doc == nil {
		return nil
	}
	var path []BlockID
	walkBlocks(doc.Children, func(b *BlockNode, ancestors []*BlockNode) bool {
		if b.ID != id {
			return true
		}
		path = make([]BlockID, 0, len(ancestors)+1)
		for _, a := range ancestors {
			path = append(path, a.ID)
		}
		path = append(path, b.ID)
		return false
	})
	return path
}

// IndexPath returns the child indices leading to id, root first.
func IndexPath(doc *Document, id BlockID) []int {
	if doc == nil {
		return nil
	}
	var search func(blocks []*BlockNode, prefix []int) []int
	search = func(blocks []*BlockNode, prefix []int) []int {
		for i, b := range blocks {
			p := append(append([]int(nil), prefix...), i)
			if b.ID == id {
				return p
			}
			if b.IsContainer() {
				if r := search(b.ChildBlocks(), p); r != nil {
					return r
				}
			}
		}
		return nil
	}
	return search(doc.Children, nil)
}

// AllBlocks returns every block in document order (parents before children).
func AllBlocks(doc *Document) []*BlockNode {
	if doc == nil {
		return nil
	}
	var out []*BlockNode
	walkBlocks(doc.Children, func(b *BlockNode, _ []*BlockNode) bool {
		out = append(out, b)
		return true
	})
	return out
}

// LeafBlocks returns the leaf blocks in document order.
func LeafBlocks(doc *Document) []*BlockNode {
	var out []*BlockNode
	for _, b := range AllBlocks(doc) {
		if b.IsLeaf() {
			out = append(out, b)
		}
	}
	return out
}

// FirstLeaf returns the first leaf block of the document.
func FirstLeaf(doc *Document) (*BlockNode, bool) {
	leaves := LeafBlocks(doc)
	if len(leaves) == 0 {
		return nil, false
	}
	return leaves[0], true
}

// walkBlocks visits blocks depth first. Returning false from fn stops the walk.
func walkBlocks(blocks []*BlockNode, fn func(b *BlockNode, ancestors []*BlockNode) bool) {
	var visit func(bs []*BlockNode, ancestors []*BlockNode) bool
	visit = func(bs []*BlockNode, ancestors []*BlockNode) bool {
		for _, b := range bs {
			if !fn(b, ancestors) {
				return false
			}
			if b.IsContainer() {
				if !visit(b.ChildBlocks(), append(ancestors, b)) {
					return false
				}
			}
		}
		return true
	}
	visit(blocks, nil)
}

// SiblingsFunc rewrites a sibling list; index is the position of the target.
type SiblingsFunc func(siblings []*BlockNode, index int) ([]*BlockNode, error)

// UpdateSiblings locates id and lets fn rewrite the sibling list holding it.
// Every block off the path to id is reused as-is.
func UpdateSiblings(doc *Document, id BlockID, fn SiblingsFunc) (*Document, error) {
	path := IndexPath(doc, id)
	if path == nil {
		return nil, &BlockError{ID: id, Err: ErrBlockNotFound}
	}
	kids, err := rewriteAt(doc.Children, path, fn)
	if err != nil {
		return nil, err
	}
	return &Document{Children: kids}, nil
}

// UpdateChildrenOf lets fn rewrite the child blocks of parent. An empty
// parent id addresses the document root; fn then receives index -1.
func UpdateChildrenOf(doc *Document, parent BlockID, fn func(children []*BlockNode) ([]*BlockNode, error)) (*Document, error) {
	if parent == "" {
		kids, err := fn(doc.Children)
		if err != nil {
			return nil, err
		}
		return &Document{Children: kids}, nil
	}
	return UpdateBlock(doc, parent, func(b *BlockNode) (*BlockNode, error) {
		kids, err := fn(b.ChildBlocks())
		if err != nil {
			return nil, err
		}
		nodes := make([]Node, len(kids))
		for i, k := range kids {
			nodes[i] = k
		}
		return b.WithChildren(nodes), nil
	})
}

// UpdateBlock replaces the block with the given id by fn's result.
func UpdateBlock(doc *Document, id BlockID, fn func(*BlockNode) (*BlockNode, error)) (*Document, error) {
	return UpdateSiblings(doc, id, func(siblings []*BlockNode, i int) ([]*BlockNode, error) {
		nb, err := fn(siblings[i])
		if err != nil {
			return nil, err
		}
		out := make([]*BlockNode, len(siblings))
		copy(out, siblings)
		out[i] = nb
		return out, nil
	})
}

func rewriteAt(blocks []*BlockNode, path []int, fn SiblingsFunc) ([]*BlockNode, error) {
	if len(path) == 1 {
		return fn(blocks, path[0])
	}
	i := path[0]
	b := blocks[i]
	kids, err := rewriteAt(b.ChildBlocks(), path[1:], fn)
	if err != nil {
		return nil, err
	}
	nodes := make([]Node, len(kids))
	for j, k := range kids {
		nodes[j] = k
	}
	out := make([]*BlockNode, len(blocks))
	copy(out, blocks)
	out[i] = b.WithChildren(nodes)
	return out, nil
}

// DocumentsEqual reports structural equality of two documents.
func DocumentsEqual(a, b *Document) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !BlocksEqual(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// BlocksEqual reports structural equality of two blocks, including ids.
func BlocksEqual(a, b *BlockNode) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.ID != b.ID || a.Type != b.Type || !attrsContentEqual(a.Attrs, b.Attrs) {
		return false
	}
	return ChildrenEqual(a.Children, b.Children)
}

// ChildrenEqual compares two child sequences node by node.
func ChildrenEqual(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !NodesEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// NodesEqual reports structural equality of two nodes.
func NodesEqual(a, b Node) bool {
	switch x := a.(type) {
	case *TextNode:
		y, ok := b.(*TextNode)
		return ok && x.Text == y.Text && MarkSetsEqual(x.Marks, y.Marks)
	case *InlineNode:
		y, ok := b.(*InlineNode)
		return ok && x.InlineType == y.InlineType && attrsContentEqual(x.Attrs, y.Attrs)
	case *BlockNode:
		y, ok := b.(*BlockNode)
		return ok && BlocksEqual(x, y)
	}
	return false
}
