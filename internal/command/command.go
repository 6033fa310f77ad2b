package command

import (
	"github.com/dshills/inkwell/internal/model"
	"github.com/dshills/inkwell/internal/selection"
	"github.com/dshills/inkwell/internal/state"
	"github.com/dshills/inkwell/internal/transaction"
)

// Dispatch receives the transaction a command built.
type Dispatch func(*transaction.Transaction)

// Command is an editing action.
type Command func(s *state.EditorState, dispatch Dispatch) bool

// Chain returns a command that runs cmds in order and stops at the first
// one that applies.
func Chain(cmds ...Command) Command {
	return func(s *state.EditorState, dispatch Dispatch) bool {
		for _, c := range cmds {
			if c(s, dispatch) {
				return true
			}
		}
		return false
	}
}

// run builds b and dispatches the result. A build error means the command
// does not apply.
func run(b *transaction.Builder, dispatch Dispatch) bool {
	tr, err := b.Build()
	if err != nil {
		return false
	}
	if dispatch != nil {
		dispatch(tr)
	}
	return true
}

// textRange is a TextSelection resolved to document order.
type textRange struct {
	from, to selection.Position
}

func (r textRange) collapsed() bool {
	return r.from == r.to
}

func resolveText(s *state.EditorState) (textRange, bool) {
	ts, ok := s.Selection().(selection.TextSelection)
	if !ok {
		return textRange{}, false
	}
	doc := s.Doc()
	r := textRange{from: ts.From(doc), to: ts.To(doc)}
	for _, p := range []selection.Position{r.from, r.to} {
		b, ok := s.BlockByID(p.BlockID)
		if !ok || !b.IsLeaf() || s.Schema().IsVoid(b.Type) || p.Offset < 0 || p.Offset > model.BlockLength(b) {
			return textRange{}, false
		}
	}
	return r, true
}

// siblings returns the sibling list holding id and its index in it.
func siblings(doc *model.Document, id model.BlockID) ([]*model.BlockNode, int) {
	path := model.BlockPath(doc, id)
	if path == nil {
		return nil, -1
	}
	list := doc.Children
	if len(path) > 1 {
		parent, _ := model.FindBlock(doc, path[len(path)-2])
		list = parent.ChildBlocks()
	}
	for i, b := range list {
		if b.ID == id {
			return list, i
		}
	}
	return nil, -1
}

// leavesBetween returns the leaf blocks from a to b inclusive, in document
// order.
func leavesBetween(doc *model.Document, a, b model.BlockID) []*model.BlockNode {
	var out []*model.BlockNode
	in := false
	for _, leaf := range model.LeafBlocks(doc) {
		if leaf.ID == a {
			in = true
		}
		if in {
			out = append(out, leaf)
		}
		if leaf.ID == b {
			break
		}
	}
	return out
}
