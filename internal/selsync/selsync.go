package selsync

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/dshills/inkwell/internal/dom"
	"github.com/dshills/inkwell/internal/model"
	"github.com/dshills/inkwell/internal/selection"
)

// ReadSelection converts the live DOM selection to a model selection. It
// returns nil when there is no selection or either end lies outside root,
// so focus moving elsewhere on the page never clobbers the model.
func ReadSelection(root *html.Node, api dom.SelectionAPI) selection.Selection {
	ds, ok := api.Selection()
	if !ok || ds.Anchor.Node == nil || ds.Focus.Node == nil {
		return nil
	}
	if !dom.Contains(root, ds.Anchor.Node) || !dom.Contains(root, ds.Focus.Node) {
		return nil
	}
	if sel, ok := readNodeSelection(root, ds); ok {
		return sel
	}
	if ds.Collapsed() {
		if gap, ok := readGap(root, ds.Anchor); ok {
			return gap
		}
	}
	anchor, ok := DOMPositionToState(root, ds.Anchor.Node, ds.Anchor.Offset)
	if !ok {
		return nil
	}
	if ds.Collapsed() {
		return selection.Cursor(anchor)
	}
	head, ok := DOMPositionToState(root, ds.Focus.Node, ds.Focus.Offset)
	if !ok {
		return nil
	}
	return selection.Range(anchor, head)
}

// readNodeSelection recognises a range that spans exactly one selectable
// block element, or one that sits inside a void block.
func readNodeSelection(root *html.Node, ds dom.Selection) (selection.Selection, bool) {
	a, f := ds.Anchor, ds.Focus
	if a.Node == f.Node && dom.IsElement(a.Node) && f.Offset == a.Offset+1 {
		el := dom.ChildAt(a.Node, a.Offset)
		if dom.HasAttr(el, dom.AttrSelectable) || dom.HasAttr(el, dom.AttrVoid) {
			return nodeSelection(root, el), true
		}
	}
	ab, fb := dom.ClosestBlock(root, a.Node), dom.ClosestBlock(root, f.Node)
	if ab != nil && ab == fb && dom.HasAttr(ab, dom.AttrVoid) {
		return nodeSelection(root, ab), true
	}
	return nil, false
}

func nodeSelection(root, el *html.Node) selection.NodeSelection {
	ids := dom.BlockAncestors(root, el)
	path := make([]model.BlockID, len(ids))
	for i, id := range ids {
		path[i] = model.BlockID(id)
	}
	return selection.NodeSelection{NodeID: blockID(el), Path: path}
}

// readGap recognises a collapsed point between two block elements that does
// not touch a leaf block on both sides.
func readGap(root *html.Node, p dom.Point) (selection.GapCursor, bool) {
	if !isBetweenBlocks(p.Node) {
		return selection.GapCursor{}, false
	}
	if p.Node != root && dom.ClosestBlock(root, p.Node) == nil {
		return selection.GapCursor{}, false
	}
	if after := dom.ChildAt(p.Node, p.Offset); dom.IsBlock(after) {
		return selection.Gap(blockID(after), selection.SideBefore), true
	}
	if prev := dom.ChildAt(p.Node, p.Offset-1); dom.IsBlock(prev) {
		return selection.Gap(blockID(prev), selection.SideAfter), true
	}
	return selection.GapCursor{}, false
}

// SyncSelection writes sel into the DOM selection. A nil sel clears it. The
// DOM is left alone when it already shows sel, so no selectionchange fires.
func SyncSelection(root *html.Node, api dom.SelectionAPI, sel selection.Selection) error {
	if sel == nil {
		if _, ok := api.Selection(); ok {
			api.RemoveAllRanges()
		}
		return nil
	}
	anchor, focus, err := domRange(root, sel)
	if err != nil {
		return err
	}
	if cur, ok := api.Selection(); ok && cur.Anchor == anchor && cur.Focus == focus {
		return nil
	}
	api.SetBaseAndExtent(anchor, focus)
	return nil
}

func domRange(root *html.Node, sel selection.Selection) (anchor, focus dom.Point, err error) {
	switch s := sel.(type) {
	case selection.TextSelection:
		if anchor, err = StateToDOMPosition(root, s.Anchor); err != nil {
			return anchor, focus, err
		}
		if s.Collapsed() {
			return anchor, anchor, nil
		}
		focus, err = StateToDOMPosition(root, s.Head)
		return anchor, focus, err
	case selection.NodeSelection:
		el, err := blockElement(root, s.NodeID)
		if err != nil {
			return anchor, focus, err
		}
		i := dom.IndexOf(el)
		return dom.Point{Node: el.Parent, Offset: i}, dom.Point{Node: el.Parent, Offset: i + 1}, nil
	case selection.GapCursor:
		el, err := blockElement(root, s.BlockID)
		if err != nil {
			return anchor, focus, err
		}
		i := dom.IndexOf(el)
		if s.Side == selection.SideAfter {
			i++
		}
		p := dom.Point{Node: el.Parent, Offset: i}
		return p, p, nil
	default:
		return anchor, focus, fmt.Errorf("unknown selection %T", sel)
	}
}

func blockElement(root *html.Node, id model.BlockID) (*html.Node, error) {
	el := dom.FindBlock(root, string(id))
	if el == nil || el.Parent == nil {
		return nil, fmt.Errorf("%s: %w", id, ErrBlockNotMounted)
	}
	return el, nil
}
