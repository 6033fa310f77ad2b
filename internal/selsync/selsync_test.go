package selsync

import (
	"errors"
	"testing"

	"golang.org/x/net/html"

	"github.com/dshills/inkwell/internal/dom"
	"github.com/dshills/inkwell/internal/model"
	"github.com/dshills/inkwell/internal/reconcile"
	"github.com/dshills/inkwell/internal/schema"
	"github.com/dshills/inkwell/internal/selection"
	"github.com/dshills/inkwell/internal/state"
)

// fixture renders:
//
//	p1:    <strong>ab</strong>cd<img>ef   (length 7)
//	empty: <br data-filler>
//	hr:    void, selectable
//	bq:    blockquote > q1 "quote"
//	code:  pre > code "x := 1"
func fixture(t *testing.T) (*html.Node, *model.Document) {
	t.Helper()
	doc := model.NewDocument(
		model.NewBlockNode(model.Paragraph, []model.Node{
			model.NewTextNode("ab", model.NewMark(model.Bold)),
			model.NewTextNode("cd"),
			model.NewInlineNode(schema.InlineImage, model.Attrs{"src": "i.png"}),
			model.NewTextNode("ef"),
		}, "p1", nil),
		model.EmptyParagraph("empty"),
		model.NewBlockNode(schema.HorizontalRule, nil, "hr", nil),
		model.NewContainerBlock(schema.Blockquote, []*model.BlockNode{
			model.NewBlockNode(model.Paragraph, []model.Node{model.NewTextNode("quote")}, "q1", nil),
		}, "bq", nil),
		model.NewBlockNode(schema.CodeBlock, []model.Node{model.NewTextNode("x := 1")}, "code", nil),
	)
	s := state.Create(state.Config{Doc: doc, Schema: schema.Basic()})
	root := dom.Element("div", "contenteditable", "true")
	reconcile.New(s.Schema()).Reconcile(root, nil, s, reconcile.Options{})
	return root, doc
}

func block(t *testing.T, root *html.Node, id string) *html.Node {
	t.Helper()
	el := dom.FindBlock(root, id)
	if el == nil {
		t.Fatalf("block %s not rendered", id)
	}
	return el
}

func TestPositionRoundTrip(t *testing.T) {
	root, doc := fixture(t)
	for _, b := range model.LeafBlocks(doc) {
		if b.ID == "hr" {
			continue
		}
		for off := 0; off <= model.BlockLength(b); off++ {
			pos := selection.At(b.ID, off)
			pt, err := StateToDOMPosition(root, pos)
			if err != nil {
				t.Fatalf("StateToDOMPosition(%s) error = %v", pos, err)
			}
			got, ok := DOMPositionToState(root, pt.Node, pt.Offset)
			if !ok || got != pos {
				t.Errorf("DOMPositionToState(StateToDOMPosition(%s)) = %s, %v", pos, got, ok)
			}
		}
	}
}

func TestStateToDOMPosition(t *testing.T) {
	root, _ := fixture(t)
	p1 := block(t, root, "p1")
	strong := dom.ChildAt(p1, 0)
	cd := dom.ChildAt(p1, 1)
	ef := dom.ChildAt(p1, 3)

	tests := []struct {
		name string
		pos  selection.Position
		want dom.Point
	}{
		{"start inside mark", selection.At("p1", 0), dom.Point{Node: strong.FirstChild, Offset: 0}},
		{"text edge prefers end of first", selection.At("p1", 2), dom.Point{Node: strong.FirstChild, Offset: 2}},
		{"before atom", selection.At("p1", 4), dom.Point{Node: cd, Offset: 2}},
		{"after atom", selection.At("p1", 5), dom.Point{Node: ef, Offset: 0}},
		{"end", selection.At("p1", 7), dom.Point{Node: ef, Offset: 2}},
		{"empty block", selection.At("empty", 0), dom.Point{Node: block(t, root, "empty"), Offset: 0}},
		{"code content", selection.At("code", 3), dom.Point{Node: dom.ContentElement(block(t, root, "code")).FirstChild, Offset: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StateToDOMPosition(root, tt.pos)
			if err != nil {
				t.Fatalf("StateToDOMPosition() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("StateToDOMPosition() = %v/%d, want %v/%d", got.Node.Data, got.Offset, tt.want.Node.Data, tt.want.Offset)
			}
		})
	}
}

func TestStateToDOMPositionErrors(t *testing.T) {
	root, _ := fixture(t)
	tests := []struct {
		pos  selection.Position
		want error
	}{
		{selection.At("missing", 0), ErrBlockNotMounted},
		{selection.At("p1", 8), ErrOffsetOutOfRange},
		{selection.At("empty", 1), ErrOffsetOutOfRange},
		{selection.At("p1", -1), ErrOffsetOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.pos.String(), func(t *testing.T) {
			if _, err := StateToDOMPosition(root, tt.pos); !errors.Is(err, tt.want) {
				t.Errorf("StateToDOMPosition() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDOMPositionToState(t *testing.T) {
	root, _ := fixture(t)
	p1 := block(t, root, "p1")
	img := dom.ChildAt(p1, 2)
	pre := block(t, root, "code")

	tests := []struct {
		name   string
		node   *html.Node
		offset int
		want   selection.Position
		ok     bool
	}{
		{"element offset after atom", p1, 3, selection.At("p1", 5), true},
		{"element offset at end", p1, 4, selection.At("p1", 7), true},
		{"inside atom", img, 0, selection.At("p1", 4), true},
		{"text offset clamped", dom.ChildAt(p1, 1), 9, selection.At("p1", 4), true},
		{"wrapper before content", pre, 0, selection.At("code", 0), true},
		{"wrapper after content", pre, 1, selection.At("code", 6), true},
		{"between blocks", root, 1, selection.At("empty", 0), true},
		{"into container", root, 3, selection.At("q1", 0), true},
		{"past last block", root, 5, selection.At("code", 6), true},
		{"outside root", dom.Element("p"), 0, selection.Position{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DOMPositionToState(root, tt.node, tt.offset)
			if ok != tt.ok || got != tt.want {
				t.Errorf("DOMPositionToState() = %s, %v, want %s, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSyncAndReadSelection(t *testing.T) {
	root, doc := fixture(t)
	tests := []struct {
		name string
		sel  selection.Selection
	}{
		{"cursor", selection.Cursor(selection.At("p1", 3))},
		{"range across blocks", selection.Range(selection.At("p1", 1), selection.At("q1", 2))},
		{"backwards range", selection.Range(selection.At("q1", 5), selection.At("p1", 0))},
		{"cursor in empty block", selection.Cursor(selection.At("empty", 0))},
		{"node", selection.Node(doc, "hr")},
		{"gap before", selection.Gap("hr", selection.SideBefore)},
		{"gap after last", selection.Gap("code", selection.SideAfter)},
		{"nested cursor", selection.Cursor(selection.At("q1", 5))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := dom.NewHeadless()
			if err := SyncSelection(root, api, tt.sel); err != nil {
				t.Fatalf("SyncSelection() error = %v", err)
			}
			if got := ReadSelection(root, api); !selection.Equal(got, tt.sel) {
				t.Errorf("ReadSelection() = %#v, want %#v", got, tt.sel)
			}
		})
	}
}

func TestNodeSelectionSelectsElement(t *testing.T) {
	root, doc := fixture(t)
	api := dom.NewHeadless()
	if err := SyncSelection(root, api, selection.Node(doc, "hr")); err != nil {
		t.Fatal(err)
	}
	ds, _ := api.Selection()
	hr := block(t, root, "hr")
	if ds.Anchor.Node != root || dom.ChildAt(root, ds.Anchor.Offset) != hr || ds.Focus.Offset != ds.Anchor.Offset+1 {
		t.Errorf("selection does not wrap the block element: %+v", ds)
	}
}

func TestSyncSelectionSkipsNoop(t *testing.T) {
	root, _ := fixture(t)
	api := dom.NewHeadless()
	sel := selection.Cursor(selection.At("p1", 1))
	for i := 0; i < 3; i++ {
		if err := SyncSelection(root, api, sel); err != nil {
			t.Fatal(err)
		}
	}
	if got := api.Changes(); got != 1 {
		t.Errorf("Changes() = %d, want 1", got)
	}
	if err := SyncSelection(root, api, nil); err != nil {
		t.Fatal(err)
	}
	if _, ok := api.Selection(); ok {
		t.Error("nil selection should clear the DOM selection")
	}
	if err := SyncSelection(root, api, selection.NodeSelection{NodeID: "missing"}); !errors.Is(err, ErrBlockNotMounted) {
		t.Errorf("SyncSelection() error = %v, want ErrBlockNotMounted", err)
	}
}

func TestReadSelectionOutsideRoot(t *testing.T) {
	root, _ := fixture(t)
	api := dom.NewHeadless()
	if got := ReadSelection(root, api); got != nil {
		t.Errorf("ReadSelection() with no selection = %v, want nil", got)
	}

	elsewhere := dom.Text("sidebar")
	api.SetBaseAndExtent(dom.Point{Node: elsewhere}, dom.Point{Node: elsewhere, Offset: 3})
	if got := ReadSelection(root, api); got != nil {
		t.Errorf("ReadSelection() outside root = %v, want nil", got)
	}

	inside := dom.ChildAt(block(t, root, "p1"), 1)
	api.SetBaseAndExtent(dom.Point{Node: inside}, dom.Point{Node: elsewhere})
	if got := ReadSelection(root, api); got != nil {
		t.Errorf("ReadSelection() half outside = %v, want nil", got)
	}
}

func TestReadSelectionInsideVoidBlock(t *testing.T) {
	doc := model.NewDocument(
		model.NewBlockNode(schema.ImageBlock, nil, "fig", model.Attrs{"src": "a.png"}),
		model.NewBlockNode(model.Paragraph, []model.Node{model.NewTextNode("caption")}, "p", nil),
	)
	s := state.Create(state.Config{Doc: doc, Schema: schema.Basic()})
	root := dom.Element("div")
	reconcile.New(s.Schema()).Reconcile(root, nil, s, reconcile.Options{})

	img := block(t, root, "fig").FirstChild
	api := dom.NewHeadless()
	api.SetBaseAndExtent(dom.Point{Node: img}, dom.Point{Node: img})
	if got := ReadSelection(root, api); !selection.Equal(got, selection.Node(doc, "fig")) {
		t.Errorf("ReadSelection() = %#v, want node selection of fig", got)
	}
}
