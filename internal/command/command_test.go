package command

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/inkwell/internal/model"
	"github.com/dshills/inkwell/internal/schema"
	"github.com/dshills/inkwell/internal/selection"
	"github.com/dshills/inkwell/internal/state"
	"github.com/dshills/inkwell/internal/transaction"
)

var bold = model.NewMark(model.Bold)

func para(id model.BlockID, nodes ...model.Node) *model.BlockNode {
	return model.NewBlockNode(model.Paragraph, nodes, id, nil)
}

func txt(s string, marks ...model.Mark) *model.TextNode {
	return model.NewTextNode(s, marks...)
}

func newState(sel selection.Selection, blocks ...*model.BlockNode) *state.EditorState {
	return state.Create(state.Config{Doc: model.NewDocument(blocks...), Selection: sel, Schema: schema.Basic()})
}

func cursor(id model.BlockID, off int) selection.Selection {
	return selection.Cursor(selection.At(id, off))
}

func span(a model.BlockID, ao int, h model.BlockID, ho int) selection.Selection {
	return selection.Range(selection.At(a, ao), selection.At(h, ho))
}

// exec runs cmd and applies what it dispatched.
func exec(t *testing.T, s *state.EditorState, cmd Command) (*state.EditorState, *transaction.Transaction, bool) {
	t.Helper()
	var tr *transaction.Transaction
	ok := cmd(s, func(x *transaction.Transaction) { tr = x })
	if !ok {
		if tr != nil {
			t.Error("command returned false but dispatched")
		}
		return s, nil, false
	}
	if tr == nil {
		t.Fatal("command returned true without dispatching")
	}
	next, err := s.Apply(tr)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	return next, tr, true
}

func texts(s *state.EditorState) []string {
	var out []string
	for _, b := range model.LeafBlocks(s.Doc()) {
		out = append(out, model.BlockText(b))
	}
	return out
}

func assertUndoable(t *testing.T, before, after *state.EditorState, tr *transaction.Transaction) {
	t.Helper()
	back, err := after.Apply(transaction.Invert(tr))
	if err != nil {
		t.Fatalf("inverse Apply() error = %v", err)
	}
	if !model.DocumentsEqual(back.Doc(), before.Doc()) {
		t.Errorf("inverse did not restore the document: %v", texts(back))
	}
}

func TestInsertText(t *testing.T) {
	tests := []struct {
		name    string
		state   *state.EditorState
		text    string
		want    []string
		wantSel selection.Selection
	}{
		{"at cursor", newState(cursor("p", 5), para("p", txt("hello"))), "!", []string{"hello!"}, cursor("p", 6)},
		{"replaces range", newState(span("p", 4, "p", 1), para("p", txt("hello"))), "ipp", []string{"hippo"}, cursor("p", 4)},
		{"across blocks", newState(span("a", 2, "b", 1), para("a", txt("one")), para("b", txt("two"))), "-", []string{"on-wo"}, cursor("a", 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, tr, ok := exec(t, tt.state, InsertText(tt.text))
			if !ok {
				t.Fatal("InsertText did not apply")
			}
			if diff := cmp.Diff(tt.want, texts(next)); diff != "" {
				t.Errorf("texts mismatch (-want +got):\n%s", diff)
			}
			if !selection.Equal(next.Selection(), tt.wantSel) {
				t.Errorf("selection = %#v, want %#v", next.Selection(), tt.wantSel)
			}
			assertUndoable(t, tt.state, next, tr)
		})
	}
}

func TestInsertTextInheritsMarks(t *testing.T) {
	s := newState(cursor("p", 2), para("p", txt("ab", bold), txt("cd")))
	next, _, _ := exec(t, s, InsertText("X"))
	blk, _ := next.BlockByID("p")
	if got := model.MarksAtOffset(blk, 2); !model.HasMark(got, model.Bold) {
		t.Errorf("inserted text marks = %v, want bold", got)
	}

	stored := state.Create(state.Config{Doc: s.Doc(), Selection: cursor("p", 4), StoredMarks: []model.Mark{bold}})
	next, _, _ = exec(t, stored, InsertText("Y"))
	blk, _ = next.BlockByID("p")
	if got := model.MarksAtOffset(blk, 4); !model.HasMark(got, model.Bold) {
		t.Errorf("stored marks not used: %v", got)
	}
	if next.StoredMarks() != nil {
		t.Errorf("stored marks should clear after typing, got %v", next.StoredMarks())
	}
}

func TestCommandsRejectWrongSelection(t *testing.T) {
	hr := model.NewBlockNode(schema.HorizontalRule, nil, "hr", nil)
	nodeSel := newState(selection.NodeSelection{NodeID: "hr", Path: []model.BlockID{"hr"}}, para("p", txt("x")), hr)
	gap := newState(selection.Gap("hr", selection.SideBefore), para("p", txt("x")), hr)

	gen := model.NewSequenceGenerator("n", 1)
	cmds := map[string]Command{
		"InsertText":   InsertText("a"),
		"ToggleMark":   ToggleMark(model.Bold, nil),
		"SplitBlock":   SplitBlock(gen),
		"SetBlockType": SetBlockType(schema.Heading, model.Attrs{"level": 1}),
	}
	for name, cmd := range cmds {
		t.Run(name, func(t *testing.T) {
			if cmd(nodeSel, nil) {
				t.Error("applied to a node selection of a void block")
			}
			if cmd(gap, nil) {
				t.Error("applied to a gap cursor")
			}
		})
	}
	if DeleteBackward(gap, nil) || DeleteSelection(gap, nil) {
		t.Error("delete applied to a gap cursor")
	}
}

func TestNilDispatchQueries(t *testing.T) {
	s := newState(cursor("p", 1), para("p", txt("x")))
	if !InsertText("y")(s, nil) {
		t.Error("InsertText query = false")
	}
	if got := texts(s); got[0] != "x" {
		t.Error("query changed the state")
	}
}

func TestDeleteBackward(t *testing.T) {
	hr := model.NewBlockNode(schema.HorizontalRule, nil, "hr", nil)
	tests := []struct {
		name    string
		state   *state.EditorState
		want    []string
		wantSel selection.Selection
	}{
		{"character", newState(cursor("p", 3), para("p", txt("abc"))), []string{"ab"}, cursor("p", 2)},
		{"inline atom", newState(cursor("p", 2), para("p", txt("a"), model.NewInlineNode(schema.HardBreak, nil), txt("b"))), []string{"ab"}, cursor("p", 1)},
		{"joins blocks", newState(cursor("b", 0), para("a", txt("one")), para("b", txt("two"))), []string{"onetwo"}, cursor("a", 3)},
		{"range", newState(span("p", 1, "p", 3), para("p", txt("abcd"))), []string{"ad"}, cursor("p", 1)},
		{"removes selected node", newState(selection.NodeSelection{NodeID: "hr"}, para("a", txt("x")), hr, para("b", txt("y"))), []string{"x", "y"}, cursor("b", 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, tr, ok := exec(t, tt.state, DeleteBackward)
			if !ok {
				t.Fatal("DeleteBackward did not apply")
			}
			if diff := cmp.Diff(tt.want, texts(next)); diff != "" {
				t.Errorf("texts mismatch (-want +got):\n%s", diff)
			}
			if !selection.Equal(next.Selection(), tt.wantSel) {
				t.Errorf("selection = %#v, want %#v", next.Selection(), tt.wantSel)
			}
			assertUndoable(t, tt.state, next, tr)
		})
	}
}

func TestDeleteBackwardSelectsVoidBlock(t *testing.T) {
	hr := model.NewBlockNode(schema.HorizontalRule, nil, "hr", nil)
	s := newState(cursor("p", 0), hr, para("p", txt("x")))
	next, tr, ok := exec(t, s, DeleteBackward)
	if !ok {
		t.Fatal("DeleteBackward did not apply")
	}
	if id, _ := selection.SelectedNodeID(next.Selection()); id != "hr" {
		t.Errorf("selection = %#v, want node selection of hr", next.Selection())
	}
	if tr.DocChanged() || tr.AddToHistory() {
		t.Error("selecting the previous block should not change or record the document")
	}
}

func TestDeleteBackwardAtDocumentStart(t *testing.T) {
	s := newState(cursor("p", 0), para("p", txt("x")))
	if DeleteBackward(s, nil) {
		t.Error("DeleteBackward at the document start = true")
	}
}

func TestDeleteSelectionAcrossBlocks(t *testing.T) {
	s := newState(span("c", 3, "a", 2),
		para("a", txt("hello")), para("b", txt("mid")), para("c", txt("world")))
	next, tr, ok := exec(t, s, DeleteSelection)
	if !ok {
		t.Fatal("DeleteSelection did not apply")
	}
	if diff := cmp.Diff([]string{"held"}, texts(next)); diff != "" {
		t.Errorf("texts mismatch (-want +got):\n%s", diff)
	}
	if !selection.Equal(next.Selection(), cursor("a", 2)) {
		t.Errorf("selection = %#v", next.Selection())
	}
	assertUndoable(t, s, next, tr)
}

func TestDeleteSelectionNonSiblings(t *testing.T) {
	quote := model.NewContainerBlock(schema.Blockquote, []*model.BlockNode{para("q", txt("inner"))}, "bq", nil)
	s := newState(span("p", 1, "q", 2), para("p", txt("outer")), quote)
	if DeleteSelection(s, nil) {
		t.Error("DeleteSelection across nesting levels = true")
	}
}

func TestDeleteOnlyBlock(t *testing.T) {
	hr := model.NewBlockNode(schema.HorizontalRule, nil, "hr", nil)
	s := newState(selection.NodeSelection{NodeID: "hr"}, hr)
	if DeleteSelection(s, nil) {
		t.Error("deleting the only block = true")
	}
}

func TestToggleMark(t *testing.T) {
	tests := []struct {
		name     string
		state    *state.EditorState
		wantBold []bool
	}{
		{"adds", newState(span("p", 0, "p", 2), para("p", txt("abcd"))), []bool{true, true, false, false}},
		{"removes when all marked", newState(span("p", 0, "p", 2), para("p", txt("ab", bold), txt("cd"))), []bool{false, false, false, false}},
		{"adds when mixed", newState(span("p", 1, "p", 3), para("p", txt("ab", bold), txt("cd"))), []bool{true, true, true, false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, tr, ok := exec(t, tt.state, ToggleMark(model.Bold, nil))
			if !ok {
				t.Fatal("ToggleMark did not apply")
			}
			blk, _ := next.BlockByID("p")
			var got []bool
			for off := 0; off < model.BlockLength(blk); off++ {
				got = append(got, model.HasMark(model.MarksAtOffset(blk, off), model.Bold))
			}
			if diff := cmp.Diff(tt.wantBold, got); diff != "" {
				t.Errorf("bold mismatch (-want +got):\n%s", diff)
			}
			if !selection.Equal(next.Selection(), tt.state.Selection()) {
				t.Error("selection should be kept")
			}
			assertUndoable(t, tt.state, next, tr)
		})
	}
}

func TestToggleMarkAcrossBlocks(t *testing.T) {
	s := newState(span("a", 1, "b", 2), para("a", txt("one")), para("b", txt("two")))
	next, _, ok := exec(t, s, ToggleMark(model.Italic, nil))
	if !ok {
		t.Fatal("ToggleMark did not apply")
	}
	a, _ := next.BlockByID("a")
	b, _ := next.BlockByID("b")
	if model.HasMark(model.MarksAtOffset(a, 0), model.Italic) || !model.HasMark(model.MarksAtOffset(a, 2), model.Italic) {
		t.Errorf("block a marks wrong: %+v", a.Children)
	}
	if !model.HasMark(model.MarksAtOffset(b, 1), model.Italic) || model.HasMark(model.MarksAtOffset(b, 2), model.Italic) {
		t.Errorf("block b marks wrong: %+v", b.Children)
	}
}

func TestToggleMarkStored(t *testing.T) {
	s := newState(cursor("p", 2), para("p", txt("ab", bold)))
	next, tr, ok := exec(t, s, ToggleMark(model.Bold, nil))
	if !ok {
		t.Fatal("ToggleMark did not apply")
	}
	if tr.DocChanged() {
		t.Error("cursor toggle changed the document")
	}
	if got := next.StoredMarks(); got == nil || len(got) != 0 {
		t.Errorf("StoredMarks() = %v, want empty non-nil", got)
	}

	typed, _, _ := exec(t, next, InsertText("c"))
	blk, _ := typed.BlockByID("p")
	if model.HasMark(model.MarksAtOffset(blk, 2), model.Bold) {
		t.Error("text typed after toggling bold off is bold")
	}

	again, _, _ := exec(t, next, ToggleMark(model.Bold, nil))
	if !model.HasMark(again.StoredMarks(), model.Bold) {
		t.Errorf("second toggle StoredMarks() = %v, want bold", again.StoredMarks())
	}
}

func TestToggleMarkDefaults(t *testing.T) {
	s := newState(span("p", 0, "p", 1), para("p", txt("x")))
	next, _, _ := exec(t, s, ToggleMark(schema.Link, model.Attrs{"href": "https://example.com"}))
	blk, _ := next.BlockByID("p")
	m, ok := model.FindMark(model.MarksAtOffset(blk, 0), schema.Link)
	if !ok || m.Attrs.String("href") != "https://example.com" {
		t.Errorf("link mark = %+v, %v", m, ok)
	}
}

func TestSplitBlock(t *testing.T) {
	heading := func(id model.BlockID, s string) *model.BlockNode {
		return model.NewBlockNode(schema.Heading, []model.Node{txt(s)}, id, model.Attrs{"level": 2})
	}
	tests := []struct {
		name      string
		state     *state.EditorState
		want      []string
		wantTypes []model.NodeType
	}{
		{"middle", newState(cursor("p", 2), para("p", txt("abcd"))), []string{"ab", "cd"}, []model.NodeType{model.Paragraph, model.Paragraph}},
		{"heading middle keeps type", newState(cursor("h", 1), heading("h", "ab")), []string{"a", "b"}, []model.NodeType{schema.Heading, schema.Heading}},
		{"heading end starts paragraph", newState(cursor("h", 2), heading("h", "ab")), []string{"ab", ""}, []model.NodeType{schema.Heading, model.Paragraph}},
		{"range", newState(span("p", 1, "p", 3), para("p", txt("abcd"))), []string{"a", "d"}, []model.NodeType{model.Paragraph, model.Paragraph}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, tr, ok := exec(t, tt.state, SplitBlock(model.NewSequenceGenerator("n", 1)))
			if !ok {
				t.Fatal("SplitBlock did not apply")
			}
			if diff := cmp.Diff(tt.want, texts(next)); diff != "" {
				t.Errorf("texts mismatch (-want +got):\n%s", diff)
			}
			var types []model.NodeType
			for _, b := range next.Doc().Children {
				types = append(types, b.Type)
			}
			if diff := cmp.Diff(tt.wantTypes, types); diff != "" {
				t.Errorf("types mismatch (-want +got):\n%s", diff)
			}
			if !selection.Equal(next.Selection(), cursor("n1", 0)) {
				t.Errorf("selection = %#v, want cursor at n1:0", next.Selection())
			}
			assertUndoable(t, tt.state, next, tr)
		})
	}
}

func TestSplitBlockIDTaken(t *testing.T) {
	s := newState(cursor("n1", 0), para("n1", txt("x")))
	if SplitBlock(model.NewSequenceGenerator("n", 1))(s, nil) {
		t.Error("SplitBlock with a colliding id = true")
	}
}

func TestSelectNode(t *testing.T) {
	hr := model.NewBlockNode(schema.HorizontalRule, nil, "hr", nil)
	quote := model.NewContainerBlock(schema.Blockquote, []*model.BlockNode{para("q", txt("x"))}, "bq", nil)
	s := newState(cursor("p", 0), para("p", txt("x")), hr, quote)

	tests := []struct {
		id   model.BlockID
		want bool
	}{
		{"hr", true},
		{"bq", true},
		{"p", false},
		{"missing", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			next, tr, ok := exec(t, s, SelectNode(tt.id))
			if ok != tt.want {
				t.Fatalf("SelectNode(%s) = %v, want %v", tt.id, ok, tt.want)
			}
			if !ok {
				return
			}
			if !selection.Equal(next.Selection(), selection.Node(s.Doc(), tt.id)) {
				t.Errorf("selection = %#v", next.Selection())
			}
			if tr.AddToHistory() {
				t.Error("selecting a node should not be recorded")
			}
		})
	}
}

func TestSetBlockType(t *testing.T) {
	s := newState(span("a", 1, "b", 1), para("a", txt("one")), para("b", txt("two")), para("c", txt("three")))
	h1 := model.Attrs{"level": 1}
	next, tr, ok := exec(t, s, SetBlockType(schema.Heading, h1))
	if !ok {
		t.Fatal("SetBlockType did not apply")
	}
	var types []model.NodeType
	for _, b := range next.Doc().Children {
		types = append(types, b.Type)
	}
	if diff := cmp.Diff([]model.NodeType{schema.Heading, schema.Heading, model.Paragraph}, types); diff != "" {
		t.Errorf("types mismatch (-want +got):\n%s", diff)
	}
	assertUndoable(t, s, next, tr)

	if SetBlockType(schema.Heading, h1)(next, nil) {
		t.Error("SetBlockType with nothing to change = true")
	}
}

func TestChain(t *testing.T) {
	s := newState(cursor("p", 0), para("p", txt("x")))
	var calls int
	never := func(*state.EditorState, Dispatch) bool { calls++; return false }
	cmd := Chain(never, DeleteBackward, InsertText("a"), never)
	next, _, ok := exec(t, s, cmd)
	if !ok || calls != 1 {
		t.Fatalf("Chain() = %v after %d misses", ok, calls)
	}
	if got := texts(next); got[0] != "ax" {
		t.Errorf("text = %q, want ax", got[0])
	}
}
