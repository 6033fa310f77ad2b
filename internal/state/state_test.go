package state

import (
	"errors"
	"testing"

	"github.com/dshills/inkwell/internal/model"
	"github.com/dshills/inkwell/internal/schema"
	"github.com/dshills/inkwell/internal/selection"
	"github.com/dshills/inkwell/internal/transaction"
)

func helloState() *EditorState {
	doc := model.NewDocument(model.NewBlockNode(model.Paragraph, []model.Node{model.NewTextNode("hello")}, "b1", nil))
	return Create(Config{Doc: doc, Selection: selection.Cursor(selection.At("b1", 5))})
}

func TestCreateDefaults(t *testing.T) {
	s := Create(Config{})
	if len(s.Doc().Children) != 1 {
		t.Fatalf("children = %d, want 1", len(s.Doc().Children))
	}
	want := selection.Cursor(selection.At(s.Doc().Children[0].ID, 0))
	if !selection.Equal(s.Selection(), want) {
		t.Errorf("Selection() = %v, want %v", s.Selection(), want)
	}
	if s.Schema() != nil {
		t.Error("Schema() should be nil when not configured")
	}
}

func TestApplyInsertText(t *testing.T) {
	s := helloState()
	tr, err := s.Tr(transaction.OriginInput).InsertText("b1", 5, " world").Build()
	if err != nil {
		t.Fatal(err)
	}
	next, err := s.Apply(tr)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got := model.BlockText(next.Doc().Children[0]); got != "hello world" {
		t.Errorf("text = %q, want %q", got, "hello world")
	}
	if got := model.BlockText(s.Doc().Children[0]); got != "hello" {
		t.Errorf("original state changed: %q", got)
	}
	want := selection.Cursor(selection.At("b1", 11))
	if !selection.Equal(next.Selection(), want) {
		t.Errorf("Selection() = %v, want %v", next.Selection(), want)
	}
}

func TestApplyFailureKeepsState(t *testing.T) {
	s := helloState()
	tr, _ := s.Tr(transaction.OriginInput).InsertText("nope", 0, "x").Build()
	next, err := s.Apply(tr)
	if !errors.Is(err, model.ErrBlockNotFound) || next != nil {
		t.Errorf("Apply() = %v, %v; want nil, ErrBlockNotFound", next, err)
	}
}

func TestStoredMarksFlow(t *testing.T) {
	s := helloState()
	bold := model.NewMark(model.Bold)
	tr, _ := s.Tr(transaction.OriginCommand).SetStoredMarks([]model.Mark{bold}).Build()
	next, err := s.Apply(tr)
	if err != nil {
		t.Fatal(err)
	}
	if !model.MarkSetsEqual(next.StoredMarks(), []model.Mark{bold}) {
		t.Errorf("StoredMarks() = %v, want [bold]", next.StoredMarks())
	}
	if !model.MarkSetsEqual(next.MarksAtCursor(), []model.Mark{bold}) {
		t.Errorf("MarksAtCursor() = %v", next.MarksAtCursor())
	}
	if next.Doc() != s.Doc() {
		t.Error("stored marks change should keep the document")
	}
}

func TestMarksAtCursorUsesTextBefore(t *testing.T) {
	bold := model.NewMark(model.Bold)
	doc := model.NewDocument(model.NewBlockNode(model.Paragraph, []model.Node{
		model.NewTextNode("bold", bold), model.NewTextNode("plain"),
	}, "p", nil))
	s := Create(Config{Doc: doc, Selection: selection.Cursor(selection.At("p", 4))})
	if !model.HasMark(s.MarksAtCursor(), model.Bold) {
		t.Errorf("MarksAtCursor() = %v, want bold", s.MarksAtCursor())
	}
}

func TestBlockIndex(t *testing.T) {
	doc := model.NewDocument(
		model.NewContainerBlock(schema.Blockquote, []*model.BlockNode{model.EmptyParagraph("inner")}, "quote", nil),
		model.EmptyParagraph("tail"),
	)
	s := Create(Config{Doc: doc, Schema: schema.Basic()})
	if b, ok := s.BlockByID("inner"); !ok || b.ID != "inner" {
		t.Errorf("BlockByID(inner) = %v, %v", b, ok)
	}
	if _, ok := s.BlockByID("gone"); ok {
		t.Error("BlockByID(gone) should miss")
	}
	path := s.NodePath("inner")
	if len(path) != 2 || path[0] != "quote" || path[1] != "inner" {
		t.Errorf("NodePath() = %v", path)
	}
	if s.NodePath("gone") != nil {
		t.Error("NodePath(gone) should be nil")
	}
}

func TestApplyKeepsSelectionValid(t *testing.T) {
	doc := model.NewDocument(
		model.NewBlockNode(model.Paragraph, []model.Node{model.NewTextNode("a")}, "b1", nil),
		model.NewBlockNode(model.Paragraph, []model.Node{model.NewTextNode("hello")}, "b2", nil),
	)
	s := Create(Config{Doc: doc, Selection: selection.Cursor(selection.At("b2", 5))})

	tr, err := s.Tr(transaction.OriginCommand).RemoveNode("b2").Build()
	if err != nil {
		t.Fatal(err)
	}
	next, err := s.Apply(tr)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if want := selection.Cursor(selection.At("b1", 1)); !selection.Equal(next.Selection(), want) {
		t.Errorf("Selection() = %v, want %v", next.Selection(), want)
	}

	// A selection set explicitly to a stale position is clamped.
	tr, err = s.Tr(transaction.OriginCommand).
		DeleteTextAt("b2", 0, 5).
		SetSelection(selection.Cursor(selection.At("b2", 5))).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	next, err = s.Apply(tr)
	if err != nil {
		t.Fatal(err)
	}
	if !selection.Validate(next.Doc(), next.Selection()) {
		t.Errorf("Selection() = %v is not valid", next.Selection())
	}
	if want := selection.Cursor(selection.At("b2", 0)); !selection.Equal(next.Selection(), want) {
		t.Errorf("Selection() = %v, want %v", next.Selection(), want)
	}
}

func TestCreatePlaceholderIDs(t *testing.T) {
	s := Create(Config{IDGenerator: model.NewSequenceGenerator("n", 1)})
	if got := s.Doc().Children[0].ID; got != "n1" {
		t.Errorf("placeholder id = %q, want n1", got)
	}

	a, b := Create(Config{}), Create(Config{})
	blk := a.Doc().Children[0]
	tr, err := b.Tr(transaction.OriginCommand).InsertNode("", 1, blk).Build()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Apply(tr); err != nil {
		t.Errorf("inserting another empty document's block: %v", err)
	}
}
