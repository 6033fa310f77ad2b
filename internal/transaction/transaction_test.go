package transaction

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/inkwell/internal/model"
	"github.com/dshills/inkwell/internal/selection"
	"github.com/dshills/inkwell/internal/step"
)

var (
	bold   = model.NewMark(model.Bold)
	italic = model.NewMark(model.Italic)
)

func helloDoc() *model.Document {
	return model.NewDocument(model.NewBlockNode(model.Paragraph, []model.Node{model.NewTextNode("hello")}, "b1", nil))
}

func build(t *testing.T, b *Builder) *Transaction {
	t.Helper()
	tr, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return tr
}

func apply(t *testing.T, doc *model.Document, tr *Transaction) *model.Document {
	t.Helper()
	out, err := tr.Apply(doc)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	return out
}

func TestBuildMapsSelection(t *testing.T) {
	doc := helloDoc()
	sel := selection.Cursor(selection.At("b1", 5))
	tr := build(t, NewBuilder(sel, nil, OriginInput, doc).InsertText("b1", 5, " world"))

	want := selection.Cursor(selection.At("b1", 11))
	if !selection.Equal(tr.SelectionAfter, want) {
		t.Errorf("SelectionAfter = %v, want %v", tr.SelectionAfter, want)
	}
	if !selection.Equal(tr.SelectionBefore, sel) {
		t.Errorf("SelectionBefore = %v, want %v", tr.SelectionBefore, sel)
	}
	if tr.ID.String() == "" || tr.Origin() != OriginInput {
		t.Errorf("bad metadata: %+v", tr.Meta)
	}
}

func TestBuildExplicitSelection(t *testing.T) {
	sel := selection.Cursor(selection.At("b1", 0))
	after := selection.Range(selection.At("b1", 0), selection.At("b1", 5))
	tr := build(t, NewBuilder(sel, nil, OriginCommand, nil).SetSelection(after))
	if !selection.Equal(tr.SelectionAfter, after) {
		t.Errorf("SelectionAfter = %v, want %v", tr.SelectionAfter, after)
	}
}

func TestStoredMarksDefaults(t *testing.T) {
	doc := helloDoc()
	sel := selection.Cursor(selection.At("b1", 2))
	stored := []model.Mark{bold}

	tests := []struct {
		name  string
		build func(*Builder) *Builder
		want  []model.Mark
	}{
		{"untouched", func(b *Builder) *Builder { return b.AddMark("b1", 0, 1, italic) }, stored},
		{"typed", func(b *Builder) *Builder { return b.InsertText("b1", 2, "x", bold) }, nil},
		{"moved", func(b *Builder) *Builder { return b.SetSelection(selection.Cursor(selection.At("b1", 4))) }, nil},
		{"explicit", func(b *Builder) *Builder { return b.SetStoredMarks([]model.Mark{italic}) }, []model.Mark{italic}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := build(t, tt.build(NewBuilder(sel, stored, OriginInput, doc)))
			if !model.MarkSetsEqual(tr.StoredMarksAfter, tt.want) {
				t.Errorf("StoredMarksAfter = %v, want %v", tr.StoredMarksAfter, tt.want)
			}
			if !model.MarkSetsEqual(tr.StoredMarksBefore, stored) {
				t.Errorf("StoredMarksBefore = %v, want %v", tr.StoredMarksBefore, stored)
			}
		})
	}
}

func TestSetStoredMarksIsStep(t *testing.T) {
	tr := build(t, NewBuilder(nil, []model.Mark{bold}, OriginCommand, nil).SetStoredMarks(nil))
	if len(tr.Steps) != 1 || tr.DocChanged() {
		t.Fatalf("steps = %v, DocChanged = %v", tr.Steps, tr.DocChanged())
	}
	s := tr.Steps[0].(step.SetStoredMarks)
	if !model.MarkSetsEqual(s.PreviousMarks, []model.Mark{bold}) {
		t.Errorf("PreviousMarks = %v, want [bold]", s.PreviousMarks)
	}
}

func TestDeleteTextSegmentSources(t *testing.T) {
	doc := model.NewDocument(model.NewBlockNode(model.Paragraph, []model.Node{
		model.NewTextNode("bold", bold),
		model.NewTextNode("plain"),
	}, "b1", nil))
	explicit := []model.Segment{model.TextSegment("boldplain", italic)}

	tests := []struct {
		name string
		b    *Builder
		want []model.Segment
	}{
		{"explicit", NewBuilder(nil, nil, OriginInput, doc).DeleteText("b1", 0, 9, "", nil, explicit...), explicit},
		{"derived", NewBuilder(nil, nil, OriginInput, doc).DeleteText("b1", 0, 9, "", nil),
			[]model.Segment{model.TextSegment("bold", bold), model.TextSegment("plain")}},
		{"flattened", NewBuilder(nil, nil, OriginInput, nil).DeleteText("b1", 0, 9, "boldplain", nil),
			[]model.Segment{model.TextSegment("boldplain")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := build(t, tt.b)
			got := tr.Steps[0].(step.DeleteText).DeletedSegments
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DeletedSegments mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNoWorkingDoc(t *testing.T) {
	tests := []struct {
		name string
		fn   func(*Builder) *Builder
	}{
		{"deleteTextAt", func(b *Builder) *Builder { return b.DeleteTextAt("b1", 0, 1) }},
		{"removeInlineNode", func(b *Builder) *Builder { return b.RemoveInlineNode("b1", 0, nil) }},
		{"setInlineNodeAttr", func(b *Builder) *Builder { return b.SetInlineNodeAttr("b1", 0, nil) }},
		{"setBlockType", func(b *Builder) *Builder { return b.SetBlockType("b1", "heading", nil) }},
		{"setNodeAttr", func(b *Builder) *Builder { return b.SetNodeAttr("b1", "k", "v") }},
		{"removeNode", func(b *Builder) *Builder { return b.RemoveNode("b1") }},
		{"mergeBlocks", func(b *Builder) *Builder { return b.MergeBlocks("b1", "b2") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.fn(NewBuilder(nil, nil, OriginCommand, nil)).Build()
			if !errors.Is(err, ErrNoWorkingDoc) {
				t.Errorf("Build() error = %v, want ErrNoWorkingDoc", err)
			}
		})
	}
}

func TestBuilderErrorStopsAccumulation(t *testing.T) {
	b := NewBuilder(nil, nil, OriginCommand, helloDoc()).
		SetBlockType("missing", "heading", nil).
		InsertText("b1", 0, "x")
	if b.Len() != 0 {
		t.Errorf("Len() = %d, want 0", b.Len())
	}
	if _, err := b.Build(); !errors.Is(err, model.ErrBlockNotFound) {
		t.Errorf("Build() error = %v, want ErrBlockNotFound", err)
	}
}

func TestWorkingDocNotChained(t *testing.T) {
	doc := helloDoc()
	// The second delete reads the working doc, not the result of the insert.
	tr := build(t, NewBuilder(nil, nil, OriginInput, doc).
		InsertText("b1", 0, "XY", bold).
		DeleteTextAt("b1", 0, 2))
	got := tr.Steps[1].(step.DeleteText)
	if got.DeletedText != "he" {
		t.Errorf("DeletedText = %q, want %q", got.DeletedText, "he")
	}
}

func TestMultiMarkDeleteRoundTrip(t *testing.T) {
	doc := model.NewDocument(model.NewBlockNode(model.Paragraph, []model.Node{
		model.NewTextNode("AB", bold, italic),
		model.NewTextNode("CD", italic),
		model.NewTextNode("EF"),
	}, "p", nil))
	tr := build(t, NewBuilder(nil, nil, OriginInput, doc).DeleteTextAt("p", 0, 6))

	deleted := apply(t, doc, tr)
	restored := apply(t, deleted, Invert(tr))

	blk, _ := model.FindBlock(restored, "p")
	if len(blk.Children) != 3 {
		t.Fatalf("children = %d, want 3", len(blk.Children))
	}
	wantMarks := [][]model.Mark{{bold, italic}, {italic}, nil}
	for i, c := range blk.Children {
		tn := c.(*model.TextNode)
		if !model.MarkSetsEqual(tn.Marks, wantMarks[i]) {
			t.Errorf("child %d marks = %v, want %v", i, tn.Marks, wantMarks[i])
		}
	}
	if !model.DocumentsEqual(restored, doc) {
		t.Error("restored document differs from original")
	}
}

func TestBoldPlainDeleteUndo(t *testing.T) {
	doc := model.NewDocument(model.NewBlockNode(model.Paragraph, []model.Node{
		model.NewTextNode("bold", bold),
		model.NewTextNode("plain"),
	}, "b1", nil))
	tr := build(t, NewBuilder(selection.Cursor(selection.At("b1", 9)), nil, OriginInput, doc).
		DeleteText("b1", 0, 9, "boldplain", nil))

	restored := apply(t, apply(t, doc, tr), Invert(tr))
	blk, _ := model.FindBlock(restored, "b1")
	if got := model.BlockText(blk); got != "boldplain" {
		t.Errorf("text = %q, want boldplain", got)
	}
	if len(blk.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(blk.Children))
	}
	first, second := blk.Children[0].(*model.TextNode), blk.Children[1].(*model.TextNode)
	if !model.HasMark(first.Marks, model.Bold) || len(second.Marks) != 0 {
		t.Errorf("marks = %v / %v, want [bold] / []", first.Marks, second.Marks)
	}
}

func TestInvert(t *testing.T) {
	doc := helloDoc()
	clock := func() time.Time { return time.Unix(100, 0) }
	before := selection.Cursor(selection.At("b1", 5))
	tr := build(t, NewBuilder(before, []model.Mark{bold}, OriginInput, doc).
		WithClock(clock).
		InsertText("b1", 5, "!").
		SplitBlock("b1", 6, "b2"))

	inv := Invert(tr)
	if inv.Origin() != OriginHistory {
		t.Errorf("Origin = %q, want history", inv.Origin())
	}
	if v, _ := inv.Get(MetaInverts); v != tr.ID {
		t.Errorf("inverts = %v, want %v", v, tr.ID)
	}
	if inv.Steps[0].Kind() != step.KindMergeBlocks || inv.Steps[1].Kind() != step.KindDeleteText {
		t.Errorf("steps not reversed: %v", inv.Steps)
	}
	if !selection.Equal(inv.SelectionAfter, before) || !selection.Equal(inv.SelectionBefore, tr.SelectionAfter) {
		t.Error("selections not swapped")
	}
	if !model.MarkSetsEqual(inv.StoredMarksAfter, tr.StoredMarksBefore) {
		t.Error("stored marks not swapped")
	}
	if got := apply(t, apply(t, doc, tr), inv); !model.DocumentsEqual(got, doc) {
		t.Errorf("round trip mismatch:\n%s", cmp.Diff(doc, got))
	}
}

func TestAddToHistory(t *testing.T) {
	plain := build(t, NewBuilder(nil, nil, OriginInput, nil).InsertText("b1", 0, "x"))
	skip := build(t, NewBuilder(nil, nil, OriginInput, nil).InsertText("b1", 0, "x").SetMeta(MetaAddToHistory, false))
	if !plain.AddToHistory() || skip.AddToHistory() || Invert(plain).AddToHistory() {
		t.Error("AddToHistory wrong")
	}
}

func TestConcat(t *testing.T) {
	doc := helloDoc()
	s0 := selection.Cursor(selection.At("b1", 5))
	tr1 := build(t, NewBuilder(s0, nil, OriginInput, doc).InsertText("b1", 5, "a"))
	tr2 := build(t, NewBuilder(tr1.SelectionAfter, nil, OriginInput, nil).InsertText("b1", 6, "b"))

	c := Concat(tr1, tr2)
	if len(c.Steps) != 2 || !selection.Equal(c.SelectionBefore, s0) || !selection.Equal(c.SelectionAfter, tr2.SelectionAfter) {
		t.Errorf("Concat() = %+v", c)
	}
	if Concat() != nil || Concat(tr1) != tr1 {
		t.Error("Concat edge cases wrong")
	}
}
