package lua

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/dshills/inkwell/internal/dom"
	"github.com/dshills/inkwell/internal/model"
	"github.com/dshills/inkwell/internal/schema"
	"github.com/dshills/inkwell/internal/selection"
	"github.com/dshills/inkwell/internal/state"
	"github.com/dshills/inkwell/internal/transaction"
	"github.com/dshills/inkwell/internal/view"
)

func newView(t *testing.T) *view.View {
	t.Helper()
	doc := model.NewDocument(
		model.NewBlockNode(model.Paragraph, []model.Node{model.NewTextNode("hello world")}, "b1", nil),
		model.NewBlockNode(schema.HorizontalRule, nil, "hr", nil),
	)
	s := state.Create(state.Config{
		Doc:       doc,
		Selection: selection.Cursor(selection.At("b1", 0)),
		Schema:    schema.Basic(),
	})
	v := view.New(dom.Element("div"), s, view.WithLogger(zaptest.NewLogger(t)))
	if err := v.Mount(); err != nil {
		t.Fatal(err)
	}
	return v
}

func newRuntime(t *testing.T, host Host, opts ...Option) *Runtime {
	t.Helper()
	opts = append([]Option{
		WithLogger(zaptest.NewLogger(t)),
		WithIDGenerator(model.NewSequenceGenerator("n", 1)),
	}, opts...)
	rt, err := NewRuntime(host, opts...)
	if err != nil {
		t.Fatalf("NewRuntime() error = %v", err)
	}
	t.Cleanup(rt.Close)
	return rt
}

func run(t *testing.T, rt *Runtime, code string) {
	t.Helper()
	if err := rt.Run(context.Background(), code); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func blockText(v *view.View, id model.BlockID) string {
	b, ok := v.BlockByID(id)
	if !ok {
		return "<missing>"
	}
	return model.BlockText(b)
}

func TestNewRuntimeRequiresHost(t *testing.T) {
	if _, err := NewRuntime(nil); !errors.Is(err, ErrNoHost) {
		t.Errorf("NewRuntime(nil) error = %v, want ErrNoHost", err)
	}
}

func TestRuntimeQueries(t *testing.T) {
	v := newView(t)
	var out bytes.Buffer
	rt := newRuntime(t, v, WithOutput(&out))

	run(t, rt, `
		local editor = require("editor")
		local bs = editor.blocks()
		print(#bs, bs[1].id, bs[1].type, bs[1].length, bs[2].id, tostring(bs[2].void))
		print(editor.text("b1"), editor.length("b1"), tostring(editor.text("nope")))
		local sel = editor.selection()
		print(sel.type, sel.head.block, sel.head.offset)
	`)

	want := "2\tb1\tparagraph\t11\thr\ttrue\nhello world\t11\tnil\ntext\tb1\t0\n"
	if got := out.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRuntimeEdits(t *testing.T) {
	v := newView(t)
	rt := newRuntime(t, v)

	run(t, rt, `
		assert(editor.insert_text("b1", 0, "Oh, "))
		assert(editor.delete_text("b1", 9, 15))
		assert(editor.add_mark("b1", 0, 2, "bold"))
		local ok, id = editor.split_block("b1", 4)
		assert(ok and id == "n1", "split returned " .. tostring(id))
	`)

	if got := blockText(v, "b1"); got != "Oh, " {
		t.Errorf("b1 = %q, want %q", got, "Oh, ")
	}
	if got := blockText(v, "n1"); got != "hello" {
		t.Errorf("n1 = %q, want hello", got)
	}
	b1, _ := v.BlockByID("b1")
	if !model.HasMark(model.MarksAtOffset(b1, 1), model.Bold) {
		t.Error("b1[0:2] is not bold")
	}
	if got := v.State().Selection(); !selection.Equal(got, selection.Cursor(selection.At("n1", 0))) {
		t.Errorf("selection = %#v, want cursor n1:0", got)
	}
	if got := v.History().UndoDepth(); got != 4 {
		t.Errorf("UndoDepth() = %d, want 4", got)
	}
	if got := dom.RenderChildren(v.Root()); !strings.Contains(got, `<strong data-mark="bold">Oh</strong>`) {
		t.Errorf("DOM = %s", got)
	}
}

func TestRuntimeOrigin(t *testing.T) {
	v := newView(t)
	rt := newRuntime(t, v)
	var origins []transaction.Origin
	v.OnStateChange(func(_, _ *state.EditorState, tr *transaction.Transaction) {
		if tr != nil {
			origins = append(origins, tr.Origin())
		}
	})

	run(t, rt, `editor.insert_text("b1", 0, "x") editor.set_cursor("b1", 2)`)

	if len(origins) != 2 || origins[0] != transaction.OriginCommand || origins[1] != transaction.OriginCommand {
		t.Errorf("origins = %v, want two command transactions", origins)
	}
	if got := v.History().UndoDepth(); got != 1 {
		t.Errorf("UndoDepth() = %d, want 1 (cursor moves stay off the stack)", got)
	}
}

func TestRuntimeRemoveMarkRestoresAttrs(t *testing.T) {
	v := newView(t)
	rt := newRuntime(t, v)

	run(t, rt, `
		assert(editor.add_mark("b1", 0, 5, "link", {href = "https://example.com"}))
		assert(editor.remove_mark("b1", 0, 5, "link"))
		assert(editor.undo())
	`)

	b1, _ := v.BlockByID("b1")
	m, ok := model.FindMark(model.MarksAtOffset(b1, 2), schema.Link)
	if !ok {
		t.Fatal("link not restored by undo")
	}
	if got := m.Attrs.String("href"); got != "https://example.com" {
		t.Errorf("href = %q after undo", got)
	}
}

func TestRuntimeFailures(t *testing.T) {
	v := newView(t)
	var out bytes.Buffer
	rt := newRuntime(t, v, WithOutput(&out))

	tests := []struct {
		name string
		call string
	}{
		{"insert into missing block", `editor.insert_text("zz", 0, "x")`},
		{"delete past end", `editor.delete_text("b1", 0, 99)`},
		{"cursor in void block", `editor.set_cursor("hr", 0)`},
		{"cursor past end", `editor.set_cursor("b1", 99)`},
		{"remove absent mark", `editor.remove_mark("b1", 0, 5, "italic")`},
		{"split missing block", `editor.split_block("zz", 0)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			before := v.State()
			run(t, rt, `local ok, msg = `+tt.call+` print(tostring(ok), type(msg))`)
			if got := out.String(); got != "false\tstring\n" {
				t.Errorf("%s printed %q, want false and a message", tt.call, got)
			}
			if v.State() != before {
				t.Error("state changed on a failed call")
			}
		})
	}
}

func TestRuntimeArgErrors(t *testing.T) {
	v := newView(t)
	rt := newRuntime(t, v)

	for _, code := range []string{
		`editor.insert_text("b1")`,
		`editor.exec("fly")`,
		`editor.add_mark("b1", "zero", 1, "bold")`,
	} {
		var se *ScriptError
		if err := rt.Run(context.Background(), code); !errors.As(err, &se) {
			t.Errorf("Run(%s) error = %v, want *ScriptError", code, err)
		}
	}
}

func TestRuntimeUndoRedo(t *testing.T) {
	v := newView(t)
	var out bytes.Buffer
	rt := newRuntime(t, v, WithOutput(&out))

	run(t, rt, `
		print(tostring(editor.undo()))
		editor.insert_text("b1", 11, "!")
		print(tostring(editor.undo()), editor.text("b1"))
		print(tostring(editor.redo()), editor.text("b1"))
		print(tostring(editor.redo()))
	`)

	want := "false\ntrue\thello world\ntrue\thello world!\nfalse\n"
	if got := out.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRuntimeCommands(t *testing.T) {
	v := newView(t)
	var out bytes.Buffer
	rt := newRuntime(t, v, WithOutput(&out))

	run(t, rt, `
		editor.set_cursor("b1", 5)
		print(tostring(editor.can("delete_backward")), editor.text("b1"))
		print(tostring(editor.exec("delete_backward")), editor.text("b1"))
		print(tostring(editor.exec("insert_text", "o!")), editor.text("b1"))
		print(tostring(editor.exec("select_node", "hr")), editor.selection().type)
		print(tostring(editor.can("insert_text", "x")))
		print(tostring(editor.exec("delete_selection")), #editor.blocks())
	`)

	want := "true\thello world\n" +
		"true\thell world\n" +
		"true\thello! world\n" +
		"true\tnode\n" +
		"false\n" +
		"true\t1\n"
	if got := out.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRuntimeSetBlockType(t *testing.T) {
	v := newView(t)
	rt := newRuntime(t, v)

	run(t, rt, `assert(editor.exec("set_block_type", "heading", {level = 2}))`)

	b1, _ := v.BlockByID("b1")
	if b1.Type != schema.Heading {
		t.Errorf("b1 type = %s, want heading", b1.Type)
	}
	el, _ := v.Element("b1")
	if el == nil || el.Data != "h2" {
		t.Errorf("element = %v, want h2", el)
	}
}

func TestRuntimePrintLogsWithoutOutput(t *testing.T) {
	v := newView(t)
	rt := newRuntime(t, v)
	run(t, rt, `print("quiet", 1)`)
}

func TestRuntimeClosed(t *testing.T) {
	v := newView(t)
	rt := newRuntime(t, v)
	rt.Close()
	if err := rt.Run(context.Background(), `x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("Run() after Close error = %v, want ErrStateClosed", err)
	}
}
