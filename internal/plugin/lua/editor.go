package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/inkwell/internal/command"
	"github.com/dshills/inkwell/internal/model"
)

type editorFunc struct {
	cap Capability
	fn  lua.LGFunction
}

func (r *Runtime) editorFuncs() map[string]lua.LGFunction {
	funcs := map[string]editorFunc{
		"blocks":      {CapabilityRead, r.blocks},
		"text":        {CapabilityRead, r.text},
		"length":      {CapabilityRead, r.length},
		"selection":   {CapabilityRead, r.selection},
		"can":         {CapabilityRead, r.can},
		"insert_text": {CapabilityEdit, r.insertText},
		"delete_text": {CapabilityEdit, r.deleteText},
		"add_mark":    {CapabilityEdit, r.addMark},
		"remove_mark": {CapabilityEdit, r.removeMark},
		"split_block": {CapabilityEdit, r.splitBlock},
		"set_cursor":  {CapabilityEdit, r.setCursor},
		"exec":        {CapabilityEdit, r.exec},
		"undo":        {CapabilityHistory, r.undo},
		"redo":        {CapabilityHistory, r.redo},
	}
	out := make(map[string]lua.LGFunction, len(funcs))
	for name, f := range funcs {
		out[name] = r.guard(name, f.cap, f.fn)
	}
	return out
}

// blocks returns every block in document order as
// {id, type, leaf, void, length}.
func (r *Runtime) blocks(L *lua.LState) int {
	s := r.host.State()
	out := L.NewTable()
	for _, b := range model.AllBlocks(s.Doc()) {
		t := L.NewTable()
		t.RawSetString("id", lua.LString(b.ID))
		t.RawSetString("type", lua.LString(b.Type))
		t.RawSetString("leaf", lua.LBool(b.IsLeaf()))
		t.RawSetString("void", lua.LBool(s.Schema().IsVoid(b.Type)))
		if b.IsLeaf() {
			t.RawSetString("length", lua.LNumber(model.BlockLength(b)))
		}
		out.Append(t)
	}
	L.Push(out)
	return 1
}

func (r *Runtime) text(L *lua.LState) int {
	b, ok := r.host.State().BlockByID(model.BlockID(L.CheckString(1)))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(model.BlockText(b)))
	return 1
}

func (r *Runtime) length(L *lua.LState) int {
	b, ok := r.host.State().BlockByID(model.BlockID(L.CheckString(1)))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(model.BlockLength(b)))
	return 1
}

func (r *Runtime) selection(L *lua.LState) int {
	L.Push(SelectionTable(L, r.host.State().Selection()))
	return 1
}

func (r *Runtime) insertText(L *lua.LState) int {
	id := model.BlockID(L.CheckString(1))
	return r.dispatch(L, command.InsertTextAt(id, L.CheckInt(2), L.CheckString(3)))
}

func (r *Runtime) deleteText(L *lua.LState) int {
	id := model.BlockID(L.CheckString(1))
	return r.dispatch(L, command.DeleteTextAt(id, L.CheckInt(2), L.CheckInt(3)))
}

func (r *Runtime) addMark(L *lua.LState) int {
	id, from, to, t := markArgs(L)
	return r.dispatch(L, command.AddMarkAt(id, from, to, t, AttrsFromTable(L.OptTable(5, nil))))
}

func (r *Runtime) removeMark(L *lua.LState) int {
	id, from, to, t := markArgs(L)
	return r.dispatch(L, command.RemoveMarkAt(id, from, to, t))
}

func markArgs(L *lua.LState) (model.BlockID, int, int, model.MarkType) {
	return model.BlockID(L.CheckString(1)), L.CheckInt(2), L.CheckInt(3), model.MarkType(L.CheckString(4))
}

// splitBlock returns true and the new block id on success.
func (r *Runtime) splitBlock(L *lua.LState) int {
	id := model.BlockID(L.CheckString(1))
	off := L.CheckInt(2)
	newID := r.gen.NewBlockID()
	if err := command.Apply(r.host, command.SplitBlockAt(id, off, newID)); err != nil {
		return fail(L, err)
	}
	L.Push(lua.LTrue)
	L.Push(lua.LString(newID))
	return 2
}

func (r *Runtime) setCursor(L *lua.LState) int {
	id := model.BlockID(L.CheckString(1))
	return r.dispatch(L, command.SetCursor(id, L.CheckInt(2)))
}

func (r *Runtime) undo(L *lua.LState) int {
	L.Push(lua.LBool(r.host.Undo()))
	return 1
}

func (r *Runtime) redo(L *lua.LState) int {
	L.Push(lua.LBool(r.host.Redo()))
	return 1
}

// exec runs a named command against the host.
func (r *Runtime) exec(L *lua.LState) int {
	cmd := r.command(L)
	s := r.host.State()
	L.Push(lua.LBool(cmd(s, r.host.Dispatch)))
	return 1
}

// can reports whether a named command applies without running it.
func (r *Runtime) can(L *lua.LState) int {
	cmd := r.command(L)
	L.Push(lua.LBool(cmd(r.host.State(), nil)))
	return 1
}

func (r *Runtime) command(L *lua.LState) command.Command {
	name := L.CheckString(1)
	switch name {
	case "insert_text":
		return command.InsertText(L.CheckString(2))
	case "delete_backward":
		return command.DeleteBackward
	case "delete_selection":
		return command.DeleteSelection
	case "toggle_mark":
		return command.ToggleMark(model.MarkType(L.CheckString(2)), AttrsFromTable(L.OptTable(3, nil)))
	case "split_block":
		return command.SplitBlock(r.gen)
	case "select_node":
		return command.SelectNode(model.BlockID(L.CheckString(2)))
	case "set_block_type":
		return command.SetBlockType(model.NodeType(L.CheckString(2)), AttrsFromTable(L.OptTable(3, nil)))
	}
	L.ArgError(1, fmt.Sprintf("unknown command %q", name))
	return nil
}

// dispatch applies e to the host and pushes true, or false and a message.
func (r *Runtime) dispatch(L *lua.LState, e command.Edit) int {
	if err := command.Apply(r.host, e); err != nil {
		return fail(L, err)
	}
	L.Push(lua.LTrue)
	return 1
}

func fail(L *lua.LState, err error) int {
	L.Push(lua.LFalse)
	L.Push(lua.LString(err.Error()))
	return 2
}
