// Package lua runs editor scripts on a sandboxed gopher-lua state.
//
// A State opens only the base, table, string and math libraries, removes
// the functions that load code from disk or strings, and replaces require
// with a lookup over modules the host provides. Each run is bounded by a
// context deadline.
//
// A Runtime binds a State to a Host, normally a *view.View, and provides
// the editor module:
//
//	rt, err := lua.NewRuntime(v, lua.WithIDGenerator(gen))
//	if err != nil {
//	    return err
//	}
//	defer rt.Close()
//
//	err = rt.Run(ctx, `
//	    local editor = require("editor")
//	    editor.insert_text("b1", 0, "Hello ")
//	    editor.add_mark("b1", 0, 5, "bold")
//	`)
//
// Every mutating call builds one transaction with the command origin and
// dispatches it through the host, so scripted edits reach the DOM and the
// undo history like any other edit. Mutating calls return true, or false
// and a message when the edit does not apply.
//
// WithCapabilities restricts which editor functions a script may call.
// editor.read covers queries, editor.edit covers edits and commands, and
// editor.history covers undo and redo.
package lua
