package lua

import (
	lua "github.com/yuin/gopher-lua"
)

// builtinModules are the global library tables require may return.
var builtinModules = []string{"string", "table", "math"}

// unsafeGlobals load code from outside the sandbox.
var unsafeGlobals = []string{"dofile", "loadfile", "load", "loadstring", "module"}

// Sandbox restricts what Lua code can reach. Modules are only available
// through require once provided by the host.
type Sandbox struct {
	L       *lua.LState
	modules map[string]lua.LValue
}

// NewSandbox creates a sandbox for L.
func NewSandbox(L *lua.LState) *Sandbox {
	return &Sandbox{L: L, modules: make(map[string]lua.LValue)}
}

// Install removes the loading functions and replaces require.
func (s *Sandbox) Install() {
	for _, name := range unsafeGlobals {
		s.L.SetGlobal(name, lua.LNil)
	}
	for _, name := range builtinModules {
		if mod := s.L.GetGlobal(name); mod != lua.LNil {
			s.modules[name] = mod
		}
	}
	s.L.SetGlobal("require", s.L.NewFunction(s.require))
}

// Provide makes mod available as require(name) and as a global.
func (s *Sandbox) Provide(name string, mod lua.LValue) {
	s.modules[name] = mod
	s.L.SetGlobal(name, mod)
}

// Allowed reports whether require(name) succeeds.
func (s *Sandbox) Allowed(name string) bool {
	_, ok := s.modules[name]
	return ok
}

func (s *Sandbox) require(L *lua.LState) int {
	name := L.CheckString(1)
	mod, ok := s.modules[name]
	if !ok {
		L.RaiseError("module %q is not available", name)
		return 0
	}
	L.Push(mod)
	return 1
}
