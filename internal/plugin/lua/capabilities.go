package lua

import (
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// Capability is a permission a script may be granted. Capabilities are
// hierarchical: granting editor grants every editor.* capability.
type Capability string

// Capabilities checked by the editor module.
const (
	// CapabilityEditor grants the whole editor module.
	CapabilityEditor Capability = "editor"
	// CapabilityRead allows document and selection queries.
	CapabilityRead Capability = "editor.read"
	// CapabilityEdit allows dispatching edits and commands.
	CapabilityEdit Capability = "editor.edit"
	// CapabilityHistory allows undo and redo.
	CapabilityHistory Capability = "editor.history"
)

var knownCapabilities = map[Capability]bool{
	CapabilityEditor:  true,
	CapabilityRead:    true,
	CapabilityEdit:    true,
	CapabilityHistory: true,
}

// ParseCapability parses a capability name.
func ParseCapability(s string) (Capability, error) {
	c := Capability(strings.TrimSpace(s))
	if !knownCapabilities[c] {
		return "", fmt.Errorf("%w: %q", ErrUnknownCapability, s)
	}
	return c, nil
}

// Implies reports whether granting c grants required.
func (c Capability) Implies(required Capability) bool {
	return c == required || strings.HasPrefix(string(required), string(c)+".")
}

// CapabilitySet is a set of granted capabilities.
type CapabilitySet map[Capability]bool

// NewCapabilitySet grants caps.
func NewCapabilitySet(caps ...Capability) CapabilitySet {
	s := make(CapabilitySet, len(caps))
	for _, c := range caps {
		s[c] = true
	}
	return s
}

// Has reports whether any granted capability implies c.
func (s CapabilitySet) Has(c Capability) bool {
	for g := range s {
		if g.Implies(c) {
			return true
		}
	}
	return false
}

// CapabilityError is raised in a script that calls a function it was not
// granted.
type CapabilityError struct {
	Capability Capability
	Function   string
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("capability %q required for %s.%s", e.Capability, ModuleName, e.Function)
}

// guard wraps fn so that it raises a CapabilityError unless c is granted.
func (r *Runtime) guard(name string, c Capability, fn lua.LGFunction) lua.LGFunction {
	if r.caps.Has(c) {
		return fn
	}
	err := &CapabilityError{Capability: c, Function: name}
	return func(L *lua.LState) int {
		L.RaiseError("%s", err.Error())
		return 0
	}
}
