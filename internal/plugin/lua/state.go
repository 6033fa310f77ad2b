package lua

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultExecutionTimeout bounds a single script run.
const DefaultExecutionTimeout = 5 * time.Second

// State wraps a sandboxed gopher-lua state.
//
// gopher-lua's LState is not goroutine-safe. The mutex serializes calls made
// through State, but callbacks registered on the state run on the caller's
// goroutine.
type State struct {
	L *lua.LState

	mu      sync.Mutex
	timeout time.Duration
	sandbox *Sandbox
	closed  bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the time limit for one DoString, DoFile or Call.
// Zero disables the limit.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.timeout = d
	}
}

// NewState creates a sandboxed Lua state with only the base, table, string
// and math libraries.
func NewState(opts ...StateOption) *State {
	s := &State{timeout: DefaultExecutionTimeout}
	for _, opt := range opts {
		opt(s)
	}

	s.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(s.L)
	lua.OpenTable(s.L)
	lua.OpenString(s.L)
	lua.OpenMath(s.L)

	s.sandbox = NewSandbox(s.L)
	s.sandbox.Install()
	return s
}

// DoString runs a chunk of Lua source.
func (s *State) DoString(ctx context.Context, code string) error {
	return s.run(ctx, func() error { return s.L.DoString(code) })
}

// DoFile runs a Lua source file.
func (s *State) DoFile(ctx context.Context, path string) error {
	return s.run(ctx, func() error { return s.L.DoFile(path) })
}

// Call calls a global Lua function. It returns an empty slice, not nil,
// when the function returns nothing.
func (s *State) Call(ctx context.Context, fn string, args ...lua.LValue) ([]lua.LValue, error) {
	var results []lua.LValue
	err := s.run(ctx, func() error {
		fnVal := s.L.GetGlobal(fn)
		if fnVal.Type() != lua.LTFunction {
			return fmt.Errorf("%q is not a function (got %s)", fn, fnVal.Type())
		}

		top := s.L.GetTop()
		s.L.Push(fnVal)
		for _, arg := range args {
			s.L.Push(arg)
		}
		if err := s.L.PCall(len(args), lua.MultRet, nil); err != nil {
			return err
		}

		n := s.L.GetTop() - top
		results = make([]lua.LValue, 0, n)
		for i := 1; i <= n; i++ {
			results = append(results, s.L.Get(top+i))
		}
		s.L.Pop(n)
		return nil
	})
	return results, err
}

func (s *State) run(ctx context.Context, fn func() error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	err = fn()
	if err != nil && ctx.Err() != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", ErrExecutionTimeout, err)
		}
		return ctx.Err()
	}
	return scriptError(err)
}

// scriptError drops the stack trace gopher-lua attaches to errors.
func scriptError(err error) error {
	var apiErr *lua.ApiError
	if !errors.As(err, &apiErr) || apiErr.Object == nil {
		return err
	}
	return &ScriptError{Message: apiErr.Object.String(), Err: apiErr}
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// SetGlobal sets a global variable.
func (s *State) SetGlobal(name string, value lua.LValue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.L.SetGlobal(name, value)
}

// RegisterModule builds a module table from funcs and makes it available to
// require under name.
func (s *State) RegisterModule(name string, funcs map[string]lua.LGFunction) *lua.LTable {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	mod := s.L.SetFuncs(s.L.NewTable(), funcs)
	s.sandbox.Provide(name, mod)
	return mod
}

// Sandbox returns the sandbox installed on the state.
func (s *State) Sandbox() *Sandbox {
	return s.sandbox
}

// IsClosed reports whether Close was called.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases the Lua state. Later calls return ErrStateClosed.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.L.Close()
	s.closed = true
}
