package lua

import (
	"context"
	"fmt"
	"io"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/command"
	"github.com/dshills/inkwell/internal/logging"
	"github.com/dshills/inkwell/internal/model"
)

// ModuleName is the name scripts pass to require.
const ModuleName = "editor"

// Host is the editor a runtime drives. *view.View satisfies it.
type Host interface {
	command.Target
	Undo() bool
	Redo() bool
}

// Runtime runs scripts against a host through the editor module.
type Runtime struct {
	state  *State
	host   Host
	gen    model.IDGenerator
	logger *zap.Logger
	output io.Writer
	caps   CapabilitySet

	stateOpts []StateOption
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithIDGenerator sets the generator split_block uses for new block ids.
func WithIDGenerator(gen model.IDGenerator) Option {
	return func(r *Runtime) {
		r.gen = gen
	}
}

// WithLogger sets the runtime logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runtime) {
		r.logger = l
	}
}

// WithOutput sends print output to w. Without it print logs at debug level.
func WithOutput(w io.Writer) Option {
	return func(r *Runtime) {
		r.output = w
	}
}

// WithCapabilities limits the editor module to caps. Without it scripts
// are granted CapabilityEditor.
func WithCapabilities(caps ...Capability) Option {
	return func(r *Runtime) {
		r.caps = NewCapabilitySet(caps...)
	}
}

// WithStateOptions passes options to the underlying State.
func WithStateOptions(opts ...StateOption) Option {
	return func(r *Runtime) {
		r.stateOpts = append(r.stateOpts, opts...)
	}
}

// NewRuntime creates a sandboxed runtime bound to host.
func NewRuntime(host Host, opts ...Option) (*Runtime, error) {
	if host == nil {
		return nil, ErrNoHost
	}
	r := &Runtime{host: host}
	for _, opt := range opts {
		opt(r)
	}
	if r.gen == nil {
		r.gen = model.NewULIDGenerator()
	}
	if r.caps == nil {
		r.caps = NewCapabilitySet(CapabilityEditor)
	}
	r.logger = logging.Component(r.logger, "lua")

	r.state = NewState(r.stateOpts...)
	r.state.L.SetGlobal("print", r.state.L.NewFunction(r.print))
	r.state.RegisterModule(ModuleName, r.editorFuncs())
	return r, nil
}

// Run executes Lua source.
func (r *Runtime) Run(ctx context.Context, code string) error {
	return r.state.DoString(ctx, code)
}

// RunFile executes a Lua file.
func (r *Runtime) RunFile(ctx context.Context, path string) error {
	r.logger.Debug("running script", zap.String("path", path))
	if err := r.state.DoFile(ctx, path); err != nil {
		return fmt.Errorf("running %s: %w", path, err)
	}
	return nil
}

// State returns the underlying Lua state.
func (r *Runtime) State() *State {
	return r.state
}

// Close releases the Lua state.
func (r *Runtime) Close() {
	r.state.Close()
}

func (r *Runtime) print(L *lua.LState) int {
	parts := make([]string, L.GetTop())
	for i := range parts {
		parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
	}
	line := strings.Join(parts, "\t")
	if r.output == nil {
		r.logger.Debug("script output", zap.String("line", line))
		return 0
	}
	fmt.Fprintln(r.output, line)
	return 0
}
