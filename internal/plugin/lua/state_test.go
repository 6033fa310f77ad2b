package lua

import (
	"context"
	"errors"
	"testing"
	"time"

	glua "github.com/yuin/gopher-lua"
)

func TestStateDoString(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString(context.Background(), `x = 1 + 1`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if got := s.GetGlobal("x"); got != glua.LNumber(2) {
		t.Errorf("x = %v, want 2", got)
	}
}

func TestStateScriptError(t *testing.T) {
	s := NewState()
	defer s.Close()

	err := s.DoString(context.Background(), `error("boom")`)
	var se *ScriptError
	if !errors.As(err, &se) {
		t.Fatalf("DoString() error = %v, want *ScriptError", err)
	}
	if se.Message == "" {
		t.Error("ScriptError.Message is empty")
	}

	if err := s.DoString(context.Background(), `x = = 1`); err == nil {
		t.Error("DoString() with syntax error returned nil")
	}
}

func TestStateCall(t *testing.T) {
	s := NewState()
	defer s.Close()
	ctx := context.Background()

	if err := s.DoString(ctx, `function pair(a, b) return a + b, a * b end`); err != nil {
		t.Fatal(err)
	}
	got, err := s.Call(ctx, "pair", glua.LNumber(3), glua.LNumber(4))
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if len(got) != 2 || got[0] != glua.LNumber(7) || got[1] != glua.LNumber(12) {
		t.Errorf("Call() = %v, want [7 12]", got)
	}

	if err := s.DoString(ctx, `function nothing() end`); err != nil {
		t.Fatal(err)
	}
	got, err = s.Call(ctx, "nothing")
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("Call(nothing) = %v, %v, want empty slice", got, err)
	}

	if _, err := s.Call(ctx, "missing"); err == nil {
		t.Error("Call(missing) returned nil error")
	}
}

func TestStateTimeout(t *testing.T) {
	s := NewState(WithExecutionTimeout(20 * time.Millisecond))
	defer s.Close()

	err := s.DoString(context.Background(), `while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Errorf("DoString(loop) error = %v, want ErrExecutionTimeout", err)
	}
	if err := s.DoString(context.Background(), `y = 1`); err != nil {
		t.Errorf("DoString() after timeout error = %v", err)
	}
}

func TestStateCancelled(t *testing.T) {
	s := NewState(WithExecutionTimeout(0))
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.DoString(ctx, `while true do end`); !errors.Is(err, context.Canceled) {
		t.Errorf("DoString() error = %v, want context.Canceled", err)
	}
}

func TestStateClosed(t *testing.T) {
	s := NewState()
	s.Close()
	s.Close()

	if !s.IsClosed() {
		t.Error("IsClosed() = false after Close")
	}
	if err := s.DoString(context.Background(), `x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString() error = %v, want ErrStateClosed", err)
	}
	if _, err := s.Call(context.Background(), "f"); !errors.Is(err, ErrStateClosed) {
		t.Errorf("Call() error = %v, want ErrStateClosed", err)
	}
	if got := s.GetGlobal("x"); got != glua.LNil {
		t.Errorf("GetGlobal() = %v, want nil", got)
	}
}

func TestStateRegisterModule(t *testing.T) {
	s := NewState()
	defer s.Close()

	s.RegisterModule("greet", map[string]glua.LGFunction{
		"hello": func(L *glua.LState) int {
			L.Push(glua.LString("hello " + L.CheckString(1)))
			return 1
		},
	})
	err := s.DoString(context.Background(), `
		local g = require("greet")
		a = g.hello("lua")
		b = greet.hello("global")
	`)
	if err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if got := s.GetGlobal("a").String(); got != "hello lua" {
		t.Errorf("a = %q", got)
	}
	if got := s.GetGlobal("b").String(); got != "hello global" {
		t.Errorf("b = %q", got)
	}
}
