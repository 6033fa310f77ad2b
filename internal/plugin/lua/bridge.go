package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/inkwell/internal/model"
	"github.com/dshills/inkwell/internal/selection"
)

// ToGoValue converts a Lua value to a Go value. Integral numbers become
// int64, tables become []any or map[string]any, and functions become nil.
func ToGoValue(lv lua.LValue) any {
	return toGoValue(lv, make(map[*lua.LTable]bool))
}

func toGoValue(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		return tableToGo(v, visited)
	case *lua.LUserData:
		return v.Value
	}
	return nil
}

func tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	if n := t.Len(); n > 0 && countKeys(t) == n {
		arr := make([]any, n)
		for i := 1; i <= n; i++ {
			arr[i-1] = toGoValue(t.RawGetInt(i), visited)
		}
		return arr
	}
	m := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		key := k.String()
		if kn, ok := k.(lua.LNumber); ok {
			key = fmt.Sprintf("%v", float64(kn))
		}
		m[key] = toGoValue(v, visited)
	})
	return m
}

func countKeys(t *lua.LTable) int {
	n := 0
	t.ForEach(func(_, _ lua.LValue) { n++ })
	return n
}

// ToLuaValue converts a Go value to a Lua value.
func ToLuaValue(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []any:
		t := L.NewTable()
		for i, e := range val {
			t.RawSetInt(i+1, ToLuaValue(L, e))
		}
		return t
	case []string:
		t := L.NewTable()
		for i, e := range val {
			t.RawSetInt(i+1, lua.LString(e))
		}
		return t
	case map[string]any:
		t := L.NewTable()
		for k, e := range val {
			t.RawSetString(k, ToLuaValue(L, e))
		}
		return t
	case model.Attrs:
		return ToLuaValue(L, map[string]any(val))
	case lua.LValue:
		return val
	}
	return lua.LString(fmt.Sprint(v))
}

// AttrsFromTable converts a Lua table to node attributes. A nil table gives
// nil attrs.
func AttrsFromTable(t *lua.LTable) model.Attrs {
	if t == nil {
		return nil
	}
	attrs := make(model.Attrs)
	t.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			attrs[string(ks)] = ToGoValue(v)
		}
	})
	return attrs
}

// PositionTable converts p to {block = id, offset = n}.
func PositionTable(L *lua.LState, p selection.Position) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("block", lua.LString(p.BlockID))
	t.RawSetString("offset", lua.LNumber(p.Offset))
	return t
}

// SelectionTable describes sel as a table with a type field. A nil
// selection gives LNil.
func SelectionTable(L *lua.LState, sel selection.Selection) lua.LValue {
	t := L.NewTable()
	switch s := sel.(type) {
	case selection.TextSelection:
		t.RawSetString("type", lua.LString("text"))
		t.RawSetString("anchor", PositionTable(L, s.Anchor))
		t.RawSetString("head", PositionTable(L, s.Head))
		t.RawSetString("collapsed", lua.LBool(s.Collapsed()))
	case selection.NodeSelection:
		t.RawSetString("type", lua.LString("node"))
		t.RawSetString("block", lua.LString(s.NodeID))
	case selection.GapCursor:
		t.RawSetString("type", lua.LString("gap"))
		t.RawSetString("block", lua.LString(s.BlockID))
		side := "before"
		if s.Side == selection.SideAfter {
			side = "after"
		}
		t.RawSetString("side", lua.LString(side))
	default:
		return lua.LNil
	}
	return t
}
