package bind

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/nkrah/opengate-nils/internal/engine"
)

// namer is satisfied by most native values; the built-in name() method
// uses whichever variant the value provides.
type namer interface{ Name() string }

type actorNamer interface{ ActorName() string }

// Install materializes every registered entry in the Lua state: one
// metatable per type with the method table chained to the base's, and
// a module table holding constructors for script-constructible types
// plus the is_a/cast helpers. Returns the module table so callers can
// add module-level functions before setting it as a global.
func (r *Registry) Install(L *lua.LState) (*lua.LTable, error) {
	mod := L.NewTable()
	methodTables := make(map[string]*lua.LTable)

	for _, name := range r.List() {
		e, _ := r.Lookup(name)

		mt := L.NewTypeMetatable(metaName(e.Name))
		methods := L.NewTable()
		r.installBuiltins(L, methods)
		for mname, m := range e.Methods {
			methods.RawSetString(mname, L.NewFunction(r.methodClosure(e.Name, mname, m)))
		}

		// chain to the base's methods so derived handles answer base
		// calls without re-declaration
		if e.Base != "" {
			parent, ok := methodTables[e.Base]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownBase, e.Base)
			}
			chain := L.NewTable()
			chain.RawSetString("__index", parent)
			L.SetMetatable(methods, chain)
		}
		methodTables[e.Name] = methods
		mt.RawSetString("__index", methods)

		typeTbl := L.NewTable()
		if e.New != nil && e.Ownership == Owned {
			typeTbl.RawSetString("new", L.NewFunction(r.ctorClosure(e.Name)))
		}
		mod.RawSetString(e.Name, typeTbl)
	}

	mod.RawSetString("is_a", L.NewFunction(r.luaIsA))
	mod.RawSetString("cast", L.NewFunction(r.luaCast))
	return mod, nil
}

func (r *Registry) ctorClosure(typeName string) lua.LGFunction {
	return func(L *lua.LState) int {
		e, ok := r.Lookup(typeName)
		if !ok || e.New == nil || e.Ownership != Owned {
			L.RaiseError("%v", fmt.Errorf("%w: %q", ErrNotConstructible, typeName))
			return 0
		}
		args := make([]any, 0, L.GetTop())
		for i := 1; i <= L.GetTop(); i++ {
			args = append(args, FromLua(L.Get(i)))
		}
		value, err := e.New(args)
		if err != nil {
			L.RaiseError("%s: %v", typeName, err)
			return 0
		}
		ud, err := r.Wrap(L, typeName, value)
		if err != nil {
			L.RaiseError("%v", err)
			return 0
		}
		L.Push(ud)
		return 1
	}
}

func (r *Registry) methodClosure(typeName, methodName string, m Method) lua.LGFunction {
	return func(L *lua.LState) int {
		recv, err := r.Unwrap(L.Get(1), typeName)
		if err != nil {
			L.RaiseError("%s:%s: %v", typeName, methodName, err)
			return 0
		}
		args := make([]any, 0, L.GetTop()-1)
		for i := 2; i <= L.GetTop(); i++ {
			args = append(args, FromLua(L.Get(i)))
		}
		results, err := m(recv, args)
		if err != nil {
			L.RaiseError("%s:%s: %v", typeName, methodName, err)
			return 0
		}
		for _, res := range results {
			L.Push(ToLua(L, res))
		}
		return len(results)
	}
}

// installBuiltins adds the methods every handle answers.
func (r *Registry) installBuiltins(L *lua.LState, methods *lua.LTable) {
	methods.RawSetString("type", L.NewFunction(func(L *lua.LState) int {
		h := HandleOf(L.Get(1))
		if h == nil {
			L.RaiseError("%v", ErrTypeMismatch)
			return 0
		}
		L.Push(lua.LString(h.TypeName()))
		return 1
	}))
	methods.RawSetString("name", L.NewFunction(func(L *lua.LState) int {
		h := HandleOf(L.Get(1))
		if h == nil {
			L.RaiseError("%v", ErrTypeMismatch)
			return 0
		}
		switch v := h.Value().(type) {
		case namer:
			L.Push(lua.LString(v.Name()))
		case actorNamer:
			L.Push(lua.LString(v.ActorName()))
		default:
			L.Push(lua.LString(h.TypeName()))
		}
		return 1
	}))
	methods.RawSetString("is_a", L.NewFunction(r.luaIsA))
	methods.RawSetString("params", L.NewFunction(func(L *lua.LState) int {
		h := HandleOf(L.Get(1))
		if h == nil {
			L.RaiseError("%v", ErrTypeMismatch)
			return 0
		}
		c, ok := h.Value().(engine.Configurable)
		if !ok {
			L.Push(L.NewTable())
			return 1
		}
		tbl := L.NewTable()
		for k, v := range c.Params() {
			tbl.RawSetString(k, lua.LNumber(v))
		}
		L.Push(tbl)
		return 1
	}))
	methods.RawSetString("set_param", L.NewFunction(func(L *lua.LState) int {
		h := HandleOf(L.Get(1))
		if h == nil {
			L.RaiseError("%v", ErrTypeMismatch)
			return 0
		}
		c, ok := h.Value().(engine.Configurable)
		if !ok {
			L.RaiseError("%s has no parameters", h.TypeName())
			return 0
		}
		key := L.CheckString(2)
		val := float64(L.CheckNumber(3))
		if err := c.SetParam(key, val); err != nil {
			L.RaiseError("%v", err)
		}
		return 0
	}))
}

// luaIsA answers handle:is_a(typeName) and gate.is_a(handle, typeName).
func (r *Registry) luaIsA(L *lua.LState) int {
	h := HandleOf(L.Get(1))
	if h == nil {
		L.RaiseError("%v", ErrTypeMismatch)
		return 0
	}
	want := L.CheckString(2)
	L.Push(lua.LBool(r.IsSubtype(h.TypeName(), want)))
	return 1
}

// luaCast re-tags a handle as the requested type if the concrete type
// chain allows it, erroring otherwise. Both up- and down-casts reduce
// to walking the concrete entry's base chain.
func (r *Registry) luaCast(L *lua.LState) int {
	h := HandleOf(L.Get(1))
	if h == nil {
		L.RaiseError("%v", ErrTypeMismatch)
		return 0
	}
	want := L.CheckString(2)
	if !r.IsSubtype(h.TypeName(), want) && !r.IsSubtype(want, h.TypeName()) {
		L.RaiseError("%v", fmt.Errorf("%w: cannot cast %q to %q", ErrTypeMismatch, h.TypeName(), want))
		return 0
	}
	ud, err := r.Wrap(L, h.TypeName(), h.Value())
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(ud)
	return 1
}

// FromLua converts a Lua value to its Go projection. Handles unwrap to
// their native value; tables become map[string]any or []any.
func FromLua(lv lua.LValue) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		return float64(v)
	case lua.LString:
		return string(v)
	case *lua.LUserData:
		if h, ok := v.Value.(*Handle); ok {
			return h.Value()
		}
		return v.Value
	case *lua.LTable:
		return tableToGo(v)
	default:
		return nil
	}
}

func tableToGo(t *lua.LTable) any {
	n := t.Len()
	if n > 0 {
		arr := make([]any, 0, n)
		for i := 1; i <= n; i++ {
			arr = append(arr, FromLua(t.RawGetInt(i)))
		}
		return arr
	}
	m := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		m[k.String()] = FromLua(v)
	})
	return m
}

// ToLua converts a Go value to its Lua projection.
func ToLua(L *lua.LState, v any) lua.LValue {
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
	case []float64:
		tbl := L.NewTable()
		for _, f := range val {
			tbl.Append(lua.LNumber(f))
		}
		return tbl
	case map[string]float64:
		tbl := L.NewTable()
		for k, f := range val {
			tbl.RawSetString(k, lua.LNumber(f))
		}
		return tbl
	case lua.LValue:
		return val
	default:
		return lua.LNil
	}
}
