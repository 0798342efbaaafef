package bind

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// Handle ties a native value to its registry entry inside a Lua
// userdata. For ForeignOwned entries the handle is a back-reference
// only: dropping it on the Lua side has no effect on the value.
type Handle struct {
	entry *Entry
	value any
}

// TypeName returns the registered external name of the value.
func (h *Handle) TypeName() string { return h.entry.Name }

// Value returns the wrapped native value.
func (h *Handle) Value() any { return h.value }

func metaName(typeName string) string {
	return "gate." + typeName
}

// Wrap projects a native value into Lua under the given registered
// type. The userdata carries the type's metatable; ForeignOwned
// entries get no finalizer, so wrapper collection never destroys the
// value.
func (r *Registry) Wrap(L *lua.LState, typeName string, value any) (*lua.LUserData, error) {
	e, ok := r.Lookup(typeName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typeName)
	}
	ud := L.NewUserData()
	ud.Value = &Handle{entry: e, value: value}
	L.SetMetatable(ud, L.GetTypeMetatable(metaName(typeName)))
	return ud, nil
}

// Unwrap returns the native value behind a handle, checking that its
// type equals want or derives from it. Down-casts re-check the same
// chain from the handle's concrete type.
func (r *Registry) Unwrap(lv lua.LValue, want string) (any, error) {
	ud, ok := lv.(*lua.LUserData)
	if !ok {
		return nil, fmt.Errorf("%w: not a handle", ErrTypeMismatch)
	}
	h, ok := ud.Value.(*Handle)
	if !ok {
		return nil, fmt.Errorf("%w: foreign userdata", ErrTypeMismatch)
	}
	if !r.IsSubtype(h.entry.Name, want) {
		return nil, fmt.Errorf("%w: have %q, want %q", ErrTypeMismatch, h.entry.Name, want)
	}
	return h.value, nil
}

// HandleOf extracts the Handle from a Lua value, nil if it is not one.
func HandleOf(lv lua.LValue) *Handle {
	ud, ok := lv.(*lua.LUserData)
	if !ok {
		return nil
	}
	h, _ := ud.Value.(*Handle)
	return h
}
