package bind

import (
	"errors"
	"fmt"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

// counter is a small owned test type with one tunable parameter.
type counter struct {
	name string
	n    float64
	step float64
}

func (c *counter) Name() string { return c.name }

func (c *counter) Params() map[string]float64 {
	return map[string]float64{"step": c.step}
}

func (c *counter) SetParam(key string, val float64) error {
	if key != "step" {
		return fmt.Errorf("unknown parameter %q", key)
	}
	c.step = val
	return nil
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	mustRegister(t, r, Entry{Name: "VCounter", Ownership: ForeignOwned})
	mustRegister(t, r, Entry{
		Name:      "Counter",
		Base:      "VCounter",
		Ownership: Owned,
		New: func(args []any) (any, error) {
			c := &counter{name: "counter", step: 1}
			if len(args) > 0 {
				if s, ok := args[0].(string); ok {
					c.name = s
				}
			}
			return c, nil
		},
		Methods: map[string]Method{
			"count": func(recv any, args []any) ([]any, error) {
				c := recv.(*counter)
				c.n += c.step
				return []any{c.n}, nil
			},
		},
	})
	return r
}

func newTestState(t *testing.T, r *Registry) *lua.LState {
	t.Helper()
	L := lua.NewState()
	t.Cleanup(L.Close)

	mod, err := r.Install(L)
	if err != nil {
		t.Fatalf("install: %v", err)
	}
	L.SetGlobal("gate", mod)
	return L
}

func TestInstall_OwnedConstructor(t *testing.T) {
	r := newTestRegistry(t)
	L := newTestState(t, r)

	err := L.DoString(`
		local c = gate.Counter.new("beam")
		assert(c:type() == "Counter")
		assert(c:name() == "beam")
		assert(c:count() == 1)
		assert(c:count() == 2)
	`)
	if err != nil {
		t.Fatalf("script: %v", err)
	}
}

func TestInstall_AbstractNotConstructible(t *testing.T) {
	r := newTestRegistry(t)
	L := newTestState(t, r)

	// abstract and foreign-owned types expose no constructor at all
	if err := L.DoString(`assert(gate.VCounter.new == nil)`); err != nil {
		t.Errorf("base type leaked a constructor: %v", err)
	}
}

func TestInstall_ForeignOwnedNotConstructible(t *testing.T) {
	r := NewRegistry()
	mustRegister(t, r, Entry{Name: "VCounter", Ownership: ForeignOwned})
	// a ctor on a foreign-owned entry must still not be exposed
	mustRegister(t, r, Entry{
		Name:      "Shared",
		Base:      "VCounter",
		Ownership: ForeignOwned,
		New:       func(args []any) (any, error) { return &counter{}, nil },
	})
	L := newTestState(t, r)

	if err := L.DoString(`assert(gate.Shared.new == nil)`); err != nil {
		t.Errorf("foreign-owned type leaked a constructor: %v", err)
	}
}

func TestWrapUnwrap(t *testing.T) {
	r := newTestRegistry(t)
	L := newTestState(t, r)

	c := &counter{name: "native", step: 2}
	ud, err := r.Wrap(L, "Counter", c)
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}

	// unwrap as the concrete type and as the base
	for _, want := range []string{"Counter", "VCounter"} {
		got, err := r.Unwrap(ud, want)
		if err != nil {
			t.Fatalf("unwrap as %s: %v", want, err)
		}
		if got != c {
			t.Errorf("unwrap as %s returned a different value", want)
		}
	}

	if _, err := r.Unwrap(lua.LNumber(3), "Counter"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch for non-handle, got %v", err)
	}
}

func TestUnwrap_SiblingMismatch(t *testing.T) {
	r := newTestRegistry(t)
	mustRegister(t, r, Entry{Name: "Other", Ownership: ForeignOwned})
	L := newTestState(t, r)

	ud, err := r.Wrap(L, "Other", &counter{})
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	if _, err := r.Unwrap(ud, "VCounter"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch across unrelated types, got %v", err)
	}
}

func TestWrap_UnknownType(t *testing.T) {
	r := newTestRegistry(t)
	L := newTestState(t, r)

	if _, err := r.Wrap(L, "Nope", &counter{}); !errors.Is(err, ErrUnknownType) {
		t.Errorf("expected ErrUnknownType, got %v", err)
	}
}

func TestForeignOwnedHandle_NoFinalizer(t *testing.T) {
	r := newTestRegistry(t)
	L := newTestState(t, r)

	ud, err := r.Wrap(L, "VCounter", &counter{name: "shared"})
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	mt, ok := L.GetMetatable(ud).(*lua.LTable)
	if !ok {
		t.Fatal("handle has no metatable")
	}
	if gc := mt.RawGetString("__gc"); gc != lua.LNil {
		t.Error("foreign-owned handle must not carry a finalizer")
	}
}

func TestIsAAndCast(t *testing.T) {
	r := newTestRegistry(t)
	L := newTestState(t, r)

	ud, err := r.Wrap(L, "Counter", &counter{name: "c", step: 1})
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	L.SetGlobal("c", ud)

	err = L.DoString(`
		assert(c:is_a("Counter"))
		assert(c:is_a("VCounter"))
		assert(not c:is_a("Other"))

		-- a base-typed view still answers with its concrete chain
		local v = gate.cast(c, "VCounter")
		assert(v:is_a("Counter"))
		assert(v:count() == 1)
	`)
	if err != nil {
		t.Fatalf("script: %v", err)
	}
}

func TestCast_Unrelated(t *testing.T) {
	r := newTestRegistry(t)
	mustRegister(t, r, Entry{Name: "Other", Ownership: ForeignOwned})
	L := newTestState(t, r)

	ud, err := r.Wrap(L, "Counter", &counter{})
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	L.SetGlobal("c", ud)

	if err := L.DoString(`gate.cast(c, "Other")`); err == nil {
		t.Error("expected cast to unrelated type to fail")
	}
}

func TestParams(t *testing.T) {
	r := newTestRegistry(t)
	L := newTestState(t, r)

	c := &counter{name: "c", step: 0.5}
	ud, err := r.Wrap(L, "Counter", c)
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	L.SetGlobal("c", ud)

	err = L.DoString(`
		assert(c:params().step == 0.5)
		c:set_param("step", 2.5)
		assert(c:params().step == 2.5)
	`)
	if err != nil {
		t.Fatalf("script: %v", err)
	}
	if c.step != 2.5 {
		t.Errorf("expected native step 2.5, got %f", c.step)
	}

	if err := L.DoString(`c:set_param("nope", 1)`); err == nil {
		t.Error("expected error for unknown parameter")
	}
}

func TestMethodChaining(t *testing.T) {
	r := NewRegistry()
	mustRegister(t, r, Entry{
		Name:      "Base",
		Ownership: ForeignOwned,
		Methods: map[string]Method{
			"greet": func(recv any, args []any) ([]any, error) {
				return []any{"hello"}, nil
			},
		},
	})
	mustRegister(t, r, Entry{Name: "Derived", Base: "Base", Ownership: ForeignOwned})
	L := newTestState(t, r)

	ud, err := r.Wrap(L, "Derived", &counter{})
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	L.SetGlobal("d", ud)

	// the derived method table chains to the base's
	if err := L.DoString(`assert(d:greet() == "hello")`); err != nil {
		t.Fatalf("script: %v", err)
	}
}

func TestFromLua_Conversions(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	if got := FromLua(lua.LNumber(2.5)); got != 2.5 {
		t.Errorf("number: got %v", got)
	}
	if got := FromLua(lua.LString("x")); got != "x" {
		t.Errorf("string: got %v", got)
	}
	if got := FromLua(lua.LBool(true)); got != true {
		t.Errorf("bool: got %v", got)
	}
	if got := FromLua(lua.LNil); got != nil {
		t.Errorf("nil: got %v", got)
	}

	arr := L.NewTable()
	arr.Append(lua.LNumber(1))
	arr.Append(lua.LNumber(2))
	if got, ok := FromLua(arr).([]any); !ok || len(got) != 2 {
		t.Errorf("array table: got %v", got)
	}

	m := L.NewTable()
	m.RawSetString("energy", lua.LNumber(100))
	got, ok := FromLua(m).(map[string]any)
	if !ok || got["energy"] != 100.0 {
		t.Errorf("map table: got %v", got)
	}
}
