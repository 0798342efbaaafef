package bind

import (
	"errors"
	"testing"
)

func TestRegister_Lookup(t *testing.T) {
	r := NewRegistry()

	err := r.Register(Entry{Name: ProcessBaseName, Ownership: ForeignOwned})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	e, ok := r.Lookup(ProcessBaseName)
	if !ok {
		t.Fatal("expected entry under exact name")
	}
	if e.Name != ProcessBaseName {
		t.Errorf("expected name %q, got %q", ProcessBaseName, e.Name)
	}
	if e.Ownership != ForeignOwned {
		t.Errorf("expected ForeignOwned, got %v", e.Ownership)
	}
	if e.New != nil {
		t.Error("abstract entry should have no constructor")
	}
}

func TestRegister_Duplicate(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(Entry{Name: "VProcess", Ownership: ForeignOwned}); err != nil {
		t.Fatalf("first register: %v", err)
	}

	err := r.Register(Entry{Name: "VProcess", Ownership: Owned})
	if !errors.Is(err, ErrDuplicateRegistration) {
		t.Fatalf("expected ErrDuplicateRegistration, got %v", err)
	}

	// the failed attempt must not have touched the registry
	e, ok := r.Lookup("VProcess")
	if !ok {
		t.Fatal("original entry lost")
	}
	if e.Ownership != ForeignOwned {
		t.Error("original entry overwritten")
	}
	if len(r.List()) != 1 {
		t.Errorf("expected 1 entry, got %d", len(r.List()))
	}
}

func TestRegister_UnknownBase(t *testing.T) {
	r := NewRegistry()

	err := r.Register(Entry{Name: "StepLimiter", Base: "VProcess"})
	if !errors.Is(err, ErrUnknownBase) {
		t.Fatalf("expected ErrUnknownBase, got %v", err)
	}
	if _, ok := r.Lookup("StepLimiter"); ok {
		t.Error("failed registration should leave no entry")
	}
}

func TestIsSubtype(t *testing.T) {
	r := NewRegistry()
	mustRegister(t, r, Entry{Name: "A"})
	mustRegister(t, r, Entry{Name: "B", Base: "A"})
	mustRegister(t, r, Entry{Name: "C", Base: "B"})
	mustRegister(t, r, Entry{Name: "X"})

	tests := []struct {
		name, base string
		want       bool
	}{
		{"A", "A", true},
		{"B", "A", true},
		{"C", "A", true},
		{"C", "B", true},
		{"A", "B", false},
		{"X", "A", false},
		{"missing", "A", false},
	}

	for _, tt := range tests {
		if got := r.IsSubtype(tt.name, tt.base); got != tt.want {
			t.Errorf("IsSubtype(%q, %q) = %v, want %v", tt.name, tt.base, got, tt.want)
		}
	}
}

func TestList_RegistrationOrder(t *testing.T) {
	r := NewRegistry()
	if err := RegisterProcessBase(r); err != nil {
		t.Fatalf("base: %v", err)
	}
	if err := RegisterProcessTypes(r); err != nil {
		t.Fatalf("types: %v", err)
	}

	names := r.List()
	if names[0] != ProcessBaseName {
		t.Errorf("expected %q first, got %q", ProcessBaseName, names[0])
	}
	for _, name := range names[1:] {
		e, _ := r.Lookup(name)
		if e.Base != ProcessBaseName {
			t.Errorf("%s: expected base %q, got %q", name, ProcessBaseName, e.Base)
		}
		if e.Ownership != ForeignOwned {
			t.Errorf("%s: process handles must be foreign owned", name)
		}
		if e.New != nil {
			t.Errorf("%s: process types must not be script constructible", name)
		}
	}
}

func TestRegisterProcessBase_Twice(t *testing.T) {
	r := NewRegistry()
	if err := RegisterProcessBase(r); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if err := RegisterProcessBase(r); !errors.Is(err, ErrDuplicateRegistration) {
		t.Errorf("expected ErrDuplicateRegistration, got %v", err)
	}
}

func mustRegister(t *testing.T, r *Registry, e Entry) {
	t.Helper()
	if err := r.Register(e); err != nil {
		t.Fatalf("register %q: %v", e.Name, err)
	}
}
