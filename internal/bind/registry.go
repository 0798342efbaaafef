// Package bind projects native simulation types into the embedded Lua
// environment. A name-keyed registry holds one entry per exposed type;
// entries declare an optional base type, an ownership policy and an
// optional constructor. Derived types are registered by other files
// without the base declaration knowing about them.
package bind

import (
	"errors"
	"fmt"
	"sync"
)

// Ownership states who may destroy the wrapped native value.
type Ownership int

const (
	// Owned handles belong to the script; the wrapper is the primary
	// reference and the value dies with it.
	Owned Ownership = iota

	// ForeignOwned handles reference a value whose lifecycle belongs
	// to the native side. Collecting the script wrapper must never
	// touch the value: no finalizer, no release hook.
	ForeignOwned
)

// Registration errors. A failed registration is fatal to module
// assembly; the registry performs no recovery.
var (
	// ErrDuplicateRegistration indicates a second entry under a name
	// already bound in this registry lifetime.
	ErrDuplicateRegistration = errors.New("bind: type already registered")

	// ErrUnknownBase indicates a derived entry registered before its
	// base type.
	ErrUnknownBase = errors.New("bind: base type not registered")

	// ErrUnknownType indicates a lookup for a name never registered.
	ErrUnknownType = errors.New("bind: unknown type")

	// ErrNotConstructible indicates a construction attempt on an
	// abstract or foreign-owned type.
	ErrNotConstructible = errors.New("bind: type cannot be constructed from script")

	// ErrTypeMismatch indicates a handle used where an unrelated type
	// was expected.
	ErrTypeMismatch = errors.New("bind: handle type mismatch")
)

// Ctor builds a native value from script-supplied arguments.
type Ctor func(args []any) (any, error)

// Method is a script-callable operation on a wrapped value.
type Method func(recv any, args []any) ([]any, error)

// Entry is one type binding. A nil New marks the type abstract: the
// script can hold and pass handles but never create one.
type Entry struct {
	Name      string
	Base      string
	Ownership Ownership
	New       Ctor
	Methods   map[string]Method
}

// Registry is the module's type table. Registration happens once,
// single-writer, during module assembly; lookups are read-mostly.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	order   []string
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Register installs one entry. The name must be free and the base, if
// any, already present; on error the registry is left unchanged.
func (r *Registry) Register(e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[e.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateRegistration, e.Name)
	}
	if e.Base != "" {
		if _, ok := r.entries[e.Base]; !ok {
			return fmt.Errorf("%w: %q (derived %q)", ErrUnknownBase, e.Base, e.Name)
		}
	}

	entry := e
	r.entries[e.Name] = &entry
	r.order = append(r.order, e.Name)
	return nil
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

// IsSubtype reports whether name equals base or derives from it
// through the base chain.
func (r *Registry) IsSubtype(name, base string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name != "" {
		if name == base {
			return true
		}
		e, ok := r.entries[name]
		if !ok {
			return false
		}
		name = e.Base
	}
	return false
}

// List returns the registered type names in registration order, so
// bases always precede their derived types.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
