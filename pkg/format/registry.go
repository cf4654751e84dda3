package format

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Type converts between a canonical value and its display form. Both
// directions report false when the input lies outside the type's domain and
// then return the input unchanged.
type Type interface {
	TryFormat(raw string) (string, bool)
	TryUnformat(display string) (string, bool)
}

// Pair adapts two functions into a Type.
type Pair struct {
	FormatFunc   func(string) (string, bool)
	UnformatFunc func(string) (string, bool)
}

// TryFormat delegates to FormatFunc, passing through when it is nil.
func (p Pair) TryFormat(raw string) (string, bool) {
	if p.FormatFunc == nil {
		return raw, false
	}
	return p.FormatFunc(raw)
}

// TryUnformat delegates to UnformatFunc, passing through when it is nil.
func (p Pair) TryUnformat(display string) (string, bool) {
	if p.UnformatFunc == nil {
		return display, false
	}
	return p.UnformatFunc(display)
}

// Registry stores format types by tag. Lookups of unknown tags pass values
// through untouched so markup naming an unregistered type degrades softly.
type Registry struct {
	mu    sync.RWMutex
	types map[string]Type
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]Type),
	}
}

// NewDefaultRegistry creates a registry preloaded with the built-in types.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.registerBuiltins()
	return r
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the shared registry holding the built-in types.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewDefaultRegistry()
	})
	return defaultRegistry
}

// Register adds a type under name. Duplicate names return an error.
func (r *Registry) Register(name string, t Type) error {
	if t == nil {
		return fmt.Errorf("format: type is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("format: type name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[name]; exists {
		return fmt.Errorf("format: type %q already registered", name)
	}
	r.types[name] = t
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(name string, t Type) {
	if err := r.Register(name, t); err != nil {
		panic(err)
	}
}

// Get retrieves a type by name.
func (r *Registry) Get(name string) (Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.types[strings.TrimSpace(name)]
	if !ok {
		return nil, fmt.Errorf("format: type %q not found", name)
	}
	return t, nil
}

// Has reports whether a type is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.types[strings.TrimSpace(name)]
	return ok
}

// List returns the sorted type names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Format renders raw for display using the named type. Empty or unknown names
// and out-of-domain values return raw.
func (r *Registry) Format(name, raw string) string {
	out, _ := r.TryFormat(name, raw)
	return out
}

// Unformat recovers the canonical value from display using the named type.
func (r *Registry) Unformat(name, display string) string {
	out, _ := r.TryUnformat(name, display)
	return out
}

// TryFormat is Format that also reports whether a conversion happened.
func (r *Registry) TryFormat(name, raw string) (string, bool) {
	t, ok := r.lookup(name)
	if !ok {
		return raw, false
	}
	return t.TryFormat(raw)
}

// TryUnformat is Unformat that also reports whether a conversion happened.
func (r *Registry) TryUnformat(name, display string) (string, bool) {
	t, ok := r.lookup(name)
	if !ok {
		return display, false
	}
	return t.TryUnformat(display)
}

func (r *Registry) lookup(name string) (Type, bool) {
	if r == nil {
		return nil, false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}
