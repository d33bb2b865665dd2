package sanitizer

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Registry maps names to target struct types so that callers outside the
// process (HTTP, Kafka) can refer to a type by name.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*TypeSchema
}

// DefaultRegistry is used when a Sanitizer is built without WithRegistry.
var DefaultRegistry = NewRegistry()

func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*TypeSchema)}
}

// Register binds name to struct type T.
func Register[T any](r *Registry, name string) error {
	return r.RegisterType(name, reflect.TypeFor[T]())
}

// MustRegister is Register that panics, for use in package init.
func MustRegister[T any](r *Registry, name string) {
	if err := Register[T](r, name); err != nil {
		panic(err)
	}
}

func (r *Registry) RegisterType(name string, t reflect.Type) error {
	if name == "" {
		return fmt.Errorf("%w: empty type name", ErrUnknownType)
	}

	schema, err := SchemaOf(t)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.types[name]; ok && existing.typ != schema.typ {
		return fmt.Errorf("type name %q already bound to %s", name, existing.typ)
	}
	r.types[name] = schema
	return nil
}

// Lookup returns the schema registered under name.
func (r *Registry) Lookup(name string) (*TypeSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, ok := r.types[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not registered", ErrUnknownType, name)
	}
	return schema, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
