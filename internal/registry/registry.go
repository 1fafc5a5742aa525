package registry

import (
	"fmt"
	"regexp"
	"sync"
)

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Registry collects write-once entries and guards access with a RWMutex.
type Registry struct {
	mu     sync.RWMutex
	values map[string]Value
	order  []string
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		values: make(map[string]Value),
	}
}

// ValidName reports whether name can be used as an entry name.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// Define stores value under name unless the name is already defined.
// It reports whether the value was stored; a redefinition is not an error.
func (r *Registry) Define(name string, value Value) (bool, error) {
	if !ValidName(name) {
		return false, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if !value.IsValid() {
		return false, fmt.Errorf("%w: %s", ErrInvalidValue, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.values[name]; exists {
		return false, nil
	}
	r.values[name] = value
	r.order = append(r.order, name)
	return true, nil
}

// Defined reports whether name has been defined.
func (r *Registry) Defined(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.values[name]
	return ok
}

// Lookup returns the value defined for name.
func (r *Registry) Lookup(name string) (Value, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.values[name]
	return v, ok
}

// Len returns the number of defined entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// Freeze returns an immutable snapshot of the entries defined so far.
// The Registry stays usable; later definitions are not visible in the snapshot.
func (r *Registry) Freeze() *Settings {
	r.mu.RLock()
	defer r.mu.RUnlock()

	values := make(map[string]Value, len(r.values))
	for name, v := range r.values {
		values[name] = v
	}
	order := make([]string, len(r.order))
	copy(order, r.order)

	return &Settings{values: values, order: order}
}
