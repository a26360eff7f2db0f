// Package registry holds named model entries (surfaces, materials) and hands
// out their numeric ids. Names are unique within a registry and ids are unique
// within the id space the registry draws from.
package registry

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrDuplicate is returned when a name or id is registered twice.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrNotFound is returned when a name has not been registered.
	ErrNotFound = errors.New("entry not found")
)

// Item is anything that carries a numeric id.
type Item interface {
	ItemID() int
	AssignID(id int)
}

// IDs allocates monotonically increasing ids. An id is never handed out
// twice, including ids reserved explicitly.
type IDs struct {
	space string
	used  map[int]bool
	max   int
}

// NewIDs creates an allocator for the named id space.
func NewIDs(space string) *IDs {
	return &IDs{space: space, used: make(map[int]bool)}
}

// Next returns a fresh id greater than every id seen so far.
func (a *IDs) Next() int {
	a.max++
	a.used[a.max] = true
	return a.max
}

// Reserve claims a caller-chosen id.
func (a *IDs) Reserve(id int) error {
	if id <= 0 {
		return fmt.Errorf("%s id %d: must be positive", a.space, id)
	}
	if a.used[id] {
		return fmt.Errorf("%s id %d: %w", a.space, id, ErrDuplicate)
	}
	a.used[id] = true
	if id > a.max {
		a.max = id
	}
	return nil
}

// Max returns the largest id handed out or reserved.
func (a *IDs) Max() int {
	return a.max
}

// Space returns the id space name.
func (a *IDs) Space() string {
	return a.space
}

// Registry maps names to items and assigns each item an id on Add.
type Registry[T Item] struct {
	kind  string
	ids   *IDs
	names map[string]T
	order []string
}

// New creates an empty registry drawing ids from ids. A nil allocator gets a
// private one.
func New[T Item](kind string, ids *IDs) *Registry[T] {
	if ids == nil {
		ids = NewIDs(kind)
	}
	return &Registry[T]{kind: kind, ids: ids, names: make(map[string]T)}
}

// Add registers item under name. Items arriving without an id get the next
// free id; items with an id have it reserved.
func (r *Registry[T]) Add(name string, item T) (T, error) {
	if name == "" {
		var zero T
		return zero, fmt.Errorf("%s: empty name", r.kind)
	}
	if _, exists := r.names[name]; exists {
		var zero T
		return zero, fmt.Errorf("%s %q: %w", r.kind, name, ErrDuplicate)
	}
	if id := item.ItemID(); id > 0 {
		if err := r.ids.Reserve(id); err != nil {
			var zero T
			return zero, fmt.Errorf("%s %q: %w", r.kind, name, err)
		}
	} else {
		item.AssignID(r.ids.Next())
	}
	r.names[name] = item
	r.order = append(r.order, name)
	return item, nil
}

// Get returns the item registered under name.
func (r *Registry[T]) Get(name string) (T, error) {
	item, ok := r.names[name]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s %q: %w", r.kind, name, ErrNotFound)
	}
	return item, nil
}

// Has reports whether name is registered.
func (r *Registry[T]) Has(name string) bool {
	_, ok := r.names[name]
	return ok
}

// Names returns registered names in insertion order.
func (r *Registry[T]) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// All returns every item ordered by id.
func (r *Registry[T]) All() []T {
	out := make([]T, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.names[name])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ItemID() < out[j].ItemID() })
	return out
}

// Len returns the number of registered items.
func (r *Registry[T]) Len() int {
	return len(r.order)
}

// MaxID returns the largest id the registry's allocator has produced.
func (r *Registry[T]) MaxID() int {
	return r.ids.Max()
}

// IDs exposes the allocator so related entries can share an id space.
func (r *Registry[T]) IDs() *IDs {
	return r.ids
}

// Resolver looks up many names and remembers only the first failure, so
// model code can resolve a batch of names and check a single error.
type Resolver[T Item] struct {
	reg *Registry[T]
	err error
}

// Resolver returns a lookup helper bound to r.
func (r *Registry[T]) Resolver() *Resolver[T] {
	return &Resolver[T]{reg: r}
}

// Get returns the named item, or the zero value after recording the error.
func (rs *Resolver[T]) Get(name string) T {
	item, err := rs.reg.Get(name)
	if err != nil && rs.err == nil {
		rs.err = err
	}
	return item
}

// Err returns the first lookup failure.
func (rs *Resolver[T]) Err() error {
	return rs.err
}
