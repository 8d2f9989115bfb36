// Package handle provides identity-based weak references to host objects that
// may be destroyed between frames.
package handle

// ID identifies a host object for the lifetime of the process.
type ID uint64

// Target is anything the host can destroy behind our back.
type Target interface {
	ID() ID
	Alive() bool
}

// Handle is a weak reference: it remembers a target's identity and must be
// liveness-checked on every dereference. The zero Handle is empty.
type Handle[T Target] struct {
	ref T
	id  ID
	set bool
}

// Of wraps t. It does not check liveness.
func Of[T Target](t T) Handle[T] {
	return Handle[T]{ref: t, id: t.ID(), set: true}
}

// Get returns the target if it is still alive.
func (h Handle[T]) Get() (T, bool) {
	var zero T
	if !h.set {
		return zero, false
	}
	if !h.ref.Alive() {
		return zero, false
	}
	return h.ref, true
}

// Valid reports whether Get would succeed.
func (h Handle[T]) Valid() bool {
	_, ok := h.Get()
	return ok
}

// ID returns the remembered identity, even if the target has died.
func (h Handle[T]) ID() ID { return h.id }

// IsZero reports whether the handle was never set.
func (h Handle[T]) IsZero() bool { return !h.set }

// Is reports whether h refers to the object with identity id.
func (h Handle[T]) Is(id ID) bool { return h.set && h.id == id }

// Same reports whether both handles refer to the same object.
func (h Handle[T]) Same(o Handle[T]) bool {
	return h.set && o.set && h.id == o.id
}

// Set is an identity set of targets.
type Set map[ID]struct{}

// Add inserts id and reports whether it was newly added.
func (s Set) Add(id ID) bool {
	if _, ok := s[id]; ok {
		return false
	}
	s[id] = struct{}{}
	return true
}

// Has reports membership.
func (s Set) Has(id ID) bool {
	_, ok := s[id]
	return ok
}
