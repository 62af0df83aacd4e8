// Package handles maps opaque handle ids to Go objects that the foreign side
// refers to.
//
// C code may not hold Go pointers across calls, so each boxed object is
// registered here and the foreign side only ever sees the uintptr id, passed
// around as an opaque pointer. Ids are never reused, which makes a second
// release of the same id detectable.
//
// Ids start at FirstID and advance by IDStride, so seen as C pointers they
// lie above the first page and are pointer aligned.
//
// A relocated entry leaves a forwarding alias behind: the old id keeps
// resolving to the object until the alias is retired or the object is
// unregistered.
package handles

import (
	"errors"
	"sync"
)

const (
	FirstID  uintptr = 1 << 12
	IDStride uintptr = 8
)

var (
	// ErrNotFound is returned when an id is neither live nor a forwarding alias.
	ErrNotFound = errors.New("handles: unknown handle")

	// ErrFull is returned when the table has reached its live entry limit.
	ErrFull = errors.New("handles: table is full")
)

// Table stores objects of type T keyed by handle id.
//
// Thread-safe.
type Table[T any] struct {
	mu      sync.RWMutex
	entries map[uintptr]T
	forward map[uintptr]uintptr
	nextID  uintptr
	limit   int
}

// New creates a table. If limit <= 0, the table is unbounded.
func New[T any](limit int) *Table[T] {
	return &Table[T]{
		entries: make(map[uintptr]T),
		forward: make(map[uintptr]uintptr),
		nextID:  FirstID,
		limit:   limit,
	}
}

// Register stores v and returns its handle id. The id is never zero.
func (t *Table[T]) Register(v T) (uintptr, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.limit > 0 && len(t.entries) >= t.limit {
		return 0, ErrFull
	}
	id := t.allocID()
	t.entries[id] = v
	return id, nil
}

func (t *Table[T]) allocID() uintptr {
	id := t.nextID
	t.nextID += IDStride
	return id
}

// resolve returns the live id that id designates. Caller holds mu.
func (t *Table[T]) resolve(id uintptr) (uintptr, bool) {
	if _, ok := t.entries[id]; ok {
		return id, true
	}
	if to, ok := t.forward[id]; ok {
		return to, true
	}
	return 0, false
}

// Lookup returns the object registered under id, following a forwarding alias.
func (t *Table[T]) Lookup(id uintptr) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	live, ok := t.resolve(id)
	if !ok {
		var zero T
		return zero, false
	}
	return t.entries[live], true
}

// Resolve returns the live id for id. For a live id this is id itself.
func (t *Table[T]) Resolve(id uintptr) (uintptr, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.resolve(id)
}

// Relocate moves the object designated by id to a fresh id and returns it.
// The previous live id becomes a forwarding alias. Aliases always point one
// hop to the live id.
func (t *Table[T]) Relocate(id uintptr) (uintptr, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	live, ok := t.resolve(id)
	if !ok {
		return 0, ErrNotFound
	}
	v := t.entries[live]
	next := t.allocID()
	delete(t.entries, live)
	t.entries[next] = v
	for alias, to := range t.forward {
		if to == live {
			t.forward[alias] = next
		}
	}
	t.forward[live] = next
	return next, nil
}

// Retire drops a forwarding alias. It reports whether id was an alias.
// Live ids are left untouched.
func (t *Table[T]) Retire(id uintptr) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.forward[id]; !ok {
		return false
	}
	delete(t.forward, id)
	return true
}

// Unregister removes the object designated by id together with every alias
// forwarding to it, and returns the removed object.
func (t *Table[T]) Unregister(id uintptr) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	live, ok := t.resolve(id)
	if !ok {
		var zero T
		return zero, false
	}
	v := t.entries[live]
	delete(t.entries, live)
	for alias, to := range t.forward {
		if to == live {
			delete(t.forward, alias)
		}
	}
	return v, true
}

// Issued reports whether id was ever handed out by this table, live or not.
// It separates a released id from one the table never produced.
func (t *Table[T]) Issued(id uintptr) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return id >= FirstID && id < t.nextID && (id-FirstID)%IDStride == 0
}

// Count returns the number of live entries. Aliases are not counted.
func (t *Table[T]) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Aliases returns the number of forwarding aliases.
func (t *Table[T]) Aliases() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.forward)
}
