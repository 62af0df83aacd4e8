//go:build !ios && !android && (amd64 || arm64)

package ffboundary

import (
	"errors"
	"fmt"

	"github.com/obinnaokechukwu/ffboundary/internal/handles"
	"go.uber.org/zap"
)

// object is the boxed state behind a Handle. It lives on the Go heap and is
// reachable from C only through the handle table.
type object struct {
	values []uint32
}

func newObject() *object {
	return &object{values: []uint32{ObjectInitial, 2, 3}}
}

// Handle is an owned, non-null reference to a boxed object, exposed to C as
// an opaque ffb_object pointer. The foreign side owns it from creation until
// it calls ReleaseObject exactly once.
type Handle uintptr

// NullableHandle is a Handle where zero is a defined "absent" value rather
// than a fault.
type NullableHandle uintptr

// Nullable converts h for use with the null-tolerant operations.
func (h Handle) Nullable() NullableHandle {
	return NullableHandle(h)
}

// Handle returns the non-null handle, or false if h is absent.
func (h NullableHandle) Handle() (Handle, bool) {
	return Handle(h), h != 0
}

// MakeObject boxes a fresh object and returns an owned handle to it.
// Returns ErrHandleLimit when MaxObjects live objects already exist.
func (b *Boundary) MakeObject() (Handle, error) {
	id, err := b.objects.Register(newObject())
	if errors.Is(err, handles.ErrFull) {
		return 0, fmt.Errorf("%w (%d live)", ErrHandleLimit, b.objects.Count())
	}
	if err != nil {
		return 0, err
	}
	b.logger.Debug("object created", zap.Uintptr("handle", id))
	return Handle(id), nil
}

// deadHandle reports why a non-zero id failed to resolve.
func (b *Boundary) deadHandle(op string, id uintptr) {
	if b.objects.Issued(id) {
		fault(b.logger, op, ErrReleased)
	}
	fault(b.logger, op, ErrUnknownHandle)
}

func (b *Boundary) lookup(op string, h Handle) *object {
	if h == 0 {
		fault(b.logger, op, ErrNullHandle)
	}
	obj, ok := b.objects.Lookup(uintptr(h))
	if !ok {
		b.deadHandle(op, uintptr(h))
	}
	return obj
}

// ReadObject returns the first value of the object behind h. A null or
// released handle is a contract violation.
func (b *Boundary) ReadObject(h Handle) uint32 {
	return b.lookup("object_read", h).values[0]
}

// ReadObjectSlot reads through the caller's handle slot. If the object has
// been relocated, the slot is re-pointed at the current handle and the old
// one stops resolving. Ownership is unchanged.
func (b *Boundary) ReadObjectSlot(slot *Handle) uint32 {
	if slot == nil {
		fault(b.logger, "object_read_slot", ErrNullPointer)
	}
	h := *slot
	if h == 0 {
		fault(b.logger, "object_read_slot", ErrNullHandle)
	}
	live, ok := b.objects.Resolve(uintptr(h))
	if !ok {
		b.deadHandle("object_read_slot", uintptr(h))
	}
	if live != uintptr(h) {
		b.objects.Retire(uintptr(h))
		*slot = Handle(live)
		b.logger.Debug("handle re-pointed", zap.Uintptr("from", uintptr(h)), zap.Uintptr("to", live))
	}
	return b.ReadObject(*slot)
}

// ReadObjectNullable is ReadObject where an absent handle yields
// AbsentSentinel instead of a fault.
func (b *Boundary) ReadObjectNullable(h NullableHandle) uint32 {
	hh, ok := h.Handle()
	if !ok {
		return AbsentSentinel
	}
	return b.ReadObject(hh)
}

// MutateObject changes the object's state in place. The handle stays valid.
func (b *Boundary) MutateObject(h Handle) {
	b.lookup("object_mutate", h).values[0] = ObjectMutated
}

// RelocateObject moves the object behind h to a new handle and returns it.
// h keeps resolving as an alias until a slot holding it is re-pointed by
// ReadObjectSlot or the object is released.
func (b *Boundary) RelocateObject(h Handle) Handle {
	b.lookup("object_relocate", h)
	next, err := b.objects.Relocate(uintptr(h))
	if err != nil {
		b.deadHandle("object_relocate", uintptr(h))
	}
	b.logger.Debug("object relocated", zap.Uintptr("from", uintptr(h)), zap.Uintptr("to", next))
	return Handle(next)
}

// ReleaseObject reclaims the object behind h, along with any aliases of it.
// It must be called exactly once per handle; a second call is a contract
// violation.
func (b *Boundary) ReleaseObject(h Handle) {
	if h == 0 {
		fault(b.logger, "object_free", ErrNullHandle)
	}
	if _, ok := b.objects.Unregister(uintptr(h)); !ok {
		b.deadHandle("object_free", uintptr(h))
	}
	b.logger.Debug("object released", zap.Uintptr("handle", uintptr(h)))
}
