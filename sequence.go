//go:build !ios && !android && (amd64 || arm64)

package ffboundary

import (
	"unsafe"

	"go.uber.org/zap"
)

const elemSize = unsafe.Sizeof(uint32(0))

// Sequence describes a run of uint32 values in C memory. Its layout matches
//
//	struct ffb_sequence { uint32_t *data; size_t len; size_t cap; };
//
// A descriptor is owned by whichever side last received it by value. A side
// holding it by reference may read it but must not release it or keep Data
// past the call. After release or consumption every copy is dead.
//
// The zero Sequence is the failure value of MakeSequence; it reads as empty
// and releasing it is a no-op.
type Sequence struct {
	Data unsafe.Pointer
	Len  uintptr
	Cap  uintptr
}

// IsNil returns true if the descriptor has no storage.
func (s *Sequence) IsNil() bool {
	return s == nil || s.Data == nil
}

// Values returns the elements as a Go slice aliasing the C storage. The slice
// is valid only while the descriptor is owned and must not be retained past
// its release.
func (s Sequence) Values() []uint32 {
	if s.Data == nil || s.Len == 0 {
		return nil
	}
	return unsafe.Slice((*uint32)(s.Data), s.Len)
}

// MakeSequence allocates n elements, each SequenceFill, and transfers
// ownership to the caller. A zero-length sequence still carries non-nil Data.
func (b *Boundary) MakeSequence(n uint32) (Sequence, error) {
	slots := uintptr(n)
	if slots == 0 {
		slots = 1
	}
	size := slots * elemSize
	p := b.alloc.Alloc(size)
	if p == nil {
		return Sequence{}, ErrOutOfMemory
	}
	s := Sequence{Data: p, Len: uintptr(n), Cap: uintptr(n)}
	vals := s.Values()
	for i := range vals {
		vals[i] = SequenceFill
	}
	b.ledger.add(p, size)
	b.logger.Debug("sequence created", zap.Uintptr("data", uintptr(p)), zap.Uint32("len", n))
	return s, nil
}

// MakeSequenceInto is MakeSequence writing through out. It returns false on
// allocation failure or when out is nil, leaving *out untouched.
func (b *Boundary) MakeSequenceInto(n uint32, out *Sequence) bool {
	if out == nil {
		return false
	}
	s, err := b.MakeSequence(n)
	if err != nil {
		return false
	}
	*out = s
	return true
}

// check faults unless s is the zero descriptor or a live one whose shape
// matches its allocation.
func (b *Boundary) check(op string, s Sequence) {
	if s.Data == nil {
		return
	}
	size, ok := b.ledger.size(s.Data)
	if !ok {
		fault(b.logger, op, ErrReleased)
	}
	if s.Len > s.Cap || s.Cap > size/elemSize {
		fault(b.logger, op, ErrInvalidDescriptor)
	}
}

func sum(s Sequence) uint32 {
	var total uint32
	for _, v := range s.Values() {
		total += v
	}
	return total
}

// SumSequence reduces a borrowed sequence. The caller keeps ownership and the
// obligation to release it. The sum wraps on overflow; an empty sequence
// sums to 0.
func (b *Boundary) SumSequence(s *Sequence) uint32 {
	if s == nil {
		fault(b.logger, "sequence_sum", ErrNullPointer)
	}
	b.check("sequence_sum", *s)
	return sum(*s)
}

// ConsumeSequence takes ownership of s, reduces it, and releases its storage.
// The caller must not release s afterwards.
func (b *Boundary) ConsumeSequence(s Sequence) uint32 {
	b.check("sequence_sum_consume", s)
	total := sum(s)
	b.release("sequence_sum_consume", s)
	return total
}

// ConsumeSequenceAt consumes *s and zeroes the caller's descriptor so a
// later FreeSequence on it is a no-op.
func (b *Boundary) ConsumeSequenceAt(s *Sequence) uint32 {
	if s == nil {
		fault(b.logger, "sequence_sum_consumep", ErrNullPointer)
	}
	total := b.ConsumeSequence(*s)
	*s = Sequence{}
	return total
}

// ReleaseSequence reclaims the storage of s. It must be called exactly once
// per descriptor obtained from MakeSequence and never on one already
// consumed; doing either is a contract violation.
func (b *Boundary) ReleaseSequence(s Sequence) {
	b.check("sequence_free", s)
	b.release("sequence_free", s)
}

// FreeSequence releases *s and zeroes the caller's descriptor.
// Safe to call with nil or with a zeroed descriptor.
func (b *Boundary) FreeSequence(s *Sequence) {
	if s.IsNil() {
		return
	}
	b.ReleaseSequence(*s)
	*s = Sequence{}
}

func (b *Boundary) release(op string, s Sequence) {
	if s.Data == nil {
		return
	}
	if !b.ledger.remove(s.Data) {
		fault(b.logger, op, ErrReleased)
	}
	b.alloc.Free(s.Data)
	b.logger.Debug("sequence released", zap.String("op", op), zap.Uintptr("data", uintptr(s.Data)))
}
