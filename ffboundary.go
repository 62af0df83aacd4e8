//go:build !ios && !android && (amd64 || arm64)

// Package ffboundary is the owning side of a C-ABI boundary. It decides, per
// operation, how a value crosses: by copy, by borrowed reference, by owned
// handle with a single explicit release, or by indirect handle that the
// owning side may re-point.
//
// Five patterns are provided:
//
//   - Copy-in/copy-out scalars (Transform).
//   - Owned sequences: a {data, len, cap} descriptor over C memory that is
//     read by reference, consumed by value, or released exactly once
//     (MakeSequence, SumSequence, ConsumeSequence, ReleaseSequence).
//   - Plain structs returned by value and filled through a pointer
//     (MakePair, FillPair).
//   - Opaque handles to boxed Go objects (MakeObject, ReadObject,
//     ReadObjectSlot, MutateObject, ReleaseObject, ReadObjectNullable).
//   - Out-parameter transfer with a boolean result, with strict and
//     null-tolerant variants (ProduceValue, ProduceObject,
//     ProduceObjectNullable).
//
// Contract violations (double release, use after release, strict accessor on
// a null handle) panic with a *ContractError. When the panic unwinds through
// an exported C function the process aborts, which is the intended outcome.
//
// The cmd/libffboundary package exports this surface with cgo; the abi and
// conformance packages drive it either in process or through a loaded shared
// library.
package ffboundary

import (
	"fmt"
	"unsafe"

	"github.com/obinnaokechukwu/ffboundary/internal/handles"
	"github.com/obinnaokechukwu/ffboundary/internal/libc"
	"go.uber.org/zap"
)

// Documented values observable across the boundary.
const (
	// SequenceFill is the value of every element of a new sequence.
	SequenceFill uint32 = 1

	// PairFilledX is the X field after FillPair.
	PairFilledX uint32 = 3

	// ObjectInitial is what ReadObject returns on a fresh object.
	ObjectInitial uint32 = 1

	// ObjectMutated is what ReadObject returns after MutateObject.
	ObjectMutated uint32 = 10

	// AbsentSentinel is what ReadObjectNullable returns for a null handle.
	AbsentSentinel uint32 = 4

	// ProducedValue is what ProduceValue writes.
	ProducedValue uint32 = 10
)

// Allocator provides memory the foreign side can hold across calls.
// Alloc must return zeroed memory, or nil on failure.
type Allocator interface {
	Alloc(size uintptr) unsafe.Pointer
	Free(ptr unsafe.Pointer)
}

// Options configures a Boundary.
type Options struct {
	// Allocator backs sequences. Defaults to the C runtime heap.
	Allocator Allocator

	// MaxObjects bounds the number of live objects. If <= 0, unbounded.
	MaxObjects int

	// Logger defaults to the package logger.
	Logger *zap.Logger
}

// Boundary owns every value handed to the foreign side. A Boundary is not
// meant for concurrent use from several threads; its tables are locked only
// so that such misuse cannot corrupt them.
type Boundary struct {
	alloc   Allocator
	ledger  *ledger
	objects *handles.Table[*object]
	logger  *zap.Logger
}

// New creates a Boundary.
func New(opts Options) (*Boundary, error) {
	alloc := opts.Allocator
	if alloc == nil {
		if err := libc.Load(); err != nil {
			return nil, fmt.Errorf("ffboundary: default allocator: %w", err)
		}
		alloc = libc.Allocator{}
	}
	log := opts.Logger
	if log == nil {
		log = Logger()
	}
	return &Boundary{
		alloc:   alloc,
		ledger:  newLedger(),
		objects: handles.New[*object](opts.MaxObjects),
		logger:  log,
	}, nil
}

// Stats reports what is currently owned by the foreign side.
type Stats struct {
	LiveSequences     int
	LiveSequenceBytes uint64
	LiveObjects       int
	ForwardingAliases int
}

// Stats returns a snapshot of live allocations. Useful for leak checks.
func (b *Boundary) Stats() Stats {
	n, bytes := b.ledger.stats()
	return Stats{
		LiveSequences:     n,
		LiveSequenceBytes: uint64(bytes),
		LiveObjects:       b.objects.Count(),
		ForwardingAliases: b.objects.Aliases(),
	}
}

// Transform is the copy-in/copy-out primitive: it returns x+1. Arithmetic
// wraps, so math.MaxUint32 maps to 0.
func Transform(x uint32) uint32 {
	return x + 1
}
