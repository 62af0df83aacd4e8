//go:build cgo && !ios && !android && (amd64 || arm64)

// Command libffboundary is the C library. Build it with:
//
//	go build -buildmode=c-shared -o build/libffboundary.so ./cmd/libffboundary
//
// cgo writes build/libffboundary.h next to it. Every function below forwards
// to a process-wide ffboundary.Boundary; contract violations panic, which
// aborts the host process.
//
// Configuration is read once, on first call, from the TOML file named by
// FFBOUNDARY_CONFIG.
package main

/*
#include <stdbool.h>
#include <stddef.h>
#include <stdint.h>
#include <stdlib.h>

typedef struct ffb_sequence {
	uint32_t *data;
	size_t len;
	size_t cap;
} ffb_sequence;

typedef struct ffb_pair {
	uint32_t x;
	bool y;
} ffb_pair;

// Opaque: never dereferenced by callers.
typedef struct ffb_object ffb_object;
*/
import "C"

import (
	"unsafe"

	"github.com/obinnaokechukwu/ffboundary"
)

func main() {}

func seq(s C.ffb_sequence) ffboundary.Sequence {
	return *(*ffboundary.Sequence)(unsafe.Pointer(&s))
}

func cseq(s ffboundary.Sequence) C.ffb_sequence {
	return *(*C.ffb_sequence)(unsafe.Pointer(&s))
}

func seqAt(p *C.ffb_sequence) *ffboundary.Sequence {
	return (*ffboundary.Sequence)(unsafe.Pointer(p))
}

// Handles are ids, not addresses. Their bits are copied into and out of the
// pointer type; the id layout keeps them clear of the first page.

func handle(p *C.ffb_object) ffboundary.Handle {
	return *(*ffboundary.Handle)(unsafe.Pointer(&p))
}

func object(h ffboundary.Handle) *C.ffb_object {
	return *(**C.ffb_object)(unsafe.Pointer(&h))
}

func slot(p **C.ffb_object) *ffboundary.Handle {
	return (*ffboundary.Handle)(unsafe.Pointer(p))
}

//export ffb_transform
func ffb_transform(x C.uint32_t) C.uint32_t {
	return C.uint32_t(ffboundary.Transform(uint32(x)))
}

// ffb_sequence_make returns a zero descriptor on allocation failure.
//
//export ffb_sequence_make
func ffb_sequence_make(n C.uint32_t) C.ffb_sequence {
	s, err := boundary().MakeSequence(uint32(n))
	if err != nil {
		return C.ffb_sequence{}
	}
	return cseq(s)
}

//export ffb_sequence_make_into
func ffb_sequence_make_into(n C.uint32_t, out *C.ffb_sequence) C.bool {
	return C.bool(boundary().MakeSequenceInto(uint32(n), seqAt(out)))
}

//export ffb_sequence_sum
func ffb_sequence_sum(s *C.ffb_sequence) C.uint32_t {
	return C.uint32_t(boundary().SumSequence(seqAt(s)))
}

//export ffb_sequence_sum_consume
func ffb_sequence_sum_consume(s C.ffb_sequence) C.uint32_t {
	return C.uint32_t(boundary().ConsumeSequence(seq(s)))
}

//export ffb_sequence_sum_consumep
func ffb_sequence_sum_consumep(s *C.ffb_sequence) C.uint32_t {
	return C.uint32_t(boundary().ConsumeSequenceAt(seqAt(s)))
}

//export ffb_sequence_free
func ffb_sequence_free(s C.ffb_sequence) {
	boundary().ReleaseSequence(seq(s))
}

//export ffb_sequence_freep
func ffb_sequence_freep(s *C.ffb_sequence) {
	boundary().FreeSequence(seqAt(s))
}

//export ffb_pair_make
func ffb_pair_make() C.ffb_pair {
	p := ffboundary.MakePair()
	return *(*C.ffb_pair)(unsafe.Pointer(&p))
}

//export ffb_pair_init
func ffb_pair_init(out *C.ffb_pair) {
	ffboundary.InitPair((*ffboundary.Pair)(unsafe.Pointer(out)))
}

//export ffb_pair_fill
func ffb_pair_fill(p *C.ffb_pair) {
	ffboundary.FillPair((*ffboundary.Pair)(unsafe.Pointer(p)))
}

// ffb_object_make returns NULL when the object limit is reached.
//
//export ffb_object_make
func ffb_object_make() *C.ffb_object {
	h, err := boundary().MakeObject()
	if err != nil {
		return nil
	}
	return object(h)
}

//export ffb_object_read
func ffb_object_read(o *C.ffb_object) C.uint32_t {
	return C.uint32_t(boundary().ReadObject(handle(o)))
}

//export ffb_object_read_slot
func ffb_object_read_slot(o **C.ffb_object) C.uint32_t {
	return C.uint32_t(boundary().ReadObjectSlot(slot(o)))
}

//export ffb_object_mutate
func ffb_object_mutate(o *C.ffb_object) {
	boundary().MutateObject(handle(o))
}

//export ffb_object_free
func ffb_object_free(o *C.ffb_object) {
	boundary().ReleaseObject(handle(o))
}

//export ffb_object_read_nullable
func ffb_object_read_nullable(o *C.ffb_object) C.uint32_t {
	return C.uint32_t(boundary().ReadObjectNullable(handle(o).Nullable()))
}

//export ffb_object_relocate
func ffb_object_relocate(o *C.ffb_object) *C.ffb_object {
	return object(boundary().RelocateObject(handle(o)))
}

//export ffb_produce_value
func ffb_produce_value(out *C.uint32_t) {
	ffboundary.ProduceValue((*uint32)(unsafe.Pointer(out)))
}

//export ffb_produce_object
func ffb_produce_object(out **C.ffb_object) C.bool {
	return C.bool(boundary().ProduceObject(slot(out)))
}

//export ffb_produce_object_nullable
func ffb_produce_object_nullable(out **C.ffb_object) C.bool {
	return C.bool(boundary().ProduceObjectNullable(slot(out)))
}

//export ffb_live_sequences
func ffb_live_sequences() C.uint64_t {
	return C.uint64_t(boundary().Stats().LiveSequences)
}

//export ffb_live_objects
func ffb_live_objects() C.uint64_t {
	return C.uint64_t(boundary().Stats().LiveObjects)
}
