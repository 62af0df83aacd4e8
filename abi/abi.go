//go:build !ios && !android && (amd64 || arm64)

// Package abi describes the exported C surface as a table of Go function
// values. A Table is filled either in process from a *ffboundary.Boundary or
// by binding the symbols of a loaded libffboundary with purego, so the same
// callers can drive both.
package abi

import (
	"reflect"

	"github.com/obinnaokechukwu/ffboundary"
)

// Re-exported boundary types. Their layouts match the C declarations.
type (
	Sequence       = ffboundary.Sequence
	Pair           = ffboundary.Pair
	Handle         = ffboundary.Handle
	NullableHandle = ffboundary.NullableHandle
)

// Table holds one function per exported C symbol. A nil field means the
// symbol is unavailable on this platform or in this library build.
type Table struct {
	Transform func(x uint32) uint32

	SequenceMake        func(n uint32) Sequence
	SequenceMakeInto    func(n uint32, out *Sequence) bool
	SequenceSum         func(s *Sequence) uint32
	SequenceSumConsume  func(s Sequence) uint32
	SequenceSumConsumeP func(s *Sequence) uint32
	SequenceFree        func(s Sequence)
	SequenceFreeP       func(s *Sequence)

	PairMake func() Pair
	PairInit func(out *Pair)
	PairFill func(p *Pair)

	ObjectMake         func() Handle
	ObjectRead         func(h Handle) uint32
	ObjectReadSlot     func(slot *Handle) uint32
	ObjectMutate       func(h Handle)
	ObjectFree         func(h Handle)
	ObjectReadNullable func(h NullableHandle) uint32
	ObjectRelocate     func(h Handle) Handle

	ProduceValue          func(out *uint32)
	ProduceObject         func(out *Handle) bool
	ProduceObjectNullable func(out *Handle) bool

	LiveSequences func() uint64
	LiveObjects   func() uint64
}

// Symbol ties a C symbol name to the Table field that calls it.
type Symbol struct {
	Name string
	Fn   any // pointer to the Table field

	// ByValue marks symbols that pass or return a struct by value. They can
	// only be bound where purego supports struct arguments.
	ByValue bool
}

// Symbols lists every exported symbol with a pointer to its field in t.
func (t *Table) Symbols() []Symbol {
	return []Symbol{
		{Name: "ffb_transform", Fn: &t.Transform},

		{Name: "ffb_sequence_make", Fn: &t.SequenceMake, ByValue: true},
		{Name: "ffb_sequence_make_into", Fn: &t.SequenceMakeInto},
		{Name: "ffb_sequence_sum", Fn: &t.SequenceSum},
		{Name: "ffb_sequence_sum_consume", Fn: &t.SequenceSumConsume, ByValue: true},
		{Name: "ffb_sequence_sum_consumep", Fn: &t.SequenceSumConsumeP},
		{Name: "ffb_sequence_free", Fn: &t.SequenceFree, ByValue: true},
		{Name: "ffb_sequence_freep", Fn: &t.SequenceFreeP},

		{Name: "ffb_pair_make", Fn: &t.PairMake, ByValue: true},
		{Name: "ffb_pair_init", Fn: &t.PairInit},
		{Name: "ffb_pair_fill", Fn: &t.PairFill},

		{Name: "ffb_object_make", Fn: &t.ObjectMake},
		{Name: "ffb_object_read", Fn: &t.ObjectRead},
		{Name: "ffb_object_read_slot", Fn: &t.ObjectReadSlot},
		{Name: "ffb_object_mutate", Fn: &t.ObjectMutate},
		{Name: "ffb_object_free", Fn: &t.ObjectFree},
		{Name: "ffb_object_read_nullable", Fn: &t.ObjectReadNullable},
		{Name: "ffb_object_relocate", Fn: &t.ObjectRelocate},

		{Name: "ffb_produce_value", Fn: &t.ProduceValue},
		{Name: "ffb_produce_object", Fn: &t.ProduceObject},
		{Name: "ffb_produce_object_nullable", Fn: &t.ProduceObjectNullable},

		{Name: "ffb_live_sequences", Fn: &t.LiveSequences},
		{Name: "ffb_live_objects", Fn: &t.LiveObjects},
	}
}

// InProcess returns a Table that calls b directly. Failures are mapped the
// way the C library maps them: a failed make yields a zero descriptor or a
// null handle.
func InProcess(b *ffboundary.Boundary) *Table {
	return &Table{
		Transform: ffboundary.Transform,

		SequenceMake: func(n uint32) Sequence {
			s, _ := b.MakeSequence(n)
			return s
		},
		SequenceMakeInto:    b.MakeSequenceInto,
		SequenceSum:         b.SumSequence,
		SequenceSumConsume:  b.ConsumeSequence,
		SequenceSumConsumeP: b.ConsumeSequenceAt,
		SequenceFree:        b.ReleaseSequence,
		SequenceFreeP:       b.FreeSequence,

		PairMake: ffboundary.MakePair,
		PairInit: ffboundary.InitPair,
		PairFill: ffboundary.FillPair,

		ObjectMake: func() Handle {
			h, _ := b.MakeObject()
			return h
		},
		ObjectRead:         b.ReadObject,
		ObjectReadSlot:     b.ReadObjectSlot,
		ObjectMutate:       b.MutateObject,
		ObjectFree:         b.ReleaseObject,
		ObjectReadNullable: b.ReadObjectNullable,
		ObjectRelocate:     b.RelocateObject,

		ProduceValue:          ffboundary.ProduceValue,
		ProduceObject:         b.ProduceObject,
		ProduceObjectNullable: b.ProduceObjectNullable,

		LiveSequences: func() uint64 { return uint64(b.Stats().LiveSequences) },
		LiveObjects:   func() uint64 { return uint64(b.Stats().LiveObjects) },
	}
}

// Missing returns the names of symbols whose field is nil.
func (t *Table) Missing() []string {
	var names []string
	for _, sym := range t.Symbols() {
		if isNilFunc(sym.Fn) {
			names = append(names, sym.Name)
		}
	}
	return names
}

func isNilFunc(fptr any) bool {
	return reflect.ValueOf(fptr).Elem().IsNil()
}
