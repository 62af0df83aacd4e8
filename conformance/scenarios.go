//go:build !ios && !android && (amd64 || arm64)

package conformance

import (
	"fmt"

	"github.com/obinnaokechukwu/ffboundary"
	"github.com/obinnaokechukwu/ffboundary/abi"
)

func scalarTransform(t *abi.Table) error {
	if err := need(t, "ffb_transform"); err != nil {
		return err
	}
	return expect("transform(1)", t.Transform(1), 2)
}

// sequenceByValueContract follows the by-value protocol: read by reference
// then release, and separately consume by value with no release afterwards.
func sequenceByValueContract(t *abi.Table) error {
	if err := need(t, "ffb_sequence_make", "ffb_sequence_sum",
		"ffb_sequence_free", "ffb_sequence_sum_consume"); err != nil {
		return err
	}

	seq := t.SequenceMake(2)
	if seq.Data == nil {
		return fmt.Errorf("sequence_make(2) returned a null descriptor")
	}
	got := t.SequenceSum(&seq)
	t.SequenceFree(seq)
	if err := expect("sum by reference", got, 2); err != nil {
		return err
	}

	seq = t.SequenceMake(2)
	return expect("sum consuming", t.SequenceSumConsume(seq), 2)
}

// sequencePointerContract is the same protocol through the pointer variants,
// which clear the caller's descriptor on release.
func sequencePointerContract(t *abi.Table) error {
	if err := need(t, "ffb_sequence_make_into", "ffb_sequence_sum",
		"ffb_sequence_freep", "ffb_sequence_sum_consumep"); err != nil {
		return err
	}

	var seq abi.Sequence
	if !t.SequenceMakeInto(2, &seq) {
		return fmt.Errorf("sequence_make_into(2) failed")
	}
	got := t.SequenceSum(&seq)
	t.SequenceFreeP(&seq)
	if err := expect("sum by reference", got, 2); err != nil {
		return err
	}
	if seq.Data != nil {
		return fmt.Errorf("sequence_freep left data %p in the descriptor", seq.Data)
	}
	// A second freep on the cleared descriptor is defined as a no-op.
	t.SequenceFreeP(&seq)

	if !t.SequenceMakeInto(2, &seq) {
		return fmt.Errorf("sequence_make_into(2) failed")
	}
	if err := expect("sum consuming", t.SequenceSumConsumeP(&seq), 2); err != nil {
		return err
	}
	if seq.Data != nil {
		return fmt.Errorf("sequence_sum_consumep left data %p in the descriptor", seq.Data)
	}
	return nil
}

// makeSequence uses the by-value factory when bound, else the pointer one.
func makeSequence(t *abi.Table, n uint32) (abi.Sequence, error) {
	if t.SequenceMake != nil {
		return t.SequenceMake(n), nil
	}
	if err := need(t, "ffb_sequence_make_into"); err != nil {
		return abi.Sequence{}, err
	}
	var seq abi.Sequence
	if !t.SequenceMakeInto(n, &seq) {
		return abi.Sequence{}, fmt.Errorf("sequence_make_into(%d) failed", n)
	}
	return seq, nil
}

func consumeSequence(t *abi.Table, seq abi.Sequence) uint32 {
	if t.SequenceSumConsume != nil {
		return t.SequenceSumConsume(seq)
	}
	return t.SequenceSumConsumeP(&seq)
}

func sequenceReductionsAgree(t *abi.Table) error {
	if err := need(t, "ffb_sequence_sum", "ffb_sequence_freep", "ffb_sequence_sum_consumep"); err != nil {
		return err
	}
	for _, n := range []uint32{0, 1, 2, 3, 64} {
		want := n * ffboundary.SequenceFill

		seq, err := makeSequence(t, n)
		if err != nil {
			return err
		}
		if seq.Len != uintptr(n) || seq.Len > seq.Cap || seq.Data == nil {
			t.SequenceFreeP(&seq)
			return fmt.Errorf("make(%d) returned descriptor len=%d cap=%d data=%p",
				n, seq.Len, seq.Cap, seq.Data)
		}
		byRef := t.SequenceSum(&seq)
		t.SequenceFreeP(&seq)

		seq, err = makeSequence(t, n)
		if err != nil {
			return err
		}
		byVal := consumeSequence(t, seq)

		if err := expect(fmt.Sprintf("sum by reference n=%d", n), byRef, want); err != nil {
			return err
		}
		if err := expect(fmt.Sprintf("sum consuming n=%d", n), byVal, want); err != nil {
			return err
		}
	}
	return nil
}

// sequenceReleaseIsolation releases one sequence and checks that a later,
// unrelated allocation is intact.
func sequenceReleaseIsolation(t *abi.Table) error {
	if err := need(t, "ffb_sequence_sum", "ffb_sequence_freep"); err != nil {
		return err
	}
	first, err := makeSequence(t, 2)
	if err != nil {
		return err
	}
	t.SequenceFreeP(&first)

	second, err := makeSequence(t, 8)
	if err != nil {
		return err
	}
	defer t.SequenceFreeP(&second)

	third, err := makeSequence(t, 4)
	if err != nil {
		return err
	}
	defer t.SequenceFreeP(&third)

	if err := expect("second sequence", t.SequenceSum(&second), 8); err != nil {
		return err
	}
	return expect("third sequence", t.SequenceSum(&third), 4)
}

func pairMakeFill(t *abi.Table) error {
	if err := need(t, "ffb_pair_fill"); err != nil {
		return err
	}
	var p abi.Pair
	switch {
	case t.PairMake != nil:
		p = t.PairMake()
	case t.PairInit != nil:
		p = abi.Pair{X: 0xffffffff, Y: true}
		t.PairInit(&p)
	default:
		return need(t, "ffb_pair_make")
	}
	if p.X != 0 || p.Y {
		return fmt.Errorf("new pair = %+v, want zero", p)
	}
	t.PairFill(&p)
	if p.X != ffboundary.PairFilledX || !p.Y {
		return fmt.Errorf("filled pair = %+v, want {X:%d Y:true}", p, ffboundary.PairFilledX)
	}
	return nil
}

func objectLifecycle(t *abi.Table) error {
	if err := need(t, "ffb_object_make", "ffb_object_read", "ffb_object_read_slot",
		"ffb_object_mutate", "ffb_object_free"); err != nil {
		return err
	}
	h := t.ObjectMake()
	if h == 0 {
		return fmt.Errorf("object_make returned null")
	}
	defer func() { t.ObjectFree(h) }()

	if err := expect("read", t.ObjectRead(h), ffboundary.ObjectInitial); err != nil {
		return err
	}
	if err := expect("read through slot", t.ObjectReadSlot(&h), ffboundary.ObjectInitial); err != nil {
		return err
	}
	t.ObjectMutate(h)
	return expect("read after mutate", t.ObjectRead(h), ffboundary.ObjectMutated)
}

func objectNullableRead(t *abi.Table) error {
	if err := need(t, "ffb_object_make", "ffb_object_read",
		"ffb_object_read_nullable", "ffb_object_free"); err != nil {
		return err
	}
	if err := expect("read_nullable(NULL)", t.ObjectReadNullable(0), ffboundary.AbsentSentinel); err != nil {
		return err
	}
	h := t.ObjectMake()
	if h == 0 {
		return fmt.Errorf("object_make returned null")
	}
	defer t.ObjectFree(h)
	return expect("read_nullable", t.ObjectReadNullable(h.Nullable()), t.ObjectRead(h))
}

// objectRepoint relocates an object and checks that a read through the slot
// moves the caller onto the new handle without changing ownership.
func objectRepoint(t *abi.Table) error {
	if err := need(t, "ffb_object_make", "ffb_object_relocate", "ffb_object_read",
		"ffb_object_read_slot", "ffb_object_free"); err != nil {
		return err
	}
	h := t.ObjectMake()
	if h == 0 {
		return fmt.Errorf("object_make returned null")
	}
	slot := h
	defer func() { t.ObjectFree(slot) }()

	moved := t.ObjectRelocate(h)
	if moved == 0 || moved == h {
		return fmt.Errorf("object_relocate returned %#x for %#x", moved, h)
	}
	if err := expect("read through stale slot", t.ObjectReadSlot(&slot), ffboundary.ObjectInitial); err != nil {
		return err
	}
	if slot != moved {
		return fmt.Errorf("slot holds %#x after read, want %#x", slot, moved)
	}
	return expect("read re-pointed handle", t.ObjectRead(slot), ffboundary.ObjectInitial)
}

func produceValue(t *abi.Table) error {
	if err := need(t, "ffb_produce_value"); err != nil {
		return err
	}
	var x uint32
	t.ProduceValue(&x)
	return expect("produce_value", x, ffboundary.ProducedValue)
}

func produceObject(t *abi.Table) error {
	if err := need(t, "ffb_produce_object", "ffb_object_read", "ffb_object_free"); err != nil {
		return err
	}
	var h abi.Handle
	if !t.ProduceObject(&h) {
		return fmt.Errorf("produce_object reported failure")
	}
	defer t.ObjectFree(h)
	return expect("read produced object", t.ObjectRead(h), ffboundary.ObjectInitial)
}

func produceObjectNullable(t *abi.Table) error {
	if err := need(t, "ffb_produce_object_nullable", "ffb_object_free"); err != nil {
		return err
	}
	if t.ProduceObjectNullable(nil) {
		return fmt.Errorf("produce_object_nullable(NULL) reported success")
	}
	var h abi.Handle
	if !t.ProduceObjectNullable(&h) {
		return fmt.Errorf("produce_object_nullable reported failure")
	}
	t.ObjectFree(h)
	return nil
}
