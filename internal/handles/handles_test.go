package handles

import (
	"errors"
	"sync"
	"testing"
)

func TestRegisterAndLookup(t *testing.T) {
	type testData struct {
		Name  string
		Value int
	}

	tbl := New[*testData](0)
	handle, err := tbl.Register(&testData{Name: "test", Value: 42})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if handle == 0 {
		t.Error("Register should return non-zero handle")
	}

	got, ok := tbl.Lookup(handle)
	if !ok {
		t.Fatal("Lookup should find registered handle")
	}
	if got.Name != "test" || got.Value != 42 {
		t.Errorf("Lookup returned wrong data: %+v", got)
	}
}

func TestUnregister(t *testing.T) {
	tbl := New[string](0)
	handle, _ := tbl.Register("test string")

	v, ok := tbl.Unregister(handle)
	if !ok || v != "test string" {
		t.Fatalf("Unregister = %q, %v", v, ok)
	}
	if _, ok := tbl.Lookup(handle); ok {
		t.Error("Expected miss after Unregister")
	}
	if _, ok := tbl.Unregister(handle); ok {
		t.Error("second Unregister should report a miss")
	}
}

func TestLookupNonExistent(t *testing.T) {
	tbl := New[int](0)
	if _, ok := tbl.Lookup(999999); ok {
		t.Error("Lookup of non-existent handle should miss")
	}
	if _, ok := tbl.Lookup(0); ok {
		t.Error("Lookup of zero handle should miss")
	}
}

func TestIssued(t *testing.T) {
	tbl := New[int](0)
	h, _ := tbl.Register(7)
	tbl.Unregister(h)
	if !tbl.Issued(h) {
		t.Error("released id should still count as issued")
	}
	if tbl.Issued(h + 100) {
		t.Error("future id reported as issued")
	}
	if tbl.Issued(0) {
		t.Error("zero is never issued")
	}
}

func TestLimit(t *testing.T) {
	tbl := New[int](2)
	a, _ := tbl.Register(1)
	if _, err := tbl.Register(2); err != nil {
		t.Fatalf("second Register failed: %v", err)
	}
	if _, err := tbl.Register(3); !errors.Is(err, ErrFull) {
		t.Fatalf("expected ErrFull, got %v", err)
	}
	tbl.Unregister(a)
	if _, err := tbl.Register(3); err != nil {
		t.Fatalf("Register after Unregister failed: %v", err)
	}
}

func TestRelocateForwards(t *testing.T) {
	tbl := New[string](0)
	old, _ := tbl.Register("obj")

	moved, err := tbl.Relocate(old)
	if err != nil {
		t.Fatalf("Relocate failed: %v", err)
	}
	if moved == old {
		t.Fatal("Relocate should hand out a fresh id")
	}
	if live, ok := tbl.Resolve(old); !ok || live != moved {
		t.Fatalf("Resolve(old) = %d, %v; want %d", live, ok, moved)
	}
	if v, ok := tbl.Lookup(old); !ok || v != "obj" {
		t.Fatalf("Lookup through alias = %q, %v", v, ok)
	}
	if tbl.Count() != 1 || tbl.Aliases() != 1 {
		t.Fatalf("count=%d aliases=%d", tbl.Count(), tbl.Aliases())
	}

	// A second move keeps aliases one hop from the live id.
	again, _ := tbl.Relocate(old)
	if live, _ := tbl.Resolve(old); live != again {
		t.Fatalf("old alias not flattened: %d != %d", live, again)
	}
	if live, _ := tbl.Resolve(moved); live != again {
		t.Fatalf("middle alias not updated: %d != %d", live, again)
	}

	if !tbl.Retire(old) {
		t.Fatal("Retire should drop the alias")
	}
	if tbl.Retire(again) {
		t.Fatal("Retire must not touch live ids")
	}
	if _, ok := tbl.Lookup(old); ok {
		t.Fatal("retired alias still resolves")
	}

	if _, ok := tbl.Unregister(moved); !ok {
		t.Fatal("Unregister through alias failed")
	}
	if tbl.Count() != 0 || tbl.Aliases() != 0 {
		t.Fatalf("table not empty: count=%d aliases=%d", tbl.Count(), tbl.Aliases())
	}
}

func TestRelocateUnknown(t *testing.T) {
	tbl := New[int](0)
	if _, err := tbl.Relocate(42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConcurrentAccess(t *testing.T) {
	const numGoroutines = 100
	const numOps = 100

	tbl := New[*struct{ ID, Seq int }](0)

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < numOps; j++ {
				handle, err := tbl.Register(&struct{ ID, Seq int }{id, j})
				if err != nil {
					t.Errorf("Register failed: %v", err)
					return
				}
				if _, ok := tbl.Lookup(handle); !ok {
					t.Errorf("Lookup missed handle %d", handle)
				}
				tbl.Unregister(handle)
			}
		}(i)
	}

	wg.Wait()
	if tbl.Count() != 0 {
		t.Errorf("expected empty table, got %d", tbl.Count())
	}
}

func TestHandlesAreUnique(t *testing.T) {
	tbl := New[int](0)
	seen := make(map[uintptr]bool)

	for i := 0; i < 1000; i++ {
		h, _ := tbl.Register(i)
		if seen[h] {
			t.Errorf("Handle %d was returned twice", h)
		}
		seen[h] = true
		if i%2 == 0 {
			tbl.Unregister(h)
		}
	}
}

func TestIDLayout(t *testing.T) {
	tbl := New[int](0)
	a, _ := tbl.Register(1)
	b, _ := tbl.Register(2)

	if a != FirstID {
		t.Fatalf("first id = %#x, want %#x", a, FirstID)
	}
	if b-a != IDStride {
		t.Fatalf("stride = %d, want %d", b-a, IDStride)
	}
	if a%IDStride != 0 {
		t.Fatalf("id %#x not aligned to %d", a, IDStride)
	}
	if tbl.Issued(a + 1) {
		t.Error("id between two issued ids reported as issued")
	}
	if tbl.Issued(1) {
		t.Error("id below FirstID reported as issued")
	}
}
