//go:build !ios && !android && (amd64 || arm64)

package ffboundary

import (
	"errors"
	"math"
	"testing"
	"unsafe"

	"github.com/obinnaokechukwu/ffboundary/internal/libc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// heapAllocator hands out Go memory and keeps it reachable until freed, so
// the core can be exercised without a C runtime.
type heapAllocator struct {
	live  map[unsafe.Pointer][]byte
	fail  bool
	frees int
}

func newHeapAllocator() *heapAllocator {
	return &heapAllocator{live: make(map[unsafe.Pointer][]byte)}
}

func (a *heapAllocator) Alloc(size uintptr) unsafe.Pointer {
	if a.fail {
		return nil
	}
	buf := make([]byte, size)
	p := unsafe.Pointer(&buf[0])
	a.live[p] = buf
	return p
}

func (a *heapAllocator) Free(ptr unsafe.Pointer) {
	delete(a.live, ptr)
	a.frees++
}

func newTestBoundary(t *testing.T, opts Options) (*Boundary, *heapAllocator) {
	t.Helper()
	alloc := newHeapAllocator()
	if opts.Allocator == nil {
		opts.Allocator = alloc
	}
	if opts.Logger == nil {
		opts.Logger = zaptest.NewLogger(t)
	}
	b, err := New(opts)
	require.NoError(t, err)
	return b, alloc
}

// violation runs fn and returns the contract error it panicked with.
func violation(t *testing.T, fn func()) (ce *ContractError) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a contract violation")
		var ok bool
		ce, ok = IsContractViolation(r)
		require.True(t, ok, "panic value %v is not a contract violation", r)
	}()
	fn()
	return nil
}

func TestTransform(t *testing.T) {
	assert.Equal(t, uint32(2), Transform(1))
	assert.Equal(t, uint32(1), Transform(0))
	assert.Equal(t, uint32(0), Transform(math.MaxUint32), "transform wraps")
}

func TestNewDefaultAllocator(t *testing.T) {
	if err := libc.Load(); err != nil {
		t.Skipf("C runtime not available: %v", err)
	}
	b, err := New(Options{})
	require.NoError(t, err)

	s, err := b.MakeSequence(4)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), b.SumSequence(&s))
	b.ReleaseSequence(s)
	assert.Zero(t, b.Stats().LiveSequences)
}

func TestContractErrorUnwrap(t *testing.T) {
	err := &ContractError{Op: "object_free", Err: ErrReleased}
	assert.True(t, errors.Is(err, ErrReleased))
	assert.Contains(t, err.Error(), "object_free")

	_, ok := IsContractViolation("not an error")
	assert.False(t, ok)
	_, ok = IsContractViolation(errors.New("plain"))
	assert.False(t, ok)
}

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)

	l := zaptest.NewLogger(t)
	SetLogger(l)
	assert.Same(t, l, Logger())

	SetLogger(nil)
	assert.NotNil(t, Logger())
}
