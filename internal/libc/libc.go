//go:build !ios && !android && (amd64 || arm64)

// Package libc binds the C runtime allocator with purego.
//
// Memory handed to the foreign side must live outside the Go heap: C code may
// keep a sequence descriptor across calls, and the garbage collector must
// never move or reclaim it. Allocating with the same malloc/free pair the
// foreign side links against also lets C code release storage that Go
// produced, and the other way round.
package libc

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/ffboundary/internal/platform"
)

// ErrNotLoaded is returned when the C runtime could not be opened.
var ErrNotLoaded = errors.New("ffboundary: C runtime not loaded")

var (
	libC     uintptr
	loaded   bool
	loadOnce sync.Once
	loadErr  error

	cMalloc func(size uintptr) unsafe.Pointer
	cCalloc func(count, size uintptr) unsafe.Pointer
	cFree   func(ptr unsafe.Pointer)
)

// Load opens the C runtime and registers malloc, calloc and free.
// It is safe to call multiple times; subsequent calls are no-ops.
func Load() error {
	loadOnce.Do(func() {
		loadErr = doLoad()
		if loadErr == nil {
			loaded = true
		}
	})
	return loadErr
}

func doLoad() error {
	var lastErr error
	for _, name := range platform.LibcCandidates() {
		lib, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			lastErr = err
			continue
		}
		libC = lib
		purego.RegisterLibFunc(&cMalloc, libC, "malloc")
		purego.RegisterLibFunc(&cCalloc, libC, "calloc")
		purego.RegisterLibFunc(&cFree, libC, "free")
		return nil
	}
	return fmt.Errorf("%w: %v", ErrNotLoaded, lastErr)
}

// IsLoaded returns true if the C runtime has been successfully loaded.
func IsLoaded() bool {
	return loaded
}

// Malloc allocates size bytes of uninitialised C memory.
// Returns nil if the runtime is not loaded or allocation fails.
func Malloc(size uintptr) unsafe.Pointer {
	if cMalloc == nil {
		return nil
	}
	return cMalloc(size)
}

// Calloc allocates zeroed C memory for count elements of size bytes.
func Calloc(count, size uintptr) unsafe.Pointer {
	if cCalloc == nil {
		return nil
	}
	return cCalloc(count, size)
}

// Free releases memory obtained from Malloc or Calloc.
// Safe to call with nil pointer.
func Free(ptr unsafe.Pointer) {
	if ptr == nil || cFree == nil {
		return
	}
	cFree(ptr)
}

// Allocator allocates from the C runtime heap. The zero value is ready to use
// once Load has succeeded.
type Allocator struct{}

// Alloc returns size zeroed bytes of C memory, or nil on failure.
func (Allocator) Alloc(size uintptr) unsafe.Pointer {
	return Calloc(1, size)
}

// Free releases ptr.
func (Allocator) Free(ptr unsafe.Pointer) {
	Free(ptr)
}
