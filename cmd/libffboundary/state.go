//go:build cgo && !ios && !android && (amd64 || arm64)

package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"os"
	"sync"
	"unsafe"

	"github.com/obinnaokechukwu/ffboundary"
	"github.com/obinnaokechukwu/ffboundary/internal/config"
	"go.uber.org/zap"
)

// cAllocator uses the C heap the host links against, so C code may free
// what it receives with the same runtime.
type cAllocator struct{}

func (cAllocator) Alloc(size uintptr) unsafe.Pointer {
	return C.calloc(1, C.size_t(size))
}

func (cAllocator) Free(ptr unsafe.Pointer) {
	C.free(ptr)
}

var (
	state     *ffboundary.Boundary
	stateOnce sync.Once
)

func boundary() *ffboundary.Boundary {
	stateOnce.Do(initState)
	return state
}

func initState() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "libffboundary: %v; using defaults\n", err)
		cfg = config.Default()
	}

	logger, err := cfg.Logger()
	if err != nil {
		logger = zap.NewNop()
	}
	ffboundary.SetLogger(logger)

	b, err := ffboundary.New(ffboundary.Options{
		Allocator:  cAllocator{},
		MaxObjects: cfg.Boundary.MaxObjects,
		Logger:     logger,
	})
	if err != nil {
		// Only the default allocator can fail; ours cannot.
		panic(err)
	}
	state = b
	logger.Debug("libffboundary ready", zap.Int("max_objects", cfg.Boundary.MaxObjects))
}
