//go:build !ios && !android && (amd64 || arm64)

package ffboundary

import (
	"sync"
	"unsafe"
)

// ledger records every allocation currently owned by the foreign side, keyed
// by address. A release of an address not in the ledger is a double release
// or a release of foreign memory.
//
// Detection is best effort: once storage is freed the allocator may hand the
// same address out again, and a stale descriptor then aliases a live one.
type ledger struct {
	mu    sync.Mutex
	live  map[uintptr]uintptr
	bytes uintptr
}

func newLedger() *ledger {
	return &ledger{live: make(map[uintptr]uintptr)}
}

func (l *ledger) add(p unsafe.Pointer, size uintptr) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.live[uintptr(p)] = size
	l.bytes += size
}

// size returns the allocation size recorded for p.
func (l *ledger) size(p unsafe.Pointer) (uintptr, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	n, ok := l.live[uintptr(p)]
	return n, ok
}

func (l *ledger) remove(p unsafe.Pointer) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	n, ok := l.live[uintptr(p)]
	if !ok {
		return false
	}
	delete(l.live, uintptr(p))
	l.bytes -= n
	return true
}

func (l *ledger) stats() (int, uintptr) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.live), l.bytes
}
