//go:build !ios && !android && (amd64 || arm64)

package ffboundary

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logMu  sync.Mutex
	logger *zap.Logger
)

// Logger returns the package logger. It is a no-op logger unless SetLogger
// has been called.
func Logger() *zap.Logger {
	logMu.Lock()
	defer logMu.Unlock()
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

// SetLogger replaces the package logger. Boundaries created afterwards
// without an explicit logger use it. Pass nil to restore the no-op logger.
func SetLogger(l *zap.Logger) {
	logMu.Lock()
	defer logMu.Unlock()
	logger = l
}
