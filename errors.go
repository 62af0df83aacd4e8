//go:build !ios && !android && (amd64 || arm64)

package ffboundary

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Contract violations. These are raised as panics carrying a *ContractError,
// never returned: they are caller bugs, not recoverable conditions.
var (
	// ErrNullHandle indicates a strict operation received a null handle.
	ErrNullHandle = errors.New("ffboundary: null handle")

	// ErrNullPointer indicates a required reference or out-parameter was nil.
	ErrNullPointer = errors.New("ffboundary: null pointer")

	// ErrReleased indicates use or release of a value that was already released
	// or consumed.
	ErrReleased = errors.New("ffboundary: value already released")

	// ErrUnknownHandle indicates a handle this boundary never issued.
	ErrUnknownHandle = errors.New("ffboundary: unknown handle")

	// ErrInvalidDescriptor indicates a sequence descriptor whose length or
	// capacity does not match its allocation.
	ErrInvalidDescriptor = errors.New("ffboundary: invalid sequence descriptor")
)

// Defined failures, returned as ordinary errors.
var (
	// ErrOutOfMemory indicates the allocator could not satisfy a request.
	ErrOutOfMemory = errors.New("ffboundary: out of memory")

	// ErrHandleLimit indicates the configured live object limit was reached.
	ErrHandleLimit = errors.New("ffboundary: object limit reached")
)

// ContractError is the panic value raised on a contract violation.
type ContractError struct {
	Op  string // Operation that detected the violation
	Err error  // One of the contract sentinels
}

// Error implements the error interface.
func (e *ContractError) Error() string {
	return fmt.Sprintf("ffboundary %s: contract violation: %v", e.Op, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *ContractError) Unwrap() error {
	return e.Err
}

// IsContractViolation reports whether v, typically a recovered panic value,
// is a contract violation, and returns it.
func IsContractViolation(v any) (*ContractError, bool) {
	err, ok := v.(error)
	if !ok {
		return nil, false
	}
	var ce *ContractError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

func fault(logger *zap.Logger, op string, err error) {
	logger.Warn("contract violation", zap.String("op", op), zap.Error(err))
	panic(&ContractError{Op: op, Err: err})
}
