//go:build !ios && !android && (amd64 || arm64)

package ffboundary

import "go.uber.org/zap"

// ProduceValue writes ProducedValue through out. It cannot fail.
func ProduceValue(out *uint32) {
	if out == nil {
		fault(Logger(), "produce_value", ErrNullPointer)
	}
	*out = ProducedValue
}

// ProduceObject creates an object and writes its handle through out.
// It returns false when no object could be created; *out is then untouched
// and must not be read. A nil out is a contract violation.
func (b *Boundary) ProduceObject(out *Handle) bool {
	if out == nil {
		fault(b.logger, "produce_object", ErrNullPointer)
	}
	h, err := b.MakeObject()
	if err != nil {
		b.logger.Debug("produce_object failed", zap.Error(err))
		return false
	}
	*out = h
	return true
}

// ProduceObjectNullable is ProduceObject where a nil out means the caller
// opted out: it returns false without creating anything.
func (b *Boundary) ProduceObjectNullable(out *Handle) bool {
	if out == nil {
		return false
	}
	return b.ProduceObject(out)
}
