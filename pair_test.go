//go:build !ios && !android && (amd64 || arm64)

package ffboundary

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestPairLayout(t *testing.T) {
	var p Pair
	assert.Equal(t, uintptr(8), unsafe.Sizeof(p))
	assert.Equal(t, uintptr(4), unsafe.Alignof(p))
	assert.Equal(t, uintptr(0), unsafe.Offsetof(p.X))
	assert.Equal(t, uintptr(4), unsafe.Offsetof(p.Y))
}

func TestPairMakeAndFill(t *testing.T) {
	p := MakePair()
	assert.Equal(t, Pair{X: 0, Y: false}, p)

	FillPair(&p)
	assert.Equal(t, Pair{X: PairFilledX, Y: true}, p)

	ce := violation(t, func() { FillPair(nil) })
	assert.True(t, errors.Is(ce, ErrNullPointer))
}

func TestInitPair(t *testing.T) {
	p := Pair{X: 7, Y: true}
	InitPair(&p)
	assert.Equal(t, MakePair(), p)

	ce := violation(t, func() { InitPair(nil) })
	assert.True(t, errors.Is(ce, ErrNullPointer))
	assert.Equal(t, "pair_init", ce.Op)
}
