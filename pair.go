//go:build !ios && !android && (amd64 || arm64)

package ffboundary

// Pair is a fixed-layout aggregate passed by value. Its layout matches
//
//	struct ffb_pair { uint32_t x; bool y; };
//
// It owns no indirect storage, so there is no release operation; it lives
// exactly as long as the caller's storage for it.
type Pair struct {
	X uint32
	Y bool
}

// MakePair returns the zero Pair.
func MakePair() Pair {
	return Pair{}
}

// FillPair sets the fields of *p in place.
func FillPair(p *Pair) {
	if p == nil {
		fault(Logger(), "pair_fill", ErrNullPointer)
	}
	p.X = PairFilledX
	p.Y = true
}

// InitPair writes the zero Pair through out. It is MakePair for callers that
// cannot receive a struct by value.
func InitPair(out *Pair) {
	if out == nil {
		fault(Logger(), "pair_init", ErrNullPointer)
	}
	*out = MakePair()
}
