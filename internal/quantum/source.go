package quantum

import "math/rand"

// Source supplies uniform random numbers in [0,1) for measurement sampling.
//
// Randomness is an injected dependency, never an implicit global generator:
// a fixed Source makes Measure fully deterministic, which replay and the
// conformance harness rely on. *rand.Rand satisfies Source.
type Source interface {
	Float64() float64
}

var _ Source = (*rand.Rand)(nil)

// NewSeededSource returns a Source driven by math/rand with the given seed.
// The same seed always yields the same outcome sequence.
func NewSeededSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}
