package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Tolerance is the floating-point tolerance for all norm, probability, and
// unitarity checks. Amplitudes are complex128, so 1e-9 leaves a wide margin
// above accumulated rounding error for the small bases this engine targets.
const Tolerance = 1e-9

// StateVector is a normalized vector of complex probability amplitudes over
// an ordered set of basis labels.
//
// Basis labels name the classical outcomes a measurement can produce (for a
// photonic qubit, typically "Transmission" and "Reflection"). Label order is
// significant: it defines the index<->label mapping used by operators and by
// the deterministic cumulative scan during measurement.
//
// StateVector is immutable. Operators and measurement return new values.
type StateVector struct {
	labels []string
	amps   []complex128
}

// NewState constructs a normalized StateVector over the given basis.
//
// The amplitude vector is normalized defensively: any nonzero vector is
// scaled to unit norm, so callers may pass unnormalized amplitudes (e.g. the
// raw output of a projector). Only an exact-zero vector is rejected, with a
// ZERO_STATE error.
//
// Fails with DIMENSION_MISMATCH when the label and amplitude counts differ,
// when the basis is empty, or when a label is empty or duplicated.
func NewState(labels []string, amps []complex128) (*StateVector, error) {
	if len(labels) == 0 {
		return nil, newError(ErrCodeDimensionMismatch, "basis must contain at least one label")
	}
	if len(labels) != len(amps) {
		return nil, newError(ErrCodeDimensionMismatch,
			"basis has %d labels but %d amplitudes", len(labels), len(amps))
	}
	seen := make(map[string]struct{}, len(labels))
	for i, label := range labels {
		if label == "" {
			return nil, newError(ErrCodeDimensionMismatch, "basis label %d is empty", i).
				withDetail("index", fmt.Sprintf("%d", i))
		}
		if _, dup := seen[label]; dup {
			return nil, newError(ErrCodeDimensionMismatch, "duplicate basis label %q", label).
				withDetail("label", label)
		}
		seen[label] = struct{}{}
	}

	normSq := sumSquares(amps)
	if normSq == 0 {
		return nil, newError(ErrCodeZeroState, "state vector is exactly zero and cannot be normalized")
	}

	s := &StateVector{
		labels: append([]string(nil), labels...),
		amps:   append([]complex128(nil), amps...),
	}
	s.scale(1 / math.Sqrt(normSq))
	return s, nil
}

// NewBasisState constructs the pure basis state |label> - amplitude 1 on the
// given label, 0 elsewhere. This is the usual experiment preparation
// ("prepare |0>").
func NewBasisState(labels []string, label string) (*StateVector, error) {
	amps := make([]complex128, len(labels))
	idx := -1
	for i, l := range labels {
		if l == label {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, newError(ErrCodeLabelMismatch, "label %q is not in the basis", label).
			withDetail("label", label)
	}
	amps[idx] = 1
	return NewState(labels, amps)
}

// Dim returns the basis dimension.
func (s *StateVector) Dim() int { return len(s.labels) }

// Labels returns a copy of the ordered basis labels.
func (s *StateVector) Labels() []string {
	return append([]string(nil), s.labels...)
}

// Amplitudes returns a copy of the ordered amplitude vector.
func (s *StateVector) Amplitudes() []complex128 {
	return append([]complex128(nil), s.amps...)
}

// Amplitude returns the amplitude for the given label. The second return
// value is false when the label is not part of the basis.
func (s *StateVector) Amplitude(label string) (complex128, bool) {
	i := s.index(label)
	if i < 0 {
		return 0, false
	}
	return s.amps[i], true
}

// Probabilities returns the Born-rule probability |amplitude|^2 for each
// basis index, in label order. The returned slice sums to 1 within
// Tolerance. Side-effect free.
func (s *StateVector) Probabilities() []float64 {
	probs := make([]float64, len(s.amps))
	for i, a := range s.amps {
		probs[i] = probability(a)
	}
	return probs
}

// ProbabilityMap returns the Born-rule probabilities keyed by basis label.
// Convenience for read-only consumers (rendering, stats reporting); label
// order is lost, so samplers must use Probabilities.
func (s *StateVector) ProbabilityMap() map[string]float64 {
	probs := make(map[string]float64, len(s.amps))
	for i, a := range s.amps {
		probs[s.labels[i]] = probability(a)
	}
	return probs
}

// Norm returns sqrt(sum |amplitude_i|^2). Always 1 within Tolerance for a
// constructed StateVector; exported for invariant checks in tests.
func (s *StateVector) Norm() float64 {
	return math.Sqrt(sumSquares(s.amps))
}

// String renders the state as a ket sum for logs and error messages.
func (s *StateVector) String() string {
	out := ""
	for i, a := range s.amps {
		if i > 0 {
			out += " + "
		}
		out += fmt.Sprintf("(%.4f%+.4fi)|%s>", real(a), imag(a), s.labels[i])
	}
	return out
}

// index returns the position of label in the basis, or -1.
func (s *StateVector) index(label string) int {
	for i, l := range s.labels {
		if l == label {
			return i
		}
	}
	return -1
}

// scale multiplies every amplitude in place. Only used during construction,
// before the value escapes.
func (s *StateVector) scale(f float64) {
	for i := range s.amps {
		s.amps[i] *= complex(f, 0)
	}
}

func probability(a complex128) float64 {
	m := cmplx.Abs(a)
	return m * m
}

func sumSquares(amps []complex128) float64 {
	var total float64
	for _, a := range amps {
		total += probability(a)
	}
	return total
}
