package quantum

// Outcome is the result of one projective measurement: the observed basis
// label, the Born-rule probability that produced it, and the collapsed
// post-measurement state. Produced fresh per call; the engine retains
// nothing.
type Outcome struct {
	Label       string
	Probability float64
	Collapsed   *StateVector
}

// Measure performs a projective measurement of the state in its own basis.
//
// Sampling: the Born probabilities are scanned cumulatively in basis-label
// order and the first label whose cumulative probability exceeds the uniform
// draw is selected, falling back to the last label against floating-point
// rounding at the top of the distribution. Ties resolve by label order, so a
// fixed Source gives a fixed outcome.
//
// The collapsed state carries amplitude exactly 1 on the observed label and
// 0 elsewhere; the original amplitude's complex phase is discarded, since a
// global phase is physically unobservable. The input state is not mutated.
//
// Fails with DEGENERATE_STATE when the probabilities sum to ~0. That cannot
// happen for a state built by this package, but Measure checks defensively
// rather than divide by zero.
func Measure(s *StateVector, src Source) (Outcome, error) {
	probs := s.Probabilities()

	var total float64
	for _, p := range probs {
		total += p
	}
	if total < Tolerance {
		return Outcome{}, newError(ErrCodeDegenerateState,
			"all outcome probabilities vanish; state cannot be measured")
	}

	// Renormalize defensively so the cumulative scan always reaches 1.
	labels := s.labels
	u := src.Float64()
	cumulative := 0.0
	chosen := len(probs) - 1
	for i, p := range probs {
		cumulative += p / total
		if u < cumulative {
			chosen = i
			break
		}
	}

	collapsed, err := NewBasisState(labels, labels[chosen])
	if err != nil {
		// The label came from the state's own basis; construction cannot fail.
		return Outcome{}, err
	}

	return Outcome{
		Label:       labels[chosen],
		Probability: probs[chosen] / total,
		Collapsed:   collapsed,
	}, nil
}
