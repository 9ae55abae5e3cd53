package quantum

// Polarize applies an ideal polarizer to the state: the projector
// |pass><pass| followed by renormalization. Only the amplitude on the pass
// label survives; its complex phase is preserved.
//
// Projection is not norm-preserving, so a polarizer is a standalone filter
// operation rather than an Operator - it cannot satisfy the unitary
// contract.
//
// Fails with LABEL_MISMATCH when the pass label is not in the basis, and
// with ZERO_STATE when the photon is fully blocked (the surviving
// probability is below Tolerance) - the engine never hands back a
// non-normalizable state.
func Polarize(s *StateVector, pass string) (*StateVector, error) {
	idx := s.index(pass)
	if idx < 0 {
		return nil, newError(ErrCodeLabelMismatch, "polarizer pass label %q is not in the state basis", pass).
			withDetail("label", pass)
	}

	if probability(s.amps[idx]) < Tolerance {
		return nil, newError(ErrCodeZeroState,
			"photon fully blocked: no amplitude survives the %q polarizer", pass)
	}

	projected := make([]complex128, s.Dim())
	projected[idx] = s.amps[idx]
	return NewState(s.labels, projected)
}
