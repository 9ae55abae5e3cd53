package quantum

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
	"gonum.org/v1/gonum/mat"
)

// Operator is an immutable unitary linear map over an ordered set of basis
// labels. A single Operator type covers built-in and user-defined gates
// alike: any matrix satisfying the unitary contract is a valid gate, no
// hierarchy involved.
//
// The matrix is held as a gonum CDense and copied on construction and on
// export, so an Operator can be shared freely across goroutines.
type Operator struct {
	labels []string
	matrix *mat.CDense
}

// NewOperator constructs a gate from a square complex matrix and the ordered
// basis labels it is defined over. Row/column i of the matrix corresponds to
// labels[i].
//
// Fails with DIMENSION_MISMATCH when the matrix is not square or its
// dimension disagrees with len(labels), and with NON_UNITARY_MATRIX when
// M x conj-transpose(M) deviates from the identity by more than Tolerance.
// A malformed gate is a construction-time defect; it is never repaired.
func NewOperator(matrix [][]complex128, labels []string) (*Operator, error) {
	n := len(labels)
	if n == 0 {
		return nil, newError(ErrCodeDimensionMismatch, "operator domain must contain at least one label")
	}
	if err := checkLabels(labels); err != nil {
		return nil, err
	}
	if len(matrix) != n {
		return nil, newError(ErrCodeDimensionMismatch,
			"matrix has %d rows for a %d-label domain", len(matrix), n)
	}
	data := make([]complex128, 0, n*n)
	for i, row := range matrix {
		if len(row) != n {
			return nil, newError(ErrCodeDimensionMismatch,
				"matrix row %d has %d columns, want %d", i, len(row), n)
		}
		data = append(data, row...)
	}

	m := mat.NewCDense(n, n, data)
	if err := checkUnitary(m); err != nil {
		return nil, err
	}
	return &Operator{labels: append([]string(nil), labels...), matrix: m}, nil
}

// Identity returns the identity gate over the given labels. Applying it
// leaves any matching state unchanged.
func Identity(labels []string) (*Operator, error) {
	n := len(labels)
	matrix := make([][]complex128, n)
	for i := range matrix {
		matrix[i] = make([]complex128, n)
		matrix[i][i] = 1
	}
	return NewOperator(matrix, labels)
}

// BeamSplitter returns the two-port beam-splitter gate over the path labels
// (transmitted, reflected), with transmission probability t in [0,1]:
//
//	[  sqrt(t)    sqrt(1-t) ]
//	[ -sqrt(1-t)  sqrt(t)   ]
//
// Phase convention: the real rotation form. An amplitude entering on the
// transmitted port splits into sqrt(t) transmitted and -sqrt(1-t) reflected;
// the reflection phase is a plain sign flip, with no imaginary component.
// At t=0.5 this is exactly (1/sqrt2)[[1,1],[-1,1]]. The convention is fixed
// across the engine so test vectors stay reproducible; probabilities are
// unaffected by it.
func BeamSplitter(transmission float64, transmitted, reflected string) (*Operator, error) {
	if transmission < 0 || transmission > 1 || math.IsNaN(transmission) {
		return nil, newError(ErrCodeNonUnitary,
			"transmission %v outside [0,1] cannot produce a unitary beam splitter", transmission)
	}
	ct := complex(math.Sqrt(transmission), 0)
	cr := complex(math.Sqrt(1-transmission), 0)
	return NewOperator([][]complex128{
		{ct, cr},
		{-cr, ct},
	}, []string{transmitted, reflected})
}

// Dim returns the domain dimension.
func (o *Operator) Dim() int { return len(o.labels) }

// Labels returns a copy of the ordered domain labels.
func (o *Operator) Labels() []string {
	return append([]string(nil), o.labels...)
}

// Matrix returns a row-major copy of the gate matrix.
func (o *Operator) Matrix() [][]complex128 {
	n := len(o.labels)
	out := make([][]complex128, n)
	for i := range out {
		out[i] = make([]complex128, n)
		for j := range out[i] {
			out[i][j] = o.matrix.At(i, j)
		}
	}
	return out
}

// Apply evolves a state through the gate and returns the new state. Pure:
// neither the operator nor the input state is mutated.
//
// The operator's domain must be a permutation of the state's basis; anything
// else fails with LABEL_MISMATCH. The multiplication runs in the operator's
// domain order and the result is mapped back to the state's label order, so
// the basis ordering of a state is stable across gate applications.
//
// The result passes through state construction, which re-normalizes away the
// floating-point drift of the multiplication, keeping the norm invariant at
// the boundary.
func (o *Operator) Apply(s *StateVector) (*StateVector, error) {
	n := len(o.labels)
	if n != s.Dim() {
		return nil, newError(ErrCodeLabelMismatch,
			"operator acts on %d labels but state has %d", n, s.Dim())
	}

	// perm[i] = index in the state basis of operator label i.
	perm := make([]int, n)
	for i, label := range o.labels {
		idx := s.index(label)
		if idx < 0 {
			return nil, newError(ErrCodeLabelMismatch,
				"operator label %q is not in the state basis", label).
				withDetail("label", label)
		}
		perm[i] = idx
	}

	in := make([]complex128, n)
	for i, idx := range perm {
		in[i] = s.amps[idx]
	}

	prod := mat.NewCDense(n, 1, nil)
	cblas128.Gemm(blas.NoTrans, blas.NoTrans, 1,
		o.matrix.RawCMatrix(), mat.NewCDense(n, 1, in).RawCMatrix(), 0, prod.RawCMatrix())

	out := make([]complex128, s.Dim())
	for i, idx := range perm {
		out[idx] = prod.At(i, 0)
	}

	return NewState(s.labels, out)
}

// checkUnitary verifies M x conj-transpose(M) == I within Tolerance.
func checkUnitary(m *mat.CDense) error {
	n, _ := m.Dims()
	prod := mat.NewCDense(n, n, nil)
	cblas128.Gemm(blas.NoTrans, blas.ConjTrans, 1,
		m.RawCMatrix(), m.RawCMatrix(), 0, prod.RawCMatrix())
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			want := complex128(0)
			if i == j {
				want = 1
			}
			if got := prod.At(i, j); cmplx.Abs(got-want) > Tolerance {
				return newError(ErrCodeNonUnitary,
					"matrix is not unitary: (M M*)[%d][%d] = %v, want %v", i, j, got, want)
			}
		}
	}
	return nil
}

func checkLabels(labels []string) error {
	seen := make(map[string]struct{}, len(labels))
	for i, label := range labels {
		if label == "" {
			return newError(ErrCodeDimensionMismatch, "domain label %d is empty", i)
		}
		if _, dup := seen[label]; dup {
			return newError(ErrCodeDimensionMismatch, "duplicate domain label %q", label).
				withDetail("label", label)
		}
		seen[label] = struct{}{}
	}
	return nil
}
