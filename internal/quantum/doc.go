// Package quantum implements the psikit computational core: state vectors,
// unitary operators, and projective measurement for small quantum-optics
// experiments.
//
// ARCHITECTURE:
//
// Value Semantics:
// A StateVector is an immutable value. Gate application and measurement
// collapse never mutate their input; they return a fresh StateVector. This
// keeps experiment replay and logging referentially transparent - a caller
// can hold the pre-gate and post-gate states side by side.
//
// Normalization Boundary:
// Every StateVector handed out by this package is normalized:
//
//	sum |amplitude_i|^2 == 1 (within Tolerance)
//
// Construction normalizes defensively and rejects only exact-zero vectors.
// Unitary evolution preserves the norm up to floating-point drift, which the
// construction path absorbs, so the invariant holds after every operation.
//
// Determinism:
// Measurement is the single source of randomness in the core, and the source
// is injected (see Source). Given a fixed source, every function in this
// package is a pure computation. Outcome selection scans the cumulative
// distribution in basis-label order, so ties resolve deterministically.
//
// All errors are construction- or application-time contract violations
// (mismatched dimensions, non-unitary matrices, zero states). They indicate
// malformed experiments, not transient conditions; nothing here retries or
// silently repairs inputs.
package quantum
