// Package experiment is the orchestration layer over the quantum core.
//
// It owns everything the core deliberately excludes: experiment definitions
// (YAML files validated against an embedded CUE schema), the runner that
// wires prepare -> gates -> measurement together, run tokens, and the
// logical clock that stamps trace events.
//
// The core packages stay free of process-wide state and I/O; this package is
// the single place where an experiment file is turned into core calls.
//
// Determinism contract: a Definition plus a seed fully determines a run. The
// runner threads one injected random source through all shots and stamps
// every event with a monotonic seq, so the resulting trace fingerprint is
// reproducible - the replay command and the conformance harness both depend
// on this.
package experiment
