package trace

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Event types recorded in a run trace.
const (
	// EventPrepare records initial state preparation.
	EventPrepare = "prepare"

	// EventGate records a unitary gate application.
	EventGate = "gate"

	// EventPolarizer records a (projective, non-unitary) polarizer filter.
	EventPolarizer = "polarizer"

	// EventShot records one measurement outcome.
	EventShot = "shot"
)

// Event is a single entry in a run trace. Fields are populated per type:
// prepare/gate/polarizer events carry the post-step probability snapshot,
// shot events carry the observed label and its Born probability.
//
// All probabilities are pre-formatted strings (see FormatProbability) so the
// canonical serialization never touches floats.
type Event struct {
	// Seq is the logical-clock stamp. Strictly increasing within a trace.
	Seq int64

	// Type is one of the Event* constants.
	Type string

	// Gate describes the applied gate ("beam_splitter(transmission=0.500000)").
	// Gate and polarizer events only.
	Gate string

	// Label is the observed outcome (shot) or the pass label (polarizer).
	Label string

	// Shot is the zero-based shot index. Shot events only.
	Shot int64

	// Probability is the Born probability of the observed label. Shot events only.
	Probability string

	// Probabilities is the per-label probability snapshot after the step.
	// Prepare, gate, and polarizer events only.
	Probabilities map[string]string
}

// Trace is the ordered event log of one experiment run.
type Trace []Event

// Snapshot pairs a trace with its run identity for serialization.
type Snapshot struct {
	Name   string
	Token  string
	Events Trace
}

// FormatProbability renders a probability with six decimals, the fixed
// precision used everywhere a probability enters a trace.
func FormatProbability(p float64) string {
	return fmt.Sprintf("%.6f", p)
}

// toCanonicalMap converts an Event to the map form canonical marshaling
// understands, omitting unset fields.
func (e Event) toCanonicalMap() map[string]any {
	m := map[string]any{
		"seq":  e.Seq,
		"type": e.Type,
	}
	if e.Gate != "" {
		m["gate"] = e.Gate
	}
	if e.Label != "" {
		m["label"] = e.Label
	}
	if e.Type == EventShot {
		m["shot"] = e.Shot
	}
	if e.Probability != "" {
		m["probability"] = e.Probability
	}
	if e.Probabilities != nil {
		probs := make(map[string]any, len(e.Probabilities))
		for label, p := range e.Probabilities {
			probs[label] = p
		}
		m["probabilities"] = probs
	}
	return m
}

// MarshalCanonical serializes the snapshot to canonical JSON.
func (s *Snapshot) MarshalCanonical() ([]byte, error) {
	events := make([]any, len(s.Events))
	for i, e := range s.Events {
		events[i] = e.toCanonicalMap()
	}
	return MarshalCanonical(map[string]any{
		"name":   s.Name,
		"token":  s.Token,
		"events": events,
	})
}

// Fingerprint returns the hex SHA-256 of the trace's canonical JSON,
// computed without the run token so that two runs of the same experiment
// with the same outcomes fingerprint identically.
func (t Trace) Fingerprint() (string, error) {
	events := make([]any, len(t))
	for i, e := range t {
		events[i] = e.toCanonicalMap()
	}
	data, err := MarshalCanonical(map[string]any{"events": events})
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
