package harness

import (
	"fmt"

	"github.com/agomlabs/psikit/internal/experiment"
	"github.com/agomlabs/psikit/internal/trace"
)

// EvaluateAssertions checks every assertion against the run result and
// returns one message per failure. An empty slice means all assertions held.
func EvaluateAssertions(run *experiment.Result, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		var msg string
		switch a.Type {
		case AssertCounts:
			msg = evaluateCounts(run, &a)
		case AssertPredicted:
			msg = evaluatePredicted(run, &a)
		case AssertOutcomes:
			msg = evaluateOutcomes(run, &a)
		case AssertFingerprint:
			msg = evaluateFingerprint(run, &a)
		default:
			// LoadScenario rejects unknown types; catch hand-built scenarios.
			msg = fmt.Sprintf("unknown assertion type %q", a.Type)
		}
		if msg != "" {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %s", i, msg))
		}
	}
	return failures
}

// evaluateCounts checks observed outcome counts for the listed labels.
func evaluateCounts(run *experiment.Result, a *Assertion) string {
	for label, want := range a.Counts {
		if got := run.Counts[label]; got != want {
			return fmt.Sprintf("counts: label %q observed %d times, want %d", label, got, want)
		}
	}
	return ""
}

// evaluatePredicted checks one label's Born probability in the evolved
// state, at the fixed six-decimal precision traces use.
func evaluatePredicted(run *experiment.Result, a *Assertion) string {
	p, ok := run.Predicted[a.Label]
	if !ok {
		return fmt.Sprintf("predicted: label %q is not in the basis", a.Label)
	}
	if got := trace.FormatProbability(p); got != a.Probability {
		return fmt.Sprintf("predicted: label %q has probability %s, want %s", a.Label, got, a.Probability)
	}
	return ""
}

// evaluateOutcomes checks the exact shot-by-shot outcome sequence.
func evaluateOutcomes(run *experiment.Result, a *Assertion) string {
	var observed []string
	for _, e := range run.Events {
		if e.Type == trace.EventShot {
			observed = append(observed, e.Label)
		}
	}
	if len(observed) != len(a.Labels) {
		return fmt.Sprintf("outcomes: %d shots observed, want %d", len(observed), len(a.Labels))
	}
	for i, want := range a.Labels {
		if observed[i] != want {
			return fmt.Sprintf("outcomes: shot %d observed %q, want %q", i, observed[i], want)
		}
	}
	return ""
}

// evaluateFingerprint checks the trace fingerprint.
func evaluateFingerprint(run *experiment.Result, a *Assertion) string {
	if run.Fingerprint != a.Fingerprint {
		return fmt.Sprintf("fingerprint: got %s, want %s", run.Fingerprint, a.Fingerprint)
	}
	return ""
}
