// Package harness provides conformance testing for the experiment engine.
//
// The harness runs experiment definitions under fully pinned randomness and
// compares the resulting traces against assertions and golden files.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	experiment: path/to/experiment.yaml
//	token: test-run-0001
//	draws: [0.25, 0.75]
//	assertions:
//	  - type: counts
//	    counts: { Transmission: 1, Reflection: 1 }
//	  - type: predicted
//	    label: Transmission
//	    probability: "0.500000"
//	  - type: outcomes
//	    labels: [Transmission, Reflection]
//
// The experiment path is resolved relative to the scenario file. The draws
// list replaces the seeded random source: shot i consumes draw i (cycling
// when exhausted), so every measurement outcome is picked by hand and the
// trace is byte-stable.
//
// # Assertion Types
//
//   - counts: Verifies observed outcome counts for the listed labels
//   - predicted: Verifies one label's Born probability in the evolved state
//   - outcomes: Verifies the exact shot-by-shot outcome sequence
//   - fingerprint: Verifies the trace fingerprint
//
// # Golden Comparison
//
// RunWithGolden serializes the run's trace snapshot to canonical JSON and
// compares it against testdata/golden/{name}.golden via goldie. Regenerate
// with:
//
//	go test ./internal/harness -update
package harness
