package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/agomlabs/psikit/internal/trace"
)

// RunWithGolden executes a scenario and compares its trace snapshot against
// the golden file testdata/golden/{scenario.Name}.golden.
//
// The snapshot is canonical JSON, so the comparison is byte-exact. To
// regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Assertion failures inside the scenario are reported through the returned
// Result, not the golden comparison.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	snapshot := trace.Snapshot{
		Name:   scenario.Name,
		Token:  scenario.Token,
		Events: result.Run.Events,
	}
	data, err := snapshot.MarshalCanonical()
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return result, nil
}
