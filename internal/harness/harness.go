package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/agomlabs/psikit/internal/experiment"
	"github.com/agomlabs/psikit/internal/testutil"
)

// Result is the outcome of running one scenario.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool

	// Errors lists the assertion failures, in assertion order.
	Errors []string

	// Run is the underlying experiment result, for golden serialization and
	// further inspection.
	Run *experiment.Result
}

// AddError records an assertion failure and marks the result failed.
func (r *Result) AddError(msg string) {
	r.Pass = false
	r.Errors = append(r.Errors, msg)
}

// Run executes a scenario and evaluates its assertions.
//
// The experiment runs with a fixed token and the scenario's pinned draw
// sequence, so two invocations produce byte-identical traces. Engine logs
// are suppressed.
func Run(scenario *Scenario) (*Result, error) {
	def, err := experiment.Load(scenario.Experiment)
	if err != nil {
		return nil, fmt.Errorf("failed to load experiment: %w", err)
	}

	tokens := testutil.NewFixedTokenGenerator(scenario.Token)
	src := testutil.NewSequenceSource(scenario.Draws...)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	runner := experiment.NewRunner(tokens, logger)
	run, err := runner.Run(def, src)
	if err != nil {
		return nil, fmt.Errorf("failed to run experiment: %w", err)
	}

	result := &Result{Pass: true, Run: run}
	for _, msg := range EvaluateAssertions(run, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}
