package experiment

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/agomlabs/psikit/internal/quantum"
	"github.com/agomlabs/psikit/internal/trace"
)

// Result is the outcome of one experiment run.
type Result struct {
	// Token identifies the run (UUIDv7 unless a generator was injected).
	Token string

	// Name is the experiment name from the definition.
	Name string

	// Seed is the seed that drove the measurement source. Recorded even when
	// the definition left it to the clock, so every run can be replayed.
	Seed int64

	// Shots is the number of measurements taken.
	Shots int

	// Basis is the ordered basis of the experiment.
	Basis []string

	// Predicted maps each label to its Born probability in the evolved
	// (pre-measurement) state.
	Predicted map[string]float64

	// Counts maps each observed label to its occurrence count.
	Counts map[string]int

	// Frequencies maps each observed label to its empirical frequency.
	Frequencies map[string]float64

	// Final is the evolved pre-measurement state.
	Final *quantum.StateVector

	// Events is the ordered trace of the run.
	Events trace.Trace

	// Fingerprint is the content hash of Events. Equal fingerprints mean
	// byte-identical runs; replay compares against it.
	Fingerprint string
}

// Runner executes experiment definitions against the quantum core.
type Runner struct {
	tokens TokenGenerator
	logger *slog.Logger
}

// NewRunner creates a runner. A nil tokens generator defaults to UUIDv7; a
// nil logger defaults to slog.Default().
func NewRunner(tokens TokenGenerator, logger *slog.Logger) *Runner {
	if tokens == nil {
		tokens = UUIDv7Generator{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{tokens: tokens, logger: logger}
}

// Run executes the definition: prepare, evolve through the steps, then take
// def.Shots independent measurements of the evolved state, all drawn from
// one random source.
//
// When src is nil, the runner builds a seeded source from def.Seed (zero
// seed: derived from the wall clock). The effective seed is recorded in the
// Result either way. An injected src makes the run fully deterministic; the
// harness uses that for golden traces.
func (r *Runner) Run(def *Definition, src quantum.Source) (*Result, error) {
	if errs := Validate(def); len(errs) > 0 {
		return nil, fmt.Errorf("invalid experiment %q: %w", def.Name, errs[0])
	}

	seed := def.Seed
	if src == nil {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		src = quantum.NewSeededSource(seed)
	}

	r.logger.Info("running experiment", "name", def.Name, "shots", def.Shots, "seed", seed)

	amps := make([]complex128, len(def.Initial))
	for i, a := range def.Initial {
		amps[i] = a.Complex()
	}
	state, err := quantum.NewState(def.Basis, amps)
	if err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}

	clock := NewClock()
	events := trace.Trace{{
		Seq:           clock.Next(),
		Type:          trace.EventPrepare,
		Probabilities: probabilitySnapshot(state),
	}}

	for i, step := range def.Steps {
		state, err = r.applyStep(def, step, state, clock, &events)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}

	counts := make(map[string]int, len(def.Basis))
	for shot := 0; shot < def.Shots; shot++ {
		outcome, err := quantum.Measure(state, src)
		if err != nil {
			return nil, fmt.Errorf("shot %d: %w", shot, err)
		}
		counts[outcome.Label]++
		events = append(events, trace.Event{
			Seq:         clock.Next(),
			Type:        trace.EventShot,
			Shot:        int64(shot),
			Label:       outcome.Label,
			Probability: trace.FormatProbability(outcome.Probability),
		})
	}

	frequencies := make(map[string]float64, len(counts))
	for label, n := range counts {
		frequencies[label] = float64(n) / float64(def.Shots)
	}

	fingerprint, err := events.Fingerprint()
	if err != nil {
		return nil, fmt.Errorf("fingerprint: %w", err)
	}

	result := &Result{
		Token:       r.tokens.Generate(),
		Name:        def.Name,
		Seed:        seed,
		Shots:       def.Shots,
		Basis:       append([]string(nil), def.Basis...),
		Predicted:   state.ProbabilityMap(),
		Counts:      counts,
		Frequencies: frequencies,
		Final:       state,
		Events:      events,
		Fingerprint: fingerprint,
	}

	r.logger.Info("experiment complete",
		"name", def.Name, "token", result.Token, "fingerprint", fingerprint[:12])
	return result, nil
}

// applyStep evolves the state through one optical element and appends the
// matching trace event.
func (r *Runner) applyStep(def *Definition, step Step, state *quantum.StateVector, clock *Clock, events *trace.Trace) (*quantum.StateVector, error) {
	switch step.Kind() {
	case "beam_splitter":
		bs := step.BeamSplitter
		transmitted, reflected := bs.Transmitted, bs.Reflected
		if transmitted == "" && reflected == "" {
			transmitted, reflected = def.Basis[0], def.Basis[1]
		}
		op, err := quantum.BeamSplitter(bs.Transmission, transmitted, reflected)
		if err != nil {
			return nil, err
		}
		next, err := op.Apply(state)
		if err != nil {
			return nil, err
		}
		desc := fmt.Sprintf("beam_splitter(transmission=%.6f)", bs.Transmission)
		r.logger.Debug("applied gate", "gate", desc)
		*events = append(*events, trace.Event{
			Seq:           clock.Next(),
			Type:          trace.EventGate,
			Gate:          desc,
			Probabilities: probabilitySnapshot(next),
		})
		return next, nil

	case "polarizer":
		next, err := quantum.Polarize(state, step.Polarizer.Pass)
		if err != nil {
			return nil, err
		}
		r.logger.Debug("applied polarizer", "pass", step.Polarizer.Pass)
		*events = append(*events, trace.Event{
			Seq:           clock.Next(),
			Type:          trace.EventPolarizer,
			Label:         step.Polarizer.Pass,
			Probabilities: probabilitySnapshot(next),
		})
		return next, nil

	case "custom":
		c := step.Custom
		labels := c.Labels
		if len(labels) == 0 {
			labels = def.Basis
		}
		matrix := make([][]complex128, len(c.Matrix))
		for i, row := range c.Matrix {
			matrix[i] = make([]complex128, len(row))
			for j, a := range row {
				matrix[i][j] = a.Complex()
			}
		}
		op, err := quantum.NewOperator(matrix, labels)
		if err != nil {
			return nil, err
		}
		next, err := op.Apply(state)
		if err != nil {
			return nil, err
		}
		desc := fmt.Sprintf("custom(%dx%d)", op.Dim(), op.Dim())
		r.logger.Debug("applied gate", "gate", desc)
		*events = append(*events, trace.Event{
			Seq:           clock.Next(),
			Type:          trace.EventGate,
			Gate:          desc,
			Probabilities: probabilitySnapshot(next),
		})
		return next, nil

	case "identity":
		op, err := quantum.Identity(def.Basis)
		if err != nil {
			return nil, err
		}
		next, err := op.Apply(state)
		if err != nil {
			return nil, err
		}
		*events = append(*events, trace.Event{
			Seq:           clock.Next(),
			Type:          trace.EventGate,
			Gate:          "identity",
			Probabilities: probabilitySnapshot(next),
		})
		return next, nil

	default:
		return nil, fmt.Errorf("step must set exactly one of beam_splitter, polarizer, custom, identity")
	}
}

// probabilitySnapshot formats the state's Born probabilities for a trace
// event.
func probabilitySnapshot(s *quantum.StateVector) map[string]string {
	labels := s.Labels()
	probs := s.Probabilities()
	snapshot := make(map[string]string, len(labels))
	for i, label := range labels {
		snapshot[label] = trace.FormatProbability(probs[i])
	}
	return snapshot
}
