package experiment

import (
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agomlabs/psikit/internal/quantum"
	"github.com/agomlabs/psikit/internal/testutil"
	"github.com/agomlabs/psikit/internal/trace"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func photonicDefinition(shots int) *Definition {
	return &Definition{
		Name:    "photonic-qubit",
		Basis:   []string{"Transmission", "Reflection"},
		Initial: []Amplitude{{Re: 1}, {}},
		Steps: []Step{
			{BeamSplitter: &BeamSplitterStep{Transmission: 0.5}},
		},
		Shots: shots,
	}
}

func TestRunner_DeterministicTrace(t *testing.T) {
	def := photonicDefinition(2)
	runner := NewRunner(testutil.NewFixedTokenGenerator("run-a"), quietLogger())

	// Draws 0.25 and 0.75 land in the Transmission and Reflection halves of
	// the cumulative distribution.
	result, err := runner.Run(def, testutil.NewSequenceSource(0.25, 0.75))
	require.NoError(t, err)

	assert.Equal(t, "run-a", result.Token)
	require.Len(t, result.Events, 4) // prepare, gate, 2 shots

	assert.Equal(t, trace.EventPrepare, result.Events[0].Type)
	assert.Equal(t, trace.EventGate, result.Events[1].Type)
	assert.Equal(t, "beam_splitter(transmission=0.500000)", result.Events[1].Gate)

	assert.Equal(t, "Transmission", result.Events[2].Label)
	assert.Equal(t, "Reflection", result.Events[3].Label)
	assert.Equal(t, map[string]int{"Transmission": 1, "Reflection": 1}, result.Counts)
}

func TestRunner_SeqStrictlyIncreasing(t *testing.T) {
	def := photonicDefinition(5)
	runner := NewRunner(testutil.NewFixedTokenGenerator("run-seq"), quietLogger())

	result, err := runner.Run(def, testutil.NewSequenceSource(0.1))
	require.NoError(t, err)

	var last int64
	for _, e := range result.Events {
		assert.Greater(t, e.Seq, last)
		last = e.Seq
	}
}

func TestRunner_SameSeedSameFingerprint(t *testing.T) {
	def := photonicDefinition(50)
	def.Seed = 7

	first, err := NewRunner(nil, quietLogger()).Run(def, nil)
	require.NoError(t, err)
	second, err := NewRunner(nil, quietLogger()).Run(def, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.Equal(t, first.Counts, second.Counts)
	assert.NotEqual(t, first.Token, second.Token, "tokens are per-run even when outcomes repeat")
}

func TestRunner_ZeroSeedIsRecorded(t *testing.T) {
	def := photonicDefinition(1)
	runner := NewRunner(nil, quietLogger())

	result, err := runner.Run(def, nil)
	require.NoError(t, err)
	assert.NotZero(t, result.Seed, "clock-derived seed must be recorded for replay")
}

func TestRunner_DefaultTokenIsUUID(t *testing.T) {
	def := photonicDefinition(1)
	runner := NewRunner(nil, quietLogger())

	result, err := runner.Run(def, testutil.NewSequenceSource(0.1))
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`), result.Token)
}

func TestRunner_PolarizerStep(t *testing.T) {
	def := photonicDefinition(3)
	def.Steps = append(def.Steps, Step{Polarizer: &PolarizerStep{Pass: "Transmission"}})
	runner := NewRunner(testutil.NewFixedTokenGenerator("run-pol"), quietLogger())

	result, err := runner.Run(def, testutil.NewSequenceSource(0.99))
	require.NoError(t, err)

	// After the polarizer the photon is certainly in the pass path.
	assert.InDelta(t, 1.0, result.Predicted["Transmission"], 1e-9)
	assert.Equal(t, map[string]int{"Transmission": 3}, result.Counts)

	polEvent := result.Events[2]
	assert.Equal(t, trace.EventPolarizer, polEvent.Type)
	assert.Equal(t, "Transmission", polEvent.Label)
}

func TestRunner_PolarizerBlocksPhoton(t *testing.T) {
	def := photonicDefinition(1)
	def.Steps = []Step{
		{BeamSplitter: &BeamSplitterStep{Transmission: 1.0}},
		{Polarizer: &PolarizerStep{Pass: "Reflection"}},
	}
	runner := NewRunner(nil, quietLogger())

	_, err := runner.Run(def, testutil.NewSequenceSource(0.5))
	require.Error(t, err)
	assert.True(t, quantum.IsZeroState(err))
}

func TestRunner_CustomGate(t *testing.T) {
	def := photonicDefinition(2)
	// Pauli-X: swap the two paths.
	def.Steps = []Step{{Custom: &CustomStep{
		Matrix: [][]Amplitude{
			{{}, {Re: 1}},
			{{Re: 1}, {}},
		},
	}}}
	runner := NewRunner(testutil.NewFixedTokenGenerator("run-x"), quietLogger())

	result, err := runner.Run(def, testutil.NewSequenceSource(0.5))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, result.Predicted["Reflection"], 1e-9)
	assert.Equal(t, "custom(2x2)", result.Events[1].Gate)
}

func TestRunner_CustomGateNonUnitary(t *testing.T) {
	def := photonicDefinition(1)
	def.Steps = []Step{{Custom: &CustomStep{
		Matrix: [][]Amplitude{
			{{Re: 1}, {Re: 1}},
			{{}, {Re: 1}},
		},
	}}}
	runner := NewRunner(nil, quietLogger())

	_, err := runner.Run(def, testutil.NewSequenceSource(0.5))
	require.Error(t, err)
	assert.True(t, quantum.IsNonUnitary(err))
}

func TestRunner_IdentityStep(t *testing.T) {
	def := photonicDefinition(1)
	def.Steps = []Step{{Identity: true}}
	runner := NewRunner(testutil.NewFixedTokenGenerator("run-id"), quietLogger())

	result, err := runner.Run(def, testutil.NewSequenceSource(0.1))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, result.Predicted["Transmission"], 1e-9)
	assert.Equal(t, "identity", result.Events[1].Gate)
}

func TestRunner_RejectsInvalidDefinition(t *testing.T) {
	def := photonicDefinition(0) // shots must be positive
	runner := NewRunner(nil, quietLogger())

	_, err := runner.Run(def, testutil.NewSequenceSource(0.1))
	assert.Error(t, err)
}

func TestRunner_FrequenciesSumToOne(t *testing.T) {
	def := photonicDefinition(1000)
	def.Seed = 3
	runner := NewRunner(nil, quietLogger())

	result, err := runner.Run(def, nil)
	require.NoError(t, err)

	var total float64
	for _, f := range result.Frequencies {
		total += f
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}
