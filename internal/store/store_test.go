package store

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agomlabs/psikit/internal/experiment"
	"github.com/agomlabs/psikit/internal/testutil"
)

const storedExperimentYAML = `name: photonic-qubit
basis: [Transmission, Reflection]
initial: [1, 0]
steps:
  - beam_splitter:
      transmission: 0.5
shots: 4
seed: 11
`

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "psikit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func runExperiment(t *testing.T, token string) *experiment.Result {
	t.Helper()
	def, err := experiment.Parse("stored.yaml", []byte(storedExperimentYAML))
	require.NoError(t, err)

	runner := experiment.NewRunner(
		testutil.NewFixedTokenGenerator(token),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	result, err := runner.Run(def, testutil.NewSequenceSource(0.1, 0.9, 0.2, 0.8))
	require.NoError(t, err)
	return result
}

func TestOpen_CreatesSchema(t *testing.T) {
	st := openTestStore(t)

	version, err := st.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "psikit.db")

	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	assert.NoError(t, st.Close())
}

func TestWriteRun_RoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	result := runExperiment(t, "run-rt")

	require.NoError(t, st.WriteRun(ctx, result, []byte(storedExperimentYAML)))

	rec, err := st.GetRun(ctx, "run-rt")
	require.NoError(t, err)
	assert.Equal(t, "photonic-qubit", rec.Name)
	assert.Equal(t, storedExperimentYAML, rec.Definition)
	assert.Equal(t, result.Seed, rec.Seed)
	assert.Equal(t, 4, rec.Shots)
	assert.Equal(t, result.Fingerprint, rec.Fingerprint)
	assert.NotEmpty(t, rec.Trace)
	assert.NotEmpty(t, rec.CreatedAt)
}

func TestWriteRun_Idempotent(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	result := runExperiment(t, "run-idem")

	require.NoError(t, st.WriteRun(ctx, result, []byte(storedExperimentYAML)))
	require.NoError(t, st.WriteRun(ctx, result, []byte(storedExperimentYAML)))

	counts, err := st.Counts(ctx, "run-idem")
	require.NoError(t, err)
	total := 0
	for _, n := range counts {
		total += n
	}
	assert.Equal(t, 4, total, "shots must not duplicate on re-write")
}

func TestCounts_MatchResult(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	result := runExperiment(t, "run-counts")

	require.NoError(t, st.WriteRun(ctx, result, []byte(storedExperimentYAML)))

	counts, err := st.Counts(ctx, "run-counts")
	require.NoError(t, err)
	assert.Equal(t, result.Counts, counts)
}

func TestGetRun_NotFound(t *testing.T) {
	st := openTestStore(t)

	_, err := st.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestCounts_UnknownRun(t *testing.T) {
	st := openTestStore(t)

	_, err := st.Counts(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestListRuns(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.WriteRun(ctx, runExperiment(t, "run-a"), []byte(storedExperimentYAML)))
	require.NoError(t, st.WriteRun(ctx, runExperiment(t, "run-b"), []byte(storedExperimentYAML)))

	runs, err := st.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-a", runs[0].Token)
	assert.Equal(t, "run-b", runs[1].Token)
}

func TestListRuns_Empty(t *testing.T) {
	st := openTestStore(t)

	runs, err := st.ListRuns(context.Background())
	require.NoError(t, err)
	assert.Empty(t, runs)
}
