package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const photonicQubitYAML = `name: photonic-qubit
description: single photon on a 50/50 beam splitter
basis: [Transmission, Reflection]
initial: [1, 0]
steps:
  - beam_splitter:
      transmission: 0.5
shots: 64
seed: 42
`

// writeExperiment writes an experiment file into a temp dir and returns its
// path.
func writeExperiment(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "experiment.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// decodeRunReport unpacks a JSON-mode run response.
func decodeRunReport(t *testing.T, buf *bytes.Buffer) RunReport {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var report RunReport
	require.NoError(t, json.Unmarshal(data, &report))
	return report
}

// recordRun executes the run command against a fresh database and returns
// the run token and database path. extraArgs are appended to the command
// line (e.g. "--shots", "16").
func recordRun(t *testing.T, experimentYAML string, extraArgs ...string) (string, string) {
	t.Helper()
	path := writeExperiment(t, experimentYAML)
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewRunCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs(append([]string{path, "--db", dbPath}, extraArgs...))
	require.NoError(t, cmd.Execute())

	report := decodeRunReport(t, buf)
	require.True(t, report.Recorded)
	return report.Token, dbPath
}
