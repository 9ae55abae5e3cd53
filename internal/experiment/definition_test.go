package experiment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const photonicQubitYAML = `
name: photonic-qubit
description: Prepare |0>, split 50/50, filter, measure.
basis: [Transmission, Reflection]
initial: [1, 0]
steps:
  - beam_splitter:
      transmission: 0.5
  - polarizer:
      pass: Transmission
shots: 100
seed: 42
`

func writeExperiment(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "experiment.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_PhotonicQubit(t *testing.T) {
	def, err := Load(writeExperiment(t, photonicQubitYAML))
	require.NoError(t, err)

	assert.Equal(t, "photonic-qubit", def.Name)
	assert.Equal(t, []string{"Transmission", "Reflection"}, def.Basis)
	require.Len(t, def.Initial, 2)
	assert.Equal(t, complex128(1), def.Initial[0].Complex())
	require.Len(t, def.Steps, 2)
	assert.Equal(t, "beam_splitter", def.Steps[0].Kind())
	assert.Equal(t, 0.5, def.Steps[0].BeamSplitter.Transmission)
	assert.Equal(t, "polarizer", def.Steps[1].Kind())
	assert.Equal(t, 100, def.Shots)
	assert.Equal(t, int64(42), def.Seed)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse("bad.yaml", []byte(`
name: typo
basis: [A]
initial: [1]
shotz: 10
`))
	assert.Error(t, err)
}

func TestAmplitude_ScalarForm(t *testing.T) {
	var a Amplitude
	require.NoError(t, yaml.Unmarshal([]byte(`0.75`), &a))
	assert.Equal(t, complex(0.75, 0), a.Complex())
}

func TestAmplitude_MappingForm(t *testing.T) {
	var a Amplitude
	require.NoError(t, yaml.Unmarshal([]byte(`{re: 0.5, im: -0.5}`), &a))
	assert.Equal(t, complex(0.5, -0.5), a.Complex())
}

func TestAmplitude_ImaginaryOnly(t *testing.T) {
	var a Amplitude
	require.NoError(t, yaml.Unmarshal([]byte(`{im: 1}`), &a))
	assert.Equal(t, complex(0, 1), a.Complex())
}

func TestAmplitude_RejectsNonNumeric(t *testing.T) {
	var a Amplitude
	assert.Error(t, yaml.Unmarshal([]byte(`"one"`), &a))
}

func TestStep_Kind(t *testing.T) {
	assert.Equal(t, "", Step{}.Kind())
	assert.Equal(t, "identity", Step{Identity: true}.Kind())
	assert.Equal(t, "", Step{Identity: true, Polarizer: &PolarizerStep{Pass: "A"}}.Kind())
	assert.Equal(t, "custom", Step{Custom: &CustomStep{}}.Kind())
}
