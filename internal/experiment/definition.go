package experiment

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Definition describes one experiment: the basis, the prepared state, an
// ordered sequence of optical elements, and how many measurement shots to
// take.
type Definition struct {
	// Name identifies the experiment in traces, stores, and golden files.
	Name string `yaml:"name"`

	// Description explains the setup. Not interpreted.
	Description string `yaml:"description,omitempty"`

	// Basis lists the ordered basis labels (e.g. Transmission, Reflection).
	Basis []string `yaml:"basis"`

	// Initial holds the prepared amplitudes, one per basis label. They are
	// normalized defensively by the core, so e.g. [1, 1] prepares an equal
	// superposition.
	Initial []Amplitude `yaml:"initial"`

	// Steps is the ordered element sequence applied before measurement.
	Steps []Step `yaml:"steps,omitempty"`

	// Shots is the number of independent measurements of the evolved state.
	Shots int `yaml:"shots"`

	// Seed selects the random source. Zero means "derive from wall clock";
	// the derived seed is recorded in the run result so the run stays
	// replayable.
	Seed int64 `yaml:"seed,omitempty"`
}

// Amplitude is one complex amplitude in an experiment file. YAML accepts
// either a bare number (real amplitude) or a {re, im} mapping.
type Amplitude struct {
	Re float64 `yaml:"re"`
	Im float64 `yaml:"im"`
}

// Complex converts to the core representation.
func (a Amplitude) Complex() complex128 { return complex(a.Re, a.Im) }

// UnmarshalYAML accepts scalar or mapping form.
func (a *Amplitude) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var f float64
		if err := value.Decode(&f); err != nil {
			return fmt.Errorf("amplitude must be a number or {re, im} mapping: %w", err)
		}
		a.Re, a.Im = f, 0
		return nil
	}
	type plain Amplitude
	var p plain
	if err := value.Decode(&p); err != nil {
		return fmt.Errorf("amplitude must be a number or {re, im} mapping: %w", err)
	}
	*a = Amplitude(p)
	return nil
}

// Step is one optical element. Exactly one of the fields must be set.
type Step struct {
	BeamSplitter *BeamSplitterStep `yaml:"beam_splitter,omitempty"`
	Polarizer    *PolarizerStep    `yaml:"polarizer,omitempty"`
	Custom       *CustomStep       `yaml:"custom,omitempty"`
	Identity     bool              `yaml:"identity,omitempty"`
}

// Kind returns the step discriminator, or "" when the step is empty or
// over-specified.
func (s Step) Kind() string {
	kinds := 0
	kind := ""
	if s.BeamSplitter != nil {
		kinds, kind = kinds+1, "beam_splitter"
	}
	if s.Polarizer != nil {
		kinds, kind = kinds+1, "polarizer"
	}
	if s.Custom != nil {
		kinds, kind = kinds+1, "custom"
	}
	if s.Identity {
		kinds, kind = kinds+1, "identity"
	}
	if kinds != 1 {
		return ""
	}
	return kind
}

// BeamSplitterStep configures a two-port beam splitter.
type BeamSplitterStep struct {
	// Transmission is the transmission probability in [0,1].
	Transmission float64 `yaml:"transmission"`

	// Transmitted and Reflected name the output path labels. When omitted
	// they default to the first two basis labels, in order.
	Transmitted string `yaml:"transmitted,omitempty"`
	Reflected   string `yaml:"reflected,omitempty"`
}

// PolarizerStep configures an ideal polarizer.
type PolarizerStep struct {
	// Pass is the basis label whose amplitude survives the filter.
	Pass string `yaml:"pass"`
}

// CustomStep supplies an arbitrary unitary matrix. The engine validates it
// exactly as for built-in gates.
type CustomStep struct {
	// Matrix is the square gate matrix, row-major.
	Matrix [][]Amplitude `yaml:"matrix"`

	// Labels names the matrix's domain. Defaults to the experiment basis.
	Labels []string `yaml:"labels,omitempty"`
}

// Load reads, schema-validates, and decodes an experiment file.
// Returns the first validation error encountered; use ValidateYAML to
// collect all of them.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read experiment file: %w", err)
	}
	return Parse(path, data)
}

// Parse validates raw YAML against the embedded CUE schema and the semantic
// rules, then decodes it. The filename is used for error positions only.
func Parse(filename string, data []byte) (*Definition, error) {
	if errs := ValidateYAML(filename, data); len(errs) > 0 {
		return nil, fmt.Errorf("invalid experiment: %w", errs[0])
	}

	var def Definition
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // reject typoed fields
	if err := decoder.Decode(&def); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if errs := Validate(&def); len(errs) > 0 {
		return nil, fmt.Errorf("invalid experiment: %w", errs[0])
	}
	return &def, nil
}
