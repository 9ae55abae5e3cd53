package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultToken is the run token used when a scenario does not pin one.
// A fixed default keeps golden files stable across runs.
const DefaultToken = "test-run-default"

// Scenario defines one conformance test: an experiment to run, the exact
// uniform draws the measurement source yields, and assertions on the result.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Experiment is the path to the experiment definition, relative to the
	// scenario file.
	Experiment string `yaml:"experiment"`

	// Token is an optional fixed run token. Defaults to DefaultToken.
	Token string `yaml:"token,omitempty"`

	// Draws is the uniform draw sequence fed to the measurement source.
	// Shot i consumes draw i, cycling when exhausted.
	Draws []float64 `yaml:"draws"`

	// Assertions validate the run result.
	// Supported types: counts, predicted, outcomes, fingerprint.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one aspect of a run result.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Counts maps labels to expected outcome counts (counts assertions).
	// Subset match: only the listed labels are checked.
	Counts map[string]int `yaml:"counts,omitempty"`

	// Label names the basis label under test (predicted assertions).
	Label string `yaml:"label,omitempty"`

	// Probability is the expected Born probability, formatted to six
	// decimals (predicted assertions).
	Probability string `yaml:"probability,omitempty"`

	// Labels is the expected shot-by-shot outcome sequence (outcomes
	// assertions). Exact match, one label per shot.
	Labels []string `yaml:"labels,omitempty"`

	// Fingerprint is the expected trace fingerprint (fingerprint assertions).
	Fingerprint string `yaml:"fingerprint,omitempty"`
}

// Assertion type constants.
const (
	AssertCounts      = "counts"
	AssertPredicted   = "predicted"
	AssertOutcomes    = "outcomes"
	AssertFingerprint = "fingerprint"
)

// LoadScenario reads and parses a scenario YAML file. The experiment path is
// resolved relative to the scenario file's directory. Returns an error if
// the file doesn't exist, is malformed, contains unknown fields (typos), or
// is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches typos like "assertion:" vs "assertions:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Experiment != "" && !filepath.IsAbs(scenario.Experiment) {
		scenario.Experiment = filepath.Join(filepath.Dir(path), scenario.Experiment)
	}
	if scenario.Token == "" {
		scenario.Token = DefaultToken
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Experiment == "" {
		return fmt.Errorf("experiment is required")
	}
	if _, err := os.Stat(s.Experiment); os.IsNotExist(err) {
		return fmt.Errorf("experiment file not found: %s", s.Experiment)
	}
	if len(s.Draws) == 0 {
		return fmt.Errorf("draws list is required and must be non-empty")
	}
	for i, u := range s.Draws {
		if u < 0 || u >= 1 {
			return fmt.Errorf("draws[%d]: %v is outside [0,1)", i, u)
		}
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertCounts:
		if len(a.Counts) == 0 {
			return fmt.Errorf("assertions[%d]: counts map is required for counts", index)
		}
	case AssertPredicted:
		if a.Label == "" {
			return fmt.Errorf("assertions[%d]: label is required for predicted", index)
		}
		if a.Probability == "" {
			return fmt.Errorf("assertions[%d]: probability is required for predicted", index)
		}
	case AssertOutcomes:
		if len(a.Labels) == 0 {
			return fmt.Errorf("assertions[%d]: labels list is required for outcomes", index)
		}
	case AssertFingerprint:
		if a.Fingerprint == "" {
			return fmt.Errorf("assertions[%d]: fingerprint is required for fingerprint", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
