package experiment

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var schemaCUE string

// Validation error codes.
const (
	ErrCodeYAMLSyntax = "YAML_SYNTAX"
	ErrCodeSchema     = "SCHEMA"
	ErrCodeSemantic   = "SEMANTIC"
)

// ValidationError describes one problem found in an experiment definition.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// ValidateYAML checks raw experiment YAML against the embedded CUE schema.
// Returns all errors found (does not fail fast). The filename feeds CUE
// error positions only; the file is not read.
func ValidateYAML(filename string, data []byte) []ValidationError {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		// The schema is embedded; failing to compile it is a build defect.
		return []ValidationError{{Code: ErrCodeSchema, Message: fmt.Sprintf("internal schema error: %v", err)}}
	}

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return []ValidationError{{Code: ErrCodeYAMLSyntax, Message: err.Error()}}
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return []ValidationError{{Code: ErrCodeYAMLSyntax, Message: err.Error()}}
	}

	unified := schema.LookupPath(cue.ParsePath("#Experiment")).Unify(doc)
	if err := unified.Validate(cue.Concrete(true), cue.Final()); err != nil {
		var errs []ValidationError
		for _, e := range cueerrors.Errors(err) {
			errs = append(errs, ValidationError{
				Field:   strings.Join(e.Path(), "."),
				Message: e.Error(),
				Code:    ErrCodeSchema,
			})
		}
		return errs
	}
	return nil
}

// Validate applies the semantic rules the CUE schema cannot express:
// cross-field sizes, label references, and step shape. Returns all errors
// found.
func Validate(def *Definition) []ValidationError {
	var errs []ValidationError
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Code: ErrCodeSemantic})
	}

	if def.Name == "" {
		add("name", "experiment name is required")
	}
	if len(def.Basis) == 0 {
		add("basis", "at least one basis label is required")
	}
	seen := make(map[string]struct{}, len(def.Basis))
	for i, label := range def.Basis {
		if label == "" {
			add("basis", "label %d is empty", i)
		}
		if _, dup := seen[label]; dup {
			add("basis", "duplicate label %q", label)
		}
		seen[label] = struct{}{}
	}
	inBasis := func(label string) bool {
		_, ok := seen[label]
		return ok
	}

	if len(def.Initial) != len(def.Basis) {
		add("initial", "%d amplitudes for %d basis labels", len(def.Initial), len(def.Basis))
	}
	if def.Shots <= 0 {
		add("shots", "must be positive, got %d", def.Shots)
	}

	for i, step := range def.Steps {
		field := fmt.Sprintf("steps[%d]", i)
		switch step.Kind() {
		case "beam_splitter":
			bs := step.BeamSplitter
			if bs.Transmission < 0 || bs.Transmission > 1 {
				add(field+".beam_splitter.transmission", "must be in [0,1], got %v", bs.Transmission)
			}
			if bs.Transmitted == "" && bs.Reflected == "" && len(def.Basis) != 2 {
				add(field+".beam_splitter", "default path labels require a two-label basis, got %d labels", len(def.Basis))
			}
			if bs.Transmitted != "" && !inBasis(bs.Transmitted) {
				add(field+".beam_splitter.transmitted", "label %q is not in the basis", bs.Transmitted)
			}
			if bs.Reflected != "" && !inBasis(bs.Reflected) {
				add(field+".beam_splitter.reflected", "label %q is not in the basis", bs.Reflected)
			}
			if (bs.Transmitted == "") != (bs.Reflected == "") {
				add(field+".beam_splitter", "transmitted and reflected must be set together")
			}
		case "polarizer":
			if !inBasis(step.Polarizer.Pass) {
				add(field+".polarizer.pass", "label %q is not in the basis", step.Polarizer.Pass)
			}
		case "custom":
			c := step.Custom
			labels := c.Labels
			if len(labels) == 0 {
				labels = def.Basis
			}
			for _, label := range c.Labels {
				if !inBasis(label) {
					add(field+".custom.labels", "label %q is not in the basis", label)
				}
			}
			if len(c.Matrix) != len(labels) {
				add(field+".custom.matrix", "%d rows for %d labels", len(c.Matrix), len(labels))
			}
			for r, row := range c.Matrix {
				if len(row) != len(labels) {
					add(field+".custom.matrix", "row %d has %d columns, want %d", r, len(row), len(labels))
				}
			}
		case "identity":
			// No parameters.
		default:
			add(field, "step must set exactly one of beam_splitter, polarizer, custom, identity")
		}
	}

	return errs
}
