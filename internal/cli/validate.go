package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/agomlabs/psikit/internal/experiment"
)

// Validation error code for file-level problems.
const ErrCodeNotFound = "NOT_FOUND"

// ValidationResult holds the validate command's payload.
type ValidationResult struct {
	Valid  bool                         `json:"valid"`
	Errors []experiment.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <experiment.yaml>",
		Short: "Validate an experiment file without running it",
		Long: `Check an experiment file against the schema and semantic rules:
basis/amplitude sizes, label references, step shape, parameter ranges.

Collects all errors rather than stopping at the first.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	data, err := os.ReadFile(path)
	if err != nil {
		if wErr := formatter.Failure(ErrCodeNotFound, err.Error(), nil); wErr != nil {
			return wErr
		}
		return NewExitError(ExitCommandError, "experiment file not found")
	}

	errs := experiment.ValidateYAML(path, data)
	if len(errs) == 0 {
		// The schema passed; collect the semantic errors too.
		var def experiment.Definition
		if yamlErr := yamlDecodeStrict(data, &def); yamlErr != nil {
			errs = append(errs, experiment.ValidationError{
				Code:    experiment.ErrCodeYAMLSyntax,
				Message: yamlErr.Error(),
			})
		} else {
			errs = append(errs, experiment.Validate(&def)...)
		}
	}

	result := ValidationResult{Valid: len(errs) == 0, Errors: errs}
	if result.Valid {
		if opts.Format == "json" {
			return formatter.Success(result)
		}
		return formatter.Success(fmt.Sprintf("%s: valid", path))
	}

	if opts.Format == "json" {
		if wErr := formatter.Success(result); wErr != nil {
			return wErr
		}
	} else {
		for _, e := range errs {
			fmt.Fprintln(cmd.OutOrStdout(), e.Error())
		}
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%d validation error(s)", len(errs)))
}

// yamlDecodeStrict decodes with unknown fields rejected, mirroring the
// loader's behavior.
func yamlDecodeStrict(data []byte, def *experiment.Definition) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	return decoder.Decode(def)
}
