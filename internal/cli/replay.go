package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/agomlabs/psikit/internal/experiment"
	"github.com/agomlabs/psikit/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
}

// ReplayReport is the replay command's payload.
type ReplayReport struct {
	Token         string `json:"token"`
	Name          string `json:"name"`
	Seed          int64  `json:"seed"`
	Recorded      string `json:"recorded_fingerprint"`
	Replayed      string `json:"replayed_fingerprint"`
	Deterministic bool   `json:"deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <run-token>",
		Short: "Re-run a recorded experiment and verify determinism",
		Long: `Load a recorded run, re-run its definition with the recorded seed, and
compare trace fingerprints. Matching fingerprints prove the run is
byte-for-byte reproducible; a mismatch exits non-zero.

Example:
  psikit replay 0190d3a0-5b7a-7cc3-bd1e-f2a8c41922aa --db runs.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runReplay(opts *ReplayOptions, token string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	rec, err := st.GetRun(cmd.Context(), token)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load run", err)
	}

	def, err := experiment.Parse("recorded.yaml", []byte(rec.Definition))
	if err != nil {
		return WrapExitError(ExitCommandError, "recorded definition no longer parses", err)
	}
	// Replay under the recorded seed and shot count, whatever the file said:
	// run may have overridden either flag, and the fingerprint hashes every
	// shot event.
	def.Seed = rec.Seed
	def.Shots = rec.Shots

	runner := experiment.NewRunner(nil, slog.Default())
	result, err := runner.Run(def, nil)
	if err != nil {
		return WrapExitError(ExitFailure, "replay failed", err)
	}

	report := ReplayReport{
		Token:         rec.Token,
		Name:          rec.Name,
		Seed:          rec.Seed,
		Recorded:      rec.Fingerprint,
		Replayed:      result.Fingerprint,
		Deterministic: result.Fingerprint == rec.Fingerprint,
	}

	if opts.Format == "json" {
		if wErr := formatter.Success(report); wErr != nil {
			return wErr
		}
	} else {
		status := "deterministic: fingerprints match"
		if !report.Deterministic {
			status = fmt.Sprintf("NON-DETERMINISTIC: recorded %s, replayed %s",
				report.Recorded[:12], report.Replayed[:12])
		}
		if wErr := formatter.Success(fmt.Sprintf("%s (run %s, seed %d)\n%s",
			rec.Name, rec.Token, rec.Seed, status)); wErr != nil {
			return wErr
		}
	}

	if !report.Deterministic {
		return NewExitError(ExitFailure, "replay fingerprint mismatch")
	}
	return nil
}
