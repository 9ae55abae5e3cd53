package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agomlabs/psikit/internal/experiment"
	"github.com/agomlabs/psikit/internal/store"
	"github.com/agomlabs/psikit/internal/trace"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
	Seed     int64
	Shots    int

	// Tokens overrides the run token generator (for testing).
	Tokens experiment.TokenGenerator
}

// RunReport is the run command's success payload.
type RunReport struct {
	Token       string             `json:"token"`
	Name        string             `json:"name"`
	Seed        int64              `json:"seed"`
	Shots       int                `json:"shots"`
	Predicted   map[string]float64 `json:"predicted"`
	Counts      map[string]int     `json:"counts"`
	Frequencies map[string]float64 `json:"frequencies"`
	Fingerprint string             `json:"fingerprint"`
	Recorded    bool               `json:"recorded"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <experiment.yaml>",
		Short: "Run an experiment and report measurement outcomes",
		Long: `Validate an experiment file, run it, and report the sampled outcomes.

With --db the run is recorded (definition, seed, trace, and per-shot
outcomes), which enables later replay, stats, and plot commands.

Example:
  psikit run experiments/photonic-qubit.yaml
  psikit run experiments/photonic-qubit.yaml --db runs.db --shots 10000`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExperiment(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run database (optional)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "override the experiment's seed")
	cmd.Flags().IntVar(&opts.Shots, "shots", 0, "override the experiment's shot count")

	return cmd
}

func runExperiment(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	data, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read experiment file", err)
	}
	def, err := experiment.Parse(path, data)
	if err != nil {
		return WrapExitError(ExitFailure, "invalid experiment", err)
	}

	if opts.Seed != 0 {
		def.Seed = opts.Seed
	}
	if opts.Shots != 0 {
		def.Shots = opts.Shots
	}

	runner := experiment.NewRunner(opts.Tokens, slog.Default())
	result, err := runner.Run(def, nil)
	if err != nil {
		return WrapExitError(ExitFailure, "experiment failed", err)
	}

	recorded := false
	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer st.Close()
		if err := st.WriteRun(cmd.Context(), result, data); err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		recorded = true
	}

	report := RunReport{
		Token:       result.Token,
		Name:        result.Name,
		Seed:        result.Seed,
		Shots:       result.Shots,
		Predicted:   result.Predicted,
		Counts:      result.Counts,
		Frequencies: result.Frequencies,
		Fingerprint: result.Fingerprint,
		Recorded:    recorded,
	}

	if opts.Format == "json" {
		return formatter.Success(report)
	}
	return formatter.Success(formatRunReport(result.Basis, report))
}

// formatRunReport renders the text view: one line per basis label, in the
// definition's basis order, with predicted probability, observed count, and
// frequency.
func formatRunReport(basis []string, r RunReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  (run %s)\n", r.Name, r.Token)
	fmt.Fprintf(&b, "seed=%d shots=%d fingerprint=%s\n", r.Seed, r.Shots, r.Fingerprint[:12])

	for _, label := range basis {
		fmt.Fprintf(&b, "  %-16s predicted=%s observed=%d (%s)\n",
			label,
			trace.FormatProbability(r.Predicted[label]),
			r.Counts[label],
			trace.FormatProbability(r.Frequencies[label]))
	}
	if r.Recorded {
		b.WriteString("recorded")
	} else {
		b.WriteString("not recorded (no --db)")
	}
	return b.String()
}
