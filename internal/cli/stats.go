package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agomlabs/psikit/internal/experiment"
	"github.com/agomlabs/psikit/internal/store"
	"github.com/agomlabs/psikit/internal/trace"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
	Database string
}

// StatsReport is the stats command's payload.
type StatsReport struct {
	Token       string             `json:"token"`
	Name        string             `json:"name"`
	Shots       int                `json:"shots"`
	Predicted   map[string]float64 `json:"predicted"`
	Counts      map[string]int     `json:"counts"`
	Frequencies map[string]float64 `json:"frequencies"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "stats <run-token>",
		Short:         "Compare a recorded run's outcome frequencies to the Born prediction",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runStats(opts *StatsOptions, token string, cmd *cobra.Command) error {
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
	counts, err := st.Counts(cmd.Context(), token)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load shot counts", err)
	}

	// The store keeps outcomes, not states; recompute the prediction from
	// the recorded definition.
	def, err := experiment.Parse("recorded.yaml", []byte(rec.Definition))
	if err != nil {
		return WrapExitError(ExitCommandError, "recorded definition no longer parses", err)
	}
	predicted, basis, err := predictedDistribution(def)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to evolve recorded definition", err)
	}

	frequencies := make(map[string]float64, len(counts))
	for label, n := range counts {
		frequencies[label] = float64(n) / float64(rec.Shots)
	}

	report := StatsReport{
		Token:       rec.Token,
		Name:        rec.Name,
		Shots:       rec.Shots,
		Predicted:   predicted,
		Counts:      counts,
		Frequencies: frequencies,
	}

	if opts.Format == "json" {
		return formatter.Success(report)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  (run %s, %d shots)\n", rec.Name, rec.Token, rec.Shots)
	for _, label := range basis {
		fmt.Fprintf(&b, "  %-16s predicted=%s observed=%d (%s)\n",
			label,
			trace.FormatProbability(predicted[label]),
			counts[label],
			trace.FormatProbability(frequencies[label]))
	}
	return formatter.Success(strings.TrimRight(b.String(), "\n"))
}
