package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agomlabs/psikit/internal/experiment"
	"github.com/agomlabs/psikit/internal/quantum"
	"github.com/agomlabs/psikit/internal/render"
	"github.com/agomlabs/psikit/internal/store"
)

// PlotOptions holds flags for the plot command.
type PlotOptions struct {
	*RootOptions
	Database string
	Output   string
}

// NewPlotCommand creates the plot command.
func NewPlotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plot <run-token>",
		Short: "Render a recorded run as a probability histogram",
		Long: `Render the predicted Born probabilities of a recorded run against its
observed outcome frequencies as a grouped bar chart. The output format
follows the file extension (.png, .svg, .pdf).

Example:
  psikit plot 0190d3a0-5b7a-7cc3-bd1e-f2a8c41922aa --db runs.db -o hist.png`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run database (required)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "histogram.png", "output image path")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runPlot(opts *PlotOptions, token string, cmd *cobra.Command) error {
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

	// Recompute the predicted distribution by evolving the recorded
	// definition without measuring; the store keeps outcomes, not states.
	def, err := experiment.Parse("recorded.yaml", []byte(rec.Definition))
	if err != nil {
		return WrapExitError(ExitCommandError, "recorded definition no longer parses", err)
	}
	predicted, basis, err := predictedDistribution(def)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to evolve recorded definition", err)
	}

	if err := render.Histogram(rec.Name, basis, predicted, counts, rec.Shots, opts.Output); err != nil {
		return WrapExitError(ExitCommandError, "failed to render histogram", err)
	}

	return formatter.Success(fmt.Sprintf("wrote %s", opts.Output))
}

// predictedDistribution evolves the definition's prepared state through its
// steps and returns the Born probabilities of the pre-measurement state.
func predictedDistribution(def *experiment.Definition) (map[string]float64, []string, error) {
	// One-shot run with a source that is never consulted beyond sampling;
	// the predicted map comes from the evolved state, not the shots.
	probe := *def
	probe.Shots = 1
	probe.Seed = 1

	runner := experiment.NewRunner(nil, nil)
	result, err := runner.Run(&probe, quantum.NewSeededSource(1))
	if err != nil {
		return nil, nil, err
	}
	return result.Predicted, result.Basis, nil
}
