// Package render draws experiment results. It is a read-only consumer of
// the engine: it sees predicted Born probabilities and observed counts,
// never a live StateVector, and mutates nothing.
package render

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// supported output formats, keyed by file extension.
var supportedFormats = map[string]bool{
	".png": true,
	".svg": true,
	".pdf": true,
}

// Histogram renders predicted probabilities against empirical frequencies as
// a grouped bar chart and saves it to path. The output format follows the
// file extension (.png, .svg, .pdf).
//
// labels fixes the bar order; predicted and counts are keyed by label, with
// missing labels drawn as zero. shots scales counts to frequencies.
func Histogram(title string, labels []string, predicted map[string]float64, counts map[string]int, shots int, path string) error {
	if len(labels) == 0 {
		return fmt.Errorf("histogram needs at least one label")
	}
	if shots <= 0 {
		return fmt.Errorf("histogram needs a positive shot count, got %d", shots)
	}
	if ext := filepath.Ext(path); !supportedFormats[ext] {
		return fmt.Errorf("unsupported output format %q (want .png, .svg, or .pdf)", ext)
	}

	predictedVals := make(plotter.Values, len(labels))
	observedVals := make(plotter.Values, len(labels))
	for i, label := range labels {
		predictedVals[i] = predicted[label]
		observedVals[i] = float64(counts[label]) / float64(shots)
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Probability"
	p.Y.Min, p.Y.Max = 0, 1

	width := vg.Points(24)

	predictedBars, err := plotter.NewBarChart(predictedVals, width)
	if err != nil {
		return fmt.Errorf("histogram: %w", err)
	}
	predictedBars.Color = plotutil.Color(0)
	predictedBars.Offset = -width / 2

	observedBars, err := plotter.NewBarChart(observedVals, width)
	if err != nil {
		return fmt.Errorf("histogram: %w", err)
	}
	observedBars.Color = plotutil.Color(1)
	observedBars.Offset = width / 2

	p.Add(predictedBars, observedBars)
	p.Legend.Add("predicted", predictedBars)
	p.Legend.Add("observed", observedBars)
	p.Legend.Top = true
	p.NominalX(labels...)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("histogram: %w", err)
	}
	return nil
}
