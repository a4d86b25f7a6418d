package runner

import (
	"fmt"
	"io"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const histogramWidth = 40

// MovesHistogram buckets the per-game move counts.
func MovesHistogram(results []GameResult, bins int) histogram.Histogram {
	moves := lo.Map(results, func(g GameResult, _ int) float64 {
		return float64(g.Moves)
	})
	return histogram.Hist(bins, moves)
}

// WriteSummary writes s as YAML.
func WriteSummary(w io.Writer, s Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	return enc.Close()
}

// WriteHistogram draws the moves-per-game histogram. Nothing is written
// when there are no results.
func WriteHistogram(w io.Writer, results []GameResult, bins int) error {
	if len(results) == 0 || bins <= 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "Moves per game (%d games):\n", len(results)); err != nil {
		return err
	}
	return histogram.Fprint(w, MovesHistogram(results, bins), histogram.Linear(histogramWidth))
}
