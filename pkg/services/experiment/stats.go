package experiment

import (
	"math"
	"slices"
	"time"

	"github.com/fadedpez/cardlab/pkg/entities"
)

// Summarize reduces trial scalars to mean, sample standard deviation,
// population variance, min and max. StdDev is 0 for fewer than two values.
func Summarize(values []float64, duration time.Duration) entities.Summary {
	summary := entities.Summary{
		Trials:   slices.Clone(values),
		Duration: duration,
	}
	if len(values) == 0 {
		return summary
	}

	n := float64(len(values))
	var sum float64
	for _, v := range values {
		sum += v
	}
	summary.Mean = sum / n
	summary.Min = slices.Min(values)
	summary.Max = slices.Max(values)

	var squares float64
	for _, v := range values {
		d := v - summary.Mean
		squares += d * d
	}
	summary.Variance = squares / n
	if len(values) > 1 {
		summary.StdDev = math.Sqrt(squares / (n - 1))
	}
	return summary
}
