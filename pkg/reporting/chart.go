package reporting

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/fadedpez/cardlab/internal/types"
	"github.com/pterm/pterm"
)

// ChartWidth is the length of the longest bar
const ChartWidth = 40

// charts with more bars than denseChart only label every fifth bar
const (
	denseChart    = 50
	denseInterval = 5
)

// chartBars scales values so the largest becomes a bar of ChartWidth
func chartBars(values []float64) pterm.Bars {
	interval := 1
	if len(values) > denseChart {
		interval = denseInterval
	}

	largest := slices.Max(values)
	bars := make(pterm.Bars, 0, len(values))
	for i, v := range values {
		label := ""
		if i%interval == 0 {
			label = strconv.Itoa(i + 1)
		}

		size := 0
		if largest > 0 && v > 0 {
			size = int(math.Round(v / largest * ChartWidth))
		}
		bars = append(bars, pterm.Bar{Label: label, Value: size})
	}
	return bars
}

// RenderBarChart draws series as a horizontal terminal bar chart
func RenderBarChart(series Series) (string, error) {
	if len(series.Values) == 0 {
		return "", types.Errorf(types.ErrInvalidArgument, "chart %q has no values", series.Title)
	}

	chart, err := pterm.DefaultBarChart.
		WithBars(chartBars(series.Values)).
		WithHorizontal().
		WithWidth(ChartWidth).
		Srender()
	if err != nil {
		return "", fmt.Errorf("error rendering chart: %w", err)
	}

	header := pterm.DefaultSection.Sprint(series.Title)
	footer := pterm.Gray(fmt.Sprintf("%s per %s, longest bar %s", series.YLabel, series.XLabel, formatFloat(slices.Max(series.Values))))
	return header + chart + footer + "\n", nil
}
