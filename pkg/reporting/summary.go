// Package reporting turns experiment results into log lines, terminal charts
// and webhook notifications.
package reporting

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/fadedpez/cardlab/pkg/entities"
	"github.com/fadedpez/cardlab/pkg/hands"
)

// Series is a named sequence of values to chart
type Series struct {
	Title  string
	XLabel string
	YLabel string
	Values []float64
}

// Report is everything published about one experiment
type Report struct {
	Name   string
	Lines  []string
	Series []Series
}

// Seconds rounds d up to hundredths of a second
func Seconds(d time.Duration) float64 {
	return math.Ceil(d.Seconds()*100) / 100
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func timeLine(d time.Duration) string {
	return "Time to complete calculation " + formatFloat(Seconds(d)) + " seconds"
}

// FairnessReport describes a mean-face experiment
func FairnessReport(s *entities.Summary) Report {
	n := len(s.Trials)
	return Report{
		Name: "proving-fairness",
		Lines: []string{
			fmt.Sprintf("Final Average from %d trials is %s", n, formatFloat(s.Mean)),
			fmt.Sprintf("Standard Deviation for this model from %d mean average is %s", n, formatFloat(s.StdDev)),
			fmt.Sprintf("Variance for this model from %d mean is %s", n, formatFloat(s.Variance)),
			fmt.Sprintf("Min value : %s and max value : %s", formatFloat(s.Min), formatFloat(s.Max)),
			timeLine(s.Duration),
		},
		Series: []Series{
			{Title: "Mean Distribution", XLabel: "Experiment times", YLabel: "Mean", Values: s.Trials},
		},
	}
}

// HandsReport describes a pair and flush experiment
func HandsReport(h *entities.HandSummary) Report {
	lines := []string{
		fmt.Sprintf("Mean values for pair and flush are %s, %s respectively", formatFloat(h.Pair.Mean), formatFloat(h.Flush.Mean)),
		fmt.Sprintf("Standard Deviation for pair and flush are %s, %s respectively", formatFloat(h.Pair.StdDev), formatFloat(h.Flush.StdDev)),
		fmt.Sprintf("Variance for pair and flush are %s, %s respectively", formatFloat(h.Pair.Variance), formatFloat(h.Flush.Variance)),
		fmt.Sprintf("Minimum and maximum value for pair are %s, %s", formatFloat(h.Pair.Min), formatFloat(h.Pair.Max)),
		fmt.Sprintf("Minimum and maximum value for flush are %s, %s", formatFloat(h.Flush.Min), formatFloat(h.Flush.Max)),
		timeLine(h.Duration),
	}
	if line, ok := lastHandLine(h.LastHand); ok {
		lines = append(lines, line)
	}

	return Report{
		Name:  "chances-of-hands",
		Lines: lines,
		Series: []Series{
			{Title: "Probability Distribution of Pair Hand", XLabel: "Number of Experiments", YLabel: "Probability", Values: h.Pair.Trials},
			{Title: "Probability Distribution of Flush Hand", XLabel: "Number of Experiments", YLabel: "Probability", Values: h.Flush.Trials},
		},
	}
}

// lastHandLine names the last dealt hand; non-standard decks only list the cards
func lastHandLine(hand []entities.Card) (string, bool) {
	if len(hand) == 0 {
		return "", false
	}
	cards := make([]string, len(hand))
	for i, c := range hand {
		cards[i] = c.String()
	}
	line := "Last hand dealt: " + strings.Join(cards, ", ")
	if desc, err := hands.Describe(hand); err == nil {
		line += " (" + desc + ")"
	}
	return line, true
}

// RoyalReport describes a royal flush search
func RoyalReport(r *entities.RoyalSummary) Report {
	lines := make([]string, 0, len(r.Attempts)+3)
	for _, attempts := range r.Attempts {
		lines = append(lines, fmt.Sprintf("Found Royal Flush in attempts number: %d", attempts))
	}
	if r.Failed > 0 {
		lines = append(lines, fmt.Sprintf("Gave up on %d searches", r.Failed))
	}
	lines = append(lines,
		fmt.Sprintf("Mean probability estimate is %s", formatFloat(r.Mean)),
		timeLine(r.Duration),
	)

	return Report{
		Name:  "royal-flush",
		Lines: lines,
		Series: []Series{
			{Title: "Probability Distribution", XLabel: "Experiment Number", YLabel: "Probability", Values: r.Trials},
		},
	}
}

// SweepReport describes a suit sweep
func SweepReport(r *entities.SweepResult) Report {
	lines := make([]string, 0, len(r.Points)+1)
	for _, p := range r.Points {
		lines = append(lines, fmt.Sprintf("Suits %d pair probability index: %s flush probability index: %s", p.Suits, formatFloat(p.Pair), formatFloat(p.Flush)))
	}
	lines = append(lines, timeLine(r.Duration))

	return Report{
		Name:  "changes-in-chance",
		Lines: lines,
		Series: []Series{
			{Title: "Probability Distribution of Pair Hand", XLabel: "Number of Suit", YLabel: "Probability", Values: r.PairSeries()},
			{Title: "Probability Distribution of Flush Hand", XLabel: "Number of Suit", YLabel: "Probability", Values: r.FlushSeries()},
		},
	}
}
