package entities

import (
	"encoding/json"
	"time"
)

// Summary is the reduction of an ordered list of trial scalars
type Summary struct {
	Trials   []float64     `json:"trials"`
	Mean     float64       `json:"mean"`
	StdDev   float64       `json:"std_dev"`  // sample, divides by N-1
	Variance float64       `json:"variance"` // population, divides by N
	Min      float64       `json:"min"`
	Max      float64       `json:"max"`
	Duration time.Duration `json:"duration"`
}

// HandSummary holds the pair and flush reductions of a hand-probability experiment
type HandSummary struct {
	Pair     Summary       `json:"pair"`
	Flush    Summary       `json:"flush"`
	Duration time.Duration `json:"duration"`
	LastHand []Card        `json:"-"` // last hand dealt, for display
}

// Probabilities returns the named mean probabilities used by suit sweeps
func (h *HandSummary) Probabilities() map[string]float64 {
	return map[string]float64{
		ProbabilityPair:  h.Pair.Mean,
		ProbabilityFlush: h.Flush.Mean,
	}
}

// Keys of the dynamic-suit probability map
const (
	ProbabilityPair  = "pair"
	ProbabilityFlush = "flush"
)

// RoyalSummary is the result of a royal flush search. Trials only holds the
// 1/attempts estimates of trials that found a royal flush.
type RoyalSummary struct {
	Summary
	Attempts []int `json:"attempts"`
	Failed   int   `json:"failed"`
}

// SweepPoint is the mean pair and flush probability for one suit count
type SweepPoint struct {
	Suits int     `json:"suits"`
	Pair  float64 `json:"pair"`
	Flush float64 `json:"flush"`
}

// SweepResult is the outcome of running the hand experiment over a range of suit counts
type SweepResult struct {
	Points   []SweepPoint  `json:"points"`
	Duration time.Duration `json:"duration"`
}

// PairSeries returns the pair probabilities in suit order
func (r *SweepResult) PairSeries() []float64 {
	values := make([]float64, 0, len(r.Points))
	for _, p := range r.Points {
		values = append(values, p.Pair)
	}
	return values
}

// FlushSeries returns the flush probabilities in suit order
func (r *SweepResult) FlushSeries() []float64 {
	values := make([]float64, 0, len(r.Points))
	for _, p := range r.Points {
		values = append(values, p.Flush)
	}
	return values
}

// ExperimentKind names one of the harness experiments
type ExperimentKind string

const (
	KindFairness   ExperimentKind = "fairness"
	KindHands      ExperimentKind = "hands"
	KindRoyalFlush ExperimentKind = "royal"
	KindSweep      ExperimentKind = "sweep"
)

// Kinds lists every experiment kind in menu order
var Kinds = []ExperimentKind{KindFairness, KindHands, KindRoyalFlush, KindSweep}

// Valid reports whether k is a known experiment kind
func (k ExperimentKind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// ExperimentRun is the persisted record of one harness invocation
type ExperimentRun struct {
	ID        string          `json:"id"`
	Kind      ExperimentKind  `json:"kind"`
	Params    json.RawMessage `json:"params"`
	Result    json.RawMessage `json:"result,omitempty"`
	Mean      float64         `json:"mean"`
	Seed      int64           `json:"seed,omitempty"`
	Failed    bool            `json:"failed"`
	Error     string          `json:"error,omitempty"`
	Duration  time.Duration   `json:"duration"`
	CreatedAt time.Time       `json:"created_at"`
}
