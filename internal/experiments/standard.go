package experiments

import (
	"context"

	"github.com/fadedpez/cardlab/pkg/entities"
	"github.com/fadedpez/cardlab/pkg/reporting"
	"github.com/fadedpez/cardlab/pkg/services/experiment"
)

// Settings sizes the standard experiments
type Settings struct {
	Params           experiment.Params
	RoyalExperiments int
	MaxSuits         int
}

// DefaultSettings mirrors the experiment defaults: 100 experiments of 1000
// attempts, 5 royal flush searches and a sweep over 1 to 10 suits.
func DefaultSettings() Settings {
	return Settings{
		Params:           experiment.DefaultParams(),
		RoyalExperiments: 5,
		MaxSuits:         experiment.DefaultSweepParams().MaxSuits,
	}
}

// NewStandardRegistry registers fairness, hands, royal and sweep backed by svc
func NewStandardRegistry(svc *experiment.Service, settings Settings) *Registry {
	r := NewRegistry()

	// registering into an empty registry cannot collide
	_ = r.Register(entities.KindFairness, NewExperiment("proving-fairness", "Proving Fairness",
		func(ctx context.Context) (reporting.Report, error) {
			summary, err := svc.ProveFairness(ctx, settings.Params)
			if err != nil {
				return reporting.Report{}, err
			}
			return reporting.FairnessReport(summary), nil
		}))

	_ = r.Register(entities.KindHands, NewExperiment("chances-of-hands", "Pair and Flush",
		func(ctx context.Context) (reporting.Report, error) {
			summary, err := svc.ChancesOfHands(ctx, settings.Params)
			if err != nil {
				return reporting.Report{}, err
			}
			return reporting.HandsReport(summary), nil
		}))

	_ = r.Register(entities.KindRoyalFlush, NewExperiment("royal-flush", "Royal Flush",
		func(ctx context.Context) (reporting.Report, error) {
			p := settings.Params
			p.Experiments = settings.RoyalExperiments
			summary, err := svc.RoyalFlushChance(ctx, p)
			if err != nil {
				return reporting.Report{}, err
			}
			return reporting.RoyalReport(summary), nil
		}))

	_ = r.Register(entities.KindSweep, NewExperiment("changes-in-chance", "Change in Chance",
		func(ctx context.Context) (reporting.Report, error) {
			result, err := svc.ChangesInChance(ctx, experiment.SweepParams{Params: settings.Params, MaxSuits: settings.MaxSuits})
			if err != nil {
				return reporting.Report{}, err
			}
			return reporting.SweepReport(result), nil
		}))

	return r
}
