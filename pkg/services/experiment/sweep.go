package experiment

import (
	"context"
	"runtime"
	"time"

	"github.com/fadedpez/cardlab/pkg/entities"
	"golang.org/x/sync/errgroup"
)

// ChangesInChance runs the hand experiment once per suit count from 1 to
// MaxSuits and records the mean pair and flush probability of each.
//
// Every suit count gets its own deck seeded with base seed + suit count, so a
// seeded sweep returns the same points whether or not it runs in parallel.
func (s *Service) ChangesInChance(ctx context.Context, p SweepParams) (*entities.SweepResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	seed := s.resolveSeed()

	return execute(ctx, s, entities.KindSweep, p, seed,
		func(r *entities.SweepResult) float64 { return meanOf(r.PairSeries()) },
		func() (*entities.SweepResult, error) {
			return s.changesInChance(ctx, p, seed)
		})
}

func (s *Service) changesInChance(ctx context.Context, p SweepParams, seed int64) (*entities.SweepResult, error) {
	start := time.Now()
	points := make([]entities.SweepPoint, p.MaxSuits)

	sweepPoint := func(ctx context.Context, suits int) error {
		summary, err := chancesOfHands(ctx, p.forSuits(suits), seed+int64(suits))
		if err != nil {
			return err
		}
		points[suits-1] = entities.SweepPoint{
			Suits: suits,
			Pair:  summary.Pair.Mean,
			Flush: summary.Flush.Mean,
		}
		s.logger.Debug("Sweep point %d suits: pair %f flush %f", suits, summary.Pair.Mean, summary.Flush.Mean)
		return nil
	}

	if s.parallelSweep {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(runtime.GOMAXPROCS(0))
		for suits := 1; suits <= p.MaxSuits; suits++ {
			g.Go(func() error {
				return sweepPoint(gctx, suits)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for suits := 1; suits <= p.MaxSuits; suits++ {
			if err := sweepPoint(ctx, suits); err != nil {
				return nil, err
			}
		}
	}

	return &entities.SweepResult{
		Points:   points,
		Duration: time.Since(start),
	}, nil
}

func meanOf(values []float64) float64 {
	return Summarize(values, 0).Mean
}
