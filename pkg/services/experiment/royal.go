package experiment

import (
	"context"
	"time"

	"github.com/fadedpez/cardlab/internal/types"
	"github.com/fadedpez/cardlab/pkg/entities"
	"github.com/fadedpez/cardlab/pkg/hands"
)

// RoyalFlushChance runs Experiments searches for a royal flush of the royal
// suit. A search draws a hand, puts it back and reshuffles until the hand is
// a royal flush; its trial scalar is 1/attempts. Attempts is not used.
//
// A search that reaches the attempt cap is counted as failed. The experiment
// only fails when every search did.
func (s *Service) RoyalFlushChance(ctx context.Context, p Params) (*entities.RoyalSummary, error) {
	// the royal search has no inner attempt count
	if p.Attempts <= 0 {
		p.Attempts = 1
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	seed := s.resolveSeed()

	return execute(ctx, s, entities.KindRoyalFlush, p, seed,
		func(r *entities.RoyalSummary) float64 { return r.Mean },
		func() (*entities.RoyalSummary, error) {
			return s.royalFlushChance(ctx, p, seed)
		})
}

func (s *Service) royalFlushChance(ctx context.Context, p Params, seed int64) (*entities.RoyalSummary, error) {
	start := time.Now()
	deck := newDeck(p, seed)
	deck.Shuffle()
	classifier := hands.New(p.HandSize)

	estimates := make([]float64, 0, p.Experiments)
	attemptCounts := make([]int, 0, p.Experiments)
	failed := 0

	for trial := 1; trial <= p.Experiments; trial++ {
		trialStart := time.Now()
		attempts, found := 0, false

		for !found && attempts < s.maxRoyalAttempts {
			if err := checkContext(ctx, attempts); err != nil {
				return nil, err
			}

			cards, err := deck.DrawBatch(p.HandSize)
			if err != nil {
				return nil, err
			}
			if err := deck.PlaceBatch(cards); err != nil {
				return nil, err
			}
			deck.Shuffle()

			found, err = classifier.IsRoyalFlush(cards)
			if err != nil {
				return nil, err
			}
			attempts++
		}

		if !found {
			failed++
			s.logger.LogError(types.Errorf(types.ErrUnboundedRetry,
				"royal flush search %d gave up after %d attempts", trial, attempts))
			continue
		}

		estimates = append(estimates, 1/float64(attempts))
		attemptCounts = append(attemptCounts, attempts)
		s.logger.Info("Found Royal Flush in %s in attempts number: %d", time.Since(trialStart).Round(time.Millisecond), attempts)
	}

	if failed == p.Experiments {
		return nil, types.Errorf(types.ErrUnboundedRetry,
			"no royal flush found in %d searches of up to %d attempts", p.Experiments, s.maxRoyalAttempts)
	}

	return &entities.RoyalSummary{
		Summary:  Summarize(estimates, time.Since(start)),
		Attempts: attemptCounts,
		Failed:   failed,
	}, nil
}
