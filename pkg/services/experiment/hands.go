package experiment

import (
	"context"
	"time"

	"github.com/fadedpez/cardlab/pkg/entities"
	"github.com/fadedpez/cardlab/pkg/hands"
)

// ChancesOfHands estimates the probability of drawing a flush and a pair.
// Each attempt shuffles, draws a hand of HandSize cards, puts it back and
// classifies it; the trial scalars are the flush and pair fractions.
func (s *Service) ChancesOfHands(ctx context.Context, p Params) (*entities.HandSummary, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	seed := s.resolveSeed()

	return execute(ctx, s, entities.KindHands, p, seed,
		func(r *entities.HandSummary) float64 { return r.Pair.Mean },
		func() (*entities.HandSummary, error) {
			return chancesOfHands(ctx, p, seed)
		})
}

// HandProbabilities runs ChancesOfHands and returns only the mean pair and
// flush probabilities, keyed by entities.ProbabilityPair and ProbabilityFlush.
func (s *Service) HandProbabilities(ctx context.Context, p Params) (map[string]float64, error) {
	summary, err := s.ChancesOfHands(ctx, p)
	if err != nil {
		return nil, err
	}
	return summary.Probabilities(), nil
}

func chancesOfHands(ctx context.Context, p Params, seed int64) (*entities.HandSummary, error) {
	start := time.Now()
	deck := newDeck(p, seed)
	classifier := hands.New(p.HandSize)
	exclusive := classifier.ExclusiveFlushPair()

	pairs := make([]float64, 0, p.Experiments)
	flushes := make([]float64, 0, p.Experiments)
	var last []entities.Card
	for n := 0; n < p.Experiments; n++ {
		pairCount, flushCount := 0, 0
		for i := 0; i < p.Attempts; i++ {
			if err := checkContext(ctx, i); err != nil {
				return nil, err
			}

			deck.Shuffle()
			cards, err := deck.DrawBatch(p.HandSize)
			if err != nil {
				return nil, err
			}
			if err := deck.PlaceBatch(cards); err != nil {
				return nil, err
			}
			last = cards

			flush, err := classifier.IsFlush(cards)
			if err != nil {
				return nil, err
			}
			if flush {
				flushCount++
				if exclusive {
					continue
				}
			}

			pair, err := classifier.IsPair(cards)
			if err != nil {
				return nil, err
			}
			if pair {
				pairCount++
			}
		}
		pairs = append(pairs, float64(pairCount)/float64(p.Attempts))
		flushes = append(flushes, float64(flushCount)/float64(p.Attempts))
	}

	duration := time.Since(start)
	return &entities.HandSummary{
		Pair:     Summarize(pairs, duration),
		Flush:    Summarize(flushes, duration),
		Duration: duration,
		LastHand: last,
	}, nil
}
