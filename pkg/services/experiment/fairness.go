package experiment

import (
	"context"
	"time"

	"github.com/fadedpez/cardlab/pkg/entities"
)

// ProveFairness estimates the mean face value of the deck. Each trial draws
// the top card, records its face, puts it back and reshuffles, Attempts
// times; the trial scalar is the average face.
func (s *Service) ProveFairness(ctx context.Context, p Params) (*entities.Summary, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	seed := s.resolveSeed()

	return execute(ctx, s, entities.KindFairness, p, seed,
		func(r *entities.Summary) float64 { return r.Mean },
		func() (*entities.Summary, error) {
			return proveFairness(ctx, p, seed)
		})
}

func proveFairness(ctx context.Context, p Params, seed int64) (*entities.Summary, error) {
	start := time.Now()
	deck := newDeck(p, seed)
	deck.Shuffle()

	means := make([]float64, 0, p.Experiments)
	for n := 0; n < p.Experiments; n++ {
		total := 0
		for i := 0; i < p.Attempts; i++ {
			if err := checkContext(ctx, i); err != nil {
				return nil, err
			}

			card, err := deck.DrawTop()
			if err != nil {
				return nil, err
			}
			total += card.Face()
			if err := deck.PlaceTop(card); err != nil {
				return nil, err
			}
			deck.Shuffle()
		}
		means = append(means, float64(total)/float64(p.Attempts))
	}

	summary := Summarize(means, time.Since(start))
	return &summary, nil
}
