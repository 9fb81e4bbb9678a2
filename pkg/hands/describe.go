package hands

import (
	"github.com/fadedpez/cardlab/internal/types"
	"github.com/fadedpez/cardlab/pkg/entities"
	"github.com/paulhankin/poker"
)

// suit 0 is hearts
var standardSuits = []poker.Suit{poker.Heart, poker.Diamond, poker.Club, poker.Spade}

// Describe names a 5-card hand from a standard deck ("two pair", "flush", ...).
// Hands using faces outside 1..13 or more than four suits cannot be
// described.
func Describe(hand []entities.Card) (string, error) {
	if len(hand) != 5 {
		return "", types.Errorf(types.ErrInvalidArgument, "can only describe 5-card hands, got %d", len(hand))
	}

	cards := make([]poker.Card, 0, len(hand))
	for _, c := range hand {
		if c.Suit() < 0 || c.Suit() >= len(standardSuits) {
			return "", types.Errorf(types.ErrInvalidArgument, "suit %d is not in a standard deck", c.Suit())
		}
		if c.Face() < entities.Ace || c.Face() > entities.King {
			return "", types.Errorf(types.ErrInvalidArgument, "face %d is not in a standard deck", c.Face())
		}

		pc, err := poker.MakeCard(standardSuits[c.Suit()], poker.Rank(c.Face()))
		if err != nil {
			return "", types.WrapError(types.ErrInvalidArgument, "converting card "+c.String(), err)
		}
		cards = append(cards, pc)
	}

	desc, err := poker.Describe(cards)
	if err != nil {
		return "", types.WrapError(types.ErrInvalidArgument, "describing hand", err)
	}
	return desc, nil
}
