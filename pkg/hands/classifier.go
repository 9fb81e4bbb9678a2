// Package hands decides which patterns a fixed-size hand of cards forms.
package hands

import (
	"github.com/fadedpez/cardlab/internal/types"
	"github.com/fadedpez/cardlab/pkg/entities"
)

// RoyalFaces are the faces of a royal flush: Ace, 10, Jack, Queen, King
var RoyalFaces = []int{entities.Ace, entities.Ten, entities.Jack, entities.Queen, entities.King}

// Classifier holds the hand size and the suit that counts as royal
type Classifier struct {
	HandSize  int
	RoyalSuit int
}

// Default classifies 5-card hands with suit 0 as the royal suit
var Default = Classifier{HandSize: entities.DefaultBatchSize, RoyalSuit: 0}

// New returns a classifier for hands of handSize cards
func New(handSize int) Classifier {
	return Classifier{HandSize: handSize, RoyalSuit: Default.RoyalSuit}
}

// ExclusiveFlushPair reports whether a hand cannot be both a flush and a
// pair. That holds for 5-card hands from a deck without duplicate cards:
// same-suit cards then have 5 distinct faces, which is never a pair.
func (c Classifier) ExclusiveFlushPair() bool {
	return c.HandSize == 5
}

// IsFlush reports whether every card shares the first card's suit
func (c Classifier) IsFlush(hand []entities.Card) (bool, error) {
	if len(hand) == 0 {
		return false, types.NewError(types.ErrPreconditionViolation, "cannot classify an empty hand")
	}

	suit := hand[0].Suit()
	for _, card := range hand[1:] {
		if card.Suit() != suit {
			return false, nil
		}
	}
	return true, nil
}

// IsRoyalFlush reports whether every card is of the royal suit and the set
// of faces is exactly {1, 10, 11, 12, 13}.
func (c Classifier) IsRoyalFlush(hand []entities.Card) (bool, error) {
	if len(hand) == 0 {
		return false, types.NewError(types.ErrPreconditionViolation, "cannot classify an empty hand")
	}

	faces := make(map[int]struct{}, len(hand))
	for _, card := range hand {
		if card.Suit() != c.RoyalSuit {
			return false, nil
		}
		faces[card.Face()] = struct{}{}
	}

	if len(faces) != len(RoyalFaces) {
		return false, nil
	}
	for _, face := range RoyalFaces {
		if _, ok := faces[face]; !ok {
			return false, nil
		}
	}
	return true, nil
}

// IsPair reports whether the hand holds one or two pairs and nothing
// better: 3 or 4 distinct faces with no face seen more than twice.
func (c Classifier) IsPair(hand []entities.Card) (bool, error) {
	if len(hand) == 0 || len(hand) > c.HandSize {
		return false, types.Errorf(types.ErrPreconditionViolation, "hand of %d cards is outside ]0,%d]", len(hand), c.HandSize)
	}

	occurrences := make(map[int]int, len(hand))
	for _, card := range hand {
		occurrences[card.Face()]++
	}

	if len(occurrences) < 3 || len(occurrences) > 4 {
		return false, nil
	}
	for _, n := range occurrences {
		if n > 2 {
			return false, nil
		}
	}
	return true, nil
}

// IsFlush classifies hand with the Default classifier
func IsFlush(hand []entities.Card) (bool, error) {
	return Default.IsFlush(hand)
}

// IsRoyalFlush classifies hand with the Default classifier
func IsRoyalFlush(hand []entities.Card) (bool, error) {
	return Default.IsRoyalFlush(hand)
}

// IsPair classifies hand with the Default classifier
func IsPair(hand []entities.Card) (bool, error) {
	return Default.IsPair(hand)
}
