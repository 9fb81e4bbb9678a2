package entities

import (
	"iter"
	"math/rand"
	"slices"
	"strings"
	"time"

	"github.com/fadedpez/cardlab/internal/types"
)

// DefaultBatchSize is the hand size drawn by DrawBatch callers in this module
const DefaultBatchSize = 5

// Deck is an ordered pile of cards. Index 0 is the bottom, the last index is
// the top. A Deck is not safe for concurrent use.
type Deck struct {
	cards []Card
	count int
	rng   *rand.Rand
}

// DeckOption configures a Deck at construction time
type DeckOption func(*Deck)

// WithRand makes the deck draw its randomness from rng
func WithRand(rng *rand.Rand) DeckOption {
	return func(d *Deck) {
		if rng != nil {
			d.rng = rng
		}
	}
}

// WithSeed gives the deck its own source seeded with seed
func WithSeed(seed int64) DeckOption {
	return func(d *Deck) {
		d.rng = rand.New(rand.NewSource(seed))
	}
}

// NewDeck builds one card per (face, suit) combination for faces
// valueStart..valueEnd and suits 0..numSuits-1, grouped by suit.
// An inverted face range or a non-positive suit count yields an empty deck.
func NewDeck(valueStart, valueEnd, numSuits int, opts ...DeckOption) *Deck {
	d := &Deck{}
	for _, opt := range opts {
		opt(d)
	}
	if d.rng == nil {
		d.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	if valueStart > valueEnd || numSuits <= 0 {
		return d
	}

	d.cards = make([]Card, 0, (valueEnd-valueStart+1)*numSuits)
	for suit := 0; suit < numSuits; suit++ {
		for face := valueStart; face <= valueEnd; face++ {
			d.cards = append(d.cards, NewCard(face, suit))
		}
	}
	d.count = len(d.cards)

	return d
}

// Len returns the number of cards in the deck
func (d *Deck) Len() int {
	return d.count
}

// IsEmpty reports whether the deck has no cards
func (d *Deck) IsEmpty() bool {
	return d.Len() == 0
}

// Insert puts card at position index, where index == Len() means on top.
// Any other out-of-range index is rejected and the deck is left as is.
func (d *Deck) Insert(card Card, index int) error {
	if index < 0 || index > d.count {
		return types.Errorf(types.ErrInvalidIndex, "cannot insert at index %d in a deck of %d cards", index, d.count)
	}

	d.cards = slices.Insert(d.cards, index, card)
	d.count = len(d.cards)
	return nil
}

// PlaceTop puts card on top of the deck
func (d *Deck) PlaceTop(card Card) error {
	return d.Insert(card, d.count)
}

// PlaceBottom puts card at the bottom of the deck
func (d *Deck) PlaceBottom(card Card) error {
	return d.Insert(card, 0)
}

// DrawTop removes and returns the top card
func (d *Deck) DrawTop() (Card, error) {
	if d.count == 0 {
		return Card{}, types.NewError(types.ErrEmptyDeck, "cannot draw from an empty deck")
	}

	card := d.cards[d.count-1]
	d.cards = d.cards[:d.count-1]
	d.count = len(d.cards)
	return card, nil
}

// DrawBatch removes the top n cards and returns them in deck order, so the
// last element is the card that was on top. PlaceBatch of the result puts
// the deck back exactly as it was.
func (d *Deck) DrawBatch(n int) ([]Card, error) {
	if d.count == 0 {
		return nil, types.NewError(types.ErrEmptyDeck, "cannot draw from an empty deck")
	}
	if n <= 0 || n > d.count {
		return nil, types.Errorf(types.ErrPreconditionViolation, "cannot draw %d cards from a deck of %d", n, d.count)
	}

	batch := slices.Clone(d.cards[d.count-n:])
	d.cards = d.cards[:d.count-n]
	d.count = len(d.cards)
	return batch, nil
}

// PlaceBatch appends cards on top of the deck in the given order
func (d *Deck) PlaceBatch(cards []Card) error {
	if len(cards) == 0 {
		return types.NewError(types.ErrPreconditionViolation, "card batch cannot be empty")
	}

	d.cards = append(d.cards, cards...)
	d.count = len(d.cards)
	return nil
}

// Shuffle replaces the order with a uniformly random permutation drawn from
// the deck's own source.
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// ShuffleWithSeed reseeds the deck's source and shuffles. Two decks in the
// same order shuffled with the same seed end up in the same order.
func (d *Deck) ShuffleWithSeed(seed int64) {
	d.rng = rand.New(rand.NewSource(seed))
	d.Shuffle()
}

// All yields the cards bottom to top. Each iteration works on a snapshot
// taken when it starts, so the deck may be mutated while ranging.
func (d *Deck) All() iter.Seq[Card] {
	return func(yield func(Card) bool) {
		for _, card := range slices.Clone(d.cards) {
			if !yield(card) {
				return
			}
		}
	}
}

// Cards returns a copy of the cards, bottom to top
func (d *Deck) Cards() []Card {
	return slices.Clone(d.cards)
}

// String returns the cards bottom to top separated by commas
func (d *Deck) String() string {
	parts := make([]string, 0, d.count)
	for _, card := range d.cards {
		parts = append(parts, card.String())
	}
	return strings.Join(parts, ",")
}
