package entities

import "fmt"

// Face values used by the royal flush predicate
const (
	Ace   = 1
	Ten   = 10
	Jack  = 11
	Queen = 12
	King  = 13
)

// Card represents a playing card. Fields are unexported so a Card never
// changes once built.
type Card struct {
	face int
	suit int
}

// NewCard creates a new card
func NewCard(face, suit int) Card {
	return Card{
		face: face,
		suit: suit,
	}
}

// Face returns the card's rank
func (c Card) Face() int {
	return c.face
}

// Suit returns the card's suit identifier
func (c Card) Suit() int {
	return c.suit
}

// String returns the "<face>:<suit>" representation of the card
func (c Card) String() string {
	return fmt.Sprintf("%d:%d", c.face, c.suit)
}
