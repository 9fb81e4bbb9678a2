package hands

import (
	"testing"

	"github.com/fadedpez/cardlab/internal/types"
	"github.com/fadedpez/cardlab/pkg/entities"
	"github.com/stretchr/testify/suite"
)

type ClassifierTestSuite struct {
	suite.Suite
}

func TestClassifierSuite(t *testing.T) {
	suite.Run(t, new(ClassifierTestSuite))
}

// hand builds cards from (face, suit) pairs
func hand(pairs ...[2]int) []entities.Card {
	cards := make([]entities.Card, 0, len(pairs))
	for _, p := range pairs {
		cards = append(cards, entities.NewCard(p[0], p[1]))
	}
	return cards
}

// faces builds a hand of mixed suits from faces
func faces(fs ...int) []entities.Card {
	cards := make([]entities.Card, 0, len(fs))
	for i, f := range fs {
		cards = append(cards, entities.NewCard(f, i%4))
	}
	return cards
}

func (s *ClassifierTestSuite) TestIsFlush() {
	testCases := []struct {
		name     string
		hand     []entities.Card
		expected bool
	}{
		{name: "all suit zero", hand: hand([2]int{2, 0}, [2]int{3, 0}, [2]int{4, 0}, [2]int{5, 0}, [2]int{6, 0}), expected: true},
		{name: "all suit three", hand: hand([2]int{2, 3}, [2]int{9, 3}, [2]int{4, 3}, [2]int{12, 3}, [2]int{6, 3}), expected: true},
		{name: "last card differs", hand: hand([2]int{2, 0}, [2]int{3, 0}, [2]int{4, 0}, [2]int{5, 0}, [2]int{6, 1}), expected: false},
		{name: "first card differs", hand: hand([2]int{2, 1}, [2]int{3, 0}, [2]int{4, 0}, [2]int{5, 0}, [2]int{6, 0}), expected: false},
		{name: "single card", hand: hand([2]int{2, 1}), expected: true},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			got, err := IsFlush(tc.hand)
			s.NoError(err)
			s.Equal(tc.expected, got)
		})
	}
}

func (s *ClassifierTestSuite) TestIsFlushEmptyHand() {
	_, err := IsFlush(nil)
	s.True(types.IsCode(err, types.ErrPreconditionViolation))
}

func (s *ClassifierTestSuite) TestIsRoyalFlush() {
	testCases := []struct {
		name     string
		hand     []entities.Card
		expected bool
	}{
		{
			name:     "royal flush of suit zero",
			hand:     hand([2]int{1, 0}, [2]int{10, 0}, [2]int{11, 0}, [2]int{12, 0}, [2]int{13, 0}),
			expected: true,
		},
		{
			name:     "royal flush in any order",
			hand:     hand([2]int{12, 0}, [2]int{1, 0}, [2]int{13, 0}, [2]int{10, 0}, [2]int{11, 0}),
			expected: true,
		},
		{
			name:     "one card of another suit",
			hand:     hand([2]int{1, 0}, [2]int{10, 0}, [2]int{11, 1}, [2]int{12, 0}, [2]int{13, 0}),
			expected: false,
		},
		{
			name:     "royal faces of suit one",
			hand:     hand([2]int{1, 1}, [2]int{10, 1}, [2]int{11, 1}, [2]int{12, 1}, [2]int{13, 1}),
			expected: false,
		},
		{
			name:     "flush but not royal",
			hand:     hand([2]int{2, 0}, [2]int{3, 0}, [2]int{4, 0}, [2]int{5, 0}, [2]int{6, 0}),
			expected: false,
		},
		{
			name:     "duplicate face",
			hand:     hand([2]int{1, 0}, [2]int{10, 0}, [2]int{11, 0}, [2]int{12, 0}, [2]int{12, 0}),
			expected: false,
		},
		{
			name:     "subset of royal faces",
			hand:     hand([2]int{1, 0}, [2]int{10, 0}, [2]int{11, 0}, [2]int{12, 0}),
			expected: false,
		},
		{
			name:     "extra face",
			hand:     hand([2]int{1, 0}, [2]int{10, 0}, [2]int{11, 0}, [2]int{12, 0}, [2]int{13, 0}, [2]int{9, 0}),
			expected: false,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			got, err := IsRoyalFlush(tc.hand)
			s.NoError(err)
			s.Equal(tc.expected, got)
		})
	}
}

func (s *ClassifierTestSuite) TestIsRoyalFlushCustomSuit() {
	c := Classifier{HandSize: 5, RoyalSuit: 2}

	got, err := c.IsRoyalFlush(hand([2]int{1, 2}, [2]int{10, 2}, [2]int{11, 2}, [2]int{12, 2}, [2]int{13, 2}))
	s.NoError(err)
	s.True(got)

	_, err = c.IsRoyalFlush(nil)
	s.True(types.IsCode(err, types.ErrPreconditionViolation))
}

func (s *ClassifierTestSuite) TestIsPair() {
	testCases := []struct {
		name     string
		hand     []entities.Card
		expected bool
	}{
		{name: "one pair", hand: faces(5, 5, 7, 9, 2), expected: true},
		{name: "two pair", hand: faces(5, 5, 7, 7, 2), expected: true},
		{name: "three of a kind", hand: faces(5, 5, 5, 7, 2), expected: false},
		{name: "four of a kind", hand: faces(5, 5, 5, 5, 2), expected: false},
		{name: "full house", hand: faces(5, 5, 5, 7, 7), expected: false},
		{name: "high card", hand: faces(2, 4, 6, 8, 10), expected: false},
		{name: "short hand one pair", hand: faces(3, 3, 4, 5), expected: true},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			got, err := IsPair(tc.hand)
			s.NoError(err)
			s.Equal(tc.expected, got)
		})
	}
}

func (s *ClassifierTestSuite) TestIsPairHandSize() {
	_, err := IsPair(nil)
	s.True(types.IsCode(err, types.ErrPreconditionViolation))

	_, err = IsPair(faces(1, 2, 3, 4, 5, 6))
	s.True(types.IsCode(err, types.ErrPreconditionViolation))

	got, err := New(7).IsPair(faces(1, 1, 2, 2, 3, 4, 4))
	s.NoError(err)
	s.True(got)
}

func (s *ClassifierTestSuite) TestExclusiveFlushPair() {
	s.True(Default.ExclusiveFlushPair())
	s.False(New(4).ExclusiveFlushPair())
	s.False(New(7).ExclusiveFlushPair())
}

func (s *ClassifierTestSuite) TestFlushAndPairNeverOverlap() {
	for _, suits := range []int{1, 2, 4} {
		deck := entities.NewDeck(1, 13, suits, entities.WithSeed(int64(suits)))
		for i := 0; i < 2000; i++ {
			deck.Shuffle()
			batch, err := deck.DrawBatch(5)
			s.Require().NoError(err)

			flush, err := IsFlush(batch)
			s.Require().NoError(err)
			pair, err := IsPair(batch)
			s.Require().NoError(err)
			s.Require().False(flush && pair, "hand %v is both flush and pair", batch)

			s.Require().NoError(deck.PlaceBatch(batch))
		}
	}
}
