package hands

import (
	"testing"

	"github.com/fadedpez/cardlab/internal/types"
	"github.com/fadedpez/cardlab/pkg/entities"
	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	desc, err := Describe(hand([2]int{1, 0}, [2]int{10, 0}, [2]int{11, 0}, [2]int{12, 0}, [2]int{13, 0}))
	assert.NoError(t, err)
	assert.NotEmpty(t, desc)

	desc, err = Describe(faces(5, 5, 7, 9, 2))
	assert.NoError(t, err)
	assert.NotEmpty(t, desc)
}

func TestDescribeRejectsNonStandardHands(t *testing.T) {
	testCases := []struct {
		name string
		hand []entities.Card
	}{
		{name: "too few cards", hand: faces(1, 2, 3)},
		{name: "fifth suit", hand: hand([2]int{1, 4}, [2]int{2, 0}, [2]int{3, 0}, [2]int{4, 0}, [2]int{5, 0})},
		{name: "face above king", hand: hand([2]int{14, 0}, [2]int{2, 0}, [2]int{3, 0}, [2]int{4, 0}, [2]int{5, 0})},
		{name: "face zero", hand: hand([2]int{0, 0}, [2]int{2, 0}, [2]int{3, 0}, [2]int{4, 0}, [2]int{5, 0})},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Describe(tc.hand)
			assert.True(t, types.IsCode(err, types.ErrInvalidArgument))
		})
	}
}
