package experiment

import (
	"github.com/fadedpez/cardlab/internal/types"
	"github.com/fadedpez/cardlab/pkg/entities"
)

// Params configures the deck and the trial loops of an experiment
type Params struct {
	Attempts    int `json:"attempts"`
	Experiments int `json:"experiments"`
	SuitCount   int `json:"suit_count"`
	FaceStart   int `json:"face_start"`
	FaceEnd     int `json:"face_end"`
	HandSize    int `json:"hand_size"`
}

// DefaultParams returns 100 experiments of 1000 attempts over a standard deck
func DefaultParams() Params {
	return Params{
		Attempts:    1000,
		Experiments: 100,
		SuitCount:   4,
		FaceStart:   entities.Ace,
		FaceEnd:     entities.King,
		HandSize:    entities.DefaultBatchSize,
	}
}

// DeckSize is the number of cards a deck built from p holds
func (p Params) DeckSize() int {
	if p.FaceStart > p.FaceEnd || p.SuitCount <= 0 {
		return 0
	}
	return (p.FaceEnd - p.FaceStart + 1) * p.SuitCount
}

// Validate checks p before any trial runs
func (p Params) Validate() error {
	switch {
	case p.Attempts <= 0:
		return types.Errorf(types.ErrConfiguration, "attempts must be positive, got %d", p.Attempts)
	case p.Experiments <= 0:
		return types.Errorf(types.ErrConfiguration, "experiments must be positive, got %d", p.Experiments)
	case p.SuitCount <= 0:
		return types.Errorf(types.ErrConfiguration, "suit count must be positive, got %d", p.SuitCount)
	case p.FaceStart > p.FaceEnd:
		return types.Errorf(types.ErrConfiguration, "face range %d..%d is empty", p.FaceStart, p.FaceEnd)
	case p.HandSize <= 0:
		return types.Errorf(types.ErrConfiguration, "hand size must be positive, got %d", p.HandSize)
	case p.HandSize > p.DeckSize():
		return types.Errorf(types.ErrConfiguration, "hand size %d exceeds deck of %d cards", p.HandSize, p.DeckSize())
	}
	return nil
}

// SweepParams runs the hand experiment for every suit count in 1..MaxSuits
type SweepParams struct {
	Params
	MaxSuits int `json:"max_suits"`
}

// DefaultSweepParams sweeps one to ten suits
func DefaultSweepParams() SweepParams {
	return SweepParams{
		Params:   DefaultParams(),
		MaxSuits: 10,
	}
}

// Validate checks the sweep against its smallest deck
func (p SweepParams) Validate() error {
	if p.MaxSuits <= 0 {
		return types.Errorf(types.ErrConfiguration, "max suits must be positive, got %d", p.MaxSuits)
	}
	smallest := p.Params
	smallest.SuitCount = 1
	return smallest.Validate()
}

// forSuits returns the hand params of one sweep point
func (p SweepParams) forSuits(suits int) Params {
	params := p.Params
	params.SuitCount = suits
	return params
}
