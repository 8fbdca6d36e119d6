package bot

import (
	"github.com/lox/jokerforbots/joker"
)

// VisibleTrumpCards is how many of the first dealt cards a trump chooser
// looks at.
const VisibleTrumpCards = 3

// TrumpService picks a trump suit from a partial hand.
type TrumpService struct {
	profile Profile
}

// NewTrumpService creates a trump service for the profile.
func NewTrumpService(p Profile) *TrumpService {
	return &TrumpService{profile: p}
}

// SuitPower returns the power of every suit over cards: each card adds one
// plus its normalized rank, and the sum is divided by the number of cards.
// Jokers add nothing to any suit.
func SuitPower(cards []joker.Card) [4]float64 {
	var power [4]float64
	if len(cards) == 0 {
		return power
	}
	for _, c := range cards {
		suit, ok := c.Suit()
		if !ok {
			continue
		}
		rank, _ := c.Rank()
		power[suit] += 1 + rank.Normalized()
	}
	for i := range power {
		power[i] /= float64(len(cards))
	}
	return power
}

// ChooseTrump names the strongest suit when its power clears the profile
// threshold, and no trump otherwise. visibleStage lowers the threshold by the
// visible-stage bonus. Ties go to the earlier suit.
func (s *TrumpService) ChooseTrump(cards []joker.Card, visibleStage bool) *joker.Suit {
	power := SuitPower(cards)
	best := -1
	for i, p := range power {
		if p > 0 && (best < 0 || p > power[best]+epsilon) {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	threshold := s.profile.TrumpPowerThreshold
	if visibleStage {
		threshold -= s.profile.TrumpVisibleBonus
	}
	if power[best]+epsilon < threshold {
		return nil
	}
	suit := joker.Suit(best)
	return &suit
}
