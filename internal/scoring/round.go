// Package scoring computes round scores, block premiums and the penalties a
// premium earner inflicts on its left neighbour, and keeps the score history
// of a game.
package scoring

// RoundResult is one player's outcome for one round.
type RoundResult struct {
	CardsInRound int
	Bid          int
	TricksTaken  int
	IsBlind      bool

	// ScoreAdjustment carries a premium bonus on the last round of a block.
	ScoreAdjustment int
}

// RoundScore scores a round with cardsInRound cards where the player bid bid
// and took tricks tricks. A blind bid doubles the result, sign included.
func RoundScore(cardsInRound, bid, tricks int, blind bool) int {
	var score int
	switch {
	case tricks == bid && bid == cardsInRound:
		score = bid * 100
	case tricks == bid:
		score = bid*50 + 50
	case tricks > bid:
		score = tricks * 10
	case bid == cardsInRound && tricks == 0:
		score = -bid * 100
	default:
		score = -((bid-tricks)*50 + 50)
	}
	if blind {
		score *= 2
	}
	return score
}

// BaseScore is the formula score before any adjustment.
func (r RoundResult) BaseScore() int {
	return RoundScore(r.CardsInRound, r.Bid, r.TricksTaken, r.IsBlind)
}

// Score is the displayed round score including the adjustment.
func (r RoundResult) Score() int {
	return r.BaseScore() + r.ScoreAdjustment
}

// Matched reports whether the player took exactly the tricks they bid.
func (r RoundResult) Matched() bool {
	return r.Bid == r.TricksTaken
}
