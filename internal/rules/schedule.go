// Package rules holds the pure rule functions of the game: the block schedule,
// bid legality and trick legality/resolution. Nothing here keeps state.
package rules

import (
	"fmt"

	"github.com/lox/jokerforbots/joker"
)

// Player count bounds.
const (
	MinPlayers = 3
	MaxPlayers = 4
)

// Block is one of the four groups of rounds in a game.
type Block int

const (
	BlockAscending  Block = 1 // 1, 2, … cards per round
	BlockFullFirst  Block = 2 // N rounds with every card dealt
	BlockDescending Block = 3 // mirror of block 1
	BlockFullBlind  Block = 4 // N rounds with every card dealt, blind bids allowed
)

// BlockCount is the number of blocks in a game.
const BlockCount = 4

// String returns the string representation of a block
func (b Block) String() string {
	switch b {
	case BlockAscending:
		return "ascending"
	case BlockFullFirst:
		return "full"
	case BlockDescending:
		return "descending"
	case BlockFullBlind:
		return "full-blind"
	default:
		return fmt.Sprintf("block(%d)", int(b))
	}
}

// Valid reports whether b is 1..4.
func (b Block) Valid() bool {
	return b >= BlockAscending && b <= BlockFullBlind
}

// SupportsBlind reports whether blind bids are allowed; only block 4.
func (b Block) SupportsBlind() bool {
	return b == BlockFullBlind
}

// SupportsZeroPremium reports whether the flat zero-premium can be earned;
// blocks 1 and 3.
func (b Block) SupportsZeroPremium() bool {
	return b == BlockAscending || b == BlockDescending
}

// MaxCardsPerRound is the hand size when every card is dealt.
func MaxCardsPerRound(playerCount int) int {
	return joker.DeckSize / playerCount
}

// CardsSchedule returns the cards-per-round list of block b for playerCount
// players, or nil when either argument is out of range.
func CardsSchedule(b Block, playerCount int) []int {
	if !b.Valid() || playerCount < MinPlayers || playerCount > MaxPlayers {
		return nil
	}
	full := MaxCardsPerRound(playerCount)
	switch b {
	case BlockAscending:
		out := make([]int, 0, full-1)
		for c := 1; c < full; c++ {
			out = append(out, c)
		}
		return out
	case BlockDescending:
		out := make([]int, 0, full-1)
		for c := full - 1; c >= 1; c-- {
			out = append(out, c)
		}
		return out
	default:
		out := make([]int, playerCount)
		for i := range out {
			out[i] = full
		}
		return out
	}
}

// RoundsInBlock returns how many rounds block b has.
func RoundsInBlock(b Block, playerCount int) int {
	return len(CardsSchedule(b, playerCount))
}

// TotalRounds returns the number of rounds in a whole game.
func TotalRounds(playerCount int) int {
	total := 0
	for b := BlockAscending; b <= BlockFullBlind; b++ {
		total += RoundsInBlock(b, playerCount)
	}
	return total
}

// LeftOf returns the seat to the left of seat, which acts after it.
func LeftOf(seat, playerCount int) int {
	return (seat + 1) % playerCount
}

// NeedsTrumpChoice reports whether trump must be chosen by a player: when
// every card was dealt no trump card is turned.
func NeedsTrumpChoice(trumpCard *joker.Card) bool {
	return trumpCard == nil
}

// TrumpFromCard returns the trump suit named by a turned card. A turned joker
// means the round is played without trump.
func TrumpFromCard(trumpCard *joker.Card) *joker.Suit {
	if trumpCard == nil {
		return nil
	}
	s, ok := trumpCard.Suit()
	if !ok {
		return nil
	}
	return &s
}
