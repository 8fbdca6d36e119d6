package scoring

import (
	"fmt"

	"github.com/lox/jokerforbots/internal/rules"
)

// ZeroPremiumBonus is the flat bonus for bidding and taking zero in every
// round of block 1 or 3.
const ZeroPremiumBonus = 500

// Penalty is a deduction a premium earner inflicts on its target.
type Penalty struct {
	Source     int
	Target     int
	Amount     int
	RoundIndex int // round of the block the amount was taken from
}

// String returns a compact description of the penalty
func (p Penalty) String() string {
	return fmt.Sprintf("seat %d -> seat %d: -%d (round %d)", p.Source, p.Target, p.Amount, p.RoundIndex+1)
}

// BlockResult is the settled outcome of one block. Rounds is indexed
// [round][seat] and carries the injected bonuses; the other slices are
// indexed by seat.
type BlockResult struct {
	Block              rules.Block
	Rounds             [][]RoundResult
	PremiumPlayers     []int
	ZeroPremiumPlayers []int
	Bonuses            []int
	Penalties          []Penalty
	PenaltyTotals      []int
	BaseScores         []int
	FinalScores        []int
}

// IsPremium reports whether seat earned a premium of either kind.
func (b BlockResult) IsPremium(seat int) bool {
	for _, p := range b.PremiumPlayers {
		if p == seat {
			return true
		}
	}
	return false
}

// ComputeBlock settles a block from its recorded rounds, indexed
// [round][seat]. The input is not modified.
//
// A seat that matched its bid in every round earns the best of its own scores
// outside the final round, or ZeroPremiumBonus instead when the block allows
// it and the seat bid and took nothing throughout. The bonus lands on the
// seat's last round. Every premium earner then penalizes the nearest seat to
// its left that earned none, by that seat's best positive score outside the
// final round.
func ComputeBlock(block rules.Block, playerCount int, rounds [][]RoundResult) BlockResult {
	res := BlockResult{
		Block:              block,
		Rounds:             make([][]RoundResult, len(rounds)),
		PremiumPlayers:     []int{},
		ZeroPremiumPlayers: []int{},
		Bonuses:            make([]int, playerCount),
		Penalties:          []Penalty{},
		PenaltyTotals:      make([]int, playerCount),
		BaseScores:         make([]int, playerCount),
		FinalScores:        make([]int, playerCount),
	}
	for i, row := range rounds {
		res.Rounds[i] = make([]RoundResult, playerCount)
		copy(res.Rounds[i], row)
	}

	last := len(res.Rounds) - 1
	premium := make([]bool, playerCount)
	if last >= 0 {
		for seat := range playerCount {
			if !matchedEveryRound(res.Rounds, seat) {
				continue
			}
			premium[seat] = true
			res.PremiumPlayers = append(res.PremiumPlayers, seat)

			bonus := 0
			if block.SupportsZeroPremium() && zeroEveryRound(res.Rounds, seat) {
				res.ZeroPremiumPlayers = append(res.ZeroPremiumPlayers, seat)
				bonus = ZeroPremiumBonus
			} else if last >= 1 {
				bonus, _ = bestScore(res.Rounds[:last], seat, false)
			}
			res.Bonuses[seat] = bonus
			res.Rounds[last][seat].ScoreAdjustment += bonus
		}
	}

	for _, source := range res.PremiumPlayers {
		target, ok := penaltyTarget(source, premium)
		if !ok {
			continue
		}
		amount, round := bestScore(res.Rounds[:last], target, true)
		if amount <= 0 {
			continue
		}
		res.Penalties = append(res.Penalties, Penalty{
			Source:     source,
			Target:     target,
			Amount:     amount,
			RoundIndex: round,
		})
		res.PenaltyTotals[target] += amount
	}

	for seat := range playerCount {
		for _, row := range res.Rounds {
			res.BaseScores[seat] += row[seat].Score()
		}
		res.FinalScores[seat] = res.BaseScores[seat] - res.PenaltyTotals[seat]
	}
	return res
}

func matchedEveryRound(rounds [][]RoundResult, seat int) bool {
	for _, row := range rounds {
		if !row[seat].Matched() {
			return false
		}
	}
	return true
}

func zeroEveryRound(rounds [][]RoundResult, seat int) bool {
	for _, row := range rounds {
		if row[seat].Bid != 0 || row[seat].TricksTaken != 0 {
			return false
		}
	}
	return true
}

// bestScore returns the highest score of seat over rounds and the earliest
// round holding it. With positiveOnly, non-positive scores are ignored and
// (0, -1) means there was none.
func bestScore(rounds [][]RoundResult, seat int, positiveOnly bool) (int, int) {
	best, at := 0, -1
	for i, row := range rounds {
		s := row[seat].Score()
		if positiveOnly && s <= 0 {
			continue
		}
		if at < 0 || s > best {
			best, at = s, i
		}
	}
	return best, at
}

// penaltyTarget walks left from source and returns the first seat that is not
// a premium earner.
func penaltyTarget(source int, premium []bool) (int, bool) {
	n := len(premium)
	for step := 1; step < n; step++ {
		seat := rules.LeftOf(source+step-1, n)
		if !premium[seat] {
			return seat, true
		}
	}
	return 0, false
}
